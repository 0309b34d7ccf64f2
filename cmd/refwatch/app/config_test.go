package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oskars/refinerywatch/pkg/constants"
)

// isolate points HOME at an empty directory and clears the variables the
// loader falls back to, so a developer's own setup cannot leak in.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"REFWATCH_CONFIG", "API_KEY", "GITHUB_TOKEN", "GEMINI_API_KEY", "GOOGLE_API_KEY",
		"NO_COLOR", "LOG_FORMAT", "LOG_OUTPUT",
		"REFWATCH_COMMIT_MODE", "REFWATCH_COMMIT_URL", "REFWATCH_COMMIT_BACKEND",
		"REFWATCH_STORAGE_DRIVER", "REFWATCH_S3_BUCKET", "REFWATCH_AUTH_PASSWORD",
	} {
		t.Setenv(key, "")
	}
	return home
}

// TestLoadConfig verifies the defaults.
func TestLoadConfig(t *testing.T) {
	home := isolate(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.LogFormat != "auto" {
		t.Errorf("LogFormat = %q, want auto", config.LogFormat)
	}
	if config.Storage.Driver != "files" {
		t.Errorf("Storage.Driver = %q, want files", config.Storage.Driver)
	}
	if want := filepath.Join(home, ".refwatch"); config.Storage.Path != want {
		t.Errorf("Storage.Path = %q, want %q", config.Storage.Path, want)
	}
	if config.GitHub.Path != constants.DefaultGitHubPath {
		t.Errorf("GitHub.Path = %q, want %q", config.GitHub.Path, constants.DefaultGitHubPath)
	}
	if config.Auth.Username != constants.DefaultUsername {
		t.Errorf("Auth.Username = %q, want %q", config.Auth.Username, constants.DefaultUsername)
	}
	if mode := config.CommitMode(); mode != CommitModeNone {
		t.Errorf("CommitMode() = %q, want none", mode)
	}
}

// TestConfig_EnvironmentVariables verifies REFWATCH_* and fallback variables.
func TestConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)
	t.Setenv("REFWATCH_STORAGE_DRIVER", "memory")
	t.Setenv("REFWATCH_COMMIT_URL", "https://commit.example.com/api/commit")
	t.Setenv("API_KEY", "proxy-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("REFWATCH_AUTH_PASSWORD", "hunter2")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Storage.Driver != "memory" {
		t.Errorf("Storage.Driver = %q, want memory", config.Storage.Driver)
	}
	if config.Commit.APIKey != "proxy-key" {
		t.Errorf("Commit.APIKey = %q, want proxy-key", config.Commit.APIKey)
	}
	if config.Intel.APIKey != "gemini-key" {
		t.Errorf("Intel.APIKey = %q, want gemini-key", config.Intel.APIKey)
	}
	if config.Auth.Password != "hunter2" {
		t.Errorf("Auth.Password = %q, want hunter2", config.Auth.Password)
	}
	if mode := config.CommitMode(); mode != CommitModeHTTP {
		t.Errorf("CommitMode() = %q, want http", mode)
	}
}

// TestConfig_File verifies an explicit config file.
func TestConfig_File(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "refwatch.yaml")
	content := `
storage:
  driver: sqlite
  path: /var/lib/refwatch
commit:
  mode: memory
github:
  owner: acme
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}

	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", config.ConfigFile, path)
	}
	if config.Storage.Driver != "sqlite" || config.Storage.Path != "/var/lib/refwatch" {
		t.Errorf("Storage = %+v", config.Storage)
	}
	if config.GitHub.Owner != "acme" {
		t.Errorf("GitHub.Owner = %q, want acme", config.GitHub.Owner)
	}
	if config.GitHub.Repo != constants.DefaultGitHubRepo {
		t.Errorf("GitHub.Repo = %q, want default", config.GitHub.Repo)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", config.LogLevel)
	}
	if backend := config.CommitBackend(); backend != CommitModeMemory {
		t.Errorf("CommitBackend() = %q, want memory", backend)
	}
}

// TestConfig_MissingExplicitFile verifies that a named file must exist.
func TestConfig_MissingExplicitFile(t *testing.T) {
	isolate(t)

	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("loadConfig() succeeded for a missing file")
	}
}

// TestConfig_CommitResolution verifies mode and backend detection.
func TestConfig_CommitResolution(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantMode    string
		wantBackend string
	}{
		{
			name:        "nothing configured",
			wantMode:    CommitModeNone,
			wantBackend: CommitModeNone,
		},
		{
			name:        "proxy url with github token behind it",
			config:      Config{Commit: CommitConfig{URL: "http://proxy"}, GitHub: GitHubConfig{Token: "t"}},
			wantMode:    CommitModeHTTP,
			wantBackend: CommitModeGitHub,
		},
		{
			name:        "s3 bucket",
			config:      Config{S3: S3Config{Bucket: "data"}},
			wantMode:    CommitModeS3,
			wantBackend: CommitModeS3,
		},
		{
			name:        "github token wins over bucket",
			config:      Config{GitHub: GitHubConfig{Token: "t"}, S3: S3Config{Bucket: "data"}},
			wantMode:    CommitModeGitHub,
			wantBackend: CommitModeGitHub,
		},
		{
			name:        "explicit mode and backend",
			config:      Config{Commit: CommitConfig{Mode: CommitModeNone, Backend: CommitModeMemory}, GitHub: GitHubConfig{Token: "t"}},
			wantMode:    CommitModeNone,
			wantBackend: CommitModeMemory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.CommitMode(); got != tt.wantMode {
				t.Errorf("CommitMode() = %q, want %q", got, tt.wantMode)
			}
			if got := tt.config.CommitBackend(); got != tt.wantBackend {
				t.Errorf("CommitBackend() = %q, want %q", got, tt.wantBackend)
			}
		})
	}
}

// TestConfig_UpdateFromFlags verifies flag precedence.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "warn"}

	config.UpdateFromFlags(true, false, true, "", "")
	if !config.Verbose || !config.NoColor {
		t.Errorf("flags not applied: %+v", config)
	}
	if config.Format != "yaml" || config.LogLevel != "warn" {
		t.Errorf("empty flags overwrote values: %+v", config)
	}

	config.UpdateFromFlags(false, false, false, "json", "trace")
	if config.Format != "json" || config.LogLevel != "trace" {
		t.Errorf("flags did not override: %+v", config)
	}
	if !config.Verbose {
		t.Error("Verbose was reset by a later call")
	}
}
