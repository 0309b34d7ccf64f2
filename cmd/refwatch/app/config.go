package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/oskars/refinerywatch/pkg/constants"
	"github.com/oskars/refinerywatch/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string

	// Config file
	ConfigFile string

	// Logging configuration
	LogFormat string
	LogOutput string

	Storage StorageConfig
	Commit  CommitConfig
	GitHub  GitHubConfig
	S3      S3Config
	Intel   IntelConfig
	Auth    AuthConfig
}

// StorageConfig selects where local state lives.
type StorageConfig struct {
	Driver        string // memory, files, sqlite, redis
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// CommitConfig selects how published data reaches version control.
//
// Mode http posts to a commit proxy at URL; github, s3 and memory write
// directly; none disables remote commits. An empty mode picks http when a
// URL is set, then github or s3 when their credentials are set.
//
// Backend selects what the server's commit proxy writes to and follows the
// same detection when empty.
type CommitConfig struct {
	Mode    string
	URL     string
	APIKey  string
	Backend string
}

// GitHubConfig locates the data file in a GitHub repository.
type GitHubConfig struct {
	Owner  string
	Repo   string
	Path   string
	Branch string
	Token  string
	APIURL string
}

// S3Config locates the data file in an S3 bucket.
type S3Config struct {
	Bucket          string
	Key             string
	Region          string
	Endpoint        string
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
}

// IntelConfig configures the Gemini intelligence fetcher.
type IntelConfig struct {
	Model  string
	APIKey string
}

// AuthConfig holds the operator credentials and the cookie session secret.
type AuthConfig struct {
	Username      string
	Password      string
	SessionSecret string
	SecureCookies bool
}

// Commit modes.
const (
	CommitModeHTTP   = "http"
	CommitModeGitHub = "github"
	CommitModeS3     = "s3"
	CommitModeMemory = "memory"
	CommitModeNone   = "none"
)

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (REFWATCH_* plus well-known provider keys)
// 3. .env files
// 4. Config file (~/.refwatch.yaml or ./.refwatch.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(os.Getenv("REFWATCH_CONFIG"))
}

func loadConfig(configFile string) (*Config, error) {
	// .env files never override the real environment
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("REFWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".refwatch")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	config := &Config{
		Verbose:    v.GetBool("verbose"),
		Quiet:      v.GetBool("quiet"),
		NoColor:    v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:     v.GetString("format"),
		LogLevel:   v.GetString("log.level"),
		ConfigFile: v.ConfigFileUsed(),

		LogFormat: getEnvOrDefault("LOG_FORMAT", v.GetString("log.format")),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", v.GetString("log.output")),

		Storage: StorageConfig{
			Driver:        v.GetString("storage.driver"),
			Path:          v.GetString("storage.path"),
			RedisAddr:     v.GetString("storage.redis_addr"),
			RedisPassword: v.GetString("storage.redis_password"),
			RedisDB:       v.GetInt("storage.redis_db"),
			RedisPrefix:   v.GetString("storage.redis_prefix"),
		},
		Commit: CommitConfig{
			Mode:    strings.ToLower(v.GetString("commit.mode")),
			URL:     v.GetString("commit.url"),
			APIKey:  firstNonEmpty(v.GetString("commit.api_key"), os.Getenv("API_KEY")),
			Backend: strings.ToLower(v.GetString("commit.backend")),
		},
		GitHub: GitHubConfig{
			Owner:  v.GetString("github.owner"),
			Repo:   v.GetString("github.repo"),
			Path:   v.GetString("github.path"),
			Branch: v.GetString("github.branch"),
			Token:  firstNonEmpty(v.GetString("github.token"), os.Getenv("GITHUB_TOKEN")),
			APIURL: v.GetString("github.api_url"),
		},
		S3: S3Config{
			Bucket:          v.GetString("s3.bucket"),
			Key:             v.GetString("s3.key"),
			Region:          v.GetString("s3.region"),
			Endpoint:        v.GetString("s3.endpoint"),
			PathStyle:       v.GetBool("s3.path_style"),
			AccessKeyID:     v.GetString("s3.access_key_id"),
			SecretAccessKey: v.GetString("s3.secret_access_key"),
		},
		Intel: IntelConfig{
			Model:  v.GetString("intel.model"),
			APIKey: firstNonEmpty(v.GetString("intel.api_key"), os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY")),
		},
		Auth: AuthConfig{
			Username:      v.GetString("auth.username"),
			Password:      v.GetString("auth.password"),
			SessionSecret: v.GetString("auth.session_secret"),
			SecureCookies: v.GetBool("auth.secure_cookies"),
		},
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	dataDir := ".refwatch"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".refwatch")
	}

	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")

	v.SetDefault("storage.driver", "files")
	v.SetDefault("storage.path", dataDir)
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.redis_prefix", "refwatch:")

	v.SetDefault("github.owner", constants.DefaultGitHubOwner)
	v.SetDefault("github.repo", constants.DefaultGitHubRepo)
	v.SetDefault("github.path", constants.DefaultGitHubPath)
	v.SetDefault("github.branch", constants.DefaultBranch)

	v.SetDefault("s3.key", constants.DefaultGitHubPath)

	v.SetDefault("intel.model", constants.DefaultIntelModel)

	v.SetDefault("auth.username", constants.DefaultUsername)
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// CommitMode resolves the effective commit mode.
func (c *Config) CommitMode() string {
	if c.Commit.Mode != "" {
		return c.Commit.Mode
	}
	switch {
	case c.Commit.URL != "":
		return CommitModeHTTP
	default:
		return c.detectBackend()
	}
}

// CommitBackend resolves the backend the commit proxy writes to, or
// CommitModeNone.
func (c *Config) CommitBackend() string {
	if c.Commit.Backend != "" {
		return c.Commit.Backend
	}
	switch mode := c.CommitMode(); mode {
	case CommitModeGitHub, CommitModeS3, CommitModeMemory:
		return mode
	default:
		return c.detectBackend()
	}
}

func (c *Config) detectBackend() string {
	switch {
	case c.GitHub.Token != "":
		return CommitModeGitHub
	case c.S3.Bucket != "":
		return CommitModeS3
	default:
		return CommitModeNone
	}
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local is read first so it wins over .env
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
