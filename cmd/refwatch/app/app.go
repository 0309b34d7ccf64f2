// Package app provides the application context and dependency management
// for the refwatch CLI. It centralizes configuration, logging and the
// lazily built refinerywatch client, store and committers.
package app

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/oskars/refinerywatch"
	"github.com/oskars/refinerywatch/internal/auth"
	"github.com/oskars/refinerywatch/internal/intel/gemini"
	"github.com/oskars/refinerywatch/internal/seed"
	"github.com/oskars/refinerywatch/internal/storage"
	"github.com/oskars/refinerywatch/internal/vcs"
	"github.com/oskars/refinerywatch/internal/vcs/github"
	"github.com/oskars/refinerywatch/internal/vcs/s3"
	"github.com/oskars/refinerywatch/pkg/commit"
	"github.com/oskars/refinerywatch/pkg/constants"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/intel"
	store "github.com/oskars/refinerywatch/pkg/storage"
)

// sqliteFile is the database file created under the storage path.
const sqliteFile = "refwatch.db"

// App represents the refwatch application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Lazy-initialized singletons
	mu        sync.RWMutex
	store     store.Store
	client    refinerywatch.Client
	vcs       commit.Committer
	memoryVCS *vcs.MemoryBackend

	sessionsOnce sync.Once
	sessions     *auth.Sessions
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Store returns the local store, opening it on first use.
func (a *App) Store(ctx context.Context) (store.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.storeLocked(ctx)
}

func (a *App) storeLocked(ctx context.Context) (store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	cfg := a.config.Storage
	path := cfg.Path
	if strings.EqualFold(cfg.Driver, storage.DriverSQLite) && filepath.Ext(path) == "" {
		path = filepath.Join(path, sqliteFile)
	}
	s, err := storage.Open(ctx, storage.Config{
		Driver:        cfg.Driver,
		Path:          path,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		RedisPrefix:   cfg.RedisPrefix,
	})
	if err != nil {
		return nil, errors.WrapResource("open", "store", cfg.Driver, err)
	}

	a.logger.Debug().Str("driver", cfg.Driver).Str("path", path).Msg("Opened store")
	a.store = s
	return s, nil
}

// Client returns the refinerywatch client, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Client(ctx context.Context) (refinerywatch.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	s, err := a.storeLocked(ctx)
	if err != nil {
		return nil, err
	}

	committer, err := a.committerLocked(ctx)
	if err != nil {
		return nil, err
	}

	opts := []refinerywatch.Option{
		refinerywatch.WithStore(s),
		refinerywatch.WithCommitter(committer),
	}

	fetcher, err := a.fetcher(ctx)
	if err != nil {
		return nil, err
	}
	if fetcher != nil {
		opts = append(opts, refinerywatch.WithFetcher(fetcher))
	}

	c, err := refinerywatch.New(ctx, opts...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}

	a.client = c
	return c, nil
}

// committerLocked builds the committer the client publishes through.
func (a *App) committerLocked(ctx context.Context) (commit.Committer, error) {
	mode := a.config.CommitMode()
	a.logger.Debug().Str("mode", mode).Msg("Selecting commit mode")

	switch mode {
	case CommitModeHTTP:
		var opts []commit.ClientOption
		if a.config.Commit.APIKey != "" {
			opts = append(opts, commit.WithAPIKey(a.config.Commit.APIKey))
		}
		return commit.NewClient(a.config.Commit.URL, opts...)
	case CommitModeGitHub, CommitModeS3, CommitModeMemory:
		return a.vcsLocked(ctx, mode)
	case CommitModeNone:
		a.logger.Debug().Msg("Remote commits disabled, publishing locally only")
		return commit.Disabled{}, nil
	default:
		return nil, errors.NewConfigError("commit", "unknown commit mode "+mode, nil)
	}
}

// fetcher returns the Gemini fetcher, or nil without an API key.
func (a *App) fetcher(ctx context.Context) (intel.Fetcher, error) {
	if a.config.Intel.APIKey == "" {
		return nil, nil
	}
	f, err := gemini.New(ctx, a.config.Intel.APIKey,
		gemini.WithModel(a.config.Intel.Model),
		gemini.WithTimeout(constants.IntelTimeout),
	)
	if err != nil {
		return nil, errors.WrapResource("create", "intel fetcher", a.config.Intel.Model, err)
	}
	return f, nil
}

// VCSCommitter returns the committer that writes straight to version
// control. It backs the server's commit proxy endpoint.
func (a *App) VCSCommitter(ctx context.Context) (commit.Committer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.vcsLocked(ctx, a.config.CommitBackend())
}

func (a *App) vcsLocked(ctx context.Context, backend string) (commit.Committer, error) {
	if a.vcs != nil {
		return a.vcs, nil
	}

	var b vcs.Backend
	switch backend {
	case CommitModeGitHub:
		gh, err := github.New(github.Config{
			APIURL: a.config.GitHub.APIURL,
			Owner:  a.config.GitHub.Owner,
			Repo:   a.config.GitHub.Repo,
			Path:   a.config.GitHub.Path,
			Branch: a.config.GitHub.Branch,
			Token:  a.config.GitHub.Token,
		})
		if err != nil {
			return nil, err
		}
		b = gh
	case CommitModeS3:
		bucket, err := s3.New(ctx, s3.Config{
			Region:          a.config.S3.Region,
			Bucket:          a.config.S3.Bucket,
			Key:             a.config.S3.Key,
			Endpoint:        a.config.S3.Endpoint,
			AccessKeyID:     a.config.S3.AccessKeyID,
			SecretAccessKey: a.config.S3.SecretAccessKey,
			PathStyle:       a.config.S3.PathStyle,
		})
		if err != nil {
			return nil, err
		}
		b = bucket
	case CommitModeMemory:
		if a.memoryVCS == nil {
			a.memoryVCS = vcs.NewMemoryBackend()
		}
		b = a.memoryVCS
	default:
		return nil, errors.NewConfigError("commit", "no version control backend configured", nil)
	}

	pipelines, err := seed.Pipelines()
	if err != nil {
		return nil, err
	}

	a.logger.Info().Str("backend", b.Name()).Msg("Version control backend ready")
	a.vcs = vcs.NewCommitter(b, pipelines)
	return a.vcs, nil
}

// Sessions returns the cookie session issuer. Without a configured secret
// a random one is generated, so sessions do not survive a restart.
func (a *App) Sessions() *auth.Sessions {
	a.sessionsOnce.Do(func() {
		secret := a.config.Auth.SessionSecret
		if secret == "" {
			secret = uuid.NewString() + uuid.NewString()
			a.logger.Warn().Msg("No session secret configured, sessions will not survive a restart")
		}
		a.sessions = auth.NewSessions(secret, a.checker(), auth.SessionOptions{
			Secure: a.config.Auth.SecureCookies,
		})
	})
	return a.sessions
}

// Operator returns the CLI session persisted in the local store.
func (a *App) Operator(ctx context.Context) (*auth.FlagSession, error) {
	s, err := a.Store(ctx)
	if err != nil {
		return nil, err
	}
	return auth.NewFlagSession(s, a.checker()), nil
}

func (a *App) checker() *auth.Checker {
	return auth.NewChecker(auth.Credentials{
		Username: a.config.Auth.Username,
		Password: a.config.Auth.Password,
	})
}

// Shutdown performs graceful shutdown of the application.
// It closes the store if one was opened.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	a.client = nil
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to close store during shutdown")
		return errors.WrapResource("close", "store", "", err)
	}
	return nil
}
