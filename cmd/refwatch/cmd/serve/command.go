// Package serve provides the HTTP server command for the refwatch CLI.
package serve

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/oskars/refinerywatch/cmd/application"
	"github.com/oskars/refinerywatch/internal/cmd/constants"
	"github.com/oskars/refinerywatch/internal/cmd/emoji"
	"github.com/oskars/refinerywatch/internal/server"
	pkgconstants "github.com/oskars/refinerywatch/pkg/constants"
	"github.com/oskars/refinerywatch/pkg/errors"
)

// options holds the flag values. Flags bind straight into the embedded
// server config; the cache TTL is taken in seconds.
type options struct {
	server.Config
	cacheTTLSeconds int
}

// NewCommand creates the serve command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd, _ := newCommand(app)
	return cmd
}

func newCommand(app application.Application) (*cobra.Command, *options) {
	opts := &options{Config: server.DefaultConfig()}
	opts.cacheTTLSeconds = int(opts.CacheTTL / time.Second)

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: constants.GroupCore,
		Short:   "Start the REST API server with WebSocket and SSE support",
		Long: `Start the refinery tracker API server.

The public map reads refineries, pipelines and statistics without logging in.
An operator signs in with a cookie session to stage updates, fetch intel and
publish. Published lists are committed through the configured backend, and the
commit proxy (POST /api/commit-refineries) requires the API key when one is set.

Live updates stream over WebSocket (/api/v1/updates/ws) and SSE
(/api/v1/updates/stream). Prometheus metrics are served on /metrics.`,
		Example: `  # Start on default port 8080
  refwatch serve

  # Protect the commit proxy with an API key
  refwatch serve --api-key "$API_KEY"

  # Allow a browser front end
  refwatch serve --cors-origins "https://refinerywatch.example"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.resolve()
			if err != nil {
				return err
			}
			return run(cmd, app, cfg)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.Port, "port", "p", opts.Port, "Server port (env HTTP_PORT)")
	flags.StringVar(&opts.Host, "host", opts.Host, "Bind address (env HTTP_HOST)")
	flags.StringVar(&opts.PathPrefix, "prefix", opts.PathPrefix, "API path prefix")

	flags.BoolVar(&opts.CORSEnabled, "cors", opts.CORSEnabled, "Enable CORS for all origins")
	flags.StringSliceVar(&opts.CORSOrigins, "cors-origins", opts.CORSOrigins, "Allowed CORS origins (comma-separated)")

	flags.StringVar(&opts.APIKey, "api-key", "", "API key required by the commit proxy (env API_KEY)")
	flags.StringVar(&opts.AuthHeader, "auth-header", opts.AuthHeader, "Commit proxy API key header name")

	flags.IntVar(&opts.RateLimit, "rate-limit", opts.RateLimit, "Requests per minute per IP (0 to disable)")
	flags.IntVar(&opts.cacheTTLSeconds, "cache-ttl", opts.cacheTTLSeconds, "Cache TTL in seconds")

	flags.DurationVar(&opts.ReadTimeout, "read-timeout", opts.ReadTimeout, "HTTP read timeout")
	flags.DurationVar(&opts.WriteTimeout, "write-timeout", opts.WriteTimeout, "HTTP write timeout")
	flags.DurationVar(&opts.IdleTimeout, "idle-timeout", opts.IdleTimeout, "HTTP idle timeout")

	flags.BoolVar(&opts.MetricsEnabled, "metrics", opts.MetricsEnabled, "Enable metrics endpoint")

	return cmd, opts
}

// resolve applies environment overrides and validates the result. The
// flag values themselves are left untouched.
func (o *options) resolve() (server.Config, error) {
	cfg := o.Config
	cfg.CORSOrigins = append([]string(nil), o.CORSOrigins...)
	cfg.CacheTTL = time.Duration(o.cacheTTLSeconds) * time.Second

	if env := os.Getenv("HTTP_PORT"); env != "" {
		port, err := strconv.Atoi(env)
		if err != nil {
			return cfg, errors.NewValidationError("HTTP_PORT", env, "must be a number")
		}
		cfg.Port = port
	}
	if env := os.Getenv("HTTP_HOST"); env != "" {
		cfg.Host = env
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("API_KEY")
	}
	cfg.AuthEnabled = cfg.APIKey != ""

	if cfg.Port < 1 || cfg.Port > 65535 {
		return cfg, errors.NewValidationError("port", cfg.Port, "must be between 1 and 65535")
	}
	if cfg.CacheTTL < 0 {
		return cfg, errors.NewValidationError("cache-ttl", o.cacheTTLSeconds, "must not be negative")
	}
	return cfg, nil
}

// run binds the listener, serves until the command context is cancelled
// and then drains connections.
func run(cmd *cobra.Command, app application.Application, cfg server.Config) error {
	logger := app.Logger()
	out := cmd.OutOrStdout()

	srv, err := server.New(app, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WrapResource("listen", "address", addr, err)
	}

	srv.Start()
	httpServer := &http.Server{
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	logger.Info().
		Str("addr", listener.Addr().String()).
		Str("prefix", cfg.PathPrefix).
		Bool("cors", cfg.CORSEnabled || len(cfg.CORSOrigins) > 0).
		Bool("commit_auth", cfg.AuthEnabled).
		Int("rate_limit", cfg.RateLimit).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("API server listening")
	fmt.Fprintf(out, "API server listening on http://%s%s\n", listener.Addr(), cfg.PathPrefix)
	fmt.Fprintln(out, "   Press Ctrl+C to stop")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		stop(httpServer, srv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)

	case <-cmd.Context().Done():
		fmt.Fprintf(out, "\n%s Shutting down API server...\n", emoji.Error)
		if err := stop(httpServer, srv, logger); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s API server stopped gracefully\n", emoji.Success)
		return nil
	}
}

// stop drains HTTP connections, then stops the hub, broadcaster and broker.
func stop(httpServer *http.Server, srv *server.Server, logger *zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), pkgconstants.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("Background services shutdown had issues")
	}
	logger.Info().Msg("Server stopped")
	return nil
}
