// Package application provides the application interface for refwatch
// commands and the HTTP server.
//
// The Application interface is the contract between the composition root
// (cmd/refwatch/app) and everything that needs its dependencies, so
// commands and handlers can be tested with Mock.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            client, err := app.Client(cmd.Context())
//	            if err != nil {
//	                return err
//	            }
//	            // ... use client
//	            return nil
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    ClientFunc: func(context.Context) (refinerywatch.Client, error) {
//	        return testClient, nil
//	    },
//	}
//	cmd := NewCommand(mock)
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/oskars/refinerywatch"
	"github.com/oskars/refinerywatch/internal/auth"
	"github.com/oskars/refinerywatch/pkg/commit"
)

// Application provides what commands and the server need.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client returns the refinerywatch client, creating it lazily on first
	// use. Every call returns the same instance.
	Client(ctx context.Context) (refinerywatch.Client, error)

	// VCSCommitter returns the committer that writes the data file to
	// version control directly. The commit proxy endpoint serves it. It
	// fails with errors.ErrNotConfigured when no backend is configured.
	VCSCommitter(ctx context.Context) (commit.Committer, error)

	// Sessions returns the cookie session issuer for the HTTP server.
	Sessions() *auth.Sessions

	// Operator returns the persisted CLI session.
	Operator(ctx context.Context) (*auth.FlagSession, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
