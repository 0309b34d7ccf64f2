package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/oskars/refinerywatch"
	"github.com/oskars/refinerywatch/internal/auth"
	"github.com/oskars/refinerywatch/pkg/commit"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/logging"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	ClientFunc       func(ctx context.Context) (refinerywatch.Client, error)
	VCSCommitterFunc func(ctx context.Context) (commit.Committer, error)
	SessionsFunc     func() *auth.Sessions
	OperatorFunc     func(ctx context.Context) (*auth.FlagSession, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)

// Client returns a client using the mock function or a not-configured error.
func (m *Mock) Client(ctx context.Context) (refinerywatch.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(ctx)
	}
	return nil, errors.NewConfigError("client", "no client in mock", nil)
}

// VCSCommitter returns a committer using the mock function or a
// not-configured error.
func (m *Mock) VCSCommitter(ctx context.Context) (commit.Committer, error) {
	if m.VCSCommitterFunc != nil {
		return m.VCSCommitterFunc(ctx)
	}
	return nil, errors.NewConfigError("commit", "no version control backend configured", nil)
}

// Sessions returns a session issuer using the mock function or one with a
// fixed test secret and password "test".
func (m *Mock) Sessions() *auth.Sessions {
	if m.SessionsFunc != nil {
		return m.SessionsFunc()
	}
	return auth.NewSessions("test-secret", auth.NewChecker(auth.Credentials{Password: "test"}), auth.SessionOptions{})
}

// Operator returns the CLI session using the mock function or a
// not-configured error.
func (m *Mock) Operator(ctx context.Context) (*auth.FlagSession, error) {
	if m.OperatorFunc != nil {
		return m.OperatorFunc(ctx)
	}
	return nil, errors.NewConfigError("operator", "no operator session in mock", nil)
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	return logging.NewNopLogger()
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }
