// Package auth gates editing behind the single configured operator
// credential. The HTTP server issues signed cookie sessions; the CLI keeps
// a persisted session flag. Both satisfy Authorizer.
package auth

import (
	"context"
	"crypto/subtle"

	"github.com/oskars/refinerywatch/pkg/constants"
	"github.com/oskars/refinerywatch/pkg/errors"
)

// Authorizer reports whether the caller behind ctx may edit.
type Authorizer interface {
	Authorized(ctx context.Context) bool
}

// State represents whether a credential is configured.
type State int

const (
	// StateConfigured means a password is set.
	StateConfigured State = iota
	// StateMissing means no password is set and every login fails.
	StateMissing
)

func (s State) String() string {
	if s == StateConfigured {
		return "configured"
	}
	return "missing"
}

// Credentials is the operator's username and password.
type Credentials struct {
	Username string
	Password string
}

// Checker verifies login attempts against Credentials.
type Checker struct {
	creds Credentials
}

// NewChecker creates a Checker. The username defaults to "admin".
func NewChecker(creds Credentials) *Checker {
	if creds.Username == "" {
		creds.Username = constants.DefaultUsername
	}
	return &Checker{creds: creds}
}

// State reports whether a password is configured.
func (c *Checker) State() State {
	if c.creds.Password == "" {
		return StateMissing
	}
	return StateConfigured
}

// Username returns the configured username.
func (c *Checker) Username() string { return c.creds.Username }

// Check compares username and password in constant time.
func (c *Checker) Check(username, password string) error {
	if c.State() == StateMissing {
		return errors.NewAuthenticationError("password", "no operator password configured", errors.ErrNotConfigured)
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.creds.Username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.creds.Password))
	if userOK&passOK != 1 {
		return errors.NewAuthenticationError("password", "Invalid credentials", nil)
	}
	return nil
}

type userKey struct{}

// WithUser marks ctx as belonging to an authenticated operator.
func WithUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, userKey{}, username)
}

// User returns the authenticated operator in ctx.
func User(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(userKey{}).(string)
	return u, ok && u != ""
}
