package auth

import (
	"context"

	"github.com/oskars/refinerywatch/pkg/logging"
	"github.com/oskars/refinerywatch/pkg/storage"
)

// FlagSession is the CLI operator session: a boolean persisted under
// storage.KeyAuth, set by login and removed by logout.
type FlagSession struct {
	store   storage.Store
	checker *Checker
}

var _ Authorizer = (*FlagSession)(nil)

// NewFlagSession creates a FlagSession backed by store.
func NewFlagSession(store storage.Store, checker *Checker) *FlagSession {
	return &FlagSession{store: store, checker: checker}
}

// Login checks the credentials and persists the session flag.
func (f *FlagSession) Login(ctx context.Context, username, password string) error {
	if err := f.checker.Check(username, password); err != nil {
		return err
	}
	return storage.SaveJSON(ctx, f.store, storage.KeyAuth, true)
}

// Logout removes the session flag.
func (f *FlagSession) Logout(ctx context.Context) error {
	return storage.Delete(ctx, f.store, storage.KeyAuth)
}

// Authorized implements Authorizer. An unreadable flag counts as logged out.
func (f *FlagSession) Authorized(ctx context.Context) bool {
	var ok bool
	if _, err := storage.LoadJSON(ctx, f.store, storage.KeyAuth, &ok); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Ignoring unreadable session flag")
		return false
	}
	return ok
}

// Username returns the operator username logins are checked against.
func (f *FlagSession) Username() string { return f.checker.Username() }

// State reports whether an operator password is configured.
func (f *FlagSession) State() State { return f.checker.State() }
