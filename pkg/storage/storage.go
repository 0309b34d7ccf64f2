// Package storage defines the key/value persistence port used to keep the
// published refinery list, the pending update set and the operator session
// flag across restarts.
package storage

import (
	"context"
	"encoding/json"

	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/logging"
)

// Persisted keys.
const (
	// KeyPublished holds the published refinery list override.
	KeyPublished = "refinery_published_data"
	// KeyProposed holds the pending update set.
	KeyProposed = "refinery_proposed_updates"
	// KeyAuth holds the CLI operator's session flag.
	KeyAuth = "admin_auth"
	// KeyRevision holds the last revision token returned by the commit backend.
	KeyRevision = "refinery_remote_revision"
)

// Store is a synchronous key/value store. A successful Save is visible to
// the next Load. Load reports ok=false for a missing key.
type Store interface {
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LoadJSON decodes the value at key into v. It reports false when the key
// is missing. A value that does not decode yields a ParseError.
func LoadJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	data, ok, err := s.Load(ctx, key)
	if err != nil {
		return false, wrapIO("read", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, errors.WrapParse("json", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it at key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.WrapParse("json", key, err)
	}
	if err := s.Save(ctx, key, data); err != nil {
		return wrapIO("write", key, err)
	}
	return nil
}

// LoadOrDefault decodes key into v and falls back to def when the key is
// missing, unreadable or malformed. Failures are logged, never returned.
func LoadOrDefault[T any](ctx context.Context, s Store, key string, def T) T {
	var v T
	ok, err := LoadJSON(ctx, s, key, &v)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Err(err).
			Str("key", key).
			Msg("Ignoring unreadable persisted state")
		return def
	}
	if !ok {
		return def
	}
	return v
}

// Delete removes every key, ignoring missing ones.
func Delete(ctx context.Context, s Store, keys ...string) error {
	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			return wrapIO("delete", key, err)
		}
	}
	return nil
}

// wrapIO wraps a backend error as an IOError unless the backend already
// returned a typed one.
func wrapIO(operation, key string, err error) error {
	var ioErr *errors.IOError
	var validationErr *errors.ValidationError
	if errors.As(err, &ioErr) || errors.As(err, &validationErr) {
		return err
	}
	return errors.WrapIO(operation, key, err)
}
