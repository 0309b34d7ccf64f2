// Package vcs writes the published refinery list to a version-controlled
// data file. A Backend stores the file; the Committer regenerates it and
// writes it only if the remote revision is the one the caller last saw.
package vcs

import (
	"context"
	"fmt"
	"time"

	"github.com/oskars/refinerywatch/pkg/commit"
	"github.com/oskars/refinerywatch/pkg/constants"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/logging"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

// File is the current content of the data file and its revision token.
type File struct {
	Content  []byte
	Revision string
}

// WriteResult describes a successful write.
type WriteResult struct {
	// Commit identifies the change in the backend (a commit sha, a version id).
	Commit string
	// Revision is the new token to pass to the next write.
	Revision string
}

// Backend reads and conditionally writes the data file.
type Backend interface {
	// Read returns the current file. A missing file yields a File with an
	// empty revision and no content.
	Read(ctx context.Context) (*File, error)

	// Write replaces the file only if its revision still equals revision.
	// An empty revision means the file must not exist yet. A mismatch
	// fails with an error matching errors.ErrConflict.
	Write(ctx context.Context, content []byte, revision, message string) (*WriteResult, error)

	// Name identifies the backend in logs.
	Name() string
}

// Committer implements commit.Committer on top of a Backend.
type Committer struct {
	backend   Backend
	pipelines []refineries.Pipeline
	now       func() time.Time
}

var _ commit.Committer = (*Committer)(nil)

// Option configures a Committer.
type Option func(*Committer)

// WithClock sets the time source used in commit messages.
func WithClock(now func() time.Time) Option {
	return func(c *Committer) { c.now = now }
}

// NewCommitter creates a Committer that writes list and pipelines to backend.
func NewCommitter(backend Backend, pipelines []refineries.Pipeline, opts ...Option) *Committer {
	c := &Committer{
		backend:   backend,
		pipelines: pipelines,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Commit implements commit.Committer. A non-empty revision must match the
// file's current revision. The write itself is conditional on the revision
// read just before it.
func (c *Committer) Commit(ctx context.Context, list []refineries.Refinery, revision string) (*commit.Receipt, error) {
	log := logging.FromContext(ctx).With().Str("backend", c.backend.Name()).Logger()

	if err := refineries.ValidateList(list); err != nil {
		return nil, err
	}

	current, err := c.backend.Read(ctx)
	if err != nil {
		return nil, errors.WrapResource("read", "data file", c.backend.Name(), err)
	}
	if revision != "" && revision != current.Revision {
		log.Warn().
			Str("expected", revision).
			Str("actual", current.Revision).
			Msg("Refusing to overwrite changed data file")
		return nil, errors.NewConflictError("data file", revision, current.Revision)
	}

	content, err := Render(list, c.pipelines)
	if err != nil {
		return nil, err
	}

	message := CommitMessage(c.now())
	res, err := c.backend.Write(ctx, content, current.Revision, message)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("commit", res.Commit).
		Str("revision", res.Revision).
		Int("refineries", len(list)).
		Msg("Data file committed")

	return &commit.Receipt{
		Commit:   res.Commit,
		Revision: res.Revision,
		Message:  fmt.Sprintf("Changes committed to %s successfully!", c.backend.Name()),
	}, nil
}

// CommitMessage returns the commit message for a write at t.
func CommitMessage(t time.Time) string {
	return constants.CommitMessagePrefix + " - " + t.UTC().Format(time.RFC3339)
}
