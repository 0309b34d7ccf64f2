package refinerywatch

import (
	"context"

	"github.com/oskars/refinerywatch/pkg/editor"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/logging"
	"github.com/oskars/refinerywatch/pkg/reconciler"
	"github.com/oskars/refinerywatch/pkg/refineries"
	"github.com/oskars/refinerywatch/pkg/storage"
)

// Compile-time interface check to ensure proper implementation.
var _ Stager = (*client)(nil)

// Staging is the review view of the published list merged with the
// pending updates.
type Staging struct {
	Rows    []reconciler.Row   `json:"rows" yaml:"rows"`
	Summary reconciler.Summary `json:"summary" yaml:"summary"`
}

// Stager reads and edits the pending update set. Row indexes refer to the
// order returned by Rows at the time of the call. Every change is
// persisted before it becomes visible.
type Stager interface {
	// Updates returns a copy of the pending update set.
	Updates() []refineries.Update

	// Rows reconciles the published list with the pending updates.
	Rows() []reconciler.Row

	// Staging returns the rows together with their summary.
	Staging() Staging

	// SetUpdates replaces the pending update set.
	SetUpdates(ctx context.Context, updates []refineries.Update) error

	// SetField edits one field of the row at index.
	SetField(ctx context.Context, index int, field editor.Field, value any) error

	// AddVideoURL appends an empty evidence URL to the row at index.
	AddVideoURL(ctx context.Context, index int) error

	// SetVideoURL replaces one evidence URL of the row at index.
	SetVideoURL(ctx context.Context, index, urlIndex int, value string) error

	// RemoveVideoURL removes one evidence URL of the row at index.
	RemoveVideoURL(ctx context.Context, index, urlIndex int) error
}

// Updates returns a copy of the pending update set.
func (c *client) Updates() []refineries.Update {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return refineries.CloneUpdates(c.proposed)
}

// Rows reconciles the published list with the pending updates.
func (c *client) Rows() []reconciler.Row {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return reconciler.Reconcile(c.published, c.proposed)
}

// Staging returns the rows together with their summary.
func (c *client) Staging() Staging {
	rows := c.Rows()
	return Staging{Rows: rows, Summary: reconciler.Summarize(rows)}
}

// SetUpdates replaces the pending update set.
func (c *client) SetUpdates(ctx context.Context, updates []refineries.Update) error {
	if err := refineries.ValidateUpdates(updates); err != nil {
		return err
	}
	return c.stage(ctx, "set_updates", func([]reconciler.Row, []refineries.Update) ([]refineries.Update, error) {
		return refineries.CloneUpdates(updates), nil
	})
}

// SetField edits one field of the row at index.
func (c *client) SetField(ctx context.Context, index int, field editor.Field, value any) error {
	return c.stage(ctx, "set_field", func(rows []reconciler.Row, updates []refineries.Update) ([]refineries.Update, error) {
		return editor.SetField(rows, updates, index, field, value)
	})
}

// AddVideoURL appends an empty evidence URL to the row at index.
func (c *client) AddVideoURL(ctx context.Context, index int) error {
	return c.stage(ctx, "add_video_url", func(rows []reconciler.Row, updates []refineries.Update) ([]refineries.Update, error) {
		return editor.AddVideoURL(rows, updates, index)
	})
}

// SetVideoURL replaces one evidence URL of the row at index.
func (c *client) SetVideoURL(ctx context.Context, index, urlIndex int, value string) error {
	return c.stage(ctx, "set_video_url", func(rows []reconciler.Row, updates []refineries.Update) ([]refineries.Update, error) {
		return editor.SetVideoURL(rows, updates, index, urlIndex, value)
	})
}

// RemoveVideoURL removes one evidence URL of the row at index.
func (c *client) RemoveVideoURL(ctx context.Context, index, urlIndex int) error {
	return c.stage(ctx, "remove_video_url", func(rows []reconciler.Row, updates []refineries.Update) ([]refineries.Update, error) {
		return editor.RemoveVideoURL(rows, updates, index, urlIndex)
	})
}

// stage computes a new update set from the current rows, persists it and
// swaps it in. Staging is closed while a publish is in flight.
func (c *client) stage(ctx context.Context, op string, fn func([]reconciler.Row, []refineries.Update) ([]refineries.Update, error)) error {
	c.mu.Lock()
	if c.publishing.Load() {
		c.mu.Unlock()
		return errors.ErrInFlight
	}

	rows := reconciler.Reconcile(c.published, c.proposed)
	next, err := fn(rows, c.proposed)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if next == nil {
		next = []refineries.Update{}
	}
	if err := storage.SaveJSON(ctx, c.options.store, storage.KeyProposed, next); err != nil {
		c.mu.Unlock()
		return err
	}
	c.proposed = next
	c.mu.Unlock()

	logging.FromContext(ctx).Debug().
		Str("operation", op).
		Int("staged", len(next)).
		Msg("Staged updates changed")

	c.hooks.triggerStagingChanged(next)
	return nil
}
