package refinerywatch

import (
	"context"
	"fmt"
	"time"

	"github.com/oskars/refinerywatch/pkg/commit"
	"github.com/oskars/refinerywatch/pkg/differ"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/logging"
	"github.com/oskars/refinerywatch/pkg/publisher"
	"github.com/oskars/refinerywatch/pkg/refineries"
	"github.com/oskars/refinerywatch/pkg/storage"
)

// Compile-time interface check to ensure proper implementation.
var _ Publisher = (*client)(nil)

// Publisher merges staged updates into the published list and commits the
// result to version control.
type Publisher interface {
	// Publish merges the pending updates, persists the new list locally,
	// commits it and clears the pending updates. A commit failure is
	// reported in the result, not as an error: local data is kept either way.
	Publish(ctx context.Context) (*PublishResult, error)

	// Recommit sends the current published list to version control again
	// without touching the pending updates. With force the revision check
	// is skipped.
	Recommit(ctx context.Context, force bool) (*PublishResult, error)

	// Publishing reports whether a publish or recommit is in flight.
	Publishing() bool
}

// PublishResult describes a publish or recommit.
type PublishResult struct {
	Refineries  []refineries.Refinery `json:"refineries"`
	Changeset   *differ.Changeset     `json:"changeset,omitempty"`
	Receipt     *commit.Receipt       `json:"receipt,omitempty"`
	Outcome     commit.Outcome        `json:"outcome"`
	CommitErr   error                 `json:"-"`
	PublishedAt time.Time             `json:"published_at"`
}

// Committed reports whether the remote commit succeeded.
func (r *PublishResult) Committed() bool {
	return r.Outcome == commit.OutcomeCommitted
}

// Warning returns the message shown to the operator when the remote
// commit failed, or "" when it succeeded.
func (r *PublishResult) Warning() string {
	const safe = "Your changes are saved locally."
	switch r.Outcome {
	case commit.OutcomeCommitted:
		return ""
	case commit.OutcomeDisabled:
		return "Published locally. Remote commit is not configured. " + safe
	case commit.OutcomeUnreachable:
		return "Published locally, but the commit server could not be reached. " + safe +
			" Recommit once the server is available."
	case commit.OutcomeConflict:
		return "Published locally, but the remote data changed since it was last read. " + safe +
			" Review the remote file, then recommit with force to overwrite it."
	default:
		msg := "Published locally, but the commit server rejected the update"
		if r.CommitErr != nil {
			msg += fmt.Sprintf(": %v", r.CommitErr)
		}
		return msg + ". " + safe
	}
}

// Publishing reports whether a publish or recommit is in flight.
func (c *client) Publishing() bool {
	return c.publishing.Load()
}

// Publish merges the pending updates into the published list.
func (c *client) Publish(ctx context.Context) (*PublishResult, error) {
	if !c.publishing.CompareAndSwap(false, true) {
		return nil, errors.ErrInFlight
	}
	defer c.publishing.Store(false)

	ctx = logging.WithOperation(ctx, "publish")
	log := logging.FromContext(ctx)

	// merge and persist locally before anything leaves the process
	c.mu.Lock()
	if len(c.proposed) == 0 {
		c.mu.Unlock()
		return nil, errors.ErrNothingToPublish
	}
	merged := publisher.Apply(c.published, c.proposed)
	if err := storage.SaveJSON(ctx, c.options.store, storage.KeyPublished, merged.Refineries); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.published = merged.Refineries
	revision := c.revision
	c.mu.Unlock()

	log.Info().
		Int("refineries", len(merged.Refineries)).
		Str("changes", merged.Changeset.String()).
		Msg("Published refinery list saved locally")

	result := c.commit(ctx, merged.Refineries, revision)
	result.Changeset = merged.Changeset

	// the stage is cleared whatever the commit outcome, including a
	// cancelled caller
	c.mu.Lock()
	c.proposed = []refineries.Update{}
	if err := storage.SaveJSON(context.WithoutCancel(ctx), c.options.store, storage.KeyProposed, c.proposed); err != nil {
		log.Error().Err(err).Msg("Failed to persist cleared staged updates")
	}
	c.mu.Unlock()

	c.hooks.triggerChangeset(merged.Changeset)
	c.hooks.triggerStagingChanged(nil)
	c.hooks.triggerPublished(*result)

	return result, nil
}

// Recommit sends the current published list to version control again.
func (c *client) Recommit(ctx context.Context, force bool) (*PublishResult, error) {
	if !c.publishing.CompareAndSwap(false, true) {
		return nil, errors.ErrInFlight
	}
	defer c.publishing.Store(false)

	ctx = logging.WithOperation(ctx, "recommit")

	c.mu.RLock()
	list := refineries.CloneAll(c.published)
	revision := c.revision
	c.mu.RUnlock()
	if force {
		revision = ""
	}

	result := c.commit(ctx, list, revision)
	c.hooks.triggerPublished(*result)
	return result, nil
}

// commit hands list to the committer and records the new revision on
// success. It never fails: the outcome is carried in the result.
func (c *client) commit(ctx context.Context, list []refineries.Refinery, revision string) *PublishResult {
	log := logging.FromContext(ctx)

	receipt, err := c.options.committer.Commit(ctx, refineries.CloneAll(list), revision)
	if err == nil && receipt == nil {
		receipt = &commit.Receipt{}
	}
	result := &PublishResult{
		Refineries:  refineries.CloneAll(list),
		Receipt:     receipt,
		Outcome:     commit.Classify(err),
		CommitErr:   err,
		PublishedAt: c.options.now().UTC(),
	}

	if err != nil {
		log.Warn().
			Err(err).
			Str("outcome", string(result.Outcome)).
			Msg("Remote commit failed, local data kept")
		return result
	}

	log.Info().
		Str("commit", receipt.Commit).
		Str("revision", receipt.Revision).
		Msg("Refinery list committed")

	if receipt.Revision != "" {
		c.mu.Lock()
		c.revision = receipt.Revision
		if err := storage.SaveJSON(context.WithoutCancel(ctx), c.options.store, storage.KeyRevision, receipt.Revision); err != nil {
			log.Error().Err(err).Msg("Failed to persist remote revision")
		}
		c.mu.Unlock()
	}
	return result
}
