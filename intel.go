package refinerywatch

import (
	"context"

	"github.com/oskars/refinerywatch/pkg/constants"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/intel"
	"github.com/oskars/refinerywatch/pkg/logging"
	"github.com/oskars/refinerywatch/pkg/refineries"
	"github.com/oskars/refinerywatch/pkg/storage"
)

// Compile-time interface check to ensure proper implementation.
var _ Intel = (*client)(nil)

// Intel fetches suggested updates from the configured intelligence source.
type Intel interface {
	// FetchIntel researches every published refinery and replaces the
	// pending update set with the suggestions. On failure the pending
	// updates are kept and the latest report carries a failure message.
	FetchIntel(ctx context.Context) (*intel.Report, error)

	// LatestReport returns the last fetch result, if any.
	LatestReport() (intel.Report, bool)

	// Fetching reports whether a fetch is in flight.
	Fetching() bool
}

// Fetching reports whether a fetch is in flight.
func (c *client) Fetching() bool {
	return c.fetching.Load()
}

// LatestReport returns the last fetch result, if any.
func (c *client) LatestReport() (intel.Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.report == nil {
		return intel.Report{}, false
	}
	r := *c.report
	r.Updates = refineries.CloneUpdates(r.Updates)
	r.Sources = append([]intel.GroundingChunk(nil), r.Sources...)
	return r, true
}

// FetchIntel replaces the pending update set with fetched suggestions.
func (c *client) FetchIntel(ctx context.Context) (*intel.Report, error) {
	if c.options.fetcher == nil {
		return nil, errors.NewConfigError("intel", "no intelligence source configured", nil)
	}
	if !c.fetching.CompareAndSwap(false, true) {
		return nil, errors.ErrInFlight
	}
	defer c.fetching.Store(false)

	ctx = logging.WithOperation(ctx, "fetch_intel")
	log := logging.FromContext(ctx)

	c.mu.RLock()
	targets := intel.Targets(c.published)
	c.mu.RUnlock()

	log.Info().Int("targets", len(targets)).Msg("Fetching intelligence report")

	report, err := c.options.fetcher.Fetch(ctx, targets)
	if err == nil && report == nil {
		err = errors.NewResourceError("fetch", "intelligence report", "", errors.ErrUnavailable)
	}
	if err != nil {
		failed := intel.Report{Updates: []refineries.Update{}, Summary: constants.IntelFailureMessage}
		c.mu.Lock()
		c.report = &failed
		c.mu.Unlock()

		log.Error().Err(err).Msg("Intelligence fetch failed")
		c.hooks.triggerIntelCompleted(failed, err)
		return nil, err
	}

	intel.Normalize(report)

	c.mu.Lock()
	if c.publishing.Load() {
		c.mu.Unlock()
		return nil, errors.ErrInFlight
	}
	if err := storage.SaveJSON(ctx, c.options.store, storage.KeyProposed, report.Updates); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if discarded := len(c.proposed); discarded > 0 {
		log.Warn().Int("discarded_updates", discarded).Msg("Intelligence report replaces pending updates")
	}
	c.proposed = refineries.CloneUpdates(report.Updates)
	stored := *report
	stored.Updates = refineries.CloneUpdates(report.Updates)
	c.report = &stored
	c.mu.Unlock()

	log.Info().
		Int("updates", len(report.Updates)).
		Int("sources", len(report.Sources)).
		Msg("Intelligence report applied to staging")

	c.hooks.triggerStagingChanged(report.Updates)
	c.hooks.triggerIntelCompleted(stored, nil)
	return report, nil
}
