package refinerywatch

import (
	"sync"

	"github.com/oskars/refinerywatch/pkg/differ"
	"github.com/oskars/refinerywatch/pkg/intel"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

// Compile-time interface check to ensure proper implementation.
var _ Hooks = (*client)(nil)

// Hook function types for refinery events
type (
	// RefineryAddedHook is called when publishing creates a refinery
	RefineryAddedHook func(refinery refineries.Refinery)

	// RefineryUpdatedHook is called when publishing changes a refinery
	RefineryUpdatedHook func(old, new refineries.Refinery)

	// PublishedHook is called after every publish or recommit attempt
	PublishedHook func(result PublishResult)

	// StagingChangedHook is called with the new update set after every change
	StagingChangedHook func(updates []refineries.Update)

	// IntelCompletedHook is called when an intelligence fetch finishes
	IntelCompletedHook func(report intel.Report, err error)
)

// Hooks registers event callbacks. Callbacks run synchronously on the
// calling goroutine after the client lock is released.
type Hooks interface {
	OnRefineryAdded(fn RefineryAddedHook)
	OnRefineryUpdated(fn RefineryUpdatedHook)
	OnPublished(fn PublishedHook)
	OnStagingChanged(fn StagingChangedHook)
	OnIntelCompleted(fn IntelCompletedHook)
}

// hooks manages event callbacks for client changes
type hooks struct {
	mu               sync.RWMutex
	onRefineryAdded  []RefineryAddedHook
	onRefineryUpdate []RefineryUpdatedHook
	onPublished      []PublishedHook
	onStagingChanged []StagingChangedHook
	onIntelCompleted []IntelCompletedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnRefineryAdded registers a callback for when refineries are added.
func (c *client) OnRefineryAdded(fn RefineryAddedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onRefineryAdded = append(c.hooks.onRefineryAdded, fn)
}

// OnRefineryUpdated registers a callback for when refineries are updated.
func (c *client) OnRefineryUpdated(fn RefineryUpdatedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onRefineryUpdate = append(c.hooks.onRefineryUpdate, fn)
}

// OnPublished registers a callback for publish and recommit attempts.
func (c *client) OnPublished(fn PublishedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onPublished = append(c.hooks.onPublished, fn)
}

// OnStagingChanged registers a callback for update set changes.
func (c *client) OnStagingChanged(fn StagingChangedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onStagingChanged = append(c.hooks.onStagingChanged, fn)
}

// OnIntelCompleted registers a callback for finished intelligence fetches.
func (c *client) OnIntelCompleted(fn IntelCompletedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onIntelCompleted = append(c.hooks.onIntelCompleted, fn)
}

// triggerChangeset fires added and updated hooks for a publish changeset.
func (h *hooks) triggerChangeset(cs *differ.Changeset) {
	if cs == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, r := range cs.Added {
		for _, hook := range h.onRefineryAdded {
			hook(r.Clone())
		}
	}
	for _, u := range cs.Updated {
		for _, hook := range h.onRefineryUpdate {
			hook(u.Existing.Clone(), u.New.Clone())
		}
	}
}

func (h *hooks) triggerPublished(result PublishResult) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onPublished {
		hook(result)
	}
}

func (h *hooks) triggerStagingChanged(updates []refineries.Update) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onStagingChanged {
		hook(refineries.CloneUpdates(updates))
	}
}

func (h *hooks) triggerIntelCompleted(report intel.Report, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onIntelCompleted {
		hook(report, err)
	}
}
