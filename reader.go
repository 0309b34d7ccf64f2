package refinerywatch

import (
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

// Compile-time interface check to ensure proper implementation.
var _ Reader = (*client)(nil)

// Reader provides copy-on-read access to published data.
type Reader interface {
	// Refineries returns a copy of the published refinery list.
	Refineries() []refineries.Refinery

	// Refinery returns one published refinery.
	Refinery(id string) (refineries.Refinery, error)

	// Pipelines returns the major pipelines, optionally filtered by status.
	Pipelines(statuses ...refineries.PipelineStatus) []refineries.Pipeline

	// Stats summarizes the published list.
	Stats() refineries.Stats

	// Revision returns the last revision token returned by the committer.
	Revision() string
}

// Refineries returns a copy of the published refinery list.
func (c *client) Refineries() []refineries.Refinery {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return refineries.CloneAll(c.published)
}

// Refinery returns one published refinery.
func (c *client) Refinery(id string) (refineries.Refinery, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, i := refineries.Find(c.published, id)
	if i < 0 {
		return refineries.Refinery{}, &errors.NotFoundError{Resource: "refinery", ID: id}
	}
	return r.Clone(), nil
}

// Pipelines returns the major pipelines, optionally filtered by status.
func (c *client) Pipelines(statuses ...refineries.PipelineStatus) []refineries.Pipeline {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return refineries.FilterPipelines(c.pipelines, statuses...)
}

// Stats summarizes the published list.
func (c *client) Stats() refineries.Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return refineries.ComputeStats(c.published)
}

// Revision returns the last revision token returned by the committer.
func (c *client) Revision() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.revision
}
