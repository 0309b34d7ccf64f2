package refinerywatch

import (
	"context"
	"encoding/json"

	"github.com/goccy/go-yaml"

	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/logging"
	"github.com/oskars/refinerywatch/pkg/refineries"
	"github.com/oskars/refinerywatch/pkg/storage"
)

// Compile-time interface check to ensure proper implementation.
var _ Persistence = (*client)(nil)

// Persistence handles reset and export of the published list.
type Persistence interface {
	// Reset discards the persisted published list and pending updates and
	// reloads the built-in refinery list.
	Reset(ctx context.Context) error

	// ExportJSON returns the published list as indented JSON.
	ExportJSON() ([]byte, error)

	// ExportYAML returns the published list as YAML.
	ExportYAML() ([]byte, error)
}

// Reset discards the persisted published list and pending updates.
func (c *client) Reset(ctx context.Context) error {
	initial, err := c.defaultRefineries()
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.publishing.Load() {
		c.mu.Unlock()
		return errors.ErrInFlight
	}
	if err := storage.Delete(ctx, c.options.store, storage.KeyPublished, storage.KeyProposed); err != nil {
		c.mu.Unlock()
		return err
	}
	c.published = initial
	c.proposed = []refineries.Update{}
	c.mu.Unlock()

	logging.FromContext(ctx).Info().
		Int("refineries", len(initial)).
		Msg("Refinery data reset to defaults")

	c.hooks.triggerStagingChanged(nil)
	return nil
}

// ExportJSON returns the published list as indented JSON.
func (c *client) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(c.Refineries(), "", "  ")
	if err != nil {
		return nil, errors.WrapParse("json", "refineries", err)
	}
	return data, nil
}

// ExportYAML returns the published list as YAML.
func (c *client) ExportYAML() ([]byte, error) {
	data, err := yaml.Marshal(c.Refineries())
	if err != nil {
		return nil, errors.WrapParse("yaml", "refineries", err)
	}
	return data, nil
}
