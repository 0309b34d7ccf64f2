// Package refinerywatch provides the main entry point for tracking the
// operational status of Russian oil refineries and pipelines.
//
// A Client holds the published refinery list and a staging area of
// pending updates. Updates are staged by hand or suggested by an
// intelligence source, reviewed as merged rows, and published in one shot:
// the merged list is persisted locally and then committed to version
// control through a commit.Committer.
//
// Example usage:
//
//	// Create a client backed by a file store
//	store, err := files.New("./data")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rw, err := refinerywatch.New(ctx,
//	    refinerywatch.WithStore(store),
//	    refinerywatch.WithCommitter(committer),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Register event hooks
//	rw.OnRefineryUpdated(func(old, new refineries.Refinery) {
//	    log.Printf("%s: %s -> %s", new.ID, old.Status, new.Status)
//	})
//
//	// Stage an edit against the first row and publish it
//	if err := rw.SetField(ctx, 0, editor.FieldStatus, refineries.StatusOffline); err != nil {
//	    log.Fatal(err)
//	}
//	result, err := rw.Publish(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if w := result.Warning(); w != "" {
//	    log.Println(w)
//	}
package refinerywatch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/oskars/refinerywatch/internal/seed"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/intel"
	"github.com/oskars/refinerywatch/pkg/logging"
	"github.com/oskars/refinerywatch/pkg/refineries"
	"github.com/oskars/refinerywatch/pkg/storage"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client manages the published refinery list, the staged updates and the
// publish workflow.
type Client interface {

	// Reader provides copy-on-read access to published data
	Reader

	// Stager edits the pending update set
	Stager

	// Publisher merges staged updates and commits them
	Publisher

	// Intel fetches suggested updates
	Intel

	// Persistence handles reset and export
	Persistence

	// Hooks provides access to event callback registration
	Hooks
}

// client is the internal implementation of the Client interface.
type client struct {

	// options are the configured options for the client
	options *options

	// mu guards published, proposed, revision and report
	mu        sync.RWMutex
	published []refineries.Refinery
	proposed  []refineries.Update
	pipelines []refineries.Pipeline
	revision  string        // last revision returned by the committer
	report    *intel.Report // latest intelligence report

	publishing atomic.Bool
	fetching   atomic.Bool

	hooks *hooks
}

// New creates a Client, restoring published data, staged updates and the
// last known revision from the configured store. Missing or unreadable
// state falls back to the built-in refinery list and an empty stage.
func New(ctx context.Context, opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	c := &client{
		options: o,
		hooks:   newHooks(),
	}

	initial, err := c.defaultRefineries()
	if err != nil {
		return nil, err
	}
	if c.pipelines = o.pipelines; c.pipelines == nil {
		if c.pipelines, err = seed.Pipelines(); err != nil {
			return nil, errors.WrapResource("load", "pipelines", "", err)
		}
	}

	log := logging.FromContext(ctx)

	c.published = storage.LoadOrDefault(ctx, o.store, storage.KeyPublished, initial)
	if c.published == nil {
		c.published = initial
	} else if err := refineries.ValidateList(c.published); err != nil {
		log.Warn().Err(err).Msg("Ignoring invalid published refinery list")
		c.published = initial
	}

	c.proposed = storage.LoadOrDefault(ctx, o.store, storage.KeyProposed, []refineries.Update{})
	if c.proposed == nil {
		c.proposed = []refineries.Update{}
	} else if err := refineries.ValidateUpdates(c.proposed); err != nil {
		log.Warn().Err(err).Msg("Ignoring invalid staged updates")
		c.proposed = []refineries.Update{}
	}

	c.revision = storage.LoadOrDefault(ctx, o.store, storage.KeyRevision, "")

	log.Debug().
		Int("refineries", len(c.published)).
		Int("staged", len(c.proposed)).
		Int("pipelines", len(c.pipelines)).
		Str("revision", c.revision).
		Msg("Refinery client initialized")

	return c, nil
}

// defaultRefineries returns a fresh copy of the configured initial list,
// or of the built-in list when none was configured.
func (c *client) defaultRefineries() ([]refineries.Refinery, error) {
	if c.options.initial != nil {
		return refineries.CloneAll(c.options.initial), nil
	}
	list, err := seed.Refineries()
	if err != nil {
		return nil, errors.WrapResource("load", "refineries", "", err)
	}
	return list, nil
}
