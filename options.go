package refinerywatch

import (
	"time"

	"github.com/oskars/refinerywatch/internal/storage/memory"
	"github.com/oskars/refinerywatch/pkg/commit"
	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/intel"
	"github.com/oskars/refinerywatch/pkg/refineries"
	"github.com/oskars/refinerywatch/pkg/storage"
)

// Option is a function that configures a Client.
type Option func(*options) error

// options holds the configuration for a Client.
type options struct {
	store     storage.Store
	committer commit.Committer
	fetcher   intel.Fetcher
	initial   []refineries.Refinery
	pipelines []refineries.Pipeline
	now       func() time.Time
}

// defaults returns options with an in-memory store and no remote
// collaborators.
func defaults() *options {
	return &options{
		store:     memory.New(),
		committer: commit.Disabled{},
		now:       time.Now,
	}
}

// apply applies the given options.
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithStore configures where published data and staged updates are persisted.
func WithStore(store storage.Store) Option {
	return func(o *options) error {
		if store == nil {
			return errors.NewConfigError("store", "store must not be nil", nil)
		}
		o.store = store
		return nil
	}
}

// WithCommitter configures the version-control collaborator used by Publish.
// A nil committer disables remote commits.
func WithCommitter(committer commit.Committer) Option {
	return func(o *options) error {
		if committer == nil {
			committer = commit.Disabled{}
		}
		o.committer = committer
		return nil
	}
}

// WithFetcher configures the intelligence source used by FetchIntel.
func WithFetcher(fetcher intel.Fetcher) Option {
	return func(o *options) error {
		o.fetcher = fetcher
		return nil
	}
}

// WithInitialRefineries replaces the built-in refinery list used when no
// published data has been persisted yet, and by Reset.
func WithInitialRefineries(list []refineries.Refinery) Option {
	return func(o *options) error {
		if err := refineries.ValidateList(list); err != nil {
			return err
		}
		o.initial = refineries.CloneAll(list)
		if o.initial == nil {
			o.initial = []refineries.Refinery{}
		}
		return nil
	}
}

// WithPipelines replaces the built-in pipeline list.
func WithPipelines(pipelines []refineries.Pipeline) Option {
	return func(o *options) error {
		o.pipelines = append([]refineries.Pipeline{}, pipelines...)
		return nil
	}
}

// WithClock sets the time source used to stamp publish results.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now != nil {
			o.now = now
		}
		return nil
	}
}
