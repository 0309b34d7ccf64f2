// Package cache keeps computed read responses in memory until the data
// behind them changes. It wraps patrickmn/go-cache.
package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Keys of the cached read models. Pipeline entries are suffixed with the
// status filter.
const (
	KeyRefineries = "refineries"
	KeyStats      = "stats"
	KeyPipelines  = "pipelines:"
)

// Cache wraps go-cache with prefix invalidation.
type Cache struct {
	store *gocache.Cache
}

// New creates a cache. defaultTTL bounds staleness if an invalidation is
// ever missed; cleanupInterval is how often expired items are purged.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{store: gocache.New(defaultTTL, cleanupInterval)}
}

// Get retrieves a value from the cache.
func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores a value in the cache with default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// Remember returns the cached value for key, computing and storing it with
// load on a miss.
func Remember[T any](c *Cache, key string, load func() T) T {
	if v, ok := c.store.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed
		}
	}
	v := load()
	c.store.Set(key, v, gocache.DefaultExpiration)
	return v
}

// Invalidate removes every key that starts with one of prefixes. With no
// prefixes it clears the cache.
func (c *Cache) Invalidate(prefixes ...string) {
	if len(prefixes) == 0 {
		c.store.Flush()
		return
	}
	for key := range c.store.Items() {
		for _, p := range prefixes {
			if strings.HasPrefix(key, p) {
				c.store.Delete(key)
				break
			}
		}
	}
}

// ItemCount returns the number of items in the cache.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}

// Stats is reported by the health endpoint.
type Stats struct {
	ItemCount int `json:"item_count"`
}

// GetStats returns current cache statistics.
func (c *Cache) GetStats() Stats {
	return Stats{ItemCount: c.store.ItemCount()}
}
