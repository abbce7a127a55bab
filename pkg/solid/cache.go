package solid

import (
	"context"
	"sync"

	"github.com/baleframe/baleframe/pkg/cache"
	"github.com/baleframe/baleframe/pkg/observability"
)

// Stats reports cache effectiveness for one Cache instance.
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// Cache deduplicates solid construction by canonical shape parameters.
// Two calls with the same parameter map return the same Solid no matter
// the map's insertion order. There is no eviction: the variety of
// distinct shapes in a building model is bounded by the assembly
// catalog, not the model size. [Cache.Purge] empties the cache when a
// long-lived process changes catalogs.
//
// The zero value is not usable; construct instances with [NewCache] and
// inject them where shapes are built.
type Cache struct {
	keyer cache.Keyer

	mu     sync.RWMutex
	solids map[string]Solid
	hits   uint64
	misses uint64
}

// NewCache returns an empty shape cache. A nil keyer selects
// [cache.NewDefaultKeyer].
func NewCache(keyer cache.Keyer) *Cache {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Cache{
		keyer:  keyer,
		solids: make(map[string]Solid),
	}
}

// GetOrBuild returns the solid for params, invoking build only when the
// shape has not been constructed before. Concurrent callers may race to
// build the same shape; the first stored value wins and the losers'
// results are discarded, which is safe because equal keys describe
// equal shapes.
func (c *Cache) GetOrBuild(ctx context.Context, params map[string]string, build func() Solid) Solid {
	key := c.keyer.ShapeKey(params)

	c.mu.RLock()
	s, ok := c.solids[key]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		observability.Cache().OnCacheHit(ctx, "shape")
		return s
	}

	built := build()

	c.mu.Lock()
	if existing, ok := c.solids[key]; ok {
		built = existing
	} else {
		c.solids[key] = built
	}
	c.misses++
	c.mu.Unlock()
	observability.Cache().OnCacheMiss(ctx, "shape")
	return built
}

// Len returns the number of distinct shapes held.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.solids)
}

// Stats returns hit/miss counts since construction.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Hits: c.hits, Misses: c.misses}
}

// Purge drops all cached shapes. Counters are kept.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.solids = make(map[string]Solid)
}
