package registry

import (
	"context"
	"sync"
	"time"
)

type cacheEntry struct {
	text      string
	timestamp time.Time
}

// Cached wraps a base Registry with a TTL-gated lookup table (spec.md §4.5
// "Cached"). On miss or expiry it delegates to Base and stores the result.
type Cached struct {
	Base Registry
	TTL  time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCached constructs a Cached registry over base with the given TTL.
func NewCached(base Registry, ttl time.Duration) *Cached {
	return &Cached{Base: base, TTL: ttl, entries: make(map[string]cacheEntry)}
}

// Resolve implements Registry.
func (c *Cached) Resolve(ctx context.Context, id string) (string, error) {
	c.mu.Lock()
	if e, ok := c.entries[id]; ok && time.Since(e.timestamp) <= c.TTL {
		c.mu.Unlock()
		return e.text, nil
	}
	c.mu.Unlock()

	text, err := c.Base.Resolve(ctx, id)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.entries[id] = cacheEntry{text: text, timestamp: time.Now()}
	c.mu.Unlock()
	return text, nil
}

// Invalidate evicts id from the cache.
func (c *Cached) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// CacheStats is the outcome of (*Cached).Stats.
type CacheStats struct {
	Count     int
	AverageAge time.Duration
	OldestAge  time.Duration
}

// Stats reports entry count, average age, and oldest age.
func (c *Cached) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) == 0 {
		return CacheStats{}
	}
	now := time.Now()
	var total time.Duration
	var oldest time.Duration
	for _, e := range c.entries {
		age := now.Sub(e.timestamp)
		total += age
		if age > oldest {
			oldest = age
		}
	}
	return CacheStats{
		Count:      len(c.entries),
		AverageAge: total / time.Duration(len(c.entries)),
		OldestAge:  oldest,
	}
}
