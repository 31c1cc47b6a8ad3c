// Package cache implements the script cache described in spec.md §4.6:
// identifier -> CacheEntry, with insertion-time TTL eviction and
// LRU-trimming to a configured maximum size.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/scriptlab/engine/internal/jsruntime"
)

// SourceTag classifies how an entry entered the cache, used for
// stats()'s per-tag counts (spec.md §4.6 "counts by source tag").
type SourceTag string

const (
	SourceMain       SourceTag = "main"
	SourceDependency SourceTag = "dependency"
)

// Entry is a cached LoadedScript plus its bookkeeping (spec.md §3
// LoadedScript, §4.6 CacheEntry).
type Entry struct {
	ID            string
	ContentHash   uint64
	Introspection *jsruntime.Introspection
	Source        SourceTag
	InsertedAt    time.Time
	lastAccess    time.Time
}

// Cache maps identifier -> Entry with a configurable max age and size.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Entry
	maxAge  time.Duration
	maxSize int
}

// New constructs a Cache with the given eviction policy.
func New(maxAge time.Duration, maxSize int) *Cache {
	return &Cache{entries: make(map[string]*Entry), maxAge: maxAge, maxSize: maxSize}
}

// SetPolicy updates maxAge/maxSize at runtime (spec.md §6
// "setCachePolicy(partial)"); a zero value leaves the field unchanged.
func (c *Cache) SetPolicy(maxAge time.Duration, maxSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if maxAge > 0 {
		c.maxAge = maxAge
	}
	if maxSize > 0 {
		c.maxSize = maxSize
	}
}

// Get returns the entry if present and its age <= maxAge; otherwise it
// evicts the (possibly stale) entry and returns nil, false (spec.md §4.6
// "get(id)").
func (c *Cache) Get(id string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	if time.Since(e.InsertedAt) > c.maxAge {
		delete(c.entries, id)
		return nil, false
	}
	e.lastAccess = time.Now()
	return e, true
}

// Put inserts or overwrites the entry for id (spec.md §4.6 "put(id, entry)").
func (c *Cache) Put(id string, e *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e.InsertedAt = time.Now()
	e.lastAccess = e.InsertedAt
	c.entries[id] = e
}

// Invalidate evicts id unconditionally.
func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// InvalidateIfContentChanged recomputes the hash of text and evicts id if
// it differs from the cached hash (spec.md §4.6
// "invalidateIfContentChanged(id, text)").
func (c *Cache) InvalidateIfContentChanged(id string, text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return false
	}
	if ContentHash(text) != e.ContentHash {
		delete(c.entries, id)
		return true
	}
	return false
}

// Cleanup sweeps expired entries, then LRU-trims to maxSize (spec.md §4.6
// "cleanup()").
func (c *Cache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, e := range c.entries {
		if now.Sub(e.InsertedAt) > c.maxAge {
			delete(c.entries, id)
		}
	}

	if c.maxSize <= 0 || len(c.entries) <= c.maxSize {
		return
	}

	type idAccess struct {
		id     string
		access time.Time
	}
	ordered := make([]idAccess, 0, len(c.entries))
	for id, e := range c.entries {
		ordered = append(ordered, idAccess{id: id, access: e.lastAccess})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].access.Before(ordered[j].access) })

	excess := len(c.entries) - c.maxSize
	for i := 0; i < excess; i++ {
		delete(c.entries, ordered[i].id)
	}
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
}

// Stats is the outcome of (*Cache).Stats.
type Stats struct {
	Count        int
	AverageAge   time.Duration
	CountBySource map[SourceTag]int
}

// Stats reports entry count, average age, and counts by source tag
// (spec.md §4.6 "stats()").
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	bySource := make(map[SourceTag]int)
	if len(c.entries) == 0 {
		return Stats{CountBySource: bySource}
	}

	now := time.Now()
	var total time.Duration
	for _, e := range c.entries {
		total += now.Sub(e.InsertedAt)
		bySource[e.Source]++
	}
	return Stats{
		Count:         len(c.entries),
		AverageAge:    total / time.Duration(len(c.entries)),
		CountBySource: bySource,
	}
}
