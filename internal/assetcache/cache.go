// Package assetcache holds per-lesson-session generated assets keyed by
// slide index. Entries are write-once for the lifetime of a slide plan and
// the whole cache is dropped on topic change; size is bounded naturally by
// the slide count, so there is no eviction policy beyond Clear.
package assetcache

import "sync"

// Stats holds cache performance counters.
type Stats struct {
	Hits   int64
	Misses int64
	Len    int
}

// Cache maps a slide index to a generated asset. First writer wins: a Put
// for an already-populated index is a no-op, so a populated entry never
// changes until the next Clear. Safe for concurrent use.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[int]V
	hits    int64
	misses  int64
}

// New creates an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[int]V)}
}

// Get returns the asset for the given slide index, if present.
func (c *Cache[V]) Get(index int) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[index]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Put stores the asset for the given slide index. If the index is already
// populated the call is a no-op and the existing entry is kept.
func (c *Cache[V]) Put(index int, asset V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[index]; ok {
		return
	}
	c.entries[index] = asset
}

// Contains reports whether an asset exists for the index without counting
// a hit or miss.
func (c *Cache[V]) Contains(index int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.entries[index]
	return ok
}

// Clear drops all entries. Called exactly when a new slide plan is
// requested, never on mere slide-index change.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[int]V)
}

// Len returns the number of populated entries.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Stats returns hit/miss counters and the current entry count.
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{Hits: c.hits, Misses: c.misses, Len: len(c.entries)}
}
