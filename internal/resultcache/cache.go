// Package resultcache memoizes computed reports keyed by a content
// fingerprint of the input snapshot. Instances are caller-owned so tests can
// inject a fresh cache per run; nothing here is a package-level singleton.
package resultcache

import "sync"

// Cache maps a snapshot fingerprint to the last computed value of type T.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]T
}

// New creates an empty cache.
func New[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[string]T)}
}

// Get returns the cached value for a fingerprint.
func (c *Cache[T]) Get(fingerprint string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[fingerprint]
	return v, ok
}

// Put stores a value under a fingerprint unless one is already present.
// Test-and-set: when two computations race on the same fingerprint the first
// publisher wins and the second gets false, so callers re-read instead of
// trusting last-writer-wins.
func (c *Cache[T]) Put(fingerprint string, value T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[fingerprint]; exists {
		return false
	}
	c.entries[fingerprint] = value
	return true
}

// Invalidate drops a single fingerprint.
func (c *Cache[T]) Invalidate(fingerprint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, fingerprint)
}

// Clear drops everything.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]T)
}

// Len reports how many fingerprints are cached.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
