// Package cache provides a concurrency-safe in-memory cache.
package cache

import (
	"sync"
)

// Cache maps keys to values for the lifetime of the process.
//
// A single RWMutex guards the whole map, so a value written by Put is never
// observed half-written by Get. Entries are never evicted.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
}

// New creates an empty cache.
func New[T any]() *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]T),
	}
}

// Get retrieves a value. The second result reports whether it was present.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[key]
	return v, ok
}

// Put stores a value, replacing any previous value for key.
func (c *Cache[T]) Put(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = value
}

// GetOrSet retrieves a value from cache or stores the result of fn if it doesn't exist.
// fn runs outside the lock, so concurrent misses for the same key may both call it;
// the last Put wins.
func (c *Cache[T]) GetOrSet(key string, fn func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := fn()
	if err != nil {
		var zero T
		return zero, err
	}

	c.Put(key, v)
	return v, nil
}

// Len returns the number of entries.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Clear removes all cached entries
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]T)
}
