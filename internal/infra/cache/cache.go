// Package cache provides a small in-memory TTL cache.
//
// It sits in front of the Supabase store for data that is read on almost
// every request but changes rarely: a user's card list, computed monthly
// dashboard snapshots. A single shared TTL keeps invalidation simple; writers
// that mutate the underlying data call Delete for the affected key.
package cache

import (
	"sync"
	"time"
)

type item[T any] struct {
	value    T
	deadline time.Time
}

func (it item[T]) expired(now time.Time) bool {
	return now.After(it.deadline)
}

// InMemory is a concurrency-safe TTL cache keyed by string.
type InMemory[T any] struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]item[T]
}

// New creates a cache whose entries live for ttl. A janitor goroutine sweeps
// expired entries once per TTL period so long-idle keys do not pile up.
func New[T any](ttl time.Duration) *InMemory[T] {
	c := &InMemory[T]{
		ttl:   ttl,
		items: make(map[string]item[T]),
	}
	go c.janitor()
	return c
}

// Get returns the cached value for key. The second return is false on a miss
// or when the entry has expired; expired entries are left for the janitor.
func (c *InMemory[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || it.expired(time.Now()) {
		var zero T
		return zero, false
	}
	return it.value, true
}

// Set stores value under key, restarting its TTL.
func (c *InMemory[T]) Set(key string, value T) {
	it := item[T]{value: value, deadline: time.Now().Add(c.ttl)}

	c.mu.Lock()
	c.items[key] = it
	c.mu.Unlock()
}

// Delete drops the entry for key, if any. Used to invalidate after writes.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

func (c *InMemory[T]) janitor() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for now := range ticker.C {
		c.mu.Lock()
		for key, it := range c.items {
			if it.expired(now) {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}
