// Package cache is a small in-process TTL cache.
package cache

import (
	"sync"
	"time"
)

// Clock tells the cache what time it is.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type entry[V any] struct {
	value  V
	stored time.Time
}

// TTL holds values for a fixed time after they are stored. A TTL of zero
// or less disables caching: Set is a no-op and Get always misses.
type TTL[K comparable, V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   Clock
	entries map[K]entry[V]
}

// New returns an empty cache. A nil clock uses SystemClock.
func New[K comparable, V any](ttl time.Duration, clock Clock) *TTL[K, V] {
	if clock == nil {
		clock = SystemClock{}
	}
	return &TTL[K, V]{
		ttl:     ttl,
		clock:   clock,
		entries: map[K]entry[V]{},
	}
}

func (c *TTL[K, V]) Get(key K) (V, bool) {
	var zero V
	if c.ttl <= 0 {
		return zero, false
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if c.clock.Now().Sub(e.stored) >= c.ttl {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.stored.Equal(e.stored) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

func (c *TTL[K, V]) Set(key K, value V) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, stored: c.clock.Now()}
	c.mu.Unlock()
}

// GetOrLoad returns the cached value for key, or calls load and caches
// its result. Errors from load are returned and not cached. Concurrent
// misses on the same key may each call load.
func (c *TTL[K, V]) GetOrLoad(key K, load func() (V, error)) (V, bool, error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}
	v, err := load()
	if err != nil {
		var zero V
		return zero, false, err
	}
	c.Set(key, v)
	return v, false, nil
}

// Invalidate drops every entry.
func (c *TTL[K, V]) Invalidate() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}

func (c *TTL[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
