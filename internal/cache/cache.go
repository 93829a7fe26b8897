// Package cache is a small in-memory TTL cache.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache maps keys to values that expire after a TTL. Expired entries are
// swept periodically by rebuilding the map so its memory is reclaimed.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	stop    chan struct{}
	once    sync.Once
}

// New creates a cache and starts a sweeper running every interval.
func New[V any](interval time.Duration) *Cache[V] {
	c := &Cache[V]{
		entries: make(map[string]entry[V]),
		stop:    make(chan struct{}),
	}
	go c.sweep(interval)
	return c
}

// Get returns the cached value if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores a value with the given TTL.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the sweeper. It is safe to call more than once.
func (c *Cache[V]) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache[V]) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.removeExpired(time.Now())
		case <-c.stop:
			return
		}
	}
}

func (c *Cache[V]) removeExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := make(map[string]entry[V], len(c.entries)/2)
	for k, v := range c.entries {
		if now.Before(v.expiresAt) {
			fresh[k] = v
		}
	}
	c.entries = fresh
}
