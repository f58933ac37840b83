// Package cache provides a small TTL-bounded read-through cache for decimal
// values (prices and exchange rates), keyed by string.
//
// One cache instance is created per concern at process start and shared by
// reference; entries expire passively when read past their TTL, they are
// never swept. A failed fetch is never stored, so the next caller retries
// immediately instead of being pinned to a transient failure for a whole TTL
// window. Concurrent misses for the same key may each run the fetch; the last
// writer wins, which is harmless because every stored value is a fresh quote.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// FetchFunc loads the value for a key on a cache miss.
type FetchFunc func(ctx context.Context) (decimal.Decimal, error)

type entry struct {
	value     decimal.Decimal
	expiresAt time.Time
}

// Cache is a TTL cache safe for concurrent use.
type Cache struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]entry
}

// New creates a cache whose entries live for ttl after being stored.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Get returns the cached value for key if it exists and has not expired.
func (c *Cache) Get(key string) (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return decimal.Decimal{}, false
	}
	return e.value, true
}

// Set stores value under key with a fresh TTL.
func (c *Cache) Set(key string, value decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// GetOrFetch returns the cached value for key, or runs fetch on a miss.
// The result is stored only when fetch succeeds; a hit performs no I/O.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) (decimal.Decimal, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}

	c.Set(key, v)
	return v, nil
}

// Len returns the number of entries currently stored, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
