// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package cache

import (
	"sync"
	"time"
)

type lruEntry[V any] struct {
	key       string
	value     V
	prev      *lruEntry[V]
	next      *lruEntry[V]
	expiresAt time.Time
}

// LRU is a thread-safe least recently used cache with idle expiry.
//
// Unlike a fixed TTL, an entry's deadline is pushed back on every Get, so
// entries that keep being used never expire. Expiry is lazy: stale entries
// are dropped on access or by CleanupExpired.
//
// Values are returned as stored. When V is a pointer the caller owns any
// synchronization of the pointee.
type LRU[V any] struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	now      func() time.Time
	onEvict  func(key string, value V)

	items map[string]*lruEntry[V]

	// head.next is the most recently used, tail.prev the least.
	head *lruEntry[V]
	tail *lruEntry[V]

	hits      int64
	misses    int64
	evictions int64
}

// Option configures an LRU.
type Option[V any] func(*LRU[V])

// WithEvictCallback is called, with the lock released, for every entry
// removed by capacity pressure or expiry. Explicit Remove does not call it.
func WithEvictCallback[V any](fn func(key string, value V)) Option[V] {
	return func(c *LRU[V]) { c.onEvict = fn }
}

// WithClock overrides time.Now, for tests.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *LRU[V]) { c.now = now }
}

// NewLRU creates a cache holding at most capacity entries, each expiring
// after ttl without access.
func NewLRU[V any](capacity int, ttl time.Duration, opts ...Option[V]) *LRU[V] {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	c := &LRU[V]{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[string]*lruEntry[V], capacity),
		head:     &lruEntry[V]{},
		tail:     &lruEntry[V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key and refreshes its idle deadline.
func (c *LRU[V]) Get(key string) (V, bool) {
	var zero V
	var evicted []*lruEntry[V]

	c.mu.Lock()
	entry, ok := c.items[key]
	switch {
	case !ok:
		c.misses++
	case c.now().After(entry.expiresAt):
		c.removeEntry(entry)
		evicted = append(evicted, entry)
		c.evictions++
		c.misses++
		ok = false
	default:
		entry.expiresAt = c.now().Add(c.ttl)
		c.moveToFront(entry)
		c.hits++
		zero = entry.value
	}
	c.mu.Unlock()

	c.notify(evicted)
	return zero, ok
}

// GetOrCreate returns the live value for key, or stores and returns the
// result of create. create runs under the cache lock and must not call
// back into the cache.
func (c *LRU[V]) GetOrCreate(key string, create func() V) V {
	var evicted []*lruEntry[V]

	c.mu.Lock()
	now := c.now()
	if entry, ok := c.items[key]; ok {
		if !now.After(entry.expiresAt) {
			entry.expiresAt = now.Add(c.ttl)
			c.moveToFront(entry)
			c.hits++
			v := entry.value
			c.mu.Unlock()
			return v
		}
		c.removeEntry(entry)
		evicted = append(evicted, entry)
		c.evictions++
	}
	c.misses++

	entry := &lruEntry[V]{key: key, value: create(), expiresAt: now.Add(c.ttl)}
	c.addToFront(entry)
	c.items[key] = entry
	evicted = append(evicted, c.evictOverflow()...)
	v := entry.value
	c.mu.Unlock()

	c.notify(evicted)
	return v
}

// Add inserts or replaces the value for key.
func (c *LRU[V]) Add(key string, value V) {
	c.mu.Lock()
	expiresAt := c.now().Add(c.ttl)
	if entry, ok := c.items[key]; ok {
		entry.value = value
		entry.expiresAt = expiresAt
		c.moveToFront(entry)
		c.mu.Unlock()
		return
	}

	entry := &lruEntry[V]{key: key, value: value, expiresAt: expiresAt}
	c.addToFront(entry)
	c.items[key] = entry
	evicted := c.evictOverflow()
	c.mu.Unlock()

	c.notify(evicted)
}

// Remove deletes key and reports whether it was present.
func (c *LRU[V]) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		c.removeEntry(entry)
		return true
	}
	return false
}

// Keys returns the live keys, most recently used first.
func (c *LRU[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	keys := make([]string, 0, len(c.items))
	for e := c.head.next; e != c.tail; e = e.next {
		if !now.After(e.expiresAt) {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Len returns the number of entries, including expired ones not yet swept.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// CleanupExpired removes expired entries and returns how many were removed.
func (c *LRU[V]) CleanupExpired() int {
	c.mu.Lock()
	now := c.now()
	var evicted []*lruEntry[V]
	for e := c.tail.prev; e != c.head; {
		prev := e.prev
		if now.After(e.expiresAt) {
			c.removeEntry(e)
			evicted = append(evicted, e)
			c.evictions++
		}
		e = prev
	}
	c.mu.Unlock()

	c.notify(evicted)
	return len(evicted)
}

// Stats returns hit, miss and eviction counters and the current size.
func (c *LRU[V]) Stats() (hits, misses, evictions int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, c.evictions, len(c.items)
}

// Internal methods (must be called with lock held)

func (c *LRU[V]) evictOverflow() []*lruEntry[V] {
	var evicted []*lruEntry[V]
	for len(c.items) > c.capacity {
		oldest := c.tail.prev
		if oldest == c.head {
			break
		}
		c.removeEntry(oldest)
		evicted = append(evicted, oldest)
		c.evictions++
	}
	return evicted
}

func (c *LRU[V]) addToFront(e *lruEntry[V]) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

func (c *LRU[V]) moveToFront(e *lruEntry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	c.addToFront(e)
}

func (c *LRU[V]) removeEntry(e *lruEntry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(c.items, e.key)
}

func (c *LRU[V]) notify(evicted []*lruEntry[V]) {
	if c.onEvict == nil {
		return
	}
	for _, e := range evicted {
		c.onEvict(e.key, e.value)
	}
}
