// Package cache provides the in-memory response cache shared by every
// endpoint accessor.
//
// # Overview
//
// A [Cache] maps a caller-chosen key to an [Entry]: the decoded response and
// the time it was stored. The cache has no eviction policy and no notion of
// a global TTL. Freshness is decided by the reader at lookup time with
// [IsFresh], so the same entry can be fresh for one caller and stale for
// another that asks with a shorter TTL.
//
// Stale entries stay in the map until they are overwritten by a newer fetch
// for the same key, removed with [Cache.Delete], or dropped by [Cache.Clear].
// [Cache.Size] therefore counts stale entries too.
//
// # Ownership
//
// There is no package-level cache. Whatever composes the request pipeline
// constructs one with [New], owns it, and clears it at shutdown.
//
// # Keys
//
// Use [Key] to build namespaced keys so different endpoints never collide:
//
//	key := cache.Key("apod", "2024-01-01")  // "apod:2024-01-01"
package cache

import (
	"sort"
	"sync"
	"time"
)

// Entry is a stored response and the time it was stored.
// Entries are never mutated after creation; a refresh replaces the whole entry.
type Entry struct {
	Value    any       `json:"value"`
	StoredAt time.Time `json:"stored_at"`
}

// Age returns how long ago the entry was stored, relative to now.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}

// Cache is an in-memory map from key to [Entry].
//
// All methods are safe for concurrent use. Concurrent writers to the same key
// are not coordinated: the last Put wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Get returns the entry stored under key, fresh or not.
// It has no side effects.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// Put stores value under key with StoredAt = now, replacing any previous entry.
func (c *Cache) Put(key string, value any, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{Value: value, StoredAt: now}
}

// Delete removes the entry for key, if any.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
}

// Size returns the number of stored entries, including stale ones.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the stored keys in sorted order.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// CountFresh returns how many entries are fresh at now for the given TTL.
func (c *Cache) CountFresh(now time.Time, ttl time.Duration) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, e := range c.entries {
		if IsFresh(e, now, ttl) {
			n++
		}
	}
	return n
}

// IsFresh reports whether e is younger than ttl at time now.
func IsFresh(e Entry, now time.Time, ttl time.Duration) bool {
	return now.Sub(e.StoredAt) < ttl
}
