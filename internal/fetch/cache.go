package fetch

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type cacheEntry struct {
	payload   any
	fetchedAt time.Time
}

// Cache is a TTL-bounded map from operation keys to immutable payloads.
// Entries past their TTL are treated as invalid but are not evicted; a
// failed refresh leaves the stale entry in place for callers that
// choose to serve it.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached payload for key if the entry is still within
// its TTL.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.fetchedAt) >= c.ttl {
		return nil, false
	}
	return entry.payload, true
}

// Stale returns the payload for key regardless of TTL, for callers
// that explicitly serve stale data after a failed refresh.
func (c *Cache) Stale(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return entry.payload, true
}

// Put stores payload under key with a fresh timestamp. The entry is
// replaced whole; readers see either the old or the new value.
func (c *Cache) Put(key string, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{payload: payload, fetchedAt: c.now()}
}

// IsValid reports whether key holds an entry within its TTL.
func (c *Cache) IsValid(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// QuotesKey builds the cache key for a symbol-set operation. Symbols
// are sorted first so input order never changes the key, then capped at
// ten entries with the total count appended to keep keys short while
// still distinguishing differently-sized sets.
func QuotesKey(op string, symbols []string) string {
	sorted := make([]string, len(symbols))
	copy(sorted, symbols)
	sort.Strings(sorted)
	if len(sorted) > 10 {
		sorted = sorted[:10]
	}
	return fmt.Sprintf("%s_%s_%d", op, strings.Join(sorted, "_"), len(symbols))
}

// CountKey builds the cache key for operations keyed only by how many
// symbols they cover.
func CountKey(op string, count int) string {
	return fmt.Sprintf("%s_%d", op, count)
}

const (
	indicesCacheKey = "market_indices"
	futuresCacheKey = "futures"
)
