// Package stock replaces image placeholder tokens in standard-pipeline output
// with found stock photos or neutral placeholder boxes. No relevance
// filtering or compression happens here; that is the premium image pipeline.
package stock

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL is how long a looked-up stock URL stays fresh.
const DefaultTTL = 24 * time.Hour

// URLCache caches stock photo URLs keyed by normalized query. The clock is
// injected so tests control expiry deterministically; the cache is owned by
// the orchestrator's dependency set, not a module-level singleton.
type URLCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	url     string
	expires time.Time
}

// NewURLCache creates a cache with the given TTL and clock. A nil clock uses
// time.Now.
func NewURLCache(ttl time.Duration, now func() time.Time) *URLCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &URLCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached URL for a query if it has not expired.
func (c *URLCache) Get(query string) (string, bool) {
	key := normalizeQuery(query)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().After(entry.expires) {
		delete(c.entries, key)
		return "", false
	}
	return entry.url, true
}

// Put stores a URL for a query.
func (c *URLCache) Put(query, url string) {
	key := normalizeQuery(query)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{url: url, expires: c.now().Add(c.ttl)}
}

// normalizeQuery lowercases and collapses whitespace so trivially different
// descriptions share a cache slot.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
