package images

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Cache is a content-addressed image cache keyed by placement description and
// style. It short-circuits repeat requests within a run; cross-run hits are a
// performance optimization, not a correctness requirement.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewCache creates an empty image cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]byte)}
}

// Key derives the content address for a description/style pair.
func Key(description, style string) string {
	sum := sha256.Sum256([]byte(description + "\x00" + style))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached content for a key, if present.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	content, ok := c.entries[key]
	return content, ok
}

// Put stores content under a key.
func (c *Cache) Put(key string, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = content
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
