package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// PageCache keeps fetched bodies in memory. Entries expire on their own;
// a sweep-scoped cache uses a TTL comfortably longer than one pass.
type PageCache struct {
	cache *gocache.Cache
}

// NewPageCache creates an in-memory page cache.
func NewPageCache(defaultTTL, cleanupInterval time.Duration) *PageCache {
	return &PageCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a cached body.
func (c *PageCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a body with the given TTL (0 uses the cache default).
func (c *PageCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		c.cache.SetDefault(key, value)
		return nil
	}
	c.cache.Set(key, value, ttl)
	return nil
}

// Delete removes an entry.
func (c *PageCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all entries.
func (c *PageCache) Clear() error {
	c.cache.Flush()
	return nil
}
