package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/sst/internal/model"
)

// MemoryCache keeps reports in process memory with per-entry expiry
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a report from the cache
func (c *MemoryCache) Get(key string) (*model.Report, bool) {
	if val, found := c.cache.Get(key); found {
		if report, ok := val.(*model.Report); ok {
			return report, true
		}
	}
	return nil, false
}

// Set stores a report with the given TTL; zero uses the default TTL
func (c *MemoryCache) Set(key string, report *model.Report, ttl time.Duration) {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, report, ttl)
}

// Delete removes a report from the cache
func (c *MemoryCache) Delete(key string) {
	c.cache.Delete(key)
}

// Clear removes all reports from the cache
func (c *MemoryCache) Clear() {
	c.cache.Flush()
}

// Len returns the number of cached reports, including expired ones not yet cleaned up
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}
