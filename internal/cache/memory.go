package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/doubt/internal/model"
)

// ResultCache memoizes top-level analysis results in memory
type ResultCache struct {
	cache *gocache.Cache
}

// NewResultCache creates a new in-memory result cache
func NewResultCache(defaultTTL time.Duration, cleanupInterval time.Duration) *ResultCache {
	return &ResultCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a result from the cache
func (c *ResultCache) Get(key string) (*model.AnalysisResult, bool) {
	if val, found := c.cache.Get(key); found {
		if r, ok := val.(*model.AnalysisResult); ok {
			return r, true
		}
	}
	return nil, false
}

// Set stores a result with the default TTL
func (c *ResultCache) Set(key string, result *model.AnalysisResult) {
	c.cache.Set(key, result, gocache.DefaultExpiration)
}

// Delete removes a result from the cache
func (c *ResultCache) Delete(key string) {
	c.cache.Delete(key)
}

// Clear removes all results from the cache
func (c *ResultCache) Clear() {
	c.cache.Flush()
}

// Len returns the number of cached results, including expired ones not yet
// cleaned up
func (c *ResultCache) Len() int {
	return c.cache.ItemCount()
}
