package api

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mr1hm/go-disaster-reports/internal/query"
)

// queryCache holds filter results keyed by query and store size. The store
// only grows, so a new report changes the key instead of invalidating entries.
type queryCache struct {
	cache *gocache.Cache
}

// newQueryCache returns nil when ttl is zero, which disables caching.
func newQueryCache(ttl time.Duration) *queryCache {
	if ttl <= 0 {
		return nil
	}
	return &queryCache{
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *queryCache) Get(key string) ([]query.Match, bool) {
	if c == nil {
		return nil, false
	}
	if val, found := c.cache.Get(key); found {
		return val.([]query.Match), true
	}
	return nil, false
}

func (c *queryCache) Set(key string, matches []query.Match) {
	if c == nil {
		return
	}
	c.cache.SetDefault(key, matches)
}

func (c *queryCache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.ItemCount()
}
