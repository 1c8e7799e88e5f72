package datasource

import (
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/gamblebot/internal/metrics"
)

// DefaultCacheTTL is how long feed responses are reused.
const DefaultCacheTTL = 12 * time.Hour

// ResponseCache holds raw feed bodies keyed by URL. A zero TTL disables it.
type ResponseCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewResponseCache creates a cache whose entries live for ttl.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	cleanup := ttl * 2
	if ttl <= 0 {
		cleanup = time.Minute
	}
	return &ResponseCache{
		cache: cache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

// Enabled reports whether the cache stores anything.
func (rc *ResponseCache) Enabled() bool {
	return rc != nil && rc.ttl > 0
}

// Get returns a cached body.
func (rc *ResponseCache) Get(key string) ([]byte, bool) {
	if !rc.Enabled() {
		return nil, false
	}
	if v, found := rc.cache.Get(key); found {
		if body, ok := v.([]byte); ok {
			rc.hitCount.Add(1)
			rc.updateMetrics()
			return body, true
		}
	}
	rc.missCount.Add(1)
	rc.updateMetrics()
	return nil, false
}

// Set stores a body for the cache's TTL.
func (rc *ResponseCache) Set(key string, body []byte) {
	if !rc.Enabled() {
		return
	}
	rc.cache.Set(key, body, rc.ttl)
}

// Stats returns cache statistics
func (rc *ResponseCache) Stats() (hits, misses uint64, ratio float64) {
	hits = rc.hitCount.Load()
	misses = rc.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (rc *ResponseCache) ItemCount() int {
	return rc.cache.ItemCount()
}

func (rc *ResponseCache) updateMetrics() {
	_, _, ratio := rc.Stats()
	metrics.UpdateCacheHitRatio(ratio)
}
