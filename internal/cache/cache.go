// Package cache provides an optional Redis-backed cache for exam risk
// summaries. When Redis is unconfigured or unreachable the service falls
// back to direct Supabase reads; a nil *ScoreCache is fully usable.
package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// SummaryTTL bounds staleness of cached rollups between scoring runs.
const SummaryTTL = 30 * time.Second

// ScoreCache wraps go-redis v9 for best-effort JSON blob caching.
type ScoreCache struct {
	rdb *redis.Client
}

// NewScoreCache connects to Redis at addr. A ping failure is returned so the
// caller can decide to run without a cache.
func NewScoreCache(addr, password string, db int) (*ScoreCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed (%s): %w", addr, err)
	}

	log.Printf("Redis score cache connected: %s", addr)
	return &ScoreCache{rdb: rdb}, nil
}

// Close shuts down the underlying client. Safe on nil.
func (c *ScoreCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// Get retrieves a cached blob. Any error reads as a miss.
func (c *ScoreCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

// Set caches a blob with the given TTL. Write failures are logged and
// swallowed; the cache is best-effort.
func (c *ScoreCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if c == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		log.Printf("cache write failed for %s: %v", key, err)
	}
}
