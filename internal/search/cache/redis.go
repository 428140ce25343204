package cache

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	pkgredis "github.com/advocate-directory/search-service/pkg/redis"
)

// Redis backs the result cache with a shared Redis instance so cache hits
// survive restarts and are shared across replicas. Eviction is delegated to
// Redis key expiry; the payload contract is identical to the memory store.
type Redis struct {
	client *pkgredis.Client
	ttl    time.Duration
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedis creates a Redis-backed store writing entries with the given TTL.
func NewRedis(client *pkgredis.Client, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		ttl:    ttl,
		logger: slog.Default().With("component", "redis-cache"),
	}
}

// Get returns the cached payload for key. Redis failures are treated as
// misses so a cache outage never fails a search.
func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return []byte(data), true
}

// Set stores the payload under key with the configured TTL.
func (c *Redis) Set(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, key, value, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// Clear deletes every search cache key.
func (c *Redis) Clear(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return err
	}
	c.logger.Info("cache cleared", "keys_deleted", deleted)
	return nil
}

// Stats returns the hit and miss counts observed by this process.
func (c *Redis) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
