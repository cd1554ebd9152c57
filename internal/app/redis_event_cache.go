/**
 * @description
 * Redis-backed cache for the public approved-events listing. Mutations to the
 * event collection invalidate the key, so the listing stays live without the
 * fixed-interval store re-reads the portal used to rely on.
 */

package app

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const approvedEventsKey = "events:approved"

// RedisEventCache implements EventCache on top of a Redis client.
type RedisEventCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisEventCache creates a cache with the given key prefix and TTL.
// A zero TTL defaults to five minutes.
func NewRedisEventCache(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisEventCache {
	trimmedPrefix := strings.TrimSpace(prefix)
	if trimmedPrefix == "" {
		trimmedPrefix = "portal:cache"
	}
	trimmedPrefix = strings.TrimSuffix(trimmedPrefix, ":")
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisEventCache{client: client, prefix: trimmedPrefix, ttl: ttl}
}

func (c *RedisEventCache) key() string {
	return c.prefix + ":" + approvedEventsKey
}

// GetApprovedEvents returns the cached listing payload, if present.
func (c *RedisEventCache) GetApprovedEvents(ctx context.Context) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, c.key()).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// SetApprovedEvents stores the listing payload with the configured TTL.
// Failures are ignored; the cache is purely an optimization.
func (c *RedisEventCache) SetApprovedEvents(ctx context.Context, payload []byte) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, c.key(), payload, c.ttl).Err()
}

// Invalidate drops the cached listing.
func (c *RedisEventCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, c.key()).Err()
}
