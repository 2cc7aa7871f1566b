package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache shares resolved descriptors across processes. Useful when a
// fleet of lifecycle-hook workers audits the same record types; one
// worker pays the metadata query after a schema publish, the rest hit
// Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache wraps an initialized client (see the cache package for
// the instrumented factory). A zero ttl means entries never expire;
// generation-qualified keys make that safe.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = "helix:audit:descriptors"
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*RecordType, bool) {
	payload, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		// redis.Nil and transport errors both degrade to a cache miss;
		// the resolver falls back to the metadata store.
		return nil, false
	}

	var rt RecordType
	if err := json.Unmarshal(payload, &rt); err != nil {
		return nil, false
	}
	return &rt, true
}

func (c *RedisCache) Set(ctx context.Context, key string, rt *RecordType) error {
	payload, err := json.Marshal(rt)
	if err != nil {
		return fmt.Errorf("schema: marshal descriptor cache entry: %w", err)
	}

	if err := c.client.Set(ctx, c.key(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("schema: write descriptor cache entry: %w", err)
	}
	return nil
}

func (c *RedisCache) key(key string) string {
	return c.prefix + ":" + key
}
