package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a prefixed byte cache over Redis. A nil client turns every
// call into a miss.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisCache(rdb *redis.Client, prefix string) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	return getBlob(ctx, c.rdb, c.prefix+key)
}

func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if c == nil {
		return
	}
	setBlob(ctx, c.rdb, c.prefix+key, data, ttl)
}
