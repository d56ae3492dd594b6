package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cryptodash/internal/ports"
)

// RedisCache stores payloads in Redis with a server-side TTL. If Redis is
// unavailable mid-flight it falls back to the in-memory cache, so a Redis
// outage degrades to per-process caching instead of hammering upstream.
type RedisCache struct {
	rdb *redis.Client
	mem *MemoryCache
	ttl time.Duration
}

// NewRedisCache creates a new RedisCache instance and pings the Redis server.
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisCache{
		rdb: rdb,
		mem: NewMemoryCache(ttl),
		ttl: ttl,
	}, nil
}

func (r *RedisCache) Close() error {
	return r.rdb.Close()
}

func payloadKey(key ports.Key) string {
	return "payload:" + key.String()
}

func (r *RedisCache) Get(ctx context.Context, key ports.Key) ([]byte, bool) {
	b, err := r.rdb.Get(ctx, payloadKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		return r.mem.Get(ctx, key)
	}
	return b, true
}

func (r *RedisCache) Set(ctx context.Context, key ports.Key, payload []byte) error {
	if err := r.rdb.Set(ctx, payloadKey(key), payload, r.ttl).Err(); err != nil {
		_ = r.mem.Set(ctx, key, payload)
		return fmt.Errorf("redis set %s: %w", key.Resource, err)
	}
	return nil
}

func (r *RedisCache) Health(ctx context.Context) error {
	_, err := r.rdb.Ping(ctx).Result()
	return err
}
