package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on Redis, giving consistent counters across
// processes and instances. Each key lives in one Redis string whose TTL is
// the window boundary.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a Redis-backed fixed-window store.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Incr implements Store. The first increment of a window sets the TTL; the
// NX variant keeps concurrent first writers from extending each other's
// window.
func (rs *RedisStore) Incr(ctx context.Context, key string, dur time.Duration) (int64, time.Time, error) {
	k := rs.prefix + key

	pipe := rs.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	// go-redis has no typed PExpireNX helper; issue PEXPIRE ... NX directly.
	pipe.Do(ctx, "pexpire", k, dur.Milliseconds(), "nx")
	pttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, fmt.Errorf("redis incr %q: %w", key, err)
	}

	ttl := pttl.Val()
	if ttl < 0 {
		// Counter without TTL (e.g. PExpireNX lost to a dying key); repair
		// so the window cannot leak forever.
		if err := rs.client.PExpire(ctx, k, dur).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("redis expire %q: %w", key, err)
		}
		ttl = dur
	}

	return incr.Val(), time.Now().Add(ttl), nil
}

// Reset implements Store.
func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}
