package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateCounter counts hits per key in fixed windows. The first hit
// in a window creates the key with an expiry; the count is compared
// against the limit by the middleware.
type RedisRateCounter struct {
	rdb    *redis.Client
	window time.Duration
}

func NewRedisRateCounter(rdb *redis.Client, window time.Duration) *RedisRateCounter {
	return &RedisRateCounter{rdb: rdb, window: window}
}

// Hit increments the counter for key and returns the count within the
// current window.
func (c *RedisRateCounter) Hit(ctx context.Context, key string) (int64, error) {
	k := "ratelimit:" + key
	n, err := c.rdb.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		_ = c.rdb.Expire(ctx, k, c.window).Err()
	}
	return n, nil
}
