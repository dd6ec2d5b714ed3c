package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisLimiter is a fixed-window limiter backed by Redis, for deployments
// running more than one API instance. The window lives as a counter with a
// TTL; the TTL is attached when the counter is first created.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	period time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int, period time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, period: period}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := l.prefix + ":" + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.period).Err(); err != nil {
			return Decision{}, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit ttl: %w", err)
	}
	resetAt := time.Now().Add(ttl)

	if count > int64(l.limit) {
		// Undo the speculative increment so a denied request costs nothing.
		if err := l.client.Decr(ctx, redisKey).Err(); err != nil {
			return Decision{}, fmt.Errorf("rate limit decr: %w", err)
		}
		return Decision{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}

	remaining := l.limit - int(count)
	return Decision{Allowed: true, Remaining: remaining, ResetAt: resetAt}, nil
}
