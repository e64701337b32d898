package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window request counter backed by Redis, shared across
// instances. It guards the login routes against code brute-forcing.
type Limiter struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
}

// NewLimiter creates a limiter allowing limit requests per window per key.
func NewLimiter(redisClient *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{
		redis:  redisClient,
		limit:  int64(limit),
		window: window,
	}
}

// Allow counts one request against key and reports whether it is still under
// the limit. The counter key expires with the window, so windows reset on
// their own.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := l.redis.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count <= l.limit, nil
}

// Reset clears the counter for key (used by tests and manual unblocking).
func (l *Limiter) Reset(ctx context.Context, key string) error {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	if err := l.redis.Del(ctx, redisKey).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit counter: %w", err)
	}

	return nil
}
