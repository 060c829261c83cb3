package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CheckAndSetRateLimit admits at most one action per key per window. With no
// redis client configured it always admits, so the limiter is strictly
// additive behavior.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, key, action string, window time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	redisKey := fmt.Sprintf("rate_limit:%s:%s", action, key)

	wasSet, err := rdb.SetNX(ctx, redisKey, "locked", window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

// ClearRateLimit releases the window early (e.g. after a successful login).
func ClearRateLimit(ctx context.Context, rdb *redis.Client, key, action string) error {
	if rdb == nil {
		return nil
	}

	redisKey := fmt.Sprintf("rate_limit:%s:%s", action, key)
	_, err := rdb.Del(ctx, redisKey).Result()
	return err
}
