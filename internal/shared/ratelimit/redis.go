package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// slidingLogScript prunes aged entries, counts the remainder and conditionally
// records the request in one atomic server-side step, so concurrent requests
// for the same client on different instances cannot both observe a count below
// the threshold and both record.
// KEYS[1] = client set; ARGV = cutoff score, max, score, member, TTL millis.
var slidingLogScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[2]) then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[3], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`)

// RedisLimiter is a sliding-log limiter backed by a Redis sorted set per client,
// scored by request time. Shared Redis state makes the admission decision
// consistent across multiple running instances.
type RedisLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

// NewRedisLimiter creates a Redis-backed sliding-log limiter.
func NewRedisLimiter(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	if max <= 0 {
		max = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisLimiter{
		client: client,
		max:    max,
		window: window,
	}
}

// Allow prunes entries older than the window from the client's set, then admits
// and records the request only when the remaining count is below the threshold.
// Denied attempts are not recorded.
func (l *RedisLimiter) Allow(ctx context.Context, clientKey string) (bool, error) {
	key := redisKeyPrefix + clientKey
	now := time.Now()
	cutoff := now.Add(-l.window)

	member := fmt.Sprintf("%d-%s", now.UnixNano(), uuid.New().String())
	admitted, err := slidingLogScript.Run(ctx, l.client, []string{key},
		cutoff.UnixNano(), l.max, now.UnixNano(), member, l.window.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	return admitted == 1, nil
}
