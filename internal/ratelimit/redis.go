package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript refills and drains a per-key token bucket atomically.
// Without the script, the read-check-write sequence would race between
// instances sharing the same Redis.
//
// KEYS[1]: bucket key prefix
// ARGV[1]: capacity
// ARGV[2]: refill rate per second
// ARGV[3]: current unix time
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local tokens = tonumber(redis.call('GET', key .. ':tokens') or capacity)
local last_refill = tonumber(redis.call('GET', key .. ':last_refill') or now)

local elapsed = math.max(0, now - last_refill)
tokens = math.min(capacity, tokens + elapsed * refill_rate)

if tokens >= 1 then
    tokens = tokens - 1
    redis.call('SET', key .. ':tokens', tokens)
    redis.call('SET', key .. ':last_refill', now)
    redis.call('EXPIRE', key .. ':tokens', 3600)
    redis.call('EXPIRE', key .. ':last_refill', 3600)
    return 1
end
return 0
`)

// RedisLimiter is a token bucket shared across service instances through
// Redis. State lives under "ratelimit:<key>:*".
type RedisLimiter struct {
	client     *redis.Client
	capacity   int64
	refillRate int64
}

// NewRedisLimiter creates a distributed token bucket with the given capacity
// and per-second refill rate.
func NewRedisLimiter(client *redis.Client, capacity, refillRate int64) *RedisLimiter {
	return &RedisLimiter{
		client:     client,
		capacity:   capacity,
		refillRate: refillRate,
	}
}

// Allow consumes one token for key if available.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	result, err := tokenBucketScript.Run(ctx, l.client,
		[]string{"ratelimit:" + key},
		l.capacity, l.refillRate, time.Now().Unix()).Int64()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}

// Ensure RedisLimiter implements the interface
var _ Limiter = (*RedisLimiter)(nil)
