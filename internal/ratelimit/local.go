package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// LocalLimiter keeps one in-process token bucket per key. Used when no
// Redis is configured; limits then apply per instance, not globally.
type LocalLimiter struct {
	limiters map[string]*rate.Limiter
	mutex    sync.Mutex
	capacity int
	refill   rate.Limit
}

// NewLocalLimiter creates an in-process limiter with the given burst
// capacity and per-second refill rate.
func NewLocalLimiter(capacity, refillRate int64) *LocalLimiter {
	return &LocalLimiter{
		limiters: make(map[string]*rate.Limiter),
		capacity: int(capacity),
		refill:   rate.Limit(refillRate),
	}
}

// Allow consumes one token for key if available.
func (l *LocalLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mutex.Lock()
	limiter, exists := l.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(l.refill, l.capacity)
		l.limiters[key] = limiter
	}
	l.mutex.Unlock()

	return limiter.Allow(), nil
}

// Ensure LocalLimiter implements the interface
var _ Limiter = (*LocalLimiter)(nil)
