// Package ratelimit bounds request rates per client IP on the creation and
// login endpoints.
package ratelimit

import "context"

// Limiter decides whether one more request from the given key may proceed.
type Limiter interface {
	// Allow reports whether the request identified by key is within budget.
	Allow(ctx context.Context, key string) (bool, error)
}
