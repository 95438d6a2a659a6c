package backend

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter throttles outgoing requests to a steady rate. It only
// delays; a throttled request is never dropped or retried.
type RateLimiter struct {
	bucket *rate.Limiter
}

// NewRateLimiter creates a limiter allowing perSecond requests with a
// burst of one. It returns nil when perSecond is not positive, and a nil
// limiter never waits.
func NewRateLimiter(perSecond float64) *RateLimiter {
	if perSecond <= 0 {
		return nil
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Wait blocks until the next request may be sent.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return nil
	}
	return r.bucket.Wait(ctx)
}

// Limit returns the configured rate, or 0 when unlimited.
func (r *RateLimiter) Limit() float64 {
	if r == nil {
		return 0
	}
	return float64(r.bucket.Limit())
}
