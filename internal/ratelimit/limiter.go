// Package ratelimit paces benchmark invocations against the target.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles invocations to a flat rate. The harness issues one
// call at a time, so the burst size is fixed at one.
type Limiter struct {
	limiter *rate.Limiter
}

// New returns a limiter allowing rps invocations per second, or nil
// when rps <= 0 (no pacing). A nil Limiter is safe to use.
func New(rps int) *Limiter {
	if rps <= 0 {
		return nil
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Wait blocks until the next invocation may proceed or the context is
// done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}
