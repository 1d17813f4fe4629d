// Package ratelimit paces outbound calls to upstream hosts and throttles
// inbound clients.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter allows up to rps operations per second with a burst of one. A nil
// Limiter never waits.
type Limiter struct {
	l *rate.Limiter
}

// NewRPS creates a limiter; non-positive rps is treated as 1.
func NewRPS(rps float64) *Limiter {
	if rps <= 0 {
		rps = 1
	}
	return &Limiter{l: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Wait blocks until the next operation is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.l == nil {
		return nil
	}
	return l.l.Wait(ctx)
}
