// Package rate provides the request pacing gate shared by a network session.
package rate

import (
	"context"
	"time"

	xrate "golang.org/x/time/rate"
)

// Gate spaces consecutive operations at least Interval apart.
// A nil *Gate is valid and never blocks.
type Gate struct {
	limiter  *xrate.Limiter
	interval time.Duration
}

// NewInterval returns a gate allowing one operation per interval.
// A non-positive interval returns nil, which disables pacing.
//
// Example:
//
//	gate := rate.NewInterval(time.Second)
//	if err := gate.Wait(ctx); err != nil { ... }
func NewInterval(interval time.Duration) *Gate {
	if interval <= 0 {
		return nil
	}
	return &Gate{
		limiter:  xrate.NewLimiter(xrate.Every(interval), 1),
		interval: interval,
	}
}

// Wait blocks until the next operation may proceed or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	if g == nil {
		return nil
	}
	return g.limiter.Wait(ctx)
}

// Allow reports whether an operation may proceed now, consuming a token if so.
func (g *Gate) Allow() bool {
	if g == nil {
		return true
	}
	return g.limiter.Allow()
}

// Interval returns the minimum spacing between operations.
func (g *Gate) Interval() time.Duration {
	if g == nil {
		return 0
	}
	return g.interval
}
