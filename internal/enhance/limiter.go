package enhance

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter serializes provider calls: each Acquire blocks until at least the
// configured minimum interval has passed since the previous call, across all
// records and all providers sharing the limiter.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter returns a Limiter enforcing the given minimum interval between
// calls. A non-positive interval disables the delay.
func NewLimiter(minInterval time.Duration) *Limiter {
	if minInterval <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Acquire blocks until a call is permitted or the context is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
