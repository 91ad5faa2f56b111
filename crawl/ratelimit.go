package crawl

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum spacing between any two outbound
// requests, process-wide.
const DefaultInterval = 500 * time.Millisecond

// Limiter enforces a minimum interval between outbound requests. It is
// a single token bucket shared by every worker, so effective crawl
// throughput is capped regardless of concurrency level.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a Limiter with the given minimum inter-request
// interval. A non-positive interval falls back to DefaultInterval.
// Burst is fixed at 1: no two requests may start closer together than
// the interval.
func NewLimiter(interval time.Duration) *Limiter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Wait blocks until the next request is allowed to start.
// Returns an error if the context is canceled before then.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
