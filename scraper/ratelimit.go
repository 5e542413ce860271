package scraper

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle enforces a minimum interval between consecutive requests to one
// upstream. Each strategy owns its own instance since different upstreams have
// independent budgets. Token bucket with burst 1 gives even spacing: a burst
// of callers is spread out, not just delayed off a stale timestamp.
type Throttle struct {
	limiter *rate.Limiter
}

func NewThrottle(minInterval time.Duration) *Throttle {
	if minInterval <= 0 {
		minInterval = time.Millisecond
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Wait blocks until at least minInterval has passed since the previous
// completed Wait, or until ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}
