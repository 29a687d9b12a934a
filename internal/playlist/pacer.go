package playlist

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultPaceDelay spaces playlist insertions to stay under the host's abuse limits.
const DefaultPaceDelay = 5 * time.Second

// Pacer enforces a fixed delay between consecutive insertions.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer returns a pacer with the given spacing. A zero delay never waits.
func NewPacer(delay time.Duration) *Pacer {
	if delay <= 0 {
		return &Pacer{}
	}
	// Token bucket with burst 1: the first call passes, later calls wait out the delay
	return &Pacer{limiter: rate.NewLimiter(rate.Every(delay), 1)}
}

// Wait blocks until the next insertion may go out.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}
