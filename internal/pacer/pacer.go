package pacer

import (
	"context"
	"sync"
	"time"
)

// Pacer serializes outbound calls to one etiquette-constrained endpoint,
// guaranteeing a minimum interval between the completion of one call and
// the dispatch of the next. Callers that arrive concurrently are served
// one at a time in lock-acquisition order; completion order back to the
// callers is not otherwise guaranteed.
//
// Each Pacer owns its own pacing state, so independent instances (one per
// endpoint, or per test) never interfere.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// New creates a pacer enforcing the given minimum inter-request interval.
func New(interval time.Duration) *Pacer {
	return &Pacer{
		interval: interval,
		sleep:    sleepCtx,
	}
}

// Do runs fn once the politeness interval since the previous call has
// elapsed. The pacer never retries; fn's error is returned untouched.
// Cancelling ctx while waiting releases the queue slot.
func (p *Pacer) Do(ctx context.Context, fn func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if wait := p.interval - time.Since(p.last); wait > 0 {
		if err := p.sleep(ctx, wait); err != nil {
			return err
		}
	}

	err := fn()
	p.last = time.Now()
	return err
}

// Interval returns the configured minimum inter-request interval.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
