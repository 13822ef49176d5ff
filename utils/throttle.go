package utils

import (
	"context"
	"time"
)

// Throttle pauses the caller for a fixed delay. It is the crawler's only
// suspension point and blocks the whole flow.
type Throttle struct {
	delay time.Duration
	after func(time.Duration) <-chan time.Time
}

// NewThrottle creates a Throttle with the given delay. A zero or negative
// delay makes Wait return immediately.
func NewThrottle(delay time.Duration) *Throttle {
	return &Throttle{delay: delay, after: time.After}
}

// Delay returns the configured pause.
func (t *Throttle) Delay() time.Duration {
	return t.delay
}

// Wait blocks for the configured delay or until ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if t.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.after(t.delay):
		return nil
	}
}
