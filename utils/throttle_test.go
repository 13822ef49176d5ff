package utils

import (
	"context"
	"testing"
	"time"
)

func TestThrottleWaitsDelay(t *testing.T) {
	delay := 50 * time.Millisecond
	th := NewThrottle(delay)

	start := time.Now()
	for i := 0; i < 2; i++ {
		if err := th.Wait(context.Background()); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if gap := time.Since(start); gap < 2*delay {
		t.Errorf("two waits took %v, want at least %v", gap, 2*delay)
	}
}

func TestThrottleZeroDelay(t *testing.T) {
	th := NewThrottle(0)
	th.after = func(time.Duration) <-chan time.Time {
		t.Fatal("zero delay must not start a timer")
		return nil
	}
	if err := th.Wait(context.Background()); err != nil {
		t.Errorf("Wait: %v", err)
	}
}

func TestThrottleCancelled(t *testing.T) {
	th := NewThrottle(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := th.Wait(ctx); err != context.Canceled {
		t.Errorf("Wait: got %v, want context.Canceled", err)
	}
}
