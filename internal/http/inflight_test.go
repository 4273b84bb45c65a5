package http

import (
	"context"
	"testing"
	"time"
)

func TestInFlightTracker_Counting(t *testing.T) {
	tracker := &inFlightTracker{}

	tracker.Increment()
	tracker.Increment()
	if got := tracker.Count(); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
	tracker.Decrement()
	if got := tracker.Count(); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
}

func TestInFlightTracker_WaitForZero(t *testing.T) {
	t.Run("returns when drained", func(t *testing.T) {
		tracker := &inFlightTracker{}
		tracker.Increment()
		go func() {
			time.Sleep(20 * time.Millisecond)
			tracker.Decrement()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := tracker.WaitForZero(ctx, 5*time.Millisecond); err != nil {
			t.Errorf("WaitForZero: %v", err)
		}
	})

	t.Run("times out while requests remain", func(t *testing.T) {
		tracker := &inFlightTracker{}
		tracker.Increment()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		if err := tracker.WaitForZero(ctx, 5*time.Millisecond); err == nil {
			t.Error("expected context error")
		}
	})
}
