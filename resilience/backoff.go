package resilience

import (
	"context"
	"math"
	"time"
)

// Backoff computes the wait before the n-th retry. With Factor <= 1 the wait
// grows linearly (Initial·n); above 1 it grows exponentially
// (Initial·Factor^(n-1)). Max caps both.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	Factor  float64
}

// Delay returns the wait before attempt n, starting at 1. n < 1 waits
// nothing.
func (b Backoff) Delay(n int) time.Duration {
	if n < 1 || b.Initial <= 0 {
		return 0
	}
	var d float64
	if b.Factor > 1 {
		d = float64(b.Initial) * math.Pow(b.Factor, float64(n-1))
	} else {
		d = float64(b.Initial) * float64(n)
	}
	if b.Max > 0 && d > float64(b.Max) {
		return b.Max
	}
	// Overflow of the power shows up as +Inf.
	if math.IsInf(d, 1) || d > math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// Sleep waits d or until ctx is done, whichever comes first. It returns the
// context error when cut short.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
