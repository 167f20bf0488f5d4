package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBackoffDelay(t *testing.T) {
	linear := Backoff{Initial: time.Second, Max: 30 * time.Second}
	expo := Backoff{Initial: 100 * time.Millisecond, Max: time.Second, Factor: 2}

	tests := []struct {
		name string
		b    Backoff
		n    int
		want time.Duration
	}{
		{"no attempt", linear, 0, 0},
		{"linear first", linear, 1, time.Second},
		{"linear third", linear, 3, 3 * time.Second},
		{"linear capped", linear, 45, 30 * time.Second},
		{"expo first", expo, 1, 100 * time.Millisecond},
		{"expo third", expo, 3, 400 * time.Millisecond},
		{"expo capped", expo, 10, time.Second},
		{"expo huge attempt", expo, 5000, time.Second},
		{"zero initial", Backoff{}, 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.Delay(tt.n); got != tt.want {
				t.Errorf("Delay(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestSleep(t *testing.T) {
	if err := Sleep(context.Background(), time.Millisecond); err != nil {
		t.Errorf("Sleep() = %v", err)
	}
	if err := Sleep(context.Background(), 0); err != nil {
		t.Errorf("Sleep(0) = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := Sleep(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep() on cancelled ctx = %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Sleep ignored cancellation")
	}
}
