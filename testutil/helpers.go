package testutil

import (
	"context"
	"testing"
)

// THelper ties test components to a test's lifetime.
type THelper struct {
	t   testing.TB
	ctx context.Context
}

// T wraps t.
//
//	broker := kafkatest.NewBroker()
//	testutil.T(t).Setup(broker)
func T(t testing.TB) *THelper {
	return &THelper{t: t, ctx: context.Background()}
}

// WithContext sets the context passed to the component methods.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Setup starts c and stops it when the test ends.
func (h *THelper) Setup(c TestComponent) {
	h.t.Helper()
	if err := c.Start(h.ctx); err != nil {
		h.t.Fatalf("failed to start component %s: %v", c.Name(), err)
	}
	h.t.Cleanup(func() {
		if err := c.Stop(h.ctx); err != nil {
			h.t.Errorf("failed to stop component %s: %v", c.Name(), err)
		}
	})
}

// Reset resets c or fails the test.
func (h *THelper) Reset(c TestComponent) {
	h.t.Helper()
	if err := c.Reset(h.ctx); err != nil {
		h.t.Fatalf("failed to reset component %s: %v", c.Name(), err)
	}
}

// Snapshot captures the state of c or fails the test.
func (h *THelper) Snapshot(c TestComponent) interface{} {
	h.t.Helper()
	snapshot, err := c.Snapshot(h.ctx)
	if err != nil {
		h.t.Fatalf("failed to snapshot component %s: %v", c.Name(), err)
	}
	return snapshot
}

// Restore restores c to snapshot or fails the test.
func (h *THelper) Restore(c TestComponent, snapshot interface{}) {
	h.t.Helper()
	if err := c.Restore(h.ctx, snapshot); err != nil {
		h.t.Fatalf("failed to restore component %s: %v", c.Name(), err)
	}
}
