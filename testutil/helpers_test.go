package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/kafkasample/component"
)

type counterComponent struct {
	started bool
	stopped bool
	count   int
	failOn  string
}

func (c *counterComponent) Name() string { return "counter" }

func (c *counterComponent) Start(context.Context) error {
	if c.failOn == "start" {
		return errors.New("start failed")
	}
	c.started = true
	return nil
}

func (c *counterComponent) Stop(context.Context) error {
	c.stopped = true
	return nil
}

func (c *counterComponent) Health(context.Context) component.Health {
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *counterComponent) Reset(context.Context) error {
	c.count = 0
	return nil
}

func (c *counterComponent) Snapshot(context.Context) (interface{}, error) {
	return c.count, nil
}

func (c *counterComponent) Restore(_ context.Context, snapshot interface{}) error {
	n, ok := snapshot.(int)
	if !ok {
		return errors.New("bad snapshot")
	}
	c.count = n
	return nil
}

var _ TestComponent = (*counterComponent)(nil)

func TestSetupStopsOnCleanup(t *testing.T) {
	c := &counterComponent{}
	t.Run("inner", func(t *testing.T) {
		T(t).Setup(c)
		if !c.started {
			t.Error("component not started")
		}
	})
	if !c.stopped {
		t.Error("component not stopped after subtest cleanup")
	}
}

func TestSnapshotRestoreReset(t *testing.T) {
	c := &counterComponent{count: 3}
	h := T(t)

	snap := h.Snapshot(c)
	c.count = 10
	h.Restore(c, snap)
	if c.count != 3 {
		t.Errorf("count after Restore = %d, want 3", c.count)
	}
	h.Reset(c)
	if c.count != 0 {
		t.Errorf("count after Reset = %d, want 0", c.count)
	}
}
