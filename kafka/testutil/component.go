package testutil

import (
	"context"
	"fmt"

	"github.com/kbukum/kafkasample/component"
	"github.com/kbukum/kafkasample/testutil"
)

var (
	_ component.Component    = (*Broker)(nil)
	_ testutil.TestComponent = (*Broker)(nil)
)

// Name returns the component name.
func (b *Broker) Name() string { return "kafka-memory" }

// Start marks the broker available.
func (b *Broker) Start(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return fmt.Errorf("component already started")
	}
	b.started = true
	return nil
}

// Stop marks the broker unavailable. Its state is kept.
func (b *Broker) Stop(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.started = false
	return nil
}

// Health reports whether the broker was started.
func (b *Broker) Health(_ context.Context) component.Health {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.started {
		return component.Health{Name: b.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: b.Name(), Status: component.StatusHealthy}
}

// Reset drops all topics, commits and failure rules.
func (b *Broker) Reset(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset()
	return nil
}

// Snapshot copies the topics and committed offsets.
func (b *Broker) Snapshot(_ context.Context) (interface{}, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot(), nil
}

// Restore replaces the topics and committed offsets with a Snapshot.
func (b *Broker) Restore(_ context.Context, snapshot interface{}) error {
	s, ok := snapshot.(Snapshot)
	if !ok {
		return fmt.Errorf("unexpected snapshot type %T", snapshot)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.restore(s)
}
