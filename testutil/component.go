package testutil

import (
	"context"

	"github.com/kbukum/kafkasample/component"
)

// TestComponent is a component.Component that tests can also reset and
// snapshot. In-memory fakes implement it so a test can run them in a
// component.Registry and still inspect their state.
type TestComponent interface {
	component.Component

	// Reset drops all state, as if the component were new.
	Reset(ctx context.Context) error
	// Snapshot captures the current state for a later Restore.
	Snapshot(ctx context.Context) (interface{}, error)
	// Restore returns to a state captured by Snapshot.
	Restore(ctx context.Context, snapshot interface{}) error
}
