package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback run during startup or shutdown.
type Hook func(ctx context.Context) error

// OnStart registers hooks that run after all components are started.
func (a *App[C]) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnReady registers hooks that run after the ready check, right before the
// task or the wait for a signal begins.
func (a *App[C]) OnReady(hooks ...Hook) {
	a.onReady = append(a.onReady, hooks...)
}

// OnStop registers hooks that run during shutdown before components are
// stopped.
func (a *App[C]) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// runHooks runs hooks in order and stops at the first error.
func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
