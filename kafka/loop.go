package kafka

import (
	"context"
	"errors"
)

// ErrLoopDone is returned by a loop step to end the loop normally.
var ErrLoopDone = errors.New("kafka: loop done")

// StopReason tells why a loop ended.
type StopReason string

const (
	StopCompleted StopReason = "completed"
	StopCancelled StopReason = "cancelled"
	StopFatal     StopReason = "fatal"
)

// LoopResult is the outcome of RunLoop.
type LoopResult struct {
	Reason     StopReason
	Err        error
	Iterations int
}

// Error returns the fatal error, or nil when the loop completed or was
// cancelled.
func (r LoopResult) Error() error {
	if r.Reason == StopFatal {
		return r.Err
	}
	return nil
}

// RunLoop calls step until it returns an error or ctx is done. ctx is checked
// before every step. A step returning ErrLoopDone ends the loop with
// StopCompleted; a step error caused by cancellation ends it with
// StopCancelled; any other error is fatal.
func RunLoop(ctx context.Context, step func(ctx context.Context) error) LoopResult {
	var n int
	for {
		if err := ctx.Err(); err != nil {
			return LoopResult{Reason: StopCancelled, Err: err, Iterations: n}
		}
		err := step(ctx)
		n++
		switch {
		case err == nil:
			continue
		case errors.Is(err, ErrLoopDone):
			return LoopResult{Reason: StopCompleted, Iterations: n}
		case ctx.Err() != nil && errors.Is(err, ctx.Err()):
			return LoopResult{Reason: StopCancelled, Err: err, Iterations: n}
		default:
			return LoopResult{Reason: StopFatal, Err: err, Iterations: n}
		}
	}
}
