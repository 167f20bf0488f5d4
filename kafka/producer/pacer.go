package producer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"
)

// Pacer gates the start of the next batch.
type Pacer interface {
	Wait(ctx context.Context) error
}

// PacerFunc adapts a function to Pacer.
type PacerFunc func(ctx context.Context) error

func (f PacerFunc) Wait(ctx context.Context) error { return f(ctx) }

// IntervalPacer waits a fixed duration between batches.
func IntervalPacer(d time.Duration) Pacer {
	return PacerFunc(func(ctx context.Context) error {
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
	})
}

// PromptPacer asks the operator on out and waits for a line on in. End of
// input on in ends the loop with io.EOF.
func PromptPacer(in io.Reader, out io.Writer, batchSize int) Pacer {
	lines := make(chan error)
	reader := bufio.NewReader(in)
	return PacerFunc(func(ctx context.Context) error {
		fmt.Fprintf(out, "Press enter to send another batch of %d users...\n", batchSize)
		// The read cannot be interrupted; a cancelled wait abandons it.
		go func() {
			_, err := reader.ReadString('\n')
			select {
			case lines <- err:
			case <-ctx.Done():
			}
		}()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-lines:
			return err
		}
	})
}
