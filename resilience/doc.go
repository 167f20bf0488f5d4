// Package resilience holds the backoff used between failed broker polls.
//
//	b := resilience.Backoff{Initial: time.Second, Max: 30 * time.Second}
//	if err := resilience.Sleep(ctx, b.Delay(failures)); err != nil {
//	    return err // cancelled
//	}
//
// Records are never retried here: a failed send or commit is reported and the
// loop moves on.
package resilience
