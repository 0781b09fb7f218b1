// Package tick provides the timing primitives the tasks and the watchdog
// are built on:
//   - Sleep: a cooperative, cancelable delay at the end of a task iteration
//   - StdTicker: the watchdog's periodic check cadence
//   - Deadline: an atomic "last fed" timestamp that expires after a window
package tick

import (
	"context"
	"time"
)

// Sleep suspends the caller for d, or until ctx is done.
//
// It reports true if the full duration elapsed and false if ctx ended first.
// A non-positive d returns immediately with the state of ctx.
func Sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
