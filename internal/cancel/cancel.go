// Package cancel provides the per-task stop signal.
//
// Every task loop owns one Canceler. The loop polls Done between iterations,
// and blocking operations inside an iteration observe the same signal through
// the canceler's context, so a stop request ends a pending receive or delay
// instead of waiting for it to time out.
package cancel

import (
	"context"
	"errors"
)

// ErrStopRequested is the cause recorded when Cancel is called without a reason.
var ErrStopRequested = errors.New("cancel: stop requested")

// Canceler provides cancellation signaling to a task loop.
//
// Implementations must be safe for concurrent use:
//   - Multiple goroutines may call Done() concurrently
//   - Cancel() may be called concurrently with Done()
type Canceler interface {
	// Done returns true if cancellation has been triggered.
	Done() bool

	// Cancel triggers cancellation. Safe to call multiple times.
	Cancel()

	// Cause returns why cancellation was triggered, or nil.
	Cause() error

	// Context is done once cancellation is triggered.
	// Blocking calls inside an iteration select on it.
	Context() context.Context
}
