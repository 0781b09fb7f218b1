package cancel

import "context"

var _ Canceler = (*ContextCanceler)(nil)

// ContextCanceler wraps a cancelable context.Context as a Canceler.
//
// Done performs a non-blocking select on ctx.Done(), and the context itself
// is handed to the task so that blocking calls return early on stop.
type ContextCanceler struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewContext creates a ContextCanceler from a parent context.
// Canceling the parent also triggers the canceler.
func NewContext(parent context.Context) *ContextCanceler {
	ctx, cancel := context.WithCancelCause(parent)
	return &ContextCanceler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Done returns true if the context has been cancelled.
func (c *ContextCanceler) Done() bool {
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

// Cancel triggers cancellation with [ErrStopRequested] as the cause.
func (c *ContextCanceler) Cancel() {
	c.cancel(ErrStopRequested)
}

// CancelCause triggers cancellation with the given cause.
// Only the first cause is kept.
func (c *ContextCanceler) CancelCause(cause error) {
	c.cancel(cause)
}

// Cause returns why the canceler was triggered, or nil if it was not.
// When the parent was canceled first, the parent's cause is returned.
func (c *ContextCanceler) Cause() error {
	return context.Cause(c.ctx)
}

// Context returns the underlying context.Context.
func (c *ContextCanceler) Context() context.Context {
	return c.ctx
}
