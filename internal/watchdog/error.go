package watchdog

import (
	"context"
	"errors"
)

var (
	// ErrAlreadyRegistered is returned when a task name is registered twice.
	ErrAlreadyRegistered = errors.New("watchdog: task already registered")

	// ErrStopped is returned when registering after the watchdog has terminated.
	ErrStopped = errors.New("watchdog: stopped")
)

// IsTermination reports whether the context was cancelled by the watchdog.
func IsTermination(ctx context.Context) bool {
	e := context.Cause(ctx)
	if e == nil {
		return false
	}

	var ftr FailureToRespondError
	if errors.As(e, &ftr) {
		return true
	}

	var ft ForcedTerminationError
	return errors.As(e, &ft)
}

// FailureToRespondError indicates a particular task did not feed
// its registration within the configured timeout.
type FailureToRespondError struct {
	TaskName string
}

func (e FailureToRespondError) Error() string {
	return e.TaskName + " failed to feed the task watchdog within the timeout"
}

// ForcedTerminationError indicates that [*Watchdog.Terminate] was called.
type ForcedTerminationError struct {
	Reason string
}

func (e ForcedTerminationError) Error() string {
	return "Watchdog forced termination: " + e.Reason
}
