// Package task runs long-lived task loops under the watchdog.
//
// A task is a Step function called repeatedly by the runtime.
// Each call reports whether the loop should run again ([Continue])
// or end for good ([Terminate]); the runtime owns the loop itself,
// the task's watchdog registration, and the task's stop signal.
package task

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/randomizedcoder/taskwdt/internal/cancel"
	"github.com/randomizedcoder/taskwdt/internal/watchdog"
)

// Outcome is the result of one loop iteration.
type Outcome uint8

const (
	// Continue runs the step again, unless a stop was requested.
	Continue Outcome = iota

	// Terminate ends the loop permanently.
	// The task is marked [StateTerminated] and never restarts.
	Terminate
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Terminate:
		return "terminate"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// Feeder is the part of a watchdog registration a step may use.
type Feeder interface {
	Feed()
}

// Step runs a single iteration of a task loop.
//
// Blocking calls inside a step must observe ctx so that a stop request
// ends them early; the step should then return Continue and let the
// runtime notice the stop.
type Step func(ctx context.Context, f Feeder) Outcome

// Spec describes a task to spawn.
type Spec struct {
	// Name is used for the watchdog registration and in logs.
	Name string

	// Priority and StackSize describe the task for operators.
	// The Go scheduler has no per-goroutine priorities or fixed stacks,
	// so they are logged but not enforced.
	Priority  int
	StackSize int

	Step Step
}

// State is the lifecycle state of a spawned task.
type State uint32

const (
	StateRunning State = iota

	// StateTerminated means the step returned Terminate.
	StateTerminated

	// StateStopped means the loop ended because of a stop request
	// or because the runtime context was canceled.
	StateStopped

	// StatePanicked means the step panicked; the watchdog was terminated.
	StatePanicked
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	case StateStopped:
		return "stopped"
	case StatePanicked:
		return "panicked"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

// Handle refers to a spawned task.
type Handle struct {
	name string
	reg  *watchdog.Registration
	stop cancel.Canceler

	state      atomic.Uint32
	iterations atomic.Uint64

	done chan struct{}
}

// Name returns the task name.
func (h *Handle) Name() string {
	return h.name
}

// State returns the current lifecycle state.
func (h *Handle) State() State {
	return State(h.state.Load())
}

// Iterations returns how many steps have completed.
func (h *Handle) Iterations() uint64 {
	return h.iterations.Load()
}

// Stop requests the loop to end. It does not wait; use Done for that.
func (h *Handle) Stop() {
	h.stop.Cancel()
}

// Done is closed once the loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
