package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"

	"github.com/randomizedcoder/taskwdt/internal/cancel"
	"github.com/randomizedcoder/taskwdt/internal/watchdog"
)

// Runtime owns a set of task loops.
//
// Every task is registered with the watchdog when it is spawned,
// and its registration is released when its loop ends normally,
// so a task that has finished is never mistaken for a wedged one.
type Runtime struct {
	log *slog.Logger
	wd  *watchdog.Watchdog
	ctx context.Context

	mu      sync.Mutex
	handles []*Handle

	wg sync.WaitGroup
}

// NewRuntime returns a Runtime whose tasks run under ctx.
// Typically ctx is the context returned by [watchdog.New],
// so that a watchdog termination stops every task.
func NewRuntime(ctx context.Context, log *slog.Logger, wd *watchdog.Watchdog) *Runtime {
	return &Runtime{
		log: log,
		wd:  wd,
		ctx: ctx,
	}
}

// Spawn registers the task with the watchdog and starts its loop
// in a new goroutine.
func (r *Runtime) Spawn(spec Spec) (*Handle, error) {
	if spec.Step == nil {
		return nil, errors.New("task: Spec.Step must not be nil")
	}

	reg, err := r.wd.Register(spec.Name)
	if err != nil {
		return nil, fmt.Errorf("task: spawn %s: %w", spec.Name, err)
	}

	h := &Handle{
		name: spec.Name,
		reg:  reg,
		stop: cancel.NewContext(r.ctx),
		done: make(chan struct{}),
	}

	r.mu.Lock()
	r.handles = append(r.handles, h)
	r.mu.Unlock()

	r.wg.Add(1)
	go r.run(h, spec.Step)

	r.log.Debug(
		"Task spawned",
		"task", spec.Name, "priority", spec.Priority, "stack_size", spec.StackSize,
	)
	return h, nil
}

// Handles returns the spawned tasks in spawn order.
func (r *Runtime) Handles() []*Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.handles)
}

// Stop requests every task to stop and waits for all loops to exit.
func (r *Runtime) Stop() {
	for _, h := range r.Handles() {
		h.Stop()
	}
	r.wg.Wait()
}

// Wait blocks until every task loop has exited.
func (r *Runtime) Wait() {
	r.wg.Wait()
}

func (r *Runtime) run(h *Handle, step Step) {
	defer r.wg.Done()
	defer close(h.done)

	log := r.log.With("task", h.name)
	ctx := h.stop.Context()

	for {
		if h.stop.Done() {
			h.reg.Release()
			h.state.Store(uint32(StateStopped))
			log.Debug("Task stopped", "cause", h.stop.Cause())
			return
		}

		out, ok := r.runStep(ctx, log, h, step)
		if !ok {
			// The watchdog has already been terminated;
			// leave the registration so the state is visible.
			h.state.Store(uint32(StatePanicked))
			return
		}
		h.iterations.Add(1)

		if out == Terminate {
			h.reg.Release()
			h.state.Store(uint32(StateTerminated))
			log.Warn("Task terminated", "iterations", h.iterations.Load())
			return
		}
	}
}

func (r *Runtime) runStep(ctx context.Context, log *slog.Logger, h *Handle, step Step) (out Outcome, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			log.Error("Task panicked", "panic", p, "stack", string(debug.Stack()))
			r.wd.Terminate(fmt.Sprintf("%s panicked: %v", h.name, p))
			ok = false
		}
	}()

	return step(ctx, h.reg), true
}
