package watchdog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/randomizedcoder/taskwdt/internal/tick"
)

// Config configures a [Watchdog].
type Config struct {
	// Every registration must be fed at least once per Timeout.
	Timeout time.Duration

	// How often the kernel checks registrations.
	// Zero means a tenth of Timeout.
	//
	// A missed feed is detected between Timeout and Timeout+CheckInterval
	// after the last feed.
	CheckInterval time.Duration

	// When set, the kernel goroutine panics after canceling the context,
	// which takes the process down without relying on the caller to exit.
	TriggerPanic bool
}

func (c Config) validate() error {
	var err error
	if c.Timeout <= 0 {
		err = errors.Join(err, errors.New("Config.Timeout must be positive"))
	}

	if c.CheckInterval < 0 {
		err = errors.Join(err, errors.New("Config.CheckInterval must not be negative"))
	}

	if c.CheckInterval > c.Timeout {
		err = errors.Join(err, errors.New("Config.CheckInterval must not exceed Config.Timeout"))
	}

	return err
}

func (c Config) checkInterval() time.Duration {
	if c.CheckInterval > 0 {
		return c.CheckInterval
	}
	return c.Timeout / 10
}

type Watchdog struct {
	log *slog.Logger
	cfg Config

	wCtx   context.Context
	cancel context.CancelCauseFunc

	mu   sync.Mutex
	regs map[string]*Registration

	// Nop watchdogs accept registrations but never check them.
	nop bool

	wg sync.WaitGroup
}

// New returns a new Watchdog and a context associated with the watchdog
// and derived from the passed-in context.
//
// The returned context is canceled if a registered task fails to feed
// its registration within cfg.Timeout,
// or more rarely, upon a call to [*Watchdog.Terminate].
func New(ctx context.Context, log *slog.Logger, cfg Config) (*Watchdog, context.Context, error) {
	if err := cfg.validate(); err != nil {
		return nil, nil, fmt.Errorf("watchdog: invalid config: %w", err)
	}

	wCtx, cancel := context.WithCancelCause(ctx)
	w := &Watchdog{
		log:    log,
		cfg:    cfg,
		wCtx:   wCtx,
		cancel: cancel,
		regs:   make(map[string]*Registration),
	}
	w.wg.Add(1)
	go w.kernel(ctx)

	log.Info("[WDT] Watchdog inicializado", "timeout", cfg.Timeout, "check_interval", cfg.checkInterval())
	return w, wCtx, nil
}

// NewNop returns a new Watchdog that accepts registrations and feeds
// but never checks them. It still respects calls to Terminate.
//
// NewNop should only be called in test.
func NewNop(ctx context.Context, log *slog.Logger) (*Watchdog, context.Context) {
	wCtx, cancel := context.WithCancelCause(ctx)
	return &Watchdog{
		log:    log,
		wCtx:   wCtx,
		cancel: cancel,
		regs:   make(map[string]*Registration),
		nop:    true,
	}, wCtx
}

// Wait blocks until w's kernel goroutine completes.
// The kernel stops when the context passed to [New] is canceled
// or after the watchdog terminates.
func (w *Watchdog) Wait() {
	w.wg.Wait()
}

// Terminate forces the watchdog context to be cancelled
// with a cause of [ForcedTerminationError].
func (w *Watchdog) Terminate(reason string) {
	w.cancel(ForcedTerminationError{Reason: reason})
}

// Register subscribes the named task to watchdog supervision.
// From this point the task must call Feed on the returned registration
// at least once per timeout window.
func (w *Watchdog) Register(name string) (*Registration, error) {
	if name == "" {
		return nil, errors.New("watchdog: task name must not be empty")
	}
	if w.wCtx.Err() != nil {
		return nil, fmt.Errorf("%w: cannot register %s: %w", ErrStopped, name, context.Cause(w.wCtx))
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.regs[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}

	r := &Registration{
		name:     name,
		w:        w,
		deadline: tick.NewDeadline(w.cfg.Timeout),
	}
	w.regs[name] = r

	w.log.Debug("Task registered", "task", name)
	return r, nil
}

// Registered returns the names of the current registrations in sorted order.
func (w *Watchdog) Registered() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Sorted(maps.Keys(w.regs))
}

func (w *Watchdog) release(r *Registration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.regs[r.name] == r {
		delete(w.regs, r.name)
		w.log.Debug("Task released", "task", r.name)
	}
}

func (w *Watchdog) kernel(rootCtx context.Context) {
	defer w.wg.Done()

	t := tick.NewTicker(w.cfg.checkInterval())
	defer t.Stop()

	for {
		select {
		case <-rootCtx.Done():
			w.log.Info("Stopping due to root context cancellation", "cause", context.Cause(rootCtx))
			return
		case <-w.wCtx.Done():
			w.log.Info("Stopping after termination", "cause", context.Cause(w.wCtx))
			return
		case <-t.C():
			name, elapsed, ok := w.firstExpired()
			if !ok {
				continue
			}

			err := FailureToRespondError{TaskName: name}
			w.log.Error(
				"[WDT] Task watchdog disparado",
				"task", name, "elapsed", elapsed, "timeout", w.cfg.Timeout,
			)
			w.cancel(err)

			if w.cfg.TriggerPanic {
				panic(err)
			}
			return
		}
	}
}

// firstExpired returns the first registration, by name, that missed its window.
func (w *Watchdog) firstExpired() (name string, elapsed time.Duration, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, n := range slices.Sorted(maps.Keys(w.regs)) {
		d := w.regs[n].deadline
		if d.Expired() {
			return n, d.Elapsed(), true
		}
	}
	return "", 0, false
}

// Registration is a single task's subscription to the watchdog.
type Registration struct {
	name     string
	w        *Watchdog
	deadline *tick.Deadline

	released atomic.Bool
}

// Name returns the registered task name.
func (r *Registration) Name() string {
	return r.name
}

// Feed resets the expiry countdown for this registration.
// Feeding a released registration has no effect on the watchdog.
func (r *Registration) Feed() {
	r.deadline.Reset()
}

// Release unsubscribes the task from supervision.
// It is safe to call more than once.
func (r *Registration) Release() {
	if r.released.CompareAndSwap(false, true) {
		r.w.release(r)
	}
}
