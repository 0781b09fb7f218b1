// Package system wires the queue, the watchdog and the three roles
// together and owns their lifetime.
package system

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/randomizedcoder/taskwdt/internal/config"
	"github.com/randomizedcoder/taskwdt/internal/health"
	"github.com/randomizedcoder/taskwdt/internal/queue"
	"github.com/randomizedcoder/taskwdt/internal/roles"
	"github.com/randomizedcoder/taskwdt/internal/task"
	"github.com/randomizedcoder/taskwdt/internal/watchdog"
)

// System is a running producer, consumer and supervisor
// under a single watchdog.
type System struct {
	log *slog.Logger

	wd     *watchdog.Watchdog
	wCtx   context.Context
	cancel context.CancelFunc

	q     queue.Bounded[int]
	flags *health.Flags
	rt    *task.Runtime

	producer   *roles.Producer
	consumer   *roles.Consumer
	supervisor *roles.Supervisor
}

// Start validates cfg, initializes the watchdog, creates the queue
// and spawns the three tasks.
//
// If the queue cannot be created, the watchdog is torn down and
// no task is spawned.
func Start(ctx context.Context, log *slog.Logger, cfg *config.Config, opts ...Option) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("system: %w", err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log.Info("[SISTEMA] Inicializando sistema multitarefa...")

	rootCtx, cancel := context.WithCancel(ctx)
	wd, wCtx, err := watchdog.New(rootCtx, log, watchdog.Config{
		Timeout:       cfg.Watchdog.Timeout,
		CheckInterval: o.checkInterval,
		TriggerPanic:  cfg.Watchdog.TriggerPanic,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("system: %w", err)
	}

	q, err := queue.New[int](o.backend, cfg.Queue.Capacity)
	if err != nil {
		log.Error("[ERRO] Falha ao criar fila!", "err", err)
		cancel()
		wd.Wait()
		return nil, fmt.Errorf("system: create queue: %w", err)
	}

	s := &System{
		log:    log,
		wd:     wd,
		wCtx:   wCtx,
		cancel: cancel,
		q:      q,
		flags:  new(health.Flags),
		rt:     task.NewRuntime(wCtx, log, wd),
	}

	s.producer = roles.NewProducer(
		log.With("task", cfg.Producer.Task.Name),
		q, s.flags, cfg.Producer.Interval,
	)
	s.consumer = roles.NewConsumer(
		log.With("task", cfg.Consumer.Task.Name),
		q, s.flags, cfg.Consumer, o.process,
	)
	s.supervisor = roles.NewSupervisor(
		log.With("task", cfg.Supervisor.Task.Name),
		s.flags, cfg.Supervisor.Interval, o.onReport,
	)

	specs := []task.Spec{
		spec(cfg.Producer.Task, s.producer.Step),
		spec(cfg.Consumer.Task, s.consumer.Step),
		spec(cfg.Supervisor.Task, s.supervisor.Step),
	}
	for _, sp := range specs {
		if _, err := s.rt.Spawn(sp); err != nil {
			s.Stop()
			return nil, fmt.Errorf("system: %w", err)
		}
	}

	log.Info("[SISTEMA] Tarefas iniciadas com sucesso!", "queue_backend", o.backend, "queue_capacity", q.Cap())
	return s, nil
}

func spec(tc config.TaskConfig, step task.Step) task.Spec {
	return task.Spec{
		Name:      tc.Name,
		Priority:  tc.Priority,
		StackSize: tc.StackSize,
		Step:      step,
	}
}

// Wait blocks until the context passed to [Start] is canceled
// or the watchdog terminates.
//
// On termination it returns the watchdog's cause as soon as the watchdog
// kernel has stopped, without joining the task loops: the task that missed
// its deadline may be wedged and never return. The caller is expected to
// treat the error as fatal.
//
// On a plain shutdown it waits for every task to exit and returns nil.
func (s *System) Wait() error {
	<-s.wCtx.Done()
	s.wd.Wait()

	if watchdog.IsTermination(s.wCtx) {
		return context.Cause(s.wCtx)
	}

	s.rt.Wait()
	return nil
}

// Stop stops every task, waits for them to exit and shuts down the watchdog.
// It is safe to call more than once.
//
// Stop joins every task loop, so after a watchdog termination caused by a
// wedged task it blocks until that task returns.
func (s *System) Stop() {
	s.rt.Stop()
	s.cancel()
	s.wd.Wait()
}

// Flags returns the shared liveness flags.
func (s *System) Flags() *health.Flags { return s.flags }

// Queue returns the shared queue.
func (s *System) Queue() queue.Bounded[int] { return s.q }

// Producer returns the generation role.
func (s *System) Producer() *roles.Producer { return s.producer }

// Consumer returns the reception role.
func (s *System) Consumer() *roles.Consumer { return s.consumer }

// Supervisor returns the supervision role.
func (s *System) Supervisor() *roles.Supervisor { return s.supervisor }

// Handles returns the spawned tasks in spawn order:
// producer, consumer, supervisor.
func (s *System) Handles() []*task.Handle { return s.rt.Handles() }
