package roles

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/randomizedcoder/taskwdt/internal/config"
	"github.com/randomizedcoder/taskwdt/internal/health"
	"github.com/randomizedcoder/taskwdt/internal/queue"
	"github.com/randomizedcoder/taskwdt/internal/task"
	"github.com/randomizedcoder/taskwdt/internal/tick"
)

// ConsumerState is the position of the consumer in its state machine.
//
//	Waiting -> Processing -> Waiting
//	Waiting -> Recovering -> Waiting
//	Waiting -> Recovering -> Terminated
//
// Terminated is absorbing.
type ConsumerState uint32

const (
	ConsumerWaiting ConsumerState = iota
	ConsumerProcessing
	ConsumerRecovering
	ConsumerTerminated
)

func (s ConsumerState) String() string {
	switch s {
	case ConsumerWaiting:
		return "waiting"
	case ConsumerProcessing:
		return "processing"
	case ConsumerRecovering:
		return "recovering"
	case ConsumerTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("ConsumerState(%d)", uint32(s))
	}
}

// ProcessFunc handles one received value.
// An error is logged; it does not affect the reception flag.
type ProcessFunc func(ctx context.Context, value int) error

// holder is the transient resource acquired for each processed value.
type holder struct {
	value int
}

var holderPool = sync.Pool{
	New: func() any { return new(holder) },
}

// Consumer drains the queue with a timeout and a single recovery attempt.
type Consumer struct {
	log     *slog.Logger
	q       queue.Bounded[int]
	flag    *health.Flag
	cfg     config.ConsumerConfig
	process ProcessFunc

	state      atomic.Uint32
	received   atomic.Uint64
	recoveries atomic.Uint64
}

// NewConsumer returns a Consumer reading from q.
// process may be nil.
func NewConsumer(
	log *slog.Logger,
	q queue.Bounded[int],
	flags *health.Flags,
	cfg config.ConsumerConfig,
	process ProcessFunc,
) *Consumer {
	return &Consumer{
		log:     log,
		q:       q,
		flag:    &flags.Reception,
		cfg:     cfg,
		process: process,
	}
}

// Step waits for one value. On timeout it pauses, tries exactly one
// recovery receive, and returns [task.Terminate] if that fails too.
//
// If ctx ends a wait early, Step returns [task.Continue] in the Waiting
// state without touching the reception flag or feeding, and the runtime
// observes the stop.
func (c *Consumer) Step(ctx context.Context, f task.Feeder) task.Outcome {
	if c.State() == ConsumerTerminated {
		return task.Terminate
	}

	c.setState(ConsumerWaiting)
	if v, ok := c.q.Receive(ctx, c.cfg.ReceiveTimeout); ok {
		c.handle(ctx, v)
		c.flag.Set()
		f.Feed()
		c.setState(ConsumerWaiting)
		return task.Continue
	}
	if ctx.Err() != nil {
		return task.Continue
	}

	c.log.Warn("[RECEPÇÃO] Nenhum dado recebido no tempo limite!", "timeout", c.cfg.ReceiveTimeout)
	c.log.Info("[RECEPÇÃO] Tentando recuperar...")
	c.setState(ConsumerRecovering)
	c.recoveries.Add(1)

	if !tick.Sleep(ctx, c.cfg.RecoveryDelay) {
		c.setState(ConsumerWaiting)
		return task.Continue
	}

	if v, ok := c.q.Receive(ctx, c.cfg.RecoveryTimeout); ok {
		c.received.Add(1)
		c.log.Info("[RECEPÇÃO] Recuperação bem-sucedida!", "value", v)
		c.flag.Set()
		f.Feed()
		c.setState(ConsumerWaiting)
		return task.Continue
	}
	if ctx.Err() != nil {
		c.setState(ConsumerWaiting)
		return task.Continue
	}

	c.log.Error("[RECEPÇÃO] Falha persistente. Encerrando tarefa...")
	c.flag.Clear()
	f.Feed()
	c.setState(ConsumerTerminated)
	return task.Terminate
}

// handle runs the processing step for v inside a pooled holder,
// which is always returned to the pool.
func (c *Consumer) handle(ctx context.Context, v int) {
	c.setState(ConsumerProcessing)
	c.received.Add(1)

	h := holderPool.Get().(*holder)
	defer func() {
		h.value = 0
		holderPool.Put(h)
	}()
	h.value = v

	c.log.Info("[RECEPÇÃO] Valor recebido", "value", h.value)

	if c.process == nil {
		return
	}
	if err := c.process(ctx, h.value); err != nil {
		c.log.Warn("[RECEPÇÃO] Erro ao processar valor", "value", h.value, "err", err)
	}
}

// State returns the current consumer state.
func (c *Consumer) State() ConsumerState {
	return ConsumerState(c.state.Load())
}

// Received returns how many values were received, including by recovery.
func (c *Consumer) Received() uint64 { return c.received.Load() }

// Recoveries returns how many recovery attempts were made.
func (c *Consumer) Recoveries() uint64 { return c.recoveries.Load() }

func (c *Consumer) setState(s ConsumerState) {
	c.state.Store(uint32(s))
}
