package roles

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/randomizedcoder/taskwdt/internal/health"
	"github.com/randomizedcoder/taskwdt/internal/queue"
	"github.com/randomizedcoder/taskwdt/internal/task"
	"github.com/randomizedcoder/taskwdt/internal/tick"
)

// Producer generates an increasing sequence of integers into the queue.
// A full queue drops the value; the producer never blocks on send.
type Producer struct {
	log      *slog.Logger
	q        queue.Bounded[int]
	flag     *health.Flag
	interval time.Duration

	// next is only touched by the task goroutine.
	next int

	sent    atomic.Uint64
	dropped atomic.Uint64
}

// NewProducer returns a Producer sending to q every interval.
func NewProducer(log *slog.Logger, q queue.Bounded[int], flags *health.Flags, interval time.Duration) *Producer {
	return &Producer{
		log:      log,
		q:        q,
		flag:     &flags.Generation,
		interval: interval,
	}
}

// Step sends the next value, marks generation as alive,
// feeds the watchdog and waits for the next cycle.
func (p *Producer) Step(ctx context.Context, f task.Feeder) task.Outcome {
	value := p.next
	p.next++

	if p.q.TrySend(value) {
		p.sent.Add(1)
		p.log.Info("[FILA] Dado enviado com sucesso!", "value", value)
	} else {
		p.dropped.Add(1)
		p.log.Warn("[FILA] Fila cheia, dado descartado!", "value", value)
	}

	// A drop still counts as generation: the producer itself is alive.
	p.flag.Set()
	f.Feed()

	tick.Sleep(ctx, p.interval)
	return task.Continue
}

// Sent returns how many values were accepted by the queue.
func (p *Producer) Sent() uint64 { return p.sent.Load() }

// Dropped returns how many values were discarded because the queue was full.
func (p *Producer) Dropped() uint64 { return p.dropped.Load() }
