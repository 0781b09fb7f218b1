package roles

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/randomizedcoder/taskwdt/internal/health"
	"github.com/randomizedcoder/taskwdt/internal/task"
	"github.com/randomizedcoder/taskwdt/internal/tick"
)

// ReportFunc observes each supervisor report.
// It runs on the supervisor goroutine and must not block.
type ReportFunc func(health.Report)

// Supervisor periodically consumes the liveness flags and logs them.
type Supervisor struct {
	log      *slog.Logger
	flags    *health.Flags
	interval time.Duration
	onReport ReportFunc

	cycles atomic.Uint64
}

// NewSupervisor returns a Supervisor reporting every interval.
// onReport may be nil.
func NewSupervisor(log *slog.Logger, flags *health.Flags, interval time.Duration, onReport ReportFunc) *Supervisor {
	return &Supervisor{
		log:      log,
		flags:    flags,
		interval: interval,
		onReport: onReport,
	}
}

// Step reads and resets both flags, reports them,
// feeds the watchdog and waits for the next cycle.
func (s *Supervisor) Step(ctx context.Context, f task.Feeder) task.Outcome {
	r := s.flags.Snapshot()
	s.cycles.Add(1)

	s.log.Info(
		"[SUPERVISÃO] STATUS DO SISTEMA",
		"geracao", r.GenerationStatus(),
		"recepcao", r.ReceptionStatus(),
	)
	s.log.Info("[SUPERVISÃO] Watchdog ativo e monitorando")

	if s.onReport != nil {
		s.onReport(r)
	}

	f.Feed()

	tick.Sleep(ctx, s.interval)
	return task.Continue
}

// Cycles returns how many reports have been produced.
func (s *Supervisor) Cycles() uint64 { return s.cycles.Load() }
