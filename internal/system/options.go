package system

import (
	"time"

	"github.com/randomizedcoder/taskwdt/internal/queue"
	"github.com/randomizedcoder/taskwdt/internal/roles"
)

// Option customizes [Start].
type Option func(*options)

type options struct {
	backend       queue.Backend
	checkInterval time.Duration
	onReport      roles.ReportFunc
	process       roles.ProcessFunc
}

func defaultOptions() options {
	return options{
		backend: queue.BackendChannel,
	}
}

// WithQueueBackend selects the queue implementation.
// The default is [queue.BackendChannel].
func WithQueueBackend(b queue.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithCheckInterval sets how often the watchdog checks its registrations.
// Zero, the default, means a quarter of the watchdog timeout.
func WithCheckInterval(d time.Duration) Option {
	return func(o *options) { o.checkInterval = d }
}

// WithReportHook is called with every supervisor report.
func WithReportHook(fn roles.ReportFunc) Option {
	return func(o *options) { o.onReport = fn }
}

// WithProcessFunc sets the consumer's processing step.
func WithProcessFunc(fn roles.ProcessFunc) Option {
	return func(o *options) { o.process = fn }
}
