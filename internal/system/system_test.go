package system_test

import (
	"context"
	"testing"

	"github.com/randomizedcoder/taskwdt/internal/config"
	"github.com/randomizedcoder/taskwdt/internal/gtest"
	"github.com/randomizedcoder/taskwdt/internal/health"
	"github.com/randomizedcoder/taskwdt/internal/queue"
	"github.com/randomizedcoder/taskwdt/internal/roles"
	"github.com/randomizedcoder/taskwdt/internal/system"
	"github.com/randomizedcoder/taskwdt/internal/task"
	"github.com/randomizedcoder/taskwdt/internal/watchdog"
	"github.com/stretchr/testify/require"
)

// fastConfig keeps the proportions between cadences
// but runs everything in milliseconds.
func fastConfig() *config.Config {
	cfg := config.Default()
	cfg.Watchdog.Timeout = gtest.ScaleMs(600).D()
	cfg.Producer.Interval = gtest.ScaleMs(10).D()
	cfg.Consumer.ReceiveTimeout = gtest.ScaleMs(60).D()
	cfg.Consumer.RecoveryDelay = gtest.ScaleMs(20).D()
	cfg.Consumer.RecoveryTimeout = gtest.ScaleMs(20).D()
	cfg.Supervisor.Interval = gtest.ScaleMs(40).D()
	return cfg
}

// reportSink collects supervisor reports without ever blocking the supervisor.
func reportSink() (chan health.Report, roles.ReportFunc) {
	ch := make(chan health.Report, 64)
	return ch, func(r health.Report) {
		select {
		case ch <- r:
		default:
		}
	}
}

func drain[T any](ch <-chan T) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func TestSystem_NominalReportsHealthy(t *testing.T) {
	t.Parallel()

	for _, backend := range []queue.Backend{queue.BackendChannel, queue.BackendRing} {
		t.Run(backend.String(), func(t *testing.T) {
			t.Parallel()

			reports, hook := reportSink()
			s, err := system.Start(
				context.Background(), gtest.NewLogger(t), fastConfig(),
				system.WithQueueBackend(backend),
				system.WithReportHook(hook),
			)
			require.NoError(t, err)
			defer s.Stop()

			handles := s.Handles()
			require.Len(t, handles, 3)
			require.Equal(t, "TaskGenerate", handles[0].Name())
			require.Equal(t, "TaskReceive", handles[1].Name())
			require.Equal(t, "TaskSupervision", handles[2].Name())

			require.Equal(t, 10, s.Queue().Cap())

			// The first report may race with the first steps; a later one must be healthy.
			healthy := false
			for range 10 {
				r := gtest.ReceiveOrTimeout(t, reports, gtest.ScaleMs(500))
				if r.Healthy() {
					healthy = true
					break
				}
			}
			require.True(t, healthy)
			require.Positive(t, s.Consumer().Received())

			s.Stop()
			for _, h := range s.Handles() {
				require.Equal(t, task.StateStopped, h.State(), h.Name())
			}
		})
	}
}

func TestSystem_ConsumerTerminationReportsReceptionFailure(t *testing.T) {
	t.Parallel()

	cfg := fastConfig()
	// The producer is slower than the consumer's whole recovery window,
	// so the consumer gives up; the supervisor window still covers a
	// producer step.
	cfg.Producer.Interval = gtest.ScaleMs(200).D()
	cfg.Consumer.ReceiveTimeout = gtest.ScaleMs(20).D()
	cfg.Consumer.RecoveryDelay = gtest.ScaleMs(10).D()
	cfg.Consumer.RecoveryTimeout = gtest.ScaleMs(20).D()
	cfg.Supervisor.Interval = gtest.ScaleMs(250).D()

	reports, hook := reportSink()
	s, err := system.Start(context.Background(), gtest.NewLogger(t), cfg, system.WithReportHook(hook))
	require.NoError(t, err)
	defer s.Stop()

	consumer := s.Handles()[1]
	_ = gtest.ReceiveOrTimeout(t, consumer.Done(), gtest.ScaleMs(1000))
	require.Equal(t, task.StateTerminated, consumer.State())
	require.Equal(t, roles.ConsumerTerminated, s.Consumer().State())

	drain(reports)
	for range 2 {
		r := gtest.ReceiveOrTimeout(t, reports, gtest.ScaleMs(1000))
		require.Equal(t, health.StatusOK, r.GenerationStatus())
		require.Equal(t, health.StatusFailure, r.ReceptionStatus())
	}

	// The degraded system keeps running: the watchdog did not fire.
	require.Equal(t, task.StateRunning, s.Handles()[0].State())
	require.Equal(t, task.StateRunning, s.Handles()[2].State())

	s.Stop()
	require.NoError(t, s.Wait())
}

func TestSystem_QueueCreationFailureSpawnsNothing(t *testing.T) {
	t.Parallel()

	s, err := system.Start(
		context.Background(), gtest.NewLogger(t), fastConfig(),
		system.WithQueueBackend(queue.Backend(99)),
	)
	require.ErrorIs(t, err, queue.ErrUnknownBackend)
	require.Nil(t, s)
}

func TestSystem_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := fastConfig()
	cfg.Queue.Capacity = 0

	s, err := system.Start(context.Background(), gtest.NewLogger(t), cfg)
	require.Error(t, err)
	require.Nil(t, s)

	var verrs config.ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestSystem_WaitReturnsNilOnShutdown(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := system.Start(ctx, gtest.NewLogger(t), fastConfig())
	require.NoError(t, err)

	waitErr := make(chan error, 1)
	go func() { waitErr <- s.Wait() }()

	gtest.NotSending(t, waitErr)
	cancel()

	require.NoError(t, gtest.ReceiveSoon(t, waitErr))
	for _, h := range s.Handles() {
		require.Equal(t, task.StateStopped, h.State(), h.Name())
	}
}

func TestSystem_WedgedConsumerTripsWatchdog(t *testing.T) {
	t.Parallel()

	cfg := fastConfig()

	// The processing step ignores ctx, so the consumer can only be
	// stopped by unblocking it.
	block := make(chan struct{})
	s, err := system.Start(
		context.Background(), gtest.NewLogger(t), cfg,
		system.WithProcessFunc(func(context.Context, int) error {
			<-block
			return nil
		}),
	)
	require.NoError(t, err)
	defer s.Stop()
	defer close(block)

	waitErr := make(chan error, 1)
	go func() { waitErr <- s.Wait() }()

	// Default check interval is a tenth of the timeout.
	limit := cfg.Watchdog.Timeout + cfg.Watchdog.Timeout/10 + gtest.ScaleMs(300).D()
	err = gtest.ReceiveOrTimeout(t, waitErr, gtest.ScaledDuration(limit))
	require.Equal(t, watchdog.FailureToRespondError{TaskName: "TaskReceive"}, err)

	// Wait returned while the consumer was still wedged.
	require.Equal(t, task.StateRunning, s.Handles()[1].State())
	require.Equal(t, roles.ConsumerProcessing, s.Consumer().State())
}
