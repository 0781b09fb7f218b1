// Command taskwdt runs the producer, consumer and supervisor tasks
// under the task watchdog until interrupted.
//
// Usage:
//
//	taskwdt
//
// The cadences are fixed. Logging can be adjusted with
// TASKWDT_LOGGING_LEVEL (debug, info, warn, error) and
// TASKWDT_LOGGING_FORMAT (text, json).
//
// The command exits with status 1 if the watchdog fires.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/randomizedcoder/taskwdt/internal/config"
	"github.com/randomizedcoder/taskwdt/internal/logging"
	"github.com/randomizedcoder/taskwdt/internal/system"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "taskwdt",
		Short: "Producer, consumer and supervisor tasks under a task watchdog",
		Long: `taskwdt runs three fixed tasks: a producer feeding a bounded queue,
a consumer draining it with timeout-driven recovery, and a supervisor
reporting both tasks' liveness. Every task must feed the watchdog
within its timeout or the process exits.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.ErrOrStderr())
		},
	}
}

func run(ctx context.Context, w io.Writer, opts ...system.Option) error {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return err
	}

	log := logging.New(w, logging.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		SystemTag: cfg.SystemTag,
	})

	s, err := system.Start(ctx, log, cfg, opts...)
	if err != nil {
		return err
	}

	if err := s.Wait(); err != nil {
		log.Error("[SISTEMA] Sistema encerrado pelo watchdog", "cause", err)
		return err
	}

	log.Info("[SISTEMA] Sistema encerrado")
	return nil
}
