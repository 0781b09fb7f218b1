package main

import (
	"context"
	"fmt"
	"time"

	"github.com/randomizedcoder/taskwdt/internal/cancel"
	"github.com/randomizedcoder/taskwdt/internal/health"
	"github.com/randomizedcoder/taskwdt/internal/tick"
	"github.com/spf13/cobra"
)

func newHotpathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hotpath",
		Short: "Measure the stop check, watchdog feed and flag set a task pays per iteration",
		Long: `hotpath simulates the bookkeeping around one task iteration:

  for {
      if stop.Done() { return }
      doWork()
      flag.Set()
      registration.Feed()
  }`,
		Args: cobra.NoArgs,
		RunE: runHotpath,
	}
}

func runHotpath(cmd *cobra.Command, _ []string) error {
	n, err := iterations(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Benchmarking task bookkeeping (%d iterations)\n", n)

	stop := cancel.NewContext(context.Background())
	start := time.Now()
	for i := 0; i < n; i++ {
		_ = stop.Done()
	}
	stopDur := time.Since(start)

	d := tick.NewDeadline(time.Hour)
	start = time.Now()
	for i := 0; i < n; i++ {
		d.Reset()
	}
	feedDur := time.Since(start)

	var flags health.Flags
	start = time.Now()
	for i := 0; i < n; i++ {
		_ = stop.Done()
		flags.Generation.Set()
		d.Reset()
	}
	fullDur := time.Since(start)

	printResults(cmd, n, []result{
		{name: "stop check + flag + feed", dur: fullDur},
		{name: "stop check", dur: stopDur},
		{name: "feed", dur: feedDur},
	})
	return nil
}
