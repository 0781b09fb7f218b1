// Command taskbench measures the per-iteration cost of the pieces
// a task loop is built from.
//
// Usage:
//
//	go run ./cmd/taskbench queue -n 10000000
//	go run ./cmd/taskbench hotpath -n 10000000
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "taskbench",
		Short:        "Micro-benchmarks for the task loop building blocks",
		SilenceUsage: true,
	}
	root.PersistentFlags().IntP("iterations", "n", 10_000_000, "number of iterations")

	root.AddCommand(newQueueCmd(), newHotpathCmd())
	return root
}

func iterations(cmd *cobra.Command) (int, error) {
	n, err := cmd.Flags().GetInt("iterations")
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("iterations must be positive; got %d", n)
	}
	return n, nil
}

type result struct {
	name string
	dur  time.Duration
}

func printResults(cmd *cobra.Command, n int, results []result) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Architecture: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintln(w, "\nResults:")
	fmt.Fprintln(w, "─────────────────────────────────────────────────")

	base := float64(results[0].dur.Nanoseconds()) / float64(n)
	for _, r := range results {
		perOp := float64(r.dur.Nanoseconds()) / float64(n)
		fmt.Fprintf(w, "  %-22s %v (%.2f ns/op, %.2fx)\n", r.name+":", r.dur, perOp, base/perOp)
	}
}
