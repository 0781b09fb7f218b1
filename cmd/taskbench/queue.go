package main

import (
	"fmt"
	"time"

	"github.com/randomizedcoder/taskwdt/internal/queue"
	"github.com/spf13/cobra"
)

func newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Compare TrySend+Pop on each queue backend",
		Args:  cobra.NoArgs,
		RunE:  runQueue,
	}
	cmd.Flags().Int("size", 1024, "queue capacity")
	return cmd
}

func runQueue(cmd *cobra.Command, _ []string) error {
	n, err := iterations(cmd)
	if err != nil {
		return err
	}
	size, err := cmd.Flags().GetInt("size")
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Benchmarking bounded queue (%d iterations, size=%d)\n", n, size)

	var results []result
	for _, backend := range []queue.Backend{queue.BackendChannel, queue.BackendRing} {
		q, err := queue.New[int](backend, size)
		if err != nil {
			return err
		}

		start := time.Now()
		for i := 0; i < n; i++ {
			q.TrySend(i)
			q.Pop()
		}
		results = append(results, result{name: backend.String(), dur: time.Since(start)})
	}

	printResults(cmd, n, results)
	return nil
}
