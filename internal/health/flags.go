// Package health holds the liveness flags shared between the worker tasks
// and the supervisor.
//
// Each flag has exactly one writer (its owning task) and one reader that
// consumes it (the supervisor). The flags are advisory: a report that is one
// cycle stale is acceptable, so they use plain atomics and no locks.
package health

import "sync/atomic"

// Flag is a single-writer liveness signal.
//
// The owner calls Set after each successful unit of work; the supervisor
// calls Consume once per cycle to read and clear it in one step.
type Flag struct {
	v atomic.Bool
}

// Set marks the owner as having completed work since the last Consume.
func (f *Flag) Set() {
	f.v.Store(true)
}

// Clear marks the owner as failed without waiting for the next Consume.
func (f *Flag) Clear() {
	f.v.Store(false)
}

// Load reports the current value without clearing it.
func (f *Flag) Load() bool {
	return f.v.Load()
}

// Consume returns the current value and resets the flag to false.
//
// A Set that races with Consume is either reported now or on the next
// cycle; it is never lost.
func (f *Flag) Consume() bool {
	return f.v.Swap(false)
}

// Flags is the status structure passed by reference to the producer,
// the consumer, and the supervisor.
type Flags struct {
	// Generation is written by the producer.
	Generation Flag

	// Reception is written by the consumer.
	Reception Flag
}

// Snapshot consumes both flags and returns what they held.
func (f *Flags) Snapshot() Report {
	return Report{
		Generation: f.Generation.Consume(),
		Reception:  f.Reception.Consume(),
	}
}
