// Package combined benchmarks the task hot path end to end:
// the runtime's stop check, the watchdog feed, and one producer and
// consumer step over each queue backend.
//
// These numbers are closer to what a running system pays per iteration
// than the per-package micro-benchmarks.
package combined
