// Package queue provides the bounded FIFO shared by the producer and consumer.
//
// Two backends implement the Bounded interface:
//   - ChannelQueue: buffered channel; safe for any number of goroutines
//   - RingBuffer: lock-free ring with exact capacity; single producer,
//     single consumer only
//
// Both reject on full instead of blocking the sender, and both support a
// blocking Receive with a timeout.
//
// # RingBuffer Safety (IMPORTANT)
//
// RingBuffer is a Single-Producer Single-Consumer (SPSC) queue.
// It is NOT safe for multiple goroutines to call TrySend() or
// Pop()/Receive() concurrently.
//
// The implementation includes runtime guards that panic on misuse.
//
// Correct usage:
//   - Exactly ONE goroutine calls TrySend()
//   - Exactly ONE goroutine calls Pop() or Receive()
//   - These may be the same goroutine or different goroutines
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidCapacity is returned when a queue is created with capacity < 1.
	ErrInvalidCapacity = errors.New("queue: capacity must be positive")

	// ErrUnknownBackend is returned by New for an unrecognized Backend.
	ErrUnknownBackend = errors.New("queue: unknown backend")
)

// Bounded is a fixed-capacity FIFO queue.
//
// TrySend and Pop never block. Receive blocks until an item is available,
// the timeout elapses, or ctx is done.
type Bounded[T any] interface {
	// TrySend adds an item to the queue.
	// Returns false if the queue is full; the item is dropped.
	TrySend(T) bool

	// Pop removes and returns an item from the queue.
	// Returns false if the queue is empty.
	Pop() (T, bool)

	// Receive waits up to timeout for an item.
	// Returns false on timeout or when ctx is done.
	Receive(ctx context.Context, timeout time.Duration) (T, bool)

	// Len returns the current number of items in the queue.
	Len() int

	// Cap returns the capacity of the queue.
	Cap() int
}

// Backend selects a Bounded implementation.
type Backend uint8

const (
	BackendChannel Backend = iota
	BackendRing
)

func (b Backend) String() string {
	switch b {
	case BackendChannel:
		return "channel"
	case BackendRing:
		return "ring"
	default:
		return fmt.Sprintf("Backend(%d)", uint8(b))
	}
}

// New creates a Bounded queue of the given backend and capacity.
func New[T any](backend Backend, capacity int) (Bounded[T], error) {
	var (
		q   Bounded[T]
		err error
	)
	switch backend {
	case BackendChannel:
		var cq *ChannelQueue[T]
		cq, err = NewChannel[T](capacity)
		q = cq
	case BackendRing:
		var rq *RingBuffer[T]
		rq, err = NewRingBuffer[T](capacity)
		q = rq
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownBackend, backend)
	}
	if err != nil {
		// Avoid handing back a non-nil interface wrapping a nil pointer.
		return nil, err
	}
	return q, nil
}
