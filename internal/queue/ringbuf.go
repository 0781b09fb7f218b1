package queue

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// RingBuffer is a lock-free SPSC (Single-Producer Single-Consumer) queue.
//
// WARNING: This queue is NOT safe for multiple producers or multiple consumers.
// Using it incorrectly will cause data races and undefined behavior.
//
// Unlike a power-of-two ring, the capacity is exactly what was requested,
// so a queue of 10 rejects the 11th item.
type RingBuffer[T any] struct {
	buf []T

	// Cache line padding to prevent false sharing
	_pad0 [56]byte //nolint:unused

	head atomic.Uint64 // Written by producer, read by consumer

	_pad1 [56]byte //nolint:unused

	tail atomic.Uint64 // Written by consumer, read by producer

	_pad2 [56]byte //nolint:unused

	// SPSC guards: detect concurrent misuse
	pushActive atomic.Uint32
	popActive  atomic.Uint32

	// ready holds at most one pending wake-up for a blocked Receive.
	ready chan struct{}
}

// NewRingBuffer creates a RingBuffer holding at most capacity items.
func NewRingBuffer[T any](capacity int) (*RingBuffer[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	return &RingBuffer[T]{
		buf:   make([]T, capacity),
		ready: make(chan struct{}, 1),
	}, nil
}

// TrySend adds an item to the queue.
// Returns false if the queue is full.
//
// SPSC CONTRACT: Only ONE goroutine may call TrySend().
func (r *RingBuffer[T]) TrySend(v T) bool {
	// SPSC guard: panic if concurrent TrySend detected
	if !r.pushActive.CompareAndSwap(0, 1) {
		panic("queue: concurrent TrySend on SPSC RingBuffer - only one producer allowed")
	}
	defer r.pushActive.Store(0)

	head := r.head.Load()
	tail := r.tail.Load()

	// Check if full
	if head-tail >= uint64(len(r.buf)) {
		return false
	}

	r.buf[head%uint64(len(r.buf))] = v

	// Publish (store-release semantics via atomic)
	r.head.Store(head + 1)

	select {
	case r.ready <- struct{}{}:
	default:
		// A wake-up is already pending.
	}

	return true
}

// Pop removes and returns an item from the queue.
// Returns false if the queue is empty.
//
// SPSC CONTRACT: Only ONE goroutine may call Pop() or Receive().
func (r *RingBuffer[T]) Pop() (T, bool) {
	// SPSC guard: panic if concurrent Pop detected
	if !r.popActive.CompareAndSwap(0, 1) {
		panic("queue: concurrent Pop on SPSC RingBuffer - only one consumer allowed")
	}
	defer r.popActive.Store(0)

	tail := r.tail.Load()
	head := r.head.Load()

	// Check if empty
	if tail >= head {
		var zero T
		return zero, false
	}

	idx := tail % uint64(len(r.buf))
	v := r.buf[idx]

	// Drop the reference so the slot does not pin memory.
	var zero T
	r.buf[idx] = zero

	// Consume (store-release semantics via atomic)
	r.tail.Store(tail + 1)

	return v, true
}

// Receive waits up to timeout for an item.
// A non-positive timeout behaves like Pop.
//
// SPSC CONTRACT: Only ONE goroutine may call Pop() or Receive().
func (r *RingBuffer[T]) Receive(ctx context.Context, timeout time.Duration) (T, bool) {
	if v, ok := r.Pop(); ok || timeout <= 0 {
		return v, ok
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-r.ready:
			// The wake-up may be stale from an item already popped,
			// so only return if the pop succeeds.
			if v, ok := r.Pop(); ok {
				return v, true
			}
		case <-ctx.Done():
			var zero T
			return zero, false
		case <-timer.C:
			return r.Pop()
		}
	}
}

// Len returns the current number of items in the queue.
// This is an approximation and may be slightly stale.
func (r *RingBuffer[T]) Len() int {
	// tail first: it never passes a head loaded after it.
	tail := r.tail.Load()
	head := r.head.Load()
	return int(head - tail)
}

// Cap returns the capacity of the queue.
func (r *RingBuffer[T]) Cap() int {
	return len(r.buf)
}
