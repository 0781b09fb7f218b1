package queue

import (
	"context"
	"fmt"
	"time"
)

// ChannelQueue wraps a buffered channel as a Bounded queue.
//
// The channel serializes senders and receivers internally, so unlike
// RingBuffer it is safe for multiple producers and consumers.
type ChannelQueue[T any] struct {
	ch chan T
}

// NewChannel creates a ChannelQueue holding at most capacity items.
func NewChannel[T any](capacity int) (*ChannelQueue[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &ChannelQueue[T]{
		ch: make(chan T, capacity),
	}, nil
}

// TrySend adds an item to the queue.
// Returns false if the queue is full (non-blocking).
func (q *ChannelQueue[T]) TrySend(v T) bool {
	select {
	case q.ch <- v:
		return true
	default:
		return false
	}
}

// Pop removes and returns an item from the queue.
// Returns false if the queue is empty (non-blocking).
func (q *ChannelQueue[T]) Pop() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Receive waits up to timeout for an item.
// A non-positive timeout behaves like Pop.
func (q *ChannelQueue[T]) Receive(ctx context.Context, timeout time.Duration) (T, bool) {
	if timeout <= 0 {
		return q.Pop()
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case v := <-q.ch:
		return v, true
	case <-ctx.Done():
		var zero T
		return zero, false
	case <-timer.C:
		// An item may have landed in the same instant the timer fired.
		return q.Pop()
	}
}

// Len returns the current number of items in the queue.
func (q *ChannelQueue[T]) Len() int {
	return len(q.ch)
}

// Cap returns the capacity of the queue.
func (q *ChannelQueue[T]) Cap() int {
	return cap(q.ch)
}
