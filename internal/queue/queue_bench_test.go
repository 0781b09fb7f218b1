package queue_test

import (
	"context"
	"testing"
	"time"

	ring "github.com/randomizedcoder/go-lock-free-ring"

	"github.com/randomizedcoder/taskwdt/internal/queue"
)

// Sink variables to prevent compiler from eliminating benchmark loops
var sinkInt int
var sinkBool bool

const benchCapacity = 1024

// Direct type benchmarks (true performance floor)

func BenchmarkQueue_Channel_SendPop_Direct(b *testing.B) {
	q, _ := queue.NewChannel[int](benchCapacity)
	b.ReportAllocs()
	b.ResetTimer()

	var val int
	var ok bool
	for i := 0; i < b.N; i++ {
		q.TrySend(i)
		val, ok = q.Pop()
	}
	sinkInt = val
	sinkBool = ok
}

func BenchmarkQueue_RingBuffer_SendPop_Direct(b *testing.B) {
	q, _ := queue.NewRingBuffer[int](benchCapacity)
	b.ReportAllocs()
	b.ResetTimer()

	var val int
	var ok bool
	for i := 0; i < b.N; i++ {
		q.TrySend(i)
		val, ok = q.Pop()
	}
	sinkInt = val
	sinkBool = ok
}

// Interface benchmarks (with dynamic dispatch overhead)

func BenchmarkQueue_SendPop_Interface(b *testing.B) {
	for _, backend := range backends {
		b.Run(backend.String(), func(b *testing.B) {
			q, _ := queue.New[int](backend, benchCapacity)
			b.ReportAllocs()
			b.ResetTimer()

			var val int
			var ok bool
			for i := 0; i < b.N; i++ {
				q.TrySend(i)
				val, ok = q.Pop()
			}
			sinkInt = val
			sinkBool = ok
		})
	}
}

// Receive on a queue that already holds an item: no timer should be armed.

func BenchmarkQueue_SendReceive_Ready(b *testing.B) {
	ctx := context.Background()
	for _, backend := range backends {
		b.Run(backend.String(), func(b *testing.B) {
			q, _ := queue.New[int](backend, benchCapacity)
			b.ReportAllocs()
			b.ResetTimer()

			var val int
			var ok bool
			for i := 0; i < b.N; i++ {
				q.TrySend(i)
				val, ok = q.Receive(ctx, time.Second)
			}
			sinkInt = val
			sinkBool = ok
		})
	}
}

// Full-queue drop path, which the producer hits when the consumer is gone.

func BenchmarkQueue_DropWhenFull(b *testing.B) {
	for _, backend := range backends {
		b.Run(backend.String(), func(b *testing.B) {
			q, _ := queue.New[int](backend, 10)
			for q.TrySend(0) {
			}
			b.ReportAllocs()
			b.ResetTimer()

			var ok bool
			for i := 0; i < b.N; i++ {
				ok = q.TrySend(i)
			}
			sinkBool = ok
		})
	}
}

// ============================================================================
// SPSC: 1 Producer → 1 Consumer, compared with go-lock-free-ring
// ============================================================================

func BenchmarkQueue_SPSC_RingBuffer(b *testing.B) {
	q, _ := queue.NewRingBuffer[int](benchCapacity)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			default:
				q.Pop()
			}
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for !q.TrySend(i) {
		}
	}
	b.StopTimer()
	close(done)
}

func BenchmarkQueue_SPSC_Channel(b *testing.B) {
	q, _ := queue.NewChannel[int](benchCapacity)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			default:
				q.Pop()
			}
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for !q.TrySend(i) {
		}
	}
	b.StopTimer()
	close(done)
}

// BenchmarkQueue_SPSC_ShardedRing1 - go-lock-free-ring with 1 shard (SPSC-like).
// It rounds capacity to a power of two, which is why it is not a Bounded backend.
func BenchmarkQueue_SPSC_ShardedRing1(b *testing.B) {
	r, _ := ring.NewShardedRing(1024, 1)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			default:
				r.TryRead()
			}
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for !r.Write(0, i) {
		}
	}
	b.StopTimer()
	close(done)
}
