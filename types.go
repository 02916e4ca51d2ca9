// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

// Queue is the combined producer-consumer interface for a FIFO queue.
//
// Queue provides non-blocking Enqueue and Dequeue operations. Both operations
// return ErrWouldBlock when they cannot proceed (bounded queue full, or any
// queue empty). Unbounded queues grow on demand and never fail Enqueue.
//
// Len and Empty are best-effort diagnostics. Under concurrent mutation the
// reported state may be stale by the time the call returns; use them for
// monitoring and backpressure hints, never as a correctness oracle. When no
// other goroutine is mutating the queue, both are exact.
//
// Example:
//
//	q := fifo.NewMPMC[int](1024)
//
//	// Enqueue
//	val := 42
//	if err := q.Enqueue(&val); err != nil {
//	    // Handle full queue
//	}
//
//	// Dequeue
//	elem, err := q.Dequeue()
//	if err == nil {
//	    fmt.Println(elem)
//	}
type Queue[T any] interface {
	Producer[T]
	Consumer[T]

	// Len returns a best-effort estimate of the number of buffered
	// elements. The estimate can be stale under concurrent mutation and
	// can transiently exceed the capacity of a bounded queue.
	Len() int

	// Empty reports whether the queue appears to hold no elements.
	// Exact when no concurrent mutators are active.
	Empty() bool
}

// Bounded is a Queue backed by a fixed-capacity ring buffer.
//
// Cap reports the physical slot count, which is the requested capacity
// rounded up to the next power of 2. How many of those slots can hold
// elements at once depends on the variant: MPMC uses all Cap() slots,
// SPSC keeps one slot in reserve and buffers at most Cap()-1 elements.
type Bounded[T any] interface {
	Queue[T]
	Cap() int
}

// Producer is the interface for enqueueing elements.
//
// Producer provides non-blocking enqueue operations. The element is passed
// by pointer to avoid copying large structs. The queue stores a copy of
// the pointed-to value, so the original can be modified after Enqueue returns.
type Producer[T any] interface {
	// Enqueue adds an element to the queue (non-blocking).
	// The element is copied into the queue's internal storage.
	// Returns nil on success, ErrWouldBlock if a bounded queue is full.
	// Unbounded queues always return nil.
	//
	// Thread safety depends on queue type:
	//   - SPSC / UnboundedSPSC: single producer only
	//   - MPMC / UnboundedMPMC: multiple producers safe
	Enqueue(elem *T) error
}

// Consumer is the interface for dequeueing elements.
//
// Consumer provides non-blocking dequeue operations. The element is returned
// by value (copied from the queue's internal storage). The original slot is
// cleared to allow garbage collection of referenced objects.
type Consumer[T any] interface {
	// Dequeue removes and returns an element from the queue (non-blocking).
	// Returns the dequeued element on success.
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	//
	// Thread safety depends on queue type:
	//   - SPSC / UnboundedSPSC: single consumer only
	//   - MPMC / UnboundedMPMC: multiple consumers safe
	Dequeue() (T, error)
}
