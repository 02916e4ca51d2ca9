// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

import (
	"code.hybscloud.com/atomix"
)

// SPSC is a single-producer single-consumer bounded queue.
//
// Based on Lamport's ring buffer with cached index optimization.
// The producer caches the consumer's dequeue index, and vice versa,
// reducing cross-core cache line traffic.
//
// One slot is kept in reserve to tell a full ring from an empty one by
// index comparison alone, so a queue with Cap() physical slots buffers at
// most Cap()-1 elements. This differs from MPMC, whose per-slot sequence
// numbers carry that information and allow all Cap() slots to be used.
//
// Exactly one goroutine may call Enqueue and exactly one goroutine may call
// Dequeue. Violating these constraints causes undefined behavior including
// data corruption. Len and Empty are safe from any goroutine.
//
// Memory: O(capacity) with minimal per-slot overhead
type SPSC[T any] struct {
	_          pad
	head       atomix.Uint64 // Consumer reads from here
	_          pad
	cachedTail uint64 // Consumer's cached view of tail
	_          pad
	tail       atomix.Uint64 // Producer writes here
	_          pad
	cachedHead uint64 // Producer's cached view of head
	_          pad
	buffer     []T
	mask       uint64
}

// NewSPSC creates a new SPSC queue.
// Capacity rounds up to the next power of 2; one slot stays reserved,
// so NewSPSC[T](5) rounds to 8 slots and buffers up to 7 elements.
func NewSPSC[T any](capacity int) *SPSC[T] {
	if capacity < 2 {
		panic("fifo: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	return &SPSC[T]{
		buffer: make([]T, n),
		mask:   n - 1,
	}
}

// Enqueue adds an element to the queue (producer only).
// Returns ErrWouldBlock if the queue is full, which happens once
// Cap()-1 elements are buffered.
func (q *SPSC[T]) Enqueue(elem *T) error {
	tail := q.tail.LoadRelaxed()
	if tail-q.cachedHead >= q.mask {
		q.cachedHead = q.head.LoadAcquire()
		if tail-q.cachedHead >= q.mask {
			return ErrWouldBlock
		}
	}

	q.buffer[tail&q.mask] = *elem
	q.tail.StoreRelease(tail + 1)
	return nil
}

// Dequeue removes and returns an element (consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *SPSC[T]) Dequeue() (T, error) {
	head := q.head.LoadRelaxed()
	if head >= q.cachedTail {
		q.cachedTail = q.tail.LoadAcquire()
		if head >= q.cachedTail {
			var zero T
			return zero, ErrWouldBlock
		}
	}

	elem := q.buffer[head&q.mask]
	var zero T
	q.buffer[head&q.mask] = zero
	q.head.StoreRelease(head + 1)
	return elem, nil
}

// Cap returns the physical slot count. The queue buffers at most
// Cap()-1 elements; the remaining slot is reserved.
func (q *SPSC[T]) Cap() int {
	return int(q.mask + 1)
}

// Len returns a best-effort estimate of the number of buffered elements.
// Exact when no concurrent Enqueue or Dequeue is in flight.
func (q *SPSC[T]) Len() int {
	// head is loaded first so the difference never goes negative:
	// both cursors are monotonic and head can never pass tail.
	head := q.head.Load()
	tail := q.tail.Load()
	return int(tail - head)
}

// Empty reports whether the queue appears to hold no elements.
// Exact when no concurrent mutators are active.
func (q *SPSC[T]) Empty() bool {
	head := q.head.Load()
	tail := q.tail.Load()
	return head >= tail
}
