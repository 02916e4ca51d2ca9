// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPMC is a multi-producer multi-consumer bounded queue.
//
// Uses per-slot sequence numbers (Dmitry Vyukov's bounded MPMC scheme):
// slot i starts with sequence i; a producer claims a slot by CAS on the
// tail cursor when the slot's sequence matches the cursor, then publishes
// data by storing sequence tail+1; a consumer mirrors the scheme on the
// head cursor and releases the slot for the next lap by storing
// sequence head+capacity.
//
// The sequence numbers distinguish a full ring from an empty one, so all
// Cap() slots hold elements. This differs from SPSC, which tells the two
// states apart by index comparison and keeps one slot in reserve.
//
// Any number of goroutines may call Enqueue and Dequeue concurrently.
// Elements enqueued by one producer are dequeued in that producer's order;
// the global order is an interleaving of the per-producer orders.
//
// Memory: n slots (16+ bytes per slot)
type MPMC[T any] struct {
	_        pad
	tail     atomix.Uint64 // Producer index
	_        pad
	head     atomix.Uint64 // Consumer index
	_        pad
	buffer   []mpmcSlot[T]
	mask     uint64
	capacity uint64
}

type mpmcSlot[T any] struct {
	seq  atomix.Uint64
	data T
	_    padShort // Pad to cache line
}

// NewMPMC creates a new MPMC queue.
// Capacity rounds up to the next power of 2; all slots are usable.
func NewMPMC[T any](capacity int) *MPMC[T] {
	if capacity < 2 {
		panic("fifo: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	q := &MPMC[T]{
		buffer:   make([]mpmcSlot[T], n),
		mask:     n - 1,
		capacity: n,
	}

	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}

	return q
}

// Enqueue adds an element to the queue.
// Returns ErrWouldBlock if the queue is full, which happens once
// Cap() elements are buffered.
func (q *MPMC[T]) Enqueue(elem *T) error {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		slot := &q.buffer[tail&q.mask]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(tail)

		if diff == 0 {
			if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
				slot.data = *elem
				slot.seq.StoreRelease(tail + 1)
				return nil
			}
		} else if diff < 0 {
			return ErrWouldBlock
		}
		sw.Once()
	}
}

// Dequeue removes and returns an element from the queue.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *MPMC[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	for {
		head := q.head.LoadAcquire()
		slot := &q.buffer[head&q.mask]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(head+1)

		if diff == 0 {
			if q.head.CompareAndSwapAcqRel(head, head+1) {
				elem := slot.data
				var zero T
				slot.data = zero
				slot.seq.StoreRelease(head + q.capacity)
				return elem, nil
			}
		} else if diff < 0 {
			var zero T
			return zero, ErrWouldBlock
		}
		sw.Once()
	}
}

// Cap returns the physical slot count, all of which hold elements when
// the queue is full.
func (q *MPMC[T]) Cap() int {
	return int(q.capacity)
}

// Len returns a best-effort estimate of the number of buffered elements.
// Under concurrent mutation the estimate can be stale and can transiently
// exceed Cap. Exact when no concurrent mutators are active.
func (q *MPMC[T]) Len() int {
	// head is loaded first so the difference never goes negative:
	// both cursors are monotonic and head can never pass tail.
	head := q.head.Load()
	tail := q.tail.Load()
	return int(tail - head)
}

// Empty reports whether the queue appears to hold no elements.
// Exact when no concurrent mutators are active.
func (q *MPMC[T]) Empty() bool {
	head := q.head.Load()
	tail := q.tail.Load()
	return head >= tail
}
