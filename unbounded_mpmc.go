// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// UnboundedMPMC is a multi-producer multi-consumer unbounded queue.
//
// Based on the Michael-Scott two-pointer algorithm (PODC 1996): head always
// points at a dummy node whose successor holds the front element, tail
// points at the last or second-to-last node. An enqueue links a fully built
// node after the last one and then swings the tail forward with a
// compare-and-swap against the tail value it observed while linking; the
// swing is best-effort because any thread that finds the tail lagging helps
// it forward before retrying its own operation. A stalled thread therefore
// cannot block the others: every failed CAS means some other thread made
// progress.
//
// Nodes unlinked from the chain are reclaimed by the garbage collector once
// no goroutine can reach them, and nodes are never recycled while a
// concurrent operation may still hold a reference. A head or tail CAS can
// consequently never observe a reused address (no ABA). After a successful
// dequeue the surviving dummy's payload reference is dropped so the element
// itself does not outlive its consumption.
//
// Any number of goroutines may call Enqueue and Dequeue concurrently.
// Elements enqueued by one producer are dequeued in that producer's order;
// the global order is an interleaving of the per-producer orders.
//
// Memory: one node allocation per element, freed by the collector after
// consumption.
type UnboundedMPMC[T any] struct {
	_      pad
	head   atomic.Pointer[mpmcNode[T]] // Dummy; head.next holds the front element
	_      pad
	tail   atomic.Pointer[mpmcNode[T]] // Last or second-to-last node
	_      pad
	length atomix.Int64
}

type mpmcNode[T any] struct {
	next atomic.Pointer[mpmcNode[T]]
	item atomic.Pointer[T]
}

// NewUnboundedMPMC creates a new unbounded MPMC queue.
func NewUnboundedMPMC[T any]() *UnboundedMPMC[T] {
	q := &UnboundedMPMC[T]{}
	d := &mpmcNode[T]{}
	q.head.Store(d)
	q.tail.Store(d)
	return q
}

// Enqueue adds an element to the queue.
// The queue grows on demand; Enqueue always returns nil.
func (q *UnboundedMPMC[T]) Enqueue(elem *T) error {
	v := *elem
	n := &mpmcNode[T]{}
	n.item.Store(&v)
	q.length.Add(1)

	sw := spin.Wait{}
	for {
		tail := q.tail.Load()
		next := tail.next.Load()
		if tail == q.tail.Load() {
			if next == nil {
				if tail.next.CompareAndSwap(nil, n) {
					// Best-effort swing from the observed tail; a
					// failed CAS means another thread already helped.
					q.tail.CompareAndSwap(tail, n)
					return nil
				}
			} else {
				// Tail lags behind the last linked node; help it forward
				// and retry at once. Whether or not this CAS wins, the
				// tail has advanced past the snapshot, so backing off
				// would only delay the retry.
				q.tail.CompareAndSwap(tail, next)
				continue
			}
		}
		sw.Once()
	}
}

// Dequeue removes and returns an element from the queue.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *UnboundedMPMC[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		next := head.next.Load()
		if head == q.head.Load() {
			if head == tail {
				if next == nil {
					var zero T
					return zero, ErrWouldBlock
				}
				// A node is linked but the tail has not been swung
				// yet; help it forward and retry at once.
				q.tail.CompareAndSwap(tail, next)
				continue
			}
			// head was behind tail in a consistent snapshot, so next
			// is non-nil. A nil payload means a racing dequeue already
			// claimed it through a head we are about to find stale.
			item := next.item.Load()
			if item != nil && q.head.CompareAndSwap(head, next) {
				// next is the new dummy; drop its payload reference
				// so the element can be collected.
				next.item.Store(nil)
				q.length.Add(-1)
				return *item, nil
			}
		}
		sw.Once()
	}
}

// Len returns a best-effort estimate of the number of buffered elements.
// The estimate counts enqueues that are still being linked, so it can run
// slightly ahead of what Dequeue can observe. Exact when no concurrent
// mutators are active.
func (q *UnboundedMPMC[T]) Len() int {
	return int(q.length.Load())
}

// Empty reports whether the queue appears to hold no elements.
// Exact when no concurrent mutators are active.
func (q *UnboundedMPMC[T]) Empty() bool {
	return q.head.Load().next.Load() == nil
}
