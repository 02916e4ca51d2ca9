// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// UnboundedSPSC is a single-producer single-consumer unbounded queue.
//
// The queue is a chain of dummy nodes: the producer owns a private cursor
// to the trailing dummy and the consumer owns a private cursor to the
// leading one. To enqueue, the producer attaches the payload to the current
// trailing dummy, links a freshly allocated dummy after it, and advances
// its cursor. The payload is attached before the link is published, so a
// consumer that observes the link also observes the payload; a node whose
// link is still nil is not consumable.
//
// The only shared words are the per-node link pointers and the element
// counter. Consumed nodes become unreachable when the consumer cursor moves
// past them and are reclaimed by the garbage collector; nodes are never
// recycled, so a dequeue can never observe a reused node.
//
// Exactly one goroutine may call Enqueue and exactly one goroutine may call
// Dequeue. Violating these constraints causes undefined behavior including
// data corruption. Len and Empty are safe from any goroutine.
//
// Memory: one node allocation per element, freed by the collector after
// consumption.
type UnboundedSPSC[T any] struct {
	_      pad
	head   *spscNode[T] // Consumer-owned cursor
	_      pad
	tail   *spscNode[T] // Producer-owned cursor (trailing dummy)
	_      pad
	length atomix.Int64
}

type spscNode[T any] struct {
	next atomic.Pointer[spscNode[T]]
	item *T
}

// NewUnboundedSPSC creates a new unbounded SPSC queue.
func NewUnboundedSPSC[T any]() *UnboundedSPSC[T] {
	d := &spscNode[T]{}
	return &UnboundedSPSC[T]{head: d, tail: d}
}

// Enqueue adds an element to the queue (producer only).
// The queue grows on demand; Enqueue always returns nil.
func (q *UnboundedSPSC[T]) Enqueue(elem *T) error {
	v := *elem
	n := &spscNode[T]{}

	t := q.tail
	t.item = &v
	q.length.Add(1)
	// Publishing the link releases the payload write above.
	t.next.Store(n)
	q.tail = n
	return nil
}

// Dequeue removes and returns an element (consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *UnboundedSPSC[T]) Dequeue() (T, error) {
	h := q.head
	next := h.next.Load()
	if next == nil {
		var zero T
		return zero, ErrWouldBlock
	}
	// The payload is stored before the link is published, so a visible
	// link implies a visible payload.
	item := h.item
	q.head = next
	q.length.Add(-1)
	return *item, nil
}

// Len returns a best-effort estimate of the number of buffered elements.
// Exact when no concurrent Enqueue or Dequeue is in flight.
func (q *UnboundedSPSC[T]) Len() int {
	return int(q.length.Load())
}

// Empty reports whether the queue appears to hold no elements.
// Exact when no concurrent mutators are active.
func (q *UnboundedSPSC[T]) Empty() bool {
	return q.length.Load() == 0
}
