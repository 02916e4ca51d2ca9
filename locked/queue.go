// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package locked

import (
	"sync"

	"github.com/eapache/queue"
)

// Queue is a blocking multi-producer multi-consumer FIFO queue.
//
// A single mutex guards an amortized-O(1) ring container and a condition
// variable wakes consumers blocked in Pop. Unlike the queues in the parent
// package, Pop waits for an element instead of reporting an empty queue;
// use TryPop for the non-blocking form.
//
// Queue never rejects a Push: the container grows on demand. All methods
// are safe for any number of concurrent goroutines.
type Queue[T any] struct {
	mu    sync.Mutex
	ready *sync.Cond
	items *queue.Queue
}

// NewQueue creates an empty blocking queue.
func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{items: queue.New()}
	q.ready = sync.NewCond(&q.mu)
	return q
}

// Push appends v and wakes one blocked consumer, if any.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items.Add(v)
	q.mu.Unlock()
	// Signal after unlock so the woken consumer finds the mutex free.
	q.ready.Signal()
}

// Pop removes and returns the front element, blocking until one is
// available.
func (q *Queue[T]) Pop() T {
	q.mu.Lock()
	for q.items.Length() == 0 {
		q.ready.Wait()
	}
	v := q.items.Remove().(T)
	q.mu.Unlock()
	return v
}

// TryPop removes and returns the front element without blocking.
// The second return value is false when the queue is empty.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Length() == 0 {
		var zero T
		return zero, false
	}
	return q.items.Remove().(T), true
}

// Len returns the number of buffered elements.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}

// Empty reports whether the queue holds no elements.
func (q *Queue[T]) Empty() bool {
	return q.Len() == 0
}
