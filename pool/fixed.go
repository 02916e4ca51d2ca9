// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pool provides preallocated object storage.
package pool

// Fixed is a fixed-capacity free-list allocator.
//
// All values live in a single arena allocated up front; Get pops a free
// value and Put pushes one back, both in O(1) with no allocation. Once the
// arena is exhausted Get reports failure instead of growing.
//
// Fixed is sequential: it is not safe for concurrent use. Callers that
// share a pool across goroutines must guard it themselves. The queues in
// the parent package deliberately do not draw their nodes from a pool of
// this kind: recycling a node while a concurrent dequeue may still hold a
// reference to it would break their reclamation guarantees.
type Fixed[T any] struct {
	arena []T
	free  []*T
}

// NewFixed creates a pool holding size values.
// Panics if size < 1.
func NewFixed[T any](size int) *Fixed[T] {
	if size < 1 {
		panic("pool: size must be >= 1")
	}
	p := &Fixed[T]{
		arena: make([]T, size),
		free:  make([]*T, size),
	}
	for i := range p.arena {
		p.free[i] = &p.arena[i]
	}
	return p
}

// Get returns a zeroed value from the pool.
// The second return value is false when the pool is exhausted.
func (p *Fixed[T]) Get() (*T, bool) {
	n := len(p.free)
	if n == 0 {
		return nil, false
	}
	v := p.free[n-1]
	p.free = p.free[:n-1]
	return v, true
}

// Put returns v to the pool. The value is zeroed so the references it
// holds do not outlive its use.
//
// v must have been obtained from Get on the same pool and must not be
// used after Put. Returning a foreign pointer or the same value twice
// corrupts the free list.
func (p *Fixed[T]) Put(v *T) {
	var zero T
	*v = zero
	p.free = append(p.free, v)
}

// Len returns the number of values currently available.
func (p *Fixed[T]) Len() int {
	return len(p.free)
}

// Cap returns the arena size.
func (p *Fixed[T]) Cap() int {
	return len(p.arena)
}
