// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package locked

import "sync"

// Stack is a mutex-guarded LIFO stack.
//
// Pop and Peek report an empty stack through their second return value;
// no operation blocks or panics. All methods are safe for any number of
// concurrent goroutines.
//
// The zero value is an empty stack ready for use.
type Stack[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewStack creates an empty stack.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// Push places v on top of the stack.
func (s *Stack[T]) Push(v T) {
	s.mu.Lock()
	s.items = append(s.items, v)
	s.mu.Unlock()
}

// Pop removes and returns the top element.
// The second return value is false when the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.items)
	if n == 0 {
		var zero T
		return zero, false
	}
	v := s.items[n-1]
	var zero T
	s.items[n-1] = zero // Drop the reference for the collector.
	s.items = s.items[:n-1]
	return v, true
}

// Peek returns the top element without removing it.
// The second return value is false when the stack is empty.
func (s *Stack[T]) Peek() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// Len returns the number of stacked elements.
func (s *Stack[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Empty reports whether the stack holds no elements.
func (s *Stack[T]) Empty() bool {
	return s.Len() == 0
}
