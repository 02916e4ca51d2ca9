// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

// Options configures queue creation and algorithm selection.
type Options struct {
	// Producer/Consumer constraints (determines queue type)
	singleProducer bool
	singleConsumer bool

	// Storage strategy
	unbounded bool // Linked nodes instead of a ring buffer

	// Capacity (rounds up to next power of 2; bounded variants only)
	capacity int
}

// Builder creates queues with fluent configuration.
//
// Builder provides a fluent API for configuring and creating queues.
// The builder automatically selects the algorithm based on
// producer/consumer constraints and the storage strategy.
//
// Example:
//
//	// SPSC ring buffer (optimal for single producer/consumer)
//	q := fifo.BuildSPSC[Event](fifo.New(1024).SingleProducer().SingleConsumer())
//
//	// MPMC ring buffer (default, general purpose)
//	q := fifo.BuildMPMC[Request](fifo.New(4096))
//
//	// Unbounded linked queue
//	q := fifo.Build[Job](fifo.NewUnbounded())
type Builder struct {
	opts Options
}

// New creates a builder for a bounded queue with the given capacity.
//
// Capacity rounds up to the next power of 2.
// For example, capacity=4 results in actual capacity=4, capacity=1000 results
// in actual capacity=1024. Note that the SPSC ring keeps one slot in reserve,
// so it buffers at most one element fewer than the rounded capacity.
//
// Panics if capacity < 2.
//
// Example:
//
//	// Create builder, then configure and build
//	b := fifo.New(1024)
//	q := fifo.BuildSPSC[int](b.SingleProducer().SingleConsumer())
//
//	// Or chain directly
//	q := fifo.BuildMPMC[int](fifo.New(1024))
func New(capacity int) *Builder {
	if capacity < 2 {
		panic("fifo: capacity must be >= 2")
	}
	return &Builder{opts: Options{capacity: capacity}}
}

// NewUnbounded creates a builder for an unbounded linked queue.
//
// Unbounded queues allocate a node per element and grow on demand;
// Enqueue never reports a full queue.
//
// Example:
//
//	q := fifo.Build[Event](fifo.NewUnbounded().SingleProducer().SingleConsumer())
func NewUnbounded() *Builder {
	return &Builder{opts: Options{unbounded: true}}
}

// SingleProducer declares that only one goroutine will enqueue.
// Enables the optimized SPSC algorithms when combined with SingleConsumer.
func (b *Builder) SingleProducer() *Builder {
	b.opts.singleProducer = true
	return b
}

// SingleConsumer declares that only one goroutine will dequeue.
// Enables the optimized SPSC algorithms when combined with SingleProducer.
func (b *Builder) SingleConsumer() *Builder {
	b.opts.singleConsumer = true
	return b
}

// Build creates a Queue[T] with automatic algorithm selection.
//
// Algorithm selection:
//
//	New(n) + SingleProducer + SingleConsumer  → SPSC (Lamport ring buffer)
//	New(n), other configurations             → MPMC (sequence-based ring)
//	NewUnbounded + SingleProducer + SingleConsumer → UnboundedSPSC (linked)
//	NewUnbounded, other configurations       → UnboundedMPMC (Michael-Scott)
//
// The SPSC algorithms require both constraints; a configuration with only
// one of them set selects the MPMC algorithm, which remains correct for
// any weaker access pattern.
//
// For type-safe returns with concrete types, use:
//   - BuildSPSC[T](b) → *SPSC[T]
//   - BuildMPMC[T](b) → *MPMC[T]
//   - BuildUnboundedSPSC[T](b) → *UnboundedSPSC[T]
//   - BuildUnboundedMPMC[T](b) → *UnboundedMPMC[T]
func Build[T any](b *Builder) Queue[T] {
	switch {
	case b.opts.unbounded && b.opts.singleProducer && b.opts.singleConsumer:
		return NewUnboundedSPSC[T]()
	case b.opts.unbounded:
		return NewUnboundedMPMC[T]()
	case b.opts.singleProducer && b.opts.singleConsumer:
		return NewSPSC[T](b.opts.capacity)
	default:
		return NewMPMC[T](b.opts.capacity)
	}
}

// BuildSPSC creates a bounded SPSC queue with compile-time type safety.
// Panics if builder is not configured with New(n).SingleProducer().SingleConsumer().
func BuildSPSC[T any](b *Builder) *SPSC[T] {
	if b.opts.unbounded {
		panic("fifo: BuildSPSC requires a bounded builder, use BuildUnboundedSPSC")
	}
	if !b.opts.singleProducer || !b.opts.singleConsumer {
		panic("fifo: BuildSPSC requires SingleProducer().SingleConsumer()")
	}
	return NewSPSC[T](b.opts.capacity)
}

// BuildMPMC creates a bounded MPMC queue with compile-time type safety.
// Panics if builder is unbounded or has any constraints set.
func BuildMPMC[T any](b *Builder) *MPMC[T] {
	if b.opts.unbounded {
		panic("fifo: BuildMPMC requires a bounded builder, use BuildUnboundedMPMC")
	}
	if b.opts.singleProducer || b.opts.singleConsumer {
		panic("fifo: BuildMPMC requires no constraints")
	}
	return NewMPMC[T](b.opts.capacity)
}

// BuildUnboundedSPSC creates an unbounded SPSC queue with compile-time type safety.
// Panics if builder is not configured with NewUnbounded().SingleProducer().SingleConsumer().
func BuildUnboundedSPSC[T any](b *Builder) *UnboundedSPSC[T] {
	if !b.opts.unbounded {
		panic("fifo: BuildUnboundedSPSC requires NewUnbounded()")
	}
	if !b.opts.singleProducer || !b.opts.singleConsumer {
		panic("fifo: BuildUnboundedSPSC requires SingleProducer().SingleConsumer()")
	}
	return NewUnboundedSPSC[T]()
}

// BuildUnboundedMPMC creates an unbounded MPMC queue with compile-time type safety.
// Panics if builder is bounded or has any constraints set.
func BuildUnboundedMPMC[T any](b *Builder) *UnboundedMPMC[T] {
	if !b.opts.unbounded {
		panic("fifo: BuildUnboundedMPMC requires NewUnbounded()")
	}
	if b.opts.singleProducer || b.opts.singleConsumer {
		panic("fifo: BuildUnboundedMPMC requires no constraints")
	}
	return NewUnboundedMPMC[T]()
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after 8-byte field.
type padShort [64 - 8]byte
