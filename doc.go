// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fifo provides bounded and unbounded FIFO queue implementations.
//
// The package offers four queue variants covering the two producer/consumer
// patterns and the two storage strategies:
//
//   - SPSC: bounded Single-Producer Single-Consumer ring buffer
//   - MPMC: bounded Multi-Producer Multi-Consumer ring buffer
//   - UnboundedSPSC: Single-Producer Single-Consumer linked queue
//   - UnboundedMPMC: Multi-Producer Multi-Consumer linked queue
//
// All four are non-blocking: operations either complete immediately or
// report that they would block, and a stalled goroutine never prevents the
// multi-producer variants from making progress.
//
// # Quick Start
//
// Direct constructors (recommended for most cases):
//
//	q := fifo.NewSPSC[Event](1024)
//	q := fifo.NewMPMC[*Request](4096)
//	q := fifo.NewUnboundedMPMC[Job]()
//
// Builder API auto-selects the algorithm based on constraints:
//
//	q := fifo.Build[Event](fifo.New(1024).SingleProducer().SingleConsumer()) // → SPSC
//	q := fifo.Build[Event](fifo.New(1024))                                   // → MPMC
//	q := fifo.Build[Event](fifo.NewUnbounded().SingleProducer().SingleConsumer()) // → UnboundedSPSC
//	q := fifo.Build[Event](fifo.NewUnbounded())                              // → UnboundedMPMC
//
// # Basic Usage
//
// All queues share the same interface for enqueueing and dequeueing:
//
//	// Create a queue
//	q := fifo.NewMPMC[int](1024)
//
//	// Enqueue (non-blocking)
//	value := 42
//	err := q.Enqueue(&value)
//	if fifo.IsWouldBlock(err) {
//	    // Queue is full - handle backpressure
//	}
//
//	// Dequeue (non-blocking)
//	elem, err := q.Dequeue()
//	if fifo.IsWouldBlock(err) {
//	    // Queue is empty - try again later
//	}
//
// The element is passed to Enqueue by pointer to avoid copying large structs
// twice; the queue stores a copy of the pointed-to value and does not retain
// the caller's pointer. Instantiate T as a pointer type for reference
// semantics.
//
// # Common Patterns
//
// Pipeline Stage (SPSC):
//
//	// Stage 1 → Queue → Stage 2
//	q := fifo.NewSPSC[Data](1024)
//
//	go func() { // Producer (Stage 1)
//	    backoff := iox.Backoff{}
//	    for data := range input {
//	        for q.Enqueue(&data) != nil {
//	            backoff.Wait()
//	        }
//	        backoff.Reset()
//	    }
//	}()
//
//	go func() { // Consumer (Stage 2)
//	    backoff := iox.Backoff{}
//	    for {
//	        data, err := q.Dequeue()
//	        if err != nil {
//	            backoff.Wait()
//	            continue
//	        }
//	        backoff.Reset()
//	        process(data)
//	    }
//	}()
//
// Worker Pool (MPMC):
//
//	// Multiple submitters → Multiple workers
//	q := fifo.NewMPMC[Job](4096)
//
//	// Workers
//	for range numWorkers {
//	    go func() {
//	        for {
//	            job, err := q.Dequeue()
//	            if err == nil {
//	                job.Run()
//	            }
//	        }
//	    }()
//	}
//
//	// Submit jobs from anywhere
//	func Submit(j Job) error {
//	    return q.Enqueue(&j)
//	}
//
// Burst Absorption (UnboundedMPMC):
//
//	// Producers that must never be rejected; consumers drain at their
//	// own pace and memory absorbs the bursts.
//	q := fifo.NewUnboundedMPMC[Event]()
//
//	// Producers (Enqueue always succeeds)
//	go func() {
//	    for ev := range source {
//	        q.Enqueue(&ev)
//	    }
//	}()
//
//	// Consumer with backpressure signal
//	go func() {
//	    for {
//	        if q.Len() > highWater {
//	            slowDownSources()
//	        }
//	        ev, err := q.Dequeue()
//	        if err == nil {
//	            handle(ev)
//	        }
//	    }
//	}()
//
// # Choosing Bounded vs Unbounded
//
// Bounded rings preallocate their slots once, never allocate afterwards,
// and convert overload into ErrWouldBlock backpressure at a hard memory
// ceiling. Unbounded queues allocate a node per element, never reject an
// enqueue, and leave flow control to the application (watch Len). Prefer
// bounded rings when a producer outpacing its consumers must be throttled;
// prefer unbounded queues when producers cannot tolerate rejection and
// bursts are bounded by the workload itself.
//
// # Capacity Semantics
//
// Bounded capacity rounds up to the next power of 2:
//
//	q := fifo.NewMPMC[int](3)     // Physical slots: 4
//	q := fifo.NewMPMC[int](1000)  // Physical slots: 1024
//
// Minimum capacity is 2. Panic if capacity < 2.
//
// The two ring algorithms differ in how many of those slots hold elements:
//
//	fifo.NewSPSC[int](5)  // 8 physical slots, buffers at most 7
//	fifo.NewMPMC[int](5)  // 8 physical slots, buffers all 8
//
// The SPSC ring distinguishes full from empty by comparing its two indices,
// which requires keeping one slot in reserve; with all slots in use the two
// states would be indistinguishable. The MPMC ring carries a sequence
// number per slot, which encodes the distinction and frees the reserved
// slot. Cap() always reports the physical slot count; see each type's
// documentation for its usable count.
//
// # Length and Emptiness
//
// Len and Empty are best-effort diagnostics, not synchronization devices.
// Under concurrent mutation the returned value may be stale by the time the
// caller inspects it, Len of a bounded ring can transiently exceed Cap, and
// Len of an unbounded queue counts enqueues still being linked. The values
// are exact whenever no other goroutine is mutating the queue. Use them for
// monitoring, backpressure heuristics and tests - never to decide whether a
// subsequent Enqueue or Dequeue will succeed; only the operation's own
// return value can tell.
//
// # Error Handling
//
// Queues return [ErrWouldBlock] when operations cannot proceed. This error
// is sourced from [code.hybscloud.com/iox] for ecosystem consistency.
//
//	// Retry loop with backoff
//	backoff := iox.Backoff{}
//	for {
//	    err := q.Enqueue(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !fifo.IsWouldBlock(err) {
//	        return err // Unexpected error
//	    }
//	    backoff.Wait()
//	}
//
// For semantic error classification (delegates to iox):
//
//	fifo.IsWouldBlock(err)  // true if queue full/empty
//	fifo.IsSemantic(err)    // true if control flow signal
//	fifo.IsNonFailure(err)  // true if nil or ErrWouldBlock
//
// Full and empty are ordinary states, never panics. The unbounded variants
// have no full state: their Enqueue always returns nil, and an allocation
// failure is a runtime out-of-memory condition that Go surfaces by
// terminating the process, not as a recoverable error value.
//
// # Thread Safety
//
// All queue operations are thread-safe within their access pattern
// constraints:
//
//   - SPSC / UnboundedSPSC: one producer goroutine, one consumer goroutine
//   - MPMC / UnboundedMPMC: any number of producer and consumer goroutines
//
// Violating these constraints (e.g., multiple producers on SPSC) causes
// undefined behavior including data corruption and races. Len and Empty are
// safe from any goroutine on every variant.
//
// The MPMC variants preserve per-producer FIFO order: two elements enqueued
// by the same goroutine are dequeued in their enqueue order. The global
// order is an interleaving of the per-producer orders.
//
// # Memory Reclamation
//
// The linked variants allocate one node per element and hand reclamation to
// the garbage collector: a node unlinked from the chain is freed only once
// no goroutine can reach it. Nodes are never pooled or recycled, so a
// compare-and-swap on a head or tail pointer can never observe a stale node
// reincarnated at the same address (no ABA), and a dequeue that still holds
// a reference to an unlinked node reads valid memory. Dequeued ring slots
// and consumed payload references are cleared so elements do not outlive
// their consumption.
//
// # Race Detection
//
// Go's race detector is not designed for lock-free algorithm verification.
// The race detector tracks explicit synchronization primitives (mutex,
// channels, WaitGroup) but cannot observe happens-before relationships
// established through atomic memory orderings (acquire-release semantics).
//
// The ring-buffer variants protect their non-atomic slot data with index
// and sequence atomics on separate variables; these algorithms are correct,
// but the race detector may report false positives for them. The linked
// variants synchronize through sync/atomic pointers and are race-detector
// clean.
//
// Tests incompatible with race detection are excluded via //go:build !race
// or skip themselves when [RaceEnabled] is set.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause instructions.
package fifo
