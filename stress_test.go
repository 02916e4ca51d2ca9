// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo_test

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"github.com/valyala/fastrand"

	"code.hybscloud.com/fifo"
)

// =============================================================================
// Ring Stress Tests
//
// Small capacities relative to the element count force constant wrap-around
// and full/empty boundary crossings under contention.
// =============================================================================

// TestMPMCStressConcurrent tests the MPMC ring under high concurrent load.
// Multiple producers and consumers compete for limited capacity.
func TestMPMCStressConcurrent(t *testing.T) {
	if fifo.RaceEnabled {
		t.Skip("skip: ring cursor ordering is not visible to the race detector")
	}

	const (
		numProducers = 8
		numConsumers = 8
		itemsPerProd = 10000
		timeout      = 10 * time.Second
	)

	q := fifo.NewMPMC[int](64)
	expectedTotal := numProducers * itemsPerProd
	seen := make([]atomix.Int32, expectedTotal)

	var wg sync.WaitGroup
	var produced, consumed atomix.Int64
	var timedOut atomix.Bool
	deadline := time.Now().Add(timeout)

	// Producers: each produces unique values (id*itemsPerProd + seq).
	// An occasional random yield perturbs the interleaving between runs.
	for p := range numProducers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			backoff := iox.Backoff{}
			for i := range itemsPerProd {
				if time.Now().After(deadline) {
					timedOut.Store(true)
					return
				}
				v := id*itemsPerProd + i
				for q.Enqueue(&v) != nil {
					if time.Now().After(deadline) {
						timedOut.Store(true)
						return
					}
					backoff.Wait()
				}
				produced.Add(1)
				backoff.Reset()
				if fastrand.Uint32n(256) == 0 {
					runtime.Gosched()
				}
			}
		}(p)
	}

	// Consumers: track seen values
	for range numConsumers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			backoff := iox.Backoff{}
			for consumed.Load() < int64(expectedTotal) {
				if time.Now().After(deadline) {
					timedOut.Store(true)
					return
				}
				v, err := q.Dequeue()
				if err == nil {
					if v >= 0 && v < expectedTotal {
						seen[v].Add(1)
					}
					consumed.Add(1)
					backoff.Reset()
				} else {
					backoff.Wait()
				}
			}
		}()
	}

	wg.Wait()

	if timedOut.Load() {
		t.Logf("timeout: produced=%d, consumed=%d/%d", produced.Load(), consumed.Load(), expectedTotal)
	}

	// All produced items must be consumed (no loss)
	if got := consumed.Load(); got != int64(expectedTotal) {
		t.Errorf("consumed %d, want %d", got, expectedTotal)
	}

	var duplicates int
	for i := range expectedTotal {
		if count := seen[i].Load(); count > 1 {
			duplicates++
		}
	}
	if duplicates > 0 {
		t.Errorf("linearizability violation: %d duplicates", duplicates)
	}
}

// TestMPMCStressFillDrain tests rapid fill/drain cycles across the full
// sequence number range of a small ring.
func TestMPMCStressFillDrain(t *testing.T) {
	q := fifo.NewMPMC[int](16)

	for cycle := range 5000 {
		for i := range 16 {
			v := cycle*100 + i
			if err := q.Enqueue(&v); err != nil {
				t.Fatalf("cycle %d: Enqueue(%d): %v", cycle, i, err)
			}
		}

		for i := range 16 {
			val, err := q.Dequeue()
			if err != nil {
				t.Fatalf("cycle %d: Dequeue(%d): %v", cycle, i, err)
			}
			expected := cycle*100 + i
			if val != expected {
				t.Fatalf("cycle %d: got %d, want %d", cycle, val, expected)
			}
		}
	}
}

// TestSPSCStressTinyRing pumps a large element count through a capacity-8
// ring (7 usable slots), maximizing wrap-around and cache ping-pong.
func TestSPSCStressTinyRing(t *testing.T) {
	if fifo.RaceEnabled {
		t.Skip("skip: ring cursor ordering is not visible to the race detector")
	}

	const (
		n       = 200000
		timeout = 10 * time.Second
	)
	q := fifo.NewSPSC[int](8)

	var wg sync.WaitGroup
	var timedOut atomix.Bool
	deadline := time.Now().Add(timeout)

	wg.Add(1)
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		expect := 0
		for expect < n {
			if time.Now().After(deadline) {
				timedOut.Store(true)
				return
			}
			v, err := q.Dequeue()
			if err != nil {
				backoff.Wait()
				continue
			}
			if v != expect {
				t.Errorf("FIFO violation: got %d, want %d", v, expect)
				timedOut.Store(true)
				return
			}
			expect++
			backoff.Reset()
		}
	}()

	backoff := iox.Backoff{}
	for i := range n {
		v := i
		for q.Enqueue(&v) != nil {
			if time.Now().After(deadline) {
				timedOut.Store(true)
				break
			}
			backoff.Wait()
		}
		backoff.Reset()
	}

	wg.Wait()
	if timedOut.Load() {
		t.Fatalf("stress run did not complete in %v", timeout)
	}
}

// =============================================================================
// Unbounded Stress Tests
// =============================================================================

// TestUnboundedMPMCStressConcurrent tests the linked MPMC queue under
// full contention. Every produced element must be consumed exactly once;
// the linked queue has no capacity pressure, so producers never retry.
func TestUnboundedMPMCStressConcurrent(t *testing.T) {
	const (
		numProducers = 8
		numConsumers = 8
		itemsPerProd = 10000
		timeout      = 10 * time.Second
	)

	q := fifo.NewUnboundedMPMC[int]()
	expectedTotal := numProducers * itemsPerProd
	seen := make([]atomix.Int32, expectedTotal)

	var wg sync.WaitGroup
	var consumed atomix.Int64
	var timedOut atomix.Bool
	deadline := time.Now().Add(timeout)

	for p := range numProducers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range itemsPerProd {
				v := id*itemsPerProd + i
				if err := q.Enqueue(&v); err != nil {
					t.Errorf("Enqueue(%d): %v", v, err)
					return
				}
				if fastrand.Uint32n(256) == 0 {
					runtime.Gosched()
				}
			}
		}(p)
	}

	for range numConsumers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			backoff := iox.Backoff{}
			for consumed.Load() < int64(expectedTotal) {
				if time.Now().After(deadline) {
					timedOut.Store(true)
					return
				}
				v, err := q.Dequeue()
				if err == nil {
					if v >= 0 && v < expectedTotal {
						seen[v].Add(1)
					}
					consumed.Add(1)
					backoff.Reset()
				} else {
					backoff.Wait()
				}
			}
		}()
	}

	wg.Wait()

	if timedOut.Load() {
		t.Fatalf("timeout: consumed %d/%d", consumed.Load(), expectedTotal)
	}

	var missing, duplicates int
	for i := range expectedTotal {
		count := seen[i].Load()
		if count == 0 {
			missing++
		} else if count > 1 {
			duplicates++
		}
	}
	if missing > 0 || duplicates > 0 {
		t.Errorf("exactly-once violation: missing=%d duplicates=%d", missing, duplicates)
	}
}

// TestUnboundedMPMCProducerContention hammers the enqueue path with many
// producers and a single consumer. Producer-heavy load widens the window
// where the tail pointer lags the last linked node, exercising the
// helping path.
func TestUnboundedMPMCProducerContention(t *testing.T) {
	const (
		numProducers = 16
		itemsPerProd = 5000
		timeout      = 10 * time.Second
	)

	q := fifo.NewUnboundedMPMC[int]()
	expectedTotal := numProducers * itemsPerProd
	seen := make([]atomix.Int32, expectedTotal)

	var wg sync.WaitGroup
	for p := range numProducers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range itemsPerProd {
				v := id*itemsPerProd + i
				if err := q.Enqueue(&v); err != nil {
					t.Errorf("Enqueue(%d): %v", v, err)
					return
				}
			}
		}(p)
	}
	wg.Wait()

	if got := q.Len(); got != expectedTotal {
		t.Fatalf("Len after contention: got %d, want %d", got, expectedTotal)
	}

	// Single-threaded drain: everything linked must come out exactly once.
	deadline := time.Now().Add(timeout)
	drained := 0
	for drained < expectedTotal {
		if time.Now().After(deadline) {
			t.Fatalf("drain stalled at %d/%d", drained, expectedTotal)
		}
		v, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue failed with %d elements remaining", expectedTotal-drained)
		}
		seen[v].Add(1)
		drained++
	}

	for i := range expectedTotal {
		if count := seen[i].Load(); count != 1 {
			t.Fatalf("value %d consumed %d times", i, count)
		}
	}
	if !q.Empty() {
		t.Fatalf("queue not empty after full drain")
	}
}

// TestUnboundedSPSCStressThroughput pumps a large element count through
// the linked SPSC queue with both sides running flat out.
func TestUnboundedSPSCStressThroughput(t *testing.T) {
	const (
		n       = 200000
		timeout = 10 * time.Second
	)
	q := fifo.NewUnboundedSPSC[int]()

	var wg sync.WaitGroup
	var timedOut atomix.Bool
	deadline := time.Now().Add(timeout)

	wg.Add(1)
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		expect := 0
		for expect < n {
			if time.Now().After(deadline) {
				timedOut.Store(true)
				return
			}
			v, err := q.Dequeue()
			if err != nil {
				backoff.Wait()
				continue
			}
			if v != expect {
				t.Errorf("FIFO violation: got %d, want %d", v, expect)
				timedOut.Store(true)
				return
			}
			expect++
			backoff.Reset()
		}
	}()

	for i := range n {
		v := i
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}

	wg.Wait()
	if timedOut.Load() {
		t.Fatalf("stress run did not complete in %v", timeout)
	}
}

// =============================================================================
// Length Sampling Under Load
// =============================================================================

// TestLenStaysNonNegative samples Len concurrently with mutators. The
// estimate may be stale and may transiently exceed Cap, but it must never
// be negative.
func TestLenStaysNonNegative(t *testing.T) {
	tests := []struct {
		name     string
		skipRace bool
		q        fifo.Queue[int]
	}{
		{"MPMC", true, fifo.NewMPMC[int](32)},
		{"UnboundedMPMC", false, fifo.NewUnboundedMPMC[int]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.skipRace && fifo.RaceEnabled {
				t.Skip("skip: ring cursor ordering is not visible to the race detector")
			}

			q := tt.q
			stop := make(chan struct{})
			var wg sync.WaitGroup

			for range 4 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					backoff := iox.Backoff{}
					for {
						select {
						case <-stop:
							return
						default:
						}
						v := 1
						if q.Enqueue(&v) != nil {
							backoff.Wait()
						} else {
							backoff.Reset()
						}
					}
				}()
			}
			for range 4 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					backoff := iox.Backoff{}
					for {
						select {
						case <-stop:
							return
						default:
						}
						if _, err := q.Dequeue(); err != nil {
							backoff.Wait()
						} else {
							backoff.Reset()
						}
					}
				}()
			}

			samples := 0
			for start := time.Now(); time.Since(start) < 50*time.Millisecond; {
				if n := q.Len(); n < 0 {
					close(stop)
					wg.Wait()
					t.Fatalf("Len went negative: %d", n)
				}
				samples++
			}
			close(stop)
			wg.Wait()

			if samples == 0 {
				t.Fatalf("sampler made no progress")
			}
		})
	}
}
