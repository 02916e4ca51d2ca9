// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command fifoload drives a queue variant with concurrent producers and
// consumers and reports throughput.
//
// Usage:
//
//	go run ./cmd/fifoload -queue mpmc -producers 4 -consumers 4 -items 1000000 -capacity 4096
//
// The -queue flag selects spsc, mpmc, unbounded-spsc, unbounded-mpmc or
// channel; the channel variant wraps a buffered Go channel and serves as
// the baseline. Every element carries a self-validating payload, so the
// run also checks that nothing was lost, duplicated or torn.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"github.com/sugawarayuuta/sonnet"
	"github.com/valyala/fastrand"

	"code.hybscloud.com/fifo"
)

type report struct {
	Queue      string  `json:"queue"`
	Producers  int     `json:"producers"`
	Consumers  int     `json:"consumers"`
	Items      int     `json:"items"`
	Capacity   int     `json:"capacity,omitempty"`
	Elapsed    string  `json:"elapsed"`
	NsPerOp    float64 `json:"ns_per_op"`
	MopsPerSec float64 `json:"mops_per_sec"`
	ChecksumOK bool    `json:"checksum_ok"`
}

func main() {
	queueName := flag.String("queue", "mpmc", "queue variant: spsc, mpmc, unbounded-spsc, unbounded-mpmc, channel")
	producers := flag.Int("producers", 4, "number of producer goroutines")
	consumers := flag.Int("consumers", 4, "number of consumer goroutines")
	items := flag.Int("items", 1_000_000, "total number of elements to move")
	capacity := flag.Int("capacity", 4096, "ring capacity (bounded variants and channel)")
	jsonOut := flag.Bool("json", false, "print the report as JSON")
	flag.Parse()

	if err := run(*queueName, *producers, *consumers, *items, *capacity, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "fifoload: %v\n", err)
		os.Exit(1)
	}
}

func run(queueName string, producers, consumers, items, capacity int, jsonOut bool) error {
	if producers < 1 || consumers < 1 {
		return fmt.Errorf("producers and consumers must be >= 1")
	}
	if items < 1 {
		return fmt.Errorf("items must be >= 1")
	}
	switch queueName {
	case "spsc", "unbounded-spsc":
		if producers != 1 || consumers != 1 {
			return fmt.Errorf("%s requires exactly one producer and one consumer", queueName)
		}
	}

	q, err := buildQueue(queueName, capacity)
	if err != nil {
		return err
	}

	// Spread the element count over the producers, first ones taking
	// the remainder.
	counts := make([]int, producers)
	for i := range counts {
		counts[i] = items / producers
	}
	for i := range items % producers {
		counts[i]++
	}

	var expected uint64
	for id := range producers {
		for seq := range counts[id] {
			expected += payload(uint64(id), uint64(seq))
		}
	}

	var consumed atomix.Int64
	var sum atomix.Uint64
	var wg sync.WaitGroup

	start := time.Now()
	for id := range producers {
		wg.Add(1)
		go func(id, count int) {
			defer wg.Done()
			backoff := iox.Backoff{}
			for seq := range count {
				v := payload(uint64(id), uint64(seq))
				for q.Enqueue(&v) != nil {
					backoff.Wait()
				}
				backoff.Reset()
				if fastrand.Uint32n(1024) == 0 {
					runtime.Gosched()
				}
			}
		}(id, counts[id])
	}
	for range consumers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			backoff := iox.Backoff{}
			for consumed.Load() < int64(items) {
				v, err := q.Dequeue()
				if err == nil {
					sum.Add(v)
					consumed.Add(1)
					backoff.Reset()
					if fastrand.Uint32n(1024) == 0 {
						runtime.Gosched()
					}
					continue
				}
				backoff.Wait()
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	rep := report{
		Queue:      queueName,
		Producers:  producers,
		Consumers:  consumers,
		Items:      items,
		Elapsed:    elapsed.String(),
		NsPerOp:    float64(elapsed.Nanoseconds()) / float64(items),
		MopsPerSec: float64(items) / elapsed.Seconds() / 1e6,
		ChecksumOK: sum.Load() == expected,
	}
	if queueName != "unbounded-spsc" && queueName != "unbounded-mpmc" {
		rep.Capacity = capacity
	}

	if jsonOut {
		out, err := sonnet.Marshal(rep)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else {
		printReport(rep)
	}
	if !rep.ChecksumOK {
		return fmt.Errorf("checksum mismatch: got %d, want %d", sum.Load(), expected)
	}
	return nil
}

func printReport(rep report) {
	fmt.Printf("fifoload: %s queue, %d producers, %d consumers, %d items", rep.Queue, rep.Producers, rep.Consumers, rep.Items)
	if rep.Capacity > 0 {
		fmt.Printf(" (capacity %d)", rep.Capacity)
	}
	fmt.Println()
	fmt.Println("─────────────────────────────────────────────────")
	fmt.Printf("  Elapsed:     %s  (%.2f ns/op)\n", rep.Elapsed, rep.NsPerOp)
	fmt.Printf("  Throughput:  %.2f M ops/sec\n", rep.MopsPerSec)
	if rep.ChecksumOK {
		fmt.Printf("  Checksum:    ok\n")
	} else {
		fmt.Printf("  Checksum:    MISMATCH\n")
	}
}

// payload mixes a producer id and sequence number into a value whose
// sum over the whole run is predictable, so the consumers can detect
// lost, duplicated or torn elements.
func payload(id, seq uint64) uint64 {
	return id<<32 | seq&0xffffffff
}

func buildQueue(name string, capacity int) (fifo.Queue[uint64], error) {
	switch name {
	case "spsc":
		return fifo.NewSPSC[uint64](capacity), nil
	case "mpmc":
		return fifo.NewMPMC[uint64](capacity), nil
	case "unbounded-spsc":
		return fifo.NewUnboundedSPSC[uint64](), nil
	case "unbounded-mpmc":
		return fifo.NewUnboundedMPMC[uint64](), nil
	case "channel":
		return &channelQueue[uint64]{ch: make(chan uint64, capacity)}, nil
	default:
		return nil, fmt.Errorf("unknown queue type %q", name)
	}
}

// channelQueue adapts a buffered channel to the queue contract for
// baseline comparison.
type channelQueue[T any] struct {
	ch chan T
}

func (q *channelQueue[T]) Enqueue(elem *T) error {
	select {
	case q.ch <- *elem:
		return nil
	default:
		return fifo.ErrWouldBlock
	}
}

func (q *channelQueue[T]) Dequeue() (elem T, err error) {
	select {
	case elem = <-q.ch:
		return elem, nil
	default:
		return elem, fifo.ErrWouldBlock
	}
}

func (q *channelQueue[T]) Len() int {
	return len(q.ch)
}

func (q *channelQueue[T]) Empty() bool {
	return len(q.ch) == 0
}
