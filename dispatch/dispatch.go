// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package dispatch runs submitted tasks on a fixed set of worker
// goroutines fed from a shared queue.
//
// The pool does not own a particular queue implementation: any
// fifo.Queue[Task] works. A bounded queue gives natural backpressure,
// with Submit reporting fifo.ErrWouldBlock when the queue is full; an
// unbounded queue makes Submit effectively non-failing until Close.
package dispatch

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"code.hybscloud.com/fifo"
	"code.hybscloud.com/iox"
)

// Task is a unit of work executed by a pool worker.
type Task func()

// ErrClosed is returned by Submit after Close has been called.
var ErrClosed = errors.New("dispatch: pool is closed")

type config struct {
	pinFirst int
}

// Option configures a Pool.
type Option func(*config)

// WithPinnedWorkers binds worker i to CPU firstCPU+i. Pinning is a
// placement hint; on platforms without thread affinity it does nothing.
func WithPinnedWorkers(firstCPU int) Option {
	return func(c *config) { c.pinFirst = firstCPU }
}

// Pool dispatches tasks from a queue to worker goroutines.
//
// Workers poll the queue and back off while it stays empty. Tasks on the
// same pool run concurrently; a task must not block forever, or it
// removes its worker from service for the duration.
type Pool struct {
	queue   fifo.Queue[Task]
	workers int
	closeCh chan struct{}
	closed  atomic.Bool
	wg      sync.WaitGroup
}

// New creates a pool of workers consuming from queue and starts them.
// If workers <= 0 the pool sizes itself to runtime.NumCPU().
// Panics if queue is nil.
func New(queue fifo.Queue[Task], workers int, opts ...Option) *Pool {
	if queue == nil {
		panic("dispatch: queue must not be nil")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	cfg := config{pinFirst: -1}
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &Pool{
		queue:   queue,
		workers: workers,
		closeCh: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i, cfg)
	}
	return p
}

// Submit hands a task to the pool.
//
// It returns ErrClosed after Close, and propagates the queue's Enqueue
// error otherwise; for a bounded queue that is fifo.ErrWouldBlock when
// the queue is full. A task submitted concurrently with Close may or
// may not run.
func (p *Pool) Submit(task Task) error {
	if p.closed.Load() {
		return ErrClosed
	}
	return p.queue.Enqueue(&task)
}

// Close stops the pool and waits for the workers to exit. Tasks already
// queued at that point are still executed. Close is idempotent; only
// the first call does any work.
func (p *Pool) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	close(p.closeCh)
	p.wg.Wait()
}

// NumWorkers returns the number of worker goroutines.
func (p *Pool) NumWorkers() int {
	return p.workers
}

func (p *Pool) worker(id int, cfg config) {
	defer p.wg.Done()
	if cfg.pinFirst >= 0 {
		pinThread(cfg.pinFirst + id)
	}
	backoff := iox.Backoff{}
	for {
		task, err := p.queue.Dequeue()
		if err == nil {
			p.run(task)
			backoff.Reset()
			continue
		}
		select {
		case <-p.closeCh:
			// Drain whatever was queued before shutdown won the race.
			for {
				task, err := p.queue.Dequeue()
				if err != nil {
					return
				}
				p.run(task)
			}
		default:
			backoff.Wait()
		}
	}
}

// run executes task, absorbing panics so a failing task cannot take
// its worker down with it.
func (p *Pool) run(task Task) {
	defer func() { recover() }()
	task()
}
