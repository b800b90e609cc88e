// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package disruptor

import (
	"go.uber.org/atomic"

	"github.com/tochemey/disruptor/internal/counter"
	"github.com/tochemey/disruptor/internal/queue"
)

const (
	idle int32 = iota
	running
)

// drainer is the consuming half of a worker.
type drainer interface {
	// drain delivers everything currently available
	drain()
	// pending reports whether there is something left to drain
	pending() bool
}

// runner owns the idle/running flag of one worker and schedules its drain
// loop on the worker pool. At most one drain loop runs per runner.
type runner struct {
	state   atomic.Int32
	submit  func(func()) bool
	drainer drainer
}

// wake schedules the drain loop when the runner is idle. It returns true
// when a loop was started.
func (r *runner) wake() bool {
	if !r.state.CompareAndSwap(idle, running) {
		return false
	}
	if r.submit(r.run) {
		return true
	}
	r.state.Store(idle)
	return false
}

func (r *runner) run() {
	for {
		r.drainer.drain()

		r.state.Store(idle)

		// a producer may have published after the last drain but before the
		// flag went back to idle, in which case its wake found us running
		if !r.drainer.pending() || !r.state.CompareAndSwap(idle, running) {
			return
		}
	}
}

// acquire takes the runner for inline execution
func (r *runner) acquire() bool {
	return r.state.CompareAndSwap(idle, running)
}

// release gives back a runner taken by acquire
func (r *runner) release() {
	r.state.Store(idle)
	if r.drainer.pending() {
		r.wake()
	}
}

func (r *runner) isIdle() bool {
	return r.state.Load() == idle
}

// worker is the single consumer of a ring-indexed stage.
type worker[T any] struct {
	runner
	svc      *QueueService[T]
	stage    *stage[T]
	ring     *queue.RingQueue[T]
	upstream counter.Sequence
	tail     *counter.Counter
	outbox   *Outbox[T]
}

var _ drainer = (*worker[int])(nil)

func newWorker[T any](svc *QueueService[T], st *stage[T], ring *queue.RingQueue[T], upstream counter.Sequence, tail *counter.Counter) *worker[T] {
	w := &worker[T]{
		svc:      svc,
		stage:    st,
		ring:     ring,
		upstream: upstream,
		tail:     tail,
		outbox:   NewOutbox[T](svc.offerTimeout),
	}
	w.runner.submit = svc.submit
	w.runner.drainer = w
	return w
}

func (w *worker[T]) drain() {
	tail, head := w.tail.Get(), w.upstream.Get()
	for tail < head {
		w.stage.deliver.BeforeBatch()
		for index := tail; index < head; index++ {
			w.stage.deliverOne(w.ring.Get(index), w.outbox)
		}
		w.stage.deliver.AfterBatch()
		w.stage.flush(w.outbox, true)

		if w.stage.clears {
			for index := tail; index < head; index++ {
				w.ring.Clear(index)
			}
		}
		w.tail.Set(head)
		w.svc.advanced(w.stage)

		tail, head = head, w.upstream.Get()
	}
}

func (w *worker[T]) pending() bool {
	return w.tail.Get() < w.upstream.Get()
}

// runOne delivers item inline. The stage must be empty so that item does
// not overtake anything already queued.
func (w *worker[T]) runOne(item T) bool {
	if !w.acquire() {
		return false
	}
	if w.pending() {
		w.release()
		return false
	}

	w.stage.deliver.BeforeBatch()
	w.stage.deliverOne(item, w.outbox)
	w.stage.deliver.AfterBatch()
	w.stage.flush(w.outbox, false)
	w.release()
	return true
}
