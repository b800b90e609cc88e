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
	"github.com/tochemey/disruptor/internal/queue"
)

// pollWorker consumes a resizing ring. Resizing rings swap buffers, so they
// are consumed through Poll rather than by index.
type pollWorker[T any] struct {
	runner
	svc    *QueueService[T]
	stage  *stage[T]
	ring   *queue.ResizingRing[T]
	outbox *Outbox[T]
}

var _ drainer = (*pollWorker[int])(nil)

func newPollWorker[T any](svc *QueueService[T], st *stage[T], ring *queue.ResizingRing[T]) *pollWorker[T] {
	w := &pollWorker[T]{
		svc:    svc,
		stage:  st,
		ring:   ring,
		outbox: NewOutbox[T](svc.offerTimeout),
	}
	w.runner.submit = svc.submit
	w.runner.drainer = w
	return w
}

func (w *pollWorker[T]) drain() {
	for {
		item, ok := w.ring.Poll(0)
		if !ok {
			return
		}

		w.stage.deliver.BeforeBatch()
		w.stage.deliverOne(item, w.outbox)
		for range w.svc.batchSize - 1 {
			if item, ok = w.ring.Poll(0); !ok {
				break
			}
			w.stage.deliverOne(item, w.outbox)
		}
		w.stage.deliver.AfterBatch()
		w.stage.flush(w.outbox, true)
	}
}

func (w *pollWorker[T]) pending() bool {
	return !w.ring.IsEmpty()
}

func (w *pollWorker[T]) runOne(item T) bool {
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
