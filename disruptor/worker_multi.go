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

// multiWorker is one of the racing consumers of a multi worker stage.
// Members claim slots from the shared MultiTail and report them once their
// batch is over; the tail exposes only the gap-free completed prefix.
type multiWorker[T any] struct {
	runner
	svc      *QueueService[T]
	stage    *stage[T]
	ring     *queue.RingQueue[T]
	upstream counter.Sequence
	tail     *counter.MultiTail
	outbox   *Outbox[T]
	slots    []int64
}

var _ drainer = (*multiWorker[int])(nil)

func (m *multiWorker[T]) drain() {
	for {
		slots := m.slots[:0]
		for len(slots) < m.svc.batchSize {
			slot, ok := m.tail.Allocate(m.upstream)
			if !ok {
				break
			}
			if len(slots) == 0 {
				m.stage.deliver.BeforeBatch()
			}
			m.stage.deliverOne(m.ring.Get(slot), m.outbox)
			slots = append(slots, slot)
		}

		if len(slots) == 0 {
			return
		}

		m.stage.deliver.AfterBatch()
		m.stage.flush(m.outbox, true)

		moved := false
		for _, slot := range slots {
			if m.stage.clears {
				m.ring.Clear(slot)
			}
			if m.tail.Update(slot) {
				moved = true
			}
		}
		m.slots = slots
		if moved {
			m.svc.advanced(m.stage)
		}
	}
}

func (m *multiWorker[T]) pending() bool {
	return m.tail.Allocated() < m.upstream.Get()
}

// multiGroup wakes the members of a multi worker stage.
type multiGroup[T any] struct {
	members  []*multiWorker[T]
	upstream counter.Sequence
	lastWake atomic.Int64
}

func newMultiGroup[T any](svc *QueueService[T], st *stage[T], ring *queue.RingQueue[T], upstream counter.Sequence, tail *counter.MultiTail, workers int) *multiGroup[T] {
	g := &multiGroup[T]{
		members:  make([]*multiWorker[T], workers),
		upstream: upstream,
	}
	for i := range g.members {
		m := &multiWorker[T]{
			svc:      svc,
			stage:    st,
			ring:     ring,
			upstream: upstream,
			tail:     tail,
			outbox:   NewOutbox[T](svc.offerTimeout),
			slots:    make([]int64, 0, svc.batchSize),
		}
		m.runner.submit = svc.submit
		m.runner.drainer = m
		g.members[i] = m
	}
	return g
}

// wake starts as many idle members as items arrived since the previous
// wake, and at least one.
func (g *multiGroup[T]) wake() bool {
	head := g.upstream.Get()
	arrived := head - g.lastWake.Swap(head)
	wanted := int(min(max(arrived, 1), int64(len(g.members))))

	started := false
	for _, m := range g.members {
		if wanted == 0 {
			break
		}
		if m.wake() {
			started = true
			wanted--
		}
	}
	return started
}

func (g *multiGroup[T]) isIdle() bool {
	for _, m := range g.members {
		if !m.isIdle() {
			return false
		}
	}
	return true
}
