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

package counter

import (
	"sync"

	"github.com/Workiva/go-datastructures/queue"
	"go.uber.org/atomic"
)

// MultiTail is the tail of a stage served by several racing workers.
// Workers claim slots with Allocate and report them with Update in any order.
// The visible position returned by Get only moves across a gap-free prefix
// of completed slots, so downstream stages never observe a hole.
type MultiTail struct {
	next    atomic.Int64
	visible atomic.Int64

	mu        sync.Mutex
	completed *queue.PriorityQueue
}

var _ Sequence = (*MultiTail)(nil)

// NewMultiTail creates a MultiTail starting at initial
func NewMultiTail(initial int64) *MultiTail {
	m := &MultiTail{
		completed: queue.NewPriorityQueue(16, false),
	}
	m.next.Store(initial)
	m.visible.Store(initial)
	return m
}

// Get returns the visible tail
func (m *MultiTail) Get() int64 {
	return m.visible.Load()
}

// Allocated returns the next slot that will be handed out
func (m *MultiTail) Allocated() int64 {
	return m.next.Load()
}

// Allocate claims the next slot below head. It returns false when every
// published slot has already been claimed.
func (m *MultiTail) Allocate(head Sequence) (int64, bool) {
	for {
		slot := m.next.Load()
		if slot >= head.Get() {
			return 0, false
		}
		if m.next.CompareAndSwap(slot, slot+1) {
			return slot, true
		}
	}
}

// Update marks slot as completed and advances the visible tail across
// every contiguous completed slot. It returns true when the tail moved.
func (m *MultiTail) Update(slot int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	tail := m.visible.Load()
	if slot != tail {
		_ = m.completed.Put(slotItem(slot))
		return false
	}

	tail++
	for {
		head, ok := m.completed.Peek().(slotItem)
		if !ok || int64(head) != tail {
			break
		}
		if _, err := m.completed.Get(1); err != nil {
			break
		}
		tail++
	}
	m.visible.Store(tail)
	return true
}

// Pending returns the number of completed slots waiting for a predecessor
func (m *MultiTail) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completed.Len()
}

// slotItem orders completed slots in the priority queue, lowest first.
type slotItem int64

func (s slotItem) Compare(other queue.Item) int {
	o := other.(slotItem)
	switch {
	case s > o:
		return 1
	case s < o:
		return -1
	default:
		return 0
	}
}
