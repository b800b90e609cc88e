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

package queue

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/disruptor/errors"
)

const growthFactor = 4

// ResizingRing starts small and swaps in a larger ring when the current one
// nears full. The retired ring is sealed: no new value lands in it and
// pollers drain it before following the link to its successor, so values
// come out in the order they went in.
type ResizingRing[T any] struct {
	maxCapacity int
	blocker     RingBlocker

	write atomic.Pointer[segment[T]]
	read  atomic.Pointer[segment[T]]

	mu sync.Mutex
}

type segment[T any] struct {
	ring *RingQueue[T]
	next atomic.Pointer[segment[T]]
}

var _ Queue[int] = (*ResizingRing[int])(nil)

// NewResizingRing creates a ResizingRing growing from minCapacity to maxCapacity.
// Both must be powers of two with minCapacity <= maxCapacity.
func NewResizingRing[T any](minCapacity, maxCapacity int, opts ...RingOption) (*ResizingRing[T], error) {
	if err := ValidateCapacity(minCapacity); err != nil {
		return nil, err
	}
	if err := ValidateCapacity(maxCapacity); err != nil {
		return nil, err
	}
	if minCapacity > maxCapacity {
		return nil, errors.NewConfigurationError("capacity", fmt.Errorf("initial size %d exceeds capacity %d", minCapacity, maxCapacity))
	}

	config := &ringConfig{blocker: NewNotifyBlocker()}
	for _, opt := range opts {
		opt.apply(config)
	}

	ring, err := NewRing[T](minCapacity, WithBlocker(config.blocker))
	if err != nil {
		return nil, err
	}

	r := &ResizingRing[T]{
		maxCapacity: maxCapacity,
		blocker:     config.blocker,
	}
	first := &segment[T]{ring: ring}
	r.write.Store(first)
	r.read.Store(first)
	return r, nil
}

// Offer stores value in the current write ring, growing it when needed.
// It blocks up to timeout only once the maximum capacity is reached.
func (r *ResizingRing[T]) Offer(value T, timeout time.Duration) bool {
	var deadline time.Time
	for {
		current := r.write.Load()
		if current.ring.tryOffer(value) {
			r.blocker.ItemAvailable()
			if r.nearFull(current.ring) {
				r.grow(current)
			}
			return true
		}

		if current.ring.isSealed() || r.grow(current) {
			continue
		}

		if timeout <= 0 {
			return false
		}
		if deadline.IsZero() {
			deadline = time.Now().Add(timeout)
		}
		ready := func() bool {
			return r.write.Load() != current || current.ring.hasSpace()
		}
		if !r.blocker.WaitForSpace(deadline, ready) {
			return false
		}
	}
}

// Poll removes the oldest value, blocking up to timeout while every ring is empty.
func (r *ResizingRing[T]) Poll(timeout time.Duration) (T, bool) {
	var deadline time.Time
	for {
		current := r.read.Load()
		if value, ok := current.ring.tryPoll(); ok {
			r.blocker.SpaceAvailable()
			return value, true
		}

		if current.ring.exhausted() {
			if next := current.next.Load(); next != nil {
				r.read.CompareAndSwap(current, next)
				continue
			}
		}

		var zero T
		if timeout <= 0 {
			return zero, false
		}
		if deadline.IsZero() {
			deadline = time.Now().Add(timeout)
		}
		ready := func() bool {
			read := r.read.Load()
			return read.ring.hasItem() || read.ring.exhausted()
		}
		if !r.blocker.WaitForItem(deadline, ready) {
			return zero, false
		}
	}
}

// Size returns the number of values held across the live rings
func (r *ResizingRing[T]) Size() int {
	size := 0
	for current := r.read.Load(); current != nil; current = current.next.Load() {
		size += current.ring.Size()
	}
	return size
}

// Capacity returns the capacity of the current write ring
func (r *ResizingRing[T]) Capacity() int {
	return r.write.Load().ring.Capacity()
}

// MaxCapacity returns the capacity the ring never grows beyond
func (r *ResizingRing[T]) MaxCapacity() int {
	return r.maxCapacity
}

// IsEmpty returns true when no value is held
func (r *ResizingRing[T]) IsEmpty() bool {
	return r.Size() == 0
}

func (r *ResizingRing[T]) nearFull(ring *RingQueue[T]) bool {
	return ring.Capacity() < r.maxCapacity && ring.Size()*4 >= ring.Capacity()*3
}

// grow replaces current with a ring growthFactor times larger. It returns
// false when current is already at the maximum capacity.
func (r *ResizingRing[T]) grow(current *segment[T]) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.write.Load() != current {
		return true
	}

	capacity := current.ring.Capacity()
	if capacity >= r.maxCapacity {
		return false
	}

	ring, err := NewRing[T](min(capacity*growthFactor, r.maxCapacity), WithBlocker(r.blocker))
	if err != nil {
		return false
	}

	next := &segment[T]{ring: ring}
	current.next.Store(next)
	current.ring.seal()
	r.write.Store(next)
	r.blocker.SpaceAvailable()
	return true
}
