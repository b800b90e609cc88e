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
	"runtime"
	"time"

	"github.com/tochemey/disruptor/errors"
	"github.com/tochemey/disruptor/internal/counter"
	"github.com/tochemey/disruptor/internal/lib"
)

// sealed marks a reservation counter that accepts no more writes.
const sealed int64 = 1 << 62

// Queue is the surface shared by the fixed and the resizing rings.
type Queue[T any] interface {
	// Offer stores value, waiting up to timeout for space. It returns false
	// when the value was not stored.
	Offer(value T, timeout time.Duration) bool
	// Poll removes the oldest value, waiting up to timeout for one.
	Poll(timeout time.Duration) (T, bool)
	// Size returns the number of stored values.
	Size() int
	// Capacity returns the current capacity.
	Capacity() int
	// IsEmpty reports whether Size is zero.
	IsEmpty() bool
}

// RingQueue is a fixed capacity circular buffer addressed by counters.
//
// Producers reserve a slot with a CAS on the reservation counter, write it,
// then publish the head in reservation order. Pollers do the same on the
// tail. A ring bound to pipeline counters with WithCounters is consumed by
// index through Get and its tail belongs to the pipeline.
type RingQueue[T any] struct {
	buffer   []T
	mask     int64
	capacity int64

	headAlloc *counter.Counter
	head      *counter.Counter
	tailAlloc *counter.Counter
	tail      *counter.Counter
	bound     counter.Sequence

	blocker  RingBlocker
	external bool
}

var _ Queue[int] = (*RingQueue[int])(nil)

// RingOption configures a RingQueue
type RingOption interface {
	apply(config *ringConfig)
}

type ringConfig struct {
	blocker RingBlocker
	head    *counter.Counter
	bound   counter.Sequence
}

type ringOptionFunc func(config *ringConfig)

func (f ringOptionFunc) apply(config *ringConfig) {
	f(config)
}

// WithBlocker sets the blocker used when the ring is full or empty
func WithBlocker(blocker RingBlocker) RingOption {
	return ringOptionFunc(func(config *ringConfig) {
		config.blocker = blocker
	})
}

// WithCounters binds the ring to pipeline counters: head is published by
// producers and bound is the position producers must not lap.
func WithCounters(head *counter.Counter, bound counter.Sequence) RingOption {
	return ringOptionFunc(func(config *ringConfig) {
		config.head = head
		config.bound = bound
	})
}

// NewRing creates a RingQueue. capacity must be a power of two and at least 2.
func NewRing[T any](capacity int, opts ...RingOption) (*RingQueue[T], error) {
	if err := ValidateCapacity(capacity); err != nil {
		return nil, err
	}

	config := &ringConfig{blocker: NewNotifyBlocker()}
	for _, opt := range opts {
		opt.apply(config)
	}

	r := &RingQueue[T]{
		buffer:    make([]T, capacity),
		mask:      int64(capacity - 1),
		capacity:  int64(capacity),
		headAlloc: counter.NewCounter(0),
		tailAlloc: counter.NewCounter(0),
		tail:      counter.NewCounter(0),
		blocker:   config.blocker,
	}

	if config.head != nil {
		r.external = true
		r.head = config.head
		r.headAlloc.Set(config.head.Get())
		r.bound = config.bound
	} else {
		r.head = counter.NewCounter(0)
		r.bound = r.tail
	}
	return r, nil
}

// ValidateCapacity checks that capacity is a power of two greater or equal to two
func ValidateCapacity(capacity int) error {
	if capacity < 2 || !lib.IsPowerOfTwo(capacity) {
		return errors.NewConfigurationError("capacity", fmt.Errorf("%w: got %d", errors.ErrInvalidCapacity, capacity))
	}
	return nil
}

// Offer stores value, blocking up to timeout while the ring is full.
// No value is stored when it returns false.
func (r *RingQueue[T]) Offer(value T, timeout time.Duration) bool {
	if r.tryOffer(value) {
		r.blocker.ItemAvailable()
		return true
	}

	if timeout <= 0 || r.isSealed() {
		return false
	}

	deadline := time.Now().Add(timeout)
	for {
		if !r.blocker.WaitForSpace(deadline, r.hasSpace) {
			return false
		}
		if r.tryOffer(value) {
			r.blocker.ItemAvailable()
			return true
		}
		if r.isSealed() {
			return false
		}
	}
}

// Poll removes the oldest value, blocking up to timeout while the ring is
// empty. A ring bound with WithCounters is never polled and returns false.
func (r *RingQueue[T]) Poll(timeout time.Duration) (T, bool) {
	if value, ok := r.tryPoll(); ok {
		r.blocker.SpaceAvailable()
		return value, true
	}

	var zero T
	if timeout <= 0 || r.external {
		return zero, false
	}

	deadline := time.Now().Add(timeout)
	for {
		if !r.blocker.WaitForItem(deadline, r.hasItem) {
			return zero, false
		}
		if value, ok := r.tryPoll(); ok {
			r.blocker.SpaceAvailable()
			return value, true
		}
	}
}

// Size returns the number of values published and not yet consumed
func (r *RingQueue[T]) Size() int {
	return int(r.head.Get() - r.bound.Get())
}

// Capacity returns the capacity of the ring
func (r *RingQueue[T]) Capacity() int {
	return int(r.capacity)
}

// IsEmpty returns true when the ring holds no value
func (r *RingQueue[T]) IsEmpty() bool {
	return r.Size() == 0
}

// Head returns the published head counter
func (r *RingQueue[T]) Head() *counter.Counter {
	return r.head
}

// Get returns the value stored at index. The caller must own the slot:
// index below the published head and not yet released by its stage.
func (r *RingQueue[T]) Get(index int64) T {
	return r.buffer[index&r.mask]
}

// Clear drops the reference held at index. Only the last stage may call it.
func (r *RingQueue[T]) Clear(index int64) {
	var zero T
	r.buffer[index&r.mask] = zero
}

// SpaceAvailable wakes producers waiting for room. Pipelines call it after
// their last stage advanced.
func (r *RingQueue[T]) SpaceAvailable() {
	r.blocker.SpaceAvailable()
}

func (r *RingQueue[T]) reserve() (int64, bool) {
	for {
		alloc := r.headAlloc.Get()
		if alloc&sealed != 0 || alloc-r.bound.Get() >= r.capacity {
			return 0, false
		}
		if r.headAlloc.CompareAndSet(alloc, alloc+1) {
			return alloc, true
		}
	}
}

func (r *RingQueue[T]) tryOffer(value T) bool {
	index, ok := r.reserve()
	if !ok {
		return false
	}
	r.buffer[index&r.mask] = value
	publish(r.head, index)
	return true
}

func (r *RingQueue[T]) tryPoll() (T, bool) {
	var zero T
	if r.external {
		return zero, false
	}
	for {
		index := r.tailAlloc.Get()
		if index >= r.head.Get() {
			return zero, false
		}
		if r.tailAlloc.CompareAndSet(index, index+1) {
			slot := index & r.mask
			value := r.buffer[slot]
			r.buffer[slot] = zero
			publish(r.tail, index)
			return value, true
		}
	}
}

func (r *RingQueue[T]) hasSpace() bool {
	alloc := r.headAlloc.Get()
	return alloc&sealed != 0 || alloc-r.bound.Get() < r.capacity
}

func (r *RingQueue[T]) hasItem() bool {
	return r.tailAlloc.Get() < r.head.Get()
}

// seal closes the ring to new reservations
func (r *RingQueue[T]) seal() {
	for {
		alloc := r.headAlloc.Get()
		if alloc&sealed != 0 || r.headAlloc.CompareAndSet(alloc, alloc|sealed) {
			return
		}
	}
}

func (r *RingQueue[T]) isSealed() bool {
	return r.headAlloc.Get()&sealed != 0
}

// exhausted reports a sealed ring whose every value has been claimed by a poller
func (r *RingQueue[T]) exhausted() bool {
	alloc := r.headAlloc.Get()
	return alloc&sealed != 0 && r.tailAlloc.Get() >= alloc&^sealed
}

// publish moves c from index to index+1 once every earlier reservation is published.
func publish(c *counter.Counter, index int64) {
	for spins := 0; !c.CompareAndSet(index, index+1); spins++ {
		if spins > 16 {
			runtime.Gosched()
		}
	}
}
