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

// Package counter holds the sequence counters that describe how far each
// pipeline stage has progressed through a ring, and the builders that lay
// those counters out before the ring is materialized.
package counter

import (
	"go.uber.org/atomic"
)

// Sequence is a read-only view over a monotonic position.
type Sequence interface {
	// Get returns the current position.
	Get() int64
}

// Counter is a monotonic 64-bit position updated with CAS.
// The padding keeps neighbouring counters off the same cache line.
type Counter struct {
	_     [56]byte
	value atomic.Int64
	_     [56]byte
}

var _ Sequence = (*Counter)(nil)

// NewCounter creates a counter starting at initial
func NewCounter(initial int64) *Counter {
	c := new(Counter)
	c.value.Store(initial)
	return c
}

// Get returns the current position
func (c *Counter) Get() int64 {
	return c.value.Load()
}

// Set stores the position. Only the single owner of the counter may call it.
func (c *Counter) Set(value int64) {
	c.value.Store(value)
}

// CompareAndSet swaps the position when it still equals old
func (c *Counter) CompareAndSet(old, value int64) bool {
	return c.value.CompareAndSwap(old, value)
}

// Add adds delta and returns the new position
func (c *Counter) Add(delta int64) int64 {
	return c.value.Add(delta)
}

// join reports the slowest of several parallel tails.
type join struct {
	children []Sequence
}

func (j *join) Get() int64 {
	min := j.children[0].Get()
	for _, child := range j.children[1:] {
		if v := child.Get(); v < min {
			min = v
		}
	}
	return min
}
