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
	"go.uber.org/atomic"
)

type linkedNode[T any] struct {
	value T
	next  atomic.Pointer[linkedNode[T]]
}

// Linked is an unbounded lock-free multi-producer multi-consumer queue
// (Michael-Scott).
type Linked[T any] struct {
	head   atomic.Pointer[linkedNode[T]]
	tail   atomic.Pointer[linkedNode[T]]
	length atomic.Int64
}

// NewLinked creates an instance of Linked
func NewLinked[T any]() *Linked[T] {
	stub := new(linkedNode[T])
	q := new(Linked[T])
	q.head.Store(stub)
	q.tail.Store(stub)
	return q
}

// Push appends value at the back of the queue
func (q *Linked[T]) Push(value T) {
	node := &linkedNode[T]{value: value}
	for {
		tail := q.tail.Load()
		next := tail.next.Load()
		if next != nil {
			q.tail.CompareAndSwap(tail, next)
			continue
		}
		if tail.next.CompareAndSwap(nil, node) {
			q.tail.CompareAndSwap(tail, node)
			q.length.Inc()
			return
		}
	}
}

// Pop removes the value at the front of the queue.
// It returns false when the queue is empty.
func (q *Linked[T]) Pop() (T, bool) {
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		next := head.next.Load()
		if next == nil {
			var zero T
			return zero, false
		}
		if head == tail {
			q.tail.CompareAndSwap(tail, next)
			continue
		}
		if q.head.CompareAndSwap(head, next) {
			q.length.Dec()
			return next.value, true
		}
	}
}

// Len returns an estimate of the number of queued values
func (q *Linked[T]) Len() int64 {
	return q.length.Load()
}

// IsEmpty returns true when the queue is empty
func (q *Linked[T]) IsEmpty() bool {
	return q.head.Load().next.Load() == nil
}
