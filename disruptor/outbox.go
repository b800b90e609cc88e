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
	"fmt"
	"time"

	"github.com/tochemey/disruptor/errors"
)

// Outbox buffers the last item a producer emitted. Offering a new item
// hands the buffered one to its target and wakes the target's workers, so a
// burst of items costs one wake per item instead of a wake per drain.
//
// An Outbox belongs to one goroutine at a time. Workers own one each and
// pass it to Deliver.
type Outbox[T any] struct {
	target  Target[T]
	item    T
	full    bool
	closed  bool
	timeout time.Duration
}

// NewOutbox creates an Outbox whose flushes wait up to timeout for space.
func NewOutbox[T any](timeout time.Duration) *Outbox[T] {
	return &Outbox[T]{timeout: timeout}
}

// Offer buffers item for target. The previously buffered item, if any, is
// offered to its target first; the returned error reports that offer.
func (o *Outbox[T]) Offer(target Target[T], item T) error {
	if o.closed {
		return errors.ErrServiceClosed
	}

	var err error
	if o.full {
		err = o.flush(false)
	}
	o.target, o.item, o.full = target, item, true
	return err
}

// Flush hands the buffered item to its target.
func (o *Outbox[T]) Flush() error {
	if !o.full {
		return nil
	}
	return o.flush(false)
}

// FlushAndExecuteLast hands the buffered item to its target, running it on
// the calling goroutine when the target accepts inline execution.
func (o *Outbox[T]) FlushAndExecuteLast() error {
	if !o.full {
		return nil
	}
	return o.flush(true)
}

// Close flushes the buffered item. Offers after Close fail with ErrServiceClosed.
func (o *Outbox[T]) Close() error {
	if o.closed {
		return nil
	}
	err := o.Flush()
	o.closed = true
	return err
}

// IsEmpty reports whether no item is buffered
func (o *Outbox[T]) IsEmpty() bool {
	return !o.full
}

func (o *Outbox[T]) flush(inline bool) error {
	target, item := o.target, o.item
	var zero T
	o.target, o.item, o.full = nil, zero, false

	if inline && target.RunOne(item) {
		return nil
	}

	if !target.Offer(item, o.timeout) {
		return fmt.Errorf("%w: outbox flush timed out after %s", errors.ErrQueueFull, o.timeout)
	}
	target.Wake()
	return nil
}
