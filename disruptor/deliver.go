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
	"time"
)

// ShutdownMode tells a Deliver how the pipeline is being stopped.
type ShutdownMode int

const (
	// Graceful drains every queued item before the delivers are shut down.
	Graceful ShutdownMode = iota
	// Immediate shuts the delivers down first. Items still queued are then
	// drained against the stopped delivers.
	Immediate
)

// String returns the mode name
func (m ShutdownMode) String() string {
	switch m {
	case Graceful:
		return "graceful"
	case Immediate:
		return "immediate"
	default:
		return "unknown"
	}
}

// Deliver consumes the items of one pipeline stage.
//
// BeforeBatch and AfterBatch bracket a contiguous run of items handed to
// Deliver by one worker. Batches of a single worker stage never interleave.
// On a stage with several workers each worker brackets its own runs, so the
// implementation must be safe for concurrent use.
type Deliver[T any] interface {
	// Deliver processes one item. Items sent through outbox are handed to
	// their target once the batch ends.
	Deliver(item T, outbox *Outbox[T]) error
	// BeforeBatch is called before the first item of a batch
	BeforeBatch()
	// AfterBatch is called after the last item of a batch
	AfterBatch()
	// Shutdown is called once when the owning service stops
	Shutdown(mode ShutdownMode)
}

// DeliverFunc adapts a function to the Deliver interface. Its batch and
// shutdown hooks do nothing.
type DeliverFunc[T any] func(item T, outbox *Outbox[T]) error

var _ Deliver[int] = DeliverFunc[int](nil)

// Deliver calls f(item, outbox)
func (f DeliverFunc[T]) Deliver(item T, outbox *Outbox[T]) error {
	return f(item, outbox)
}

func (f DeliverFunc[T]) BeforeBatch() {}

func (f DeliverFunc[T]) AfterBatch() {}

func (f DeliverFunc[T]) Shutdown(ShutdownMode) {}

// Target is the consumer side an Outbox writes into.
type Target[T any] interface {
	// Offer stores item, waiting up to timeout for space.
	Offer(item T, timeout time.Duration) bool
	// Wake starts the idle workers that have work.
	Wake()
	// RunOne delivers item on the calling goroutine when the target is idle
	// and empty. It returns false when the item was not delivered.
	RunOne(item T) bool
}
