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

package journal

import (
	"context"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/tochemey/disruptor/errors"
	"github.com/tochemey/disruptor/internal/queue"
	"github.com/tochemey/disruptor/internal/ticker"
	"github.com/tochemey/disruptor/log"
)

// WriterOption configures a Writer
type WriterOption func(*Writer)

// WithDelay batches appends for delay before writing them. Zero writes
// every append immediately.
func WithDelay(delay time.Duration) WriterOption {
	return func(w *Writer) {
		w.delay = delay
	}
}

// WithMaxBatch forces a flush once that many entries are buffered
func WithMaxBatch(size int) WriterOption {
	return func(w *Writer) {
		w.maxBatch = size
	}
}

// WithRetries sets how many times a failed write is attempted
func WithRetries(retries int) WriterOption {
	return func(w *Writer) {
		w.retries = retries
	}
}

// WithWriterLogger sets the logger
func WithWriterLogger(logger log.Logger) WriterOption {
	return func(w *Writer) {
		w.logger = logger
	}
}

// Writer batches appends to a Journal. Buffered entries are written once
// the delay elapses, on Flush, on Close, or when the batch is full. Writes
// are retried with backoff.
type Writer struct {
	journal  Journal
	delay    time.Duration
	maxBatch int
	retries  int
	logger   log.Logger

	buffer *queue.Mpsc[*Entry]
	// flushing serializes writes so that entries reach the journal in
	// append order
	flushing sync.Mutex
	failures error
	closed   atomic.Bool

	clock *ticker.Ticker
	stop  chan struct{}
	wg    sync.WaitGroup
}

// NewWriter creates a Writer on journal
func NewWriter(journal Journal, opts ...WriterOption) *Writer {
	w := &Writer{
		journal:  journal,
		maxBatch: 512,
		retries:  3,
		logger:   log.DefaultLogger,
		buffer:   queue.NewMpsc[*Entry](),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.delay > 0 {
		w.clock = ticker.New(w.delay)
		w.stop = make(chan struct{})
		w.clock.Start()
		w.wg.Add(1)
		go w.loop()
	}
	return w
}

// Append hands entry to the journal. With no delay the entry is written
// before Append returns; otherwise it is buffered.
func (w *Writer) Append(ctx context.Context, entry *Entry) error {
	if w.closed.Load() {
		return errors.ErrJournalClosed
	}

	w.buffer.Push(entry)
	if w.delay == 0 || w.buffer.Len() >= int64(w.maxBatch) {
		return w.Flush(ctx)
	}
	return nil
}

// Pending returns the number of buffered entries
func (w *Writer) Pending() int {
	return int(w.buffer.Len())
}

// Flush writes the buffered entries
func (w *Writer) Flush(ctx context.Context) error {
	w.flushing.Lock()
	defer w.flushing.Unlock()

	var batch []*Entry
	for {
		entry, ok := w.buffer.Pop()
		if !ok {
			break
		}
		batch = append(batch, entry)
	}
	if len(batch) == 0 {
		return nil
	}

	retrier := retry.NewRetrier(max(w.retries, 1), 10*time.Millisecond, 200*time.Millisecond)
	return retrier.RunContext(ctx, func(ctx context.Context) error {
		err := w.journal.Append(ctx, batch...)
		if err != nil && ctx.Err() == nil {
			w.logger.Warnf("journal: failed to write %d entries: %v", len(batch), err)
		}
		return err
	})
}

// Close flushes the buffered entries and stops the writer. It reports the
// flush error together with the failures of the background flushes.
func (w *Writer) Close(ctx context.Context) error {
	if w.closed.Swap(true) {
		return nil
	}

	if w.clock != nil {
		close(w.stop)
		w.wg.Wait()
		w.clock.Stop()
	}

	err := w.Flush(ctx)
	w.flushing.Lock()
	defer w.flushing.Unlock()
	return multierr.Append(w.failures, err)
}

func (w *Writer) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stop:
			return
		case <-w.clock.Ticks:
			if w.buffer.IsEmpty() {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := w.Flush(ctx); err != nil {
				w.logger.Errorf("journal: background flush failed: %v", err)
				w.flushing.Lock()
				w.failures = multierr.Append(w.failures, err)
				w.flushing.Unlock()
			}
			cancel()
		}
	}
}
