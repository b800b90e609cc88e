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

	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/disruptor/internal/workerpool"
	"github.com/tochemey/disruptor/log"
)

const (
	// DefaultCapacity is the ring capacity used when none is set
	DefaultCapacity = 1024
	// DefaultOfferTimeout bounds outbox flushes when no timeout is set
	DefaultOfferTimeout = 100 * time.Millisecond
	// DefaultBatchSize caps the items a multi worker claims before ending its batch
	DefaultBatchSize = 64
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(settings *settings)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(settings *settings)

// Apply applies the option
func (f OptionFunc) Apply(s *settings) {
	f(s)
}

type settings struct {
	name         string
	capacity     int
	initialSize  int
	offerTimeout time.Duration
	batchSize    int
	spin         bool
	pool         *workerpool.WorkerPool
	logger       log.Logger
	meter        metric.Meter
}

func newSettings() *settings {
	return &settings{
		name:         "disruptor",
		capacity:     DefaultCapacity,
		offerTimeout: DefaultOfferTimeout,
		batchSize:    DefaultBatchSize,
		logger:       log.DefaultLogger,
	}
}

// WithName sets the service name used in logs and metric attributes
func WithName(name string) Option {
	return OptionFunc(func(s *settings) {
		s.name = name
	})
}

// WithCapacity sets the ring capacity. It must be a power of two of at least 2.
func WithCapacity(capacity int) Option {
	return OptionFunc(func(s *settings) {
		s.capacity = capacity
	})
}

// WithInitialSize starts a single stage, single worker service on a ring of
// size that grows up to the capacity. It is ignored by other topologies,
// which always allocate the full capacity.
func WithInitialSize(size int) Option {
	return OptionFunc(func(s *settings) {
		s.initialSize = size
	})
}

// WithOfferTimeout sets how long outbox flushes wait for space
func WithOfferTimeout(timeout time.Duration) Option {
	return OptionFunc(func(s *settings) {
		s.offerTimeout = timeout
	})
}

// WithBatchSize caps the number of items a multi worker claims per batch
func WithBatchSize(size int) Option {
	return OptionFunc(func(s *settings) {
		s.batchSize = size
	})
}

// WithSpinWait makes producers spin instead of parking while the ring is full
func WithSpinWait() Option {
	return OptionFunc(func(s *settings) {
		s.spin = true
	})
}

// WithWorkerPool runs the workers on a shared pool. The service neither
// starts nor stops a pool it did not create.
func WithWorkerPool(pool *workerpool.WorkerPool) Option {
	return OptionFunc(func(s *settings) {
		s.pool = pool
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(s *settings) {
		s.logger = logger
	})
}

// WithMeter registers the queue instruments on meter
func WithMeter(meter metric.Meter) Option {
	return OptionFunc(func(s *settings) {
		s.meter = meter
	})
}
