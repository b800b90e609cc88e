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
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"

	"github.com/tochemey/disruptor/errors"
	"github.com/tochemey/disruptor/internal/counter"
	imetric "github.com/tochemey/disruptor/internal/metric"
	"github.com/tochemey/disruptor/internal/queue"
	"github.com/tochemey/disruptor/internal/workerpool"
	"github.com/tochemey/disruptor/log"
)

// QueueService is a runnable pipeline: one ring shared by every stage,
// the counters describing how far each stage got, and the workers.
//
// Producers call Offer then Wake. Items flow through the stages in offer
// order; a stage only sees an item once every upstream stage released it.
type QueueService[T any] struct {
	name         string
	logger       log.Logger
	offerTimeout time.Duration
	batchSize    int

	// exactly one of ring and polled is set
	ring   *queue.RingQueue[T]
	polled *queue.ResizingRing[T]
	group  *counter.Group

	stages  []*stage[T]
	entries []*stage[T]
	inline  func(item T) bool

	pool    *workerpool.WorkerPool
	ownPool bool

	closed     atomic.Bool
	shutdownMu sync.Mutex

	offers       atomic.Int64
	fulls        atomic.Int64
	wakes        atomic.Int64
	registration metric.Registration
}

var _ Target[int] = (*QueueService[int])(nil)

func newQueueService[T any](specs []stageSpec[T], opts ...Option) (*QueueService[T], error) {
	config := newSettings()
	for _, opt := range opts {
		opt.Apply(config)
	}

	if err := validate(specs, config); err != nil {
		return nil, err
	}

	s := &QueueService[T]{
		name:         config.name,
		logger:       config.logger.With("queue", config.name),
		offerTimeout: config.offerTimeout,
		batchSize:    config.batchSize,
		pool:         config.pool,
	}

	var blocker queue.RingBlocker
	if config.spin {
		blocker = queue.NewSpinBlocker()
	} else {
		blocker = queue.NewNotifyBlocker()
	}

	if s.pool == nil {
		s.pool = workerpool.New(workerpool.WithPassivateAfter(time.Second))
		s.ownPool = true
	}

	var err error
	if isPolled(specs, config) {
		err = s.buildPolled(specs[0], config, blocker)
	} else {
		err = s.buildIndexed(specs, config, blocker)
	}
	if err != nil {
		return nil, err
	}

	if config.meter != nil {
		if err := s.registerMetrics(config.meter); err != nil {
			return nil, err
		}
	}

	if s.ownPool {
		s.pool.Start()
	}
	return s, nil
}

func validate[T any](specs []stageSpec[T], config *settings) error {
	if err := queue.ValidateCapacity(config.capacity); err != nil {
		return err
	}
	if config.initialSize != 0 && config.initialSize < config.capacity {
		if err := queue.ValidateCapacity(config.initialSize); err != nil {
			return errors.NewConfigurationError("initialSize", err)
		}
	}
	if config.offerTimeout < 0 {
		return errors.NewConfigurationError("offerTimeout", errors.ErrInvalidTimeout)
	}
	if config.batchSize < 1 {
		return errors.NewConfigurationError("batchSize", fmt.Errorf("got %d, want at least 1", config.batchSize))
	}
	if config.logger == nil {
		return errors.NewConfigurationError("logger", fmt.Errorf("logger is required"))
	}
	for i, spec := range specs {
		if spec.workers < 1 {
			return errors.NewConfigurationError("workers", fmt.Errorf("stage %d has %d workers, want at least 1", i, spec.workers))
		}
		if len(spec.delivers) == 0 {
			return errors.NewConfigurationError("stage", fmt.Errorf("stage %d has no deliver", i))
		}
		for _, deliver := range spec.delivers {
			if deliver == nil {
				return errors.NewConfigurationError("stage", fmt.Errorf("stage %d has a nil deliver", i))
			}
		}
	}
	return nil
}

func isPolled[T any](specs []stageSpec[T], config *settings) bool {
	return len(specs) == 1 &&
		len(specs[0].delivers) == 1 &&
		specs[0].workers <= 1 &&
		config.initialSize > 0 &&
		config.initialSize < config.capacity
}

func (s *QueueService[T]) buildPolled(spec stageSpec[T], config *settings, blocker queue.RingBlocker) error {
	ring, err := queue.NewResizingRing[T](config.initialSize, config.capacity, queue.WithBlocker(blocker))
	if err != nil {
		return err
	}
	s.polled = ring

	st := &stage[T]{
		deliver:  spec.delivers[0],
		terminal: true,
		logger:   s.logger.With("stage", 0),
	}
	w := newPollWorker(s, st, ring)
	st.wake, st.isIdle, st.runOne = w.wake, w.isIdle, w.runOne

	s.stages = []*stage[T]{st}
	s.entries = s.stages
	s.inline = w.runOne
	return nil
}

func (s *QueueService[T]) buildIndexed(specs []stageSpec[T], config *settings, blocker queue.RingBlocker) error {
	builders := make([]counter.Builder, len(specs))
	var delivers []Deliver[T]
	for i, spec := range specs {
		builders[i] = spec.counters()
		delivers = append(delivers, spec.delivers...)
	}

	group, err := counter.Build(counter.Chain(builders...))
	if err != nil {
		return err
	}

	ring, err := queue.NewRing[T](config.capacity,
		queue.WithBlocker(blocker),
		queue.WithCounters(group.Head(), group.Tail()))
	if err != nil {
		return err
	}
	s.ring, s.group = ring, group

	terminals := 0
	for _, segment := range group.Segments() {
		if segment.Terminal() {
			terminals++
		}
	}

	for i, segment := range group.Segments() {
		st := &stage[T]{
			index:      i,
			deliver:    delivers[i],
			downstream: segment.Downstream(),
			terminal:   segment.Terminal(),
			clears:     segment.Terminal() && terminals == 1,
			logger:     s.logger.With("stage", i),
		}

		upstream := group.Counter(segment.HeadIndex())
		switch tail := group.Counter(segment.TailIndex()).(type) {
		case *counter.MultiTail:
			g := newMultiGroup(s, st, ring, upstream, tail, segment.Workers())
			st.wake, st.isIdle = g.wake, g.isIdle
		case *counter.Counter:
			w := newWorker(s, st, ring, upstream, tail)
			st.wake, st.isIdle, st.runOne = w.wake, w.isIdle, w.runOne
		default:
			return fmt.Errorf("unexpected tail counter %T", tail)
		}

		s.stages = append(s.stages, st)
		if segment.HeadIndex() == 0 {
			s.entries = append(s.entries, st)
		}
	}

	if group.IsSingle() {
		s.inline = s.stages[0].runOne
	}
	return nil
}

// Name returns the service name
func (s *QueueService[T]) Name() string {
	return s.name
}

// Offer stores item, waiting up to timeout for space. It returns false when
// the service is closed or the ring stayed full. Offer does not wake the
// workers: call Wake once the burst is published.
func (s *QueueService[T]) Offer(item T, timeout time.Duration) bool {
	if s.closed.Load() {
		return false
	}

	var ok bool
	if s.polled != nil {
		ok = s.polled.Offer(item, timeout)
	} else {
		ok = s.ring.Offer(item, timeout)
	}

	if ok {
		s.offers.Inc()
	} else {
		s.fulls.Inc()
	}
	return ok
}

// Wake starts the idle workers of the first stage
func (s *QueueService[T]) Wake() {
	for _, st := range s.entries {
		if st.wake() {
			s.wakes.Inc()
		}
	}
}

// RunOne delivers item on the calling goroutine. It only succeeds on a
// single stage, single worker service whose worker is idle and whose ring
// is empty.
func (s *QueueService[T]) RunOne(item T) bool {
	if s.inline == nil || s.closed.Load() {
		return false
	}
	if s.inline(item) {
		s.offers.Inc()
		return true
	}
	return false
}

// SupportsRunOne reports whether RunOne can ever succeed
func (s *QueueService[T]) SupportsRunOne() bool {
	return s.inline != nil
}

// Size returns the number of items not yet released by the last stage
func (s *QueueService[T]) Size() int {
	if s.polled != nil {
		return s.polled.Size()
	}
	return s.ring.Size()
}

// Capacity returns the maximum number of items the service holds
func (s *QueueService[T]) Capacity() int {
	if s.polled != nil {
		return s.polled.MaxCapacity()
	}
	return s.ring.Capacity()
}

// IsClosed reports whether Shutdown was called
func (s *QueueService[T]) IsClosed() bool {
	return s.closed.Load()
}

// Shutdown stops accepting items and waits for the workers to drain the ring.
// In Graceful mode the delivers are shut down after the drain, in Immediate
// mode before it. The context bounds the drain.
func (s *QueueService[T]) Shutdown(ctx context.Context, mode ShutdownMode) error {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()

	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.Debugf("shutting down (%s)", mode)

	if mode == Immediate {
		s.shutdownDelivers(mode)
	}

	s.Wake()
	err := s.awaitDrain(ctx)

	if mode == Graceful {
		s.shutdownDelivers(mode)
	}

	if s.registration != nil {
		if uerr := s.registration.Unregister(); uerr != nil {
			s.logger.Warnf("failed to unregister metrics: %v", uerr)
		}
	}

	if s.ownPool {
		s.pool.Stop()
	}

	if err != nil {
		return fmt.Errorf("failed to drain queue %s: %w", s.name, err)
	}
	return nil
}

func (s *QueueService[T]) shutdownDelivers(mode ShutdownMode) {
	for _, st := range s.stages {
		func() {
			defer func() {
				if r := recover(); r != nil {
					st.logger.Errorf("shutdown recovered from panic: %v", errors.Recovered(r))
				}
			}()
			st.deliver.Shutdown(mode)
		}()
	}
}

func (s *QueueService[T]) awaitDrain(ctx context.Context) error {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		if s.drained() {
			return nil
		}
		s.Wake()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *QueueService[T]) drained() bool {
	if s.Size() != 0 {
		return false
	}
	for _, st := range s.stages {
		if !st.isIdle() {
			return false
		}
	}
	return true
}

// advanced wakes the stages fed by st and, for a final stage, the producers
// waiting for space.
func (s *QueueService[T]) advanced(st *stage[T]) {
	for _, index := range st.downstream {
		s.stages[index].wake()
	}
	if st.terminal && s.ring != nil {
		s.ring.SpaceAvailable()
	}
}

func (s *QueueService[T]) submit(task func()) bool {
	return s.pool.SubmitWork(task)
}

func (s *QueueService[T]) registerMetrics(meter metric.Meter) error {
	metrics, err := imetric.NewQueueMetric(meter)
	if err != nil {
		return err
	}

	attrs := metric.WithAttributes(attribute.String("queue", s.name))
	s.registration, err = meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		observer.ObserveInt64(metrics.OfferCount(), s.offers.Load(), attrs)
		observer.ObserveInt64(metrics.FullCount(), s.fulls.Load(), attrs)
		observer.ObserveInt64(metrics.WakeCount(), s.wakes.Load(), attrs)
		observer.ObserveInt64(metrics.Size(), int64(s.Size()), attrs)
		return nil
	}, metrics.Instruments()...)
	return err
}

// Stats is a snapshot of the service counters
type Stats struct {
	Offers int64
	Fulls  int64
	Wakes  int64
	Size   int
}

// Stats returns a snapshot of the service counters
func (s *QueueService[T]) Stats() Stats {
	return Stats{
		Offers: s.offers.Load(),
		Fulls:  s.fulls.Load(),
		Wakes:  s.wakes.Load(),
		Size:   s.Size(),
	}
}
