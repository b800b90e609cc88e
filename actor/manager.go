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

package actor

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/disruptor/config"
	"github.com/tochemey/disruptor/disruptor"
	"github.com/tochemey/disruptor/errors"
	"github.com/tochemey/disruptor/internal/errorschain"
	imetric "github.com/tochemey/disruptor/internal/metric"
	"github.com/tochemey/disruptor/internal/ticker"
	"github.com/tochemey/disruptor/internal/validation"
	"github.com/tochemey/disruptor/internal/workerpool"
	"github.com/tochemey/disruptor/internal/xsync"
	"github.com/tochemey/disruptor/journal"
	"github.com/tochemey/disruptor/log"
)

const (
	// DefaultShutdownTimeout bounds self destruction and periodic saves
	DefaultShutdownTimeout = 30 * time.Second
	// DefaultPassivateAfter is how long an idle pool worker is kept
	DefaultPassivateAfter = 5 * time.Second
)

// Manager hosts actors: it spawns them on a shared worker pool, routes
// names to references, runs the save rounds and shuts everything down.
type Manager struct {
	name            string
	logger          log.Logger
	config          *config.Config
	store           journal.Store
	meterProvider   metric.MeterProvider
	meter           metric.Meter
	maxWorkers      int
	saveInterval    time.Duration
	shutdownTimeout time.Duration

	pool         *workerpool.WorkerPool
	registry     *xsync.ShardedMap[*actorCell]
	dirty        mapset.Set[*actorCell]
	registration metric.Registration
	saver        *ticker.Ticker

	started  atomic.Bool
	stopping atomic.Bool
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewManager creates an instance of Manager
func NewManager(name string, opts ...Option) (*Manager, error) {
	if err := validation.NewNameValidator("name", name).Validate(); err != nil {
		return nil, err
	}

	manager := &Manager{
		name:            name,
		logger:          log.DefaultLogger,
		config:          &config.Config{Defaults: config.DefaultActor()},
		shutdownTimeout: DefaultShutdownTimeout,
		registry:        xsync.NewShardedMap[*actorCell](),
		dirty:           mapset.NewSet[*actorCell](),
	}
	for _, opt := range opts {
		opt.Apply(manager)
	}

	chain := validation.New(validation.AllErrors()).
		AddAssertion(manager.logger != nil, "logger is required").
		AddAssertion(manager.config != nil, "config is required").
		AddValidator(validation.NewMinValidator("maxWorkers", int64(manager.maxWorkers), 0)).
		AddValidator(validation.NewMinValidator("saveInterval", int64(manager.saveInterval), 0)).
		AddValidator(validation.NewMinValidator("shutdownTimeout", int64(manager.shutdownTimeout), 1))
	if err := chain.Validate(); err != nil {
		return nil, err
	}

	provider := imetric.NewProvider()
	if manager.meterProvider != nil {
		provider = imetric.NewProviderFrom(manager.meterProvider)
	}
	manager.meter = provider.Meter()
	manager.pool = workerpool.New(
		workerpool.WithMaxWorkers(manager.maxWorkers),
		workerpool.WithPassivateAfter(DefaultPassivateAfter))
	return manager, nil
}

// Name returns the manager name
func (m *Manager) Name() string {
	return m.name
}

// Start starts the worker pool and the periodic saves
func (m *Manager) Start(context.Context) error {
	if !m.started.CompareAndSwap(false, true) {
		return nil
	}

	m.stopping.Store(false)
	m.done = make(chan struct{})
	m.pool.Start()
	if err := m.registerMetrics(); err != nil {
		m.pool.Stop()
		m.started.Store(false)
		return fmt.Errorf("failed to register the actor metrics: %w", err)
	}

	if m.saveInterval > 0 {
		m.saver = ticker.New(m.saveInterval)
		m.saver.Start()
		m.wg.Add(1)
		go m.saveLoop()
	}

	m.logger.Infof("actor manager %s started", m.name)
	return nil
}

// Spawn creates the named actor hosting bean. The actor configuration comes
// from the manager config unless overridden by the options.
func (m *Manager) Spawn(ctx context.Context, name string, bean Bean, opts ...SpawnOption) (*Ref, error) {
	if !m.started.Load() || m.stopping.Load() {
		return nil, errors.ErrNotStarted
	}
	if err := validation.NewNameValidator("name", name).Validate(); err != nil {
		return nil, err
	}
	if bean == nil {
		return nil, errors.NewConfigurationError("bean", fmt.Errorf("actor %s has no bean", name))
	}

	spawn := &spawnConfig{actor: m.config.Actor(name)}
	for _, opt := range opts {
		opt(spawn)
	}
	if err := spawn.actor.Validate(); err != nil {
		return nil, err
	}
	if _, ok := m.registry.Load(name); ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrActorExists, name)
	}

	cell, err := newActorCell(ctx, m, name, bean, spawn)
	if err != nil {
		return nil, err
	}
	if !m.registry.StoreIfAbsent(name, cell) {
		_ = cell.stop(ctx, disruptor.Immediate)
		return nil, fmt.Errorf("%w: %s", errors.ErrActorExists, name)
	}

	cell.start()
	m.logger.Debugf("actor %s spawned", name)
	return cell.ref, nil
}

// ActorOf returns the reference of a public actor
func (m *Manager) ActorOf(name string) (*Ref, error) {
	cell, ok := m.registry.Load(name)
	if !ok || !cell.config.Public {
		return nil, fmt.Errorf("%w: %s", errors.ErrActorNotFound, name)
	}
	return cell.ref, nil
}

// Actors returns the references of every actor, ordered by name
func (m *Manager) Actors() []*Ref {
	refs := make([]*Ref, 0, m.registry.Len())
	m.registry.Range(func(_ string, cell *actorCell) bool {
		refs = append(refs, cell.ref)
		return true
	})
	slices.SortFunc(refs, func(a, b *Ref) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return refs
}

// Kill destroys the named actor. In Graceful mode the queued messages are
// processed first, in Immediate mode they fail with ErrServiceClosed.
func (m *Manager) Kill(ctx context.Context, name string, mode disruptor.ShutdownMode) error {
	cell, ok := m.registry.LoadAndDelete(name)
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrActorNotFound, name)
	}
	m.forget(cell)

	if err := cell.stop(ctx, mode); err != nil {
		return fmt.Errorf("failed to stop actor %s: %w", name, err)
	}
	m.logger.Debugf("actor %s killed (%s)", name, mode)
	return nil
}

// Save runs a save round: every modified actor saves its state and
// checkpoints its journal. It returns once all of them are done.
func (m *Manager) Save(ctx context.Context) error {
	dirty := m.dirty.ToSlice()
	if len(dirty) == 0 {
		return nil
	}

	var (
		eg   errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, cell := range dirty {
		m.dirty.Remove(cell)
		eg.Go(func() error {
			if err := cell.requestSave(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("failed to save actor %s: %w", cell.name, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()
	return errorschain.New(errorschain.ReturnAll()).AddErrors(errs...).Error()
}

// Stop destroys every actor and stops the worker pool. A graceful stop runs
// a last save round first.
func (m *Manager) Stop(ctx context.Context, mode disruptor.ShutdownMode) error {
	if !m.started.Load() {
		return errors.ErrNotStarted
	}
	if !m.stopping.CompareAndSwap(false, true) {
		return nil
	}

	close(m.done)
	if m.saver != nil {
		m.saver.Stop()
	}

	chain := errorschain.New(errorschain.ReturnAll())
	if mode == disruptor.Graceful {
		chain.AddError(m.Save(ctx))
	}

	var (
		eg   errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, ref := range m.Actors() {
		eg.Go(func() error {
			err := m.Kill(ctx, ref.Name(), mode)
			if err != nil && !stderrors.Is(err, errors.ErrActorNotFound) {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()
	m.wg.Wait()

	chain.AddErrors(errs...)
	if m.registration != nil {
		chain.AddErrorFn(m.registration.Unregister)
	}
	m.pool.Stop()
	m.started.Store(false)

	if err := chain.Error(); err != nil {
		m.logger.Errorf("actor manager %s stopped with errors: %v", m.name, err)
		return err
	}
	m.logger.Infof("actor manager %s stopped", m.name)
	return nil
}

// markDirty registers a modified actor for the next save round
func (m *Manager) markDirty(cell *actorCell) {
	m.dirty.Add(cell)
}

func (m *Manager) forget(cell *actorCell) {
	m.dirty.Remove(cell)
}

// killAsync destroys an actor from one of its own methods
func (m *Manager) killAsync(name string) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), m.shutdownTimeout)
		defer cancel()
		if err := m.Kill(ctx, name, disruptor.Graceful); err != nil && !stderrors.Is(err, errors.ErrActorNotFound) {
			m.logger.Warnf("actor %s failed to stop: %v", name, err)
		}
	}()
}

func (m *Manager) saveLoop() {
	defer m.wg.Done()
	for {
		select {
		case <-m.saver.Ticks:
			ctx, cancel := context.WithTimeout(context.Background(), m.shutdownTimeout)
			if err := m.Save(ctx); err != nil {
				m.logger.Warnf("periodic save failed: %v", err)
			}
			cancel()
		case <-m.done:
			return
		}
	}
}

func (m *Manager) registerMetrics() error {
	metrics, err := imetric.NewActorMetric(m.meter)
	if err != nil {
		return err
	}

	m.registration, err = m.meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		m.registry.Range(func(name string, cell *actorCell) bool {
			attrs := metric.WithAttributes(attribute.String("actor", name))
			observer.ObserveInt64(metrics.TransitionCount(), cell.transitions.Load(), attrs)
			observer.ObserveInt64(metrics.ProcessedCount(), cell.processed.Load(), attrs)
			observer.ObserveInt64(metrics.PendingCount(), cell.held.Load(), attrs)
			return true
		})
		return nil
	}, metrics.Instruments()...)
	return err
}
