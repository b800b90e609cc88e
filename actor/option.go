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
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/disruptor/config"
	"github.com/tochemey/disruptor/journal"
	"github.com/tochemey/disruptor/log"
)

// Option is the interface that applies a configuration option to the Manager
type Option interface {
	// Apply sets the Option value of a config.
	Apply(manager *Manager)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(manager *Manager)

// Apply applies the options to the Manager
func (f OptionFunc) Apply(manager *Manager) {
	f(manager)
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(manager *Manager) {
		manager.logger = logger
	})
}

// WithJournalStore sets the store holding the journals of journaled actors.
// The manager does not close it.
func WithJournalStore(store journal.Store) Option {
	return OptionFunc(func(manager *Manager) {
		manager.store = store
	})
}

// WithConfig sets the actor configurations, usually loaded with config.Load
func WithConfig(cfg *config.Config) Option {
	return OptionFunc(func(manager *Manager) {
		manager.config = cfg
	})
}

// WithMeterProvider registers the queue and actor instruments on provider
func WithMeterProvider(provider metric.MeterProvider) Option {
	return OptionFunc(func(manager *Manager) {
		manager.meterProvider = provider
	})
}

// WithMaxWorkers bounds the number of goroutines running actors.
// Zero, the default, lets the pool grow as needed.
func WithMaxWorkers(maxWorkers int) Option {
	return OptionFunc(func(manager *Manager) {
		manager.maxWorkers = maxWorkers
	})
}

// WithSaveInterval saves the modified actors periodically
func WithSaveInterval(interval time.Duration) Option {
	return OptionFunc(func(manager *Manager) {
		manager.saveInterval = interval
	})
}

// WithShutdownTimeout bounds the destruction of an actor stopping itself and
// the periodic saves
func WithShutdownTimeout(timeout time.Duration) Option {
	return OptionFunc(func(manager *Manager) {
		manager.shutdownTimeout = timeout
	})
}

// SpawnOption configures a single actor
type SpawnOption func(*spawnConfig)

type spawnConfig struct {
	actor   config.Actor
	handler QueueFullHandler
}

// WithActorConfig replaces the configuration found in the manager config
func WithActorConfig(cfg config.Actor) SpawnOption {
	return func(spawn *spawnConfig) {
		spawn.actor = cfg
	}
}

// WithActorOptions amends the actor configuration
func WithActorOptions(opts ...config.Option) SpawnOption {
	return func(spawn *spawnConfig) {
		for _, opt := range opts {
			opt.Apply(&spawn.actor)
		}
	}
}

// WithQueueFullHandler overrides the configured queue full handler
func WithQueueFullHandler(handler QueueFullHandler) SpawnOption {
	return func(spawn *spawnConfig) {
		spawn.handler = handler
	}
}
