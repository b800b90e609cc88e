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

// Package config holds the per-actor settings of the runtime and loads them
// from YAML.
//
// A document carries a defaults block and per-actor overrides. Every key
// left out of an actor entry falls back to the defaults block, and keys left
// out of the defaults block fall back to DefaultActor:
//
//	defaults:
//	  queueCapacity: 1024
//	  offerTimeoutMillis: 10000
//	actors:
//	  cart:
//	    journal: true
//	    journalMaxCount: 500
//	  pricing:
//	    maxWorkers: 4
//	    queueFullHandler: drop
package config

import (
	"time"

	"github.com/tochemey/disruptor/internal/lib"
	"github.com/tochemey/disruptor/internal/validation"
)

const (
	// FailHandler makes a full queue fail the sender with ErrQueueFull
	FailHandler = "fail"
	// DropHandler makes a full queue drop the message with a warning
	DropHandler = "drop"

	DefaultQueueCapacity      = 1024
	DefaultOfferTimeoutMillis = 10_000
	DefaultJournalMaxCount    = 1000
)

// Actor is the configuration of one actor
type Actor struct {
	// QueueCapacity is the maximum number of queued messages. Power of two.
	QueueCapacity int `yaml:"queueCapacity"`
	// QueueInitialSize starts the queue smaller and grows it up to the
	// capacity. Zero allocates the whole capacity upfront.
	QueueInitialSize int `yaml:"queueInitialSize"`
	// OfferTimeoutMillis bounds how long a sender waits on a full queue
	OfferTimeoutMillis int64 `yaml:"offerTimeoutMillis"`
	// QueueFullHandler is FailHandler or DropHandler
	QueueFullHandler string `yaml:"queueFullHandler"`
	// MaxWorkers is the number of goroutines allowed to run the actor
	// concurrently. Above one the actor must be safe for concurrent use.
	MaxWorkers int `yaml:"maxWorkers"`
	// Public makes the actor reachable by name through the manager
	Public bool `yaml:"public"`
	// AutoStart initializes the actor on spawn instead of on its first message
	AutoStart bool `yaml:"autoStart"`
	// Journal records the actor messages and replays them on start
	Journal bool `yaml:"journal"`
	// JournalMaxCount is the number of entries after which a save is requested
	JournalMaxCount int `yaml:"journalMaxCount"`
	// JournalDelayMillis batches journal writes for that long
	JournalDelayMillis int64 `yaml:"journalDelayMillis"`
}

var _ validation.Validator = (*Actor)(nil)

// DefaultActor returns the configuration used when nothing is set
func DefaultActor() Actor {
	return Actor{
		QueueCapacity:      DefaultQueueCapacity,
		OfferTimeoutMillis: DefaultOfferTimeoutMillis,
		QueueFullHandler:   FailHandler,
		MaxWorkers:         1,
		Public:             true,
		JournalMaxCount:    DefaultJournalMaxCount,
	}
}

// NewActor returns the default configuration with the options applied
func NewActor(opts ...Option) Actor {
	actor := DefaultActor()
	for _, opt := range opts {
		opt.Apply(&actor)
	}
	return actor
}

// OfferTimeout returns OfferTimeoutMillis as a duration
func (a Actor) OfferTimeout() time.Duration {
	return lib.Millis(a.OfferTimeoutMillis)
}

// JournalDelay returns JournalDelayMillis as a duration
func (a Actor) JournalDelay() time.Duration {
	return lib.Millis(a.JournalDelayMillis)
}

// Validate checks the configuration and reports every violation
func (a Actor) Validate() error {
	chain := validation.New(validation.AllErrors()).
		AddValidator(validation.NewPowerOfTwoValidator("queueCapacity", a.QueueCapacity)).
		AddValidator(validation.NewMinValidator("offerTimeoutMillis", a.OfferTimeoutMillis, 0)).
		AddValidator(validation.NewOneOfValidator("queueFullHandler", a.QueueFullHandler, FailHandler, DropHandler)).
		AddValidator(validation.NewMinValidator("maxWorkers", int64(a.MaxWorkers), 1)).
		AddValidator(validation.NewMinValidator("journalMaxCount", int64(a.JournalMaxCount), 0)).
		AddValidator(validation.NewMinValidator("journalDelayMillis", a.JournalDelayMillis, 0))

	if a.QueueInitialSize != 0 {
		chain.
			AddValidator(validation.NewPowerOfTwoValidator("queueInitialSize", a.QueueInitialSize)).
			AddValidatorFn(func() error {
				return validation.NewMinValidator("queueCapacity", int64(a.QueueCapacity), int64(a.QueueInitialSize)).Validate()
			})
	}
	return chain.Validate()
}
