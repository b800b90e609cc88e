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

package config

import "time"

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(actor *Actor)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(actor *Actor)

// Apply applies the option
func (f OptionFunc) Apply(actor *Actor) {
	f(actor)
}

// WithQueueCapacity sets the queue capacity
func WithQueueCapacity(capacity int) Option {
	return OptionFunc(func(actor *Actor) {
		actor.QueueCapacity = capacity
	})
}

// WithQueueInitialSize sets the initial size of a growing queue
func WithQueueInitialSize(size int) Option {
	return OptionFunc(func(actor *Actor) {
		actor.QueueInitialSize = size
	})
}

// WithOfferTimeout sets how long senders wait on a full queue
func WithOfferTimeout(timeout time.Duration) Option {
	return OptionFunc(func(actor *Actor) {
		actor.OfferTimeoutMillis = timeout.Milliseconds()
	})
}

// WithQueueFullHandler sets the queue full handler name
func WithQueueFullHandler(name string) Option {
	return OptionFunc(func(actor *Actor) {
		actor.QueueFullHandler = name
	})
}

// WithMaxWorkers sets how many goroutines may run the actor
func WithMaxWorkers(workers int) Option {
	return OptionFunc(func(actor *Actor) {
		actor.MaxWorkers = workers
	})
}

// WithPublic sets whether the actor can be looked up by name
func WithPublic(public bool) Option {
	return OptionFunc(func(actor *Actor) {
		actor.Public = public
	})
}

// WithAutoStart initializes the actor on spawn
func WithAutoStart() Option {
	return OptionFunc(func(actor *Actor) {
		actor.AutoStart = true
	})
}

// WithJournal enables journaling with the given checkpoint threshold and write delay
func WithJournal(maxCount int, delay time.Duration) Option {
	return OptionFunc(func(actor *Actor) {
		actor.Journal = true
		actor.JournalMaxCount = maxCount
		actor.JournalDelayMillis = delay.Milliseconds()
	})
}
