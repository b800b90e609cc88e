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

// Package ticker delivers periodic ticks to a single slow receiver.
package ticker

import (
	"sync"
	"time"
)

// Ticker delivers ticks at a fixed interval. A tick is dropped when the
// receiver has not consumed the previous one.
type Ticker struct {
	Ticks chan time.Time

	interval time.Duration
	mu       sync.Mutex
	ticking  bool
	stop     chan struct{}
	done     sync.WaitGroup
}

// New creates an instance of Ticker that ticks every interval.
func New(interval time.Duration) *Ticker {
	if interval <= 0 {
		panic("ticker interval must be greater than zero")
	}
	return &Ticker{
		Ticks:    make(chan time.Time, 1),
		interval: interval,
	}
}

// Start the ticker. Ticks are delivered until Stop is called.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ticking {
		return
	}
	t.ticking = true
	t.stop = make(chan struct{})
	t.done.Add(1)
	go t.loop(t.stop)
}

// Stop stops the ticker and waits for its goroutine to exit.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.ticking {
		t.mu.Unlock()
		return
	}
	t.ticking = false
	close(t.stop)
	t.mu.Unlock()
	t.done.Wait()
}

// Ticking returns true when the ticker is ticking
func (t *Ticker) Ticking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ticking
}

func (t *Ticker) loop(stop <-chan struct{}) {
	defer t.done.Done()
	clock := time.NewTicker(t.interval)
	defer clock.Stop()
	for {
		select {
		case tick := <-clock.C:
			select {
			case t.Ticks <- tick:
			default:
			}
		case <-stop:
			return
		}
	}
}
