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

package queue

import (
	"runtime"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// RingBlocker parks producers on a full ring and consumers on an empty one.
// Wait calls re-check ready after every wake up and return whether it holds.
type RingBlocker interface {
	// WaitForSpace blocks until ready reports true or the deadline passes.
	WaitForSpace(deadline time.Time, ready func() bool) bool
	// SpaceAvailable wakes producers after a consumer released slots.
	SpaceAvailable()
	// WaitForItem blocks until ready reports true or the deadline passes.
	WaitForItem(deadline time.Time, ready func() bool) bool
	// ItemAvailable wakes consumers after a producer published an item.
	ItemAvailable()
}

// NewNotifyBlocker returns a RingBlocker that parks goroutines on a channel
// which is closed and replaced on every notification. Notifications are
// free when nobody waits.
func NewNotifyBlocker() RingBlocker {
	return &notifyBlocker{
		space: newSignal(),
		items: newSignal(),
	}
}

type notifyBlocker struct {
	space *signal
	items *signal
}

func (b *notifyBlocker) WaitForSpace(deadline time.Time, ready func() bool) bool {
	return b.space.wait(deadline, ready)
}

func (b *notifyBlocker) SpaceAvailable() {
	b.space.notify()
}

func (b *notifyBlocker) WaitForItem(deadline time.Time, ready func() bool) bool {
	return b.items.wait(deadline, ready)
}

func (b *notifyBlocker) ItemAvailable() {
	b.items.notify()
}

type signal struct {
	waiters atomic.Int32
	mu      sync.Mutex
	ch      chan struct{}
}

func newSignal() *signal {
	return &signal{ch: make(chan struct{})}
}

func (s *signal) wait(deadline time.Time, ready func() bool) bool {
	s.waiters.Inc()
	defer s.waiters.Dec()

	for {
		s.mu.Lock()
		ch := s.ch
		s.mu.Unlock()

		if ready() {
			return true
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}

		timer := time.NewTimer(remaining)
		select {
		case <-ch:
			timer.Stop()
		case <-timer.C:
			return ready()
		}
	}
}

func (s *signal) notify() {
	if s.waiters.Load() == 0 {
		return
	}
	s.mu.Lock()
	close(s.ch)
	s.ch = make(chan struct{})
	s.mu.Unlock()
}

// NewSpinBlocker returns a RingBlocker that yields the processor while it
// polls ready. It suits very short waits on dedicated cores.
func NewSpinBlocker() RingBlocker {
	return spinBlocker{}
}

type spinBlocker struct{}

func (spinBlocker) WaitForSpace(deadline time.Time, ready func() bool) bool {
	return spin(deadline, ready)
}

func (spinBlocker) SpaceAvailable() {}

func (spinBlocker) WaitForItem(deadline time.Time, ready func() bool) bool {
	return spin(deadline, ready)
}

func (spinBlocker) ItemAvailable() {}

func spin(deadline time.Time, ready func() bool) bool {
	for spins := 0; ; spins++ {
		if ready() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		if spins < 64 {
			runtime.Gosched()
			continue
		}
		time.Sleep(50 * time.Microsecond)
	}
}
