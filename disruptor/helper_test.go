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
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder is a Deliver keeping every event it saw.
type recorder struct {
	mu      sync.Mutex
	items   []int
	events  []string
	before  atomic.Int64
	after   atomic.Int64
	gate    chan struct{}
	started chan struct{}
	forward func(item int, outbox *Outbox[int]) error
}

func newRecorder() *recorder {
	return &recorder{}
}

func (r *recorder) Deliver(item int, outbox *Outbox[int]) error {
	if r.gate != nil && item == 0 {
		close(r.started)
		<-r.gate
	}
	r.mu.Lock()
	r.items = append(r.items, item)
	r.events = append(r.events, fmt.Sprintf("item:%d", item))
	r.mu.Unlock()
	if r.forward != nil {
		return r.forward(item, outbox)
	}
	return nil
}

func (r *recorder) BeforeBatch() {
	r.before.Inc()
}

func (r *recorder) AfterBatch() {
	r.after.Inc()
}

func (r *recorder) Shutdown(mode ShutdownMode) {
	r.mu.Lock()
	r.events = append(r.events, "shutdown:"+mode.String())
	r.mu.Unlock()
}

func (r *recorder) Items() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.items))
	copy(out, r.items)
	return out
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// fakeTarget records what an Outbox hands over.
type fakeTarget struct {
	mu      sync.Mutex
	offered []int
	inline  []int
	wakes   int
	full    bool
	runOne  bool
}

func (f *fakeTarget) Offer(item int, _ time.Duration) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return false
	}
	f.offered = append(f.offered, item)
	return true
}

func (f *fakeTarget) Wake() {
	f.mu.Lock()
	f.wakes++
	f.mu.Unlock()
}

func (f *fakeTarget) RunOne(item int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.runOne {
		return false
	}
	f.inline = append(f.inline, item)
	return true
}

func sequence(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
