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
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	"github.com/tochemey/disruptor/disruptor"
	"github.com/tochemey/disruptor/journal"
	"github.com/tochemey/disruptor/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ledger records the calls it receives
type ledger struct {
	mu       sync.Mutex
	calls    []string
	replayed []string
	gate     chan struct{}
	started  chan struct{}
	counter  atomic.Int64
}

func newLedger() *ledger {
	return &ledger{}
}

func (l *ledger) Methods() Methods {
	return Methods{
		"record": func(ctx *Context) (any, error) {
			value := fmt.Sprint(ctx.Arg(0))
			l.mu.Lock()
			defer l.mu.Unlock()
			l.calls = append(l.calls, value)
			if ctx.Replaying() {
				l.replayed = append(l.replayed, value)
			}
			return len(l.calls), nil
		},
		"modify": func(ctx *Context) (any, error) {
			ctx.Modify()
			l.mu.Lock()
			defer l.mu.Unlock()
			l.calls = append(l.calls, fmt.Sprint(ctx.Arg(0)))
			return nil, nil
		},
		"count": func(*Context) (any, error) {
			l.mu.Lock()
			defer l.mu.Unlock()
			return len(l.calls), nil
		},
		"echo": func(ctx *Context) (any, error) {
			return ctx.Arg(0), nil
		},
		"header": func(ctx *Context) (any, error) {
			return ctx.Headers()[fmt.Sprint(ctx.Arg(0))], nil
		},
		"fail": func(*Context) (any, error) {
			return nil, fmt.Errorf("failed on purpose")
		},
		"panic": func(*Context) (any, error) {
			panic("boom")
		},
		"stream": func(ctx *Context) (any, error) {
			for i := range ctx.Arg(0).(int) {
				if !ctx.Next(i) {
					break
				}
			}
			return nil, nil
		},
		"forward": func(ctx *Context) (any, error) {
			return nil, ctx.Send(ctx.Arg(0).(*Ref), "record", ctx.Arg(1))
		},
		"block": func(*Context) (any, error) {
			close(l.started)
			<-l.gate
			return nil, nil
		},
		"incr": func(*Context) (any, error) {
			return l.counter.Inc(), nil
		},
		"total": func(*Context) (any, error) {
			return l.counter.Load(), nil
		},
		"stop": func(ctx *Context) (any, error) {
			ctx.Stop()
			return nil, nil
		},
		"sequence": func(ctx *Context) (any, error) {
			return ctx.Sequence(), nil
		},
	}
}

func (l *ledger) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.calls)
}

func (l *ledger) Replayed() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.replayed)
}

// lifecycleLedger is a ledger implementing every lifecycle hook. A nil hook
// function completes synchronously.
type lifecycleLedger struct {
	*ledger
	hooksMu   sync.Mutex
	hooks     []string
	onInit    func(done Completion)
	onLoad    func(done Completion)
	onActive  func(done Completion)
	onSave    func(done Completion)
	destroyed atomic.Bool
}

var (
	_ Initializer = (*lifecycleLedger)(nil)
	_ Loader      = (*lifecycleLedger)(nil)
	_ Activator   = (*lifecycleLedger)(nil)
	_ Saver       = (*lifecycleLedger)(nil)
	_ Destroyer   = (*lifecycleLedger)(nil)
)

func newLifecycleLedger() *lifecycleLedger {
	return &lifecycleLedger{ledger: newLedger()}
}

func (l *lifecycleLedger) run(name string, fn func(done Completion), done Completion) {
	l.hooksMu.Lock()
	l.hooks = append(l.hooks, name)
	l.hooksMu.Unlock()
	if fn == nil {
		done.Complete()
		return
	}
	fn(done)
}

func (l *lifecycleLedger) OnInit(_ context.Context, done Completion) {
	l.run("init", l.onInit, done)
}

func (l *lifecycleLedger) OnLoad(_ context.Context, done Completion) {
	l.run("load", l.onLoad, done)
}

func (l *lifecycleLedger) OnActive(_ context.Context, done Completion) {
	l.run("active", l.onActive, done)
}

func (l *lifecycleLedger) OnSaveStart(_ context.Context, done Completion) {
	l.run("save", l.onSave, done)
}

func (l *lifecycleLedger) OnDestroy(context.Context) error {
	l.destroyed.Store(true)
	return nil
}

func (l *lifecycleLedger) Hooks() []string {
	l.hooksMu.Lock()
	defer l.hooksMu.Unlock()
	return slices.Clone(l.hooks)
}

// replayer applies journal entries itself
type replayer struct {
	*ledger
	entries []*journal.Entry
}

func (r *replayer) OnReplay(ctx *Context, entry *journal.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *replayer) Entries() []*journal.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.entries)
}

// gated returns a hook completing once the returned channel is closed
func gated() (func(done Completion), chan struct{}) {
	gate := make(chan struct{})
	return func(done Completion) {
		go func() {
			<-gate
			done.Complete()
		}()
	}, gate
}

// delayed returns a hook completing after delay
func delayed(delay time.Duration) func(done Completion) {
	return func(done Completion) {
		time.AfterFunc(delay, done.Complete)
	}
}

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{WithLogger(log.DiscardLogger)}, opts...)
	manager, err := NewManager("test", opts...)
	require.NoError(t, err)
	require.NoError(t, manager.Start(context.Background()))
	t.Cleanup(func() {
		_ = manager.Stop(context.Background(), disruptor.Immediate)
	})
	return manager
}

func eventually(t *testing.T, condition func() bool) {
	t.Helper()
	require.Eventually(t, condition, 2*time.Second, 5*time.Millisecond)
}
