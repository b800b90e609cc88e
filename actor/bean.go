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

	"github.com/tochemey/disruptor/journal"
)

// Method is a business method exposed by a Bean. The returned value is the
// reply of queries and pipes. It is ignored for sends.
type Method func(ctx *Context) (any, error)

// Methods maps method names to their implementation
type Methods map[string]Method

// Bean is the business logic hosted by an actor.
//
// Methods run on one goroutine at a time unless the actor is configured
// with more than one worker.
type Bean interface {
	// Methods returns the methods the actor exposes. It is read once at spawn.
	Methods() Methods
}

// Completion resolves an asynchronous lifecycle hook.
// Only the first call to Complete or Fail has an effect. Either may be called
// from any goroutine, including from within the hook itself.
type Completion interface {
	// Complete resolves the hook successfully
	Complete()
	// Fail resolves the hook with an error. The error is logged and the
	// transition still completes.
	Fail(err error)
}

// Initializer is implemented by beans that need an asynchronous
// initialization before their first message
type Initializer interface {
	OnInit(ctx context.Context, done Completion)
}

// Loader is implemented by beans that load their state after initialization
type Loader interface {
	OnLoad(ctx context.Context, done Completion)
}

// Activator is implemented by beans that need to be notified when
// the journal replay is over
type Activator interface {
	OnActive(ctx context.Context, done Completion)
}

// Saver is implemented by beans that persist their state when modified
type Saver interface {
	OnSaveStart(ctx context.Context, done Completion)
}

// Replayer is implemented by beans that apply journal entries themselves
// instead of having the journaled method invoked again.
type Replayer interface {
	OnReplay(ctx *Context, entry *journal.Entry) error
}

// Destroyer is implemented by beans that release resources when the actor
// is destroyed. The actor is already unreachable when it is called.
type Destroyer interface {
	OnDestroy(ctx context.Context) error
}

// BatchAware is implemented by beans that buffer side effects across a batch
// of messages
type BatchAware interface {
	BeforeBatch()
	AfterBatch()
}

// hook names a lifecycle callback
type hook string

const (
	hookInit   hook = "OnInit"
	hookLoad   hook = "OnLoad"
	hookActive hook = "OnActive"
	hookSave   hook = "OnSaveStart"
)

// lifecycle returns the bean's implementation of the given hook, nil when the
// bean does not implement it
func lifecycle(bean Bean, name hook) func(ctx context.Context, done Completion) {
	switch name {
	case hookInit:
		if x, ok := bean.(Initializer); ok {
			return x.OnInit
		}
	case hookLoad:
		if x, ok := bean.(Loader); ok {
			return x.OnLoad
		}
	case hookActive:
		if x, ok := bean.(Activator); ok {
			return x.OnActive
		}
	case hookSave:
		if x, ok := bean.(Saver); ok {
			return x.OnSaveStart
		}
	}
	return nil
}
