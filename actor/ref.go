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
	"time"

	"github.com/tochemey/disruptor/address"
	"github.com/tochemey/disruptor/future"
)

// Ref is the handle used to call an actor. It is safe for concurrent use.
type Ref struct {
	actor *actorCell
}

// Name returns the actor name
func (r *Ref) Name() string {
	return r.actor.name
}

// Address returns the actor address
func (r *Ref) Address() *address.Address {
	return r.actor.address
}

// State returns the current load state of the actor
func (r *Ref) State() StateTag {
	return r.actor.state()
}

// IsRunning reports whether the actor still accepts calls
func (r *Ref) IsRunning() bool {
	return !r.actor.svc.IsClosed() && !r.actor.state().IsTerminal()
}

// Equals reports whether both references target the same actor
func (r *Ref) Equals(other *Ref) bool {
	return other != nil && r.actor == other.actor
}

// String returns the actor address
func (r *Ref) String() string {
	return r.actor.address.String()
}

// Send invokes method without waiting for its outcome. A send to a destroyed
// actor has no effect.
func (r *Ref) Send(ctx context.Context, method string, args ...any) error {
	return r.Submit(ctx, nil, method, r.actor.offerTimeout, args...)
}

// Submit is Send with headers and an explicit offer timeout. When the queue
// stays full for timeout the queue full handler decides the outcome.
func (r *Ref) Submit(ctx context.Context, headers map[string]string, method string, timeout time.Duration, args ...any) error {
	m := newMessage(context.WithoutCancel(ctx), kindSend, method, headers, args)
	return r.actor.submit(m, timeout)
}

// Query invokes method and waits for its result
func (r *Ref) Query(ctx context.Context, method string, args ...any) (any, error) {
	return r.QueryWithHeaders(ctx, nil, method, args...)
}

// QueryWithHeaders is Query with message headers
func (r *Ref) QueryWithHeaders(ctx context.Context, headers map[string]string, method string, args ...any) (any, error) {
	promise := future.NewPromise[any]()
	m := newMessage(ctx, kindQuery, method, headers, args)
	m.reply = func(result any, err error) {
		promise.Complete(result, err)
	}
	if err := r.actor.submit(m, r.actor.offerTimeout); err != nil {
		return nil, err
	}
	return promise.Future().Await(ctx)
}

// QueryAsync invokes method and hands its outcome to callback together with
// id. The callback runs on the actor worker and must not block.
// When an error is returned the callback is never called.
func (r *Ref) QueryAsync(ctx context.Context, id int64, method string, callback func(id int64, result any, err error), args ...any) error {
	m := newMessage(ctx, kindQuery, method, nil, args)
	m.reply = func(result any, err error) {
		callback(id, result, err)
	}
	return r.actor.submit(m, r.actor.offerTimeout)
}

// Stream invokes method and hands every item it emits to onItem until the
// method returns. onItem runs on the actor worker. Returning false stops the
// stream.
func (r *Ref) Stream(ctx context.Context, method string, onItem func(item any) bool, args ...any) error {
	promise := future.NewPromise[any]()
	m := newMessage(ctx, kindStream, method, nil, args)
	m.onItem = func(item any) bool {
		if ctx.Err() != nil {
			return false
		}
		return onItem(item)
	}
	m.reply = func(_ any, err error) {
		promise.Complete(nil, err)
	}
	if err := r.actor.submit(m, r.actor.offerTimeout); err != nil {
		return err
	}
	_, err := promise.Future().Await(ctx)
	return err
}

// Pipe invokes method and sends its result to targetMethod of target.
// The returned future completes with the result once it has been forwarded.
func (r *Ref) Pipe(ctx context.Context, method string, target *Ref, targetMethod string, args ...any) future.Future[any] {
	if target == nil {
		return future.Completed[any](nil, fmt.Errorf("pipe of %s.%s has no target", r.Name(), method))
	}

	promise := future.NewPromise[any]()
	m := newMessage(ctx, kindPipe, method, nil, args)
	m.pipeTarget = target
	m.pipeMethod = targetMethod
	m.reply = func(result any, err error) {
		promise.Complete(result, err)
	}
	if err := r.actor.submit(m, r.actor.offerTimeout); err != nil {
		return future.Completed[any](nil, err)
	}
	return promise.Future()
}

// Query invokes method on ref and converts its result to T
func Query[T any](ctx context.Context, ref *Ref, method string, args ...any) (T, error) {
	var zero T
	result, err := ref.Query(ctx, method, args...)
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	value, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%s.%s returned %T, want %T", ref.Name(), method, result, zero)
	}
	return value, nil
}
