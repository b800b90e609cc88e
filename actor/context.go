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

	"github.com/tochemey/disruptor/errors"
	"github.com/tochemey/disruptor/log"
)

// Context is handed to a method invocation. It is only valid during the call.
type Context struct {
	ctx       context.Context
	actor     *actorCell
	message   *Message
	outbox    *outbox
	replaying bool
}

func newContext(a *actorCell, m *Message, out *outbox, replaying bool) *Context {
	ctx := m.ctx
	if ctx == nil {
		ctx = a.ctx
	}
	return &Context{
		ctx:       ctx,
		actor:     a,
		message:   m,
		outbox:    out,
		replaying: replaying,
	}
}

// Context returns the context of the caller
func (c *Context) Context() context.Context {
	return c.ctx
}

// Self returns the reference of the running actor
func (c *Context) Self() *Ref {
	return c.actor.ref
}

// Method returns the invoked method
func (c *Context) Method() string {
	return c.message.method
}

// Args returns the method arguments
func (c *Context) Args() []any {
	return c.message.args
}

// Arg returns the argument at index, nil when there is none.
//
// While replaying from a durable journal, numeric arguments are int64 or
// float64 regardless of the type they were sent with.
func (c *Context) Arg(index int) any {
	if index < 0 || index >= len(c.message.args) {
		return nil
	}
	return c.message.args[index]
}

// Headers returns the message headers
func (c *Context) Headers() map[string]string {
	return c.message.headers
}

// Sequence returns the message sequence number. While replaying it is the
// journal sequence of the entry.
func (c *Context) Sequence() uint64 {
	return c.message.sequence
}

// Replaying reports whether the call replays a journal entry
func (c *Context) Replaying() bool {
	return c.replaying
}

// Logger returns the actor logger
func (c *Context) Logger() log.Logger {
	return c.actor.logger
}

// Modify marks the actor state as modified. A modified actor is saved during
// the next save round.
func (c *Context) Modify() {
	c.actor.modify()
}

// Next emits a stream item. It returns false when the caller no longer
// wants items or the call is not a stream.
func (c *Context) Next(item any) bool {
	if c.message.onItem == nil {
		return false
	}
	return c.message.onItem(item)
}

// Send sends a message to another actor through the outbox of the running
// worker. The message is offered at the latest when the batch ends, so a
// full target is reported to the target's QueueFullHandler rather than to
// the caller. Sends are suppressed while replaying.
func (c *Context) Send(to *Ref, method string, args ...any) error {
	return c.SendWithHeaders(to, nil, method, args...)
}

// SendWithHeaders is Send with message headers
func (c *Context) SendWithHeaders(to *Ref, headers map[string]string, method string, args ...any) error {
	if c.replaying {
		return nil
	}
	if to == nil {
		return fmt.Errorf("%w: no target for %s", errors.ErrActorNotFound, method)
	}

	target := to.actor
	if target.svc.IsClosed() || target.state().IsTerminal() {
		return nil
	}

	m := newMessage(context.WithoutCancel(c.ctx), kindSend, method, headers, args)
	if c.outbox == nil {
		return target.submit(m, target.offerTimeout)
	}
	m.sequence = target.sequence.Inc()
	return c.outbox.Offer(inbox{actor: target}, m)
}

// Stop destroys the running actor once the current message is processed
func (c *Context) Stop() {
	c.actor.manager.killAsync(c.actor.name)
}
