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
	"sync"
)

// Pending is the state of an actor waiting for a lifecycle hook.
//
// It queues every message arriving before the hook completes and is the
// Completion handed to the hook. An actor has at most one Pending.
type Pending struct {
	actor   *actorCell
	from    StateTag
	hook    hook
	next    StateTag
	trigger *Message
	queue   []*Message
	// resolved runs once the next state is installed, before any message is
	// redelivered
	resolved func(err error)

	mu        sync.Mutex
	invoking  bool
	completed bool
	err       error
}

var _ Completion = (*Pending)(nil)

func newPending(a *actorCell, from StateTag, name hook, next StateTag, trigger *Message, resolved func(error)) *Pending {
	return &Pending{
		actor:    a,
		from:     from,
		hook:     name,
		next:     next,
		trigger:  trigger,
		resolved: resolved,
	}
}

// Tag returns StatePending
func (p *Pending) Tag() StateTag {
	return StatePending
}

// Deliver queues the message until the transition completes
func (p *Pending) Deliver(m *Message) {
	p.queue = append(p.queue, m)
}

// Len returns the number of messages held, the trigger included
func (p *Pending) Len() int {
	if p.trigger != nil {
		return len(p.queue) + 1
	}
	return len(p.queue)
}

// Complete resolves the transition
func (p *Pending) Complete() {
	p.finish(nil)
}

// Fail resolves the transition. The error is logged.
func (p *Pending) Fail(err error) {
	p.finish(err)
}

func (p *Pending) finish(err error) {
	p.mu.Lock()
	if p.completed {
		p.mu.Unlock()
		return
	}
	p.completed = true
	p.err = err
	invoking := p.invoking
	p.mu.Unlock()

	// the hook completed synchronously: the invoker resolves once it returns
	if invoking {
		return
	}
	p.actor.offerInternal(&Message{kind: kindComplete, pending: p})
}

// begin marks the hook as running
func (p *Pending) begin() {
	p.mu.Lock()
	p.invoking = true
	p.mu.Unlock()
}

// end marks the hook as returned and reports whether it already completed
func (p *Pending) end() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invoking = false
	return p.completed
}

// messages returns the held messages in arrival order
func (p *Pending) messages() []*Message {
	if p.trigger == nil {
		return p.queue
	}
	return append([]*Message{p.trigger}, p.queue...)
}
