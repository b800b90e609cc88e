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

type messageKind int

const (
	kindSend messageKind = iota
	kindQuery
	kindStream
	kindPipe
	// kindReplay carries a journal entry being replayed
	kindReplay
	// kindReplayEnd follows the last replayed entry
	kindReplayEnd
	// kindComplete resolves a pending transition
	kindComplete
	// kindSave asks a modified actor to save
	kindSave
	// kindStart initializes an auto started actor
	kindStart
)

func (k messageKind) String() string {
	switch k {
	case kindSend:
		return "send"
	case kindQuery:
		return "query"
	case kindStream:
		return "stream"
	case kindPipe:
		return "pipe"
	case kindReplay:
		return "replay"
	case kindReplayEnd:
		return "replay-end"
	case kindComplete:
		return "complete"
	case kindSave:
		return "save"
	case kindStart:
		return "start"
	default:
		return "unknown"
	}
}

// Message is a call travelling to an actor.
type Message struct {
	kind     messageKind
	ctx      context.Context
	method   string
	args     []any
	headers  map[string]string
	sequence uint64

	// reply completes queries, streams, pipes and save requests
	reply func(result any, err error)
	// onItem receives stream items
	onItem func(item any) bool
	// pipe destination
	pipeTarget *Ref
	pipeMethod string

	entry   *journal.Entry
	pending *Pending

	// mark is the number of entries journaled when the message went through
	// the journal stage
	mark uint64
	// force makes a save run even when the actor is not modified
	force bool
}

func newMessage(ctx context.Context, kind messageKind, method string, headers map[string]string, args []any) *Message {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Message{
		kind:    kind,
		ctx:     ctx,
		method:  method,
		args:    args,
		headers: headers,
	}
}

// Method returns the invoked method name
func (m *Message) Method() string {
	return m.method
}

// Args returns the method arguments
func (m *Message) Args() []any {
	return m.args
}

// Headers returns the message headers
func (m *Message) Headers() map[string]string {
	return m.headers
}

// Sequence returns the number assigned to the message when it was offered
func (m *Message) Sequence() uint64 {
	return m.sequence
}

// ExpectsReply reports whether a caller waits for the outcome of the message
func (m *Message) ExpectsReply() bool {
	return m.reply != nil
}

// isUser reports whether the message is a call from a producer
func (m *Message) isUser() bool {
	return m.kind <= kindPipe
}

func (m *Message) complete(result any, err error) {
	if m.reply != nil {
		m.reply(result, err)
	}
}
