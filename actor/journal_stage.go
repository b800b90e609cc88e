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

	"github.com/tochemey/disruptor/disruptor"
	"github.com/tochemey/disruptor/journal"
)

// journalStage records sends and queries before the actor stage sees them
type journalStage struct {
	actor *actorCell
}

var _ disruptor.Deliver[*Message] = (*journalStage)(nil)

func (s *journalStage) Deliver(m *Message, _ *outbox) error {
	a := s.actor
	switch m.kind {
	case kindSend, kindQuery:
		if a.state().IsTerminal() {
			return nil
		}
		entry := &journal.Entry{
			Actor:     a.name,
			Method:    m.method,
			Args:      m.args,
			Headers:   m.headers,
			Timestamp: time.Now().UTC(),
		}
		if err := a.writer.Append(a.ctx, entry); err != nil {
			return fmt.Errorf("failed to journal %s.%s: %w", a.name, m.method, err)
		}
		a.lastEntry.Store(entry)
		count := a.journaled.Inc()
		s.maybeRequestSave(count)
	case kindSave:
		m.mark = a.journaled.Load()
		m.entry = a.lastEntry.Load()
	}
	return nil
}

// maybeRequestSave asks for a save once journalMaxCount entries were written
// since the last checkpoint
func (s *journalStage) maybeRequestSave(count uint64) {
	a := s.actor
	limit := a.config.JournalMaxCount
	if limit <= 0 || count-a.checkpointed.Load() < uint64(limit) {
		return
	}
	if !a.saveRequested.CompareAndSwap(false, true) {
		return
	}

	save := &Message{kind: kindSave, force: true}
	// the worker of this stage is running: no wake is needed
	if !a.svc.Offer(save, 0) {
		a.saveRequested.Store(false)
	}
}

func (s *journalStage) BeforeBatch() {}

func (s *journalStage) AfterBatch() {}

// Shutdown flushes the buffered entries
func (s *journalStage) Shutdown(disruptor.ShutdownMode) {
	a := s.actor
	a.closeErr = a.writer.Close(context.Background())
}
