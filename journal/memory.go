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

package journal

import (
	"context"
	"iter"
	"slices"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/disruptor/errors"
	"github.com/tochemey/disruptor/internal/xsync"
)

// MemoryStore keeps journals in memory. Journals survive Close on the
// journal itself, so an actor spawned again under the same name replays
// what its previous incarnation appended.
type MemoryStore struct {
	journals *xsync.Map[string, *memoryJournal]
	closed   atomic.Bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{journals: xsync.NewMap[string, *memoryJournal]()}
}

// Journal returns the journal of the named actor
func (s *MemoryStore) Journal(name string) (Journal, error) {
	if s.closed.Load() {
		return nil, errors.ErrJournalClosed
	}
	if name == "" {
		return nil, errors.ErrEmptyName
	}
	journal, _, err := s.journals.GetOrSet(name, func() (*memoryJournal, error) {
		return &memoryJournal{name: name}, nil
	})
	return journal, err
}

// Close drops every journal
func (s *MemoryStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	for _, journal := range s.journals.Values() {
		journal.drop()
	}
	s.journals.Reset()
	return nil
}

type memoryJournal struct {
	name    string
	mu      sync.RWMutex
	entries []*Entry
	last    uint64
	dropped bool
}

var _ Journal = (*memoryJournal)(nil)

func (j *memoryJournal) Append(ctx context.Context, entries ...*Entry) error {
	if err := contextErr(ctx); err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.dropped {
		return errors.ErrJournalClosed
	}
	for _, entry := range entries {
		j.last++
		entry.Sequence = j.last
		if entry.Actor == "" {
			entry.Actor = j.name
		}
		if entry.Timestamp.IsZero() {
			entry.Timestamp = time.Now().UTC()
		}
		j.entries = append(j.entries, entry)
	}
	return nil
}

func (j *memoryJournal) Replay(ctx context.Context) iter.Seq2[*Entry, error] {
	return func(yield func(*Entry, error) bool) {
		j.mu.RLock()
		if j.dropped {
			j.mu.RUnlock()
			yield(nil, errors.ErrJournalClosed)
			return
		}
		entries := slices.Clone(j.entries)
		j.mu.RUnlock()

		for _, entry := range entries {
			if err := contextErr(ctx); err != nil {
				yield(nil, err)
				return
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

func (j *memoryJournal) Len(ctx context.Context) (int, error) {
	if err := contextErr(ctx); err != nil {
		return 0, err
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries), nil
}

func (j *memoryJournal) LastSequence(ctx context.Context) (uint64, error) {
	if err := contextErr(ctx); err != nil {
		return 0, err
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.last, nil
}

func (j *memoryJournal) Checkpoint(ctx context.Context, sequence uint64) error {
	if err := contextErr(ctx); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.dropped {
		return errors.ErrJournalClosed
	}
	index, _ := slices.BinarySearchFunc(j.entries, sequence+1, func(entry *Entry, target uint64) int {
		switch {
		case entry.Sequence < target:
			return -1
		case entry.Sequence > target:
			return 1
		default:
			return 0
		}
	})
	j.entries = slices.Clone(j.entries[index:])
	return nil
}

// Close is a no-op: the entries stay in the store
func (j *memoryJournal) Close() error {
	return nil
}

func (j *memoryJournal) drop() {
	j.mu.Lock()
	j.dropped = true
	j.entries = nil
	j.mu.Unlock()
}
