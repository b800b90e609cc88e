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

// Package journal is the durable, append-only log replayed by actors when
// they start. A Store hands out one Journal per actor name.
package journal

import (
	"context"
	"iter"
	"time"
)

// Entry is one journaled message.
type Entry struct {
	// Sequence is assigned by the journal on Append, starting at 1
	Sequence uint64 `cbor:"1,keyasint"`
	// Actor is the name of the journaled actor
	Actor string `cbor:"2,keyasint"`
	// Method is the invoked method
	Method string `cbor:"3,keyasint"`
	// Args are the method arguments. A durable store returns them as decoded
	// values: integers come back as int64 and floats as float64, whatever
	// their type when appended.
	Args []any `cbor:"4,keyasint,omitempty"`
	// Headers are the message headers
	Headers map[string]string `cbor:"5,keyasint,omitempty"`
	// Timestamp is the time the message was journaled
	Timestamp time.Time `cbor:"6,keyasint"`
}

// Journal is the log of one actor.
//
// Entries up to a checkpoint are covered by the actor's saved state and
// are no longer replayed.
type Journal interface {
	// Append stores entries atomically, assigning their sequence numbers
	Append(ctx context.Context, entries ...*Entry) error
	// Replay yields the entries after the last checkpoint in sequence order
	Replay(ctx context.Context) iter.Seq2[*Entry, error]
	// Len returns the number of entries after the last checkpoint
	Len(ctx context.Context) (int, error)
	// LastSequence returns the sequence of the last appended entry, 0 when none
	LastSequence(ctx context.Context) (uint64, error)
	// Checkpoint discards the entries whose sequence is at most sequence
	Checkpoint(ctx context.Context, sequence uint64) error
	// Close releases the journal. The store remains usable.
	Close() error
}

// Store opens journals
type Store interface {
	// Journal opens, creating it when needed, the journal of the named actor
	Journal(name string) (Journal, error)
	// Close releases every journal and the underlying storage
	Close() error
}

func contextErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
