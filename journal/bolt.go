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
	"encoding/binary"
	"fmt"
	"iter"
	"os"
	"reflect"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/fxamacker/cbor/v2"
	bbolt "go.etcd.io/bbolt"
	"go.uber.org/atomic"

	"github.com/tochemey/disruptor/errors"
	"github.com/tochemey/disruptor/log"
)

const (
	boltFileMode os.FileMode = 0o600
	// replayPage bounds the entries read per read transaction, so replay
	// never holds a transaction while the actor processes entries
	replayPage = 256
)

var (
	cborEncOpts = cbor.EncOptions{
		Sort:        cbor.SortNone,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}
	cborDecOpts = cbor.DecOptions{
		MaxNestedLevels: 64,
		IndefLength:     cbor.IndefLengthForbidden,
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		IntDec:          cbor.IntDecConvertSigned,
	}
)

// BoltOption configures a BoltStore
type BoltOption func(*boltConfig)

type boltConfig struct {
	openTimeout time.Duration
	openRetries int
	logger      log.Logger
}

// WithOpenTimeout bounds each attempt at acquiring the database file lock
func WithOpenTimeout(timeout time.Duration) BoltOption {
	return func(c *boltConfig) {
		c.openTimeout = timeout
	}
}

// WithOpenRetries sets how many times opening the database is attempted
func WithOpenRetries(retries int) BoltOption {
	return func(c *boltConfig) {
		c.openRetries = retries
	}
}

// WithBoltLogger sets the logger
func WithBoltLogger(logger log.Logger) BoltOption {
	return func(c *boltConfig) {
		c.logger = logger
	}
}

// BoltStore keeps journals in a bbolt database: one bucket per actor, keyed
// by the big-endian sequence so that cursor order is sequence order, with
// CBOR encoded entries.
type BoltStore struct {
	db      *bbolt.DB
	encMode cbor.EncMode
	decMode cbor.DecMode
	logger  log.Logger
	closed  atomic.Bool
}

var _ Store = (*BoltStore)(nil)

// NewBoltStore opens, or creates, the database at path. Opening is retried
// while another process holds the file lock.
func NewBoltStore(path string, opts ...BoltOption) (*BoltStore, error) {
	config := &boltConfig{
		openTimeout: time.Second,
		openRetries: 3,
		logger:      log.DefaultLogger,
	}
	for _, opt := range opts {
		opt(config)
	}

	encMode, err := cborEncOpts.EncMode()
	if err != nil {
		return nil, err
	}
	decMode, err := cborDecOpts.DecMode()
	if err != nil {
		return nil, err
	}

	var db *bbolt.DB
	retrier := retry.NewRetrier(max(config.openRetries, 1), 100*time.Millisecond, time.Second)
	if err := retrier.Run(func() error {
		var openErr error
		db, openErr = bbolt.Open(path, boltFileMode, &bbolt.Options{Timeout: config.openTimeout, NoGrowSync: true})
		if openErr != nil {
			config.logger.Warnf("journal: failed to open %s: %v", path, openErr)
		}
		return openErr
	}); err != nil {
		return nil, fmt.Errorf("journal: opening boltdb: %w", err)
	}

	return &BoltStore{
		db:      db,
		encMode: encMode,
		decMode: decMode,
		logger:  config.logger,
	}, nil
}

// Journal returns the journal of the named actor, creating its bucket
func (s *BoltStore) Journal(name string) (Journal, error) {
	if s.closed.Load() {
		return nil, errors.ErrJournalClosed
	}
	if name == "" {
		return nil, errors.ErrEmptyName
	}

	bucket := []byte(name)
	if err := s.db.Update(func(tx *bbolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(bucket)
		return e
	}); err != nil {
		return nil, fmt.Errorf("journal: initializing bucket %q: %w", name, err)
	}
	return &boltJournal{store: s, name: name, bucket: bucket}, nil
}

// Close closes the database. The file is kept.
func (s *BoltStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

type boltJournal struct {
	store  *BoltStore
	name   string
	bucket []byte
	closed atomic.Bool
}

var _ Journal = (*boltJournal)(nil)

func (j *boltJournal) ensureOpen(ctx context.Context) error {
	if j.closed.Load() || j.store.closed.Load() {
		return errors.ErrJournalClosed
	}
	return contextErr(ctx)
}

func (j *boltJournal) Append(ctx context.Context, entries ...*Entry) error {
	if err := j.ensureOpen(ctx); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	return j.store.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(j.bucket)
		if bucket == nil {
			return fmt.Errorf("journal: bucket %q missing", j.name)
		}
		for _, entry := range entries {
			sequence, err := bucket.NextSequence()
			if err != nil {
				return err
			}
			entry.Sequence = sequence
			if entry.Actor == "" {
				entry.Actor = j.name
			}
			if entry.Timestamp.IsZero() {
				entry.Timestamp = time.Now().UTC()
			}

			data, err := j.store.encMode.Marshal(entry)
			if err != nil {
				return fmt.Errorf("journal: encoding entry %d: %w", sequence, err)
			}
			if err := bucket.Put(sequenceKey(sequence), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (j *boltJournal) Replay(ctx context.Context) iter.Seq2[*Entry, error] {
	return func(yield func(*Entry, error) bool) {
		var from []byte
		for {
			if err := j.ensureOpen(ctx); err != nil {
				yield(nil, err)
				return
			}

			page, next, err := j.page(from)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, entry := range page {
				if !yield(entry, nil) {
					return
				}
			}
			if next == nil {
				return
			}
			from = next
		}
	}
}

// page reads up to replayPage entries starting at from. next is the key to
// resume from, nil at the end of the bucket.
func (j *boltJournal) page(from []byte) (entries []*Entry, next []byte, err error) {
	err = j.store.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(j.bucket)
		if bucket == nil {
			return fmt.Errorf("journal: bucket %q missing", j.name)
		}

		cursor := bucket.Cursor()
		var key, value []byte
		if from == nil {
			key, value = cursor.First()
		} else {
			key, value = cursor.Seek(from)
		}

		for ; key != nil; key, value = cursor.Next() {
			if len(entries) == replayPage {
				next = append([]byte(nil), key...)
				return nil
			}
			entry := new(Entry)
			if err := j.store.decMode.Unmarshal(value, entry); err != nil {
				return fmt.Errorf("journal: decoding entry %d: %w", binary.BigEndian.Uint64(key), err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	return entries, next, err
}

func (j *boltJournal) Len(ctx context.Context) (int, error) {
	if err := j.ensureOpen(ctx); err != nil {
		return 0, err
	}
	var count int
	err := j.store.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(j.bucket)
		if bucket == nil {
			return fmt.Errorf("journal: bucket %q missing", j.name)
		}
		count = bucket.Stats().KeyN
		return nil
	})
	return count, err
}

func (j *boltJournal) LastSequence(ctx context.Context) (uint64, error) {
	if err := j.ensureOpen(ctx); err != nil {
		return 0, err
	}
	var sequence uint64
	err := j.store.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(j.bucket)
		if bucket == nil {
			return fmt.Errorf("journal: bucket %q missing", j.name)
		}
		sequence = bucket.Sequence()
		return nil
	})
	return sequence, err
}

func (j *boltJournal) Checkpoint(ctx context.Context, sequence uint64) error {
	if err := j.ensureOpen(ctx); err != nil {
		return err
	}
	return j.store.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(j.bucket)
		if bucket == nil {
			return fmt.Errorf("journal: bucket %q missing", j.name)
		}
		cursor := bucket.Cursor()
		for key, _ := cursor.First(); key != nil && binary.BigEndian.Uint64(key) <= sequence; key, _ = cursor.First() {
			if err := cursor.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
}

func (j *boltJournal) Close() error {
	j.closed.Store(true)
	return nil
}

func sequenceKey(sequence uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, sequence)
	return key
}
