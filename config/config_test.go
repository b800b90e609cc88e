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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/disruptor/errors"
)

func TestActor(t *testing.T) {
	t.Run("With defaults", func(t *testing.T) {
		actor := DefaultActor()
		require.NoError(t, actor.Validate())
		assert.Equal(t, 10*time.Second, actor.OfferTimeout())
		assert.Zero(t, actor.JournalDelay())
		assert.Equal(t, FailHandler, actor.QueueFullHandler)
	})
	t.Run("With invalid values", func(t *testing.T) {
		actor := NewActor(
			WithQueueCapacity(100),
			WithMaxWorkers(0),
			WithQueueFullHandler("retry"),
			WithOfferTimeout(-time.Second))
		err := actor.Validate()
		require.ErrorIs(t, err, errors.ErrInvalidConfig)
		require.ErrorIs(t, err, errors.ErrInvalidCapacity)
		assert.Contains(t, err.Error(), "maxWorkers")
		assert.Contains(t, err.Error(), "queueFullHandler")
		assert.Contains(t, err.Error(), "offerTimeoutMillis")
	})
	t.Run("With initial size", func(t *testing.T) {
		require.NoError(t, NewActor(WithQueueCapacity(64), WithQueueInitialSize(8)).Validate())
		require.ErrorIs(t, NewActor(WithQueueCapacity(64), WithQueueInitialSize(6)).Validate(), errors.ErrInvalidCapacity)
		require.ErrorIs(t, NewActor(WithQueueCapacity(8), WithQueueInitialSize(64)).Validate(), errors.ErrInvalidConfig)
	})
}

func TestOptions(t *testing.T) {
	testCases := []struct {
		name     string
		option   Option
		expected Actor
	}{
		{name: "WithQueueCapacity", option: WithQueueCapacity(64), expected: Actor{QueueCapacity: 64}},
		{name: "WithQueueInitialSize", option: WithQueueInitialSize(8), expected: Actor{QueueInitialSize: 8}},
		{name: "WithOfferTimeout", option: WithOfferTimeout(2 * time.Second), expected: Actor{OfferTimeoutMillis: 2000}},
		{name: "WithQueueFullHandler", option: WithQueueFullHandler(DropHandler), expected: Actor{QueueFullHandler: DropHandler}},
		{name: "WithMaxWorkers", option: WithMaxWorkers(4), expected: Actor{MaxWorkers: 4}},
		{name: "WithPublic", option: WithPublic(true), expected: Actor{Public: true}},
		{name: "WithAutoStart", option: WithAutoStart(), expected: Actor{AutoStart: true}},
		{
			name:     "WithJournal",
			option:   WithJournal(10, 5*time.Millisecond),
			expected: Actor{Journal: true, JournalMaxCount: 10, JournalDelayMillis: 5},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var actor Actor
			tc.option.Apply(&actor)
			assert.Equal(t, tc.expected, actor)
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("With defaults and overrides", func(t *testing.T) {
		config, err := Parse([]byte(`
defaults:
  queueCapacity: 256
  offerTimeoutMillis: 500
actors:
  cart:
    journal: true
    journalMaxCount: 50
    journalDelayMillis: 5
  pricing:
    maxWorkers: 4
    queueFullHandler: drop
`))
		require.NoError(t, err)

		assert.Equal(t, 256, config.Defaults.QueueCapacity)
		assert.Equal(t, 500*time.Millisecond, config.Defaults.OfferTimeout())
		assert.Equal(t, 1, config.Defaults.MaxWorkers)

		cart := config.Actor("cart")
		assert.True(t, cart.Journal)
		assert.Equal(t, 50, cart.JournalMaxCount)
		assert.Equal(t, 5*time.Millisecond, cart.JournalDelay())
		// inherited from the defaults block
		assert.Equal(t, 256, cart.QueueCapacity)

		pricing := config.Actor("pricing")
		assert.Equal(t, 4, pricing.MaxWorkers)
		assert.Equal(t, DropHandler, pricing.QueueFullHandler)
		assert.False(t, pricing.Journal)

		assert.Equal(t, config.Defaults, config.Actor("unknown"))
	})
	t.Run("With empty document", func(t *testing.T) {
		config, err := Parse(nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultActor(), config.Defaults)
		assert.Empty(t, config.Actors)
	})
	t.Run("With unknown key", func(t *testing.T) {
		_, err := Parse([]byte("actors:\n  cart:\n    queueCapacty: 8\n"))
		require.ErrorIs(t, err, errors.ErrInvalidConfig)
	})
	t.Run("With invalid actor entry", func(t *testing.T) {
		_, err := Parse([]byte("actors:\n  cart:\n    queueCapacity: 12\n"))
		require.ErrorIs(t, err, errors.ErrInvalidCapacity)
		assert.Contains(t, err.Error(), "actors.cart")
	})
	t.Run("With invalid defaults", func(t *testing.T) {
		_, err := Parse([]byte("defaults:\n  maxWorkers: 0\n"))
		require.ErrorIs(t, err, errors.ErrInvalidConfig)
	})
	t.Run("With malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("defaults: [\n"))
		require.ErrorIs(t, err, errors.ErrInvalidConfig)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actors.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaults:\n  queueCapacity: 32\n"), 0o600))

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32, config.Defaults.QueueCapacity)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
