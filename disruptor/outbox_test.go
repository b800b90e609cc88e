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

package disruptor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/disruptor/errors"
)

func TestOutbox(t *testing.T) {
	t.Run("With second offer flushing the first", func(t *testing.T) {
		target := &fakeTarget{}
		outbox := NewOutbox[int](time.Millisecond)
		require.True(t, outbox.IsEmpty())

		require.NoError(t, outbox.Offer(target, 1))
		assert.False(t, outbox.IsEmpty())
		assert.Empty(t, target.offered)

		require.NoError(t, outbox.Offer(target, 2))
		assert.Equal(t, []int{1}, target.offered)
		assert.Equal(t, 1, target.wakes)

		require.NoError(t, outbox.Flush())
		assert.Equal(t, []int{1, 2}, target.offered)
		assert.Equal(t, 2, target.wakes)
		assert.True(t, outbox.IsEmpty())

		// nothing buffered
		require.NoError(t, outbox.Flush())
		assert.Equal(t, 2, target.wakes)
	})
	t.Run("With different targets", func(t *testing.T) {
		first, second := &fakeTarget{}, &fakeTarget{}
		outbox := NewOutbox[int](time.Millisecond)
		require.NoError(t, outbox.Offer(first, 1))
		require.NoError(t, outbox.Offer(second, 2))
		require.NoError(t, outbox.Flush())
		assert.Equal(t, []int{1}, first.offered)
		assert.Equal(t, []int{2}, second.offered)
	})
	t.Run("With full target", func(t *testing.T) {
		target := &fakeTarget{full: true}
		outbox := NewOutbox[int](time.Millisecond)
		require.NoError(t, outbox.Offer(target, 1))
		err := outbox.Offer(target, 2)
		require.ErrorIs(t, err, errors.ErrQueueFull)
		// the new item still took the slot
		assert.False(t, outbox.IsEmpty())
		require.ErrorIs(t, outbox.Flush(), errors.ErrQueueFull)
		assert.Zero(t, target.wakes)
	})
	t.Run("With inline execution of the last item", func(t *testing.T) {
		target := &fakeTarget{runOne: true}
		outbox := NewOutbox[int](time.Millisecond)
		require.NoError(t, outbox.Offer(target, 1))
		require.NoError(t, outbox.Offer(target, 2))
		require.NoError(t, outbox.FlushAndExecuteLast())
		assert.Equal(t, []int{1}, target.offered)
		assert.Equal(t, []int{2}, target.inline)
	})
	t.Run("With inline execution refused", func(t *testing.T) {
		target := &fakeTarget{}
		outbox := NewOutbox[int](time.Millisecond)
		require.NoError(t, outbox.Offer(target, 1))
		require.NoError(t, outbox.FlushAndExecuteLast())
		assert.Equal(t, []int{1}, target.offered)
		assert.Equal(t, 1, target.wakes)
		assert.Empty(t, target.inline)
	})
	t.Run("With close", func(t *testing.T) {
		target := &fakeTarget{}
		outbox := NewOutbox[int](time.Millisecond)
		require.NoError(t, outbox.Offer(target, 1))
		require.NoError(t, outbox.Close())
		assert.Equal(t, []int{1}, target.offered)
		require.ErrorIs(t, outbox.Offer(target, 2), errors.ErrServiceClosed)
		require.NoError(t, outbox.Close())
	})
}
