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

package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/disruptor/errors"
)

func TestResizingRing(t *testing.T) {
	t.Run("With invalid capacities", func(t *testing.T) {
		_, err := NewResizingRing[int](3, 16)
		require.ErrorIs(t, err, errors.ErrInvalidCapacity)
		_, err = NewResizingRing[int](4, 17)
		require.ErrorIs(t, err, errors.ErrInvalidCapacity)
		_, err = NewResizingRing[int](16, 4)
		require.ErrorIs(t, err, errors.ErrInvalidConfig)
	})
	t.Run("With growth preserving order", func(t *testing.T) {
		ring, err := NewResizingRing[int](4, 256)
		require.NoError(t, err)
		require.Equal(t, 4, ring.Capacity())
		require.Equal(t, 256, ring.MaxCapacity())

		for i := range 100 {
			require.True(t, ring.Offer(i, 0), "offer %d", i)
		}
		require.Equal(t, 100, ring.Size())
		require.Greater(t, ring.Capacity(), 4)
		require.LessOrEqual(t, ring.Capacity(), 256)

		for i := range 100 {
			value, ok := ring.Poll(0)
			require.True(t, ok)
			require.Equal(t, i, value)
		}
		require.True(t, ring.IsEmpty())
	})
	t.Run("With growth interleaved with polls", func(t *testing.T) {
		ring, err := NewResizingRing[int](2, 64)
		require.NoError(t, err)

		next := 0
		for i := range 60 {
			require.True(t, ring.Offer(i, 0))
			if i%3 == 0 {
				value, ok := ring.Poll(0)
				require.True(t, ok)
				require.Equal(t, next, value)
				next++
			}
		}
		for {
			value, ok := ring.Poll(0)
			if !ok {
				break
			}
			require.Equal(t, next, value)
			next++
		}
		require.Equal(t, 60, next)
	})
	t.Run("With maximum capacity reached", func(t *testing.T) {
		ring, err := NewResizingRing[int](2, 8)
		require.NoError(t, err)
		stored := 0
		for ring.Offer(stored, 0) {
			stored++
			require.Less(t, stored, 100)
		}
		// the retired ring still holds the items written before growth
		require.GreaterOrEqual(t, stored, 8)
		require.Equal(t, 8, ring.Capacity())
		assert.False(t, ring.Offer(stored, 20*time.Millisecond))
		require.Equal(t, stored, ring.Size())
	})
	t.Run("With concurrent growth delivers every item once in order", func(t *testing.T) {
		const total = 5000
		ring, err := NewResizingRing[int](4, 1024)
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range total {
				for !ring.Offer(i, time.Second) {
				}
			}
		}()

		received := make([]int, 0, total)
		for len(received) < total {
			value, ok := ring.Poll(time.Second)
			require.True(t, ok)
			received = append(received, value)
		}
		wg.Wait()

		for i, value := range received {
			require.Equal(t, i, value)
		}
		require.True(t, ring.IsEmpty())
	})
}
