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
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/disruptor/errors"
	"github.com/tochemey/disruptor/internal/counter"
)

func TestRingQueue(t *testing.T) {
	t.Run("With FIFO order", func(t *testing.T) {
		ring, err := NewRing[int](8)
		require.NoError(t, err)
		require.Equal(t, 8, ring.Capacity())
		require.True(t, ring.IsEmpty())

		for i := range 8 {
			require.True(t, ring.Offer(i, 0))
		}
		require.Equal(t, 8, ring.Size())

		for i := range 8 {
			value, ok := ring.Poll(0)
			require.True(t, ok)
			require.Equal(t, i, value)
		}
		require.True(t, ring.IsEmpty())
		_, ok := ring.Poll(0)
		require.False(t, ok)
	})
	t.Run("With invalid capacity", func(t *testing.T) {
		for _, capacity := range []int{-4, 0, 1, 3, 6, 12, 1000} {
			ring, err := NewRing[int](capacity)
			require.Error(t, err)
			assert.Nil(t, ring)
			assert.ErrorIs(t, err, errors.ErrInvalidCapacity)
			assert.ErrorIs(t, err, errors.ErrInvalidConfig)
		}
		for _, capacity := range []int{2, 4, 1024} {
			require.NoError(t, ValidateCapacity(capacity))
		}
	})
	t.Run("With backpressure", func(t *testing.T) {
		ring, err := NewRing[int](4)
		require.NoError(t, err)
		for i := range 4 {
			require.True(t, ring.Offer(i, 0))
		}

		start := time.Now()
		require.False(t, ring.Offer(4, 50*time.Millisecond))
		require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
		require.Equal(t, 4, ring.Size())

		for i := range 4 {
			value, ok := ring.Poll(0)
			require.True(t, ok)
			require.Equal(t, i, value)
		}
		require.True(t, ring.IsEmpty())
	})
	t.Run("With blocked offer released by a poll", func(t *testing.T) {
		ring, err := NewRing[string](2)
		require.NoError(t, err)
		require.True(t, ring.Offer("a", 0))
		require.True(t, ring.Offer("b", 0))

		done := make(chan bool)
		go func() {
			done <- ring.Offer("c", time.Second)
		}()

		time.Sleep(20 * time.Millisecond)
		value, ok := ring.Poll(0)
		require.True(t, ok)
		require.Equal(t, "a", value)
		require.True(t, <-done)

		value, _ = ring.Poll(0)
		require.Equal(t, "b", value)
		value, _ = ring.Poll(0)
		require.Equal(t, "c", value)
	})
	t.Run("With blocked poll released by an offer", func(t *testing.T) {
		ring, err := NewRing[int](4, WithBlocker(NewSpinBlocker()))
		require.NoError(t, err)

		done := make(chan int)
		go func() {
			value, ok := ring.Poll(time.Second)
			if !ok {
				value = -1
			}
			done <- value
		}()

		time.Sleep(10 * time.Millisecond)
		require.True(t, ring.Offer(42, 0))
		require.Equal(t, 42, <-done)

		_, ok := ring.Poll(10 * time.Millisecond)
		require.False(t, ok)
	})
	t.Run("With capacity four end to end", func(t *testing.T) {
		ring, err := NewRing[string](4)
		require.NoError(t, err)

		for _, value := range []string{"A", "B", "C", "D"} {
			require.True(t, ring.Offer(value, 0))
		}
		require.False(t, ring.Offer("E", 0))

		value, ok := ring.Poll(0)
		require.True(t, ok)
		require.Equal(t, "A", value)

		require.True(t, ring.Offer("E", 0))

		var polled []string
		for range 4 {
			value, ok := ring.Poll(0)
			require.True(t, ok)
			polled = append(polled, value)
		}
		require.Equal(t, []string{"B", "C", "D", "E"}, polled)
	})
	t.Run("With concurrent producers and consumers", func(t *testing.T) {
		const producers = 4
		const perProducer = 2000

		ring, err := NewRing[int](64)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for p := range producers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range perProducer {
					for !ring.Offer(p*perProducer+i, time.Second) {
					}
				}
			}()
		}

		var mu sync.Mutex
		seen := make([]int, 0, producers*perProducer)
		var consumers sync.WaitGroup
		for range 2 {
			consumers.Add(1)
			go func() {
				defer consumers.Done()
				last := make(map[int]int)
				for {
					value, ok := ring.Poll(100 * time.Millisecond)
					if !ok {
						return
					}
					// values from one producer come out in order
					producer := value / perProducer
					if previous, found := last[producer]; found && previous > value {
						t.Errorf("producer %d reordered: %d after %d", producer, value, previous)
					}
					last[producer] = value
					mu.Lock()
					seen = append(seen, value)
					mu.Unlock()
				}
			}()
		}

		wg.Wait()
		consumers.Wait()

		require.Len(t, seen, producers*perProducer)
		sort.Ints(seen)
		for i, value := range seen {
			require.Equal(t, i, value)
		}
	})
	t.Run("With pipeline counters", func(t *testing.T) {
		group, err := counter.Build(counter.Single())
		require.NoError(t, err)

		ring, err := NewRing[int](4, WithCounters(group.Head(), group.Tail()))
		require.NoError(t, err)
		require.Same(t, group.Head(), ring.Head())

		for i := range 4 {
			require.True(t, ring.Offer(i, 0))
		}
		require.False(t, ring.Offer(4, 0))
		_, ok := ring.Poll(0)
		require.False(t, ok)

		tail := group.Counter(group.Segments()[0].TailIndex()).(*counter.Counter)
		for index := tail.Get(); index < ring.Head().Get(); index++ {
			require.EqualValues(t, index, ring.Get(index))
			ring.Clear(index)
		}
		tail.Set(ring.Head().Get())
		ring.SpaceAvailable()

		require.True(t, ring.IsEmpty())
		require.True(t, ring.Offer(4, 0))
		require.Equal(t, 4, ring.Get(4))
	})
}
