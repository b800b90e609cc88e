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

package counter

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/disruptor/errors"
)

func TestCounter(t *testing.T) {
	c := NewCounter(3)
	require.EqualValues(t, 3, c.Get())
	require.True(t, c.CompareAndSet(3, 5))
	require.False(t, c.CompareAndSet(3, 6))
	require.EqualValues(t, 6, c.Add(1))
	c.Set(10)
	require.EqualValues(t, 10, c.Get())
}

func TestBuild(t *testing.T) {
	t.Run("With single", func(t *testing.T) {
		group, err := Build(Single())
		require.NoError(t, err)
		require.True(t, group.IsSingle())
		require.Equal(t, 2, group.Size())

		segments := group.Segments()
		require.Len(t, segments, 1)
		assert.Equal(t, 0, segments[0].HeadIndex())
		assert.Equal(t, 1, segments[0].TailIndex())
		assert.True(t, segments[0].Terminal())
		assert.Same(t, group.Counter(1), group.Tail())
	})
	t.Run("With atomic chain", func(t *testing.T) {
		group, err := Build(Atomic(3))
		require.NoError(t, err)
		require.False(t, group.IsSingle())

		segments := group.Segments()
		require.Len(t, segments, 3)
		for i, segment := range segments {
			assert.Equal(t, i, segment.HeadIndex())
			assert.Equal(t, i+1, segment.TailIndex())
			assert.Equal(t, i == 2, segment.Terminal())
		}
		assert.Equal(t, []int{1}, segments[0].Downstream())
		assert.Equal(t, []int{2}, segments[1].Downstream())
		assert.Empty(t, segments[2].Downstream())
	})
	t.Run("With chain of multi worker and atomic", func(t *testing.T) {
		group, err := Build(Chain(MultiWorker(4), Atomic(1)))
		require.NoError(t, err)

		segments := group.Segments()
		require.Len(t, segments, 2)
		assert.Equal(t, 4, segments[0].Workers())
		_, ok := group.Counter(segments[0].TailIndex()).(*MultiTail)
		assert.True(t, ok)
		assert.Equal(t, segments[0].TailIndex(), segments[1].HeadIndex())
	})
	t.Run("With parallel join", func(t *testing.T) {
		group, err := Build(Chain(Parallel(Single(), Single()), Single()))
		require.NoError(t, err)

		segments := group.Segments()
		require.Len(t, segments, 3)
		assert.Equal(t, 0, segments[0].HeadIndex())
		assert.Equal(t, 0, segments[1].HeadIndex())
		assert.Equal(t, []int{2}, segments[0].Downstream())
		assert.Equal(t, []int{2}, segments[1].Downstream())

		left := group.Counter(segments[0].TailIndex()).(*Counter)
		right := group.Counter(segments[1].TailIndex()).(*Counter)
		joined := group.Counter(segments[2].HeadIndex())
		left.Set(5)
		right.Set(3)
		assert.EqualValues(t, 3, joined.Get())
		right.Set(7)
		assert.EqualValues(t, 5, joined.Get())
	})
	t.Run("With invalid topologies", func(t *testing.T) {
		_, err := Build(nil)
		require.ErrorIs(t, err, errors.ErrInvalidConfig)
		_, err = Build(Atomic(0))
		require.ErrorIs(t, err, errors.ErrInvalidConfig)
		_, err = Build(MultiWorker(0))
		require.ErrorIs(t, err, errors.ErrInvalidConfig)
		_, err = Build(Chain())
		require.ErrorIs(t, err, errors.ErrInvalidConfig)
		_, err = Build(Parallel())
		require.ErrorIs(t, err, errors.ErrInvalidConfig)
	})
}

func TestMultiTail(t *testing.T) {
	t.Run("With out of order completion", func(t *testing.T) {
		head := NewCounter(4)
		tail := NewMultiTail(0)

		slots := make([]int64, 0, 4)
		for {
			slot, ok := tail.Allocate(head)
			if !ok {
				break
			}
			slots = append(slots, slot)
		}
		require.Equal(t, []int64{0, 1, 2, 3}, slots)
		require.EqualValues(t, 4, tail.Allocated())

		require.False(t, tail.Update(2))
		require.False(t, tail.Update(1))
		require.EqualValues(t, 0, tail.Get())
		require.Equal(t, 2, tail.Pending())

		require.True(t, tail.Update(0))
		require.EqualValues(t, 3, tail.Get())
		require.Zero(t, tail.Pending())

		require.True(t, tail.Update(3))
		require.EqualValues(t, 4, tail.Get())
	})
	t.Run("With racing workers the visible tail never passes completions", func(t *testing.T) {
		const total = 5000
		const workers = 8

		head := NewCounter(total)
		tail := NewMultiTail(0)

		var mu sync.Mutex
		done := make(map[int64]bool, total)

		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					slot, ok := tail.Allocate(head)
					if !ok {
						return
					}
					if rand.IntN(4) == 0 {
						// let another worker overtake this one
						for range rand.IntN(50) {
							_ = slot * 2
						}
					}
					mu.Lock()
					done[slot] = true
					visible := tail.Get()
					for i := int64(0); i < visible; i++ {
						if !done[i] {
							mu.Unlock()
							t.Errorf("visible tail %d passed incomplete slot %d", visible, i)
							return
						}
					}
					mu.Unlock()
					tail.Update(slot)
				}
			}()
		}
		wg.Wait()

		require.EqualValues(t, total, tail.Get())
		require.Len(t, done, total)
	})
}
