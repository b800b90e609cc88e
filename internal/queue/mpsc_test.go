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

	"github.com/stretchr/testify/require"
)

func TestMpsc(t *testing.T) {
	t.Run("With Push/Pop", func(t *testing.T) {
		q := NewMpsc[int]()
		require.True(t, q.IsEmpty())
		_, ok := q.Pop()
		require.False(t, ok)

		for i := range 10 {
			q.Push(i)
		}
		require.EqualValues(t, 10, q.Len())
		for i := range 10 {
			value, ok := q.Pop()
			require.True(t, ok)
			require.Equal(t, i, value)
		}
		require.True(t, q.IsEmpty())
		require.Zero(t, q.Len())
	})
	t.Run("With concurrent producers", func(t *testing.T) {
		q := NewMpsc[int]()
		var wg sync.WaitGroup
		for p := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range 100 {
					q.Push(p*100 + i)
				}
			}()
		}
		wg.Wait()

		seen := make(map[int]bool)
		for {
			value, ok := q.Pop()
			if !ok {
				break
			}
			seen[value] = true
		}
		require.Len(t, seen, 800)
	})
}

func TestLinked(t *testing.T) {
	t.Run("With Push/Pop", func(t *testing.T) {
		q := NewLinked[string]()
		require.True(t, q.IsEmpty())
		q.Push("a")
		q.Push("b")
		require.EqualValues(t, 2, q.Len())

		value, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, "a", value)
		value, ok = q.Pop()
		require.True(t, ok)
		require.Equal(t, "b", value)
		_, ok = q.Pop()
		require.False(t, ok)
		require.True(t, q.IsEmpty())
	})
	t.Run("With concurrent producers and consumers", func(t *testing.T) {
		q := NewLinked[int]()
		var wg sync.WaitGroup
		for p := range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range 250 {
					q.Push(p*250 + i)
				}
			}()
		}
		wg.Wait()

		var mu sync.Mutex
		seen := make(map[int]bool)
		var consumers sync.WaitGroup
		for range 4 {
			consumers.Add(1)
			go func() {
				defer consumers.Done()
				for {
					value, ok := q.Pop()
					if !ok {
						return
					}
					mu.Lock()
					seen[value] = true
					mu.Unlock()
				}
			}()
		}
		consumers.Wait()
		require.Len(t, seen, 1000)
	})
}
