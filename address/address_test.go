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

package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	t.Run("With valid address", func(t *testing.T) {
		addr := New("orders", "cart-1")
		require.NoError(t, addr.Validate())
		assert.Equal(t, "orders", addr.System())
		assert.Equal(t, "cart-1", addr.Name())
		assert.NotEmpty(t, addr.ID())
		assert.Equal(t, "actor://orders/cart-1#"+addr.ID(), addr.String())
	})
	t.Run("With incarnations", func(t *testing.T) {
		first := New("orders", "cart")
		second := New("orders", "cart")
		assert.False(t, first.Equals(second))
		assert.True(t, first.SameActor(second))
		assert.True(t, first.Equals(first))
		assert.False(t, first.Equals(nil))
	})
	t.Run("With invalid names", func(t *testing.T) {
		require.ErrorIs(t, New("", "cart").Validate(), ErrInvalidAddress)
		require.ErrorIs(t, New("orders", "c@rt").Validate(), ErrInvalidAddress)
	})
	t.Run("With parse round trip", func(t *testing.T) {
		addr := New("orders", "cart-1")
		parsed, err := Parse(addr.String())
		require.NoError(t, err)
		assert.True(t, addr.Equals(parsed))
	})
	t.Run("With parse failures", func(t *testing.T) {
		for _, value := range []string{
			"orders/cart#id",
			"actor://orders",
			"actor://orders/cart",
			"actor://orders/cart#not-a-uuid",
			"actor://or$ders/cart#6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		} {
			_, err := Parse(value)
			require.ErrorIs(t, err, ErrInvalidAddress, value)
		}
	})
}
