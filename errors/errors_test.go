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

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	t.Run("With lifecycle callback error", func(t *testing.T) {
		err := errors.New("boom")
		lifecycleErr := NewLifecycleCallbackError("INIT", "OnInit", err)
		require.EqualError(t, lifecycleErr, "lifecycle callback OnInit failed in state INIT: boom")
		assert.ErrorIs(t, lifecycleErr, err)
		assert.Equal(t, "INIT", lifecycleErr.State())
		assert.Equal(t, "OnInit", lifecycleErr.Hook())

		var target *LifecycleCallbackError
		require.ErrorAs(t, error(lifecycleErr), &target)
	})
	t.Run("With configuration error", func(t *testing.T) {
		cfgErr := NewConfigurationError("queueCapacity", ErrInvalidCapacity)
		require.EqualError(t, cfgErr, "invalid configuration: queueCapacity: capacity must be a power of two and at least 2")
		assert.ErrorIs(t, cfgErr, ErrInvalidConfig)
		assert.ErrorIs(t, cfgErr, ErrInvalidCapacity)
		assert.Equal(t, "queueCapacity", cfgErr.Field())
	})
	t.Run("With panic error", func(t *testing.T) {
		err := errors.New("something went wrong")
		panicErr := NewPanicError(err)
		require.EqualError(t, panicErr, "panic: something went wrong")
		assert.ErrorIs(t, panicErr, err)

		recovered := Recovered("oops")
		require.EqualError(t, recovered, "panic: oops")
		recovered = Recovered(err)
		assert.ErrorIs(t, recovered, err)
	})
}
