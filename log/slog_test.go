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

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlog(t *testing.T) {
	t.Run("With levels", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewSlog(InfoLevel, buffer)
		require.Equal(t, InfoLevel, logger.LogLevel())

		logger.Debug("hidden")
		require.Empty(t, buffer.String())

		logger.Warnf("slow %s", "consumer")
		entry := decodeEntry(t, buffer.Bytes())
		assert.Equal(t, "slow consumer", entry["msg"])
		assert.Equal(t, "warn", entry["level"])
		assert.Contains(t, entry, "caller")
	})
	t.Run("With fields", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewSlog(DebugLevel, buffer)
		logger.With("actor", "counter").Debug("loaded")

		entry := decodeEntry(t, buffer.Bytes())
		assert.Equal(t, "counter", entry["actor"])
		assert.Equal(t, "debug", entry["level"])
	})
	t.Run("With panic", func(t *testing.T) {
		logger := NewSlog(ErrorLevel, new(bytes.Buffer))
		assert.Panics(t, func() { logger.Panic("boom") })
		assert.NoError(t, logger.Flush())
		assert.Same(t, logger, logger.With())
	})
}
