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

package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateTag(t *testing.T) {
	t.Run("With names", func(t *testing.T) {
		assert.Equal(t, "NEW", StateNew.String())
		assert.Equal(t, "INIT_REPLAY_ACTIVE", StateInitReplayActive.String())
		assert.Equal(t, "REPLAY_MODIFY", StateReplayModify.String())
		assert.Equal(t, "DESTROY", StateDestroy.String())
		assert.Equal(t, "UNKNOWN", StateTag(42).String())
		assert.Equal(t, "UNKNOWN", StateTag(-1).String())
	})
	t.Run("With predicates", func(t *testing.T) {
		for state := StateNew; state <= StateDestroy; state++ {
			assert.Equal(t, state == StateFail || state == StateDestroy, state.IsTerminal(), state.String())
			assert.Equal(t, state == StateActive || state == StateModify, state.IsActive(), state.String())
			assert.Equal(t, state == StateReplay || state == StateReplayModify, state.IsReplaying(), state.String())
		}
	})
	t.Run("With a handler for every state but PENDING", func(t *testing.T) {
		for state := StateNew; state <= StateDestroy; state++ {
			if state == StatePending {
				require.Nil(t, handlers[state])
				continue
			}
			require.NotNil(t, handlers[state], state.String())
		}
	})
}

func TestPending(t *testing.T) {
	t.Run("With messages kept in arrival order", func(t *testing.T) {
		trigger := &Message{kind: kindSend, method: "first"}
		p := newPending(nil, StateInit, hookInit, StateLoad, trigger, nil)
		require.Equal(t, StatePending, p.Tag())
		require.Equal(t, 1, p.Len())

		p.Deliver(&Message{kind: kindSend, method: "second"})
		p.Deliver(&Message{kind: kindQuery, method: "third"})
		require.Equal(t, 3, p.Len())

		methods := make([]string, 0, 3)
		for _, m := range p.messages() {
			methods = append(methods, m.Method())
		}
		require.Equal(t, []string{"first", "second", "third"}, methods)
	})
	t.Run("With a synchronous completion", func(t *testing.T) {
		p := newPending(nil, StateModify, hookSave, StateActive, nil, nil)
		require.Zero(t, p.Len())
		p.begin()
		p.Fail(assert.AnError)
		p.Complete()
		require.True(t, p.end())
		require.ErrorIs(t, p.err, assert.AnError)
	})
}
