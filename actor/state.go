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

// StateTag is the load state of an actor
type StateTag int32

const (
	StateNew StateTag = iota
	StateInit
	StateInitReplay
	StateInitReplayActive
	StateReplay
	StateReplayModify
	StateReplayActive
	StateLoad
	StateActive
	StateModify
	StatePending
	StateFail
	StateDestroy
)

var stateNames = [...]string{
	StateNew:              "NEW",
	StateInit:             "INIT",
	StateInitReplay:       "INIT_REPLAY",
	StateInitReplayActive: "INIT_REPLAY_ACTIVE",
	StateReplay:           "REPLAY",
	StateReplayModify:     "REPLAY_MODIFY",
	StateReplayActive:     "REPLAY_ACTIVE",
	StateLoad:             "LOAD",
	StateActive:           "ACTIVE",
	StateModify:           "MODIFY",
	StatePending:          "PENDING",
	StateFail:             "FAIL",
	StateDestroy:          "DESTROY",
}

// String returns the state name
func (s StateTag) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// IsTerminal reports whether no further transition is possible
func (s StateTag) IsTerminal() bool {
	return s == StateFail || s == StateDestroy
}

// IsActive reports whether business methods run in this state
func (s StateTag) IsActive() bool {
	return s == StateActive || s == StateModify
}

// IsReplaying reports whether the state belongs to the replay family
func (s StateTag) IsReplaying() bool {
	return s == StateReplay || s == StateReplayModify
}

// handler processes a message in a given state. It runs with the actor's
// lifecycle lock held.
type handler func(a *actorCell, m *Message, out *outbox)

// handlers is the dispatch table. PENDING has no entry: the installed
// Pending receives the messages.
var handlers [len(stateNames)]handler

func init() {
	handlers = [len(stateNames)]handler{
		StateNew:              onNew,
		StateInit:             onInit,
		StateInitReplay:       onInitReplay,
		StateInitReplayActive: onInitReplayActive,
		StateReplay:           onReplay,
		StateReplayModify:     onReplay,
		StateReplayActive:     onReplayActive,
		StateLoad:             onLoad,
		StateActive:           onActive,
		StateModify:           onModify,
		StateFail:             onClosed,
		StateDestroy:          onClosed,
	}
}

func onNew(a *actorCell, m *Message, out *outbox) {
	switch {
	case a.replayPending && m.kind == kindReplay:
		a.setState(StateInitReplayActive)
	case a.replayPending:
		a.setState(StateInitReplay)
	default:
		a.setState(StateInit)
	}
	a.dispatch(m, out)
}

func onInit(a *actorCell, m *Message, out *outbox) {
	a.transition(out, m, hookInit, StateLoad, nil)
}

func onLoad(a *actorCell, m *Message, out *outbox) {
	a.transition(out, m, hookLoad, StateActive, nil)
}

func onInitReplay(a *actorCell, m *Message, out *outbox) {
	a.transition(out, m, hookInit, StateReplay, func(error) { a.startReplayFeed() })
}

func onInitReplayActive(a *actorCell, m *Message, out *outbox) {
	a.transition(out, m, hookInit, StateReplay, nil)
}

func onReplay(a *actorCell, m *Message, out *outbox) {
	switch m.kind {
	case kindReplay:
		a.replay(m, out)
	case kindReplayEnd:
		a.modified = a.state() == StateReplayModify
		a.setState(StateReplayActive)
		a.activate(out, nil)
	case kindStart, kindComplete:
	default:
		a.held.Inc()
		a.replayBuffer = append(a.replayBuffer, m)
	}
}

// onReplayActive is only reached when a message arrives between the end of
// the replay and the activation, which activate makes impossible. It still
// activates so that the message is not lost.
func onReplayActive(a *actorCell, m *Message, out *outbox) {
	a.activate(out, m)
}

func onActive(a *actorCell, m *Message, out *outbox) {
	switch m.kind {
	case kindSave:
		if m.force {
			a.modify()
			onModify(a, m, out)
			return
		}
		m.complete(nil, nil)
	case kindStart, kindReplay, kindReplayEnd, kindComplete:
	default:
		a.invoke(m, out)
	}
}

func onModify(a *actorCell, m *Message, out *outbox) {
	if m.kind != kindSave {
		onActive(a, m, out)
		return
	}
	a.save(out, m)
}

func onClosed(a *actorCell, m *Message, _ *outbox) {
	a.reject(m)
}
