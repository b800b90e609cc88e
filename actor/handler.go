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
	"fmt"
	"time"

	"github.com/tochemey/disruptor/config"
	"github.com/tochemey/disruptor/errors"
	"github.com/tochemey/disruptor/log"
)

// QueueFullHandler decides the outcome of a message that could not be
// queued before its offer timeout
type QueueFullHandler interface {
	OnQueueFull(ref *Ref, message *Message, timeout time.Duration) error
}

// FailHandler returns ErrQueueFull to the caller
type FailHandler struct{}

var _ QueueFullHandler = FailHandler{}

// OnQueueFull implements QueueFullHandler
func (FailHandler) OnQueueFull(ref *Ref, message *Message, timeout time.Duration) error {
	return fmt.Errorf("%w: %s.%s not queued within %s", errors.ErrQueueFull, ref.Name(), message.Method(), timeout)
}

// DropHandler logs and drops sends. Calls waiting for a reply still fail
// since their caller would otherwise never hear back.
type DropHandler struct {
	logger log.Logger
}

var _ QueueFullHandler = (*DropHandler)(nil)

// NewDropHandler creates an instance of DropHandler
func NewDropHandler(logger log.Logger) *DropHandler {
	if logger == nil {
		logger = log.DefaultLogger
	}
	return &DropHandler{logger: logger}
}

// OnQueueFull implements QueueFullHandler
func (h *DropHandler) OnQueueFull(ref *Ref, message *Message, timeout time.Duration) error {
	h.logger.Warnf("queue of %s is full: dropping %s after %s", ref.Name(), message.Method(), timeout)
	if message.ExpectsReply() {
		return FailHandler{}.OnQueueFull(ref, message, timeout)
	}
	return nil
}

func queueFullHandler(name string, logger log.Logger) QueueFullHandler {
	if name == config.DropHandler {
		return NewDropHandler(logger)
	}
	return FailHandler{}
}
