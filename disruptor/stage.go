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

package disruptor

import (
	"github.com/tochemey/disruptor/errors"
	"github.com/tochemey/disruptor/log"
)

// stage binds a Deliver to the workers consuming one pipeline segment.
type stage[T any] struct {
	index      int
	deliver    Deliver[T]
	downstream []int
	terminal   bool
	// clears is set on the only terminal stage: it releases slot references
	clears bool
	logger log.Logger

	wake   func() bool
	isIdle func() bool
	// runOne is nil when the stage cannot execute inline
	runOne func(item T) bool
}

// deliverOne hands item to the Deliver. A panic is logged and the batch goes on.
func (s *stage[T]) deliverOne(item T, outbox *Outbox[T]) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("stage %d recovered from panic: %v", s.index, errors.Recovered(r))
		}
	}()

	if err := s.deliver.Deliver(item, outbox); err != nil {
		s.logger.Warnf("stage %d failed to deliver: %v", s.index, err)
	}
}

func (s *stage[T]) flush(outbox *Outbox[T], inline bool) {
	var err error
	if inline {
		err = outbox.FlushAndExecuteLast()
	} else {
		err = outbox.Flush()
	}
	if err != nil {
		s.logger.Warnf("stage %d failed to flush outbox: %v", s.index, err)
	}
}
