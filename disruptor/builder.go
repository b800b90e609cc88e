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
	"slices"

	"github.com/tochemey/disruptor/internal/counter"
)

// stageSpec describes one stage before the pipeline exists. Several
// delivers make a parallel stage: each consumes the whole range and the
// next stage waits for the slowest.
type stageSpec[T any] struct {
	delivers []Deliver[T]
	workers  int
}

func (s stageSpec[T]) counters() counter.Builder {
	if len(s.delivers) > 1 {
		branches := make([]counter.Builder, len(s.delivers))
		for i := range branches {
			branches[i] = counter.Single()
		}
		return counter.Parallel(branches...)
	}
	if s.workers != 1 {
		return counter.MultiWorker(s.workers)
	}
	return counter.Single()
}

// Top is the first stage of a pipeline under construction.
type Top[T any] struct {
	first stageSpec[T]
}

// New starts a pipeline whose first stage is consumed by deliver.
func New[T any](deliver Deliver[T]) Top[T] {
	return Top[T]{first: stageSpec[T]{delivers: []Deliver[T]{deliver}, workers: 1}}
}

// Workers sets the number of racing workers of the first stage
func (t Top[T]) Workers(workers int) Top[T] {
	t.first.workers = workers
	return t
}

// Next appends a stage consuming what the first stage released
func (t Top[T]) Next(deliver Deliver[T]) Node[T] {
	return Node[T]{stages: []stageSpec[T]{t.first}}.Next(deliver)
}

// Parallel appends a stage made of one branch per deliver
func (t Top[T]) Parallel(delivers ...Deliver[T]) Node[T] {
	return Node[T]{stages: []stageSpec[T]{t.first}}.Parallel(delivers...)
}

// Build creates the QueueService
func (t Top[T]) Build(opts ...Option) (*QueueService[T], error) {
	return newQueueService([]stageSpec[T]{t.first}, opts...)
}

// Node is a pipeline under construction with at least two stages. Each
// method returns a new Node and leaves the receiver untouched.
type Node[T any] struct {
	stages []stageSpec[T]
}

// Workers sets the number of racing workers of the last stage
func (n Node[T]) Workers(workers int) Node[T] {
	stages := slices.Clone(n.stages)
	stages[len(stages)-1].workers = workers
	return Node[T]{stages: stages}
}

// Next appends a stage consuming what the last stage released
func (n Node[T]) Next(deliver Deliver[T]) Node[T] {
	stages := append(slices.Clone(n.stages), stageSpec[T]{delivers: []Deliver[T]{deliver}, workers: 1})
	return Node[T]{stages: stages}
}

// Parallel appends a stage made of one branch per deliver
func (n Node[T]) Parallel(delivers ...Deliver[T]) Node[T] {
	stages := append(slices.Clone(n.stages), stageSpec[T]{delivers: slices.Clone(delivers), workers: 1})
	return Node[T]{stages: stages}
}

// Build creates the QueueService
func (n Node[T]) Build(opts ...Option) (*QueueService[T], error) {
	return newQueueService(n.stages, opts...)
}
