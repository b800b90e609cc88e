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
	"fmt"

	"github.com/tochemey/disruptor/errors"
)

// Builder describes a counter topology before any counter exists.
type Builder interface {
	// build adds the segments of the topology consuming headIndex and
	// returns the segments whose tails bound the next stage.
	build(g *Group, headIndex int, upstream []int) ([]int, error)
}

type single struct{}

// Single is one head and one tail counter: the whole pipeline runs on one worker.
func Single() Builder {
	return single{}
}

func (single) build(g *Group, headIndex int, upstream []int) ([]int, error) {
	segment := g.addSegment(headIndex, upstream, 1)
	return []int{segment.index}, nil
}

type atomicStages struct {
	stages int
}

// Atomic chains stages single-consumer stages, one CAS counter per boundary.
func Atomic(stages int) Builder {
	return atomicStages{stages: stages}
}

func (a atomicStages) build(g *Group, headIndex int, upstream []int) ([]int, error) {
	if a.stages < 1 {
		return nil, errors.NewConfigurationError("stages", fmt.Errorf("got %d, want at least 1", a.stages))
	}
	for range a.stages {
		segment := g.addSegment(headIndex, upstream, 1)
		headIndex, upstream = segment.tailIndex, []int{segment.index}
	}
	return upstream, nil
}

type multiWorker struct {
	workers int
}

// MultiWorker is one stage consumed by workers racing consumers. Its tail is a MultiTail.
func MultiWorker(workers int) Builder {
	return multiWorker{workers: workers}
}

func (m multiWorker) build(g *Group, headIndex int, upstream []int) ([]int, error) {
	if m.workers < 1 {
		return nil, errors.NewConfigurationError("workers", fmt.Errorf("got %d, want at least 1", m.workers))
	}
	segment := g.addSegment(headIndex, upstream, m.workers)
	return []int{segment.index}, nil
}

type chain struct {
	children []Builder
}

// Chain chains builders: each child's tail is the next child's head.
func Chain(children ...Builder) Builder {
	return chain{children: children}
}

func (s chain) build(g *Group, headIndex int, upstream []int) ([]int, error) {
	if len(s.children) == 0 {
		return nil, errors.NewConfigurationError("chain", fmt.Errorf("no stage"))
	}
	for _, child := range s.children {
		producers, err := child.build(g, headIndex, upstream)
		if err != nil {
			return nil, err
		}
		upstream = producers
		headIndex = joinIndex(g, producers)
	}
	return upstream, nil
}

type parallel struct {
	children []Builder
}

// Parallel fans one range out to every child. The stage following a
// Parallel consumes up to the slowest child.
func Parallel(children ...Builder) Builder {
	return parallel{children: children}
}

func (p parallel) build(g *Group, headIndex int, upstream []int) ([]int, error) {
	if len(p.children) == 0 {
		return nil, errors.NewConfigurationError("parallel", fmt.Errorf("no branch"))
	}
	var producers []int
	for _, child := range p.children {
		tails, err := child.build(g, headIndex, upstream)
		if err != nil {
			return nil, err
		}
		producers = append(producers, tails...)
	}
	return producers, nil
}

// joinIndex returns the counter index bounding whatever follows producers,
// adding a join sequence when there are several.
func joinIndex(g *Group, producers []int) int {
	if len(producers) == 1 {
		return g.segments[producers[0]].tailIndex
	}
	children := make([]Sequence, 0, len(producers))
	for _, index := range producers {
		children = append(children, g.counters[g.segments[index].tailIndex])
	}
	return g.addCounter(&join{children: children})
}
