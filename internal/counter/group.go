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

// Segment is one stage of a group: the range [head, tail) it consumes and
// the workers that consume it.
type Segment struct {
	index      int
	headIndex  int
	tailIndex  int
	workers    int
	downstream []int
	terminal   bool
}

// Index returns the declaration order of the segment
func (s *Segment) Index() int {
	return s.index
}

// HeadIndex returns the position in the group of the counter bounding this
// segment from upstream
func (s *Segment) HeadIndex() int {
	return s.headIndex
}

// TailIndex returns the position in the group of the counter this segment advances
func (s *Segment) TailIndex() int {
	return s.tailIndex
}

// Workers returns the number of consumers racing on the segment
func (s *Segment) Workers() int {
	return s.workers
}

// Downstream returns the indexes of the segments fed by this segment's tail
func (s *Segment) Downstream() []int {
	return s.downstream
}

// Terminal reports whether advancing this segment frees ring capacity
func (s *Segment) Terminal() bool {
	return s.terminal
}

// Group is the ordered set of counters forming one pipeline. Counter 0 is
// the producer head; the group tail is the position producers must not lap.
type Group struct {
	counters []Sequence
	segments []*Segment
	tail     Sequence
}

// Build lays out the counters described by builder.
func Build(builder Builder) (*Group, error) {
	if builder == nil {
		return nil, errors.NewConfigurationError("counters", fmt.Errorf("builder is required"))
	}

	g := &Group{
		counters: []Sequence{NewCounter(0)},
	}

	producers, err := builder.build(g, 0, []int{-1})
	if err != nil {
		return nil, err
	}

	if len(g.segments) == 0 {
		return nil, errors.NewConfigurationError("counters", fmt.Errorf("at least one stage is required"))
	}

	tails := make([]Sequence, 0, len(producers))
	for _, index := range producers {
		segment := g.segments[index]
		segment.terminal = true
		tails = append(tails, g.counters[segment.tailIndex])
	}

	if len(tails) == 1 {
		g.tail = tails[0]
	} else {
		g.tail = &join{children: tails}
	}
	return g, nil
}

// Head returns the producer head counter
func (g *Group) Head() *Counter {
	return g.counters[0].(*Counter)
}

// Tail returns the position of the slowest final stage
func (g *Group) Tail() Sequence {
	return g.tail
}

// Counter returns the counter at index
func (g *Group) Counter(index int) Sequence {
	return g.counters[index]
}

// Size returns the number of counters
func (g *Group) Size() int {
	return len(g.counters)
}

// Segments returns the stages in declaration order
func (g *Group) Segments() []*Segment {
	return g.segments
}

// IsSingle reports whether the whole pipeline is a single stage run by a single worker
func (g *Group) IsSingle() bool {
	return len(g.segments) == 1 && g.segments[0].workers == 1
}

func (g *Group) addCounter(c Sequence) int {
	g.counters = append(g.counters, c)
	return len(g.counters) - 1
}

// addSegment appends a segment consuming headIndex. The upstream producers
// learn about their new downstream consumer.
func (g *Group) addSegment(headIndex int, upstream []int, workers int) *Segment {
	var tail Sequence
	if workers > 1 {
		tail = NewMultiTail(0)
	} else {
		tail = NewCounter(0)
	}

	segment := &Segment{
		index:     len(g.segments),
		headIndex: headIndex,
		tailIndex: g.addCounter(tail),
		workers:   workers,
	}
	g.segments = append(g.segments, segment)

	for _, index := range upstream {
		if index >= 0 {
			g.segments[index].downstream = append(g.segments[index].downstream, segment.index)
		}
	}
	return segment
}
