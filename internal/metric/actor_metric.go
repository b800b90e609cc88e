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

package metric

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// ActorMetric defines the actor instrumentation
type ActorMetric struct {
	// Specifies the total number of load state transitions
	transitionCount metric.Int64ObservableCounter
	// Specifies the total number of messages processed
	processedCount metric.Int64ObservableCounter
	// Specifies the number of messages held by a pending transition
	pendingCount metric.Int64ObservableGauge
}

// NewActorMetric creates an instance of ActorMetric
func NewActorMetric(meter metric.Meter) (*ActorMetric, error) {
	actorMetric := new(ActorMetric)
	var err error
	if actorMetric.transitionCount, err = meter.Int64ObservableCounter(
		"actor_state_transition_count",
		metric.WithDescription("Total number of load state transitions"),
	); err != nil {
		return nil, fmt.Errorf("failed to create transitionCount instrument, %w", err)
	}

	if actorMetric.processedCount, err = meter.Int64ObservableCounter(
		"actor_processed_count",
		metric.WithDescription("Total number of messages processed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create processedCount instrument, %w", err)
	}

	if actorMetric.pendingCount, err = meter.Int64ObservableGauge(
		"actor_pending_count",
		metric.WithDescription("Number of messages waiting for a lifecycle transition"),
	); err != nil {
		return nil, fmt.Errorf("failed to create pendingCount instrument, %w", err)
	}

	return actorMetric, nil
}

// TransitionCount returns the total number of load state transitions
func (x *ActorMetric) TransitionCount() metric.Int64ObservableCounter {
	return x.transitionCount
}

// ProcessedCount returns the total number of messages processed by the given actor
// at a given time in point
func (x *ActorMetric) ProcessedCount() metric.Int64ObservableCounter {
	return x.processedCount
}

// PendingCount returns the number of messages waiting for a transition
func (x *ActorMetric) PendingCount() metric.Int64ObservableGauge {
	return x.pendingCount
}

// Instruments returns every instrument, as expected by RegisterCallback
func (x *ActorMetric) Instruments() []metric.Observable {
	return []metric.Observable{x.transitionCount, x.processedCount, x.pendingCount}
}
