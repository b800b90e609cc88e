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

// QueueMetric defines the queue service instrumentation
type QueueMetric struct {
	// Specifies the total number of accepted offers
	offerCount metric.Int64ObservableCounter
	// Specifies the total number of offers rejected because the ring was full
	fullCount metric.Int64ObservableCounter
	// Specifies the total number of wake calls that started a worker
	wakeCount metric.Int64ObservableCounter
	// Specifies the number of items waiting in the ring
	size metric.Int64ObservableGauge
}

// NewQueueMetric creates an instance of QueueMetric
func NewQueueMetric(meter metric.Meter) (*QueueMetric, error) {
	queueMetric := new(QueueMetric)
	var err error
	if queueMetric.offerCount, err = meter.Int64ObservableCounter(
		"queue_offer_count",
		metric.WithDescription("Total number of items accepted by the queue"),
	); err != nil {
		return nil, fmt.Errorf("failed to create offerCount instrument, %w", err)
	}

	if queueMetric.fullCount, err = meter.Int64ObservableCounter(
		"queue_full_count",
		metric.WithDescription("Total number of offers rejected on a full queue"),
	); err != nil {
		return nil, fmt.Errorf("failed to create fullCount instrument, %w", err)
	}

	if queueMetric.wakeCount, err = meter.Int64ObservableCounter(
		"queue_wake_count",
		metric.WithDescription("Total number of idle workers woken"),
	); err != nil {
		return nil, fmt.Errorf("failed to create wakeCount instrument, %w", err)
	}

	if queueMetric.size, err = meter.Int64ObservableGauge(
		"queue_size",
		metric.WithDescription("Number of items waiting in the queue"),
	); err != nil {
		return nil, fmt.Errorf("failed to create size instrument, %w", err)
	}
	return queueMetric, nil
}

// OfferCount returns the accepted offers instrument
func (x *QueueMetric) OfferCount() metric.Int64ObservableCounter {
	return x.offerCount
}

// FullCount returns the rejected offers instrument
func (x *QueueMetric) FullCount() metric.Int64ObservableCounter {
	return x.fullCount
}

// WakeCount returns the wake instrument
func (x *QueueMetric) WakeCount() metric.Int64ObservableCounter {
	return x.wakeCount
}

// Size returns the queue size instrument
func (x *QueueMetric) Size() metric.Int64ObservableGauge {
	return x.size
}

// Instruments returns every instrument, as expected by RegisterCallback
func (x *QueueMetric) Instruments() []metric.Observable {
	return []metric.Observable{x.offerCount, x.fullCount, x.wakeCount, x.size}
}
