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

// Package future carries the results of queries: a single-assignment value
// completed by one goroutine and awaited by any number of others.
package future

import (
	"context"
	"sync"
)

// Future represents a value which may or may not currently be available,
// but will be available at some point in the future, or an error if that value
// could not be made available.
//
// Example usage:
//
//	promise := future.NewPromise[string]()
//	go func() {
//	    promise.Success("pong")
//	}()
//
//	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
//	defer cancel()
//
//	reply, err := promise.Future().Await(ctx)
type Future[T any] interface {
	// Await blocks until the Future is completed or context is canceled and
	// returns either a result or an error.
	Await(ctx context.Context) (T, error)
	// Done is closed once the Future is completed
	Done() <-chan struct{}
	// Result returns the outcome when the Future is completed, nil otherwise
	Result() *Result[T]
}

// New creates a Future completed with the outcome of task, which runs on
// its own goroutine.
func New[T any](task func() (T, error)) Future[T] {
	promise := NewPromise[T]()
	go func() {
		promise.Complete(task())
	}()
	return promise.Future()
}

// Completed returns a Future already completed with value and err
func Completed[T any](value T, err error) Future[T] {
	promise := NewPromise[T]()
	promise.Complete(value, err)
	return promise.Future()
}

// future implements the Future interface.
type future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Verify future satisfies the Future interface.
var _ Future[int] = (*future[int])(nil)

// Await blocks until the Future is completed or context is canceled.
func (x *future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-x.done:
		return x.value, x.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (x *future[T]) Done() <-chan struct{} {
	return x.done
}

func (x *future[T]) Result() *Result[T] {
	select {
	case <-x.done:
		return &Result[T]{success: x.value, failure: x.err}
	default:
		return nil
	}
}

// Promise is the writable side of a Future. Only the first completion counts.
type Promise[T any] struct {
	once   sync.Once
	future *future[T]
}

// NewPromise returns a new Promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{
		future: &future[T]{done: make(chan struct{})},
	}
}

// Success completes the underlying Future with a given value.
func (p *Promise[T]) Success(value T) {
	p.Complete(value, nil)
}

// Failure fails the underlying Future with a given error.
func (p *Promise[T]) Failure(err error) {
	var zero T
	p.Complete(zero, err)
}

// Complete completes the underlying Future with value when err is nil, or
// fails it with err. It returns false when the Future was already completed.
func (p *Promise[T]) Complete(value T, err error) bool {
	completed := false
	p.once.Do(func() {
		if err != nil {
			var zero T
			value = zero
		}
		p.future.value, p.future.err = value, err
		close(p.future.done)
		completed = true
	})
	return completed
}

// Future returns the underlying Future.
func (p *Promise[T]) Future() Future[T] {
	return p.future
}
