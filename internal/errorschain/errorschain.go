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

// Package errorschain collects the errors of a sequence of steps, such as
// stopping every actor of a manager, into a single error.
package errorschain

import "go.uber.org/multierr"

// Chain defines an error chain
type Chain struct {
	returnFirst bool
	steps       []func() error
}

// ChainOption configures an error chain at creation time.
type ChainOption func(*Chain)

// New creates a new error chain. Errors are evaluated in insertion order.
func New(opts ...ChainOption) *Chain {
	chain := &Chain{
		steps: make([]func() error, 0),
	}

	for _, opt := range opts {
		opt(chain)
	}

	return chain
}

// AddError adds an error to the chain
func (c *Chain) AddError(err error) *Chain {
	c.steps = append(c.steps, func() error { return err })
	return c
}

// AddErrors adds a slice of errors to the chain. The slice order matters.
func (c *Chain) AddErrors(errs ...error) *Chain {
	for _, err := range errs {
		c.AddError(err)
	}
	return c
}

// AddErrorFn adds a step evaluated lazily by Error. With ReturnFirst the
// steps following the first failure are never called.
func (c *Chain) AddErrorFn(fn func() error) *Chain {
	c.steps = append(c.steps, fn)
	return c
}

// AddErrorFns adds several lazy steps
func (c *Chain) AddErrorFns(fns ...func() error) *Chain {
	c.steps = append(c.steps, fns...)
	return c
}

// Len returns the number of steps in the chain
func (c *Chain) Len() int {
	return len(c.steps)
}

// Error evaluates the chain and returns the resulting error
func (c *Chain) Error() error {
	var err error
	for _, step := range c.steps {
		if v := step(); v != nil {
			if c.returnFirst {
				return v
			}
			err = multierr.Append(err, v)
		}
	}
	return err
}

// ReturnFirst makes the chain stop at the first error.
func ReturnFirst() ChainOption {
	return func(c *Chain) { c.returnFirst = true }
}

// ReturnAll makes the chain combine every error.
func ReturnAll() ChainOption {
	return func(c *Chain) { c.returnFirst = false }
}
