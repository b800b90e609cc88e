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

package validation

import (
	"fmt"

	"github.com/tochemey/disruptor/errors"
	"github.com/tochemey/disruptor/internal/lib"
)

type powerOfTwoValidator struct {
	field string
	value int
}

// NewPowerOfTwoValidator fails with ErrInvalidCapacity unless value is a
// power of two of at least 2
func NewPowerOfTwoValidator(field string, value int) Validator {
	return powerOfTwoValidator{field: field, value: value}
}

func (v powerOfTwoValidator) Validate() error {
	if v.value < 2 || !lib.IsPowerOfTwo(v.value) {
		return errors.NewConfigurationError(v.field,
			fmt.Errorf("%w: got %d, want a power of two of at least 2", errors.ErrInvalidCapacity, v.value))
	}
	return nil
}

type minValidator struct {
	field string
	value int64
	min   int64
}

// NewMinValidator fails when value is lower than minimum
func NewMinValidator(field string, value, minimum int64) Validator {
	return minValidator{field: field, value: value, min: minimum}
}

func (v minValidator) Validate() error {
	if v.value < v.min {
		return errors.NewConfigurationError(v.field, fmt.Errorf("got %d, want at least %d", v.value, v.min))
	}
	return nil
}

type oneOfValidator struct {
	field   string
	value   string
	allowed []string
}

// NewOneOfValidator fails when value is not one of allowed
func NewOneOfValidator(field, value string, allowed ...string) Validator {
	return oneOfValidator{field: field, value: value, allowed: allowed}
}

func (v oneOfValidator) Validate() error {
	for _, candidate := range v.allowed {
		if candidate == v.value {
			return nil
		}
	}
	return errors.NewConfigurationError(v.field, fmt.Errorf("got %q, want one of %q", v.value, v.allowed))
}
