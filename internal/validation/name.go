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
	"regexp"
)

const maxNameLength = 255

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*$`)

type emptyStringValidator struct {
	field string
	value string
}

// NewEmptyStringValidator fails when value is empty
func NewEmptyStringValidator(field, value string) Validator {
	return emptyStringValidator{field: field, value: value}
}

func (v emptyStringValidator) Validate() error {
	if v.value == "" {
		return fmt.Errorf("the [%s] is required", v.field)
	}
	return nil
}

// NewNameValidator checks an actor or service name: non empty, at most 255
// characters, starting with a letter or digit followed by letters, digits,
// dashes, underscores or dots.
func NewNameValidator(field, name string) Validator {
	return New(FailFast()).
		AddValidator(NewEmptyStringValidator(field, name)).
		AddAssertion(len(name) <= maxNameLength, fmt.Sprintf("the [%s] must be at most %d characters", field, maxNameLength)).
		AddValidator(NewPatternValidator(namePattern, name, fmt.Errorf("the [%s] %q contains invalid characters", field, name)))
}
