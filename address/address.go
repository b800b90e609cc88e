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

// Package address identifies actors.
//
// An address is made of the name of the manager owning the actor, the actor
// name, unique within its manager, and an opaque incarnation id regenerated
// each time an actor is spawned under that name. Its textual form is:
//
//	actor://<system>/<name>#<id>
package address

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tochemey/disruptor/internal/validation"
)

// scheme defines the addressing scheme
const scheme = "actor"

// Address represents the address of an actor. It is immutable.
type Address struct {
	system string
	name   string
	id     string
}

var _ validation.Validator = (*Address)(nil)

// New creates an Address with a fresh incarnation id. New does not
// validate its inputs; call Validate.
func New(system, name string) *Address {
	return &Address{
		system: system,
		name:   name,
		id:     uuid.NewString(),
	}
}

// Parse reads the textual form produced by String
func Parse(value string) (*Address, error) {
	rest, ok := strings.CutPrefix(value, scheme+"://")
	if !ok {
		return nil, fmt.Errorf("%w: missing %s scheme in %q", ErrInvalidAddress, scheme, value)
	}

	system, rest, ok := strings.Cut(rest, "/")
	if !ok {
		return nil, fmt.Errorf("%w: missing name in %q", ErrInvalidAddress, value)
	}

	name, id, ok := strings.Cut(rest, "#")
	if !ok {
		return nil, fmt.Errorf("%w: missing id in %q", ErrInvalidAddress, value)
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	addr := &Address{system: system, name: name, id: id}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// System returns the name of the manager owning the actor
func (a *Address) System() string {
	return a.system
}

// Name returns the actor name
func (a *Address) Name() string {
	return a.name
}

// ID returns the incarnation id
func (a *Address) ID() string {
	return a.id
}

// String returns the canonical textual form
func (a *Address) String() string {
	return fmt.Sprintf("%s://%s/%s#%s", scheme, a.system, a.name, a.id)
}

// Equals reports whether both addresses designate the same incarnation
func (a *Address) Equals(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.system == other.system && a.name == other.name && a.id == other.id
}

// SameActor reports whether both addresses designate the same actor name,
// whatever the incarnation
func (a *Address) SameActor(other *Address) bool {
	return other != nil && a.system == other.system && a.name == other.name
}

// Validate checks the system and actor names
func (a *Address) Validate() error {
	if err := validation.New(validation.AllErrors()).
		AddValidator(validation.NewNameValidator("system", a.system)).
		AddValidator(validation.NewNameValidator("name", a.name)).
		AddValidator(validation.NewEmptyStringValidator("id", a.id)).
		Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return nil
}
