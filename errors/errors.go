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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrQueueFull is returned when an offer could not be stored before its timeout expired.
	ErrQueueFull = errors.New("queue is full")

	// ErrServiceClosed is returned when a call targets an actor that has been destroyed or failed.
	ErrServiceClosed = errors.New("service is closed")

	// ErrMethodNotFound is returned when a message names a method the actor does not expose.
	ErrMethodNotFound = errors.New("method not found")

	// ErrInvalidCapacity is returned when a ring capacity is not a power of two greater or equal to two.
	ErrInvalidCapacity = errors.New("capacity must be a power of two and at least 2")

	// ErrInvalidConfig is the root of every configuration error.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotStarted is returned when the actor manager is used before Start.
	ErrNotStarted = errors.New("manager is not started")

	// ErrActorNotFound indicates that the specified actor could not be found.
	ErrActorNotFound = errors.New("actor not found")

	// ErrActorExists is returned when spawning an actor under a name that is already taken.
	ErrActorExists = errors.New("actor already exists")

	// ErrEmptyName is returned when an actor or service name is empty.
	ErrEmptyName = errors.New("name is required")

	// ErrJournalClosed is returned when a journal is used after Close.
	ErrJournalClosed = errors.New("journal is closed")

	// ErrRunOneUnsupported is returned when inline execution is requested on a pipeline that cannot run inline.
	ErrRunOneUnsupported = errors.New("inline execution is not supported")

	// ErrInvalidTimeout is returned when a negative timeout is supplied.
	ErrInvalidTimeout = errors.New("timeout must not be negative")
)

// LifecycleCallbackError wraps a failure reported by an asynchronous
// lifecycle hook (init, load, active, save).
type LifecycleCallbackError struct {
	state string
	hook  string
	err   error
}

var _ error = (*LifecycleCallbackError)(nil)

// NewLifecycleCallbackError creates an instance of LifecycleCallbackError
func NewLifecycleCallbackError(state, hook string, err error) *LifecycleCallbackError {
	return &LifecycleCallbackError{
		state: state,
		hook:  hook,
		err:   err,
	}
}

// Error implements the standard error interface
func (e *LifecycleCallbackError) Error() string {
	return fmt.Sprintf("lifecycle callback %s failed in state %s: %v", e.hook, e.state, e.err)
}

// State returns the load state the hook was invoked from
func (e *LifecycleCallbackError) State() string {
	return e.state
}

// Hook returns the name of the failing hook
func (e *LifecycleCallbackError) Hook() string {
	return e.hook
}

func (e *LifecycleCallbackError) Unwrap() error {
	return e.err
}

// ConfigurationError reports an invalid setting detected at build time.
// It always unwraps to ErrInvalidConfig and to the specific cause, if any.
type ConfigurationError struct {
	field  string
	reason error
}

var _ error = (*ConfigurationError)(nil)

// NewConfigurationError creates an instance of ConfigurationError
func NewConfigurationError(field string, reason error) *ConfigurationError {
	return &ConfigurationError{field: field, reason: reason}
}

// Error implements the standard error interface
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrInvalidConfig, e.field, e.reason)
}

// Field returns the offending setting name
func (e *ConfigurationError) Field() string {
	return e.field
}

func (e *ConfigurationError) Unwrap() []error {
	return []error{ErrInvalidConfig, e.reason}
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}

// Recovered turns a value returned by recover into a PanicError
func Recovered(r any) *PanicError {
	if err, ok := r.(error); ok {
		return NewPanicError(err)
	}
	return NewPanicError(fmt.Errorf("%v", r))
}
