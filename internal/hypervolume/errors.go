package hypervolume

import (
	"errors"
	"fmt"
)

// Sentinel classes. Every *Error returned by this package wraps exactly one
// of them, so callers classify failures with errors.Is.
var (
	// ErrInvalidArgument reports a malformed call: empty point set,
	// reference point shorter than two coordinates, or a point whose
	// dimensionality differs from the reference point.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidConfiguration reports approximation parameters outside (0,1).
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Error describes a failed hypervolume computation.
type Error struct {
	// Message describes the error that occurred.
	Message string
	// Op is the operation that caused the error.
	Op string
	// Component is the algorithm or layer where the error occurred.
	Component string
	// Err is the error class, ErrInvalidArgument or ErrInvalidConfiguration.
	Err error
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var prefix string
	switch {
	case e.Component != "" && e.Op != "":
		prefix = fmt.Sprintf("%s: %s", e.Component, e.Op)
	case e.Component != "":
		prefix = e.Component
	case e.Op != "":
		prefix = e.Op
	}

	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%v: %s", e.Err, e.Message)
	}
	if prefix != "" {
		return prefix + ": " + msg
	}
	return msg
}

// Unwrap returns the error class.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WithOperation adds operation context to the error.
func (e *Error) WithOperation(op string) *Error {
	e.Op = op
	return e
}

// WithComponent adds component context to the error.
func (e *Error) WithComponent(component string) *Error {
	e.Component = component
	return e
}

func invalidArgument(format string, args ...interface{}) *Error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Err:     ErrInvalidArgument,
	}
}

func invalidConfiguration(format string, args ...interface{}) *Error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Err:     ErrInvalidConfiguration,
	}
}

// IsHypervolumeError checks if an error is of type *Error.
func IsHypervolumeError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
