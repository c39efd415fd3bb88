package planner

import (
	"errors"
	"fmt"
)

// Sentinel errors for the kinds of rejection the engine can produce.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnreachableGoal  = errors.New("unreachable goal")
	ErrInvalidTimeframe = errors.New("invalid timeframe")
)

// Error wraps a sentinel with the operation and offending field.
type Error struct {
	Op     string
	Field  string // optional
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := e.Op + ": " + e.Err.Error()
	if e.Field != "" {
		base += fmt.Sprintf(" (%s)", e.Field)
	}
	if e.Reason != "" {
		base += ": " + e.Reason
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(op string, kind error, field, format string, args ...any) error {
	return &Error{
		Op:     op,
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
		Err:    kind,
	}
}

// Kind returns the sentinel an error wraps, or nil if it is not an engine error.
func Kind(err error) error {
	for _, k := range []error{ErrInvalidInput, ErrUnreachableGoal, ErrInvalidTimeframe} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
