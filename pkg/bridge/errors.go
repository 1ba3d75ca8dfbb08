package bridge

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for matching with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrExecution       = errors.New("execution failed")
	ErrMissingInstance = errors.New("missing instance")
	ErrHistoryIndex    = errors.New("history index out of range")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrRegistration    = errors.New("registration failed")
	ErrOutput          = errors.New("output dispatch failed")
)

// ValidationError reports a parameter that failed a custom validator or the
// command schema. The wrapped function was not called.
type ValidationError struct {
	Command string
	Param   string
	Value   any
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("validation error in %s: %v", e.Command, e.Cause)
	}
	return fmt.Sprintf("validation error in %s: parameter %q (value %v): %v", e.Command, e.Param, e.Value, e.Cause)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ExecutionError wraps an error returned (or a panic raised) by a command's function.
type ExecutionError struct {
	Command string
	Cause   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("error executing %s: %v", e.Command, e.Cause)
}

func (e *ExecutionError) Unwrap() error { return e.Cause }

func (e *ExecutionError) Is(target error) bool { return target == ErrExecution }

// MissingInstanceError is returned by a method command when no instance is
// stored under Key.
type MissingInstanceError struct {
	Key string
}

func (e *MissingInstanceError) Error() string {
	return fmt.Sprintf("no instance found for key %q; create one first", e.Key)
}

func (e *MissingInstanceError) Is(target error) bool { return target == ErrMissingInstance }

// HistoryIndexError is returned by RestoreContext for an invalid index.
type HistoryIndexError struct {
	Index int
	Len   int
}

func (e *HistoryIndexError) Error() string {
	return fmt.Sprintf("history index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *HistoryIndexError) Is(target error) bool { return target == ErrHistoryIndex }

// OutputError collects the failures of every output destination that could
// not deliver a result.
type OutputError struct {
	Command string
	Errs    []error
}

func (e *OutputError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("output dispatch for %s failed: %s", e.Command, strings.Join(msgs, "; "))
}

func (e *OutputError) Unwrap() []error { return e.Errs }

func (e *OutputError) Is(target error) bool { return target == ErrOutput }

func registrationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRegistration, fmt.Sprintf(format, args...))
}
