package status

import (
	"errors"
	"fmt"
)

// Error is implemented by every error the shell knows how to turn into an
// exit status.
type Error interface {
	error
	Status() Status
}

// Of returns the status implied by err. A nil error is a success, errors the
// shell doesn't know about are general failures.
func Of(err error) Status {
	if err == nil {
		return Success
	}

	var shellErr Error
	if errors.As(err, &shellErr) {
		return shellErr.Status()
	}
	return Failure
}

// ReadonlyError is returned when writing or removing a readonly variable.
type ReadonlyError struct {
	Name   string
	Line   uint
	Column uint
}

var _ Error = (*ReadonlyError)(nil)

func (e *ReadonlyError) Error() string {
	return fmt.Sprintf("%s: readonly variable (set on line '%d' column '%d')", e.Name, e.Line, e.Column)
}

func (*ReadonlyError) Status() Status { return Misuse }

// IllegalNumberError is returned when a builtin expected a number.
type IllegalNumberError struct {
	Name   string
	Caller string
}

var _ Error = (*IllegalNumberError)(nil)

func (e *IllegalNumberError) Error() string {
	return fmt.Sprintf("%s: Illegal number: %s", e.Caller, e.Name)
}

func (*IllegalNumberError) Status() Status { return Misuse }

// NoSuchVariableError is returned by builtins that need an existing variable.
type NoSuchVariableError struct {
	Name   string
	Caller string
}

var _ Error = (*NoSuchVariableError)(nil)

func (e *NoSuchVariableError) Error() string {
	return fmt.Sprintf("%s: no such variable: %s", e.Caller, e.Name)
}

func (*NoSuchVariableError) Status() Status { return Failure }

// NotFoundError is returned when a command can't be found.
type NotFoundError struct {
	Name string
}

var _ Error = (*NotFoundError)(nil)

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: not found", e.Name)
}

func (*NotFoundError) Status() Status { return CommandNotFound }

// SubCommandNotFoundError is returned when a builtin is given an unknown
// argument.
type SubCommandNotFoundError struct {
	Name string
	Cmd  string
}

var _ Error = (*SubCommandNotFoundError)(nil)

func (e *SubCommandNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s: not found", e.Name, e.Cmd)
}

func (*SubCommandNotFoundError) Status() Status { return Failure }

// CannotCdError is returned when cd's target isn't a usable directory.
type CannotCdError struct {
	Name string
	Path string
}

var _ Error = (*CannotCdError)(nil)

func (e *CannotCdError) Error() string {
	return fmt.Sprintf("%s: can't cd to %s", e.Name, e.Path)
}

func (*CannotCdError) Status() Status { return Misuse }

// PermissionDeniedError is returned when a command exists but can't be run.
type PermissionDeniedError struct {
	Path string
}

var _ Error = (*PermissionDeniedError)(nil)

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("%s: Permission denied", e.Path)
}

func (*PermissionDeniedError) Status() Status { return PermissionDenied }

// UsageError is returned when a builtin is invoked incorrectly.
type UsageError struct {
	Name string
	Msg  string
}

var _ Error = (*UsageError)(nil)

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Msg)
}

func (*UsageError) Status() Status { return Misuse }
