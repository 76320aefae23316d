// Package status holds the exit status type shared by every part of the shell
// along with the errors that map onto it.
package status

import (
	"fmt"
	"strconv"
)

// Status is the exit status of a command, builtin or script.
//
// It's stored in 16 bits but values handed to or received from processes are
// always capped to 0-255.
type Status uint16

const (
	Success          Status = 0
	Failure          Status = 1
	Misuse           Status = 2
	PermissionDenied Status = 126
	CommandNotFound  Status = 127
	SignalBase       Status = 128
	Interrupted      Status = SignalBase + 2

	// maxStatus is the largest status a process can report.
	maxStatus = 255
)

// FromExitCode converts a process exit code into a Status, wrapping values
// outside of 0-255 the same way the kernel does.
func FromExitCode(code int) Status {
	return Status(uint8(code))
}

// FromSignal returns the status of a process killed by signal signo.
func FromSignal(signo int) Status {
	return FromExitCode(int(SignalBase) + signo)
}

// FromBool returns Success for true and Failure for false.
func FromBool(ok bool) Status {
	if ok {
		return Success
	}
	return Failure
}

// Parse reads a status written by a user, e.g. the argument to exit.
// Negative numbers and non-numbers are rejected.
func Parse(s string) (Status, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return Failure, err
	}
	return Status(n & maxStatus), nil
}

// OK is true if the status indicates success.
func (s Status) OK() bool {
	return s == Success
}

// Invert turns success into failure and any failure into success.
func (s Status) Invert() Status {
	return FromBool(!s.OK())
}

// Code returns the status as a process exit code.
func (s Status) Code() int {
	return int(s & maxStatus)
}

func (s Status) String() string {
	return fmt.Sprintf("%d", s.Code())
}
