package wire

import (
	"errors"
	"fmt"
)

// Code is the status-code taxonomy surfaced to callers across validator
// and RPC failures.
type Code uint8

const (
	// CodeOK indicates success.
	CodeOK Code = 0

	// CodeInvalidArgument indicates a structurally invalid input.
	CodeInvalidArgument Code = 1

	// CodeNotFound indicates a missing registration or entry.
	CodeNotFound Code = 2

	// CodeAlreadyExists indicates a duplicate registration or id.
	CodeAlreadyExists Code = 3

	// CodeDeadlineExceeded indicates an elapsed invocation deadline.
	CodeDeadlineExceeded Code = 4

	// CodeFailedPrecondition indicates state unfit for the operation.
	CodeFailedPrecondition Code = 5

	// CodeUnknown indicates an unclassifiable failure.
	CodeUnknown Code = 6

	// CodeInternal indicates a remote-side implementation failure.
	CodeInternal Code = 7

	// CodeAborted indicates the operation was torn down mid-flight.
	CodeAborted Code = 8

	// CodeDataLoss indicates unrecoverable payload corruption.
	CodeDataLoss Code = 9
)

// String returns the status code name.
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeInvalidArgument:
		return "INVALID_ARGUMENT"
	case CodeNotFound:
		return "NOT_FOUND"
	case CodeAlreadyExists:
		return "ALREADY_EXISTS"
	case CodeDeadlineExceeded:
		return "DEADLINE_EXCEEDED"
	case CodeFailedPrecondition:
		return "FAILED_PRECONDITION"
	case CodeUnknown:
		return "UNKNOWN"
	case CodeInternal:
		return "INTERNAL"
	case CodeAborted:
		return "ABORTED"
	case CodeDataLoss:
		return "DATA_LOSS"
	default:
		return "UNKNOWN"
	}
}

// Status is the typed outcome handed back across every fallible
// operation in the core. Nothing throws across an asynchronous boundary;
// failures are converted to a Status before reaching the caller.
type Status struct {
	Code    Code
	Message string
}

// OK is the success status.
var OK = Status{Code: CodeOK}

// NewStatus builds a failure status with a human-readable message.
func NewStatus(code Code, message string) Status {
	return Status{Code: code, Message: message}
}

// Statusf builds a failure status with a formatted message.
func Statusf(code Code, format string, args ...any) Status {
	return Status{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsOK reports whether the status indicates success.
func (s Status) IsOK() bool { return s.Code == CodeOK }

// IsError reports whether the status indicates failure.
func (s Status) IsError() bool { return s.Code != CodeOK }

// String renders "CODE: message" or just the code name.
func (s Status) String() string {
	if s.Message == "" {
		return s.Code.String()
	}
	return s.Code.String() + ": " + s.Message
}

// Err returns the status as an error, or nil for OK.
func (s Status) Err() error {
	if s.IsOK() {
		return nil
	}
	return &StatusError{Status: s}
}

// StatusError carries a Status through Go error plumbing. Handlers may
// return one to control the comm-status of their response.
type StatusError struct {
	Status Status
}

// Error implements the error interface.
func (e *StatusError) Error() string { return e.Status.String() }

// StatusOf extracts the Status from an error. A nil error maps to OK; an
// error that is not a *StatusError maps to CodeUnknown with the error
// text as message.
func StatusOf(err error) Status {
	if err == nil {
		return OK
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return Status{Code: CodeUnknown, Message: err.Error()}
}
