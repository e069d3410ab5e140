// Package domainerrors carries a machine-readable Code alongside a human-readable
// message so callers can branch on the kind of failure without string matching.
//
// Services return these errors; stores return pkg/platform/sentinel errors that
// services translate. Presentation layers map Codes to their own status model.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies the kind of a domain error.
type Code string

const (
	CodeNotFound   Code = "not_found"
	CodeValidation Code = "validation_error"
	CodeInternal   Code = "internal_error"
	CodeConflict   Code = "conflict"
	CodeTimeout    Code = "timeout"

	// CodeInvariantViolation is raised by aggregate constructors and methods.
	// Services convert it into CodeValidation or an invalid-state code.
	CodeInvariantViolation Code = "invariant_violation"

	// Invalid-state family: the operation was rejected because of the current
	// state of an entity. No side effects were applied; retrying after the state
	// changes may succeed.
	CodeInvalidState      Code = "invalid_state"
	CodeCapacityExceeded  Code = "capacity_exceeded"
	CodeRequestNotActive  Code = "request_not_active"
	CodeAlreadyResponded  Code = "already_responded"
	CodeDuplicateNote     Code = "duplicate_note"
	CodeInvalidTransition Code = "invalid_transition"
	CodeIncompatibleType  Code = "incompatible_blood_type"
)

var invalidStateCodes = map[Code]bool{
	CodeInvalidState:      true,
	CodeCapacityExceeded:  true,
	CodeRequestNotActive:  true,
	CodeAlreadyResponded:  true,
	CodeDuplicateNote:     true,
	CodeInvalidTransition: true,
	CodeIncompatibleType:  true,
}

// Error is a domain error with a code and reason.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error with the given code.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code of the outermost domain error in the chain, or
// CodeInternal when err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether the outermost domain error in err's chain has code.
func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias for HasCode kept for handler-style call sites.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// IsInvalidState reports whether err belongs to the invalid-state family.
func IsInvalidState(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return invalidStateCodes[de.Code]
	}
	return false
}
