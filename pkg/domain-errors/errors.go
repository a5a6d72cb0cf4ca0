// Package domainerrors carries error codes from domain logic to the boundary.
//
// Services return these so transport layers can map failures onto HTTP status
// codes without string matching. Stores return pkg/platform/sentinel errors;
// services translate them into coded errors here.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeInvalidInput marks malformed input or a missing referenced entity
	// at creation time.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest marks a structurally unusable request body.
	CodeBadRequest Code = "bad_request"
	// CodeConflict marks an illegal or duplicate state transition.
	CodeConflict Code = "conflict"
	// CodeNotFound marks an unknown id or an unknown discriminator value.
	CodeNotFound Code = "not_found"
	// CodeUnauthorized marks a bad signature, an expired token, or a missing one.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks a role insufficient for the requested operation.
	CodeForbidden Code = "forbidden"
	// CodeInvariantViolation marks a broken model invariant; these indicate
	// a programming error, not bad caller input.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeTimeout marks a cancelled or deadline-exceeded operation.
	CodeTimeout Code = "timeout"
	// CodeInternal is the fallback for unexpected failures.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. Use New or Wrap to construct one.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a coded error with a caller-facing message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, keeping the cause
// reachable through errors.Is/errors.As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// Is reports whether err carries the given code. Alias of HasCode; both names
// exist because call sites read better with one or the other.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// HasCode reports whether err, or any error it wraps, carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for uncoded
// errors so boundary mapping always has something to work with.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
