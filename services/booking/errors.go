package booking

import (
	"errors"
	"fmt"
)

// Code classifies booking-core failures for callers. Codes map 1:1 to retry
// semantics: SLOT_UNAVAILABLE means re-query availability and pick a new slot,
// PAYMENT_NOT_SETTLED may be retried after payment completes, everything else
// is a caller error.
type Code string

const (
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeInvalidRange      Code = "INVALID_RANGE"
	CodeNotFound          Code = "NOT_FOUND"
	CodeSlotUnavailable   Code = "SLOT_UNAVAILABLE"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodePaymentNotSettled Code = "PAYMENT_NOT_SETTLED"
	CodeUnauthorized      Code = "UNAUTHORIZED"
)

// Error is the booking core's error type.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError constructs a coded error with a formatted message.
func NewError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the Code from an error, or "" for unclassified errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
