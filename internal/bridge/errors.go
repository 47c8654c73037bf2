package bridge

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes bridge errors.
type ErrorCode string

const (
	// ErrCodeInvalidUsage indicates the caller broke the match protocol:
	// binding at the end, routing a pattern to the wrong operation, or
	// using a closed source.
	ErrCodeInvalidUsage ErrorCode = "INVALID_USAGE"

	// ErrCodeProtocol indicates a value the bridge cannot represent on the
	// other side: an unknown literal kind or a malformed node.
	ErrCodeProtocol ErrorCode = "PROTOCOL_ERROR"
)

// Error is returned for protocol violations and unconvertible values.
// A rejected candidate is not an error.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Slot names the pattern position involved, if any.
	Slot string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Slot != "" {
		msg += " (" + e.Slot + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsInvalidUsage returns true if err is or wraps an INVALID_USAGE error.
func IsInvalidUsage(err error) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Code == ErrCodeInvalidUsage
	}
	return false
}

// IsProtocolError returns true if err is or wraps a PROTOCOL_ERROR error.
func IsProtocolError(err error) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Code == ErrCodeProtocol
	}
	return false
}

func invalidUsage(format string, args ...any) *Error {
	return &Error{Code: ErrCodeInvalidUsage, Message: fmt.Sprintf(format, args...)}
}

func protocolError(format string, args ...any) *Error {
	return &Error{Code: ErrCodeProtocol, Message: fmt.Sprintf(format, args...)}
}

// atSlot records the pattern position on a bridge error.
func atSlot(err error, slot int) error {
	var be *Error
	if errors.As(err, &be) && be.Slot == "" {
		be.Slot = slotNames[slot]
	}
	return err
}

var slotNames = [3]string{"subject", "predicate", "object"}
