// Package errors provides structured error types for platemap.
//
// Every failure surfaced by the label codec, the grid mapper and the plate
// layout carries a machine-readable [Code], so callers can tell an operator
// typo ("A0") from an under-declared grid without string matching:
//
//	_, err := well.Parse("A0")
//	if errors.Is(err, errors.ErrCodeInvalidLabelFormat) {
//	    // fix the label
//	}
//
// All plate errors are caller-input defects. None of them are transient and
// none should be retried.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Label and grid algebra
	ErrCodeInvalidLabelFormat     Code = "INVALID_LABEL_FORMAT"
	ErrCodeRowIndexOutOfRange     Code = "ROW_INDEX_OUT_OF_RANGE"
	ErrCodeCoordinateOutOfRange   Code = "COORDINATE_OUT_OF_RANGE"
	ErrCodeDuplicateWellLabel     Code = "DUPLICATE_WELL_LABEL"
	ErrCodeSequenceLengthMismatch Code = "SEQUENCE_LENGTH_MISMATCH"
	ErrCodeIndexOutOfRange        Code = "INDEX_OUT_OF_RANGE"

	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidDimensions Code = "INVALID_DIMENSIONS"
	ErrCodeInvalidDirection  Code = "INVALID_DIRECTION"
	ErrCodeInvalidColor      Code = "INVALID_COLOR"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	// Resource errors
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodePlateNotFound Code = "PLATE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err carries the given error code.
// It walks the whole chain, so a DUPLICATE_WELL_LABEL wrapped by a file
// loader still matches.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
