// Package errors provides structured error types for the Room Visualizer.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes mirror the failure taxonomy of the artifact pipeline: asset
// resolution, remote generation, image decoding, and durable storage each
// have a distinct code so callers can decide whether a failure is fatal
// (generation, base artifact decode) or degradable (thumbnails, durable
// writes).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeAssetNotFound, "no sample found for %s", sku)
//	if errors.Is(err, errors.ErrCodeAssetNotFound) {
//	    // Fall back to a placeholder
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStoreWrite, origErr, "persist floor %s", sku)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different failure categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidSKU   Code = "INVALID_SKU"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeAssetNotFound Code = "ASSET_NOT_FOUND"

	// Pipeline errors
	ErrCodeGenerationFailed Code = "GENERATION_FAILED"
	ErrCodeDecodeFailure    Code = "DECODE_FAILURE"
	ErrCodeCatalogLoad      Code = "CATALOG_LOAD_FAILED"

	// Durable store errors
	ErrCodeStoreRead  Code = "STORE_READ_FAILED"
	ErrCodeStoreWrite Code = "STORE_WRITE_FAILED"

	// Lifecycle errors
	ErrCodeNotReady Code = "NOT_READY"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
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
		return e.Message
	}
	return err.Error()
}

// GenerationError carries the diagnostic payload of a failed remote
// generation call: the HTTP status and the response body text.
type GenerationError struct {
	Status int    // HTTP status code of the non-success response, 0 for transport errors
	Body   string // Response body returned by the generator, used as diagnostic text
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("generator returned status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("generator unreachable: %s", e.Body)
}

// Code returns the error code for this error type.
func (e *GenerationError) Code() Code {
	return ErrCodeGenerationFailed
}
