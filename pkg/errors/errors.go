// Package errors provides structured error types for depsense.
//
// Error codes are machine-readable and stable, which lets the CLI, the HTTP
// host adapter, and the engine react to failure categories without string
// matching:
//
//	err := errors.New(errors.ErrCodeManifestNotFound, "no package.json in project")
//	if errors.Is(err, errors.ErrCodeManifestNotFound) {
//	    // degrade to catalog-only completions
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMetadataFetch, origErr, "fetch %s", pkg)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the completion engine's failure categories.
const (
	// Manifest errors
	ErrCodeManifestNotFound Code = "MANIFEST_NOT_FOUND"
	ErrCodeManifestParse    Code = "MANIFEST_PARSE"
	ErrCodeManifestRead     Code = "MANIFEST_READ"

	// Metadata enrichment errors
	ErrCodeMetadataFetch Code = "METADATA_FETCH"
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeNetwork       Code = "NETWORK_ERROR"
	ErrCodeTimeout       Code = "TIMEOUT"

	// Install pipeline errors
	ErrCodeTerminalUnavailable Code = "TERMINAL_UNAVAILABLE"
	ErrCodeInstallFailed       Code = "INSTALL_FAILED"
	ErrCodeInstallDeclined     Code = "INSTALL_DECLINED"

	// Storage errors
	ErrCodeStore Code = "STORE_ERROR"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"

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

// Is reports whether err carries the given error code.
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
