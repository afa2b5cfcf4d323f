// Package errors provides structured error types for orbit.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - A distinct type for every failure class of the request pipeline
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration validation failures
//   - TRANSPORT_ERROR, HTTP_STATUS, DECODE_ERROR: per-attempt fetch failures
//   - RETRIES_EXHAUSTED: every attempt of a fetch failed
//   - UNEXPECTED_PAYLOAD: the fetch succeeded but the body lacks required fields
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid date: %s", date)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransport, origErr, "GET %s", url)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidDate   Code = "INVALID_DATE"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Per-attempt fetch errors
	ErrCodeTransport   Code = "TRANSPORT_ERROR"
	ErrCodeHTTPStatus  Code = "HTTP_STATUS"
	ErrCodeRateLimited Code = "RATE_LIMITED"
	ErrCodeDecode      Code = "DECODE_ERROR"

	// Terminal fetch errors
	ErrCodeRetriesExhausted  Code = "RETRIES_EXHAUSTED"
	ErrCodeUnexpectedPayload Code = "UNEXPECTED_PAYLOAD"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Coder is implemented by typed errors that carry an error code without
// being an *Error.
type Coder interface {
	Code() Code
}

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
// It checks the outermost coded error in the chain, so a RetriesExhaustedError
// wrapping an HTTP status error reports RETRIES_EXHAUSTED, not HTTP_STATUS.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if nothing in the chain carries a code.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case Coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
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
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// HTTPStatusError reports a transport round trip that completed with a
// non-success status code.
type HTTPStatusError struct {
	Status int    // HTTP status code returned by the upstream
	URL    string // Request URL with secrets redacted
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Status, e.URL)
}

// Code returns the error code for this error type.
func (e *HTTPStatusError) Code() Code {
	if e.Status == http.StatusNotFound {
		return ErrCodeNotFound
	}
	return ErrCodeHTTPStatus
}

// RateLimitedError provides additional information for rate-limited responses.
// It is still an HTTP status failure and is retried like any other.
type RateLimitedError struct {
	HTTPStatusError
	RetryAfter int // Seconds the upstream asked us to wait (0 if absent)
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited by %s: retry after %d seconds", e.URL, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited by %s", e.URL)
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}

// RetriesExhaustedError is returned once every attempt of a fetch has failed.
// Last holds the error of the final attempt.
type RetriesExhaustedError struct {
	Attempts int
	Last     error
}

// Error implements the error interface.
func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Last)
}

// Unwrap returns the last attempt's error.
func (e *RetriesExhaustedError) Unwrap() error {
	return e.Last
}

// Code returns the error code for this error type.
func (e *RetriesExhaustedError) Code() Code {
	return ErrCodeRetriesExhausted
}

// HTTPStatus maps an error to the status code the HTTP server should answer with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidDate:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeRetriesExhausted, ErrCodeTransport, ErrCodeHTTPStatus, ErrCodeDecode, ErrCodeUnexpectedPayload:
		var nf *HTTPStatusError
		if errors.As(err, &nf) && nf.Status == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
