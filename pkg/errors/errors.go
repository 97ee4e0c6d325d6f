package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents an upstream failure with type information.
// Code is the upstream HTTP status, or 0 when no response was received.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Body    []byte
	Err     error
}

func (e *Error) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("%s error: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HasResponse reports whether the upstream answered with a status code.
func (e *Error) HasResponse() bool {
	return e.Code != 0
}

// NewNetworkError wraps a transport failure where no response was received
func NewNetworkError(err error) *Error {
	return &Error{
		Type:    ErrorTypeNetwork,
		Message: err.Error(),
		Err:     err,
	}
}

// NewStatusError builds an error for a non-2xx upstream response
func NewStatusError(code int, body []byte) *Error {
	return &Error{
		Type:    TypeForStatus(code),
		Message: fmt.Sprintf("Request failed with status code %d", code),
		Code:    code,
		Body:    body,
	}
}

// NewParsingError marks an upstream body that could not be decoded
func NewParsingError(code int, err error) *Error {
	return &Error{
		Type:    ErrorTypeParsing,
		Message: fmt.Sprintf("failed to parse upstream response: %v", err),
		Code:    code,
		Err:     err,
	}
}

// TypeForStatus maps an HTTP status code to an ErrorType
func TypeForStatus(statusCode int) ErrorType {
	switch {
	case statusCode == 0:
		return ErrorTypeNetwork
	case statusCode == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return ErrorTypeAuth
	case statusCode == http.StatusNotFound:
		return ErrorTypeNotFound
	case statusCode >= 500:
		return ErrorTypeServerError
	default:
		return ErrorTypeUnknown
	}
}

// As extracts an *Error from err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusCode returns the upstream status carried by err, or 0
func StatusCode(err error) int {
	if e, ok := As(err); ok {
		return e.Code
	}
	return 0
}

// IsNotFound reports whether err is an upstream 404
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsParsing reports whether err is a decode fault
func IsParsing(err error) bool {
	e, ok := As(err)
	return ok && e.Type == ErrorTypeParsing
}
