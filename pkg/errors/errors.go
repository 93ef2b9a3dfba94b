// Package errors defines the domain error taxonomy shared by services,
// stores, and the HTTP layer. Services wrap failures with a Code so
// transport can map them to status codes without inspecting messages.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain failure.
type Code string

const (
	CodeValidation   Code = "validation"
	CodeInvalidInput Code = "invalid_input"
	CodeBadRequest   Code = "bad_request"
	CodeNotFound     Code = "not_found"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeUpstream     Code = "upstream"
	CodeInternal     Code = "internal"
)

// DomainError carries a Code alongside the message and an optional cause.
type DomainError struct {
	Code    Code
	Message string
	Err     error
}

func (e DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error { return e.Err }

// Is matches any DomainError with the same code, so sentinel comparisons
// like errors.Is(err, store.ErrNotFound) work across wrap boundaries.
func (e DomainError) Is(target error) bool {
	var de DomainError
	if errors.As(target, &de) {
		return de.Code == e.Code
	}
	return false
}

// New builds a DomainError with no underlying cause.
func New(code Code, message string) DomainError {
	return DomainError{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) DomainError {
	return DomainError{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain code to an HTTP status code.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvalidInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
