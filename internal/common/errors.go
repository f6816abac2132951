package common

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeForbidden           Code = "forbidden"
	CodeNotFound            Code = "not_found"
	CodeInvalidTransition   Code = "invalid_transition"
	CodeConflict            Code = "conflict"
	CodeExternalUnavailable Code = "external_unavailable"
	CodeValidation          Code = "validation"
)

// Error is the domain error carried across service boundaries. Handlers map
// its Code to an HTTP status; everything else wraps with fmt.Errorf("%w").
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

func NewError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func Forbidden(message string) *Error {
	return NewError(CodeForbidden, message, nil)
}

func NotFound(message string) *Error {
	return NewError(CodeNotFound, message, nil)
}

func InvalidTransition(message string) *Error {
	return NewError(CodeInvalidTransition, message, nil)
}

func Conflict(message string) *Error {
	return NewError(CodeConflict, message, nil)
}

func ExternalUnavailable(message string, err error) *Error {
	return NewError(CodeExternalUnavailable, message, err)
}

func Validation(message string) *Error {
	return NewError(CodeValidation, message, nil)
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// CodeOf extracts the domain code, defaulting to an empty code for plain errors.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
