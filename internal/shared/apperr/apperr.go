// Package apperr is the shared error taxonomy.
//
// Every domain failure is an *Error carrying a stable code and a kind.
// errors.Is matches either the domain sentinel or its kind, so callers
// can branch on "any not-found" without knowing every domain.
package apperr

import (
	"errors"
	"fmt"
)

// Kinds
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	// ErrUnauthorized is only used at the HTTP edge (librarian login)
	ErrUnauthorized = errors.New("unauthorized")
)

const (
	CodeValidation = "VALIDATION_FAILED"
	CodeInternal   = "INTERNAL_SERVER_ERROR"
)

// Error is a coded domain error
type Error struct {
	Kind    error
	Code    string
	Msg     string
	Details any
}

func (e *Error) Error() string { return e.Msg }

// Unwrap exposes the kind to errors.Is
func (e *Error) Unwrap() error { return e.Kind }

// Is lets a wrapped copy (WithDetails) still match its sentinel
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Kind == t.Kind
}

// New creates a domain sentinel
func New(kind error, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

// WithDetails returns a copy of e carrying details for the response body
func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// Validation wraps a validation failure (typically ozzo validation.Errors)
// so the field map reaches the client as error details.
func Validation(err error) error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:    ErrValidation,
		Code:    CodeValidation,
		Msg:     err.Error(),
		Details: err,
	}
}

// Validationf builds a validation error without a field map
func Validationf(format string, args ...any) error {
	return &Error{
		Kind: ErrValidation,
		Code: CodeValidation,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// As extracts the coded error from a chain, if any
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool   { return errors.Is(err, ErrConflict) }
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
