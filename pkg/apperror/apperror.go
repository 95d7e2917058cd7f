// Package apperror defines the domain error carried from models and
// repositories up to the HTTP layer.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// Code is a machine-readable error category.
type Code string

const (
	CodeValidation      Code = "validation_failed"
	CodeNotFound        Code = "not_found"
	CodeConflict        Code = "conflict"
	CodeForbidden       Code = "forbidden"
	CodeUnauthorized    Code = "unauthorized"
	CodeDependentsExist Code = "dependents_exist"
)

// HTTPStatus maps a code onto the status the API answers with.
// Conflicts surface as 400 like every other client error on writes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeConflict, CodeDependentsExist:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is the domain error type.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string // field name -> message, for validation errors
	Cause   error
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Validation builds a validation error from a field map. It returns nil for
// an empty map so callers can collect problems and return the result directly.
func Validation(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &Error{Code: CodeValidation, Message: "Validation failed", Fields: fields}
}

// Field is shorthand for a single-field validation error.
func Field(name, message string) *Error {
	return &Error{Code: CodeValidation, Message: "Validation failed", Fields: map[string]string{name: message}}
}

func NotFound(resource string) *Error {
	return New(CodeNotFound, resource+" not found")
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "You do not have permission to perform this action"
	}
	return New(CodeForbidden, message)
}

// DependentsExist reports a refused delete.
func DependentsExist(count int64, what string) *Error {
	return New(CodeDependentsExist, fmt.Sprintf("Cannot delete: %d associated %s exist", count, what))
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	ae, ok := As(err)
	return ok && ae.Code == code
}

// FromDB translates storage errors into domain errors. Unknown errors pass
// through unchanged.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Wrap(CodeConflict, "A record with these values already exists", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Wrap(CodeConflict, "Referenced record is missing or still in use", err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(CodeNotFound, "Record not found", err)
	}
	return err
}
