// Package apperror defines the error taxonomy shared by services and the
// HTTP layer. Anything that is not an *Error is treated as unhandled.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an application error.
type Kind int

const (
	KindUnhandled Kind = iota
	KindNotFound
	KindConflict
	KindValidation
	KindBadRequest
	KindUpstream
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindBadRequest:
		return "bad_request"
	case KindUpstream:
		return "upstream"
	case KindTimeout:
		return "timeout"
	default:
		return "unhandled"
	}
}

// FieldError is a single failed constraint on an input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a typed application error.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	// Status is the upstream HTTP status for KindUpstream, zero otherwise.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports an unknown entity id.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a uniqueness violation.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// BadRequest reports malformed request parameters.
func BadRequest(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Validation aggregates field-level constraint failures. The per-field list is
// kept intact; Message joins it for callers that only need a string.
func Validation(fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Message: JoinFields(fields), Fields: fields}
}

// Upstream reports a failed call to an external dependency.
func Upstream(status int, err error, format string, args ...any) *Error {
	return &Error{Kind: KindUpstream, Status: status, Message: fmt.Sprintf(format, args...), Err: err}
}

// Timeout reports an external call that exceeded its deadline.
func Timeout(err error, format string, args ...any) *Error {
	return &Error{Kind: KindTimeout, Message: fmt.Sprintf(format, args...), Err: err}
}

// JoinFields renders fields as "Validation failed: a: msg, b: msg".
func JoinFields(fields []FieldError) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "Validation failed: " + strings.Join(parts, ", ")
}

// KindOf returns the kind of err, or KindUnhandled.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnhandled
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
