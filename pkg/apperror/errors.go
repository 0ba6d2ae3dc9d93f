package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer.
type Kind string

const (
	KindValidation          Kind = "validation"
	KindPermissionDenied    Kind = "permission_denied"
	KindReferentialConflict Kind = "referential_conflict"
	KindNotFound            Kind = "not_found"
	KindAuthentication      Kind = "authentication_failure"
	KindTooManyAttempts     Kind = "too_many_attempts"
	KindInternal            Kind = "internal"
)

// Error is a client-facing error. Fields carries per-field messages for
// validation failures.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// WithField returns the same error with one more field message attached.
func (e *Error) WithField(name, message string) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[name]; !exists {
		e.Fields[name] = message
	}
	return e
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

func PermissionDenied(format string, args ...interface{}) *Error {
	return newError(KindPermissionDenied, format, args...)
}

func ReferentialConflict(format string, args ...interface{}) *Error {
	return newError(KindReferentialConflict, format, args...)
}

// NotFound reports that resource does not exist or is not visible to the caller.
func NotFound(resource string) *Error {
	return newError(KindNotFound, "%s not found", resource)
}

func Authentication(format string, args ...interface{}) *Error {
	return newError(KindAuthentication, format, args...)
}

func TooManyAttempts(format string, args ...interface{}) *Error {
	return newError(KindTooManyAttempts, format, args...)
}

// KindOf returns the kind of err, or KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
