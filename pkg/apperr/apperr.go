package apperr

import (
	"errors"
	"fmt"
)

// Code classifies an application error for HTTP mapping.
type Code int

const (
	CodeNotFound Code = iota + 1000
	CodeBadRequest
	CodeUnauthorized
	CodeForbidden
	CodeConflict
	CodeInternal
)

// Error is a coded application error.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(resource string, err error) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s not found", resource), Err: err}
}

func BadRequest(message string, err error) *Error {
	return &Error{Code: CodeBadRequest, Message: message, Err: err}
}

func Unauthorized(message string, err error) *Error {
	return &Error{Code: CodeUnauthorized, Message: message, Err: err}
}

func Forbidden(message string, err error) *Error {
	return &Error{Code: CodeForbidden, Message: message, Err: err}
}

func Conflict(message string, err error) *Error {
	return &Error{Code: CodeConflict, Message: message, Err: err}
}

func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "internal server error", Err: err}
}

// As unwraps err into *Error when possible.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
