package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a service failure for the transport layer
type ErrorKind string

const (
	KindInvalidRequest ErrorKind = "invalid_request"
	KindNotFound       ErrorKind = "not_found"
	KindConflict       ErrorKind = "conflict"
	KindInternal       ErrorKind = "internal"
)

// AppError is a service failure with a caller-safe message.
// Err carries the underlying cause for logging and is never shown to callers.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewInvalidRequest reports malformed or missing input
func NewInvalidRequest(message string) *AppError {
	return &AppError{Kind: KindInvalidRequest, Message: message}
}

// NewNotFound reports a missing experience, slot or booking
func NewNotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// NewConflict reports a slot that is no longer available
func NewConflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// NewInternal wraps an unexpected store failure
func NewInternal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err; errors that are not AppErrors are internal
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
