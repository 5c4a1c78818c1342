package utils

import (
	"errors"
	"net/http"
)

// AppError is an operational error: an expected failure (bad input,
// not-found, forbidden, duplicate, bad credentials) that carries an HTTP
// status and a user-safe message surfaced verbatim to the caller.
// Anything that is not an AppError is treated as a programming or unknown
// error and rendered as a generic 500 in production.
type AppError struct {
	StatusCode int
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

// NewAppError creates an operational error with an explicit status code
func NewAppError(statusCode int, message string) *AppError {
	return &AppError{StatusCode: statusCode, Message: message}
}

// BadRequest creates a 400 operational error
func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

// Unauthorized creates a 401 operational error
func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message)
}

// Forbidden creates a 403 operational error
func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message)
}

// NotFound creates a 404 operational error
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message)
}

// Conflict creates a 409 operational error
func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, message)
}

// AsAppError unwraps err into an AppError if it is one
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
