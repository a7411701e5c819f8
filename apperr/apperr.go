package apperr

import (
	"errors"
	"net/http"
)

// Error carries a client-facing message together with the HTTP status the
// handlers should answer with.
type Error struct {
	Message string
	Code    int
}

func (e *Error) Error() string {
	return e.Message
}

func New(message string, code int) *Error {
	return &Error{Message: message, Code: code}
}

// Validation is a business-rule violation detected before any external call.
func Validation(message string) *Error {
	return &Error{Message: message, Code: http.StatusUnprocessableEntity}
}

func NotFound(message string) *Error {
	return &Error{Message: message, Code: http.StatusNotFound}
}

// Gateway wraps a collaborator failure (payment processor, catalog, store).
func Gateway(message string) *Error {
	return &Error{Message: message, Code: http.StatusInternalServerError}
}

func Unauthorized(message string) *Error {
	return &Error{Message: message, Code: http.StatusUnauthorized}
}

// CodeOf extracts the HTTP status for err, defaulting to 500.
func CodeOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-facing message for err. Non-taxonomy errors
// are masked so internal details never leak into responses.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
