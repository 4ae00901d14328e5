package common

import (
	"errors"
	"net/http"
)

// Error codes shared across handlers and services.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeStoreUnavailable    = "STORE_UNAVAILABLE"
	CodeBadRequest          = "BAD_REQUEST"
	CodeInternal            = "INTERNAL"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}

// NotFound builds a NOT_FOUND error for a missing entity reference.
func NotFound(message string, err error) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound, Err: err}
}

// Validation builds a VALIDATION error; the request is rejected before touching the store.
func Validation(message string, details any) *AppError {
	return &AppError{Code: CodeValidation, Message: message, HTTPStatus: http.StatusUnprocessableEntity, Details: details}
}

// ConstraintViolation builds a CONSTRAINT_VIOLATION error naming the violated constraint.
func ConstraintViolation(constraint string, err error) *AppError {
	return &AppError{
		Code:       CodeConstraintViolation,
		Message:    "store constraint violated",
		HTTPStatus: http.StatusConflict,
		Err:        err,
		Details:    map[string]any{"constraint": constraint},
	}
}

// StoreUnavailable wraps a transient persistence failure. Retry policy belongs to the caller.
func StoreUnavailable(err error) *AppError {
	return &AppError{Code: CodeStoreUnavailable, Message: "store unavailable", HTTPStatus: http.StatusServiceUnavailable, Err: err}
}
