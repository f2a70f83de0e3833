package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error codes
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeNotFound           = "RESOURCE_NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeBadRequest         = "BAD_REQUEST"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeTimeout            = "TIMEOUT"
)

// Put-away error codes
const (
	CodePalletUnavailable        = "PALLET_UNAVAILABLE"
	CodeTaskNotFound             = "TASK_NOT_FOUND"
	CodeTaskNotInProgress        = "TASK_NOT_IN_PROGRESS"
	CodeConfirmationCodeMismatch = "CONFIRMATION_CODE_MISMATCH"
	CodeNoLocationAvailable      = "NO_LOCATION_AVAILABLE"
	CodeLocationNotFound         = "LOCATION_NOT_FOUND"
	CodeLocationCapacityExceeded = "LOCATION_CAPACITY_EXCEEDED"
)

// AppError represents an application error with HTTP status and error code
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a single detail to the error
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Wrap wraps an existing error
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

// NewAppError creates a new AppError
func NewAppError(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// ErrValidation creates a validation error
func ErrValidation(message string) *AppError {
	return NewAppError(CodeValidationError, message, http.StatusBadRequest)
}

// ErrNotFound creates a not found error
func ErrNotFound(resource string) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// ErrConflict creates a conflict error
func ErrConflict(message string) *AppError {
	return NewAppError(CodeConflict, message, http.StatusConflict)
}

// ErrInternal creates an internal error
func ErrInternal(message string) *AppError {
	if message == "" {
		message = "an internal error occurred"
	}
	return NewAppError(CodeInternalError, message, http.StatusInternalServerError)
}

// ErrBadRequest creates a bad request error
func ErrBadRequest(message string) *AppError {
	return NewAppError(CodeBadRequest, message, http.StatusBadRequest)
}

// ErrServiceUnavailable creates a service unavailable error
func ErrServiceUnavailable(service string) *AppError {
	return NewAppError(CodeServiceUnavailable, fmt.Sprintf("%s is temporarily unavailable", service), http.StatusServiceUnavailable)
}

// ErrTimeout creates a timeout error
func ErrTimeout(operation string) *AppError {
	return NewAppError(CodeTimeout, fmt.Sprintf("%s timed out", operation), http.StatusGatewayTimeout)
}

// ErrPalletUnavailable is returned when a pallet cannot be claimed
func ErrPalletUnavailable(palletID string) *AppError {
	return NewAppError(CodePalletUnavailable, "pallet is not waiting for put-away", http.StatusConflict).
		WithDetail("palletId", palletID)
}

// ErrTaskNotFound is returned when a task id does not resolve
func ErrTaskNotFound(taskID string) *AppError {
	return NewAppError(CodeTaskNotFound, "put-away task not found", http.StatusNotFound).
		WithDetail("taskId", taskID)
}

// ErrTaskNotInProgress is returned when a terminal task is completed or cancelled
func ErrTaskNotInProgress(taskID string) *AppError {
	return NewAppError(CodeTaskNotInProgress, "put-away task is not in progress", http.StatusConflict).
		WithDetail("taskId", taskID)
}

// ErrConfirmationCodeMismatch is returned when the operator code does not match the location
func ErrConfirmationCodeMismatch(locationID string) *AppError {
	return NewAppError(CodeConfirmationCodeMismatch, "confirmation code does not match location", http.StatusUnprocessableEntity).
		WithDetail("locationId", locationID)
}

// ErrNoLocationAvailable is returned when no active, available location exists
func ErrNoLocationAvailable() *AppError {
	return NewAppError(CodeNoLocationAvailable, "no storage location is available", http.StatusConflict)
}

// ErrLocationNotFound is returned when a location id does not resolve
func ErrLocationNotFound(locationID string) *AppError {
	return NewAppError(CodeLocationNotFound, "location not found", http.StatusNotFound).
		WithDetail("locationId", locationID)
}

// ErrLocationCapacityExceeded is returned when a location is already full
func ErrLocationCapacityExceeded(locationID string) *AppError {
	return NewAppError(CodeLocationCapacityExceeded, "location capacity exceeded", http.StatusConflict).
		WithDetail("locationId", locationID)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FromError converts a standard error to an AppError
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	return ErrInternal("").Wrap(err)
}
