package domain

import (
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound    ErrorCode = "NOT_FOUND"
	ErrCodeInvalidID   ErrorCode = "INVALID_ID"
	ErrCodeValidation  ErrorCode = "VALIDATION"
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	ErrCodeInternal    ErrorCode = "INTERNAL"
)

// AppError keeps domain level errors consistent.
type AppError struct {
	Code    ErrorCode
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewNotFoundError(message string, err error) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message, Status: http.StatusNotFound, Err: err}
}

func NewListingNotFoundError(err error) *AppError {
	return NewNotFoundError("listing not found", err)
}

func NewInvalidIDError(id string, err error) *AppError {
	return &AppError{Code: ErrCodeInvalidID, Message: "invalid listing id " + id, Status: http.StatusBadRequest, Err: err}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Status: http.StatusBadRequest}
}
