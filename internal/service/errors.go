package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// The API layer maps each of them to an HTTP status.
var (
	// ErrNotOwned indicates a resource is owned by a different farmer than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrInvalidCredentials is returned by Login for an unknown e-mail or a wrong password.
	// The two cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmptyQuestion is returned when a typed question is blank.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrUnsupportedLanguage is returned for a question language other than en or zu.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrInvalidLimit is returned for a history page size outside 1..MaxHistoryLimit.
	ErrInvalidLimit = errors.New("invalid limit")

	// ErrSynthesisFailed is returned when speech synthesis produced no usable audio.
	ErrSynthesisFailed = errors.New("speech synthesis failed")
)

// ServiceError adds the failing service and operation to an error.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
	}
	return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Err: err}
}
