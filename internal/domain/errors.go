package domain

import "errors"

// Errors shared by every entity. Entity-specific errors wrap or sit beside
// these and are declared next to their type.
var (
	// ErrValidation marks input rejected before it reaches storage.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidFormat marks a value that could not be parsed.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrInvalidID marks a malformed farmer, query or scan ID.
	ErrInvalidID = errors.New("invalid ID")
	// ErrUnauthorized marks an action the caller's role does not allow.
	ErrUnauthorized = errors.New("not permitted for this role")
)
