package diagnosis

import "errors"

// Common errors returned by diagnosers
var (
	// ErrDiagnosisFailed is returned when a photo could not be analysed for any general reason
	ErrDiagnosisFailed = errors.New("failed to diagnose plant image")

	// ErrInvalidResponse is returned when the model response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from vision model")

	// ErrContentBlocked is returned when the model blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by vision model safety filters")

	// ErrInvalidConfig is returned when the diagnoser configuration is invalid
	ErrInvalidConfig = errors.New("invalid diagnoser configuration")

	// ErrEmptyImage is returned when no image bytes are supplied
	ErrEmptyImage = errors.New("image cannot be empty")
)
