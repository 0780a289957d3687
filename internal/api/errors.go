package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/agrinathi/agrinathi-api/internal/api/shared"
	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/service"
	"github.com/agrinathi/agrinathi-api/internal/service/auth"
	"github.com/agrinathi/agrinathi-api/internal/store"
	"github.com/agrinathi/agrinathi-api/internal/weather"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, domain.ErrScanImageTooLarge):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, domain.ErrUnsupportedImageType):
		return http.StatusUnsupportedMediaType

	case isBadRequest(err):
		return http.StatusBadRequest

	case errors.Is(err, weather.ErrUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

var badRequestErrors = []error{
	store.ErrInvalidEntity,
	domain.ErrValidation,
	domain.ErrInvalidFormat,
	domain.ErrInvalidID,
	domain.ErrEmptyEmail,
	domain.ErrInvalidEmail,
	domain.ErrEmptyFirstName,
	domain.ErrEmptyLastName,
	domain.ErrEmptyPhone,
	domain.ErrEmptyLocation,
	domain.ErrEmptyPassword,
	domain.ErrPasswordTooShort,
	domain.ErrPasswordTooLong,
	domain.ErrPasswordMismatch,
	domain.ErrInvalidRole,
	domain.ErrCannotDeleteSelf,
	domain.ErrInvalidCoordinates,
	domain.ErrEmptyScanImage,
	service.ErrEmptyQuestion,
	service.ErrUnsupportedLanguage,
	service.ErrInvalidLimit,
	service.ErrAudioTooSmall,
}

func isBadRequest(err error) bool {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// GetSafeErrorMessage returns a client-safe message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid email or password"

	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, domain.ErrUnauthorized):
		return "You do not have access to this resource"

	case errors.Is(err, store.ErrFarmerNotFound):
		return "User not found"
	case errors.Is(err, store.ErrScanNotFound):
		return "Plant scan not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already registered"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, domain.ErrPasswordMismatch):
		return "Passwords do not match"
	case errors.Is(err, domain.ErrPasswordTooShort):
		return fmt.Sprintf("Password must be at least %d characters long", domain.MinPasswordLength)
	case errors.Is(err, domain.ErrPasswordTooLong):
		return fmt.Sprintf("Password must be at most %d characters long", domain.MaxPasswordLength)
	case errors.Is(err, domain.ErrInvalidEmail):
		return "Invalid email format"
	case errors.Is(err, domain.ErrInvalidRole):
		return "Invalid role. Must be 'user' or 'admin'"
	case errors.Is(err, domain.ErrCannotDeleteSelf):
		return "Cannot delete your own account"
	case errors.Is(err, domain.ErrInvalidCoordinates):
		return "Invalid coordinates"

	case errors.Is(err, domain.ErrEmptyScanImage):
		return "No image provided"
	case errors.Is(err, domain.ErrScanImageTooLarge):
		return "Image is too large"
	case errors.Is(err, domain.ErrUnsupportedImageType):
		return "Unsupported image type. Use JPEG, PNG or WebP"

	case errors.Is(err, service.ErrEmptyQuestion):
		return "Question cannot be empty"
	case errors.Is(err, service.ErrUnsupportedLanguage):
		return "Unsupported language. Use 'zu' or 'en'"
	case errors.Is(err, service.ErrInvalidLimit):
		return fmt.Sprintf("Limit must be between 1 and %d", service.MaxHistoryLimit)
	case errors.Is(err, service.ErrAudioTooSmall):
		return "Audio data too small"

	case errors.Is(err, weather.ErrUnavailable):
		return "Weather data is temporarily unavailable"

	case isBadRequest(err):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps err to a status and safe message, logs the details
// and writes the error response.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		msg = defaultMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}

// SanitizeValidationError removes struct and field internals from a
// validator error and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "eqfield":
		return "does not match"
	case "latitude", "longitude":
		return "out of range"
	default:
		return "validation failed"
	}
}
