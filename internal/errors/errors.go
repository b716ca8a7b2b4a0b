package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when a referenced user or recipe does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUserNotFound is returned when a user id is unknown.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	// ErrRecipeNotFound is returned when no review aggregate exists for a recipe id.
	ErrRecipeNotFound = fmt.Errorf("recipe %w", ErrNotFound)
	// ErrDuplicateEmail is returned when registering an email that is already on file.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrDuplicateFavorite is returned when the recipe is already in the favorites list.
	ErrDuplicateFavorite = errors.New("recipe already in favorites")
	// ErrRemovalFailed is returned when a favorite is still present after removal.
	ErrRemovalFailed = errors.New("failed to remove favorite")
	// ErrInvalidCredential is returned for a wrong email/password pair or a wrong current password.
	ErrInvalidCredential = errors.New("invalid user or password")
	// ErrPasswordTooLong is returned when email salt and password together exceed what bcrypt reads.
	ErrPasswordTooLong = errors.New("email and password together exceed 72 bytes")
	// ErrMissingGrade is returned when a new review is submitted without a grade.
	ErrMissingGrade = errors.New("grade is required for a new review")
	// ErrInvalidGrade is returned when the resolved grade is absent or outside 1..5.
	ErrInvalidGrade = errors.New("grade must be an integer between 1 and 5")
	// ErrPartialSync is returned when only one side of a review write was persisted.
	ErrPartialSync = errors.New("review stored for user but not for recipe")
	// ErrStorage wraps any failure reported by the underlying store.
	ErrStorage = errors.New("storage error")
	// ErrForbidden is returned when the caller acts on another user's resources.
	ErrForbidden = errors.New("operation not allowed for this user")
)

// Storage wraps err as an ErrStorage, keeping the cause in the chain.
func Storage(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Storage causes are never echoed back to the client.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrRecipeNotFound):
		return NewHTTPError(http.StatusNotFound, ErrRecipeNotFound.Error(), "RECIPE_NOT_FOUND")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusConflict, ErrDuplicateEmail.Error(), "DUPLICATE_EMAIL")
	case errors.Is(err, ErrDuplicateFavorite):
		return NewHTTPError(http.StatusConflict, ErrDuplicateFavorite.Error(), "DUPLICATE_FAVORITE")
	case errors.Is(err, ErrInvalidCredential):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredential.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrPasswordTooLong):
		return NewHTTPError(http.StatusBadRequest, ErrPasswordTooLong.Error(), "PASSWORD_TOO_LONG")
	case errors.Is(err, ErrMissingGrade):
		return NewHTTPError(http.StatusBadRequest, ErrMissingGrade.Error(), "MISSING_GRADE")
	case errors.Is(err, ErrInvalidGrade):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidGrade.Error(), "INVALID_GRADE")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrRemovalFailed):
		return NewHTTPError(http.StatusInternalServerError, ErrRemovalFailed.Error(), "REMOVAL_FAILED")
	case errors.Is(err, ErrPartialSync):
		return NewHTTPError(http.StatusInternalServerError, ErrPartialSync.Error(), "PARTIAL_SYNC")
	case errors.Is(err, ErrStorage):
		return NewHTTPError(http.StatusInternalServerError, ErrStorage.Error(), "STORAGE_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
