package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"user not found", ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{"wrapped recipe not found", fmt.Errorf("list: %w", ErrRecipeNotFound), http.StatusNotFound, "RECIPE_NOT_FOUND"},
		{"duplicate email", ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
		{"duplicate favorite", ErrDuplicateFavorite, http.StatusConflict, "DUPLICATE_FAVORITE"},
		{"invalid credential", ErrInvalidCredential, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"password too long", ErrPasswordTooLong, http.StatusBadRequest, "PASSWORD_TOO_LONG"},
		{"missing grade", ErrMissingGrade, http.StatusBadRequest, "MISSING_GRADE"},
		{"invalid grade", ErrInvalidGrade, http.StatusBadRequest, "INVALID_GRADE"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"removal failed", ErrRemovalFailed, http.StatusInternalServerError, "REMOVAL_FAILED"},
		{"partial sync wins over storage", fmt.Errorf("%w: %w", ErrPartialSync, Storage("save recipe", errors.New("io"))), http.StatusInternalServerError, "PARTIAL_SYNC"},
		{"storage", Storage("find user", errors.New("connection refused")), http.StatusInternalServerError, "STORAGE_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.Code)
		})
	}
}

func TestStorageKeepsCauseButHidesIt(t *testing.T) {
	cause := errors.New("connection refused")
	err := Storage("find user", cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, MapErrorToHTTP(err).Message, "connection refused")
}
