package user

import (
	"net/http"

	"talenta-backend/internal/shared/apperror"
)

var (
	ErrUserNotFound       = apperror.NotFound("User not found")
	ErrEmailExists        = duplicate("Email already exists")
	ErrPhoneExists        = duplicate("Phone number already exists")
	ErrInvalidContentType = apperror.Validation("type must be one of all, books, audio")
)

// duplicate is a uniqueness conflict reported as 400.
func duplicate(message string) *apperror.Error {
	err := apperror.Conflict(message)
	err.Status = http.StatusBadRequest
	return err
}
