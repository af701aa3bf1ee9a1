package audiopart

import "talenta-backend/internal/shared/apperror"

var (
	ErrPartNotFound = apperror.NotFound("Audio part not found")
	ErrInvalidIDs   = apperror.Validation("partIds must contain valid UUIDs")
)
