package audiochapter

import "talenta-backend/internal/shared/apperror"

var (
	ErrChapterNotFound = apperror.NotFound("Audio chapter not found")
	ErrInvalidIDs      = apperror.Validation("chapterIds must contain valid UUIDs")
)
