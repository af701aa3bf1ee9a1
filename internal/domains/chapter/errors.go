package chapter

import "talenta-backend/internal/shared/apperror"

var (
	ErrChapterNotFound = apperror.NotFound("Chapter not found")
	ErrInvalidIDs      = apperror.Validation("chapterIds must contain valid UUIDs")
)
