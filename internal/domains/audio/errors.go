package audio

import "talenta-backend/internal/shared/apperror"

var (
	ErrAudioNotFound   = apperror.NotFound("Audio not found")
	ErrNoFile          = apperror.Validation("No audio file uploaded")
	ErrUnsupportedType = apperror.Validation("Unsupported audio type")
	ErrFileTooLarge    = apperror.Validation("Audio file is too large")
	ErrNothingToMerge  = apperror.Validation("Nothing to merge")
	ErrSegmentNotFound = apperror.NotFound("Segment not found")
	ErrNoPrimaryAsset  = apperror.NotFound("Audio has no playable file")
	ErrInvalidID       = apperror.Validation("Invalid category or subcategory id")
	ErrStatusChanged   = apperror.Conflict("Audio status was changed by another request, please retry")
)
