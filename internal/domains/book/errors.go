package book

import "talenta-backend/internal/shared/apperror"

var (
	ErrBookNotFound = apperror.NotFound("Book not found or you do not have permission.")
	ErrNoBookFile   = apperror.NotFound("This book has no downloadable file.")
	ErrInvalidCover = apperror.Validation("Invalid cover image")
	ErrInvalidID    = apperror.Validation("Invalid category or subcategory id")
)
