package category

import (
	"fmt"

	"talenta-backend/internal/shared/apperror"
)

var (
	ErrCategoryNotFound      = apperror.NotFound("Category not found")
	ErrSubCategoryNotFound   = apperror.NotFound("Subcategory not found")
	ErrCategoryNameExists    = apperror.Conflict("Category name already exists")
	ErrSubCategoryNameExists = apperror.Conflict("Subcategory name already exists in this category")

	// Assignment failures are validation errors of the content being written.
	ErrSubCategoryMismatch = apperror.Validation("subcategory does not belong to category")
	ErrAssignedCategory    = apperror.Validation("Category does not exist")
	ErrAssignedSubCategory = apperror.Validation("Subcategory does not exist")
	ErrInactiveCategory    = apperror.Validation("Category is not active")
	ErrInactiveSubCategory = apperror.Validation("Subcategory is not active")
)

func ErrInUse(kind string, usage Usage) error {
	return apperror.Conflict(fmt.Sprintf(
		"Cannot delete %s: it is used by %d book(s) and %d audio item(s)",
		kind, usage.Books, usage.Audios))
}
