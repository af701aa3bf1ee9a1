package category

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

type CreateCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Color       *string `json:"color"`
	SortOrder   int     `json:"sortOrder"`
	IsActive    *bool   `json:"isActive"`
}

func (r CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, 100)),
		validation.Field(&r.Description, validation.NilOrNotEmpty, validation.Length(0, 1000)),
		validation.Field(&r.Image, validation.NilOrNotEmpty, is.URL),
		validation.Field(&r.Color, validation.NilOrNotEmpty, validation.Match(hexColor).Error("must be a hex color")),
		validation.Field(&r.SortOrder, validation.Min(0), validation.Max(9999)),
	)
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Color       *string `json:"color"`
	SortOrder   *int    `json:"sortOrder"`
}

func (r UpdateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
		validation.Field(&r.Image, validation.NilOrNotEmpty, is.URL),
		validation.Field(&r.Color, validation.NilOrNotEmpty, validation.Match(hexColor).Error("must be a hex color")),
		validation.Field(&r.SortOrder, validation.Min(0), validation.Max(9999)),
	)
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

func (r SetActiveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IsActive, validation.NotNil.Error("isActive is required")),
	)
}

type CreateSubCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	SortOrder   int     `json:"sortOrder"`
	IsActive    *bool   `json:"isActive"`
}

func (r CreateSubCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
		validation.Field(&r.SortOrder, validation.Min(0), validation.Max(9999)),
	)
}

// UpdateSubCategoryRequest rejects categoryId: a subcategory cannot move
// to another category.
type UpdateSubCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sortOrder"`
	IsActive    *bool   `json:"isActive"`
	CategoryID  *string `json:"categoryId"`
}

func (r UpdateSubCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
		validation.Field(&r.SortOrder, validation.Min(0), validation.Max(9999)),
		validation.Field(&r.CategoryID, validation.Nil.Error("categoryId cannot be changed")),
	)
}
