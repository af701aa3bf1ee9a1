// Package category holds the two-level taxonomy (categories and their
// subcategories) and resolves content assignments against it.
package category

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Description   *string       `json:"description,omitempty"`
	Image         *string       `json:"image,omitempty"`
	Color         *string       `json:"color,omitempty"`
	SortOrder     int           `json:"sortOrder"`
	IsActive      bool          `json:"isActive"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	SubCategories []SubCategory `json:"subCategories"`
}

// SubCategory belongs to exactly one Category. CategoryID never changes
// after creation.
type SubCategory struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CategoryID  uuid.UUID `json:"categoryId"`
	SortOrder   int       `json:"sortOrder"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Usage is the live number of content items referencing a node.
type Usage struct {
	Books  int64 `json:"books"`
	Audios int64 `json:"audios"`
}

func (u Usage) Total() int64 {
	return u.Books + u.Audios
}
