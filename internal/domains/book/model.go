// Package book holds books: a top-level content item with an optional
// cover image, an optional book file and an ordered list of chapters.
package book

import (
	"time"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/lifecycle"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const DefaultAuthor = "Unknown Author"

type Book struct {
	ID                        uuid.UUID        `json:"id"`
	OwnerID                   uuid.UUID        `json:"userId"`
	Title                     string           `json:"title"`
	Author                    string           `json:"author"`
	Description               *string          `json:"description,omitempty"`
	ISBN                      *string          `json:"isbn,omitempty"`
	Tags                      pq.StringArray   `json:"tags"`
	Content                   string           `json:"content"`
	Status                    lifecycle.Status `json:"status"`
	CategoryID                *uuid.UUID       `json:"categoryId,omitempty"`
	SubCategoryID             *uuid.UUID       `json:"subCategoryId,omitempty"`
	CoverImage                *string          `json:"coverImage,omitempty"`
	CoverImageID              *string          `json:"coverImagePublicId,omitempty"`
	BookFile                  *string          `json:"bookFile,omitempty"`
	BookFileID                *string          `json:"bookFilePublicId,omitempty"`
	BookFileName              *string          `json:"bookFileName,omitempty"`
	ReadURL                   *string          `json:"readUrl,omitempty"`
	AllowChapterContributions bool             `json:"allowChapterContributions"`
	PublishedAt               *time.Time       `json:"publishedAt,omitempty"`
	CreatedAt                 time.Time        `json:"createdAt"`
	UpdatedAt                 time.Time        `json:"updatedAt"`
}

// Resource is the book as seen by the access layer.
func (b *Book) Resource() access.Resource {
	return access.Content(b.OwnerID, b.Status)
}

// ListFilter selects books. OwnerID restricts to one owner; Statuses, when
// set, restricts to those states.
type ListFilter struct {
	Page          int
	Limit         int
	Search        string
	CategoryID    *uuid.UUID
	SubCategoryID *uuid.UUID
	OwnerID       *uuid.UUID
	Statuses      []lifecycle.Status
}
