package chapter

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// CreateChapterRequest leaves Order nil to append after the last chapter.
type CreateChapterRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Order   *int   `json:"order"`
	Status  string `json:"status"`
}

func (r CreateChapterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("Title is required"), validation.Length(1, 255)),
	)
}

type UpdateChapterRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Order   *int    `json:"order"`
	Status  *string `json:"status"`
}

func (r UpdateChapterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("Title cannot be empty"), validation.Length(1, 255)),
	)
}

// ReorderRequest lists every chapter of the book in its new order.
type ReorderRequest struct {
	ChapterIDs []string `json:"chapterIds"`
}

func (r ReorderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ChapterIDs, validation.Required.Error("chapterIds must be a non-empty array")),
	)
}

type ListOptions struct {
	BookID             uuid.UUID
	IncludeUnpublished bool
}
