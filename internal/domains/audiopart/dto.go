package audiopart

import (
	"talenta-backend/internal/domains/audiochapter"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// CreateRequest is bound from JSON or from the multipart form carrying the
// part's "audio" file.
type CreateRequest struct {
	Title       *string `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
	Order       *int    `json:"order" form:"order"`
	Status      string  `json:"status" form:"status"`
	Duration    *string `json:"duration" form:"duration"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(0, 255)),
		validation.Field(&r.Duration, validation.By(audiochapter.DecimalString)),
	)
}

type UpdateRequest struct {
	Title       *string `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
	Order       *int    `json:"order" form:"order"`
	Status      *string `json:"status" form:"status"`
	Duration    *string `json:"duration" form:"duration"`
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(0, 255)),
		validation.Field(&r.Duration, validation.By(audiochapter.DecimalString)),
	)
}

type ReorderRequest struct {
	PartIDs []string `json:"partIds"`
}

func (r ReorderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PartIDs, validation.Required.Error("partIds must be a non-empty array")),
	)
}

type ListOptions struct {
	ChapterID          uuid.UUID
	IncludeUnpublished bool
}
