// Package audiochapter holds the ordered chapters of an audio item.
package audiochapter

import (
	"time"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/lifecycle"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AudioChapter struct {
	ID          uuid.UUID        `json:"id"`
	AudioID     uuid.UUID        `json:"audioId"`
	AuthorID    uuid.UUID        `json:"authorId"`
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	Order       int              `json:"order"`
	Status      lifecycle.Status `json:"status"`
	Duration    decimal.Decimal  `json:"duration"`
	WordCount   int              `json:"wordCount"`
	PartCount   int              `json:"partCount"`
	PublishedAt *time.Time       `json:"publishedAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Resource describes the chapter inside an audio owned by ownerID with the
// given status.
func (c *AudioChapter) Resource(ownerID uuid.UUID, audioStatus lifecycle.Status) access.Resource {
	return access.Child(ownerID, c.Status, audioStatus, c.AuthorID)
}

// AudioRef is the audio summary returned with a chapter listing.
type AudioRef struct {
	ID     uuid.UUID        `json:"id"`
	Title  string           `json:"title"`
	Status lifecycle.Status `json:"status"`
}

type Listing struct {
	Audio    AudioRef       `json:"audio"`
	Chapters []AudioChapter `json:"chapters"`
}
