// Package audiopart holds the ordered, individually playable parts of an
// audio chapter.
package audiopart

import (
	"time"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/lifecycle"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Part struct {
	ID          uuid.UUID        `json:"id"`
	ChapterID   uuid.UUID        `json:"chapterId"`
	AuthorID    uuid.UUID        `json:"authorId"`
	Title       *string          `json:"title"`
	Description *string          `json:"description,omitempty"`
	Order       int              `json:"order"`
	Status      lifecycle.Status `json:"status"`
	FileName    *string          `json:"fileName,omitempty"`
	PublicID    *string          `json:"publicId,omitempty"`
	FileURL     *string          `json:"fileUrl,omitempty"`
	Duration    decimal.Decimal  `json:"duration"`
	PublishedAt *time.Time       `json:"publishedAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// ParentStatus folds the audio and chapter states into the single parent
// state a part's visibility depends on: a hidden audio hides every part.
func ParentStatus(audioStatus, chapterStatus lifecycle.Status) lifecycle.Status {
	if !lifecycle.IsPublic(audioStatus) {
		return audioStatus
	}
	return chapterStatus
}

func (p *Part) Resource(ownerID uuid.UUID, parentStatus lifecycle.Status) access.Resource {
	return access.Child(ownerID, p.Status, parentStatus, p.AuthorID)
}

// Blob is the identifier of the part's stored file, "" when it has none.
func (p *Part) Blob() string {
	if p.PublicID == nil {
		return ""
	}
	return *p.PublicID
}

type ChapterRef struct {
	ID      uuid.UUID        `json:"id"`
	AudioID uuid.UUID        `json:"audioId"`
	Title   string           `json:"title"`
	Status  lifecycle.Status `json:"status"`
}

type Listing struct {
	Chapter ChapterRef `json:"chapter"`
	Parts   []Part     `json:"parts"`
}
