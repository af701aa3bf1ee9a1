// Package audio holds audio items: a primary asset, an ordered list of
// uploaded segments that can be merged into it, and ordered chapters.
package audio

import (
	"time"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/lifecycle"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Audio struct {
	ID            uuid.UUID        `json:"id"`
	OwnerID       uuid.UUID        `json:"userId"`
	Title         string           `json:"title"`
	Description   *string          `json:"description,omitempty"`
	Tags          pq.StringArray   `json:"tags"`
	Status        lifecycle.Status `json:"status"`
	CategoryID    *uuid.UUID       `json:"categoryId,omitempty"`
	SubCategoryID *uuid.UUID       `json:"subCategoryId,omitempty"`
	FileURL       string           `json:"fileUrl"`
	PublicID      string           `json:"publicId"`
	FileName      *string          `json:"fileName,omitempty"`
	Duration      decimal.Decimal  `json:"duration"`
	// SegmentURLs and SegmentIDs are index-aligned: segment i has URL
	// SegmentURLs[i] and identifier SegmentIDs[i].
	SegmentURLs  pq.StringArray `json:"segmentUrls"`
	SegmentIDs   pq.StringArray `json:"segmentIds"`
	CoverImage   *string        `json:"coverImage,omitempty"`
	CoverImageID *string        `json:"coverImagePublicId,omitempty"`
	PublishedAt  *time.Time     `json:"publishedAt,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (a *Audio) Resource() access.Resource {
	return access.Content(a.OwnerID, a.Status)
}

// Sources is the ordered merge input: the primary asset followed by every
// segment.
func (a *Audio) Sources() []string {
	sources := make([]string, 0, len(a.SegmentIDs)+1)
	if a.PublicID != "" {
		sources = append(sources, a.PublicID)
	}
	return append(sources, a.SegmentIDs...)
}

// Blobs lists every stored object the audio item references directly.
func (a *Audio) Blobs() []string {
	out := append([]string{a.PublicID}, a.SegmentIDs...)
	if a.CoverImageID != nil {
		out = append(out, *a.CoverImageID)
	}
	return out
}

type ListFilter struct {
	Page          int
	Limit         int
	Search        string
	CategoryID    *uuid.UUID
	SubCategoryID *uuid.UUID
	OwnerID       *uuid.UUID
	Statuses      []lifecycle.Status
}

// MergeResult is the outcome of a merge. Warning is set when a publish
// went ahead without the merge.
type MergeResult struct {
	Audio   *Audio `json:"audio"`
	Merged  bool   `json:"merged"`
	Warning string `json:"-"`
}

// PublishResult reports whether a background merge was queued.
type PublishResult struct {
	Audio       *Audio `json:"audio"`
	MergeQueued bool   `json:"mergeQueued"`
	Warning     string `json:"-"`
}

// StreamSource points at the object to stream.
type StreamSource struct {
	Identifier  string
	FileName    string
	ContentType string
}
