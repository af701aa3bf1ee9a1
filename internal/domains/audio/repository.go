package audio

import (
	"context"
	"time"

	"talenta-backend/internal/domains/lifecycle"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Audio) error
	GetByID(ctx context.Context, id uuid.UUID) (*Audio, error)
	// GetByFileName finds the audio whose storage key, or the last path
	// element of it, is exactly name.
	GetByFileName(ctx context.Context, name string) (*Audio, error)
	List(ctx context.Context, filter ListFilter) ([]Audio, int64, error)
	// Update writes the metadata columns.
	Update(ctx context.Context, a *Audio) error
	// UpdateStatus moves the audio from status from to status to. It
	// returns ErrStatusChanged when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to lifecycle.Status, publishedAt *time.Time) error
	UpdateSegments(ctx context.Context, id uuid.UUID, urls, ids []string) error
	// UpdateAsset points the audio at a new primary asset. The status is
	// not written.
	UpdateAsset(ctx context.Context, a *Audio) error
	// PublishAsset points the audio at a new primary asset and writes
	// a.Status and a.PublishedAt in the same statement, provided the stored
	// status is still from. Otherwise nothing is written and
	// ErrStatusChanged is returned.
	PublishAsset(ctx context.Context, a *Audio, from lifecycle.Status) error
	// Delete removes the audio with its chapters and parts and returns the
	// blob identifiers of the deleted parts.
	Delete(ctx context.Context, id uuid.UUID) ([]string, error)
}
