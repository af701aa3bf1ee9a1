package audiochapter

import (
	"context"

	"talenta-backend/internal/domains/lifecycle"
	"talenta-backend/internal/domains/ordering"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, ch *AudioChapter) error
	GetByID(ctx context.Context, id uuid.UUID) (*AudioChapter, error)
	// ListByAudio returns the chapters by order. An empty statuses returns
	// every state.
	ListByAudio(ctx context.Context, audioID uuid.UUID, statuses []lifecycle.Status) ([]AudioChapter, error)
	Update(ctx context.Context, ch *AudioChapter) error

	Siblings(ctx context.Context, audioID uuid.UUID) ([]ordering.Sibling, error)
	// Delete removes the chapter with its parts, renumbers the remaining
	// chapters and returns the blob identifiers of the deleted parts.
	Delete(ctx context.Context, audioID, id uuid.UUID) ([]string, error)
	Reorder(ctx context.Context, audioID uuid.UUID, ids []uuid.UUID) ([]ordering.Sibling, error)
}
