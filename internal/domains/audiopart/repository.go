package audiopart

import (
	"context"

	"talenta-backend/internal/domains/lifecycle"
	"talenta-backend/internal/domains/ordering"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Part) error
	GetByID(ctx context.Context, id uuid.UUID) (*Part, error)
	ListByChapter(ctx context.Context, chapterID uuid.UUID, statuses []lifecycle.Status) ([]Part, error)
	Update(ctx context.Context, p *Part) error

	Siblings(ctx context.Context, chapterID uuid.UUID) ([]ordering.Sibling, error)
	Delete(ctx context.Context, chapterID, id uuid.UUID) error
	Reorder(ctx context.Context, chapterID uuid.UUID, ids []uuid.UUID) ([]ordering.Sibling, error)
}
