package chapter

import (
	"context"

	"talenta-backend/internal/domains/lifecycle"
	"talenta-backend/internal/domains/ordering"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, ch *Chapter) error
	GetByID(ctx context.Context, id uuid.UUID) (*Chapter, error)
	// ListByBook returns the book's chapters by order. An empty statuses
	// returns every state.
	ListByBook(ctx context.Context, bookID uuid.UUID, statuses []lifecycle.Status) ([]Chapter, error)
	Update(ctx context.Context, ch *Chapter) error

	Siblings(ctx context.Context, bookID uuid.UUID) ([]ordering.Sibling, error)
	// Delete removes the chapter and renumbers the rest in one transaction.
	Delete(ctx context.Context, bookID, id uuid.UUID) error
	Reorder(ctx context.Context, bookID uuid.UUID, ids []uuid.UUID) ([]ordering.Sibling, error)
}
