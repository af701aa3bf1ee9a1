package chapter

import (
	"context"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/ordering"

	"github.com/google/uuid"
)

type Service interface {
	Create(ctx context.Context, actor *access.Actor, bookID uuid.UUID, req CreateChapterRequest) (*Chapter, error)
	List(ctx context.Context, actor *access.Actor, opts ListOptions) (*Listing, error)
	Get(ctx context.Context, actor *access.Actor, id uuid.UUID) (*Chapter, error)
	Update(ctx context.Context, actor *access.Actor, id uuid.UUID, req UpdateChapterRequest) (*Chapter, error)
	Delete(ctx context.Context, actor *access.Actor, id uuid.UUID) error
	Reorder(ctx context.Context, actor *access.Actor, bookID uuid.UUID, req ReorderRequest) ([]ordering.Sibling, error)
}
