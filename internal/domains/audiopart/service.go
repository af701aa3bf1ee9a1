package audiopart

import (
	"context"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/ordering"
	"talenta-backend/internal/infrastructure/storage"

	"github.com/google/uuid"
)

type Service interface {
	// Create stores a part; file is optional.
	Create(ctx context.Context, actor *access.Actor, chapterID uuid.UUID, req CreateRequest, file *storage.File) (*Part, error)
	List(ctx context.Context, actor *access.Actor, opts ListOptions) (*Listing, error)
	Get(ctx context.Context, actor *access.Actor, id uuid.UUID) (*Part, error)
	// Update replaces the stored file when file is non-nil.
	Update(ctx context.Context, actor *access.Actor, id uuid.UUID, req UpdateRequest, file *storage.File) (*Part, error)
	Delete(ctx context.Context, actor *access.Actor, id uuid.UUID) error
	Reorder(ctx context.Context, actor *access.Actor, chapterID uuid.UUID, req ReorderRequest) ([]ordering.Sibling, error)
}
