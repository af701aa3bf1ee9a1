package contributor

import (
	"context"

	"talenta-backend/internal/domains/access"

	"github.com/google/uuid"
)

type Repository interface {
	// Get returns ErrContributorNotFound when the user never asked.
	Get(ctx context.Context, bookID, userID uuid.UUID) (*Contributor, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]Contributor, error)
	// Upsert creates the row or overwrites its status.
	Upsert(ctx context.Context, c *Contributor) error
	SetStatus(ctx context.Context, bookID, userID uuid.UUID, status access.ContributorStatus) (*Contributor, error)
}
