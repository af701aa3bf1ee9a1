package user

import (
	"context"

	"talenta-backend/internal/domains/access"

	"github.com/google/uuid"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetIdentity(ctx context.Context, id uuid.UUID) (*access.Actor, error)
	List(ctx context.Context, filter ListFilter) ([]User, int64, error)
	Stats(ctx context.Context) (*Stats, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error

	EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	PhoneTaken(ctx context.Context, phone string, excludeID uuid.UUID) (bool, error)

	ListBooks(ctx context.Context, ownerID uuid.UUID) ([]BookSummary, error)
	ListAudio(ctx context.Context, ownerID uuid.UUID) ([]AudioSummary, error)
}
