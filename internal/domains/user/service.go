package user

import (
	"context"

	"talenta-backend/internal/domains/access"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// IdentityService resolves the caller of a request. It satisfies
// middleware.IdentityLookup.
type IdentityService interface {
	GetIdentity(ctx context.Context, id uuid.UUID) (*access.Actor, error)
}

// AdminService is user management. Every method authorizes actor first.
type AdminService interface {
	List(ctx context.Context, actor *access.Actor, filter ListFilter) ([]User, int64, error)
	Stats(ctx context.Context, actor *access.Actor) (*Stats, error)
	Get(ctx context.Context, actor *access.Actor, id uuid.UUID) (*User, error)
	Update(ctx context.Context, actor *access.Actor, id uuid.UUID, req UpdateUserRequest) (*User, error)
	// Delete returns the removed account.
	Delete(ctx context.Context, actor *access.Actor, id uuid.UUID) (*User, error)
	Content(ctx context.Context, actor *access.Actor, id uuid.UUID, kind ContentType) (*Content, error)
	Export(ctx context.Context, actor *access.Actor, filter ListFilter) (*excelize.File, error)
}

type Service interface {
	IdentityService
	AdminService
}
