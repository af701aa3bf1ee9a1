package contributor

import (
	"context"

	"talenta-backend/internal/domains/access"

	"github.com/google/uuid"
)

// Lookup answers the one question the chapter rules need.
type Lookup interface {
	// StatusOf returns the user's contributor status on the book, or ""
	// when there is none.
	StatusOf(ctx context.Context, bookID, userID uuid.UUID) (access.ContributorStatus, error)
}

type Service interface {
	Lookup

	Request(ctx context.Context, actor *access.Actor, bookID uuid.UUID) (*Contributor, error)
	List(ctx context.Context, actor *access.Actor, bookID uuid.UUID) ([]Contributor, error)
	Decide(ctx context.Context, actor *access.Actor, bookID, userID uuid.UUID, req DecisionRequest) (*Contributor, error)
}
