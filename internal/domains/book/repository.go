package book

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*Book, error)
	List(ctx context.Context, filter ListFilter) ([]Book, int64, error)
	Update(ctx context.Context, b *Book) error
	// Delete removes the book; chapters and contributor rows cascade.
	Delete(ctx context.Context, id uuid.UUID) error
}
