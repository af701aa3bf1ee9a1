package book

import (
	"context"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/infrastructure/storage"

	"github.com/google/uuid"
)

type Service interface {
	Create(ctx context.Context, actor *access.Actor, req CreateBookRequest, cover, file *storage.File) (*Book, error)
	ListPublished(ctx context.Context, filter ListFilter) ([]Book, int64, error)
	ListMine(ctx context.Context, actor *access.Actor, filter ListFilter) ([]Book, int64, error)
	Get(ctx context.Context, actor *access.Actor, id uuid.UUID) (*Book, error)
	Update(ctx context.Context, actor *access.Actor, id uuid.UUID, req UpdateBookRequest, cover, file *storage.File) (*Book, error)
	Delete(ctx context.Context, actor *access.Actor, id uuid.UUID) error
	Publish(ctx context.Context, actor *access.Actor, id uuid.UUID) (*Book, error)
	// DownloadURL returns a short-lived attachment URL for the book file.
	DownloadURL(ctx context.Context, actor *access.Actor, id uuid.UUID) (string, error)
}
