package category

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context, includeInactive bool) ([]Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	SetCategoryActive(ctx context.Context, id uuid.UUID, active bool) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CategoryUsage(ctx context.Context, id uuid.UUID) (Usage, error)

	CreateSubCategory(ctx context.Context, s *SubCategory) error
	GetSubCategory(ctx context.Context, id uuid.UUID) (*SubCategory, error)
	ListSubCategories(ctx context.Context, categoryIDs []uuid.UUID, includeInactive bool) ([]SubCategory, error)
	UpdateSubCategory(ctx context.Context, s *SubCategory) error
	DeleteSubCategory(ctx context.Context, id uuid.UUID) error
	SubCategoryUsage(ctx context.Context, id uuid.UUID) (Usage, error)
}
