package category

import (
	"context"

	"github.com/google/uuid"
)

// Resolver validates the category/subcategory pair asserted on content.
type Resolver interface {
	ValidateAssignment(ctx context.Context, categoryID, subCategoryID *uuid.UUID) error
}

type Service interface {
	Resolver

	Tree(ctx context.Context, includeInactive bool) ([]Category, error)
	Get(ctx context.Context, id uuid.UUID) (*Category, error)
	Create(ctx context.Context, req CreateCategoryRequest) (*Category, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*Category, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*Category, error)
	Delete(ctx context.Context, id uuid.UUID) error

	CreateSubCategory(ctx context.Context, categoryID uuid.UUID, req CreateSubCategoryRequest) (*SubCategory, error)
	UpdateSubCategory(ctx context.Context, id uuid.UUID, req UpdateSubCategoryRequest) (*SubCategory, error)
	DeleteSubCategory(ctx context.Context, id uuid.UUID) error

	// CanDelete reports whether no content references the node, with the
	// live usage count.
	CanDelete(ctx context.Context, id uuid.UUID, sub bool) (bool, Usage, error)
}
