package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"talenta-backend/internal/domains/category"
	"talenta-backend/internal/shared/apperror"
	"talenta-backend/pkg/cache"
	"talenta-backend/pkg/logger"

	"github.com/google/uuid"
)

const (
	treeCacheKey      = "categories:tree"
	adminTreeCacheKey = "categories:tree:all"
	cachePattern      = "categories:*"
	treeCacheTTL      = 10 * time.Minute
)

type categoryService struct {
	repo  category.Repository
	cache cache.Cache
}

func NewCategoryService(repo category.Repository, c cache.Cache) category.Service {
	return &categoryService{repo: repo, cache: c}
}

// ValidateAssignment checks the pair a content item asserts. A lone
// subcategory is accepted on its own; a lone category must exist and be
// active.
func (s *categoryService) ValidateAssignment(ctx context.Context, categoryID, subCategoryID *uuid.UUID) error {
	var cat *category.Category
	if categoryID != nil {
		c, err := s.repo.GetCategory(ctx, *categoryID)
		if errors.Is(err, category.ErrCategoryNotFound) {
			return category.ErrAssignedCategory
		}
		if err != nil {
			return err
		}
		if !c.IsActive {
			return category.ErrInactiveCategory
		}
		cat = c
	}

	if subCategoryID == nil {
		return nil
	}

	sub, err := s.repo.GetSubCategory(ctx, *subCategoryID)
	if errors.Is(err, category.ErrSubCategoryNotFound) {
		return category.ErrAssignedSubCategory
	}
	if err != nil {
		return err
	}
	if !sub.IsActive {
		return category.ErrInactiveSubCategory
	}
	if cat != nil && sub.CategoryID != cat.ID {
		return category.ErrSubCategoryMismatch
	}
	return nil
}

// Tree returns categories with their subcategories, both ordered by
// sortOrder. The public tree is cached until the next taxonomy write.
func (s *categoryService) Tree(ctx context.Context, includeInactive bool) ([]category.Category, error) {
	key := treeCacheKey
	if includeInactive {
		key = adminTreeCacheKey
	}
	return cache.GetOrLoad(ctx, s.cache, key, treeCacheTTL, func(ctx context.Context) ([]category.Category, error) {
		return s.loadTree(ctx, includeInactive)
	})
}

func (s *categoryService) loadTree(ctx context.Context, includeInactive bool) ([]category.Category, error) {
	cats, err := s.repo.ListCategories(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return cats, nil
	}

	ids := make([]uuid.UUID, len(cats))
	index := make(map[uuid.UUID]int, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
		index[c.ID] = i
	}

	subs, err := s.repo.ListSubCategories(ctx, ids, includeInactive)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if i, ok := index[sub.CategoryID]; ok {
			cats[i].SubCategories = append(cats[i].SubCategories, sub)
		}
	}
	return cats, nil
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	subs, err := s.repo.ListSubCategories(ctx, []uuid.UUID{id}, true)
	if err != nil {
		return nil, err
	}
	if subs != nil {
		c.SubCategories = subs
	}
	return c, nil
}

func (s *categoryService) Create(ctx context.Context, req category.CreateCategoryRequest) (*category.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	c := &category.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Image:       req.Image,
		Color:       req.Color,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	logger.Info("Category created", map[string]interface{}{"category_id": c.ID.String(), "name": c.Name})
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req category.UpdateCategoryRequest) (*category.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.Image != nil {
		c.Image = req.Image
	}
	if req.Color != nil {
		c.Color = req.Color
	}
	if req.SortOrder != nil {
		c.SortOrder = *req.SortOrder
	}

	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

// SetActive is the soft delete: inactive nodes disappear from the public
// tree and can no longer be assigned.
func (s *categoryService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*category.Category, error) {
	if err := s.repo.SetCategoryActive(ctx, id, active); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.GetCategory(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	ok, usage, err := s.CanDelete(ctx, id, false)
	if err != nil {
		return err
	}
	if !ok {
		return category.ErrInUse("category", usage)
	}

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	logger.Info("Category deleted", map[string]interface{}{"category_id": id.String()})
	return nil
}

func (s *categoryService) CreateSubCategory(ctx context.Context, categoryID uuid.UUID, req category.CreateSubCategoryRequest) (*category.SubCategory, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	if _, err := s.repo.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	sub := &category.SubCategory{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CategoryID:  categoryID,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.repo.CreateSubCategory(ctx, sub); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return sub, nil
}

func (s *categoryService) UpdateSubCategory(ctx context.Context, id uuid.UUID, req category.UpdateSubCategoryRequest) (*category.SubCategory, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	sub, err := s.repo.GetSubCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		sub.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		sub.Description = req.Description
	}
	if req.SortOrder != nil {
		sub.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateSubCategory(ctx, sub); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return sub, nil
}

func (s *categoryService) DeleteSubCategory(ctx context.Context, id uuid.UUID) error {
	ok, usage, err := s.CanDelete(ctx, id, true)
	if err != nil {
		return err
	}
	if !ok {
		return category.ErrInUse("subcategory", usage)
	}

	if err := s.repo.DeleteSubCategory(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// CanDelete uses a live count on every call.
func (s *categoryService) CanDelete(ctx context.Context, id uuid.UUID, sub bool) (bool, category.Usage, error) {
	var (
		usage category.Usage
		err   error
	)
	if sub {
		if _, err = s.repo.GetSubCategory(ctx, id); err != nil {
			return false, usage, err
		}
		usage, err = s.repo.SubCategoryUsage(ctx, id)
	} else {
		if _, err = s.repo.GetCategory(ctx, id); err != nil {
			return false, usage, err
		}
		usage, err = s.repo.CategoryUsage(ctx, id)
	}
	if err != nil {
		return false, usage, err
	}
	return usage.Total() == 0, usage, nil
}

func (s *categoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, cachePattern); err != nil {
		logger.Error("Failed to invalidate category cache", err)
	}
}
