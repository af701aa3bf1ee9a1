package repository

import (
	"context"
	"errors"
	"fmt"

	"talenta-backend/internal/domains/category"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueCategoryName    = "uq_categories_name"
	uniqueSubCategoryName = "uq_sub_categories_category_id_name"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) category.Repository {
	return &postgresRepository{pool: pool}
}

const categoryColumns = `id, name, description, image, color, sort_order, is_active, created_at, updated_at`

func scanCategory(row pgx.Row) (*category.Category, error) {
	var c category.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Image, &c.Color,
		&c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.SubCategories = []category.SubCategory{}
	return &c, nil
}

func (r *postgresRepository) CreateCategory(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (name, description, image, color, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, c.Name, c.Description, c.Image, c.Color, c.SortOrder, c.IsActive).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "create category")
	}
	return nil
}

func (r *postgresRepository) GetCategory(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	c, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *postgresRepository) ListCategories(ctx context.Context, includeInactive bool) ([]category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if !includeInactive {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY sort_order ASC, name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []category.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (r *postgresRepository) UpdateCategory(ctx context.Context, c *category.Category) error {
	query := `
		UPDATE categories
		SET name = $2, description = $3, image = $4, color = $5, sort_order = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, c.ID, c.Name, c.Description, c.Image, c.Color, c.SortOrder).
		Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return category.ErrCategoryNotFound
	}
	if err != nil {
		return mapWriteError(err, "update category")
	}
	return nil
}

func (r *postgresRepository) SetCategoryActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set category active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

func (r *postgresRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

// CategoryUsage counts content referencing the category directly or
// through one of its subcategories.
func (r *postgresRepository) CategoryUsage(ctx context.Context, id uuid.UUID) (category.Usage, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM books
			  WHERE category_id = $1
			     OR sub_category_id IN (SELECT id FROM sub_categories WHERE category_id = $1)),
			(SELECT COUNT(*) FROM audios
			  WHERE category_id = $1
			     OR sub_category_id IN (SELECT id FROM sub_categories WHERE category_id = $1))`

	var u category.Usage
	if err := r.pool.QueryRow(ctx, query, id).Scan(&u.Books, &u.Audios); err != nil {
		return u, fmt.Errorf("count category usage: %w", err)
	}
	return u, nil
}

const subCategoryColumns = `id, name, description, category_id, sort_order, is_active, created_at, updated_at`

func scanSubCategory(row pgx.Row) (*category.SubCategory, error) {
	var s category.SubCategory
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.CategoryID,
		&s.SortOrder, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepository) CreateSubCategory(ctx context.Context, s *category.SubCategory) error {
	query := `
		INSERT INTO sub_categories (name, description, category_id, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, s.Name, s.Description, s.CategoryID, s.SortOrder, s.IsActive).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "create subcategory")
	}
	return nil
}

func (r *postgresRepository) GetSubCategory(ctx context.Context, id uuid.UUID) (*category.SubCategory, error) {
	query := `SELECT ` + subCategoryColumns + ` FROM sub_categories WHERE id = $1`

	s, err := scanSubCategory(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, category.ErrSubCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subcategory: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) ListSubCategories(ctx context.Context, categoryIDs []uuid.UUID, includeInactive bool) ([]category.SubCategory, error) {
	query := `SELECT ` + subCategoryColumns + ` FROM sub_categories WHERE category_id = ANY($1)`
	if !includeInactive {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY sort_order ASC, name ASC`

	rows, err := r.pool.Query(ctx, query, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var subs []category.SubCategory
	for rows.Next() {
		s, err := scanSubCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		subs = append(subs, *s)
	}
	return subs, rows.Err()
}

// UpdateSubCategory never writes category_id.
func (r *postgresRepository) UpdateSubCategory(ctx context.Context, s *category.SubCategory) error {
	query := `
		UPDATE sub_categories
		SET name = $2, description = $3, sort_order = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, s.ID, s.Name, s.Description, s.SortOrder, s.IsActive).
		Scan(&s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return category.ErrSubCategoryNotFound
	}
	if err != nil {
		return mapWriteError(err, "update subcategory")
	}
	return nil
}

func (r *postgresRepository) DeleteSubCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sub_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return category.ErrSubCategoryNotFound
	}
	return nil
}

func (r *postgresRepository) SubCategoryUsage(ctx context.Context, id uuid.UUID) (category.Usage, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM books WHERE sub_category_id = $1),
			(SELECT COUNT(*) FROM audios WHERE sub_category_id = $1)`

	var u category.Usage
	if err := r.pool.QueryRow(ctx, query, id).Scan(&u.Books, &u.Audios); err != nil {
		return u, fmt.Errorf("count subcategory usage: %w", err)
	}
	return u, nil
}

func mapWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505" && pgErr.ConstraintName == uniqueCategoryName:
			return category.ErrCategoryNameExists
		case pgErr.Code == "23505" && pgErr.ConstraintName == uniqueSubCategoryName:
			return category.ErrSubCategoryNameExists
		case pgErr.Code == "23503":
			return category.ErrCategoryNotFound
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
