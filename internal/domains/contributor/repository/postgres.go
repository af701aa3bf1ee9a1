package repository

import (
	"context"
	"errors"
	"fmt"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/contributor"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) contributor.Repository {
	return &postgresRepository{pool: pool}
}

const contributorColumns = `
	bc.book_id, bc.user_id, bc.status, u.first_name, u.last_name, u.email, bc.created_at, bc.updated_at`

const contributorFrom = ` FROM book_contributors bc JOIN users u ON u.id = bc.user_id`

func scanContributor(row pgx.Row) (*contributor.Contributor, error) {
	var c contributor.Contributor
	if err := row.Scan(&c.BookID, &c.UserID, &c.Status, &c.FirstName, &c.LastName, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) Get(ctx context.Context, bookID, userID uuid.UUID) (*contributor.Contributor, error) {
	query := `SELECT ` + contributorColumns + contributorFrom + ` WHERE bc.book_id = $1 AND bc.user_id = $2`

	c, err := scanContributor(r.pool.QueryRow(ctx, query, bookID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contributor.ErrContributorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contributor: %w", err)
	}
	return c, nil
}

func (r *postgresRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]contributor.Contributor, error) {
	query := `SELECT ` + contributorColumns + contributorFrom + ` WHERE bc.book_id = $1 ORDER BY bc.created_at ASC`

	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("list contributors: %w", err)
	}
	defer rows.Close()

	var out []contributor.Contributor
	for rows.Next() {
		c, err := scanContributor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contributor: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *postgresRepository) Upsert(ctx context.Context, c *contributor.Contributor) error {
	query := `
		INSERT INTO book_contributors (book_id, user_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (book_id, user_id) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
		RETURNING created_at, updated_at`

	if err := r.pool.QueryRow(ctx, query, c.BookID, c.UserID, c.Status).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("upsert contributor: %w", err)
	}
	return nil
}

func (r *postgresRepository) SetStatus(ctx context.Context, bookID, userID uuid.UUID, status access.ContributorStatus) (*contributor.Contributor, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE book_contributors SET status = $3, updated_at = NOW() WHERE book_id = $1 AND user_id = $2`,
		bookID, userID, status)
	if err != nil {
		return nil, fmt.Errorf("update contributor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, contributor.ErrContributorNotFound
	}
	return r.Get(ctx, bookID, userID)
}
