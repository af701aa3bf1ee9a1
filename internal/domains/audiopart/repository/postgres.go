package repository

import (
	"context"
	"errors"
	"fmt"

	"talenta-backend/internal/domains/audiopart"
	"talenta-backend/internal/domains/lifecycle"
	"talenta-backend/internal/domains/ordering"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool  *pgxpool.Pool
	order *ordering.Store
}

func NewPostgresRepository(pool *pgxpool.Pool, order *ordering.Store) audiopart.Repository {
	return &postgresRepository{pool: pool, order: order}
}

const partColumns = `
	id, chapter_id, author_id, title, description, "order", status,
	file_name, public_id, file_url, duration, published_at, created_at, updated_at`

func scanPart(row pgx.Row) (*audiopart.Part, error) {
	var p audiopart.Part
	err := row.Scan(
		&p.ID, &p.ChapterID, &p.AuthorID, &p.Title, &p.Description, &p.Order, &p.Status,
		&p.FileName, &p.PublicID, &p.FileURL, &p.Duration, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepository) Create(ctx context.Context, p *audiopart.Part) error {
	query := `
		INSERT INTO audio_parts (
			chapter_id, author_id, title, description, "order", status,
			file_name, public_id, file_url, duration, published_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.ChapterID, p.AuthorID, p.Title, p.Description, p.Order, p.Status,
		p.FileName, p.PublicID, p.FileURL, p.Duration, p.PublishedAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if mapped := ordering.MapInsertError(ordering.AudioParts, err); mapped != err {
			return mapped
		}
		return fmt.Errorf("create audio part: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*audiopart.Part, error) {
	p, err := scanPart(r.pool.QueryRow(ctx, `SELECT `+partColumns+` FROM audio_parts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, audiopart.ErrPartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get audio part: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) ListByChapter(ctx context.Context, chapterID uuid.UUID, statuses []lifecycle.Status) ([]audiopart.Part, error) {
	query := `SELECT ` + partColumns + ` FROM audio_parts WHERE chapter_id = $1`
	args := []any{chapterID}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		args = append(args, lifecycle.Strings(statuses))
	}
	query += ` ORDER BY "order" ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audio parts: %w", err)
	}
	defer rows.Close()

	var out []audiopart.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audio part: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, p *audiopart.Part) error {
	query := `
		UPDATE audio_parts
		SET title = $2, description = $3, "order" = $4, status = $5, file_name = $6, public_id = $7,
		    file_url = $8, duration = $9, published_at = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Title, p.Description, p.Order, p.Status, p.FileName, p.PublicID,
		p.FileURL, p.Duration, p.PublishedAt,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return audiopart.ErrPartNotFound
	}
	if err != nil {
		if mapped := ordering.MapInsertError(ordering.AudioParts, err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update audio part: %w", err)
	}
	return nil
}

func (r *postgresRepository) Siblings(ctx context.Context, chapterID uuid.UUID) ([]ordering.Sibling, error) {
	return r.order.Siblings(ctx, ordering.AudioParts, chapterID)
}

func (r *postgresRepository) Delete(ctx context.Context, chapterID, id uuid.UUID) error {
	return r.order.DeleteAndDensify(ctx, ordering.AudioParts, chapterID, id, nil)
}

func (r *postgresRepository) Reorder(ctx context.Context, chapterID uuid.UUID, ids []uuid.UUID) ([]ordering.Sibling, error) {
	return r.order.Reorder(ctx, ordering.AudioParts, chapterID, ids)
}
