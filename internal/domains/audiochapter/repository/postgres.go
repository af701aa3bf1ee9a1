package repository

import (
	"context"
	"errors"
	"fmt"

	"talenta-backend/internal/domains/audiochapter"
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

func NewPostgresRepository(pool *pgxpool.Pool, order *ordering.Store) audiochapter.Repository {
	return &postgresRepository{pool: pool, order: order}
}

const chapterColumns = `
	c.id, c.audio_id, c.author_id, c.title, c.description, c."order", c.status, c.duration, c.word_count,
	(SELECT COUNT(*) FROM audio_parts p WHERE p.chapter_id = c.id),
	c.published_at, c.created_at, c.updated_at`

func scanChapter(row pgx.Row) (*audiochapter.AudioChapter, error) {
	var ch audiochapter.AudioChapter
	err := row.Scan(
		&ch.ID, &ch.AudioID, &ch.AuthorID, &ch.Title, &ch.Description, &ch.Order, &ch.Status, &ch.Duration, &ch.WordCount,
		&ch.PartCount,
		&ch.PublishedAt, &ch.CreatedAt, &ch.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *postgresRepository) Create(ctx context.Context, ch *audiochapter.AudioChapter) error {
	query := `
		INSERT INTO audio_chapters (audio_id, author_id, title, description, "order", status, duration, word_count, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		ch.AudioID, ch.AuthorID, ch.Title, ch.Description, ch.Order, ch.Status, ch.Duration, ch.WordCount, ch.PublishedAt,
	).Scan(&ch.ID, &ch.CreatedAt, &ch.UpdatedAt)
	if err != nil {
		if mapped := ordering.MapInsertError(ordering.AudioChapters, err); mapped != err {
			return mapped
		}
		return fmt.Errorf("create audio chapter: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*audiochapter.AudioChapter, error) {
	ch, err := scanChapter(r.pool.QueryRow(ctx, `SELECT `+chapterColumns+` FROM audio_chapters c WHERE c.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, audiochapter.ErrChapterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get audio chapter: %w", err)
	}
	return ch, nil
}

func (r *postgresRepository) ListByAudio(ctx context.Context, audioID uuid.UUID, statuses []lifecycle.Status) ([]audiochapter.AudioChapter, error) {
	query := `SELECT ` + chapterColumns + ` FROM audio_chapters c WHERE c.audio_id = $1`
	args := []any{audioID}
	if len(statuses) > 0 {
		query += ` AND c.status = ANY($2)`
		args = append(args, lifecycle.Strings(statuses))
	}
	query += ` ORDER BY c."order" ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audio chapters: %w", err)
	}
	defer rows.Close()

	var out []audiochapter.AudioChapter
	for rows.Next() {
		ch, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audio chapter: %w", err)
		}
		out = append(out, *ch)
	}
	return out, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, ch *audiochapter.AudioChapter) error {
	query := `
		UPDATE audio_chapters
		SET title = $2, description = $3, "order" = $4, status = $5, duration = $6, word_count = $7,
		    published_at = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		ch.ID, ch.Title, ch.Description, ch.Order, ch.Status, ch.Duration, ch.WordCount, ch.PublishedAt,
	).Scan(&ch.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return audiochapter.ErrChapterNotFound
	}
	if err != nil {
		if mapped := ordering.MapInsertError(ordering.AudioChapters, err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update audio chapter: %w", err)
	}
	return nil
}

func (r *postgresRepository) Siblings(ctx context.Context, audioID uuid.UUID) ([]ordering.Sibling, error) {
	return r.order.Siblings(ctx, ordering.AudioChapters, audioID)
}

// Delete collects the part blobs inside the delete transaction; the parts
// themselves go with the chapter through the foreign key cascade.
func (r *postgresRepository) Delete(ctx context.Context, audioID, id uuid.UUID) ([]string, error) {
	var blobs []string
	err := r.order.DeleteAndDensify(ctx, ordering.AudioChapters, audioID, id, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT public_id FROM audio_parts WHERE chapter_id = $1 AND public_id IS NOT NULL AND public_id <> ''`, id)
		if err != nil {
			return fmt.Errorf("collect part files: %w", err)
		}
		blobs, err = pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("collect part files: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blobs, nil
}

func (r *postgresRepository) Reorder(ctx context.Context, audioID uuid.UUID, ids []uuid.UUID) ([]ordering.Sibling, error) {
	return r.order.Reorder(ctx, ordering.AudioChapters, audioID, ids)
}
