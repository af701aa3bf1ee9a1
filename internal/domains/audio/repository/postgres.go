package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talenta-backend/internal/domains/audio"
	"talenta-backend/internal/domains/lifecycle"
	"talenta-backend/internal/shared/apperror"
	"talenta-backend/internal/shared/utils"
	"talenta-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) audio.Repository {
	return &postgresRepository{pool: pool}
}

const audioColumns = `
	id, owner_id, title, description, tags, status, category_id, sub_category_id,
	file_url, public_id, file_name, duration, segment_urls, segment_ids,
	cover_image, cover_image_id, published_at, created_at, updated_at`

func scanAudio(row pgx.Row) (*audio.Audio, error) {
	var a audio.Audio
	err := row.Scan(
		&a.ID, &a.OwnerID, &a.Title, &a.Description, &a.Tags, &a.Status, &a.CategoryID, &a.SubCategoryID,
		&a.FileURL, &a.PublicID, &a.FileName, &a.Duration, &a.SegmentURLs, &a.SegmentIDs,
		&a.CoverImage, &a.CoverImageID, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.Tags == nil {
		a.Tags = pq.StringArray{}
	}
	if a.SegmentURLs == nil {
		a.SegmentURLs = pq.StringArray{}
	}
	if a.SegmentIDs == nil {
		a.SegmentIDs = pq.StringArray{}
	}
	return &a, nil
}

func (r *postgresRepository) Create(ctx context.Context, a *audio.Audio) error {
	query := `
		INSERT INTO audios (
			owner_id, title, description, tags, status, category_id, sub_category_id,
			file_url, public_id, file_name, duration, segment_urls, segment_ids,
			cover_image, cover_image_id, published_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		a.OwnerID, a.Title, a.Description, a.Tags, a.Status, a.CategoryID, a.SubCategoryID,
		a.FileURL, a.PublicID, a.FileName, a.Duration, a.SegmentURLs, a.SegmentIDs,
		a.CoverImage, a.CoverImageID, a.PublishedAt,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "create audio")
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*audio.Audio, error) {
	return r.getOne(ctx, `SELECT `+audioColumns+` FROM audios WHERE id = $1`, id)
}

func (r *postgresRepository) GetByFileName(ctx context.Context, name string) (*audio.Audio, error) {
	query := `SELECT ` + audioColumns + ` FROM audios
		WHERE public_id = $1 OR regexp_replace(public_id, '^.*/', '') = $1
		ORDER BY created_at DESC LIMIT 1`
	return r.getOne(ctx, query, name)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg any) (*audio.Audio, error) {
	a, err := scanAudio(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, audio.ErrAudioNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get audio: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) List(ctx context.Context, filter audio.ListFilter) ([]audio.Audio, int64, error) {
	w := &utils.Where{}
	w.Search(filter.Search, "title", "description")
	if filter.OwnerID != nil {
		w.Add("owner_id = ?", *filter.OwnerID)
	}
	if len(filter.Statuses) > 0 {
		w.Add("status = ANY(?)", lifecycle.Strings(filter.Statuses))
	}
	if filter.CategoryID != nil {
		w.Add("category_id = ?", *filter.CategoryID)
	}
	if filter.SubCategoryID != nil {
		w.Add("sub_category_id = ?", *filter.SubCategoryID)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audios`+w.SQL(), w.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audio: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM audios%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		audioColumns, w.SQL(), w.Next(), w.Next()+1)
	args := append(w.Args(), filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audio: %w", err)
	}
	defer rows.Close()

	items := []audio.Audio{}
	for rows.Next() {
		a, err := scanAudio(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan audio: %w", err)
		}
		items = append(items, *a)
	}
	return items, total, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, a *audio.Audio) error {
	query := `
		UPDATE audios SET
			title = $2, description = $3, tags = $4, category_id = $5, sub_category_id = $6,
			duration = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		a.ID, a.Title, a.Description, a.Tags, a.CategoryID, a.SubCategoryID, a.Duration,
	).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return audio.ErrAudioNotFound
	}
	if err != nil {
		return mapWriteError(err, "update audio")
	}
	return nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to lifecycle.Status, publishedAt *time.Time) error {
	return r.execIfStatus(ctx, "update audio status", id,
		`UPDATE audios SET status = $3, published_at = $4, updated_at = NOW() WHERE id = $1 AND status = $2`,
		id, from, to, publishedAt)
}

func (r *postgresRepository) UpdateSegments(ctx context.Context, id uuid.UUID, urls, ids []string) error {
	return r.exec(ctx, "update audio segments",
		`UPDATE audios SET segment_urls = $2, segment_ids = $3, updated_at = NOW() WHERE id = $1`,
		id, pq.StringArray(urls), pq.StringArray(ids))
}

func (r *postgresRepository) UpdateAsset(ctx context.Context, a *audio.Audio) error {
	return r.exec(ctx, "update audio asset",
		`UPDATE audios SET file_url = $2, public_id = $3, file_name = $4, updated_at = NOW() WHERE id = $1`,
		a.ID, a.FileURL, a.PublicID, a.FileName)
}

func (r *postgresRepository) PublishAsset(ctx context.Context, a *audio.Audio, from lifecycle.Status) error {
	return r.execIfStatus(ctx, "publish audio asset", a.ID,
		`UPDATE audios SET file_url = $3, public_id = $4, file_name = $5, status = $6, published_at = $7, updated_at = NOW()
		 WHERE id = $1 AND status = $2`,
		a.ID, from, a.FileURL, a.PublicID, a.FileName, a.Status, a.PublishedAt)
}

// Delete removes the audio inside a transaction so the part identifiers
// collected beforehand match what the cascade removed.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) ([]string, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) ([]string, error) {
		rows, err := tx.Query(ctx, `
			SELECT p.public_id FROM audio_parts p
			JOIN audio_chapters c ON c.id = p.chapter_id
			WHERE c.audio_id = $1 AND p.public_id IS NOT NULL AND p.public_id <> ''`, id)
		if err != nil {
			return nil, fmt.Errorf("collect audio parts: %w", err)
		}
		parts, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return nil, fmt.Errorf("collect audio parts: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM audios WHERE id = $1`, id)
		if err != nil {
			return nil, fmt.Errorf("delete audio: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, audio.ErrAudioNotFound
		}
		return parts, nil
	})
}

func (r *postgresRepository) exec(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return audio.ErrAudioNotFound
	}
	return nil
}

// execIfStatus runs a write guarded by the expected status. When nothing
// matched it tells a missing row apart from a status that moved on.
func (r *postgresRepository) execIfStatus(ctx context.Context, op string, id uuid.UUID, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM audios WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return audio.ErrAudioNotFound
	}
	return audio.ErrStatusChanged
}

func mapWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return apperror.Validation("Category or subcategory does not exist").WithCause(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
