package repository

import (
	"context"
	"errors"
	"fmt"

	"talenta-backend/internal/domains/chapter"
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

func NewPostgresRepository(pool *pgxpool.Pool, order *ordering.Store) chapter.Repository {
	return &postgresRepository{pool: pool, order: order}
}

const chapterColumns = `
	c.id, c.book_id, c.author_id, c.title, c.content, c."order", c.status, c.word_count, c.reading_time,
	c.published_at, c.created_at, c.updated_at,
	u.id, u.first_name, u.last_name, u.profile_picture`

const chapterFrom = ` FROM chapters c LEFT JOIN users u ON u.id = c.author_id`

func scanChapter(row pgx.Row) (*chapter.Chapter, error) {
	var (
		ch        chapter.Chapter
		authorID  *uuid.UUID
		firstName *string
		lastName  *string
		picture   *string
	)
	err := row.Scan(
		&ch.ID, &ch.BookID, &ch.AuthorID, &ch.Title, &ch.Content, &ch.Order, &ch.Status, &ch.WordCount, &ch.ReadingTime,
		&ch.PublishedAt, &ch.CreatedAt, &ch.UpdatedAt,
		&authorID, &firstName, &lastName, &picture,
	)
	if err != nil {
		return nil, err
	}
	if authorID != nil {
		ch.Author = &chapter.Author{ID: *authorID, ProfilePicture: picture}
		if firstName != nil {
			ch.Author.FirstName = *firstName
		}
		if lastName != nil {
			ch.Author.LastName = *lastName
		}
	}
	return &ch, nil
}

func (r *postgresRepository) Create(ctx context.Context, ch *chapter.Chapter) error {
	query := `
		INSERT INTO chapters (book_id, author_id, title, content, "order", status, word_count, reading_time, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		ch.BookID, ch.AuthorID, ch.Title, ch.Content, ch.Order, ch.Status, ch.WordCount, ch.ReadingTime, ch.PublishedAt,
	).Scan(&ch.ID, &ch.CreatedAt, &ch.UpdatedAt)
	if err != nil {
		if mapped := ordering.MapInsertError(ordering.Chapters, err); mapped != err {
			return mapped
		}
		return fmt.Errorf("create chapter: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*chapter.Chapter, error) {
	ch, err := scanChapter(r.pool.QueryRow(ctx, `SELECT `+chapterColumns+chapterFrom+` WHERE c.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chapter.ErrChapterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get chapter: %w", err)
	}
	return ch, nil
}

func (r *postgresRepository) ListByBook(ctx context.Context, bookID uuid.UUID, statuses []lifecycle.Status) ([]chapter.Chapter, error) {
	query := `SELECT ` + chapterColumns + chapterFrom + ` WHERE c.book_id = $1`
	args := []any{bookID}
	if len(statuses) > 0 {
		query += ` AND c.status = ANY($2)`
		args = append(args, lifecycle.Strings(statuses))
	}
	query += ` ORDER BY c."order" ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer rows.Close()

	var out []chapter.Chapter
	for rows.Next() {
		ch, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		out = append(out, *ch)
	}
	return out, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, ch *chapter.Chapter) error {
	query := `
		UPDATE chapters
		SET title = $2, content = $3, "order" = $4, status = $5, word_count = $6, reading_time = $7,
		    published_at = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		ch.ID, ch.Title, ch.Content, ch.Order, ch.Status, ch.WordCount, ch.ReadingTime, ch.PublishedAt,
	).Scan(&ch.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return chapter.ErrChapterNotFound
	}
	if err != nil {
		if mapped := ordering.MapInsertError(ordering.Chapters, err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update chapter: %w", err)
	}
	return nil
}

func (r *postgresRepository) Siblings(ctx context.Context, bookID uuid.UUID) ([]ordering.Sibling, error) {
	return r.order.Siblings(ctx, ordering.Chapters, bookID)
}

func (r *postgresRepository) Delete(ctx context.Context, bookID, id uuid.UUID) error {
	return r.order.DeleteAndDensify(ctx, ordering.Chapters, bookID, id, nil)
}

func (r *postgresRepository) Reorder(ctx context.Context, bookID uuid.UUID, ids []uuid.UUID) ([]ordering.Sibling, error) {
	return r.order.Reorder(ctx, ordering.Chapters, bookID, ids)
}
