package repository

import (
	"context"
	"errors"
	"fmt"

	"talenta-backend/internal/domains/book"
	"talenta-backend/internal/domains/lifecycle"
	"talenta-backend/internal/shared/apperror"
	"talenta-backend/internal/shared/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) book.Repository {
	return &postgresRepository{pool: pool}
}

const bookColumns = `
	id, owner_id, title, author, description, isbn, tags, content, status,
	category_id, sub_category_id, cover_image, cover_image_id, book_file, book_file_id, book_file_name,
	read_url, allow_chapter_contributions, published_at, created_at, updated_at`

func scanBook(row pgx.Row) (*book.Book, error) {
	var b book.Book
	err := row.Scan(
		&b.ID, &b.OwnerID, &b.Title, &b.Author, &b.Description, &b.ISBN, &b.Tags, &b.Content, &b.Status,
		&b.CategoryID, &b.SubCategoryID, &b.CoverImage, &b.CoverImageID, &b.BookFile, &b.BookFileID, &b.BookFileName,
		&b.ReadURL, &b.AllowChapterContributions, &b.PublishedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return &b, nil
}

func (r *postgresRepository) Create(ctx context.Context, b *book.Book) error {
	query := `
		INSERT INTO books (
			owner_id, title, author, description, isbn, tags, content, status,
			category_id, sub_category_id, cover_image, cover_image_id, book_file, book_file_id, book_file_name,
			read_url, allow_chapter_contributions, published_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		b.OwnerID, b.Title, b.Author, b.Description, b.ISBN, b.Tags, b.Content, b.Status,
		b.CategoryID, b.SubCategoryID, b.CoverImage, b.CoverImageID, b.BookFile, b.BookFileID, b.BookFileName,
		b.ReadURL, b.AllowChapterContributions, b.PublishedAt,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "create book")
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	b, err := scanBook(r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, book.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

func (r *postgresRepository) List(ctx context.Context, filter book.ListFilter) ([]book.Book, int64, error) {
	w := &utils.Where{}
	w.Search(filter.Search, "title", "author", "description")
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
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`+w.SQL(), w.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	order := "published_at DESC NULLS LAST, created_at DESC"
	if filter.OwnerID != nil {
		order = "updated_at DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM books%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		bookColumns, w.SQL(), order, w.Next(), w.Next()+1)
	args := append(w.Args(), filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []book.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, *b)
	}
	return books, total, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, b *book.Book) error {
	query := `
		UPDATE books SET
			title = $2, author = $3, description = $4, isbn = $5, tags = $6, content = $7, status = $8,
			category_id = $9, sub_category_id = $10, cover_image = $11, cover_image_id = $12,
			book_file = $13, book_file_id = $14, book_file_name = $15, read_url = $16,
			allow_chapter_contributions = $17, published_at = $18, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		b.ID, b.Title, b.Author, b.Description, b.ISBN, b.Tags, b.Content, b.Status,
		b.CategoryID, b.SubCategoryID, b.CoverImage, b.CoverImageID,
		b.BookFile, b.BookFileID, b.BookFileName, b.ReadURL,
		b.AllowChapterContributions, b.PublishedAt,
	).Scan(&b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return book.ErrBookNotFound
	}
	if err != nil {
		return mapWriteError(err, "update book")
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

func mapWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return apperror.Validation("Category or subcategory does not exist").WithCause(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
