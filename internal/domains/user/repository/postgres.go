package repository

import (
	"context"
	"errors"
	"fmt"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/user"
	"talenta-backend/internal/shared/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueEmail = "users_email_key"
	uniquePhone = "users_phone_key"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

const userColumns = `
	u.id, u.first_name, u.last_name, u.email, u.phone, u.role, u.is_active, u.is_verified,
	u.bio, u.location, u.profile_picture, u.last_login, u.created_at, u.updated_at,
	(SELECT COUNT(*) FROM books b WHERE b.owner_id = u.id),
	(SELECT COUNT(*) FROM audios a WHERE a.owner_id = u.id)`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	counts := &user.ContentCounts{}
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Role, &u.IsActive, &u.IsVerified,
		&u.Bio, &u.Location, &u.ProfilePicture, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
		&counts.Books, &counts.Audios,
	)
	if err != nil {
		return nil, err
	}
	u.Counts = counts
	return &u, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetIdentity reads only what the access layer needs.
func (r *postgresRepository) GetIdentity(ctx context.Context, id uuid.UUID) (*access.Actor, error) {
	var actor access.Actor
	err := r.pool.QueryRow(ctx, `SELECT id, role, is_active FROM users WHERE id = $1`, id).
		Scan(&actor.UserID, &actor.Role, &actor.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}
	return &actor, nil
}

func buildFilter(filter user.ListFilter) *utils.Where {
	w := &utils.Where{}
	w.Search(filter.Search, "u.first_name", "u.last_name", "u.email", "u.phone")
	if filter.Role != "" {
		w.Add("u.role = ?", filter.Role)
	}
	switch filter.Status {
	case user.StatusActive:
		w.Add("u.is_active = true")
	case user.StatusInactive:
		w.Add("u.is_active = false")
	case user.StatusVerified:
		w.Add("u.is_verified = true")
	case user.StatusUnverified:
		w.Add("u.is_verified = false")
	}
	return w
}

func (r *postgresRepository) List(ctx context.Context, filter user.ListFilter) ([]user.User, int64, error) {
	w := buildFilter(filter)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+w.SQL(), w.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM users u%s ORDER BY u.%s %s LIMIT $%d OFFSET $%d`,
		userColumns, w.SQL(), filter.SortColumn(), filter.SortOrder, w.Next(), w.Next()+1)
	args := append(w.Args(), filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *postgresRepository) Stats(ctx context.Context) (*user.Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE is_verified),
			COUNT(*) FILTER (WHERE role = 'CREATOR'),
			COUNT(*) FILTER (WHERE role = 'MODERATOR'),
			COUNT(*) FILTER (WHERE role = 'ADMIN')
		FROM users`

	var s user.Stats
	err := r.pool.QueryRow(ctx, query).Scan(
		&s.TotalUsers, &s.ActiveUsers, &s.VerifiedUsers, &s.Creators, &s.Moderators, &s.Admins)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return &s, nil
}

func (r *postgresRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users SET
			first_name = $2, last_name = $3, email = $4, phone = $5, bio = $6, location = $7,
			role = $8, is_verified = $9, is_active = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		u.ID, u.FirstName, u.LastName, u.Email, u.Phone, u.Bio, u.Location,
		u.Role, u.IsVerified, u.IsActive,
	).Scan(&u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.ErrUserNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case uniqueEmail:
				return user.ErrEmailExists
			case uniquePhone:
				return user.ErrPhoneExists
			}
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete removes the account. Books, audio and their children go with it
// through ON DELETE CASCADE.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) AND id <> $2)`, email, excludeID)
}

func (r *postgresRepository) PhoneTaken(ctx context.Context, phone string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE phone = $1 AND id <> $2)`, phone, excludeID)
}

func (r *postgresRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var found bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&found); err != nil {
		return false, fmt.Errorf("check uniqueness: %w", err)
	}
	return found, nil
}

func (r *postgresRepository) ListBooks(ctx context.Context, ownerID uuid.UUID) ([]user.BookSummary, error) {
	query := `
		SELECT id, title, description, status, category_id, sub_category_id, cover_image, created_at, updated_at
		FROM books WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list user books: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (user.BookSummary, error) {
		var b user.BookSummary
		err := row.Scan(&b.ID, &b.Title, &b.Description, &b.Status, &b.CategoryID, &b.SubCategoryID,
			&b.CoverImage, &b.CreatedAt, &b.UpdatedAt)
		return b, err
	})
}

func (r *postgresRepository) ListAudio(ctx context.Context, ownerID uuid.UUID) ([]user.AudioSummary, error) {
	query := `
		SELECT id, title, description, status, category_id, sub_category_id, duration, file_url, created_at
		FROM audios WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list user audio: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (user.AudioSummary, error) {
		var a user.AudioSummary
		err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Status, &a.CategoryID, &a.SubCategoryID,
			&a.Duration, &a.FileURL, &a.CreatedAt)
		return a, err
	})
}
