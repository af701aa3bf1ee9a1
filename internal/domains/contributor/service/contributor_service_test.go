package service

import (
	"context"
	"net/http"
	"testing"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/book"
	"talenta-backend/internal/domains/contributor"
	"talenta-backend/internal/domains/lifecycle"
	"talenta-backend/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type key struct{ book, user uuid.UUID }

type fakeRepo struct {
	rows map[key]*contributor.Contributor
}

func (f *fakeRepo) Get(_ context.Context, bookID, userID uuid.UUID) (*contributor.Contributor, error) {
	c, ok := f.rows[key{bookID, userID}]
	if !ok {
		return nil, contributor.ErrContributorNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) ListByBook(_ context.Context, bookID uuid.UUID) ([]contributor.Contributor, error) {
	var out []contributor.Contributor
	for k, c := range f.rows {
		if k.book == bookID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepo) Upsert(_ context.Context, c *contributor.Contributor) error {
	cp := *c
	f.rows[key{c.BookID, c.UserID}] = &cp
	return nil
}

func (f *fakeRepo) SetStatus(ctx context.Context, bookID, userID uuid.UUID, status access.ContributorStatus) (*contributor.Contributor, error) {
	c, ok := f.rows[key{bookID, userID}]
	if !ok {
		return nil, contributor.ErrContributorNotFound
	}
	c.Status = status
	return f.Get(ctx, bookID, userID)
}

type fakeBooks map[uuid.UUID]*book.Book

func (f fakeBooks) GetByID(_ context.Context, id uuid.UUID) (*book.Book, error) {
	b, ok := f[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return b, nil
}

func user(role access.Role) *access.Actor {
	return &access.Actor{UserID: uuid.New(), Role: role, IsActive: true}
}

func TestContributionFlow(t *testing.T) {
	ctx := context.Background()
	owner, writer := user(access.RoleCreator), user(access.RoleUser)

	open := &book.Book{ID: uuid.New(), OwnerID: owner.UserID, Status: lifecycle.StatusPublished, AllowChapterContributions: true}
	closed := &book.Book{ID: uuid.New(), OwnerID: owner.UserID, Status: lifecycle.StatusPublished}
	draft := &book.Book{ID: uuid.New(), OwnerID: owner.UserID, Status: lifecycle.StatusDraft, AllowChapterContributions: true}
	books := fakeBooks{open.ID: open, closed.ID: closed, draft.ID: draft}

	repo := &fakeRepo{rows: map[key]*contributor.Contributor{}}
	svc := NewContributorService(repo, books)

	t.Run("request is pending", func(t *testing.T) {
		c, err := svc.Request(ctx, writer, open.ID)
		require.NoError(t, err)
		assert.Equal(t, access.ContributorPending, c.Status)

		_, err = svc.Request(ctx, writer, open.ID)
		assert.ErrorIs(t, err, contributor.ErrAlreadyRequested)
	})

	t.Run("request guards", func(t *testing.T) {
		_, err := svc.Request(ctx, owner, open.ID)
		assert.ErrorIs(t, err, contributor.ErrOwnBook)

		_, err = svc.Request(ctx, writer, closed.ID)
		assert.ErrorIs(t, err, contributor.ErrClosed)

		_, err = svc.Request(ctx, writer, draft.ID)
		assert.ErrorIs(t, err, book.ErrBookNotFound)

		_, err = svc.Request(ctx, nil, open.ID)
		assert.Equal(t, http.StatusUnauthorized, apperror.StatusOf(err))
	})

	t.Run("only the owner decides", func(t *testing.T) {
		approve := contributor.DecisionRequest{Status: access.ContributorApproved}

		_, err := svc.Decide(ctx, writer, open.ID, writer.UserID, approve)
		assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

		_, err = svc.Decide(ctx, owner, open.ID, writer.UserID, contributor.DecisionRequest{Status: access.ContributorPending})
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

		c, err := svc.Decide(ctx, owner, open.ID, writer.UserID, approve)
		require.NoError(t, err)
		assert.Equal(t, access.ContributorApproved, c.Status)

		status, err := svc.StatusOf(ctx, open.ID, writer.UserID)
		require.NoError(t, err)
		assert.Equal(t, access.ContributorApproved, status)
	})

	t.Run("rejected user may ask again", func(t *testing.T) {
		other := user(access.RoleUser)
		_, err := svc.Request(ctx, other, open.ID)
		require.NoError(t, err)
		_, err = svc.Decide(ctx, owner, open.ID, other.UserID, contributor.DecisionRequest{Status: access.ContributorRejected})
		require.NoError(t, err)

		c, err := svc.Request(ctx, other, open.ID)
		require.NoError(t, err)
		assert.Equal(t, access.ContributorPending, c.Status)
	})

	t.Run("listing", func(t *testing.T) {
		list, err := svc.List(ctx, owner, open.ID)
		require.NoError(t, err)
		assert.Len(t, list, 2)

		_, err = svc.List(ctx, writer, open.ID)
		assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

		_, err = svc.List(ctx, user(access.RoleAdmin), open.ID)
		assert.NoError(t, err)
	})

	t.Run("unknown contributor", func(t *testing.T) {
		status, err := svc.StatusOf(ctx, open.ID, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, status)
	})
}
