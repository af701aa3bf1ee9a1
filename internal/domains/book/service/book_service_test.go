package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"testing"
	"time"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/book"
	"talenta-backend/internal/domains/lifecycle"
	"talenta-backend/internal/infrastructure/storage"
	"talenta-backend/internal/infrastructure/storage/storagetest"
	"talenta-backend/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	books     map[uuid.UUID]*book.Book
	failWrite error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{books: map[uuid.UUID]*book.Book{}}
}

func (f *fakeRepo) Create(_ context.Context, b *book.Book) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	b.ID = uuid.New()
	b.CreatedAt, b.UpdatedAt = time.Now(), time.Now()
	cp := *b
	f.books[b.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*book.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, filter book.ListFilter) ([]book.Book, int64, error) {
	var out []book.Book
	for _, b := range f.books {
		if filter.OwnerID != nil && b.OwnerID != *filter.OwnerID {
			continue
		}
		if len(filter.Statuses) > 0 && b.Status != filter.Statuses[0] {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) Update(_ context.Context, b *book.Book) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	cp := *b
	f.books[b.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.books, id)
	return nil
}

type fakeResolver struct{ err error }

func (r fakeResolver) ValidateAssignment(context.Context, *uuid.UUID, *uuid.UUID) error {
	return r.err
}

func pngFile(t *testing.T) *storage.File {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 60))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &storage.File{Reader: &buf, Size: int64(buf.Len()), Name: "cover.png", ContentType: "image/png"}
}

func pdfFile(name string) *storage.File {
	data := []byte("%PDF-1.4 fake")
	return &storage.File{Reader: bytes.NewReader(data), Size: int64(len(data)), Name: name, ContentType: "application/pdf"}
}

func creator() *access.Actor {
	return &access.Actor{UserID: uuid.New(), Role: access.RoleCreator, IsActive: true}
}

func setup(resolverErr error) (*bookService, *fakeRepo, *storagetest.Store) {
	repo := newFakeRepo()
	blobs := storagetest.New()
	svc := NewBookService(repo, fakeResolver{err: resolverErr}, blobs, storage.NewImageProcessor(0), time.Minute).(*bookService)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return svc, repo, blobs
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		svc, _, _ := setup(nil)
		b, err := svc.Create(ctx, creator(), book.CreateBookRequest{Title: "  Dune ", Status: "bogus", Tags: "scifi, classic"}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "Dune", b.Title)
		assert.Equal(t, book.DefaultAuthor, b.Author)
		assert.Equal(t, lifecycle.StatusDraft, b.Status)
		assert.Nil(t, b.PublishedAt)
		assert.Equal(t, []string{"scifi", "classic"}, []string(b.Tags))
	})

	t.Run("published on create stamps publishedAt", func(t *testing.T) {
		svc, _, _ := setup(nil)
		b, err := svc.Create(ctx, creator(), book.CreateBookRequest{Title: "Dune", Status: "published"}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, lifecycle.StatusPublished, b.Status)
		require.NotNil(t, b.PublishedAt)
		assert.Equal(t, 2026, b.PublishedAt.Year())
	})

	t.Run("title required", func(t *testing.T) {
		svc, _, _ := setup(nil)
		_, err := svc.Create(ctx, creator(), book.CreateBookRequest{}, nil, nil)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
		require.NotEmpty(t, appErr.Fields)
		assert.Equal(t, "title", appErr.Fields[0].Field)
	})

	t.Run("anonymous and inactive callers", func(t *testing.T) {
		svc, _, _ := setup(nil)
		_, err := svc.Create(ctx, nil, book.CreateBookRequest{Title: "x"}, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, apperror.StatusOf(err))

		inactive := creator()
		inactive.IsActive = false
		_, err = svc.Create(ctx, inactive, book.CreateBookRequest{Title: "x"}, nil, nil)
		assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))
	})

	t.Run("uploads cover and file", func(t *testing.T) {
		svc, _, blobs := setup(nil)
		b, err := svc.Create(ctx, creator(), book.CreateBookRequest{Title: "Dune"}, pngFile(t), pdfFile("dune.pdf"))
		require.NoError(t, err)
		require.NotNil(t, b.CoverImageID)
		require.NotNil(t, b.BookFileID)
		assert.True(t, strings.HasPrefix(*b.CoverImageID, storage.FolderCovers+"/"))
		assert.True(t, strings.HasPrefix(*b.BookFileID, storage.FolderBooks+"/"))
		assert.True(t, blobs.Has(*b.CoverImageID))
		assert.Equal(t, "dune.pdf", *b.BookFileName)
		assert.Equal(t, *b.BookFile, *b.ReadURL)
	})

	t.Run("invalid cover is rejected before upload", func(t *testing.T) {
		svc, _, blobs := setup(nil)
		bad := &storage.File{Reader: strings.NewReader("not an image"), Name: "x.png"}
		_, err := svc.Create(ctx, creator(), book.CreateBookRequest{Title: "Dune"}, bad, nil)
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
		keys, _ := blobs.ListKeys(ctx, "")
		assert.Empty(t, keys)
	})

	t.Run("failed insert removes uploaded blobs", func(t *testing.T) {
		svc, repo, blobs := setup(nil)
		repo.failWrite = errors.New("db down")
		_, err := svc.Create(ctx, creator(), book.CreateBookRequest{Title: "Dune"}, pngFile(t), pdfFile("dune.pdf"))
		require.Error(t, err)
		assert.Len(t, blobs.Destroyed, 2)
	})

	t.Run("taxonomy errors propagate", func(t *testing.T) {
		mismatch := apperror.Validation("SubCategory does not belong to the selected category")
		svc, _, _ := setup(mismatch)
		_, err := svc.Create(ctx, creator(), book.CreateBookRequest{Title: "Dune", CategoryID: uuid.NewString()}, nil, nil)
		assert.ErrorIs(t, err, mismatch)

		_, err = svc.Create(ctx, creator(), book.CreateBookRequest{Title: "Dune", CategoryID: "nope"}, nil, nil)
		assert.ErrorIs(t, err, book.ErrInvalidID)
	})
}

func TestVisibility(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(nil)
	owner := creator()

	draft, err := svc.Create(ctx, owner, book.CreateBookRequest{Title: "Draft"}, nil, nil)
	require.NoError(t, err)
	published, err := svc.Create(ctx, owner, book.CreateBookRequest{Title: "Out", Status: "PUBLISHED"}, nil, nil)
	require.NoError(t, err)

	_, err = svc.Get(ctx, nil, draft.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	_, err = svc.Get(ctx, creator(), draft.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	got, err := svc.Get(ctx, owner, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	admin := &access.Actor{UserID: uuid.New(), Role: access.RoleAdmin, IsActive: true}
	_, err = svc.Get(ctx, admin, draft.ID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, nil, published.ID)
	assert.NoError(t, err)

	list, total, err := svc.ListPublished(ctx, book.ListFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, published.ID, list[0].ID)

	mine, total, err := svc.ListMine(ctx, owner, book.ListFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, mine, 2)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	owner := creator()

	t.Run("status transitions keep first publish time", func(t *testing.T) {
		svc, _, _ := setup(nil)
		b, err := svc.Create(ctx, owner, book.CreateBookRequest{Title: "Dune", Status: "PUBLISHED"}, nil, nil)
		require.NoError(t, err)
		first := *b.PublishedAt

		svc.now = func() time.Time { return first.Add(48 * time.Hour) }
		b, err = svc.Update(ctx, owner, b.ID, book.UpdateBookRequest{Status: ptr("ARCHIVED")}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, lifecycle.StatusArchived, b.Status)

		_, err = svc.Update(ctx, owner, b.ID, book.UpdateBookRequest{Status: ptr("PUBLISHED")}, nil, nil)
		require.Error(t, err)
		assert.Equal(t, "Cannot change status from ARCHIVED to PUBLISHED", err.Error())

		b, err = svc.Update(ctx, owner, b.ID, book.UpdateBookRequest{Status: ptr("weird")}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, lifecycle.StatusDraft, b.Status)

		b, err = svc.Publish(ctx, owner, b.ID)
		require.NoError(t, err)
		assert.Equal(t, first, *b.PublishedAt)
	})

	t.Run("replacing the cover destroys the old one", func(t *testing.T) {
		svc, _, blobs := setup(nil)
		b, err := svc.Create(ctx, owner, book.CreateBookRequest{Title: "Dune"}, pngFile(t), nil)
		require.NoError(t, err)
		old := *b.CoverImageID

		b, err = svc.Update(ctx, owner, b.ID, book.UpdateBookRequest{}, pngFile(t), nil)
		require.NoError(t, err)
		assert.NotEqual(t, old, *b.CoverImageID)
		assert.Equal(t, []string{old}, blobs.Destroyed)
		assert.False(t, blobs.Has(old))
	})

	t.Run("blob destroy failure does not fail the update", func(t *testing.T) {
		svc, _, blobs := setup(nil)
		b, err := svc.Create(ctx, owner, book.CreateBookRequest{Title: "Dune"}, nil, pdfFile("a.pdf"))
		require.NoError(t, err)
		blobs.FailDestroy = errors.New("provider down")

		_, err = svc.Update(ctx, owner, b.ID, book.UpdateBookRequest{}, nil, pdfFile("b.pdf"))
		assert.NoError(t, err)
	})

	t.Run("strangers see not found and readers see forbidden", func(t *testing.T) {
		svc, _, _ := setup(nil)
		draft, _ := svc.Create(ctx, owner, book.CreateBookRequest{Title: "Draft"}, nil, nil)
		published, _ := svc.Create(ctx, owner, book.CreateBookRequest{Title: "Out", Status: "PUBLISHED"}, nil, nil)

		_, err := svc.Update(ctx, creator(), draft.ID, book.UpdateBookRequest{Title: ptr("x")}, nil, nil)
		assert.ErrorIs(t, err, book.ErrBookNotFound)

		_, err = svc.Update(ctx, creator(), published.ID, book.UpdateBookRequest{Title: ptr("x")}, nil, nil)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, appErr.HTTPStatus())
		assert.Equal(t, string(access.ReasonNotOwner), appErr.Reason)
	})
}

func TestDeleteAndDownload(t *testing.T) {
	ctx := context.Background()
	svc, repo, blobs := setup(nil)
	owner := creator()

	b, err := svc.Create(ctx, owner, book.CreateBookRequest{Title: "Dune", Status: "PUBLISHED"}, pngFile(t), pdfFile("dune.pdf"))
	require.NoError(t, err)

	url, err := svc.DownloadURL(ctx, nil, b.ID)
	require.NoError(t, err)
	assert.Contains(t, url, "download=dune.pdf")

	noFile, _ := svc.Create(ctx, owner, book.CreateBookRequest{Title: "Empty", Status: "PUBLISHED"}, nil, nil)
	_, err = svc.DownloadURL(ctx, nil, noFile.ID)
	assert.ErrorIs(t, err, book.ErrNoBookFile)

	require.NoError(t, svc.Delete(ctx, owner, b.ID))
	assert.NotContains(t, repo.books, b.ID)
	assert.ElementsMatch(t, []string{*b.CoverImageID, *b.BookFileID}, blobs.Destroyed)
}

func ptr[T any](v T) *T { return &v }
