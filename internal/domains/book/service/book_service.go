package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/book"
	"talenta-backend/internal/domains/category"
	"talenta-backend/internal/domains/lifecycle"
	"talenta-backend/internal/infrastructure/storage"
	"talenta-backend/internal/shared/apperror"
	"talenta-backend/internal/shared/utils"
	"talenta-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type bookService struct {
	repo       book.Repository
	taxonomy   category.Resolver
	blobs      storage.BlobStore
	images     *storage.ImageProcessor
	linkExpiry time.Duration
	now        func() time.Time
}

func NewBookService(
	repo book.Repository,
	taxonomy category.Resolver,
	blobs storage.BlobStore,
	images *storage.ImageProcessor,
	linkExpiry time.Duration,
) book.Service {
	if linkExpiry <= 0 {
		linkExpiry = 15 * time.Minute
	}
	return &bookService{
		repo:       repo,
		taxonomy:   taxonomy,
		blobs:      blobs,
		images:     images,
		linkExpiry: linkExpiry,
		now:        time.Now,
	}
}

// ════════════════════════════════════════════════════════════════
// CREATE
// ════════════════════════════════════════════════════════════════

func (s *bookService) Create(ctx context.Context, actor *access.Actor, req book.CreateBookRequest, cover, file *storage.File) (*book.Book, error) {
	if actor == nil {
		return nil, apperror.Unauthenticated("Authentication required")
	}
	if err := access.Authorize(actor, access.Content(actor.UserID, lifecycle.StatusDraft), access.OpCreate).Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	categoryID, subCategoryID, err := s.resolveTaxonomy(ctx, req.CategoryID, req.SubCategoryID)
	if err != nil {
		return nil, err
	}

	status := lifecycle.NormalizeCreate(req.Status)
	res, _ := lifecycle.Transition(lifecycle.StatusDraft, status, lifecycle.PathStatusUpdate, nil, s.now())

	author := strings.TrimSpace(req.Author)
	if author == "" {
		author = book.DefaultAuthor
	}

	b := &book.Book{
		OwnerID:                   actor.UserID,
		Title:                     strings.TrimSpace(req.Title),
		Author:                    author,
		Description:               req.Description,
		ISBN:                      emptyToNil(req.ISBN),
		Tags:                      pq.StringArray(utils.ParseStringOrArray(req.Tags)),
		Content:                   req.Content,
		Status:                    res.Status,
		PublishedAt:               res.PublishedAt,
		CategoryID:                categoryID,
		SubCategoryID:             subCategoryID,
		AllowChapterContributions: req.AllowChapterContributions != nil && *req.AllowChapterContributions,
	}

	var uploaded []string
	if cover != nil {
		asset, err := s.uploadCover(ctx, cover)
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, asset.Identifier)
		b.CoverImage, b.CoverImageID = &asset.URL, &asset.Identifier
	}
	if file != nil {
		asset, err := s.uploadFile(ctx, file)
		if err != nil {
			s.destroyAll(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, asset.Identifier)
		setBookFile(b, asset, file.Name)
	}

	if err := s.repo.Create(ctx, b); err != nil {
		s.destroyAll(ctx, uploaded)
		return nil, err
	}

	logger.Info("Book created", map[string]interface{}{
		"book_id":  b.ID.String(),
		"owner_id": b.OwnerID.String(),
		"status":   string(b.Status),
	})
	return b, nil
}

// ════════════════════════════════════════════════════════════════
// READ
// ════════════════════════════════════════════════════════════════

func (s *bookService) ListPublished(ctx context.Context, filter book.ListFilter) ([]book.Book, int64, error) {
	filter.OwnerID = nil
	filter.Statuses = []lifecycle.Status{lifecycle.StatusPublished}
	return s.repo.List(ctx, filter)
}

func (s *bookService) ListMine(ctx context.Context, actor *access.Actor, filter book.ListFilter) ([]book.Book, int64, error) {
	if actor == nil {
		return nil, 0, apperror.Unauthenticated("Authentication required")
	}
	filter.OwnerID = &actor.UserID
	return s.repo.List(ctx, filter)
}

// Get hides books the actor may not read behind the not-found error.
func (s *bookService) Get(ctx context.Context, actor *access.Actor, id uuid.UUID) (*book.Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, b.Resource(), access.OpRead).Hide(book.ErrBookNotFound); err != nil {
		return nil, err
	}
	return b, nil
}

// ════════════════════════════════════════════════════════════════
// UPDATE
// ════════════════════════════════════════════════════════════════

// owned loads the book and checks op, hiding the book from callers who
// could not read it either.
func (s *bookService) owned(ctx context.Context, actor *access.Actor, id uuid.UUID, op access.Operation) (*book.Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := access.Authorize(actor, b.Resource(), op); !d.Allowed {
		if !access.Authorize(actor, b.Resource(), access.OpRead).Allowed {
			return nil, book.ErrBookNotFound
		}
		return nil, d.Err()
	}
	return b, nil
}

func (s *bookService) Update(ctx context.Context, actor *access.Actor, id uuid.UUID, req book.UpdateBookRequest, cover, file *storage.File) (*book.Book, error) {
	b, err := s.owned(ctx, actor, id, access.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	if req.CategoryID != nil || req.SubCategoryID != nil {
		catRaw, subRaw := derefOr(req.CategoryID, idString(b.CategoryID)), derefOr(req.SubCategoryID, idString(b.SubCategoryID))
		if b.CategoryID, b.SubCategoryID, err = s.resolveTaxonomy(ctx, catRaw, subRaw); err != nil {
			return nil, err
		}
	}

	if req.Title != nil {
		b.Title = strings.TrimSpace(*req.Title)
	}
	if req.Author != nil {
		b.Author = strings.TrimSpace(*req.Author)
		if b.Author == "" {
			b.Author = book.DefaultAuthor
		}
	}
	if req.Description != nil {
		b.Description = req.Description
	}
	if req.ISBN != nil {
		b.ISBN = emptyToNil(req.ISBN)
	}
	if req.Tags != nil {
		b.Tags = pq.StringArray(utils.ParseStringOrArray(req.Tags))
	}
	if req.Content != nil {
		b.Content = *req.Content
	}
	if req.AllowChapterContributions != nil {
		b.AllowChapterContributions = *req.AllowChapterContributions
	}
	if req.Status != nil {
		res, err := lifecycle.Transition(b.Status, lifecycle.NormalizeUpdate(*req.Status), lifecycle.PathStatusUpdate, b.PublishedAt, s.now())
		if err != nil {
			return nil, err
		}
		b.Status, b.PublishedAt = res.Status, res.PublishedAt
	}

	var uploaded, superseded []string
	if cover != nil {
		asset, err := s.uploadCover(ctx, cover)
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, asset.Identifier)
		superseded = append(superseded, deref(b.CoverImageID))
		b.CoverImage, b.CoverImageID = &asset.URL, &asset.Identifier
	}
	if file != nil {
		asset, err := s.uploadFile(ctx, file)
		if err != nil {
			s.destroyAll(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, asset.Identifier)
		superseded = append(superseded, deref(b.BookFileID))
		setBookFile(b, asset, file.Name)
	}

	if err := s.repo.Update(ctx, b); err != nil {
		s.destroyAll(ctx, uploaded)
		return nil, err
	}
	s.destroyAll(ctx, superseded)
	return b, nil
}

// Publish moves the book to PUBLISHED through the lifecycle.
func (s *bookService) Publish(ctx context.Context, actor *access.Actor, id uuid.UUID) (*book.Book, error) {
	b, err := s.owned(ctx, actor, id, access.OpPublish)
	if err != nil {
		return nil, err
	}

	res, err := lifecycle.Transition(b.Status, lifecycle.StatusPublished, lifecycle.PathStatusUpdate, b.PublishedAt, s.now())
	if err != nil {
		return nil, err
	}
	if !res.Changed {
		return b, nil
	}

	b.Status, b.PublishedAt = res.Status, res.PublishedAt
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	logger.Info("Book published", map[string]interface{}{"book_id": b.ID.String()})
	return b, nil
}

// ════════════════════════════════════════════════════════════════
// DELETE
// ════════════════════════════════════════════════════════════════

// Delete removes the book (its chapters cascade) and then destroys the
// cover and book file. Blob failures do not fail the request.
func (s *bookService) Delete(ctx context.Context, actor *access.Actor, id uuid.UUID) error {
	b, err := s.owned(ctx, actor, id, access.OpDelete)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.destroyAll(ctx, []string{deref(b.CoverImageID), deref(b.BookFileID)})
	logger.Info("Book deleted", map[string]interface{}{"book_id": id.String()})
	return nil
}

func (s *bookService) DownloadURL(ctx context.Context, actor *access.Actor, id uuid.UUID) (string, error) {
	b, err := s.Get(ctx, actor, id)
	if err != nil {
		return "", err
	}
	if b.BookFileID == nil || *b.BookFileID == "" {
		return "", book.ErrNoBookFile
	}

	name := deref(b.BookFileName)
	if name == "" {
		name = b.Title
	}
	url, err := s.blobs.PresignedDownload(ctx, *b.BookFileID, name, s.linkExpiry)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return "", book.ErrNoBookFile
	}
	if err != nil {
		return "", apperror.Upstream("Failed to create download link", err)
	}
	return url, nil
}

// ════════════════════════════════════════════════════════════════
// HELPERS
// ════════════════════════════════════════════════════════════════

func (s *bookService) resolveTaxonomy(ctx context.Context, categoryRaw, subCategoryRaw string) (*uuid.UUID, *uuid.UUID, error) {
	categoryID, err := utils.OptionalUUID(categoryRaw)
	if err != nil {
		return nil, nil, book.ErrInvalidID
	}
	subCategoryID, err := utils.OptionalUUID(subCategoryRaw)
	if err != nil {
		return nil, nil, book.ErrInvalidID
	}
	if err := s.taxonomy.ValidateAssignment(ctx, categoryID, subCategoryID); err != nil {
		return nil, nil, err
	}
	return categoryID, subCategoryID, nil
}

func (s *bookService) uploadCover(ctx context.Context, f *storage.File) (*storage.Asset, error) {
	data, err := s.images.PrepareCover(f)
	if err != nil {
		return nil, book.ErrInvalidCover.WithMessage("Invalid cover image: %v", err)
	}
	asset, err := storage.UploadBytes(ctx, s.blobs, data, storage.UploadOptions{
		Folder:       storage.FolderCovers,
		ResourceKind: storage.KindImage,
		FileName:     "cover.jpg",
		ContentType:  "image/jpeg",
	})
	if err != nil {
		return nil, apperror.Upstream("Failed to upload cover image", err)
	}
	return asset, nil
}

func (s *bookService) uploadFile(ctx context.Context, f *storage.File) (*storage.Asset, error) {
	asset, err := s.blobs.Upload(ctx, f.Reader, f.Size, storage.UploadOptions{
		Folder:       storage.FolderBooks,
		ResourceKind: storage.KindDocument,
		FileName:     f.Name,
		ContentType:  f.ContentType,
	})
	if err != nil {
		return nil, apperror.Upstream("Failed to upload book file", err)
	}
	return asset, nil
}

func (s *bookService) destroyAll(ctx context.Context, identifiers []string) {
	for _, id := range identifiers {
		storage.DestroyBestEffort(ctx, s.blobs, id)
	}
}

// setBookFile points the book at a new file. The read URL is the inline
// URL of the same object.
func setBookFile(b *book.Book, asset *storage.Asset, name string) {
	b.BookFile, b.BookFileID = &asset.URL, &asset.Identifier
	b.ReadURL = &asset.URL
	if name != "" {
		b.BookFileName = &name
	}
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func idString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
