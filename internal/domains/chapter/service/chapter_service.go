package service

import (
	"context"
	"strings"
	"time"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/book"
	"talenta-backend/internal/domains/chapter"
	"talenta-backend/internal/domains/contributor"
	"talenta-backend/internal/domains/lifecycle"
	"talenta-backend/internal/domains/ordering"
	"talenta-backend/internal/shared/apperror"
	"talenta-backend/internal/shared/utils"
	"talenta-backend/pkg/logger"

	"github.com/google/uuid"
)

// BookReader is the part of the book store chapters need.
type BookReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*book.Book, error)
}

type chapterService struct {
	repo         chapter.Repository
	books        BookReader
	contributors contributor.Lookup
	now          func() time.Time
}

func NewChapterService(repo chapter.Repository, books BookReader, contributors contributor.Lookup) chapter.Service {
	return &chapterService{repo: repo, books: books, contributors: contributors, now: time.Now}
}

// resource describes a chapter of b with the given status and author, as
// seen by actor.
func (s *chapterService) resource(ctx context.Context, actor *access.Actor, b *book.Book, status lifecycle.Status, authorID uuid.UUID) (access.Resource, error) {
	res := access.Child(b.OwnerID, status, b.Status, authorID)
	if actor == nil || actor.UserID == b.OwnerID || !b.AllowChapterContributions {
		return res, nil
	}
	st, err := s.contributors.StatusOf(ctx, b.ID, actor.UserID)
	if err != nil {
		return res, err
	}
	return res.WithContribution(st, b.AllowChapterContributions), nil
}

// visibleBook loads a book the actor can at least read.
func (s *chapterService) visibleBook(ctx context.Context, actor *access.Actor, bookID uuid.UUID) (*book.Book, error) {
	b, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	res, err := s.resource(ctx, actor, b, b.Status, uuid.Nil)
	if err != nil {
		return nil, err
	}
	// contributors may read the book they work on even while it is a draft
	if access.Authorize(actor, b.Resource(), access.OpRead).Allowed || access.Authorize(actor, res, access.OpRead).Allowed {
		return b, nil
	}
	return nil, book.ErrBookNotFound
}

// load fetches a chapter and checks op on it. A chapter the actor cannot
// read is reported as not found whatever op was asked.
func (s *chapterService) load(ctx context.Context, actor *access.Actor, id uuid.UUID, op access.Operation) (*chapter.Chapter, *book.Book, error) {
	ch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.books.GetByID(ctx, ch.BookID)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.resource(ctx, actor, b, ch.Status, ch.AuthorID)
	if err != nil {
		return nil, nil, err
	}

	if !access.Authorize(actor, res, access.OpRead).Allowed {
		return nil, nil, chapter.ErrChapterNotFound
	}
	if err := access.Authorize(actor, res, op).Err(); err != nil {
		return nil, nil, err
	}
	return ch, b, nil
}

// ════════════════════════════════════════════════════════════════
// CREATE / READ
// ════════════════════════════════════════════════════════════════

func (s *chapterService) Create(ctx context.Context, actor *access.Actor, bookID uuid.UUID, req chapter.CreateChapterRequest) (*chapter.Chapter, error) {
	if actor == nil {
		return nil, apperror.Unauthenticated("Authentication required")
	}
	b, err := s.visibleBook(ctx, actor, bookID)
	if err != nil {
		return nil, err
	}
	res, err := s.resource(ctx, actor, b, lifecycle.StatusDraft, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, res, access.OpCreate).Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	siblings, err := s.repo.Siblings(ctx, bookID)
	if err != nil {
		return nil, err
	}
	order := ordering.NextOrder(siblings)
	if req.Order != nil {
		if err := ordering.Chapters.ValidateInsert(siblings, *req.Order); err != nil {
			return nil, err
		}
		order = *req.Order
	}

	result, _ := lifecycle.Transition(lifecycle.StatusDraft, lifecycle.NormalizeCreate(req.Status), lifecycle.PathStatusUpdate, nil, s.now())
	ch := &chapter.Chapter{
		BookID:      bookID,
		AuthorID:    actor.UserID,
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		Order:       order,
		Status:      result.Status,
		PublishedAt: result.PublishedAt,
	}
	setCounts(ch)

	if err := s.repo.Create(ctx, ch); err != nil {
		return nil, err
	}

	logger.Info("Chapter created", map[string]interface{}{
		"chapter_id": ch.ID.String(),
		"book_id":    bookID.String(),
		"order":      ch.Order,
	})
	return ch, nil
}

// List returns published chapters. Unpublished ones are included only when
// asked for and the actor may see them.
func (s *chapterService) List(ctx context.Context, actor *access.Actor, opts chapter.ListOptions) (*chapter.Listing, error) {
	b, err := s.visibleBook(ctx, actor, opts.BookID)
	if err != nil {
		return nil, err
	}

	statuses := []lifecycle.Status{lifecycle.StatusPublished}
	if opts.IncludeUnpublished {
		res, err := s.resource(ctx, actor, b, lifecycle.StatusDraft, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if access.Authorize(actor, res, access.OpList).Allowed {
			statuses = nil
		}
	}

	chapters, err := s.repo.ListByBook(ctx, b.ID, statuses)
	if err != nil {
		return nil, err
	}
	if chapters == nil {
		chapters = []chapter.Chapter{}
	}
	return &chapter.Listing{
		Book:     chapter.BookRef{ID: b.ID, Title: b.Title, Author: b.Author},
		Chapters: chapters,
	}, nil
}

func (s *chapterService) Get(ctx context.Context, actor *access.Actor, id uuid.UUID) (*chapter.Chapter, error) {
	ch, _, err := s.load(ctx, actor, id, access.OpRead)
	return ch, err
}

// ════════════════════════════════════════════════════════════════
// UPDATE / DELETE / REORDER
// ════════════════════════════════════════════════════════════════

func (s *chapterService) Update(ctx context.Context, actor *access.Actor, id uuid.UUID, req chapter.UpdateChapterRequest) (*chapter.Chapter, error) {
	ch, _, err := s.load(ctx, actor, id, access.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	if req.Order != nil && *req.Order != ch.Order {
		siblings, err := s.repo.Siblings(ctx, ch.BookID)
		if err != nil {
			return nil, err
		}
		if err := ordering.Chapters.ValidateUpdate(siblings, ch.ID, *req.Order); err != nil {
			return nil, err
		}
		ch.Order = *req.Order
	}
	if req.Title != nil {
		ch.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		ch.Content = *req.Content
		setCounts(ch)
	}
	if req.Status != nil {
		result, err := lifecycle.Transition(ch.Status, lifecycle.NormalizeUpdate(*req.Status), lifecycle.PathStatusUpdate, ch.PublishedAt, s.now())
		if err != nil {
			return nil, err
		}
		ch.Status, ch.PublishedAt = result.Status, result.PublishedAt
	}

	if err := s.repo.Update(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *chapterService) Delete(ctx context.Context, actor *access.Actor, id uuid.UUID) error {
	ch, _, err := s.load(ctx, actor, id, access.OpDelete)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ch.BookID, ch.ID); err != nil {
		return err
	}

	logger.Info("Chapter deleted", map[string]interface{}{
		"chapter_id": id.String(),
		"book_id":    ch.BookID.String(),
	})
	return nil
}

func (s *chapterService) Reorder(ctx context.Context, actor *access.Actor, bookID uuid.UUID, req chapter.ReorderRequest) ([]ordering.Sibling, error) {
	if actor == nil {
		return nil, apperror.Unauthenticated("Authentication required")
	}
	b, err := s.visibleBook(ctx, actor, bookID)
	if err != nil {
		return nil, err
	}
	res, err := s.resource(ctx, actor, b, lifecycle.StatusDraft, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, res, access.OpReorder).Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	ids, err := utils.ParseUUIDs(req.ChapterIDs)
	if err != nil {
		return nil, chapter.ErrInvalidIDs
	}
	return s.repo.Reorder(ctx, bookID, ids)
}

func setCounts(ch *chapter.Chapter) {
	ch.WordCount = utils.WordCount(ch.Content)
	ch.ReadingTime = utils.ReadingTime(ch.WordCount)
}
