package service

import (
	"context"
	"errors"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/book"
	"talenta-backend/internal/domains/contributor"
	"talenta-backend/internal/shared/apperror"
	"talenta-backend/pkg/logger"

	"github.com/google/uuid"
)

// BookReader is the part of the book store the contributor rules read.
type BookReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*book.Book, error)
}

type contributorService struct {
	repo  contributor.Repository
	books BookReader
}

func NewContributorService(repo contributor.Repository, books BookReader) contributor.Service {
	return &contributorService{repo: repo, books: books}
}

// Request files a PENDING request. A rejected user may ask again; a pending
// or approved one gets a conflict.
func (s *contributorService) Request(ctx context.Context, actor *access.Actor, bookID uuid.UUID) (*contributor.Contributor, error) {
	b, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, b.Resource(), access.OpRead).Hide(book.ErrBookNotFound); err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, apperror.Unauthenticated("Authentication required")
	}
	if !actor.IsActive {
		return nil, access.Authorize(actor, b.Resource(), access.OpCreate).Err()
	}
	if b.OwnerID == actor.UserID {
		return nil, contributor.ErrOwnBook
	}
	if !b.AllowChapterContributions {
		return nil, contributor.ErrClosed
	}

	existing, err := s.repo.Get(ctx, bookID, actor.UserID)
	switch {
	case err == nil && existing.Status != access.ContributorRejected:
		return nil, contributor.ErrAlreadyRequested
	case err != nil && !errors.Is(err, contributor.ErrContributorNotFound):
		return nil, err
	}

	c := &contributor.Contributor{BookID: bookID, UserID: actor.UserID, Status: access.ContributorPending}
	if err := s.repo.Upsert(ctx, c); err != nil {
		return nil, err
	}

	logger.Info("Contribution requested", map[string]interface{}{
		"book_id": bookID.String(),
		"user_id": actor.UserID.String(),
	})
	return c, nil
}

func (s *contributorService) List(ctx context.Context, actor *access.Actor, bookID uuid.UUID) ([]contributor.Contributor, error) {
	if _, err := s.ownedBook(ctx, actor, bookID, access.OpRead); err != nil {
		return nil, err
	}
	return s.repo.ListByBook(ctx, bookID)
}

// Decide approves or rejects a request. Only the book owner decides.
func (s *contributorService) Decide(ctx context.Context, actor *access.Actor, bookID, userID uuid.UUID, req contributor.DecisionRequest) (*contributor.Contributor, error) {
	if _, err := s.ownedBook(ctx, actor, bookID, access.OpUpdate); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	c, err := s.repo.SetStatus(ctx, bookID, userID, req.Status)
	if err != nil {
		return nil, err
	}

	logger.Info("Contribution decided", map[string]interface{}{
		"book_id": bookID.String(),
		"user_id": userID.String(),
		"status":  string(req.Status),
	})
	return c, nil
}

func (s *contributorService) StatusOf(ctx context.Context, bookID, userID uuid.UUID) (access.ContributorStatus, error) {
	c, err := s.repo.Get(ctx, bookID, userID)
	if errors.Is(err, contributor.ErrContributorNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return c.Status, nil
}

// ownedBook checks that actor is the owner of the book. Admins pass for
// reads. Contributor rights never apply to the book itself.
func (s *contributorService) ownedBook(ctx context.Context, actor *access.Actor, bookID uuid.UUID, op access.Operation) (*book.Book, error) {
	b, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, b.Resource(), access.OpRead).Hide(book.ErrBookNotFound); err != nil {
		return nil, err
	}

	// a published book is readable by anyone, so the listing needs the
	// owner check on top of visibility
	if op == access.OpRead && !actor.IsAdmin() {
		op = access.OpUpdate
	}
	if err := access.Authorize(actor, b.Resource(), op).Err(); err != nil {
		return nil, err
	}
	return b, nil
}
