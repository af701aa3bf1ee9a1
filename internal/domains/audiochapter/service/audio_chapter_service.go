package service

import (
	"context"
	"strings"
	"time"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/audio"
	"talenta-backend/internal/domains/audiochapter"
	"talenta-backend/internal/domains/lifecycle"
	"talenta-backend/internal/domains/ordering"
	"talenta-backend/internal/infrastructure/storage"
	"talenta-backend/internal/shared/apperror"
	"talenta-backend/internal/shared/utils"
	"talenta-backend/pkg/logger"

	"github.com/google/uuid"
)

// AudioReader is the part of the audio store chapters need.
type AudioReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*audio.Audio, error)
}

type audioChapterService struct {
	repo   audiochapter.Repository
	audios AudioReader
	blobs  storage.BlobStore
	now    func() time.Time
}

func NewAudioChapterService(repo audiochapter.Repository, audios AudioReader, blobs storage.BlobStore) audiochapter.Service {
	return &audioChapterService{repo: repo, audios: audios, blobs: blobs, now: time.Now}
}

func (s *audioChapterService) visibleAudio(ctx context.Context, actor *access.Actor, audioID uuid.UUID) (*audio.Audio, error) {
	a, err := s.audios.GetByID(ctx, audioID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, a.Resource(), access.OpRead).Hide(audio.ErrAudioNotFound); err != nil {
		return nil, err
	}
	return a, nil
}

// load fetches a chapter and checks op on it. An unreadable chapter is not
// found whatever op was asked.
func (s *audioChapterService) load(ctx context.Context, actor *access.Actor, id uuid.UUID, op access.Operation) (*audiochapter.AudioChapter, error) {
	ch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a, err := s.audios.GetByID(ctx, ch.AudioID)
	if err != nil {
		return nil, err
	}

	res := ch.Resource(a.OwnerID, a.Status)
	if !access.Authorize(actor, res, access.OpRead).Allowed {
		return nil, audiochapter.ErrChapterNotFound
	}
	if err := access.Authorize(actor, res, op).Err(); err != nil {
		return nil, err
	}
	return ch, nil
}

// ════════════════════════════════════════════════════════════════
// CREATE / READ
// ════════════════════════════════════════════════════════════════

func (s *audioChapterService) Create(ctx context.Context, actor *access.Actor, audioID uuid.UUID, req audiochapter.CreateRequest) (*audiochapter.AudioChapter, error) {
	if actor == nil {
		return nil, apperror.Unauthenticated("Authentication required")
	}
	a, err := s.visibleAudio(ctx, actor, audioID)
	if err != nil {
		return nil, err
	}
	res := access.Child(a.OwnerID, lifecycle.StatusDraft, a.Status, actor.UserID)
	if err := access.Authorize(actor, res, access.OpCreate).Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	siblings, err := s.repo.Siblings(ctx, audioID)
	if err != nil {
		return nil, err
	}
	order := ordering.NextOrder(siblings)
	if req.Order != nil {
		if err := ordering.AudioChapters.ValidateInsert(siblings, *req.Order); err != nil {
			return nil, err
		}
		order = *req.Order
	}

	result, _ := lifecycle.Transition(lifecycle.StatusDraft, lifecycle.NormalizeCreate(req.Status), lifecycle.PathStatusUpdate, nil, s.now())
	ch := &audiochapter.AudioChapter{
		AudioID:     audioID,
		AuthorID:    actor.UserID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Order:       order,
		Status:      result.Status,
		Duration:    audiochapter.ParseDuration(req.Duration),
		PublishedAt: result.PublishedAt,
	}
	if req.WordCount != nil {
		ch.WordCount = *req.WordCount
	}

	if err := s.repo.Create(ctx, ch); err != nil {
		return nil, err
	}

	logger.Info("Audio chapter created", map[string]interface{}{
		"chapter_id": ch.ID.String(),
		"audio_id":   audioID.String(),
		"order":      ch.Order,
	})
	return ch, nil
}

func (s *audioChapterService) List(ctx context.Context, actor *access.Actor, opts audiochapter.ListOptions) (*audiochapter.Listing, error) {
	a, err := s.visibleAudio(ctx, actor, opts.AudioID)
	if err != nil {
		return nil, err
	}

	statuses := []lifecycle.Status{lifecycle.StatusPublished}
	draft := access.Child(a.OwnerID, lifecycle.StatusDraft, a.Status, uuid.Nil)
	if opts.IncludeUnpublished && access.Authorize(actor, draft, access.OpList).Allowed {
		statuses = nil
	}

	chapters, err := s.repo.ListByAudio(ctx, a.ID, statuses)
	if err != nil {
		return nil, err
	}
	if chapters == nil {
		chapters = []audiochapter.AudioChapter{}
	}
	return &audiochapter.Listing{
		Audio:    audiochapter.AudioRef{ID: a.ID, Title: a.Title, Status: a.Status},
		Chapters: chapters,
	}, nil
}

func (s *audioChapterService) Get(ctx context.Context, actor *access.Actor, id uuid.UUID) (*audiochapter.AudioChapter, error) {
	return s.load(ctx, actor, id, access.OpRead)
}

// ════════════════════════════════════════════════════════════════
// UPDATE / DELETE / REORDER
// ════════════════════════════════════════════════════════════════

func (s *audioChapterService) Update(ctx context.Context, actor *access.Actor, id uuid.UUID, req audiochapter.UpdateRequest) (*audiochapter.AudioChapter, error) {
	ch, err := s.load(ctx, actor, id, access.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	if req.Order != nil && *req.Order != ch.Order {
		siblings, err := s.repo.Siblings(ctx, ch.AudioID)
		if err != nil {
			return nil, err
		}
		if err := ordering.AudioChapters.ValidateUpdate(siblings, ch.ID, *req.Order); err != nil {
			return nil, err
		}
		ch.Order = *req.Order
	}
	if req.Title != nil {
		ch.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		ch.Description = req.Description
	}
	if req.Duration != nil {
		ch.Duration = audiochapter.ParseDuration(req.Duration)
	}
	if req.WordCount != nil {
		ch.WordCount = *req.WordCount
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

// Delete removes the chapter and its parts, then destroys the part files.
func (s *audioChapterService) Delete(ctx context.Context, actor *access.Actor, id uuid.UUID) error {
	ch, err := s.load(ctx, actor, id, access.OpDelete)
	if err != nil {
		return err
	}
	blobs, err := s.repo.Delete(ctx, ch.AudioID, ch.ID)
	if err != nil {
		return err
	}
	for _, blob := range blobs {
		storage.DestroyBestEffort(ctx, s.blobs, blob)
	}

	logger.Info("Audio chapter deleted", map[string]interface{}{
		"chapter_id": id.String(),
		"audio_id":   ch.AudioID.String(),
		"parts":      len(blobs),
	})
	return nil
}

func (s *audioChapterService) Reorder(ctx context.Context, actor *access.Actor, audioID uuid.UUID, req audiochapter.ReorderRequest) ([]ordering.Sibling, error) {
	if actor == nil {
		return nil, apperror.Unauthenticated("Authentication required")
	}
	a, err := s.visibleAudio(ctx, actor, audioID)
	if err != nil {
		return nil, err
	}
	res := access.Child(a.OwnerID, lifecycle.StatusDraft, a.Status, uuid.Nil)
	if err := access.Authorize(actor, res, access.OpReorder).Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	ids, err := utils.ParseUUIDs(req.ChapterIDs)
	if err != nil {
		return nil, audiochapter.ErrInvalidIDs
	}
	return s.repo.Reorder(ctx, audioID, ids)
}
