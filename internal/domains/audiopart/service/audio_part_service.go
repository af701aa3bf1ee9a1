package service

import (
	"context"
	"strings"
	"time"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/audio"
	"talenta-backend/internal/domains/audiochapter"
	"talenta-backend/internal/domains/audiopart"
	"talenta-backend/internal/domains/lifecycle"
	"talenta-backend/internal/domains/ordering"
	"talenta-backend/internal/infrastructure/storage"
	"talenta-backend/internal/shared/apperror"
	"talenta-backend/internal/shared/utils"
	"talenta-backend/pkg/logger"

	"github.com/google/uuid"
)

type AudioReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*audio.Audio, error)
}

type ChapterReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*audiochapter.AudioChapter, error)
}

type audioPartService struct {
	repo        audiopart.Repository
	chapters    ChapterReader
	audios      AudioReader
	blobs       storage.BlobStore
	maxFileSize int64
	now         func() time.Time
}

func NewAudioPartService(
	repo audiopart.Repository,
	chapters ChapterReader,
	audios AudioReader,
	blobs storage.BlobStore,
	maxFileSize int64,
) audiopart.Service {
	return &audioPartService{
		repo:        repo,
		chapters:    chapters,
		audios:      audios,
		blobs:       blobs,
		maxFileSize: maxFileSize,
		now:         time.Now,
	}
}

// parent is a chapter together with the audio it belongs to.
type parent struct {
	chapter *audiochapter.AudioChapter
	audio   *audio.Audio
}

func (p parent) status() lifecycle.Status {
	return audiopart.ParentStatus(p.audio.Status, p.chapter.Status)
}

func (p parent) child(status lifecycle.Status, authorID uuid.UUID) access.Resource {
	return access.Child(p.audio.OwnerID, status, p.status(), authorID)
}

func (s *audioPartService) loadParent(ctx context.Context, chapterID uuid.UUID) (parent, error) {
	ch, err := s.chapters.GetByID(ctx, chapterID)
	if err != nil {
		return parent{}, err
	}
	a, err := s.audios.GetByID(ctx, ch.AudioID)
	if err != nil {
		return parent{}, err
	}
	return parent{chapter: ch, audio: a}, nil
}

// visibleParent loads a chapter the actor can read.
func (s *audioPartService) visibleParent(ctx context.Context, actor *access.Actor, chapterID uuid.UUID) (parent, error) {
	p, err := s.loadParent(ctx, chapterID)
	if err != nil {
		return parent{}, err
	}
	res := p.chapter.Resource(p.audio.OwnerID, p.audio.Status)
	if err := access.Authorize(actor, res, access.OpRead).Hide(audiochapter.ErrChapterNotFound); err != nil {
		return parent{}, err
	}
	return p, nil
}

func (s *audioPartService) load(ctx context.Context, actor *access.Actor, id uuid.UUID, op access.Operation) (*audiopart.Part, error) {
	part, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.loadParent(ctx, part.ChapterID)
	if err != nil {
		return nil, err
	}

	res := part.Resource(p.audio.OwnerID, p.status())
	if !access.Authorize(actor, res, access.OpRead).Allowed {
		return nil, audiopart.ErrPartNotFound
	}
	if err := access.Authorize(actor, res, op).Err(); err != nil {
		return nil, err
	}
	return part, nil
}

func (s *audioPartService) upload(ctx context.Context, file *storage.File) (*storage.Asset, error) {
	if err := audio.ValidateFile(file, s.maxFileSize); err != nil {
		return nil, err
	}
	asset, err := s.blobs.Upload(ctx, file.Reader, file.Size, storage.UploadOptions{
		Folder:       storage.FolderParts,
		ResourceKind: storage.KindAudio,
		FileName:     file.Name,
		ContentType:  file.ContentType,
	})
	if err != nil {
		return nil, apperror.Upstream("Failed to upload audio part", err)
	}
	return asset, nil
}

func setFile(p *audiopart.Part, asset *storage.Asset, name string) {
	p.PublicID = &asset.Identifier
	p.FileURL = &asset.URL
	p.FileName = &name
}

// ════════════════════════════════════════════════════════════════
// CREATE / READ
// ════════════════════════════════════════════════════════════════

func (s *audioPartService) Create(ctx context.Context, actor *access.Actor, chapterID uuid.UUID, req audiopart.CreateRequest, file *storage.File) (*audiopart.Part, error) {
	if actor == nil {
		return nil, apperror.Unauthenticated("Authentication required")
	}
	p, err := s.visibleParent(ctx, actor, chapterID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, p.child(lifecycle.StatusDraft, actor.UserID), access.OpCreate).Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	siblings, err := s.repo.Siblings(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	order := ordering.NextOrder(siblings)
	if req.Order != nil {
		if err := ordering.AudioParts.ValidateInsert(siblings, *req.Order); err != nil {
			return nil, err
		}
		order = *req.Order
	}

	result, _ := lifecycle.Transition(lifecycle.StatusDraft, lifecycle.NormalizeCreate(req.Status), lifecycle.PathStatusUpdate, nil, s.now())
	part := &audiopart.Part{
		ChapterID:   chapterID,
		AuthorID:    actor.UserID,
		Title:       trimmed(req.Title),
		Description: req.Description,
		Order:       order,
		Status:      result.Status,
		Duration:    audiochapter.ParseDuration(req.Duration),
		PublishedAt: result.PublishedAt,
	}

	if file != nil {
		asset, err := s.upload(ctx, file)
		if err != nil {
			return nil, err
		}
		setFile(part, asset, file.Name)
	}

	if err := s.repo.Create(ctx, part); err != nil {
		storage.DestroyBestEffort(ctx, s.blobs, part.Blob())
		return nil, err
	}

	logger.Info("Audio part created", map[string]interface{}{
		"part_id":    part.ID.String(),
		"chapter_id": chapterID.String(),
		"order":      part.Order,
	})
	return part, nil
}

func (s *audioPartService) List(ctx context.Context, actor *access.Actor, opts audiopart.ListOptions) (*audiopart.Listing, error) {
	p, err := s.visibleParent(ctx, actor, opts.ChapterID)
	if err != nil {
		return nil, err
	}

	statuses := []lifecycle.Status{lifecycle.StatusPublished}
	if opts.IncludeUnpublished && access.Authorize(actor, p.child(lifecycle.StatusDraft, uuid.Nil), access.OpList).Allowed {
		statuses = nil
	}

	parts, err := s.repo.ListByChapter(ctx, opts.ChapterID, statuses)
	if err != nil {
		return nil, err
	}
	if parts == nil {
		parts = []audiopart.Part{}
	}
	return &audiopart.Listing{
		Chapter: audiopart.ChapterRef{
			ID:      p.chapter.ID,
			AudioID: p.chapter.AudioID,
			Title:   p.chapter.Title,
			Status:  p.chapter.Status,
		},
		Parts: parts,
	}, nil
}

func (s *audioPartService) Get(ctx context.Context, actor *access.Actor, id uuid.UUID) (*audiopart.Part, error) {
	return s.load(ctx, actor, id, access.OpRead)
}

// ════════════════════════════════════════════════════════════════
// UPDATE / DELETE / REORDER
// ════════════════════════════════════════════════════════════════

func (s *audioPartService) Update(ctx context.Context, actor *access.Actor, id uuid.UUID, req audiopart.UpdateRequest, file *storage.File) (*audiopart.Part, error) {
	part, err := s.load(ctx, actor, id, access.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	if req.Order != nil && *req.Order != part.Order {
		siblings, err := s.repo.Siblings(ctx, part.ChapterID)
		if err != nil {
			return nil, err
		}
		if err := ordering.AudioParts.ValidateUpdate(siblings, part.ID, *req.Order); err != nil {
			return nil, err
		}
		part.Order = *req.Order
	}
	if req.Title != nil {
		part.Title = trimmed(req.Title)
	}
	if req.Description != nil {
		part.Description = req.Description
	}
	if req.Duration != nil {
		part.Duration = audiochapter.ParseDuration(req.Duration)
	}
	if req.Status != nil {
		result, err := lifecycle.Transition(part.Status, lifecycle.NormalizeUpdate(*req.Status), lifecycle.PathStatusUpdate, part.PublishedAt, s.now())
		if err != nil {
			return nil, err
		}
		part.Status, part.PublishedAt = result.Status, result.PublishedAt
	}

	previous := part.Blob()
	if file != nil {
		asset, err := s.upload(ctx, file)
		if err != nil {
			return nil, err
		}
		setFile(part, asset, file.Name)
	}

	if err := s.repo.Update(ctx, part); err != nil {
		if file != nil {
			storage.DestroyBestEffort(ctx, s.blobs, part.Blob())
		}
		return nil, err
	}
	if file != nil && previous != part.Blob() {
		storage.DestroyBestEffort(ctx, s.blobs, previous)
	}
	return part, nil
}

func (s *audioPartService) Delete(ctx context.Context, actor *access.Actor, id uuid.UUID) error {
	part, err := s.load(ctx, actor, id, access.OpDelete)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, part.ChapterID, part.ID); err != nil {
		return err
	}
	storage.DestroyBestEffort(ctx, s.blobs, part.Blob())

	logger.Info("Audio part deleted", map[string]interface{}{
		"part_id":    id.String(),
		"chapter_id": part.ChapterID.String(),
	})
	return nil
}

func (s *audioPartService) Reorder(ctx context.Context, actor *access.Actor, chapterID uuid.UUID, req audiopart.ReorderRequest) ([]ordering.Sibling, error) {
	if actor == nil {
		return nil, apperror.Unauthenticated("Authentication required")
	}
	p, err := s.visibleParent(ctx, actor, chapterID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, p.child(lifecycle.StatusDraft, uuid.Nil), access.OpReorder).Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	ids, err := utils.ParseUUIDs(req.PartIDs)
	if err != nil {
		return nil, audiopart.ErrInvalidIDs
	}
	return s.repo.Reorder(ctx, chapterID, ids)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
