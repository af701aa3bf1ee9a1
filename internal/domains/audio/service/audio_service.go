package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/audio"
	"talenta-backend/internal/domains/category"
	"talenta-backend/internal/domains/lifecycle"
	"talenta-backend/internal/infrastructure/storage"
	"talenta-backend/internal/infrastructure/transcoder"
	"talenta-backend/internal/shared"
	"talenta-backend/internal/shared/apperror"
	"talenta-backend/internal/shared/utils"
	"talenta-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Options struct {
	MaxFileSize     int64
	DownloadTimeout time.Duration
	MergeTimeout    time.Duration
	Queue           string
	TempDir         string
}

type audioService struct {
	repo     audio.Repository
	taxonomy category.Resolver
	blobs    storage.BlobStore
	images   *storage.ImageProcessor
	queue    Enqueuer
	merger   *merger
	opts     Options
	now      func() time.Time
}

func NewAudioService(
	repo audio.Repository,
	taxonomy category.Resolver,
	blobs storage.BlobStore,
	images *storage.ImageProcessor,
	tc transcoder.Transcoder,
	queue Enqueuer,
	opts Options,
) *audioService {
	if opts.DownloadTimeout <= 0 {
		opts.DownloadTimeout = 30 * time.Second
	}
	if opts.MergeTimeout <= 0 {
		opts.MergeTimeout = 15 * time.Minute
	}
	if opts.Queue == "" {
		opts.Queue = shared.QueueMedia
	}
	return &audioService{
		repo:     repo,
		taxonomy: taxonomy,
		blobs:    blobs,
		images:   images,
		queue:    queue,
		merger: &merger{
			blobs:           blobs,
			transcoder:      tc,
			downloadTimeout: opts.DownloadTimeout,
			tempRoot:        opts.TempDir,
		},
		opts: opts,
		now:  time.Now,
	}
}

// owned loads the audio and checks op. Callers that cannot even read it
// get not found.
func (s *audioService) owned(ctx context.Context, actor *access.Actor, id uuid.UUID, op access.Operation) (*audio.Audio, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := access.Authorize(actor, a.Resource(), op); !d.Allowed {
		if !access.Authorize(actor, a.Resource(), access.OpRead).Allowed {
			return nil, audio.ErrAudioNotFound
		}
		return nil, d.Err()
	}
	return a, nil
}

// ════════════════════════════════════════════════════════════════
// UPLOAD / READ
// ════════════════════════════════════════════════════════════════

func (s *audioService) Upload(ctx context.Context, actor *access.Actor, req audio.UploadAudioRequest, file, cover *storage.File) (*audio.Audio, error) {
	if actor == nil {
		return nil, apperror.Unauthenticated("Authentication required")
	}
	if err := access.Authorize(actor, access.Content(actor.UserID, lifecycle.StatusDraft), access.OpCreate).Err(); err != nil {
		return nil, err
	}
	if err := audio.ValidateFile(file, s.opts.MaxFileSize); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	categoryID, subCategoryID, err := s.resolveTaxonomy(ctx, req.CategoryID, req.SubCategoryID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSuffix(file.Name, path.Ext(file.Name))
	}
	res, _ := lifecycle.Transition(lifecycle.StatusDraft, lifecycle.NormalizeCreate(req.Status), lifecycle.PathStatusUpdate, nil, s.now())

	asset, err := s.blobs.Upload(ctx, file.Reader, file.Size, storage.UploadOptions{
		Folder:       storage.FolderAudio,
		ResourceKind: storage.KindAudio,
		FileName:     file.Name,
		ContentType:  file.ContentType,
	})
	if err != nil {
		return nil, apperror.Upstream("Failed to upload audio", err)
	}

	a := &audio.Audio{
		OwnerID:       actor.UserID,
		Title:         title,
		Description:   req.Description,
		Tags:          pq.StringArray(utils.ParseStringOrArray(req.Tags)),
		Status:        res.Status,
		PublishedAt:   res.PublishedAt,
		CategoryID:    categoryID,
		SubCategoryID: subCategoryID,
		FileURL:       asset.URL,
		PublicID:      asset.Identifier,
		FileName:      &file.Name,
		Duration:      parseDuration(req.Duration),
		SegmentURLs:   pq.StringArray{},
		SegmentIDs:    pq.StringArray{},
	}

	if cover != nil {
		data, err := s.images.PrepareCover(cover)
		if err != nil {
			storage.DestroyBestEffort(ctx, s.blobs, asset.Identifier)
			return nil, apperror.Validation(fmt.Sprintf("Invalid cover image: %v", err))
		}
		coverAsset, err := storage.UploadBytes(ctx, s.blobs, data, storage.UploadOptions{
			Folder:       storage.FolderCovers,
			ResourceKind: storage.KindImage,
			FileName:     "cover.jpg",
			ContentType:  "image/jpeg",
		})
		if err != nil {
			storage.DestroyBestEffort(ctx, s.blobs, asset.Identifier)
			return nil, apperror.Upstream("Failed to upload cover image", err)
		}
		a.CoverImage, a.CoverImageID = &coverAsset.URL, &coverAsset.Identifier
	}

	if err := s.repo.Create(ctx, a); err != nil {
		for _, id := range a.Blobs() {
			storage.DestroyBestEffort(ctx, s.blobs, id)
		}
		return nil, err
	}

	logger.Info("Audio uploaded", map[string]interface{}{
		"audio_id":  a.ID.String(),
		"public_id": a.PublicID,
		"size":      asset.Size,
	})
	return a, nil
}

func (s *audioService) ListPublished(ctx context.Context, filter audio.ListFilter) ([]audio.Audio, int64, error) {
	filter.OwnerID = nil
	filter.Statuses = []lifecycle.Status{lifecycle.StatusPublished}
	return s.repo.List(ctx, filter)
}

// ListDrafts lists the caller's own drafts.
func (s *audioService) ListDrafts(ctx context.Context, actor *access.Actor, filter audio.ListFilter) ([]audio.Audio, int64, error) {
	if actor == nil {
		return nil, 0, apperror.Unauthenticated("Authentication required")
	}
	filter.OwnerID = &actor.UserID
	filter.Statuses = []lifecycle.Status{lifecycle.StatusDraft}
	return s.repo.List(ctx, filter)
}

func (s *audioService) Get(ctx context.Context, actor *access.Actor, id uuid.UUID) (*audio.Audio, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, a.Resource(), access.OpRead).Hide(audio.ErrAudioNotFound); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *audioService) Stream(ctx context.Context, actor *access.Actor, id uuid.UUID) (*audio.StreamSource, error) {
	a, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return streamSource(a)
}

func (s *audioService) StreamByFileName(ctx context.Context, actor *access.Actor, name string) (*audio.StreamSource, error) {
	a, err := s.repo.GetByFileName(ctx, path.Base(name))
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, a.Resource(), access.OpRead).Hide(audio.ErrAudioNotFound); err != nil {
		return nil, err
	}
	return streamSource(a)
}

func streamSource(a *audio.Audio) (*audio.StreamSource, error) {
	if a.PublicID == "" {
		return nil, audio.ErrNoPrimaryAsset
	}
	name := path.Base(a.PublicID)
	if a.FileName != nil && *a.FileName != "" {
		name = *a.FileName
	}
	return &audio.StreamSource{Identifier: a.PublicID, FileName: name, ContentType: contentTypeFor(a.PublicID)}, nil
}

func contentTypeFor(identifier string) string {
	switch strings.ToLower(path.Ext(identifier)) {
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".webm":
		return "audio/webm"
	case ".m4a":
		return "audio/mp4"
	case ".aac":
		return "audio/aac"
	case ".flac":
		return "audio/flac"
	default:
		return "audio/mpeg"
	}
}

// ════════════════════════════════════════════════════════════════
// UPDATE / STATUS / DELETE
// ════════════════════════════════════════════════════════════════

func (s *audioService) Update(ctx context.Context, actor *access.Actor, id uuid.UUID, req audio.UpdateAudioRequest) (*audio.Audio, error) {
	a, err := s.owned(ctx, actor, id, access.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	if req.CategoryID != nil || req.SubCategoryID != nil {
		catRaw, subRaw := idString(a.CategoryID), idString(a.SubCategoryID)
		if req.CategoryID != nil {
			catRaw = *req.CategoryID
		}
		if req.SubCategoryID != nil {
			subRaw = *req.SubCategoryID
		}
		if a.CategoryID, a.SubCategoryID, err = s.resolveTaxonomy(ctx, catRaw, subRaw); err != nil {
			return nil, err
		}
	}
	if req.Title != nil {
		a.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		a.Description = req.Description
	}
	if req.Tags != nil {
		a.Tags = pq.StringArray(utils.ParseStringOrArray(req.Tags))
	}
	if req.Duration != nil {
		a.Duration = parseDuration(*req.Duration)
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *audioService) UpdateStatus(ctx context.Context, actor *access.Actor, id uuid.UUID, req audio.StatusRequest) (*audio.Audio, error) {
	a, err := s.owned(ctx, actor, id, access.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	to, err := lifecycle.Parse(req.Status)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, a, to, lifecycle.PathStatusUpdate); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *audioService) transition(ctx context.Context, a *audio.Audio, to lifecycle.Status, p lifecycle.Path) error {
	res, err := lifecycle.Transition(a.Status, to, p, a.PublishedAt, s.now())
	if err != nil {
		return err
	}
	// a legacy PUBLISHED row without a timestamp still gets one written
	if !res.Changed && res.PublishedAt == a.PublishedAt {
		return nil
	}
	if err := s.repo.UpdateStatus(ctx, a.ID, a.Status, res.Status, res.PublishedAt); err != nil {
		return err
	}
	a.Status, a.PublishedAt = res.Status, res.PublishedAt
	return nil
}

// Delete removes the audio, its chapters and parts, then destroys the
// primary asset, the segments, the cover and the part files.
func (s *audioService) Delete(ctx context.Context, actor *access.Actor, id uuid.UUID) error {
	a, err := s.owned(ctx, actor, id, access.OpDelete)
	if err != nil {
		return err
	}
	parts, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	for _, blob := range append(a.Blobs(), parts...) {
		storage.DestroyBestEffort(ctx, s.blobs, blob)
	}
	logger.Info("Audio deleted", map[string]interface{}{
		"audio_id": id.String(),
		"segments": len(a.SegmentIDs),
		"parts":    len(parts),
	})
	return nil
}

// ════════════════════════════════════════════════════════════════
// SEGMENTS
// ════════════════════════════════════════════════════════════════

func (s *audioService) AppendSegment(ctx context.Context, actor *access.Actor, id uuid.UUID, file *storage.File) (*audio.Audio, error) {
	a, err := s.owned(ctx, actor, id, access.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := audio.ValidateFile(file, s.opts.MaxFileSize); err != nil {
		return nil, err
	}

	asset, err := s.blobs.Upload(ctx, file.Reader, file.Size, storage.UploadOptions{
		Folder:       storage.FolderSegments,
		ResourceKind: storage.KindAudio,
		FileName:     file.Name,
		ContentType:  file.ContentType,
	})
	if err != nil {
		return nil, apperror.Upstream("Failed to upload segment", err)
	}

	a.AppendSegment(asset.URL, asset.Identifier)
	if err := s.repo.UpdateSegments(ctx, a.ID, a.SegmentURLs, a.SegmentIDs); err != nil {
		storage.DestroyBestEffort(ctx, s.blobs, asset.Identifier)
		return nil, err
	}
	return a, nil
}

func (s *audioService) ReorderSegments(ctx context.Context, actor *access.Actor, id uuid.UUID, req audio.ReorderSegmentsRequest) (*audio.Audio, error) {
	a, err := s.owned(ctx, actor, id, access.OpReorder)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	if err := a.ReorderSegments(req.SegmentIDs); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSegments(ctx, a.ID, a.SegmentURLs, a.SegmentIDs); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *audioService) RemoveSegment(ctx context.Context, actor *access.Actor, id uuid.UUID, req audio.RemoveSegmentRequest) (*audio.Audio, error) {
	a, err := s.owned(ctx, actor, id, access.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	if err := a.RemoveSegment(req.Identifier); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSegments(ctx, a.ID, a.SegmentURLs, a.SegmentIDs); err != nil {
		return nil, err
	}

	storage.DestroyBestEffort(ctx, s.blobs, req.Identifier)
	return a, nil
}

// ════════════════════════════════════════════════════════════════
// MERGE / PUBLISH
// ════════════════════════════════════════════════════════════════

func (s *audioService) Merge(ctx context.Context, actor *access.Actor, id uuid.UUID, publish bool) (*audio.MergeResult, error) {
	op := access.OpUpdate
	if publish {
		op = access.OpPublish
	}
	a, err := s.owned(ctx, actor, id, op)
	if err != nil {
		return nil, err
	}
	if publish {
		if err := lifecycle.CanTransition(a.Status, lifecycle.StatusPublished, lifecycle.PathMergePublish); err != nil {
			return nil, err
		}
	}

	result := &audio.MergeResult{Audio: a}
	sources := a.Sources()
	if len(a.SegmentIDs) == 0 || len(sources) < 2 {
		if !publish {
			return nil, audio.ErrNothingToMerge
		}
		if err := s.transition(ctx, a, lifecycle.StatusPublished, lifecycle.PathMergePublish); err != nil {
			return nil, err
		}
		return result, nil
	}

	mergeCtx, cancel := context.WithTimeout(ctx, s.opts.MergeTimeout)
	defer cancel()

	asset, err := s.merger.run(mergeCtx, sources)
	if err != nil {
		logger.ErrorWith("Audio merge failed", err, map[string]interface{}{
			"audio_id": a.ID.String(),
			"sources":  len(sources),
			"publish":  publish,
		})
		if !publish {
			return nil, apperror.Upstream("Failed to merge audio segments", err)
		}
		if err := s.transition(ctx, a, lifecycle.StatusPublished, lifecycle.PathMergePublish); err != nil {
			return nil, err
		}
		result.Warning = "Audio published, but merging segments failed; the segments were kept unmerged"
		return result, nil
	}

	if err := s.applyMerged(ctx, a, asset, publish); err != nil {
		return nil, err
	}
	result.Merged = true
	return result, nil
}

// applyMerged points a at the merged asset, publishing in the same write
// when asked. Without publish the stored status is never written, so a
// status change made while the merge ran is kept. The previous primary
// blob is left in place.
func (s *audioService) applyMerged(ctx context.Context, a *audio.Audio, asset *storage.Asset, publish bool) error {
	next := *a
	next.FileURL, next.PublicID = asset.URL, asset.Identifier
	name := path.Base(asset.Identifier)
	next.FileName = &name

	var err error
	if publish {
		res, terr := lifecycle.Transition(a.Status, lifecycle.StatusPublished, lifecycle.PathMergePublish, a.PublishedAt, s.now())
		if terr != nil {
			storage.DestroyBestEffort(ctx, s.blobs, asset.Identifier)
			return terr
		}
		next.Status, next.PublishedAt = res.Status, res.PublishedAt
		err = s.repo.PublishAsset(ctx, &next, a.Status)
	} else {
		err = s.repo.UpdateAsset(ctx, &next)
	}
	if err != nil {
		storage.DestroyBestEffort(ctx, s.blobs, asset.Identifier)
		return err
	}

	logger.Info("Audio segments merged", map[string]interface{}{
		"audio_id":      a.ID.String(),
		"public_id":     next.PublicID,
		"previous_id":   a.PublicID,
		"segment_count": len(a.SegmentIDs),
	})
	*a = next
	return nil
}

// Publish transitions to PUBLISHED now. With merge, the merge is queued
// and never affects the response beyond a warning when queueing fails.
func (s *audioService) Publish(ctx context.Context, actor *access.Actor, id uuid.UUID, merge bool) (*audio.PublishResult, error) {
	a, err := s.owned(ctx, actor, id, access.OpPublish)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, a, lifecycle.StatusPublished, lifecycle.PathStatusUpdate); err != nil {
		return nil, err
	}

	result := &audio.PublishResult{Audio: a}
	if !merge || len(a.SegmentIDs) == 0 {
		return result, nil
	}

	payload, err := json.Marshal(shared.MergeSegmentsPayload{AudioID: a.ID.String(), RequestedBy: actor.UserID.String()})
	if err != nil {
		return nil, apperror.Internal("Failed to build merge task", err)
	}
	task := asynq.NewTask(shared.TypeMergeAudioSegments, payload)
	info, err := s.queue.EnqueueContext(ctx, task,
		asynq.Queue(s.opts.Queue),
		asynq.MaxRetry(0),
		asynq.Timeout(s.opts.MergeTimeout),
	)
	if err != nil {
		logger.ErrorWith("Failed to enqueue audio merge", err, map[string]interface{}{"audio_id": a.ID.String()})
		result.Warning = "Audio published, but the segment merge could not be scheduled"
		return result, nil
	}

	logger.Info("Audio merge queued", map[string]interface{}{
		"audio_id": a.ID.String(),
		"task_id":  info.ID,
	})
	result.MergeQueued = true
	return result, nil
}

// MergeInBackground runs the queued merge for an already published audio.
// The status is left alone.
func (s *audioService) MergeInBackground(ctx context.Context, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	sources := a.Sources()
	if len(a.SegmentIDs) == 0 || len(sources) < 2 {
		logger.Info("Nothing to merge", map[string]interface{}{"audio_id": id.String()})
		return nil
	}

	asset, err := s.merger.run(ctx, sources)
	if err != nil {
		return fmt.Errorf("merge audio %s: %w", id, err)
	}
	return s.applyMerged(ctx, a, asset, false)
}

func (s *audioService) resolveTaxonomy(ctx context.Context, categoryRaw, subCategoryRaw string) (*uuid.UUID, *uuid.UUID, error) {
	categoryID, err := utils.OptionalUUID(categoryRaw)
	if err != nil {
		return nil, nil, audio.ErrInvalidID
	}
	subCategoryID, err := utils.OptionalUUID(subCategoryRaw)
	if err != nil {
		return nil, nil, audio.ErrInvalidID
	}
	if err := s.taxonomy.ValidateAssignment(ctx, categoryID, subCategoryID); err != nil {
		return nil, nil, err
	}
	return categoryID, subCategoryID, nil
}

// parseDuration reads a validated duration; empty is zero.
func parseDuration(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func idString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
