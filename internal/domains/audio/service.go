package audio

import (
	"context"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/infrastructure/storage"

	"github.com/google/uuid"
)

type Service interface {
	Upload(ctx context.Context, actor *access.Actor, req UploadAudioRequest, file, cover *storage.File) (*Audio, error)
	ListPublished(ctx context.Context, filter ListFilter) ([]Audio, int64, error)
	ListDrafts(ctx context.Context, actor *access.Actor, filter ListFilter) ([]Audio, int64, error)
	Get(ctx context.Context, actor *access.Actor, id uuid.UUID) (*Audio, error)
	Update(ctx context.Context, actor *access.Actor, id uuid.UUID, req UpdateAudioRequest) (*Audio, error)
	UpdateStatus(ctx context.Context, actor *access.Actor, id uuid.UUID, req StatusRequest) (*Audio, error)
	Delete(ctx context.Context, actor *access.Actor, id uuid.UUID) error

	AppendSegment(ctx context.Context, actor *access.Actor, id uuid.UUID, file *storage.File) (*Audio, error)
	ReorderSegments(ctx context.Context, actor *access.Actor, id uuid.UUID, req ReorderSegmentsRequest) (*Audio, error)
	RemoveSegment(ctx context.Context, actor *access.Actor, id uuid.UUID, req RemoveSegmentRequest) (*Audio, error)

	// Merge concatenates the primary asset and the segments synchronously.
	Merge(ctx context.Context, actor *access.Actor, id uuid.UUID, publish bool) (*MergeResult, error)
	// Publish transitions to PUBLISHED and, with merge, queues the merge
	// for the worker.
	Publish(ctx context.Context, actor *access.Actor, id uuid.UUID, merge bool) (*PublishResult, error)

	Stream(ctx context.Context, actor *access.Actor, id uuid.UUID) (*StreamSource, error)
	StreamByFileName(ctx context.Context, actor *access.Actor, name string) (*StreamSource, error)
}

// BackgroundMerger runs the queued merge. It has no caller to report to.
type BackgroundMerger interface {
	MergeInBackground(ctx context.Context, id uuid.UUID) error
}
