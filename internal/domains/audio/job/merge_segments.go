package job

import (
	"context"
	"encoding/json"
	"fmt"

	"talenta-backend/internal/domains/audio"
	"talenta-backend/internal/shared"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// ============================================
// Merge Audio Segments Handler
// ============================================

// MergeSegmentsHandler runs the merge queued by a publish. The audio is
// already published; a failure leaves it published and unmerged.
type MergeSegmentsHandler struct {
	merger audio.BackgroundMerger
}

func NewMergeSegmentsHandler(merger audio.BackgroundMerger) *MergeSegmentsHandler {
	return &MergeSegmentsHandler{merger: merger}
}

func (h *MergeSegmentsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.MergeSegmentsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal MergeSegments payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	id, err := uuid.Parse(payload.AudioID)
	if err != nil {
		log.Error().Str("audio_id", payload.AudioID).Msg("Invalid audio id in MergeSegments payload")
		return fmt.Errorf("parse audio id: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("audio_id", payload.AudioID).
		Str("requested_by", payload.RequestedBy).
		Msg("Merging audio segments")

	if err := h.merger.MergeInBackground(ctx, id); err != nil {
		log.Error().
			Err(err).
			Str("audio_id", payload.AudioID).
			Msg("Background merge failed; audio stays published unmerged")
		return fmt.Errorf("merge segments: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("audio_id", payload.AudioID).
		Msg("Audio segments merged in background")
	return nil
}
