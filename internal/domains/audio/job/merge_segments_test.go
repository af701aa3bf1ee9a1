package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"talenta-backend/internal/shared"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMerger struct {
	calls []uuid.UUID
	err   error
}

func (f *fakeMerger) MergeInBackground(_ context.Context, id uuid.UUID) error {
	f.calls = append(f.calls, id)
	return f.err
}

func task(t *testing.T, audioID string) *asynq.Task {
	payload, err := json.Marshal(shared.MergeSegmentsPayload{AudioID: audioID, RequestedBy: uuid.NewString()})
	require.NoError(t, err)
	return asynq.NewTask(shared.TypeMergeAudioSegments, payload)
}

func TestMergeSegmentsHandler(t *testing.T) {
	t.Run("runs the merge", func(t *testing.T) {
		m := &fakeMerger{}
		id := uuid.New()

		require.NoError(t, NewMergeSegmentsHandler(m).ProcessTask(context.Background(), task(t, id.String())))
		assert.Equal(t, []uuid.UUID{id}, m.calls)
	})

	t.Run("failures are never retried", func(t *testing.T) {
		m := &fakeMerger{err: errors.New("ffmpeg exited 1")}

		err := NewMergeSegmentsHandler(m).ProcessTask(context.Background(), task(t, uuid.NewString()))
		require.Error(t, err)
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("bad payload", func(t *testing.T) {
		m := &fakeMerger{}
		h := NewMergeSegmentsHandler(m)

		err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeMergeAudioSegments, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)

		err = h.ProcessTask(context.Background(), task(t, "not-a-uuid"))
		assert.ErrorIs(t, err, asynq.SkipRetry)
		assert.Empty(t, m.calls)
	})
}
