package job

import (
	"context"
	"errors"
	"testing"

	"talenta-backend/internal/infrastructure/storage/storagetest"
	"talenta-backend/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefs struct {
	keys map[string]struct{}
	err  error
}

func (f fakeRefs) ReferencedKeys(context.Context) (map[string]struct{}, error) {
	return f.keys, f.err
}

func TestReconcileOrphans(t *testing.T) {
	store := storagetest.New()
	store.Put("audio-segments/a.mp3", []byte("a"))
	task := asynq.NewTask(shared.TypeReconcileOrphans, nil)

	h := NewReconcileOrphansHandler(store, fakeRefs{keys: map[string]struct{}{}})
	require.NoError(t, h.ProcessTask(context.Background(), task))
	assert.True(t, store.Has("audio-segments/a.mp3"))

	h = NewReconcileOrphansHandler(store, fakeRefs{err: errors.New("db down")})
	assert.Error(t, h.ProcessTask(context.Background(), task))
}
