package storage_test

import (
	"context"
	"testing"

	"talenta-backend/internal/infrastructure/storage"
	"talenta-backend/internal/infrastructure/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrphans(t *testing.T) {
	store := storagetest.New()
	store.Put("audio-files/kept.mp3", []byte("a"))
	store.Put("audio-files/lost.mp3", []byte("b"))
	store.Put("audio-parts/p.mp3", []byte("c"))
	store.Put("covers/c.jpg", []byte("d"))
	store.Put("unmanaged/x.bin", []byte("e"))

	refs := map[string]struct{}{
		"audio-files/kept.mp3": {},
		"covers/c.jpg":         {},
	}

	orphans, err := storage.FindOrphans(context.Background(), store, refs)
	require.NoError(t, err)
	assert.Equal(t, []string{"audio-files/lost.mp3", "audio-parts/p.mp3"}, orphans)
	// reporting never removes anything
	assert.Empty(t, store.Destroyed)
}
