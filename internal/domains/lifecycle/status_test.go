package lifecycle

import (
	"testing"
	"time"

	"talenta-backend/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, StatusPublished, NormalizeCreate("PUBLISHED"))
	assert.Equal(t, StatusPublished, NormalizeCreate("published"))
	assert.Equal(t, StatusDraft, NormalizeCreate("ARCHIVED"))
	assert.Equal(t, StatusDraft, NormalizeCreate(""))

	assert.Equal(t, StatusArchived, NormalizeUpdate("ARCHIVED"))
	assert.Equal(t, StatusPublished, NormalizeUpdate("PUBLISHED"))
	assert.Equal(t, StatusDraft, NormalizeUpdate("bogus"))
}

func TestParse(t *testing.T) {
	s, err := Parse(" archived ")
	require.NoError(t, err)
	assert.Equal(t, StatusArchived, s)

	_, err = Parse("DELETED")
	assert.Error(t, err)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		path     Path
		ok       bool
	}{
		{StatusDraft, StatusPublished, PathStatusUpdate, true},
		{StatusDraft, StatusPublished, PathMergePublish, true},
		{StatusPublished, StatusArchived, PathStatusUpdate, true},
		{StatusDraft, StatusArchived, PathStatusUpdate, true},
		{StatusArchived, StatusDraft, PathStatusUpdate, true},
		{StatusPublished, StatusDraft, PathStatusUpdate, true},
		{StatusPublished, StatusDraft, PathMergePublish, false},
		{StatusArchived, StatusPublished, PathStatusUpdate, false},
		{StatusArchived, StatusPublished, PathMergePublish, false},
		{StatusPublished, StatusPublished, PathMergePublish, true},
		{StatusDraft, Status("GONE"), PathStatusUpdate, false},
	}
	for _, tc := range cases {
		err := CanTransition(tc.from, tc.to, tc.path)
		if tc.ok {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
		} else {
			assert.Error(t, err, "%s -> %s", tc.from, tc.to)
			assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
		}
	}
}

func TestTransitionPublishedAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first publish sets timestamp", func(t *testing.T) {
		res, err := Transition(StatusDraft, StatusPublished, PathStatusUpdate, nil, now)
		require.NoError(t, err)
		assert.True(t, res.Changed)
		require.NotNil(t, res.PublishedAt)
		assert.Equal(t, now, *res.PublishedAt)
	})

	t.Run("republish keeps original timestamp", func(t *testing.T) {
		first := now.Add(-48 * time.Hour)
		res, err := Transition(StatusDraft, StatusPublished, PathStatusUpdate, &first, now)
		require.NoError(t, err)
		assert.Equal(t, first, *res.PublishedAt)
	})

	t.Run("archive keeps timestamp", func(t *testing.T) {
		first := now.Add(-time.Hour)
		res, err := Transition(StatusPublished, StatusArchived, PathStatusUpdate, &first, now)
		require.NoError(t, err)
		assert.Equal(t, StatusArchived, res.Status)
		assert.Equal(t, first, *res.PublishedAt)
	})

	t.Run("rejected transition leaves state", func(t *testing.T) {
		res, err := Transition(StatusArchived, StatusPublished, PathMergePublish, nil, now)
		require.Error(t, err)
		assert.Equal(t, StatusArchived, res.Status)
		assert.Nil(t, res.PublishedAt)
	})

	t.Run("same state is a no-op", func(t *testing.T) {
		res, err := Transition(StatusDraft, StatusDraft, PathStatusUpdate, nil, now)
		require.NoError(t, err)
		assert.False(t, res.Changed)
	})
}

func TestIsPublic(t *testing.T) {
	assert.True(t, IsPublic(StatusPublished))
	assert.False(t, IsPublic(StatusDraft))
	assert.False(t, IsPublic(StatusArchived))
}
