package audio

import (
	"testing"

	"talenta-backend/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withSegments(ids ...string) *Audio {
	a := &Audio{PublicID: "audio-files/p.mp3"}
	for _, id := range ids {
		a.AppendSegment("mem://"+id, id)
	}
	return a
}

func TestReorderSegments(t *testing.T) {
	a := withSegments("s1", "s2", "s3")

	require.NoError(t, a.ReorderSegments([]string{"s3", "s1", "s2"}))
	assert.Equal(t, []string{"s3", "s1", "s2"}, []string(a.SegmentIDs))
	assert.Equal(t, []string{"mem://s3", "mem://s1", "mem://s2"}, []string(a.SegmentURLs))

	assert.Error(t, a.ReorderSegments([]string{"s1", "s2"}))
	assert.Error(t, a.ReorderSegments([]string{"s1", "s1", "s2"}))
	assert.Error(t, a.ReorderSegments([]string{"s1", "s2", "x"}))
	// failed reorders leave the arrays alone
	assert.Equal(t, []string{"s3", "s1", "s2"}, []string(a.SegmentIDs))
}

func TestRemoveSegment(t *testing.T) {
	a := withSegments("s1", "s2", "s3")
	before := a.SegmentIDs

	require.NoError(t, a.RemoveSegment("s2"))
	assert.Equal(t, []string{"s1", "s3"}, []string(a.SegmentIDs))
	assert.Equal(t, []string{"mem://s1", "mem://s3"}, []string(a.SegmentURLs))
	assert.Equal(t, "s2", before[1])

	assert.ErrorIs(t, a.RemoveSegment("s2"), ErrSegmentNotFound)
}

func TestMisalignedSegments(t *testing.T) {
	a := withSegments("s1", "s2")
	a.SegmentURLs = a.SegmentURLs[:1]

	err := a.RemoveSegment("s2")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInternal))
	assert.Equal(t, []string{"s1", "s2"}, []string(a.SegmentIDs))

	err = a.ReorderSegments([]string{"s2", "s1"})
	assert.True(t, apperror.IsCode(err, apperror.CodeInternal))
}

func TestSources(t *testing.T) {
	a := withSegments("s1", "s2")
	assert.Equal(t, []string{"audio-files/p.mp3", "s1", "s2"}, a.Sources())

	a.PublicID = ""
	assert.Equal(t, []string{"s1", "s2"}, a.Sources())
	assert.ElementsMatch(t, []string{"", "s1", "s2"}, a.Blobs())
}

func TestAllowedMimeType(t *testing.T) {
	assert.True(t, AllowedMimeType("audio/mpeg"))
	assert.True(t, AllowedMimeType("audio/webm; codecs=opus"))
	assert.True(t, AllowedMimeType("AUDIO/FLAC"))
	assert.False(t, AllowedMimeType("video/mp4"))
	assert.False(t, AllowedMimeType(""))
}
