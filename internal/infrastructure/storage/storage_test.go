package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey(UploadOptions{Folder: FolderAudio, PublicIDHint: "my track/1", FileName: "a.MP3"})
	assert.Equal(t, "audio-files/my_track_1.mp3", key)

	key = ObjectKey(UploadOptions{Folder: "/covers/", FileName: "x.png"})
	assert.True(t, strings.HasPrefix(key, "covers/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	assert.Equal(t, "merged.mp3", ObjectKey(UploadOptions{PublicIDHint: "merged.mp3", FileName: "merged.mp3"}))
}

func pngBytes(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestImageProcessor(t *testing.T) {
	p := NewImageProcessor(0)

	t.Run("accepts png", func(t *testing.T) {
		assert.NoError(t, p.ValidateImage(pngBytes(t, 10, 10)))
	})

	t.Run("rejects non-image", func(t *testing.T) {
		assert.Error(t, p.ValidateImage([]byte("hello")))
	})

	t.Run("rejects oversize", func(t *testing.T) {
		small := NewImageProcessor(8)
		assert.ErrorContains(t, small.ValidateImage(pngBytes(t, 10, 10)), "exceeds")
	})

	t.Run("fit scales long edge", func(t *testing.T) {
		out, err := p.FitCover(pngBytes(t, 400, 200), 100)
		require.NoError(t, err)
		cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 100, cfg.Width)
		assert.Equal(t, 50, cfg.Height)
	})
}
