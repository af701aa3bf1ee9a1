package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
)

// File is an incoming upload as handed over by an HTTP handler.
type File struct {
	Reader      io.Reader
	Size        int64
	Name        string
	ContentType string
}

// PrepareCover reads an uploaded image, validates it and fits it into a
// CoverSize square.
func (p *ImageProcessor) PrepareCover(f *File) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(f.Reader, p.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if err := p.ValidateImage(data); err != nil {
		return nil, err
	}
	return p.FitCover(data, CoverSize)
}

// UploadBytes uploads an in-memory object.
func UploadBytes(ctx context.Context, store BlobStore, data []byte, opts UploadOptions) (*Asset, error) {
	return store.Upload(ctx, bytes.NewReader(data), int64(len(data)), opts)
}

// DestroyBestEffort removes identifier and only logs a failure. Empty
// identifiers are ignored.
func DestroyBestEffort(ctx context.Context, store BlobStore, identifier string) {
	if identifier == "" || store == nil {
		return
	}
	if err := store.Destroy(ctx, identifier); err != nil {
		log.Warn().Err(err).Str("identifier", identifier).Msg("Failed to destroy blob")
	}
}
