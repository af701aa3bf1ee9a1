package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"talenta-backend/internal/infrastructure/storage"
	"talenta-backend/internal/infrastructure/transcoder"

	"github.com/rs/zerolog/log"
)

const mergedFileName = "merged.mp3"

// merger downloads merge sources, concatenates them and uploads the
// result. Every attempt gets its own temp directory, removed on return.
type merger struct {
	blobs           storage.BlobStore
	transcoder      transcoder.Transcoder
	downloadTimeout time.Duration
	tempRoot        string
}

// run returns the uploaded merged asset. sources are blob identifiers in
// playback order.
func (m *merger) run(ctx context.Context, sources []string) (*storage.Asset, error) {
	if len(sources) < 2 {
		return nil, transcoder.ErrTooFewInputs
	}

	dir, err := os.MkdirTemp(m.tempRoot, "merge-*")
	if err != nil {
		return nil, fmt.Errorf("create merge dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("Failed to remove merge dir")
		}
	}()

	// downloads run one after another; the concat list is ordered
	inputs := make([]string, 0, len(sources))
	for i, id := range sources {
		local := filepath.Join(dir, fmt.Sprintf("%03d%s", i, path.Ext(id)))
		if err := m.download(ctx, id, local); err != nil {
			return nil, err
		}
		inputs = append(inputs, local)
	}

	output := filepath.Join(dir, mergedFileName)
	if err := m.transcoder.Concatenate(ctx, inputs, output); err != nil {
		return nil, fmt.Errorf("concatenate: %w", err)
	}

	f, err := os.Open(output)
	if err != nil {
		return nil, fmt.Errorf("open merged file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat merged file: %w", err)
	}

	asset, err := m.blobs.Upload(ctx, f, info.Size(), storage.UploadOptions{
		Folder:       storage.FolderAudio,
		ResourceKind: storage.KindAudio,
		FileName:     mergedFileName,
		ContentType:  "audio/mpeg",
	})
	if err != nil {
		return nil, fmt.Errorf("upload merged file: %w", err)
	}
	return asset, nil
}

func (m *merger) download(ctx context.Context, identifier, dst string) error {
	ctx, cancel := context.WithTimeout(ctx, m.downloadTimeout)
	defer cancel()

	src, err := m.blobs.Open(ctx, identifier)
	if err != nil {
		return fmt.Errorf("download %s: %w", identifier, err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("download %s timed out after %s", identifier, m.downloadTimeout)
		}
		return fmt.Errorf("download %s: %w", identifier, err)
	}
	return out.Close()
}
