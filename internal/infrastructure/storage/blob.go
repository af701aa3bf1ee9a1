package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Folders the service writes to. Blob GC scans exactly these prefixes.
const (
	FolderAudio    = "audio-files"
	FolderCovers   = "covers"
	FolderBooks    = "book-files"
	FolderSegments = "audio-segments"
	FolderParts    = "audio-parts"
)

var ManagedFolders = []string{FolderAudio, FolderCovers, FolderBooks, FolderSegments, FolderParts}

// Resource kinds, recorded as object metadata.
const (
	KindAudio    = "audio"
	KindImage    = "image"
	KindDocument = "raw"
)

var ErrObjectNotFound = errors.New("object not found")

// UploadOptions control where an object lands.
type UploadOptions struct {
	Folder       string
	ResourceKind string
	// PublicIDHint becomes the object name when set; a random id is used otherwise.
	PublicIDHint string
	FileName     string
	ContentType  string
}

// Asset is an uploaded object: a URL for clients and the opaque
// identifier the service keeps to destroy or read it later.
type Asset struct {
	URL        string `json:"url"`
	Identifier string `json:"identifier"`
	Size       int64  `json:"size"`
}

type ObjectInfo struct {
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// BlobStore is the object store contract the domains depend on.
type BlobStore interface {
	Upload(ctx context.Context, r io.Reader, size int64, opts UploadOptions) (*Asset, error)
	Destroy(ctx context.Context, identifier string) error
	Open(ctx context.Context, identifier string) (io.ReadCloser, error)
	OpenRange(ctx context.Context, identifier string, start, end int64) (io.ReadCloser, error)
	Stat(ctx context.Context, identifier string) (*ObjectInfo, error)
	PresignedDownload(ctx context.Context, identifier, fileName string, expiry time.Duration) (string, error)
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// ObjectKey builds "<folder>/<name><ext>". The extension comes from the
// original file name.
func ObjectKey(opts UploadOptions) string {
	name := sanitize(opts.PublicIDHint)
	if name == "" {
		name = uuid.NewString()
	}
	ext := strings.ToLower(path.Ext(opts.FileName))
	if strings.HasSuffix(name, ext) {
		ext = ""
	}
	folder := strings.Trim(opts.Folder, "/")
	if folder == "" {
		return name + ext
	}
	return folder + "/" + name + ext
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ' || r == '/':
			b.WriteRune('_')
		}
	}
	return b.String()
}
