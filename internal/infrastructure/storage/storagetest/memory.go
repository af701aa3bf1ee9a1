// Package storagetest provides an in-memory storage.BlobStore for tests.
package storagetest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"talenta-backend/internal/infrastructure/storage"
)

type Store struct {
	mu        sync.Mutex
	objects   map[string][]byte
	Destroyed []string

	// FailUpload, FailDestroy and FailOpen make the matching calls fail.
	FailUpload  error
	FailDestroy error
	FailOpen    map[string]error
}

func New() *Store {
	return &Store{objects: map[string][]byte{}, FailOpen: map[string]error{}}
}

// Put stores data under key directly.
func (s *Store) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
}

func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

func (s *Store) Bytes(key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects[key]
}

func (s *Store) Upload(_ context.Context, r io.Reader, _ int64, opts storage.UploadOptions) (*storage.Asset, error) {
	if s.FailUpload != nil {
		return nil, s.FailUpload
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	key := storage.ObjectKey(opts)
	s.Put(key, data)
	return &storage.Asset{URL: "mem://" + key, Identifier: key, Size: int64(len(data))}, nil
}

func (s *Store) Destroy(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Destroyed = append(s.Destroyed, identifier)
	if s.FailDestroy != nil {
		return s.FailDestroy
	}
	delete(s.objects, identifier)
	return nil
}

func (s *Store) Open(ctx context.Context, identifier string) (io.ReadCloser, error) {
	return s.OpenRange(ctx, identifier, 0, -1)
}

// OpenRange returns bytes start..end inclusive; end < 0 means to the end.
func (s *Store) OpenRange(_ context.Context, identifier string, start, end int64) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.FailOpen[identifier]; err != nil {
		return nil, err
	}
	data, ok := s.objects[identifier]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", identifier, storage.ErrObjectNotFound)
	}
	if end < 0 || end >= int64(len(data)) {
		end = int64(len(data)) - 1
	}
	if start > end+1 {
		return nil, errors.New("range out of bounds")
	}
	return io.NopCloser(bytes.NewReader(data[start : end+1])), nil
}

func (s *Store) Stat(_ context.Context, identifier string) (*storage.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[identifier]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &storage.ObjectInfo{Size: int64(len(data)), ContentType: "application/octet-stream", LastModified: time.Unix(0, 0)}, nil
}

func (s *Store) PresignedDownload(_ context.Context, identifier, fileName string, _ time.Duration) (string, error) {
	if !s.Has(identifier) {
		return "", storage.ErrObjectNotFound
	}
	return "mem://" + identifier + "?download=" + fileName, nil
}

func (s *Store) ListKeys(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
