// Package stream serves stored objects over HTTP with byte-range support.
package stream

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"talenta-backend/internal/infrastructure/storage"
	"talenta-backend/internal/shared/apperror"
	"talenta-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var ErrUnsatisfiable = errors.New("range not satisfiable")

// Range is an inclusive byte range.
type Range struct {
	Start int64
	End   int64
}

func (r Range) Length() int64 { return r.End - r.Start + 1 }

// ParseRange reads a single "bytes=" range against an object of size
// bytes. A missing or malformed header yields nil, meaning the whole
// object. Only the first range of a multi-range request is honored.
func ParseRange(header string, size int64) (*Range, error) {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, "bytes=") {
		return nil, nil
	}
	rng := strings.TrimSpace(strings.TrimPrefix(header, "bytes="))
	if i := strings.IndexByte(rng, ','); i >= 0 {
		rng = strings.TrimSpace(rng[:i])
	}

	dash := strings.IndexByte(rng, '-')
	if dash < 0 {
		return nil, nil
	}
	startRaw, endRaw := strings.TrimSpace(rng[:dash]), strings.TrimSpace(rng[dash+1:])

	// suffix form: the last n bytes
	if startRaw == "" {
		n, err := strconv.ParseInt(endRaw, 10, 64)
		if err != nil || n < 0 {
			return nil, nil
		}
		if n == 0 || size == 0 {
			return nil, ErrUnsatisfiable
		}
		if n > size {
			n = size
		}
		return &Range{Start: size - n, End: size - 1}, nil
	}

	start, err := strconv.ParseInt(startRaw, 10, 64)
	if err != nil || start < 0 {
		return nil, nil
	}
	if start >= size {
		return nil, ErrUnsatisfiable
	}

	end := size - 1
	if endRaw != "" {
		end, err = strconv.ParseInt(endRaw, 10, 64)
		if err != nil || end < start {
			return nil, nil
		}
		if end >= size {
			end = size - 1
		}
	}
	return &Range{Start: start, End: end}, nil
}

// Object names what to serve. ContentType falls back to the stored
// object's type.
type Object struct {
	Identifier  string
	FileName    string
	ContentType string
}

// Serve writes obj to the response, honoring the Range header. Errors
// before the first byte is written are rendered as envelopes. A failure
// while copying the body aborts the connection.
func Serve(c *gin.Context, store storage.BlobStore, obj Object) {
	ctx := c.Request.Context()

	info, err := store.Stat(ctx, obj.Identifier)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			response.FromError(c, apperror.NotFound("Audio file not found"))
			return
		}
		response.FromError(c, apperror.Upstream("Failed to read audio file", err))
		return
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = info.ContentType
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	rng, err := ParseRange(c.GetHeader("Range"), info.Size)
	if err != nil {
		c.Header("Content-Range", fmt.Sprintf("bytes */%d", info.Size))
		response.Error(c, http.StatusRequestedRangeNotSatisfiable, "Requested range not satisfiable", nil)
		return
	}

	status, start, end := http.StatusOK, int64(0), info.Size-1
	if rng != nil {
		status, start, end = http.StatusPartialContent, rng.Start, rng.End
	}

	var body io.ReadCloser
	if c.Request.Method != http.MethodHead {
		if rng != nil {
			body, err = store.OpenRange(ctx, obj.Identifier, start, end)
		} else {
			body, err = store.Open(ctx, obj.Identifier)
		}
		if err != nil {
			response.FromError(c, apperror.Upstream("Failed to read audio file", err))
			return
		}
		defer body.Close()
	}

	h := c.Writer.Header()
	h.Set("Accept-Ranges", "bytes")
	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.FormatInt(end-start+1, 10))
	if obj.FileName != "" {
		h.Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": obj.FileName}))
	}
	if rng != nil {
		h.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, info.Size))
	}
	c.Status(status)
	c.Writer.WriteHeaderNow()

	if body == nil {
		return
	}
	if _, err := io.Copy(c.Writer, body); err != nil {
		log.Warn().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("identifier", obj.Identifier).
			Msg("Stream interrupted")
		panic(http.ErrAbortHandler)
	}
}
