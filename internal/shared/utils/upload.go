package utils

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"talenta-backend/internal/infrastructure/storage"
	"talenta-backend/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// MaxMultipartMemory is the in-memory part of a parsed multipart form; the
// rest spills to temp files.
const MaxMultipartMemory = 32 << 20

// IsMultipart reports whether the request carries a form body.
func IsMultipart(c *gin.Context) bool {
	ct := c.ContentType()
	return strings.HasPrefix(ct, gin.MIMEMultipartPOSTForm) || ct == gin.MIMEPOSTForm
}

// BindForm binds a multipart or urlencoded form by its form tags and any
// other body as JSON.
func BindForm(c *gin.Context, dst interface{}) error {
	if !IsMultipart(c) {
		return BindJSON(c, dst)
	}
	if err := c.ShouldBind(dst); err != nil {
		return apperror.Validation("Invalid form data: " + err.Error())
	}
	return nil
}

// FormValue returns the named form field and whether it was sent.
func FormValue(c *gin.Context, name string) (string, bool) {
	return c.GetPostForm(name)
}

// FormFile opens the named upload. A missing field yields a nil file and a
// no-op release func.
func FormFile(c *gin.Context, field string) (*storage.File, func(), error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, apperror.Validation("Invalid file upload: " + err.Error())
	}

	f, err := openPart(field, header)
	if err != nil {
		return nil, func() {}, err
	}
	return f, func() { closeReader(f) }, nil
}

func openPart(field string, header *multipart.FileHeader) (*storage.File, error) {
	r, err := header.Open()
	if err != nil {
		return nil, apperror.Validation("Cannot read uploaded file",
			apperror.FieldError{Field: field, Message: err.Error()})
	}
	return &storage.File{
		Reader:      r,
		Size:        header.Size,
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}

func closeReader(f *storage.File) {
	if closer, ok := f.Reader.(multipart.File); ok {
		_ = closer.Close()
	}
}
