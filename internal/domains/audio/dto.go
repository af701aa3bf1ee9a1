package audio

import (
	"errors"
	"strings"

	"talenta-backend/internal/infrastructure/storage"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// AllowedMimeTypes are the content types accepted for audio uploads.
var AllowedMimeTypes = []string{
	"audio/mpeg",
	"audio/mp3",
	"audio/wav",
	"audio/ogg",
	"audio/webm",
	"audio/webm;codecs=opus",
	"audio/x-m4a",
	"audio/m4a",
	"audio/aac",
	"audio/flac",
}

// AllowedMimeType reports whether ct is accepted. Parameters other than a
// listed codec are ignored.
func AllowedMimeType(ct string) bool {
	ct = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(ct), " ", ""))
	base := ct
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		base = ct[:i]
	}
	for _, allowed := range AllowedMimeTypes {
		if ct == allowed || base == allowed {
			return true
		}
	}
	return false
}

// ValidateFile checks an audio upload against the type list and maxSize.
func ValidateFile(f *storage.File, maxSize int64) error {
	if f == nil {
		return ErrNoFile
	}
	if !AllowedMimeType(f.ContentType) {
		return ErrUnsupportedType.WithMessage("Unsupported audio type %q", f.ContentType)
	}
	if maxSize > 0 && f.Size > maxSize {
		return ErrFileTooLarge.WithMessage("Audio file exceeds %dMB", maxSize>>20)
	}
	return nil
}

// UploadAudioRequest is bound from the multipart form sent with the
// primary asset.
type UploadAudioRequest struct {
	Title         string      `json:"title" form:"title"`
	Description   *string     `json:"description" form:"description"`
	Tags          interface{} `json:"tags" form:"-"`
	Status        string      `json:"status" form:"status"`
	CategoryID    string      `json:"categoryId" form:"categoryId"`
	SubCategoryID string      `json:"subCategoryId" form:"subCategoryId"`
	Duration      string      `json:"duration" form:"duration"`
}

func (r UploadAudioRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(0, 255)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
		validation.Field(&r.Duration, validation.By(decimalString)),
	)
}

type UpdateAudioRequest struct {
	Title         *string     `json:"title"`
	Description   *string     `json:"description"`
	Tags          interface{} `json:"tags"`
	CategoryID    *string     `json:"categoryId"`
	SubCategoryID *string     `json:"subCategoryId"`
	Duration      *string     `json:"duration"`
}

func (r UpdateAudioRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("Title cannot be empty"), validation.Length(1, 255)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
		validation.Field(&r.Duration, validation.By(decimalString)),
	)
}

type StatusRequest struct {
	Status string `json:"status"`
}

func (r StatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required.Error("Status is required")),
	)
}

type ReorderSegmentsRequest struct {
	SegmentIDs []string `json:"segmentIds"`
}

func (r ReorderSegmentsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SegmentIDs, validation.Required.Error("segmentIds must be a non-empty array")),
	)
}

type RemoveSegmentRequest struct {
	Identifier string `json:"identifier"`
}

func (r RemoveSegmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Identifier, validation.Required.Error("identifier is required")),
	)
}

var errInvalidDuration = errors.New("must be a decimal number of seconds")

func decimalString(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return errInvalidDuration
	}
	return nil
}
