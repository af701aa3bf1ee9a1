package audiochapter

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	Status      string  `json:"status"`
	Duration    *string `json:"duration"`
	WordCount   *int    `json:"wordCount"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("Title is required"), validation.Length(1, 255)),
		validation.Field(&r.Duration, validation.By(DecimalString)),
		validation.Field(&r.WordCount, validation.Min(0)),
	)
}

type UpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	Status      *string `json:"status"`
	Duration    *string `json:"duration"`
	WordCount   *int    `json:"wordCount"`
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("Title cannot be empty"), validation.Length(1, 255)),
		validation.Field(&r.Duration, validation.By(DecimalString)),
		validation.Field(&r.WordCount, validation.Min(0)),
	)
}

type ReorderRequest struct {
	ChapterIDs []string `json:"chapterIds"`
}

func (r ReorderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ChapterIDs, validation.Required.Error("chapterIds must be a non-empty array")),
	)
}

type ListOptions struct {
	AudioID            uuid.UUID
	IncludeUnpublished bool
}

var errInvalidDuration = errors.New("must be a decimal number of seconds")

// DecimalString accepts an empty or nil value, or a non-negative decimal.
func DecimalString(value interface{}) error {
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

// ParseDuration reads a validated duration. nil or empty is zero.
func ParseDuration(raw *string) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
