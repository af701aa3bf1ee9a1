package user

import (
	"strings"

	"talenta-backend/internal/domains/access"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusVerified   = "verified"
	StatusUnverified = "unverified"
	filterAll        = "all"
)

// sortColumns maps the sortBy query values to columns.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
}

type ListFilter struct {
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	Search    string `json:"search"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}

// Normalize applies the list defaults: page 1, limit 10, newest first.
func (f *ListFilter) Normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	f.Search = strings.TrimSpace(f.Search)
	if f.Role == filterAll {
		f.Role = ""
	}
	if f.Status == filterAll {
		f.Status = ""
	}
	if f.SortBy == "" {
		f.SortBy = "createdAt"
	}
	f.SortOrder = strings.ToLower(f.SortOrder)
	if f.SortOrder != "asc" {
		f.SortOrder = "desc"
	}
}

func (f ListFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Role, validation.In(roleValues()...).Error("Invalid role specified")),
		validation.Field(&f.Status, validation.In(StatusActive, StatusInactive, StatusVerified, StatusUnverified)),
		validation.Field(&f.SortBy, validation.By(func(v interface{}) error {
			if _, ok := sortColumns[v.(string)]; !ok {
				return validation.NewError("validation_sort_by", "must be one of createdAt, updatedAt, firstName, lastName, email")
			}
			return nil
		})),
	)
}

// SortColumn returns the column for SortBy, defaulting to created_at.
func (f ListFilter) SortColumn() string {
	if col, ok := sortColumns[f.SortBy]; ok {
		return col
	}
	return "created_at"
}

type UpdateUserRequest struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Bio        *string `json:"bio"`
	Location   *string `json:"location"`
	Role       *string `json:"role"`
	IsVerified *bool   `json:"isVerified"`
	IsActive   *bool   `json:"isActive"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Length(0, 100)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&r.Phone, validation.Length(0, 32)),
		validation.Field(&r.Bio, validation.Length(0, 2000)),
		validation.Field(&r.Location, validation.Length(0, 255)),
		validation.Field(&r.Role, validation.NilOrNotEmpty, validation.In(roleValues()...).Error("Invalid role specified")),
	)
}

type ContentType string

const (
	ContentAll   ContentType = "all"
	ContentBooks ContentType = "books"
	ContentAudio ContentType = "audio"
)

func ParseContentType(raw string) (ContentType, error) {
	switch ContentType(raw) {
	case "", ContentAll:
		return ContentAll, nil
	case ContentBooks, ContentAudio:
		return ContentType(raw), nil
	}
	return "", ErrInvalidContentType
}

func roleValues() []interface{} {
	return []interface{}{
		string(access.RoleUser), string(access.RoleCreator),
		string(access.RoleModerator), string(access.RoleAdmin),
	}
}
