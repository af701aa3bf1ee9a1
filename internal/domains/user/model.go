// Package user holds accounts as seen by administrators and the identity
// lookup used to authorize every request.
package user

import (
	"time"

	"talenta-backend/internal/domains/access"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID             uuid.UUID      `json:"id"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	Email          string         `json:"email"`
	Phone          *string        `json:"phone,omitempty"`
	Role           access.Role    `json:"role"`
	IsActive       bool           `json:"isActive"`
	IsVerified     bool           `json:"isVerified"`
	Bio            *string        `json:"bio,omitempty"`
	Location       *string        `json:"location,omitempty"`
	ProfilePicture *string        `json:"profilePicture,omitempty"`
	LastLogin      *time.Time     `json:"lastLogin,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Counts         *ContentCounts `json:"counts,omitempty"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Actor is the identity the access layer evaluates for u.
func (u *User) Actor() *access.Actor {
	return &access.Actor{UserID: u.ID, Role: u.Role, IsActive: u.IsActive}
}

type ContentCounts struct {
	Books  int64 `json:"books"`
	Audios int64 `json:"audio"`
}

type Stats struct {
	TotalUsers    int64 `json:"totalUsers"`
	ActiveUsers   int64 `json:"activeUsers"`
	VerifiedUsers int64 `json:"verifiedUsers"`
	Creators      int64 `json:"creators"`
	Moderators    int64 `json:"moderators"`
	Admins        int64 `json:"admins"`
}

type BookSummary struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	Status        string     `json:"status"`
	CategoryID    *uuid.UUID `json:"categoryId,omitempty"`
	SubCategoryID *uuid.UUID `json:"subCategoryId,omitempty"`
	CoverImage    *string    `json:"coverImage,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type AudioSummary struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Description   *string         `json:"description,omitempty"`
	Status        string          `json:"status"`
	CategoryID    *uuid.UUID      `json:"categoryId,omitempty"`
	SubCategoryID *uuid.UUID      `json:"subCategoryId,omitempty"`
	Duration      decimal.Decimal `json:"duration"`
	FileURL       string          `json:"fileUrl"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type Owner struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

// Content is everything a user owns, filtered by ContentType.
type Content struct {
	User  Owner          `json:"user"`
	Books []BookSummary  `json:"books,omitempty"`
	Audio []AudioSummary `json:"audio,omitempty"`
}
