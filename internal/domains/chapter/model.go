// Package chapter holds the ordered text chapters of a book.
package chapter

import (
	"time"

	"talenta-backend/internal/domains/lifecycle"

	"github.com/google/uuid"
)

type Chapter struct {
	ID          uuid.UUID        `json:"id"`
	BookID      uuid.UUID        `json:"bookId"`
	AuthorID    uuid.UUID        `json:"authorId"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Order       int              `json:"order"`
	Status      lifecycle.Status `json:"status"`
	WordCount   int              `json:"wordCount"`
	ReadingTime int              `json:"readingTime"`
	PublishedAt *time.Time       `json:"publishedAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Author      *Author          `json:"author,omitempty"`
}

// Author is the public profile shown next to a chapter.
type Author struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
}

// BookRef is the book summary returned with a chapter listing.
type BookRef struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
}

type Listing struct {
	Book     BookRef   `json:"book"`
	Chapters []Chapter `json:"chapters"`
}
