// Package contributor holds the collaboration requests users file against
// books. Approved contributors gain write rights on the book's chapters
// while the book allows contributions.
package contributor

import (
	"time"

	"talenta-backend/internal/domains/access"

	"github.com/google/uuid"
)

type Contributor struct {
	BookID    uuid.UUID                `json:"bookId"`
	UserID    uuid.UUID                `json:"userId"`
	Status    access.ContributorStatus `json:"status"`
	FirstName string                   `json:"firstName,omitempty"`
	LastName  string                   `json:"lastName,omitempty"`
	Email     string                   `json:"email,omitempty"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}
