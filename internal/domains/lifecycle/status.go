package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"talenta-backend/internal/shared/apperror"
)

// Status is the publication state shared by books, audio and their children.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

// Path identifies which write path requested a transition.
type Path int

const (
	// PathStatusUpdate is an explicit status change requested by the owner.
	PathStatusUpdate Path = iota
	// PathMergePublish is the publish shortcut taken by the merge pipeline.
	PathMergePublish
)

var ErrInvalidTransition = apperror.Validation("Invalid status transition")

type edge struct{ from, to Status }

var allowed = map[edge][]Path{
	{StatusDraft, StatusPublished}:    {PathStatusUpdate, PathMergePublish},
	{StatusPublished, StatusArchived}: {PathStatusUpdate},
	{StatusDraft, StatusArchived}:     {PathStatusUpdate},
	{StatusArchived, StatusDraft}:     {PathStatusUpdate},
	{StatusPublished, StatusDraft}:    {PathStatusUpdate},
}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// IsPublic reports whether entities in this state are visible to anyone.
func IsPublic(s Status) bool {
	return s == StatusPublished
}

// Strings converts statuses for a text[] query argument.
func Strings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// Parse reads a status case-insensitively.
func Parse(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", apperror.Validation(fmt.Sprintf("Invalid status %q", raw))
	}
	return s, nil
}

// NormalizeCreate maps a client-supplied status on create: anything other
// than PUBLISHED becomes DRAFT.
func NormalizeCreate(raw string) Status {
	if Status(strings.ToUpper(strings.TrimSpace(raw))) == StatusPublished {
		return StatusPublished
	}
	return StatusDraft
}

// NormalizeUpdate maps a client-supplied status on update: PUBLISHED and
// ARCHIVED are kept, anything else becomes DRAFT.
func NormalizeUpdate(raw string) Status {
	switch s := Status(strings.ToUpper(strings.TrimSpace(raw))); s {
	case StatusPublished, StatusArchived:
		return s
	}
	return StatusDraft
}

// CanTransition checks a single edge of the state machine.
func CanTransition(from, to Status, path Path) error {
	if !to.Valid() {
		return ErrInvalidTransition.WithMessage("Invalid status %q", to)
	}
	if from == to {
		return nil
	}
	for _, p := range allowed[edge{from, to}] {
		if p == path {
			return nil
		}
	}
	return ErrInvalidTransition.WithMessage("Cannot change status from %s to %s", from, to)
}

// Result is the outcome of applying a transition.
type Result struct {
	Status      Status
	PublishedAt *time.Time
	Changed     bool
}

// Transition validates and applies from -> to. The publish timestamp is set
// on the first entry into PUBLISHED and is never overwritten afterwards.
func Transition(from, to Status, path Path, publishedAt *time.Time, now time.Time) (Result, error) {
	if err := CanTransition(from, to, path); err != nil {
		return Result{Status: from, PublishedAt: publishedAt}, err
	}

	res := Result{Status: to, PublishedAt: publishedAt, Changed: from != to}
	if to == StatusPublished && publishedAt == nil {
		t := now.UTC()
		res.PublishedAt = &t
	}
	return res, nil
}
