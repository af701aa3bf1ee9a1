// Package ordering keeps sibling collections (chapters of a book, chapters
// of an audio, parts of an audio chapter) densely numbered 1..N.
package ordering

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"talenta-backend/internal/shared/apperror"

	"github.com/google/uuid"
)

// Sibling is one child of a parent, as seen by the engine.
type Sibling struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
}

// Table describes an ordered child collection: where it lives in the
// datastore and how its rows are named in error messages.
type Table struct {
	Name         string
	ParentColumn string
	Noun         string
	Plural       string
	Parent       string
}

var (
	Chapters = Table{
		Name:         "chapters",
		ParentColumn: "book_id",
		Noun:         "chapter",
		Plural:       "chapters",
		Parent:       "book",
	}
	AudioChapters = Table{
		Name:         "audio_chapters",
		ParentColumn: "audio_id",
		Noun:         "chapter",
		Plural:       "chapters",
		Parent:       "audio",
	}
	AudioParts = Table{
		Name:         "audio_parts",
		ParentColumn: "chapter_id",
		Noun:         "part",
		Plural:       "parts",
		Parent:       "chapter",
	}
)

// UniqueIndex is the name of the (parent, order) unique index of the table.
func (t Table) UniqueIndex() string {
	return fmt.Sprintf("uq_%s_%s_order", t.Name, t.ParentColumn)
}

// ErrDuplicateOrder is returned when the datastore rejects a write because
// another sibling already holds the order.
func (t Table) ErrDuplicateOrder() *apperror.Error {
	err := apperror.Conflict(fmt.Sprintf("A %s with this order already exists for this %s.", t.Noun, t.Parent))
	err.Status = http.StatusBadRequest
	return err
}

func (t Table) errSkip(expected int) *apperror.Error {
	return apperror.Validation(fmt.Sprintf("The next %s must be order %d. You cannot skip orders.", t.Noun, expected))
}

func (t Table) errGap() *apperror.Error {
	return apperror.Validation(fmt.Sprintf("%s orders must be sequential without gaps.", capitalize(t.Noun)))
}

func (t Table) errForeign() *apperror.Error {
	return apperror.Validation(fmt.Sprintf("Some %s do not belong to this %s.", t.Plural, t.Parent))
}

// MaxOrder returns the highest order among siblings, 0 when empty.
func MaxOrder(siblings []Sibling) int {
	highest := 0
	for _, s := range siblings {
		if s.Order > highest {
			highest = s.Order
		}
	}
	return highest
}

// NextOrder is the position a new child receives when the caller does not
// ask for one. New children always go after the current maximum; gaps are
// never backfilled.
func NextOrder(siblings []Sibling) int {
	return MaxOrder(siblings) + 1
}

// ValidateInsert accepts an explicit order on create only when it appends.
func (t Table) ValidateInsert(siblings []Sibling, proposed int) error {
	if proposed <= 0 {
		return apperror.Validation("Order must be a positive integer",
			apperror.FieldError{Field: "order", Message: "must be greater than 0"})
	}
	if expected := NextOrder(siblings); proposed != expected {
		return t.errSkip(expected)
	}
	return nil
}

// ValidateUpdate checks that moving childID to proposed keeps the sibling
// set dense: the other siblings' orders plus proposed, sorted, must be
// exactly 1..N.
func (t Table) ValidateUpdate(siblings []Sibling, childID uuid.UUID, proposed int) error {
	if proposed <= 0 {
		return apperror.Validation("Order must be a positive integer",
			apperror.FieldError{Field: "order", Message: "must be greater than 0"})
	}

	orders := make([]int, 0, len(siblings))
	found := false
	for _, s := range siblings {
		if s.ID == childID {
			found = true
			if s.Order == proposed {
				return nil
			}
			continue
		}
		orders = append(orders, s.Order)
	}
	if !found {
		return t.errForeign()
	}

	orders = append(orders, proposed)
	if !isDenseOrders(orders) {
		return t.errGap()
	}
	return nil
}

// ValidatePermutation checks that ids names every sibling exactly once.
func (t Table) ValidatePermutation(siblings []Sibling, ids []uuid.UUID) error {
	known := make(map[uuid.UUID]struct{}, len(siblings))
	for _, s := range siblings {
		known[s.ID] = struct{}{}
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return t.errForeign()
		}
		if _, dup := seen[id]; dup {
			return apperror.Validation(fmt.Sprintf("Duplicate %s in reorder request.", t.Noun))
		}
		seen[id] = struct{}{}
	}

	if len(ids) != len(siblings) {
		return apperror.Validation(fmt.Sprintf("Reorder must include all %d %s of this %s.", len(siblings), t.Plural, t.Parent))
	}
	return nil
}

// Assign maps the permutation to positions: element i gets order i+1.
func Assign(ids []uuid.UUID) []Sibling {
	out := make([]Sibling, len(ids))
	for i, id := range ids {
		out[i] = Sibling{ID: id, Order: i + 1}
	}
	return out
}

// Densify sorts siblings by their current order and renumbers them 1..N.
// Ties keep their relative input order.
func Densify(siblings []Sibling) []Sibling {
	out := make([]Sibling, len(siblings))
	copy(out, siblings)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

// IsDense reports whether the siblings' orders are exactly 1..N.
func IsDense(siblings []Sibling) bool {
	orders := make([]int, len(siblings))
	for i, s := range siblings {
		orders[i] = s.Order
	}
	return isDenseOrders(orders)
}

// Changed returns the entries of next whose order differs from prev.
func Changed(prev, next []Sibling) []Sibling {
	before := make(map[uuid.UUID]int, len(prev))
	for _, s := range prev {
		before[s.ID] = s.Order
	}
	var out []Sibling
	for _, s := range next {
		if o, ok := before[s.ID]; !ok || o != s.Order {
			out = append(out, s)
		}
	}
	return out
}

func isDenseOrders(orders []int) bool {
	sorted := make([]int, len(orders))
	copy(sorted, orders)
	sort.Ints(sorted)
	for i, o := range sorted {
		if o != i+1 {
			return false
		}
	}
	return true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
