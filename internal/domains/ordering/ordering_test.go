package ordering

import (
	"errors"
	"net/http"
	"testing"

	"talenta-backend/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siblings(orders ...int) []Sibling {
	out := make([]Sibling, len(orders))
	for i, o := range orders {
		out[i] = Sibling{ID: uuid.New(), Order: o}
	}
	return out
}

func TestNextOrder(t *testing.T) {
	assert.Equal(t, 1, NextOrder(nil))
	assert.Equal(t, 2, NextOrder(siblings(1)))
	// gaps are not backfilled
	assert.Equal(t, 6, NextOrder(siblings(1, 2, 5)))
}

func TestValidateInsert(t *testing.T) {
	t.Run("append is accepted", func(t *testing.T) {
		assert.NoError(t, AudioParts.ValidateInsert(siblings(1), 2))
		assert.NoError(t, Chapters.ValidateInsert(nil, 1))
	})

	t.Run("skip is rejected with expected order", func(t *testing.T) {
		err := AudioParts.ValidateInsert(siblings(1), 3)
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
		assert.Equal(t, "The next part must be order 2. You cannot skip orders.", err.Error())
	})

	t.Run("taken order is rejected", func(t *testing.T) {
		err := Chapters.ValidateInsert(siblings(1, 2), 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be order 3")
	})

	t.Run("non-positive order", func(t *testing.T) {
		err := Chapters.ValidateInsert(nil, 0)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		require.Len(t, appErr.Fields, 1)
		assert.Equal(t, "order", appErr.Fields[0].Field)
	})
}

func TestValidateUpdate(t *testing.T) {
	sibs := siblings(1, 2, 3)

	t.Run("same order is a no-op", func(t *testing.T) {
		assert.NoError(t, AudioParts.ValidateUpdate(sibs, sibs[1].ID, 2))
	})

	t.Run("moving away from the end leaves a hole", func(t *testing.T) {
		err := AudioParts.ValidateUpdate(sibs, sibs[2].ID, 5)
		require.Error(t, err)
		assert.Equal(t, "Part orders must be sequential without gaps.", err.Error())
	})

	t.Run("collision with a sibling", func(t *testing.T) {
		err := AudioParts.ValidateUpdate(sibs, sibs[0].ID, 2)
		assert.Error(t, err)
	})

	t.Run("child of another parent", func(t *testing.T) {
		err := AudioChapters.ValidateUpdate(sibs, uuid.New(), 1)
		require.Error(t, err)
		assert.Equal(t, "Some chapters do not belong to this audio.", err.Error())
	})

	t.Run("single child keeps position 1", func(t *testing.T) {
		one := siblings(1)
		assert.NoError(t, Chapters.ValidateUpdate(one, one[0].ID, 1))
		assert.Error(t, Chapters.ValidateUpdate(one, one[0].ID, 2))
	})
}

func TestValidatePermutation(t *testing.T) {
	sibs := siblings(1, 2, 3)
	a, b, c := sibs[0].ID, sibs[1].ID, sibs[2].ID

	assert.NoError(t, Chapters.ValidatePermutation(sibs, []uuid.UUID{c, a, b}))

	t.Run("foreign id", func(t *testing.T) {
		err := Chapters.ValidatePermutation(sibs, []uuid.UUID{a, b, uuid.New()})
		require.Error(t, err)
		assert.Equal(t, "Some chapters do not belong to this book.", err.Error())
	})

	t.Run("duplicate id", func(t *testing.T) {
		err := Chapters.ValidatePermutation(sibs, []uuid.UUID{a, a, b})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Duplicate chapter")
	})

	t.Run("missing id", func(t *testing.T) {
		err := Chapters.ValidatePermutation(sibs, []uuid.UUID{b, a})
		require.Error(t, err)
		assert.Equal(t, "Reorder must include all 3 chapters of this book.", err.Error())
	})
}

func TestAssignAndChanged(t *testing.T) {
	sibs := siblings(1, 2, 3)
	a, b, c := sibs[0].ID, sibs[1].ID, sibs[2].ID

	next := Assign([]uuid.UUID{c, b, a})
	assert.Equal(t, []Sibling{{ID: c, Order: 1}, {ID: b, Order: 2}, {ID: a, Order: 3}}, next)
	assert.True(t, IsDense(next))

	changed := Changed(sibs, next)
	require.Len(t, changed, 2)
	assert.Equal(t, c, changed[0].ID)
	assert.Equal(t, a, changed[1].ID)

	assert.Empty(t, Changed(sibs, Assign([]uuid.UUID{a, b, c})))
}

func TestDensify(t *testing.T) {
	t.Run("closes the hole left by a delete", func(t *testing.T) {
		sibs := siblings(1, 2, 3)
		remaining := []Sibling{sibs[0], sibs[2]}

		dense := Densify(remaining)
		assert.Equal(t, []Sibling{{ID: sibs[0].ID, Order: 1}, {ID: sibs[2].ID, Order: 2}}, dense)
		assert.Len(t, Changed(remaining, dense), 1)
	})

	t.Run("sorts by current order", func(t *testing.T) {
		sibs := []Sibling{{ID: uuid.New(), Order: 7}, {ID: uuid.New(), Order: 3}}
		dense := Densify(sibs)
		assert.Equal(t, sibs[1].ID, dense[0].ID)
		assert.Equal(t, 2, dense[1].Order)
		// input is not modified
		assert.Equal(t, 7, sibs[0].Order)
	})

	assert.False(t, IsDense(siblings(1, 3)))
	assert.False(t, IsDense(siblings(1, 1)))
	assert.True(t, IsDense(nil))
}

func TestMapInsertError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: AudioParts.UniqueIndex()}
	err := MapInsertError(AudioParts, dup)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus())
	assert.Equal(t, "A part with this order already exists for this chapter.", appErr.Message)

	other := &pgconn.PgError{Code: "23505", ConstraintName: "audio_parts_pkey"}
	assert.Same(t, other, MapInsertError(AudioParts, other))

	plain := errors.New("conn reset")
	assert.Equal(t, plain, MapInsertError(AudioParts, plain))
	assert.Equal(t, "uq_audio_parts_chapter_id_order", AudioParts.UniqueIndex())
}
