package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"talenta-backend/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestNewPagination(t *testing.T) {
	t.Run("middle page", func(t *testing.T) {
		p := NewPagination(2, 10, 35)
		assert.Equal(t, 2, p.CurrentPage)
		assert.Equal(t, 4, p.TotalPages)
		assert.Equal(t, int64(35), p.TotalCount)
		assert.True(t, p.HasNextPage)
		assert.True(t, p.HasPrevPage)
		assert.Equal(t, 10, p.Limit)
	})

	t.Run("last page", func(t *testing.T) {
		p := NewPagination(4, 10, 35)
		assert.False(t, p.HasNextPage)
		assert.True(t, p.HasPrevPage)
	})

	t.Run("empty result", func(t *testing.T) {
		p := NewPagination(1, 10, 0)
		assert.Equal(t, 0, p.TotalPages)
		assert.False(t, p.HasNextPage)
		assert.False(t, p.HasPrevPage)
	})
}

func TestSuccessEnvelope(t *testing.T) {
	now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	defer func() { now = time.Now }()

	c, w := newContext()
	Success(c, http.StatusCreated, "Created", gin.H{"id": "1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Created", body["message"])
	assert.Equal(t, "2026-01-02T03:04:05Z", body["timestamp"])
	assert.NotContains(t, body, "errors")
	assert.NotContains(t, body, "warning")
}

func TestSuccessWithWarning(t *testing.T) {
	c, w := newContext()
	SuccessWithWarning(c, http.StatusOK, "Published", nil, "merge failed")

	body := decode(t, w)
	assert.Equal(t, "merge failed", body["warning"])
	assert.NotContains(t, body, "data")
}

func TestPaginated(t *testing.T) {
	c, w := newContext()
	Paginated(c, "Users", []string{"a"}, NewPagination(1, 1, 3))

	body := decode(t, w)
	pagination, ok := body["pagination"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), pagination["totalPages"])
	assert.Equal(t, true, pagination["hasNextPage"])
}

func TestFromError(t *testing.T) {
	t.Run("validation error carries fields", func(t *testing.T) {
		c, w := newContext()
		FromError(c, apperror.Validation("Validation failed", apperror.FieldError{Field: "title", Message: "required"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, "error", body["status"])
		errs, ok := body["errors"].([]interface{})
		require.True(t, ok)
		assert.Len(t, errs, 1)
	})

	t.Run("forbidden error carries reason", func(t *testing.T) {
		c, w := newContext()
		err := apperror.Forbidden("Cannot delete admin accounts")
		err.Reason = "PROTECTED_ADMIN"
		FromError(c, err)

		assert.Equal(t, http.StatusForbidden, w.Code)
		body := decode(t, w)
		assert.Equal(t, map[string]interface{}{"reason": "PROTECTED_ADMIN"}, body["errors"])
	})

	t.Run("unknown error is generic 500 without detail", func(t *testing.T) {
		c, w := newContext()
		FromError(c, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Internal server error", body["message"])
		assert.NotContains(t, body, "errors")
	})

	t.Run("debug flag exposes detail", func(t *testing.T) {
		c, w := newContext()
		c.Set(DebugKey, true)
		FromError(c, apperror.Upstream("Failed to merge audio segments", errors.New("ffmpeg exited 1")))

		body := decode(t, w)
		assert.Equal(t, "Failed to merge audio segments", body["message"])
		detail, ok := body["errors"].(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, detail["detail"], "ffmpeg exited 1")
	})

	t.Run("status override", func(t *testing.T) {
		c, w := newContext()
		err := apperror.Conflict("A chapter with this order already exists for this book.")
		err.Status = http.StatusBadRequest
		FromError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
