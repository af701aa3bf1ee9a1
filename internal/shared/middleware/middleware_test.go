package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/shared/apperror"
	"talenta-backend/internal/shared/response"
	"talenta-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeIdentities map[uuid.UUID]*access.Actor

func (f fakeIdentities) GetIdentity(_ context.Context, id uuid.UUID) (*access.Actor, error) {
	if a, ok := f[id]; ok {
		return a, nil
	}
	return nil, apperror.NotFound("User not found")
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func setup(t *testing.T) (*gin.Engine, *jwt.Manager, fakeIdentities) {
	t.Helper()
	tokens := jwt.NewManager("test-secret", time.Hour)
	ids := fakeIdentities{}

	r := gin.New()
	handler := func(c *gin.Context) {
		actor := ActorFrom(c)
		if actor == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, actor.UserID.String())
	}
	r.GET("/required", Auth(tokens, ids), handler)
	r.POST("/required", Auth(tokens, ids), handler)
	r.GET("/optional", OptionalAuth(tokens, ids), handler)
	r.GET("/admin", Auth(tokens, ids), AdminOnly(), handler)
	return r, tokens, ids
}

func request(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	r, tokens, ids := setup(t)

	active := &access.Actor{UserID: uuid.New(), Role: access.RoleCreator, IsActive: true}
	inactive := &access.Actor{UserID: uuid.New(), Role: access.RoleUser}
	ids[active.UserID] = active
	ids[inactive.UserID] = inactive

	activeToken, err := tokens.GenerateAccessToken(active.UserID.String(), string(active.Role))
	require.NoError(t, err)
	inactiveToken, err := tokens.GenerateAccessToken(inactive.UserID.String(), string(inactive.Role))
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		w := request(r, http.MethodGet, "/required", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Access token required", decode(t, w).Message)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := request(r, http.MethodGet, "/required", "nope")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid token", decode(t, w).Message)
	})

	t.Run("unknown user", func(t *testing.T) {
		ghost, err := tokens.GenerateAccessToken(uuid.NewString(), "USER")
		require.NoError(t, err)
		w := request(r, http.MethodGet, "/required", ghost)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "User not found", decode(t, w).Message)
	})

	t.Run("valid token", func(t *testing.T) {
		w := request(r, http.MethodGet, "/required", activeToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, active.UserID.String(), w.Body.String())
	})

	t.Run("deactivated account writes", func(t *testing.T) {
		w := request(r, http.MethodPost, "/required", inactiveToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decode(t, w)
		assert.Equal(t, "Account is deactivated", env.Message)
		assert.JSONEq(t, `{"reason":"NOT_ACTIVE"}`, string(env.Errors))
	})

	t.Run("deactivated account reads", func(t *testing.T) {
		w := request(r, http.MethodGet, "/required", inactiveToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("optional auth ignores bad tokens", func(t *testing.T) {
		w := request(r, http.MethodGet, "/optional", "nope")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "anonymous", w.Body.String())

		w = request(r, http.MethodGet, "/optional", activeToken)
		assert.Equal(t, active.UserID.String(), w.Body.String())
	})

	t.Run("admin only", func(t *testing.T) {
		w := request(r, http.MethodGet, "/admin", activeToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Admin privileges required", decode(t, w).Message)

		admin := &access.Actor{UserID: uuid.New(), Role: access.RoleAdmin, IsActive: true}
		ids[admin.UserID] = admin
		adminToken, err := tokens.GenerateAccessToken(admin.UserID.String(), "ADMIN")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/admin", adminToken).Code)
	})
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })
	r.GET("/abort", func(c *gin.Context) { panic(http.ErrAbortHandler) })

	w := request(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, response.StatusError, decode(t, w).Status)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		request(r, http.MethodGet, "/abort", "")
	})
}

func TestDebugErrors(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		r := gin.New()
		r.Use(DebugErrors(enabled))
		r.GET("/", func(c *gin.Context) {
			response.FromError(c, apperror.Internal("boom", assert.AnError))
		})

		w := request(r, http.MethodGet, "/", "")
		env := decode(t, w)
		assert.Equal(t, "Internal server error", env.Message)
		if enabled {
			assert.Contains(t, string(env.Errors), assert.AnError.Error())
		} else {
			assert.Empty(t, env.Errors)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	now := time.Now()
	limiter.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/upload", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.Equal(t, http.StatusCreated, request(r, http.MethodPost, "/upload", "").Code)
	assert.Equal(t, http.StatusCreated, request(r, http.MethodPost, "/upload", "").Code)

	w := request(r, http.MethodPost, "/upload", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	now = now.Add(time.Minute)
	assert.Equal(t, http.StatusCreated, request(r, http.MethodPost, "/upload", "").Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.example.com"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
