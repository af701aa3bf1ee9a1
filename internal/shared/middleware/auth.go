package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/shared/apperror"
	"talenta-backend/internal/shared/response"
	"talenta-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const actorKey = "actor"

// IdentityLookup resolves a verified user id to the account's current role
// and active flag.
type IdentityLookup interface {
	GetIdentity(ctx context.Context, userID uuid.UUID) (*access.Actor, error)
}

// Auth requires a valid bearer token. A deactivated account may still make
// GET requests, where it is treated like an anonymous caller; every other
// method is refused with 403.
func Auth(tokens *jwt.Manager, identities IdentityLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abort(c, apperror.Unauthenticated("Access token required"))
			return
		}

		actor, err := resolve(c.Request.Context(), tokens, identities, token)
		if err != nil {
			abort(c, err)
			return
		}

		if !actor.IsActive && c.Request.Method != http.MethodGet {
			denied := apperror.Forbidden("Account is deactivated")
			denied.Reason = string(access.ReasonNotActive)
			abort(c, denied)
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// OptionalAuth attaches the actor when a valid token is present and
// otherwise continues anonymously.
func OptionalAuth(tokens *jwt.Manager, identities IdentityLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		actor, err := resolve(c.Request.Context(), tokens, identities, token)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Ignoring invalid optional token")
			c.Next()
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the authenticated actor, or nil for anonymous callers.
func ActorFrom(c *gin.Context) *access.Actor {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*access.Actor)
	return actor
}

// SetActor is used by tests and internal routes that authenticate by other
// means.
func SetActor(c *gin.Context, actor *access.Actor) {
	c.Set(actorKey, actor)
}

func resolve(ctx context.Context, tokens *jwt.Manager, identities IdentityLookup, token string) (*access.Actor, error) {
	claims, err := tokens.ValidateAccessToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.Unauthenticated("Token expired")
		}
		return nil, apperror.Unauthenticated("Invalid token")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperror.Unauthenticated("Invalid token")
	}

	actor, err := identities.GetIdentity(ctx, userID)
	if err != nil {
		if apperror.IsCode(err, apperror.CodeNotFound) {
			return nil, apperror.Unauthenticated("User not found").WithCause(err)
		}
		return nil, err
	}
	return actor, nil
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abort(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal("Authentication failed", err)
	}
	response.FromError(c, appErr)
	c.Abort()
}
