package middleware

import (
	"errors"
	"net/http"

	"talenta-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Recovery turns panics into a 500 envelope. http.ErrAbortHandler is
// re-raised so net/http drops the connection, which is how a stream that
// fails after its headers were sent is terminated.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					log.Warn().
						Str("request_id", c.GetString("request_id")).
						Str("path", c.Request.URL.Path).
						Msg("Response aborted")
					panic(rec)
				}

				log.Error().
					Str("request_id", c.GetString("request_id")).
					Interface("error", rec).
					Msg("Panic recovered")

				if !c.Writer.Written() {
					response.InternalServerError(c, "Internal server error")
				}
				c.Abort()
			}
		}()

		c.Next()
	}
}

// DebugErrors enables error detail in 500 responses.
func DebugErrors(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(response.DebugKey, enabled)
		c.Next()
	}
}
