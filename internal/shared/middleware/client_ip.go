package middleware

import (
	"talenta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

const clientIPKey = "client_ip"

// ClientIP stores the caller's address for the rate limiter and the logger.
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientIPKey, utils.ExtractClientIP(c))
		c.Next()
	}
}
