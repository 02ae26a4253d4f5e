package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Timeout limita el contexto de cada request; las llamadas a Mongo lo respetan.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
