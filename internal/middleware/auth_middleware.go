// auth_middleware.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"order-loom/internal/apierror"
	"order-loom/internal/model"
	"order-loom/internal/service"
)

const (
	UserEmailKey = "userEmail"
	UserKey      = "user"
)

// Middleware que valida el token y guarda el email verificado en el contexto
func AuthMiddleware(verifier service.IdentityVerifier, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apierror.Respond(c, log, service.ErrUnauthenticated)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		email, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			log.Debug("token rejected", zap.Error(err))
			apierror.Respond(c, log, service.ErrUnauthenticated)
			return
		}

		c.Set(UserEmailKey, email)
		c.Next()
	}
}

func CurrentEmail(c *gin.Context) string {
	return c.GetString(UserEmailKey)
}

// CurrentUser devuelve el usuario que dejó RequireRole, o nil.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}
