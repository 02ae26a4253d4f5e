package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"order-loom/internal/apierror"
	"order-loom/internal/model"
)

type RoleGate interface {
	Require(ctx context.Context, email string, roles ...model.Role) (*model.User, error)
}

// RequireRole corre el gate de roles antes del handler. Si falla, el handler
// no se ejecuta.
func RequireRole(gate RoleGate, log *zap.Logger, roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := gate.Require(c.Request.Context(), CurrentEmail(c), roles...)
		if err != nil {
			apierror.Respond(c, log, err)
			return
		}
		c.Set(UserKey, u)
		c.Next()
	}
}
