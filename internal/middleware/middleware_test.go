package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"order-loom/internal/model"
	"order-loom/internal/service"
)

type stubVerifier map[string]string

func (s stubVerifier) Verify(_ context.Context, token string) (string, error) {
	if email, ok := s[token]; ok {
		return email, nil
	}
	return "", errors.New("bad token")
}

type stubGate struct {
	users map[string]*model.User
}

func (g stubGate) Require(_ context.Context, email string, roles ...model.Role) (*model.User, error) {
	u, ok := g.users[email]
	if !ok {
		return nil, &service.ForbiddenError{Reason: "user is not registered"}
	}
	for _, r := range roles {
		if u.Role == r {
			return u, nil
		}
	}
	return nil, &service.ForbiddenError{Reason: "role required", Actual: string(u.Role)}
}

func newRouter(handlerCalled *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	r := gin.New()
	r.Use(Metrics(log), Timeout(time.Second))
	auth := r.Group("/")
	auth.Use(AuthMiddleware(stubVerifier{"t-buyer": "buyer@loom.test", "t-ghost": "ghost@loom.test"}, log))
	gate := stubGate{users: map[string]*model.User{
		"buyer@loom.test": {Email: "buyer@loom.test", Role: model.RoleBuyer},
	}}
	auth.GET("/buyer", RequireRole(gate, log, model.RoleBuyer), func(c *gin.Context) {
		*handlerCalled = true
		_, hasDeadline := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"email": CurrentUser(c).Email, "deadline": hasDeadline})
	})
	auth.GET("/admin", RequireRole(gate, log, model.RoleAdmin), func(c *gin.Context) {
		*handlerCalled = true
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthAndRoleGate(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantCalled bool
	}{
		{name: "missing header", path: "/buyer", wantStatus: http.StatusUnauthorized},
		{name: "bad token", path: "/buyer", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "buyer route", path: "/buyer", header: "Bearer t-buyer", wantStatus: http.StatusOK, wantCalled: true},
		{name: "buyer on admin route", path: "/admin", header: "Bearer t-buyer", wantStatus: http.StatusForbidden},
		{name: "unregistered user", path: "/buyer", header: "Bearer t-ghost", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			r := newRouter(&called)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantCalled {
				assert.JSONEq(t, `{"email":"buyer@loom.test","deadline":true}`, w.Body.String())
			}
		})
	}
}
