package controller_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"order-loom/internal/controller"
	"order-loom/internal/dto"
	"order-loom/internal/model"
	"order-loom/internal/service"
)

type stubProducts struct {
	created   *model.Product
	createdBy string
	err       error
}

func (s *stubProducts) Latest(context.Context) ([]*model.Product, error) {
	return []*model.Product{{Title: "newest"}}, s.err
}

func (s *stubProducts) List(context.Context) ([]*model.Product, error) {
	return []*model.Product{{Title: "a"}, {Title: "b"}}, s.err
}

func (s *stubProducts) Get(_ context.Context, id string) (*model.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Product{Title: id}, nil
}

func (s *stubProducts) Create(_ context.Context, p *model.Product, createdBy string) (*model.Product, error) {
	s.created, s.createdBy = p, createdBy
	p.CreatedBy = createdBy
	return p, s.err
}

type stubUsers struct {
	registered struct{ email, name string }
	approval   struct{ email, value string }
	roleEmail  string
	roleValue  model.Role
	err        error
}

func (s *stubUsers) Register(_ context.Context, email, name, _ string) (*model.User, error) {
	s.registered.email, s.registered.name = email, name
	if s.err != nil {
		return nil, s.err
	}
	return &model.User{Email: email, Name: name, Role: model.RoleBuyer}, nil
}

func (s *stubUsers) Me(_ context.Context, email string) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.User{Email: email}, nil
}

func (s *stubUsers) List(context.Context) ([]*model.User, error) {
	return []*model.User{{Email: "a@loom.test"}}, s.err
}

func (s *stubUsers) SetApproval(_ context.Context, email, approval string) (*model.User, error) {
	s.approval.email, s.approval.value = email, approval
	return &model.User{Email: email, AdminApproval: approval}, s.err
}

func (s *stubUsers) SetRole(_ context.Context, email string, role model.Role) (*model.User, error) {
	s.roleEmail, s.roleValue = email, role
	if s.err != nil {
		return nil, s.err
	}
	return &model.User{Email: email, Role: role}, nil
}

func TestProductRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubProducts{}
	ctl := controller.NewProductController(svc, zap.NewNop())
	manager := &model.User{Email: "m@loom.test", Role: model.RoleManager}

	r := gin.New()
	r.GET("/products", ctl.GetAll)
	r.GET("/products/latest", ctl.GetLatest)
	r.GET("/products/:id", ctl.GetByID)
	r.POST("/products", asUser(manager), ctl.Create)

	w := do(r, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []model.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	w = do(r, http.MethodGet, "/products/latest", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/products", dto.CreateProductRequest{Title: "Polo", Price: 9.5, MinimumOrder: 10})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "m@loom.test", svc.createdBy)
	assert.Equal(t, "Polo", svc.created.Title)

	w = do(r, http.MethodPost, "/products", map[string]any{"price": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctl := controller.NewProductController(&stubProducts{err: fmt.Errorf("%w: product not found", service.ErrNotFound)}, zap.NewNop())
	r := gin.New()
	r.GET("/products/:id", ctl.GetByID)

	w := do(r, http.MethodGet, "/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubUsers{}
	ctl := controller.NewUserController(svc, zap.NewNop())
	caller := &model.User{Email: "new@loom.test"}

	r := gin.New()
	g := r.Group("/", asUser(caller))
	g.POST("/users", ctl.Register)
	g.GET("/users/me", ctl.Me)
	g.GET("/admin/users", ctl.GetAll)
	g.PATCH("/admin/users/:email/approval", ctl.SetApproval)
	g.PATCH("/admin/users/:email/role", ctl.SetRole)

	// un rol en el body se ignora
	w := do(r, http.MethodPost, "/users", map[string]any{"name": "Nadia", "role": "manager"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "new@loom.test", svc.registered.email)
	var registered model.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	assert.Equal(t, model.RoleBuyer, registered.Role)

	w = do(r, http.MethodGet, "/users/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "new@loom.test")

	w = do(r, http.MethodPatch, "/admin/users/b@loom.test/approval", dto.SetApprovalRequest{AdminApproval: model.ApprovalApproved})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b@loom.test", svc.approval.email)
	assert.Equal(t, model.ApprovalApproved, svc.approval.value)

	w = do(r, http.MethodPatch, "/admin/users/b@loom.test/approval", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, "/admin/users/b@loom.test/role", dto.SetRoleRequest{Role: "manager"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b@loom.test", svc.roleEmail)
	assert.Equal(t, model.RoleManager, svc.roleValue)
}

func TestSetRoleRejectedRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubUsers{err: fmt.Errorf("%w: unknown role \"owner\"", service.ErrInvalidInput)}
	ctl := controller.NewUserController(svc, zap.NewNop())
	r := gin.New()
	r.PATCH("/admin/users/:email/role", ctl.SetRole)

	w := do(r, http.MethodPatch, "/admin/users/x@loom.test/role", dto.SetRoleRequest{Role: "owner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad_request", decodeError(t, w).Code)
}
