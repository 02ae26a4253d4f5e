package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"order-loom/internal/apierror"
	"order-loom/internal/dto"
	"order-loom/internal/middleware"
	"order-loom/internal/model"
)

type UserService interface {
	Register(ctx context.Context, email, name, photoURL string) (*model.User, error)
	Me(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	SetApproval(ctx context.Context, email, approval string) (*model.User, error)
	SetRole(ctx context.Context, email string, role model.Role) (*model.User, error)
}

type UserController struct {
	Service UserService
	log     *zap.Logger
}

func NewUserController(s UserService, log *zap.Logger) *UserController {
	return &UserController{Service: s, log: log}
}

// POST /users: registra al usuario del token como buyer (primer login)
func (ctl *UserController) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, err.Error())
		return
	}

	u, err := ctl.Service.Register(c.Request.Context(), middleware.CurrentEmail(c), req.Name, req.PhotoURL)
	if err != nil {
		apierror.Respond(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (ctl *UserController) Me(c *gin.Context) {
	u, err := ctl.Service.Me(c.Request.Context(), middleware.CurrentEmail(c))
	if err != nil {
		apierror.Respond(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// GET /admin/users: admin
func (ctl *UserController) GetAll(c *gin.Context) {
	users, err := ctl.Service.List(c.Request.Context())
	if err != nil {
		apierror.Respond(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// PATCH /admin/users/:email/approval: admin
func (ctl *UserController) SetApproval(c *gin.Context) {
	var req dto.SetApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, err.Error())
		return
	}

	u, err := ctl.Service.SetApproval(c.Request.Context(), c.Param("email"), req.AdminApproval)
	if err != nil {
		apierror.Respond(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// PATCH /admin/users/:email/role: admin
func (ctl *UserController) SetRole(c *gin.Context) {
	var req dto.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, err.Error())
		return
	}

	u, err := ctl.Service.SetRole(c.Request.Context(), c.Param("email"), model.Role(req.Role))
	if err != nil {
		apierror.Respond(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
