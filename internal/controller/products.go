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

type ProductService interface {
	Latest(ctx context.Context) ([]*model.Product, error)
	List(ctx context.Context) ([]*model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, p *model.Product, createdBy string) (*model.Product, error)
}

type ProductController struct {
	Service ProductService
	log     *zap.Logger
}

func NewProductController(s ProductService, log *zap.Logger) *ProductController {
	return &ProductController{Service: s, log: log}
}

func (ctl *ProductController) GetLatest(c *gin.Context) {
	ctl.list(c, ctl.Service.Latest)
}

func (ctl *ProductController) GetAll(c *gin.Context) {
	ctl.list(c, ctl.Service.List)
}

func (ctl *ProductController) list(c *gin.Context, fetch func(context.Context) ([]*model.Product, error)) {
	products, err := fetch(c.Request.Context())
	if err != nil {
		apierror.Respond(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (ctl *ProductController) GetByID(c *gin.Context) {
	p, err := ctl.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierror.Respond(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /products: manager
func (ctl *ProductController) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, err.Error())
		return
	}

	p, err := ctl.Service.Create(c.Request.Context(), req.ToModel(), middleware.CurrentUser(c).Email)
	if err != nil {
		apierror.Respond(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}
