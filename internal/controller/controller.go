package controller

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"order-loom/internal/apierror"
	"order-loom/internal/dto"
	"order-loom/internal/middleware"
	"order-loom/internal/model"
	"order-loom/internal/service"
)

type OrderService interface {
	Create(ctx context.Context, in service.CreateOrderInput) (*model.Order, error)
	Transition(ctx context.Context, in service.TransitionInput) (*model.Order, error)
	QueryLog(ctx context.Context, trackingID string) ([]*model.TrackingEvent, error)
	Flow() []model.Stage
	StrictTransitions() bool
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListAll(ctx context.Context) ([]*model.Order, error)
	ListByStatus(ctx context.Context, status string) ([]*model.Order, error)
	ListByBuyer(ctx context.Context, buyerEmail string) ([]*model.Order, error)
	Delete(ctx context.Context, id string) error
}

type OrderController struct {
	Service OrderService
	log     *zap.Logger
}

func NewOrderController(s OrderService, log *zap.Logger) *OrderController {
	return &OrderController{Service: s, log: log}
}

// POST /orders: buyer
func (ctl *OrderController) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, err.Error())
		return
	}

	buyer := middleware.CurrentUser(c)
	res, err := ctl.Service.Create(c.Request.Context(), service.CreateOrderInput{
		BuyerEmail:    buyer.Email,
		ProductID:     req.ProductID,
		Payment:       req.Payment.ToModel(),
		BuyerApproval: buyer.AdminApproval,
	})
	if err != nil {
		apierror.Respond(c, ctl.log, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// PATCH /orders/:orderId/status: manager o admin
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, err.Error())
		return
	}

	actor := middleware.CurrentUser(c)
	res, err := ctl.Service.Transition(c.Request.Context(), service.TransitionInput{
		OrderID:       c.Param("orderId"),
		NewStatus:     req.Status,
		ActorApproval: actor.AdminApproval,
		Location:      req.Location,
		Note:          req.Note,
	})
	if err != nil {
		apierror.Respond(c, ctl.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// GET /trackings/:trackingId: cualquier usuario autenticado
func (ctl *OrderController) GetTrackingLog(c *gin.Context) {
	events, err := ctl.Service.QueryLog(c.Request.Context(), c.Param("trackingId"))
	if err != nil {
		apierror.Respond(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GET /orders/flow: manager
func (ctl *OrderController) GetOrderFlow(c *gin.Context) {
	stages := ctl.Service.Flow()
	res := dto.OrderFlowResponse{Stages: stages}

	// en modo laxo cualquier estado pasa, así que no hay mapa que mostrar
	if ctl.Service.StrictTransitions() {
		res.Next = make(map[string][]model.Status, len(stages)+1)
		for _, s := range stages {
			res.Next[string(s.Key)] = model.NextStatuses(s.Key)
		}
		res.Next[string(model.StatusPending)] = model.NextStatuses(model.StatusPending)
	}

	c.JSON(http.StatusOK, res)
}

// GET /orders/:orderId: el buyer solo ve sus propias órdenes
func (ctl *OrderController) GetOrder(c *gin.Context) {
	order, err := ctl.Service.GetByID(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		apierror.Respond(c, ctl.log, err)
		return
	}

	user := middleware.CurrentUser(c)
	if user.Role == model.RoleBuyer && order.BuyerEmail != user.Email {
		apierror.Respond(c, ctl.log, fmt.Errorf("%w: order not found", service.ErrNotFound))
		return
	}
	c.JSON(http.StatusOK, order)
}

// GET /orders/mine: buyer
func (ctl *OrderController) GetMyOrders(c *gin.Context) {
	orders, err := ctl.Service.ListByBuyer(c.Request.Context(), middleware.CurrentUser(c).Email)
	if err != nil {
		apierror.Respond(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /orders: admin
func (ctl *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := ctl.Service.ListAll(c.Request.Context())
	if err != nil {
		apierror.Respond(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /orders/status/:status: manager o admin
func (ctl *OrderController) GetOrdersByStatus(c *gin.Context) {
	orders, err := ctl.Service.ListByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		apierror.Respond(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// DELETE /orders/:orderId: admin, no deja evento de tracking
func (ctl *OrderController) DeleteOrder(c *gin.Context) {
	if err := ctl.Service.Delete(c.Request.Context(), c.Param("orderId")); err != nil {
		apierror.Respond(c, ctl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
