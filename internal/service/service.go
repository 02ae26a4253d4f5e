package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"order-loom/internal/model"
	"order-loom/internal/repository"
	"order-loom/internal/trackingid"
)

// Interfaz que debe implementar repository
type OrderRepository interface {
	Insert(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	ExistsPending(ctx context.Context, productID, buyerEmail string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status model.Status, approvedAt *time.Time) (*model.Order, error)
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]*model.Order, error)
	FindByStatus(ctx context.Context, status model.Status) ([]*model.Order, error)
	FindByBuyer(ctx context.Context, buyerEmail string) ([]*model.Order, error)
}

type TrackingLedger interface {
	Append(ctx context.Context, e *model.TrackingEvent) (string, error)
	ListByTrackingID(ctx context.Context, trackingID string) ([]*model.TrackingEvent, error)
}

// Solo lectura del catálogo; el título de la orden sale del producto guardado.
type ProductLookup interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}

type CreateOrderInput struct {
	BuyerEmail    string
	ProductID     string
	Payment       model.PaymentInfo
	BuyerApproval string
}

type TransitionInput struct {
	OrderID       string
	NewStatus     string
	ActorApproval string
	Location      *string
	Note          *string
}

type Option func(*OrderService)

func WithClock(now func() time.Time) Option {
	return func(s *OrderService) { s.now = now }
}

func WithTrackingIDFunc(fn func(time.Time) (string, error)) Option {
	return func(s *OrderService) { s.newTrackingID = fn }
}

// WithStrictTransitions activa el control de transiciones contra la tabla de flujo.
// Sin él se acepta cualquier estado no vacío.
func WithStrictTransitions(strict bool) Option {
	return func(s *OrderService) { s.strict = strict }
}

type OrderService struct {
	orders        OrderRepository
	ledger        TrackingLedger
	products      ProductLookup
	publisher     EventPublisher
	log           *zap.Logger
	now           func() time.Time
	newTrackingID func(time.Time) (string, error)
	strict        bool
}

func NewOrderService(orders OrderRepository, ledger TrackingLedger, products ProductLookup, publisher EventPublisher, log *zap.Logger, opts ...Option) *OrderService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	s := &OrderService{
		orders:        orders,
		ledger:        ledger,
		products:      products,
		publisher:     publisher,
		log:           log,
		now:           func() time.Time { return time.Now().UTC() },
		newTrackingID: trackingid.Generate,
		strict:        true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// buyerMayOrder y actorMayTransition concentran los chequeos de aprobación.
// El de transición mira la cuenta de quien ejecuta, no la orden.
func buyerMayOrder(approval string) bool {
	return approval == model.ApprovalApproved
}

func actorMayTransition(approval string) bool {
	return approval == model.ApprovalApproved
}

// Create registra una orden pending y su primer evento de tracking.
// El chequeo de duplicado y el insert no son atómicos: dos pedidos casi
// simultáneos pueden pasar ambos el chequeo.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	order, err := s.create(ctx, in)
	if err != nil {
		OrderOperationFailuresTotal.WithLabelValues("create", failureReason(err)).Inc()
		return nil, err
	}
	OrdersCreatedTotal.Inc()
	return order, nil
}

func (s *OrderService) create(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	if !buyerMayOrder(in.BuyerApproval) {
		return nil, forbidden("buyer account is not approved", in.BuyerApproval)
	}
	if strings.TrimSpace(in.ProductID) == "" || strings.TrimSpace(in.BuyerEmail) == "" {
		return nil, fmt.Errorf("%w: productId and buyerEmail are required", ErrInvalidInput)
	}

	product, err := s.products.FindByID(ctx, in.ProductID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: product not found", ErrNotFound)
	}
	if err != nil {
		return nil, storageFault("find product", err)
	}

	exists, err := s.orders.ExistsPending(ctx, in.ProductID, in.BuyerEmail)
	if err != nil {
		return nil, storageFault("check pending order", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: product already ordered and pending", ErrConflict)
	}

	placedAt := s.now()
	tid, err := s.newTrackingID(placedAt)
	if err != nil {
		return nil, fmt.Errorf("tracking id: %w", err)
	}

	order := &model.Order{
		ProductID:    in.ProductID,
		ProductTitle: product.Title,
		BuyerEmail:   in.BuyerEmail,
		Payment:      in.Payment,
		Status:       model.StatusPending,
		TrackingID:   tid,
		PlacedAt:     placedAt,
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, storageFault("insert order", err)
	}

	event := &model.TrackingEvent{
		TrackingID: tid,
		Status:     model.StatusPending,
		LoggedAt:   placedAt,
	}
	if _, err := s.ledger.Append(ctx, event); err != nil {
		// la orden queda guardada sin evento inicial; no hay rollback
		s.log.Error("order stored without initial tracking event",
			zap.String("orderId", order.ID.Hex()),
			zap.String("trackingId", tid),
			zap.Error(err),
		)
		return nil, storageFault("append initial tracking event", err)
	}

	s.log.Info("order created",
		zap.String("orderId", order.ID.Hex()),
		zap.String("trackingId", tid),
		zap.String("productId", order.ProductID),
	)
	s.publish(ctx, EventOrderCreated, order, event)
	return order, nil
}

// Transition cambia el estado de la orden y deja un evento en el ledger.
func (s *OrderService) Transition(ctx context.Context, in TransitionInput) (*model.Order, error) {
	order, err := s.transition(ctx, in)
	if err != nil {
		OrderOperationFailuresTotal.WithLabelValues("transition", failureReason(err)).Inc()
		return nil, err
	}
	OrderTransitionsTotal.WithLabelValues(statusLabel(order.Status)).Inc()
	return order, nil
}

func (s *OrderService) transition(ctx context.Context, in TransitionInput) (*model.Order, error) {
	if !actorMayTransition(in.ActorApproval) {
		return nil, forbidden("your account is not approved to update orders", in.ActorApproval)
	}

	current, err := s.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		return nil, s.mapRepoErr("find order", err)
	}

	next, err := s.nextStatus(current.Status, in.NewStatus)
	if err != nil {
		return nil, err
	}

	now := s.now()
	event := &model.TrackingEvent{
		TrackingID: current.TrackingID,
		Status:     next,
		LoggedAt:   now,
	}
	// la aprobación se registra sin ubicación ni nota
	if next != model.StatusApproved {
		event.Location = nonEmpty(in.Location)
		event.Note = nonEmpty(in.Note)
	}
	if _, err := s.ledger.Append(ctx, event); err != nil {
		return nil, storageFault("append tracking event", err)
	}

	var approvedAt *time.Time
	if next == model.StatusApproved {
		approvedAt = &now
	}
	updated, err := s.orders.UpdateStatus(ctx, in.OrderID, next, approvedAt)
	if err != nil {
		return nil, s.mapRepoErr("update order status", err)
	}

	s.log.Info("order status changed",
		zap.String("orderId", in.OrderID),
		zap.String("trackingId", current.TrackingID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(next)),
	)
	s.publish(ctx, EventOrderStatusChanged, updated, event)
	return updated, nil
}

func (s *OrderService) nextStatus(current model.Status, requested string) (model.Status, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return "", fmt.Errorf("%w: status is required", ErrInvalidInput)
	}
	if !s.strict {
		return model.Status(requested), nil
	}

	next, err := model.ParseStatus(requested)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	if !model.CanTransition(current, next) {
		return "", fmt.Errorf("%w: %q -> %q", ErrInvalidTransition, current, next)
	}
	return next, nil
}

// QueryLog devuelve los eventos del tracking id en el orden que los da el ledger.
// Un id desconocido da una lista vacía.
func (s *OrderService) QueryLog(ctx context.Context, trackingID string) ([]*model.TrackingEvent, error) {
	events, err := s.ledger.ListByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, storageFault("list tracking events", err)
	}
	if events == nil {
		events = []*model.TrackingEvent{}
	}
	return events, nil
}

// StrictTransitions indica si Transition valida contra la tabla de flujo.
func (s *OrderService) StrictTransitions() bool {
	return s.strict
}

// Flow expone la tabla de etapas de producción.
func (s *OrderService) Flow() []model.Stage {
	return model.Flow()
}

// Getters
func (s *OrderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoErr("find order", err)
	}
	return o, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]*model.Order, error) {
	out, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, storageFault("list orders", err)
	}
	return out, nil
}

func (s *OrderService) ListByStatus(ctx context.Context, status string) ([]*model.Order, error) {
	out, err := s.orders.FindByStatus(ctx, model.Status(status))
	if err != nil {
		return nil, storageFault("list orders by status", err)
	}
	return out, nil
}

func (s *OrderService) ListByBuyer(ctx context.Context, buyerEmail string) ([]*model.Order, error) {
	out, err := s.orders.FindByBuyer(ctx, buyerEmail)
	if err != nil {
		return nil, storageFault("list buyer orders", err)
	}
	return out, nil
}

// Delete es administrativo: borra la orden y no deja rastro en el ledger.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return s.mapRepoErr("delete order", err)
	}
	s.log.Warn("order deleted", zap.String("orderId", id))
	return nil
}

func (s *OrderService) publish(ctx context.Context, kind string, o *model.Order, e *model.TrackingEvent) {
	err := s.publisher.Publish(ctx, OrderEvent{
		Type:       kind,
		OrderID:    o.ID.Hex(),
		TrackingID: o.TrackingID,
		BuyerEmail: o.BuyerEmail,
		Status:     e.Status,
		Location:   e.Location,
		Note:       e.Note,
		OccurredAt: e.LoggedAt,
	})
	if err != nil {
		s.log.Warn("publish order event failed", zap.String("type", kind), zap.String("orderId", o.ID.Hex()), zap.Error(err))
	}
}

func (s *OrderService) mapRepoErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: order not found", ErrNotFound)
	}
	return storageFault(op, err)
}

func nonEmpty(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
