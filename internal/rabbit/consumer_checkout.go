package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"order-loom/internal/dto"
	"order-loom/internal/model"
	"order-loom/internal/service"
)

type OrderCreator interface {
	Create(ctx context.Context, in service.CreateOrderInput) (*model.Order, error)
}

type BuyerGate interface {
	Require(ctx context.Context, email string, roles ...model.Role) (*model.User, error)
}

type CheckoutCompletedConsumer struct {
	orders OrderCreator
	gate   BuyerGate
	log    *zap.Logger
}

func NewCheckoutCompletedConsumer(orders OrderCreator, gate BuyerGate, log *zap.Logger) *CheckoutCompletedConsumer {
	return &CheckoutCompletedConsumer{orders: orders, gate: gate, log: log}
}

// Mensaje que publica el servicio de pagos al cerrar un checkout.
type CheckoutCompletedMessage struct {
	CorrelationID string `json:"correlation_id"`
	Exchange      string `json:"exchange"`
	RoutingKey    string `json:"routing_key"`
	Message       struct {
		BuyerEmail string         `json:"buyerEmail"`
		ProductID  string         `json:"productId"`
		Payment    dto.PaymentDTO `json:"payment"`
	} `json:"message"`
}

// Handle convierte un checkout en una orden pending. La aprobación del
// buyer se lee de su cuenta, no del mensaje.
func (c *CheckoutCompletedConsumer) Handle(ctx context.Context, body []byte) error {
	var msg CheckoutCompletedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: decode checkout message: %v", service.ErrInvalidInput, err)
	}
	log := c.log.With(zap.String("correlationId", msg.CorrelationID))

	buyer, err := c.gate.Require(ctx, msg.Message.BuyerEmail, model.RoleBuyer)
	if err != nil {
		return err
	}

	order, err := c.orders.Create(ctx, service.CreateOrderInput{
		BuyerEmail:    buyer.Email,
		ProductID:     msg.Message.ProductID,
		Payment:       msg.Message.Payment.ToModel(),
		BuyerApproval: buyer.AdminApproval,
	})
	if err != nil {
		return err
	}

	log.Info("order created from checkout",
		zap.String("orderId", order.ID.Hex()),
		zap.String("trackingId", order.TrackingID),
	)
	return nil
}

// Run consume hasta que se cierre el canal o se cancele ctx.
func (c *CheckoutCompletedConsumer) Run(ctx context.Context, deliveries <-chan amqp091.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				c.log.Warn("checkout deliveries channel closed")
				return
			}
			c.settle(d, c.Handle(ctx, d.Body))
		}
	}
}

func (c *CheckoutCompletedConsumer) settle(d amqp091.Delivery, err error) {
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			c.log.Error("ack failed", zap.Uint64("tag", d.DeliveryTag), zap.Error(ackErr))
		}
		return
	}

	if shouldRequeue(err) {
		c.log.Warn("checkout requeued", zap.Uint64("tag", d.DeliveryTag), zap.Error(err))
		if nackErr := d.Nack(false, true); nackErr != nil {
			c.log.Error("nack failed", zap.Uint64("tag", d.DeliveryTag), zap.Error(nackErr))
		}
		return
	}

	// reintentar no cambia el resultado
	c.log.Info("checkout discarded", zap.Uint64("tag", d.DeliveryTag), zap.Error(err))
	if ackErr := d.Ack(false); ackErr != nil {
		c.log.Error("ack failed", zap.Uint64("tag", d.DeliveryTag), zap.Error(ackErr))
	}
}

func shouldRequeue(err error) bool {
	return errors.Is(err, service.ErrStorage)
}
