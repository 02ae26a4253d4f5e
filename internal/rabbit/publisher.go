package rabbit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"order-loom/internal/service"
)

// Channel es el subconjunto de *amqp091.Channel que usa el publisher.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

type envelope struct {
	CorrelationID string             `json:"correlation_id"`
	Exchange      string             `json:"exchange"`
	RoutingKey    string             `json:"routing_key"`
	Message       service.OrderEvent `json:"message"`
}

type Publisher struct {
	ch  Channel
	log *zap.Logger
}

func NewPublisher(ch Channel, log *zap.Logger) (*Publisher, error) {
	if err := ch.ExchangeDeclare(OrderEventsExchange, amqp091.ExchangeFanout, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", OrderEventsExchange, err)
	}
	return &Publisher{ch: ch, log: log}, nil
}

func (p *Publisher) Publish(ctx context.Context, e service.OrderEvent) error {
	id := uuid.NewString()
	body, err := json.Marshal(envelope{
		CorrelationID: id,
		Exchange:      OrderEventsExchange,
		RoutingKey:    e.Type,
		Message:       e,
	})
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	err = p.ch.PublishWithContext(ctx, OrderEventsExchange, e.Type, false, false, amqp091.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp091.Persistent,
		CorrelationId: id,
		Timestamp:     e.OccurredAt,
		Type:          e.Type,
		Body:          body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}

	p.log.Debug("order event published", zap.String("type", e.Type), zap.String("correlationId", id))
	return nil
}
