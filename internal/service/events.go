package service

import (
	"context"
	"time"

	"order-loom/internal/model"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

type OrderEvent struct {
	Type       string       `json:"type"`
	OrderID    string       `json:"orderId"`
	TrackingID string       `json:"trackingId"`
	BuyerEmail string       `json:"buyerEmail"`
	Status     model.Status `json:"status"`
	Location   *string      `json:"location,omitempty"`
	Note       *string      `json:"note,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"`
}

// EventPublisher lo implementa el paquete rabbit.
type EventPublisher interface {
	Publish(ctx context.Context, e OrderEvent) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, OrderEvent) error { return nil }
