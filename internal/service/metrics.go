package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"order-loom/internal/model"
)

// Con transiciones laxas el estado lo elige el cliente; fuera del enum va a "other".
const otherStatusLabel = "other"

var (
	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders created",
		},
	)

	OrderTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Total number of order status transitions by target status",
		},
		[]string{"status"},
	)

	OrderOperationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_operation_failures_total",
			Help: "Failed order operations by operation and reason",
		},
		[]string{"op", "reason"},
	)
)

func statusLabel(s model.Status) string {
	if s.Known() {
		return string(s)
	}
	return otherStatusLabel
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "storage"
	}
}
