// setup.go
package rabbit

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	OrderEventsExchange       = "order_events"
	CheckoutCompletedExchange = "checkout_completed"
	CheckoutQueue             = "order_loom_checkouts"
)

// Dial reintenta la conexión con backoff exponencial hasta maxElapsed.
func Dial(ctx context.Context, url string, maxElapsed time.Duration, log *zap.Logger) (*amqp091.Connection, error) {
	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(500*time.Millisecond),
		backoff.WithMaxInterval(5*time.Second),
		backoff.WithMaxElapsedTime(maxElapsed),
	)

	var conn *amqp091.Connection
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		c, err := amqp091.Dial(url)
		if err != nil {
			log.Warn("rabbit dial failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		conn = c
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return nil, fmt.Errorf("rabbit dial: %w", err)
	}

	log.Info("rabbit connected", zap.Int("attempts", attempt))
	return conn, nil
}

// SetupConsumers declara la cola propia, la bindea al exchange fanout de
// checkouts y arranca el loop de consumo con ack manual.
func SetupConsumers(ctx context.Context, ch *amqp091.Channel, consumer *CheckoutCompletedConsumer, log *zap.Logger) error {
	if err := ch.ExchangeDeclare(CheckoutCompletedExchange, amqp091.ExchangeFanout, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", CheckoutCompletedExchange, err)
	}

	q, err := ch.QueueDeclare(
		CheckoutQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// fanout ignora routing key
	if err := ch.QueueBind(q.Name, "", CheckoutCompletedExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume queue: %w", err)
	}

	go consumer.Run(ctx, msgs)

	log.Info("subscribed to exchange", zap.String("exchange", CheckoutCompletedExchange), zap.String("queue", q.Name))
	return nil
}
