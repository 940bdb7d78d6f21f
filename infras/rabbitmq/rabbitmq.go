package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hostly/config"
	"hostly/shared/constant"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	prefetchCount     = 50
	initialBackoff    = time.Second
	maxBackoff        = 30 * time.Second
	reconnectCooldown = 2 * time.Second
)

var errDeliveriesClosed = errors.New("deliveries channel closed")

// Client publishes to and consumes from durable queues on the default exchange.
type Client interface {
	Publish(ctx context.Context, queue string, body []byte) error
	Consume(ctx context.Context, queue string, handler func(ctx context.Context, body []byte) error) error
	Close() error
}

type clientImpl struct {
	url  string
	mu   sync.Mutex
	conn *amqp.Connection
}

// New does not dial; the connection is opened on first use.
func New(cfg *config.Config) Client {
	return &clientImpl{url: cfg.RabbitMQ.URL}
}

func (c *clientImpl) connection() (*amqp.Connection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn, nil
	}

	conn, err := amqp.Dial(c.url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	c.conn = conn

	return conn, nil
}

func (c *clientImpl) Publish(ctx context.Context, queue string, body []byte) error {
	conn, err := c.connection()
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	err = ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  constant.ContentTypeJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queue, err)
	}

	return nil
}

// Consume blocks until ctx is done, reconnecting with exponential backoff.
// Messages whose handler fails are rejected without requeue.
func (c *clientImpl) Consume(ctx context.Context, queue string, handler func(ctx context.Context, body []byte) error) error {
	backoff := initialBackoff

	for {
		if ctx.Err() != nil {
			return nil
		}

		conn, err := c.connection()
		if err != nil {
			log.Error().Err(err).Dur("retry_in", backoff).Msg("RabbitMQ unavailable")

			if !sleep(ctx, backoff) {
				return nil
			}

			backoff = min(backoff*2, maxBackoff)

			continue
		}

		backoff = initialBackoff

		if err = c.consumeLoop(ctx, conn, queue, handler); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("RabbitMQ consume loop ended, reconnecting")

			if !sleep(ctx, reconnectCooldown) {
				return nil
			}
		}
	}
}

func (c *clientImpl) consumeLoop(ctx context.Context, conn *amqp.Connection, queue string, handler func(ctx context.Context, body []byte) error) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err = ch.Qos(prefetchCount, 0, false); err != nil {
		log.Warn().Err(err).Msg("Failed to set RabbitMQ QoS")
	}

	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", queue, err)
	}

	for delivery := range deliveries {
		if err := handler(ctx, delivery.Body); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("Failed to handle RabbitMQ message")

			_ = delivery.Nack(false, false)

			continue
		}

		_ = delivery.Ack(false)
	}

	if ctx.Err() != nil {
		return nil
	}

	return errDeliveriesClosed
}

func (c *clientImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}

	return c.conn.Close() //nolint:wrapcheck
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
