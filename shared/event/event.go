// Package event carries booking lifecycle notifications between the API and
// background workers.
package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"hostly/config"
	"hostly/infras/kafka"
	"hostly/infras/otel"
	"hostly/infras/rabbitmq"
	"hostly/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// BookingStatusChanged is emitted for every booking state transition.
type BookingStatusChanged struct {
	BookingID        string    `json:"booking_id"`
	PropertyID       string    `json:"property_id"`
	RoomID           string    `json:"room_id"`
	From             string    `json:"from"`
	To               string    `json:"to"`
	PaymentStatus    string    `json:"payment_status"`
	RefundPercentage int       `json:"refund_percentage"`
	RefundAmount     float64   `json:"refund_amount"`
	ChangedBy        string    `json:"changed_by"`
	ChangedAt        time.Time `json:"changed_at"`
}

type Handler func(ctx context.Context, event BookingStatusChanged) error

type Publisher interface {
	PublishBookingStatusChanged(ctx context.Context, event BookingStatusChanged) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, handler Handler) error
}

// Bus delivers events in process and forwards them to the configured broker.
type Bus interface {
	Publisher
	// Listen registers a handler that runs for every event published by this process.
	Listen(handler Handler)
}

type bus struct {
	mu       sync.RWMutex
	handlers []Handler
	broker   Publisher
	otel     otel.Otel
}

// New returns the event bus for cfg.Events.Driver. The log driver keeps events in process.
func New(cfg *config.Config, kafkaClient kafka.Client, rabbitClient rabbitmq.Client, ot otel.Otel) Bus {
	var broker Publisher

	switch cfg.Events.Driver {
	case config.EventsDriverKafka:
		broker = &kafkaPublisher{client: kafkaClient, topic: cfg.Events.BookingTopic}
	case config.EventsDriverRabbitMQ:
		broker = &rabbitPublisher{client: rabbitClient, queue: cfg.Events.BookingTopic}
	case config.EventsDriverLog, "":
	default:
		log.Warn().Str("driver", cfg.Events.Driver).Msg("Unknown events driver, keeping events in process")
	}

	return &bus{broker: broker, otel: ot}
}

func (b *bus) Listen(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers = append(b.handlers, handler)
}

func (b *bus) PublishBookingStatusChanged(ctx context.Context, event BookingStatusChanged) (err error) {
	ctx, scope := b.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".PublishBookingStatusChanged")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"booking.id": event.BookingID,
		"from":       event.From,
		"to":         event.To,
	})

	log.Info().
		Str("booking_id", event.BookingID).
		Str("from", event.From).
		Str("to", event.To).
		Str("changed_by", event.ChangedBy).
		Msg("booking status changed")

	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()

	var errs []error

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if b.broker != nil {
		if err := b.broker.PublishBookingStatusChanged(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

type kafkaPublisher struct {
	client kafka.Client
	topic  string
}

func (p *kafkaPublisher) PublishBookingStatusChanged(ctx context.Context, event BookingStatusChanged) error {
	return p.client.SendMessages(ctx, p.topic, kafka.Message{Key: event.BookingID, Value: event}) //nolint:wrapcheck
}

type rabbitPublisher struct {
	client rabbitmq.Client
	queue  string
}

func (p *rabbitPublisher) PublishBookingStatusChanged(ctx context.Context, event BookingStatusChanged) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.client.Publish(ctx, p.queue, body) //nolint:wrapcheck
}

// NewSubscriber returns a broker subscriber for cfg.Events.Driver, or nil for the log driver.
func NewSubscriber(cfg *config.Config, kafkaClient kafka.Client, rabbitClient rabbitmq.Client) Subscriber {
	switch cfg.Events.Driver {
	case config.EventsDriverKafka:
		return &kafkaSubscriber{client: kafkaClient, group: cfg.Events.ConsumerGroup, topic: cfg.Events.BookingTopic}
	case config.EventsDriverRabbitMQ:
		return &rabbitSubscriber{client: rabbitClient, queue: cfg.Events.BookingTopic}
	default:
		return nil
	}
}

type kafkaSubscriber struct {
	client kafka.Client
	group  string
	topic  string
}

func (s *kafkaSubscriber) Subscribe(ctx context.Context, handler Handler) error {
	return s.client.Consume(ctx, s.group, s.topic, func(ctx context.Context, msg kafkaGo.Message) error { //nolint:wrapcheck
		event, err := kafka.Decode[BookingStatusChanged](msg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		return handler(ctx, event)
	})
}

type rabbitSubscriber struct {
	client rabbitmq.Client
	queue  string
}

func (s *rabbitSubscriber) Subscribe(ctx context.Context, handler Handler) error {
	return s.client.Consume(ctx, s.queue, func(ctx context.Context, body []byte) error { //nolint:wrapcheck
		var event BookingStatusChanged
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("failed to unmarshal event: %w", err)
		}

		return handler(ctx, event)
	})
}
