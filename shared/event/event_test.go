package event

import (
	"context"
	"errors"
	"testing"

	"hostly/config"
	"hostly/infras/otel/mocks"
	"hostly/shared/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []BookingStatusChanged
	err    error
}

func (p *recordingPublisher) PublishBookingStatusChanged(_ context.Context, event BookingStatusChanged) error {
	p.events = append(p.events, event)

	return p.err
}

func TestBusDeliversToListenersAndBroker(t *testing.T) {
	broker := &recordingPublisher{}
	b := &bus{broker: broker, otel: mocks.NewOtel()}

	var received []string
	b.Listen(func(_ context.Context, event BookingStatusChanged) error {
		received = append(received, event.BookingID+":"+event.To)

		return nil
	})

	err := b.PublishBookingStatusChanged(context.Background(), BookingStatusChanged{BookingID: "BK-1001", From: "pending", To: "confirmed"})
	require.NoError(t, err)

	assert.Equal(t, []string{"BK-1001:confirmed"}, received)
	require.Len(t, broker.events, 1)
	assert.Equal(t, "confirmed", broker.events[0].To)
}

func TestBusJoinsErrors(t *testing.T) {
	brokerErr := errors.New("broker down")
	listenerErr := errors.New("listener failed")

	tracer := mocks.NewRecorder()

	b := &bus{broker: &recordingPublisher{err: brokerErr}, otel: tracer}
	b.Listen(func(context.Context, BookingStatusChanged) error { return listenerErr })

	err := b.PublishBookingStatusChanged(context.Background(), BookingStatusChanged{BookingID: "BK-1002"})
	assert.ErrorIs(t, err, brokerErr)
	assert.ErrorIs(t, err, listenerErr)

	require.Len(t, tracer.Errors(), 1)
	assert.ErrorIs(t, tracer.Errors()[0], brokerErr)
	assert.Equal(t, []string{constant.OtelEventScopeName + ".PublishBookingStatusChanged"}, tracer.Spans())
}

func TestNewSelectsDriver(t *testing.T) {
	cfg := &config.Config{}

	cfg.Events.Driver = config.EventsDriverLog
	assert.Nil(t, New(cfg, nil, nil, mocks.NewOtel()).(*bus).broker)
	assert.Nil(t, NewSubscriber(cfg, nil, nil))

	cfg.Events.Driver = config.EventsDriverKafka
	assert.IsType(t, &kafkaPublisher{}, New(cfg, nil, nil, mocks.NewOtel()).(*bus).broker)
	assert.IsType(t, &kafkaSubscriber{}, NewSubscriber(cfg, nil, nil))

	cfg.Events.Driver = config.EventsDriverRabbitMQ
	assert.IsType(t, &rabbitPublisher{}, New(cfg, nil, nil, mocks.NewOtel()).(*bus).broker)
	assert.IsType(t, &rabbitSubscriber{}, NewSubscriber(cfg, nil, nil))
}
