package di

import (
	"hostly/config"
	"hostly/infras/kafka"
	"hostly/infras/otel"
	"hostly/infras/rabbitmq"
	reportService "hostly/internal/domains/report/service"
	"hostly/shared/event"
)

// provideEventBus builds the bus and subscribes in-process consumers to it, so a
// single API instance keeps its report cache fresh without running the worker.
func provideEventBus(
	cfg *config.Config,
	kafkaClient kafka.Client,
	rabbitClient rabbitmq.Client,
	ot otel.Otel,
	report reportService.Report,
) event.Bus {
	bus := event.New(cfg, kafkaClient, rabbitClient, ot)
	bus.Listen(report.Invalidate)

	return bus
}
