// Package worker consumes booking events from the configured broker and keeps
// derived data, such as cached reports, in step with them.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hostly/config"
	"hostly/infras/otel"
	reportService "hostly/internal/domains/report/service"
	"hostly/shared/constant"
	"hostly/shared/event"

	"github.com/rs/zerolog/log"
)

const flushTimeout = 5 * time.Second

var ErrNoBroker = errors.New("events driver has no broker to consume from")

type Worker struct {
	cfg        *config.Config
	subscriber event.Subscriber
	report     reportService.Report
	otel       otel.Otel
}

func New(cfg *config.Config, subscriber event.Subscriber, report reportService.Report, otel otel.Otel) *Worker {
	return &Worker{
		cfg:        cfg,
		subscriber: subscriber,
		report:     report,
		otel:       otel,
	}
}

// Run blocks until ctx is cancelled or the subscription fails.
func (w *Worker) Run(ctx context.Context) error {
	if w.subscriber == nil {
		return fmt.Errorf("%w: %q", ErrNoBroker, w.cfg.Events.Driver)
	}

	log.Info().Str("driver", w.cfg.Events.Driver).Str("topic", w.cfg.Events.BookingTopic).Msg("Worker consuming booking events")

	defer w.flush()

	err := w.subscriber.Subscribe(ctx, w.Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to consume booking events: %w", err)
	}

	return nil
}

func (w *Worker) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := otel.Shutdown(ctx, w.otel); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}
}

// Handle applies one booking event.
func (w *Worker) Handle(ctx context.Context, changed event.BookingStatusChanged) (err error) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Handle")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"booking.id": changed.BookingID,
		"from":       changed.From,
		"to":         changed.To,
	})

	if err = w.report.Invalidate(ctx, changed); err != nil {
		log.Error().Err(err).Str("booking_id", changed.BookingID).Msg("failed to apply booking event")

		return err //nolint:wrapcheck
	}

	return nil
}
