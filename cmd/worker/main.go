package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hostly/config"
	"hostly/di"
	"hostly/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := di.InitializeWorker().Run(ctx); err != nil {
		log.Error().Err(err).Msg("Worker stopped")

		stop()
		os.Exit(1) //nolint:gocritic
	}

	log.Info().Msg("Worker shut down")
}
