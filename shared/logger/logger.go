package logger

import (
	"io"
	"os"
	"time"

	"hostly/config"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const envDevelopment = "development"

// InitLogger installs a human readable console logger at trace level until the config is known.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

// Configure switches to JSON lines outside development, tags every entry with the app name
// and applies the configured level.
func Configure(cfg *config.Config) {
	configure(cfg, os.Stdout)
}

func configure(cfg *config.Config, out io.Writer) {
	var writer io.Writer = out
	if cfg.Server.Env == envDevelopment || cfg.Server.Env == "" {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(writer).With().Timestamp()
	if cfg.App.Name != "" {
		ctx = ctx.Str("app", cfg.App.Name)
	}

	// The level goes first so the detection line is filtered by it.
	SetLogLevel(cfg)

	log.Logger = ctx.Logger()
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}
