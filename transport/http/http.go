package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"hostly/config"
	_ "hostly/docs" // swagger docs
	"hostly/infras/otel"
	"hostly/shared/lifecycle"
	"hostly/transport/http/middleware"
	"hostly/transport/http/router"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	readHeaderTimeout = 10 * time.Second
	defaultPort       = "8080"
)

type HTTP struct {
	Config *config.Config
	Router router.Router
	State  *lifecycle.State

	app    middleware.AppMiddleware
	auth   middleware.AuthRole
	tracer otel.Otel

	once    sync.Once
	handler http.Handler
	server  *http.Server
}

func New(
	cfg *config.Config,
	r router.Router,
	state *lifecycle.State,
	app middleware.AppMiddleware,
	auth middleware.AuthRole,
	tracer otel.Otel,
) *HTTP {
	return &HTTP{
		Config: cfg,
		Router: r,
		State:  state,
		app:    app,
		auth:   auth,
		tracer: tracer,
	}
}

// Serve listens until SIGINT or SIGTERM, then drains through the grace and cleanup periods.
func (h *HTTP) Serve() {
	port := h.Config.Server.Port
	if port == "" {
		port = defaultPort
	}

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, port),
		Handler:           h.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	done := make(chan struct{})

	go h.respondToSigterm(done)

	log.Info().Str("addr", h.server.Addr).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}

	<-done
}

// ServeHTTP lets the server run behind a serverless entrypoint.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Handler().ServeHTTP(w, r)
}

func (h *HTTP) Handler() http.Handler {
	h.once.Do(func() {
		h.handler = h.setupRoutes()
	})

	return h.handler
}

func (h *HTTP) setupRoutes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(chiMiddleware.RequestID)
	mux.Use(chiMiddleware.Recoverer)
	mux.Use(h.app.Tracing)

	if cfg := h.Config.App.CORS; cfg.Enable {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   cfg.AllowedMethods,
			AllowedHeaders:   cfg.AllowedHeaders,
			AllowCredentials: cfg.AllowCredentials,
			MaxAge:           cfg.MaxAgeSeconds,
		}))
	}

	mux.Use(h.app.RateLimit())
	mux.Use(h.auth.APIKey)
	mux.Use(h.auth.Auth)
	mux.Use(h.auth.RBAC)

	mux.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	h.Router.SetupRoutes(mux)

	return mux
}

func (h *HTTP) respondToSigterm(done chan struct{}) {
	defer close(done)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	<-signals

	if h.Config.Server.Env == "development" {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")

		h.shutdown(0)

		return
	}

	shutdownConfig := h.Config.Server.Shutdown

	log.Info().Msg("Received SIGTERM.")
	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.State.Set(lifecycle.PhaseGracePeriod)

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.State.Set(lifecycle.PhaseCleanupPeriod)

	h.shutdown(time.Duration(shutdownConfig.CleanupPeriodSeconds) * time.Second)

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

// shutdown stops accepting connections and waits up to timeout for in-flight requests.
func (h *HTTP) shutdown(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), max(timeout, time.Second))
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server did not drain in time")
	}

	if err := otel.Shutdown(ctx, h.tracer); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}
}
