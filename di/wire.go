//go:build wireinject
// +build wireinject

package di

import (
	"hostly/config"
	"hostly/infras/jwt"
	"hostly/infras/kafka"
	"hostly/infras/otel"
	"hostly/infras/postgres"
	"hostly/infras/rabbitmq"
	"hostly/infras/redis"
	"hostly/infras/s3"
	"hostly/shared/cache"
	"hostly/shared/event"
	"hostly/shared/lifecycle"
	"hostly/transport/http"
	"hostly/transport/http/middleware"
	"hostly/transport/http/router"
	"hostly/transport/worker"

	"github.com/google/wire"

	authService "hostly/internal/domains/auth/service"
	bookingRepository "hostly/internal/domains/booking/repository"
	bookingService "hostly/internal/domains/booking/service"
	calendarService "hostly/internal/domains/calendar/service"
	ownerRepository "hostly/internal/domains/owner/repository"
	ownerService "hostly/internal/domains/owner/service"
	propertyRepository "hostly/internal/domains/property/repository"
	propertyService "hostly/internal/domains/property/service"
	reportService "hostly/internal/domains/report/service"
	roomRepository "hostly/internal/domains/room/repository"
	roomService "hostly/internal/domains/room/service"
	userRepository "hostly/internal/domains/user/repository"
	userService "hostly/internal/domains/user/service"
	authHandler "hostly/internal/handlers/auth"
	bookingHandler "hostly/internal/handlers/booking"
	calendarHandler "hostly/internal/handlers/calendar"
	healthHandler "hostly/internal/handlers/health"
	ownerHandler "hostly/internal/handlers/owner"
	propertyHandler "hostly/internal/handlers/property"
	reportHandler "hostly/internal/handlers/report"
	roomHandler "hostly/internal/handlers/room"
	userHandler "hostly/internal/handlers/user"
	"hostly/permissions"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	jwt.NewRevocations,
	s3.New,
	kafka.New,
	rabbitmq.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.New,
	lifecycle.New,
	provideEventBus,
	wire.Bind(new(event.Publisher), new(event.Bus)),
	wire.Bind(new(healthHandler.Checker), new(*lifecycle.State)),
)

var repositories = wire.NewSet(
	userRepository.New,
	ownerRepository.New,
	propertyRepository.New,
	roomRepository.New,
	bookingRepository.New,
)

var domains = wire.NewSet(
	authService.New,
	userService.New,
	ownerService.New,
	propertyService.New,
	roomService.New,
	bookingService.New,
	calendarService.New,
	reportService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	healthHandler.New,
	authHandler.New,
	userHandler.New,
	ownerHandler.New,
	propertyHandler.New,
	roomHandler.New,
	bookingHandler.New,
	calendarHandler.New,
	reportHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		repositories,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *worker.Worker {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		redis.New,
		kafka.New,
		rabbitmq.New,
		cache.New,
		event.NewSubscriber,
		bookingRepository.New,
		propertyRepository.New,
		roomRepository.New,
		ownerRepository.New,
		reportService.New,
		worker.New,
	)

	return &worker.Worker{}
}
