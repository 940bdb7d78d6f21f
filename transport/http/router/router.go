package router

import (
	"hostly/internal/handlers/auth"
	"hostly/internal/handlers/booking"
	"hostly/internal/handlers/calendar"
	"hostly/internal/handlers/health"
	"hostly/internal/handlers/owner"
	"hostly/internal/handlers/property"
	"hostly/internal/handlers/report"
	"hostly/internal/handlers/room"
	"hostly/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Health   health.Handler
	Auth     auth.Handler
	User     user.Handler
	Owner    owner.Handler
	Property property.Handler
	Room     room.Handler
	Booking  booking.Handler
	Calendar calendar.Handler
	Report   report.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Health.Router(routerGroup)
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Owner.Router(routerGroup)
		r.DomainHandlers.Property.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Calendar.Router(routerGroup)
		r.DomainHandlers.Report.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
