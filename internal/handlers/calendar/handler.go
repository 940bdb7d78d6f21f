package calendar

import (
	"net/http"

	"hostly/infras/otel"
	"hostly/internal/domains/calendar/model/dto"
	"hostly/internal/domains/calendar/service"
	"hostly/shared/constant"
	"hostly/shared/validator"
	"hostly/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Calendar
	otel    otel.Otel
}

func New(service service.Calendar, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/calendar", handler.GetMonth)
}

// GetMonth renders the booking calendar of one month.
// @Summary Get the booking calendar
// @Description Month grid starting on Sunday. Each day lists the bookings checking in, checking out and staying.
// @Tags Calendar
// @Produce json
// @Param month query string false "Month as YYYY-MM, defaults to the current month"
// @Param property_id query string false "Only bookings of this property"
// @Success 200 {object} response.Data[dto.MonthResponse] "Calendar month"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/calendar [get]
// @Security BearerAuth
func (handler *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMonth")
	defer scope.End()

	req := dto.MonthRequest{
		Month:      r.URL.Query().Get(constant.RequestParamMonth),
		PropertyID: r.URL.Query().Get(constant.RequestParamProperty),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate calendar query")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Month(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("month", req.Month).Msg("failed to build calendar")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
