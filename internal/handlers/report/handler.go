package report

import (
	"net/http"

	"hostly/infras/otel"
	"hostly/internal/domains/report/model/dto"
	"hostly/internal/domains/report/service"
	"hostly/shared/constant"
	"hostly/shared/validator"
	"hostly/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Report
	otel    otel.Otel
}

func New(service service.Report, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reports", func(routerGroup chi.Router) {
		routerGroup.Get("/dashboard", handler.GetDashboard)
		routerGroup.Get("/properties", handler.GetPropertyReport)
		routerGroup.Get("/export", handler.ExportReport)
	})
}

// GetDashboard returns the platform totals for a date range.
// @Summary Get dashboard metrics
// @Description Revenue, commission, occupancy and pending approvals. Bookings count when their check-in falls within the range.
// @Tags Report
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param property_id query string false "Only this property"
// @Success 200 {object} response.Data[dto.DashboardResponse] "Dashboard metrics"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/dashboard [get]
// @Security BearerAuth
func (handler *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDashboard")
	defer scope.End()

	filter, err := parseFilter(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Dashboard(ctx, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build dashboard report")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetPropertyReport returns revenue and occupancy per property.
// @Summary Get the per-property report
// @Tags Report
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param property_id query string false "Only this property"
// @Success 200 {object} response.Data[dto.PropertiesResponse] "Property report"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/properties [get]
// @Security BearerAuth
func (handler *Handler) GetPropertyReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPropertyReport")
	defer scope.End()

	filter, err := parseFilter(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Properties(ctx, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build property report")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ExportReport downloads the dashboard and property report as an XLSX workbook.
// @Summary Export reports
// @Tags Report
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param property_id query string false "Only this property"
// @Success 200 {file} file "XLSX workbook"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/export [get]
// @Security BearerAuth
func (handler *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExportReport")
	defer scope.End()

	filter, err := parseFilter(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Export(ctx, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export report")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Report exported as " + res.FileName)

	response.WithFile(w, constant.ContentTypeXLSX, res.FileName, res.Content)
}

func parseFilter(r *http.Request) (dto.ReportFilter, error) {
	filter := dto.ReportFilter{}
	filter.FromRequest(r)

	if err := validator.ValidateStruct(&filter); err != nil {
		return filter, err //nolint:wrapcheck
	}

	return filter, nil
}
