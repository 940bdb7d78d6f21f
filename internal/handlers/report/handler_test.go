package report_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"hostly/config"
	"hostly/infras/otel/mocks"
	bookingRepo "hostly/internal/domains/booking/repository"
	ownerRepo "hostly/internal/domains/owner/repository"
	propertyRepo "hostly/internal/domains/property/repository"
	"hostly/internal/domains/report/service"
	roomRepo "hostly/internal/domains/room/repository"
	"hostly/internal/handlers/report"
	"hostly/shared/cache"
	"hostly/shared/constant"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newRouter() http.Handler {
	otel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.App.Currency = "USD"
	cfg.App.DefaultCommissionRate = 15

	svc := service.New(
		bookingRepo.New(nil, otel),
		propertyRepo.New(nil, otel),
		roomRepo.New(nil, otel),
		ownerRepo.New(nil, otel),
		cfg,
		cache.NewMemoryCache(otel),
		otel,
	)
	handler := report.New(svc, otel)

	router := chi.NewRouter()
	handler.Router(router)

	return router
}

func TestReportFilters(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantCode int
	}{
		{name: "dashboard without range", path: "/reports/dashboard", wantCode: http.StatusOK},
		{name: "dashboard reversed range", path: "/reports/dashboard?from=2026-03-10&to=2026-03-01", wantCode: http.StatusBadRequest},
		{name: "dashboard malformed date", path: "/reports/dashboard?from=10/03/2026", wantCode: http.StatusBadRequest},
		{name: "properties reversed range", path: "/reports/properties?from=2026-03-10&to=2026-03-01", wantCode: http.StatusBadRequest},
		{name: "properties single day", path: "/reports/properties?from=2026-03-10&to=2026-03-10", wantCode: http.StatusOK},
		{name: "export reversed range", path: "/reports/export?from=2026-03-10&to=2026-03-01", wantCode: http.StatusBadRequest},
	}

	router := newRouter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestExportReport(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constant.ContentTypeXLSX, rec.Header().Get(constant.RequestHeaderContentType))
	assert.Contains(t, rec.Header().Get(constant.RequestHeaderContentDisposition), ".xlsx")

	book, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)

	defer book.Close()

	assert.Equal(t, []string{"Summary", "Properties"}, book.GetSheetList())
}
