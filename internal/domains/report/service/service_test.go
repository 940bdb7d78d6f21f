package service_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"hostly/config"
	"hostly/infras/otel/mocks"
	bookingMocks "hostly/internal/domains/booking/mocks"
	bookingModel "hostly/internal/domains/booking/model"
	ownerMocks "hostly/internal/domains/owner/mocks"
	propertyMocks "hostly/internal/domains/property/mocks"
	propertyModel "hostly/internal/domains/property/model"
	"hostly/internal/domains/report/model/dto"
	"hostly/internal/domains/report/service"
	roomMocks "hostly/internal/domains/room/mocks"
	roomModel "hostly/internal/domains/room/model"
	"hostly/shared"
	"hostly/shared/cache"
	gDto "hostly/shared/dto"
	"hostly/shared/event"
	"hostly/shared/failure"
)

type fixture struct {
	bookings   *bookingMocks.MockBooking
	properties *propertyMocks.MockProperty
	rooms      *roomMocks.MockRoom
	owners     *ownerMocks.MockOwner
	store      cache.Cache
	svc        service.Report
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	otel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.App.Currency = "USD"
	cfg.App.DefaultCommissionRate = 15

	f := fixture{
		bookings:   bookingMocks.NewMockBooking(ctrl),
		properties: propertyMocks.NewMockProperty(ctrl),
		rooms:      roomMocks.NewMockRoom(ctrl),
		owners:     ownerMocks.NewMockOwner(ctrl),
		store:      cache.NewMemoryCache(otel),
	}
	f.svc = service.New(f.bookings, f.properties, f.rooms, f.owners, cfg, f.store, otel)

	return f
}

func (f fixture) expectLoad(times int) {
	f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookings(), nil).Times(times)
	f.properties.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]propertyModel.Property{
		{ID: "PROP-1", Name: "Seaside Inn", City: "Lisbon", ApprovalStatus: propertyModel.ApprovalApproved, CommissionRate: 10},
		{ID: "PROP-2", Name: "Hill Villa", City: "Porto", ApprovalStatus: propertyModel.ApprovalPending, CommissionRate: 20},
	}, nil).Times(times)
	f.rooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]roomModel.Room{
		{ID: "R-1", PropertyID: "PROP-1", Status: roomModel.StatusOccupied},
		{ID: "R-2", PropertyID: "PROP-1", Status: roomModel.StatusAvailable},
		{ID: "R-3", PropertyID: "PROP-2", Status: roomModel.StatusAvailable},
	}, nil).Times(times)
	f.owners.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil).Times(times)
}

func TestReportService_Dashboard(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(1)

	res, err := f.svc.Dashboard(context.Background(), dto.ReportFilter{})
	require.NoError(t, err)

	assert.Equal(t, 4, res.TotalBookings)
	assert.InDelta(t, 950.5, res.TotalRevenue, 0.001)
	// 750.5 at 10% plus 200 at 20%.
	assert.InDelta(t, 115.05, res.TotalCommission, 0.001)
	assert.InDelta(t, 835.45, res.OwnerPayout, 0.001)
	assert.Equal(t, 33, res.OccupancyRate)
	assert.Equal(t, 1, res.PendingProperties)
	assert.Equal(t, 2, res.PendingOwners)
	assert.Equal(t, 1, res.BookingsByStatus["cancelled"])
	assert.Equal(t, "USD 950.50", res.Formatted.TotalRevenue)
	assert.Equal(t, "33%", res.Formatted.OccupancyRate)
}

func TestReportService_DashboardFilters(t *testing.T) {
	t.Run("range and property reach the repositories", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]bookingModel.Booking, error) {
				assert.Len(t, filter.Filters, 3)

				return nil, nil
			})
		f.properties.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]propertyModel.Property, error) {
				assert.Len(t, filter.Filters, 1)

				return nil, nil
			})
		f.rooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.owners.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)

		res, err := f.svc.Dashboard(context.Background(), dto.ReportFilter{From: "2024-01-01", To: "2024-01-31", PropertyID: "PROP-1"})
		require.NoError(t, err)
		assert.Zero(t, res.OccupancyRate)
		assert.Zero(t, res.AverageBookingValue)
		assert.Equal(t, "2024-01-01", res.From)
	})

	t.Run("inverted range", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Dashboard(context.Background(), dto.ReportFilter{From: "2024-02-01", To: "2024-01-01"})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestReportService_Properties(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(1)

	res, err := f.svc.Properties(context.Background(), dto.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, res.Properties, 2)

	first := res.Properties[0]
	assert.Equal(t, "PROP-1", first.PropertyID)
	assert.InDelta(t, 750.5, first.Revenue, 0.001)
	assert.InDelta(t, 75.05, first.Commission, 0.001)
	assert.InDelta(t, 675.45, first.OwnerPayout, 0.001)
	assert.Equal(t, 50, first.OccupancyRate)

	second := res.Properties[1]
	assert.Equal(t, 2, second.Bookings)
	assert.InDelta(t, 200, second.Revenue, 0.001)
	assert.Zero(t, second.OccupancyRate)
}

func TestReportService_Export(t *testing.T) {
	f := newFixture(t)
	f.expectLoad(1)

	res, err := f.svc.Export(context.Background(), dto.ReportFilter{From: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "report_2024-01-01_all.xlsx", res.FileName)

	book, err := excelize.OpenReader(bytes.NewReader(res.Content))
	require.NoError(t, err)

	defer book.Close()

	assert.Equal(t, []string{"Summary", "Properties"}, book.GetSheetList())

	value, err := book.GetCellValue("Summary", "B6")
	require.NoError(t, err)
	assert.Equal(t, "USD 950.50", value)

	rows, err := book.GetRows("Properties")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, "Seaside Inn", rows[1][1])
}

func TestReportService_Invalidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Save(ctx, shared.BuildCacheKey("report:dashboard", "", "", ""), dto.DashboardResponse{TotalBookings: 99}, 3600))

	cached, err := f.svc.Dashboard(ctx, dto.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 99, cached.TotalBookings)

	require.NoError(t, f.svc.Invalidate(ctx, event.BookingStatusChanged{BookingID: "BK-1"}))

	f.expectLoad(1)

	fresh, err := f.svc.Dashboard(ctx, dto.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, fresh.TotalBookings)
}
