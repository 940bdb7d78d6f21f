package service_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	bookingModel "hostly/internal/domains/booking/model"
	"hostly/internal/domains/report/service"
	roomModel "hostly/internal/domains/room/model"
)

func bookings() []bookingModel.Booking {
	return []bookingModel.Booking{
		{ID: "BK-1", PropertyID: "PROP-1", Status: bookingModel.StatusConfirmed, TotalAmount: 300},
		{ID: "BK-2", PropertyID: "PROP-1", Status: bookingModel.StatusCheckedOut, TotalAmount: 450.5},
		{ID: "BK-3", PropertyID: "PROP-2", Status: bookingModel.StatusCancelled, TotalAmount: 999, RefundAmount: 499.5},
		{ID: "BK-4", PropertyID: "PROP-2", Status: bookingModel.StatusPending, TotalAmount: 200},
	}
}

func TestTotalRevenue(t *testing.T) {
	assert.InDelta(t, 950.5, service.TotalRevenue(bookings()), 0.001)
	assert.Zero(t, service.TotalRevenue(nil))
}

func TestCommission(t *testing.T) {
	assert.InDelta(t, 30, service.Commission(200, 15), 0.001)
	assert.InDelta(t, 75.05, service.Commission(750.5, 10), 0.001)
	assert.Zero(t, service.Commission(950.5, 0))
	assert.InDelta(t, 950.5, service.Commission(950.5, 100), 0.001)
}

func TestOccupancyRate(t *testing.T) {
	tests := []struct {
		occupied int
		total    int
		want     int
	}{
		{occupied: 0, total: 0, want: 0},
		{occupied: 3, total: 0, want: 0},
		{occupied: 0, total: 8, want: 0},
		{occupied: 1, total: 3, want: 33},
		{occupied: 2, total: 3, want: 67},
		{occupied: 1, total: 8, want: 13},
		{occupied: 8, total: 8, want: 100},
		{occupied: 9, total: 8, want: 100},
		{occupied: -1, total: 8, want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, service.OccupancyRate(tt.occupied, tt.total), "%d/%d", tt.occupied, tt.total)
	}

	for total := 1; total <= 40; total++ {
		for occupied := 0; occupied <= total; occupied++ {
			rate := service.OccupancyRate(occupied, total)

			assert.GreaterOrEqual(t, rate, 0)
			assert.LessOrEqual(t, rate, 100)
			assert.Equal(t, int(math.Round(100*float64(occupied)/float64(total))), rate)
		}
	}
}

func TestRoomOccupancy(t *testing.T) {
	rooms := []roomModel.Room{
		{Status: roomModel.StatusOccupied},
		{Status: roomModel.StatusAvailable},
		{Status: roomModel.StatusMaintenance},
		{Status: roomModel.StatusOccupied},
	}

	occupied, total := service.RoomOccupancy(rooms)
	assert.Equal(t, 2, occupied)
	assert.Equal(t, 4, total)
}

func TestAverageBookingValue(t *testing.T) {
	assert.InDelta(t, 316.83, service.AverageBookingValue(bookings()), 0.001)
	assert.Zero(t, service.AverageBookingValue([]bookingModel.Booking{{Status: bookingModel.StatusCancelled, TotalAmount: 10}}))
}

func TestCountByStatus(t *testing.T) {
	counts := service.CountByStatus(bookings())

	assert.Equal(t, 1, counts[bookingModel.StatusPending])
	assert.Equal(t, 1, counts[bookingModel.StatusConfirmed])
	assert.Equal(t, 0, counts[bookingModel.StatusCheckedIn])
	assert.Len(t, counts, 5)
}

func TestRefundsIssued(t *testing.T) {
	assert.InDelta(t, 499.5, service.RefundsIssued(bookings()), 0.001)
}
