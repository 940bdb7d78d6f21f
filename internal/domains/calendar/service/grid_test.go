package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingModel "hostly/internal/domains/booking/model"
	"hostly/internal/domains/calendar/model"
	"hostly/internal/domains/calendar/service"
	"hostly/shared/date"
)

func booking(id, propertyID, checkIn, checkOut string, status bookingModel.Status) bookingModel.Booking {
	return bookingModel.Booking{
		ID:         id,
		PropertyID: propertyID,
		CheckIn:    date.MustParse(checkIn),
		CheckOut:   date.MustParse(checkOut),
		Status:     status,
	}
}

func ids(bookings []bookingModel.Booking) []string {
	res := make([]string, len(bookings))
	for i, b := range bookings {
		res[i] = b.ID
	}

	return res
}

func TestBuildGrid_February2024(t *testing.T) {
	bookings := []bookingModel.Booking{booking("BK-1", "PROP-1", "2024-02-10", "2024-02-13", bookingModel.StatusConfirmed)}

	grid := service.BuildGrid(2024, time.February, date.MustParse("2024-02-11"), bookings, "")

	// 1 February 2024 is a Thursday.
	assert.Equal(t, 4, grid.LeadingBlanks)
	assert.Len(t, grid.Cells, 4+29)
	assert.Equal(t, 5, grid.Weeks())

	for day := 1; day <= 29; day++ {
		cell, ok := grid.Day(day)
		require.True(t, ok)
		assert.Equal(t, day, cell.Date.Day())

		switch day {
		case 10:
			assert.Equal(t, []string{"BK-1"}, ids(cell.CheckIns), "day %d", day)
			assert.Empty(t, cell.Staying, "day %d", day)
			assert.Empty(t, cell.CheckOuts, "day %d", day)
		case 11, 12:
			assert.Equal(t, []string{"BK-1"}, ids(cell.Staying), "day %d", day)
			assert.Empty(t, cell.CheckIns, "day %d", day)
			assert.Empty(t, cell.CheckOuts, "day %d", day)
		case 13:
			assert.Equal(t, []string{"BK-1"}, ids(cell.CheckOuts), "day %d", day)
			assert.Empty(t, cell.Staying, "day %d", day)
			assert.Empty(t, cell.CheckIns, "day %d", day)
		default:
			assert.Empty(t, cell.CheckIns, "day %d", day)
			assert.Empty(t, cell.CheckOuts, "day %d", day)
			assert.Empty(t, cell.Staying, "day %d", day)
		}

		assert.Equal(t, day == 11, cell.IsToday, "day %d", day)
	}

	for idx := range grid.LeadingBlanks {
		assert.True(t, grid.Cells[idx].Blank)
	}
}

func TestBuildGrid_MonthLengths(t *testing.T) {
	tests := []struct {
		year   int
		month  time.Month
		days   int
		blanks int
	}{
		{year: 2023, month: time.February, days: 28, blanks: 3},
		{year: 2024, month: time.February, days: 29, blanks: 4},
		{year: 2024, month: time.April, days: 30, blanks: 1},
		{year: 2024, month: time.September, days: 30, blanks: 0},
		{year: 2024, month: time.December, days: 31, blanks: 0},
		{year: 2026, month: time.August, days: 31, blanks: 6},
	}

	for _, tt := range tests {
		t.Run(time.Date(tt.year, tt.month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"), func(t *testing.T) {
			grid := service.BuildGrid(tt.year, tt.month, date.New(2000, time.January, 1), nil, "")

			assert.Equal(t, tt.blanks, grid.LeadingBlanks)
			assert.Less(t, grid.LeadingBlanks, model.Columns)
			assert.Len(t, grid.Cells, tt.blanks+tt.days)

			_, ok := grid.Day(tt.days + 1)
			assert.False(t, ok)
		})
	}
}

func TestBuildGrid_Boundaries(t *testing.T) {
	bookings := []bookingModel.Booking{
		booking("SPAN", "PROP-1", "2024-01-30", "2024-02-02", bookingModel.StatusCheckedIn),
		booking("LEAVE", "PROP-1", "2024-02-27", "2024-03-01", bookingModel.StatusConfirmed),
		booking("GONE", "PROP-2", "2024-02-05", "2024-02-08", bookingModel.StatusCancelled),
	}

	grid := service.BuildGrid(2024, time.February, date.MustParse("2024-03-15"), bookings, "")

	first, _ := grid.Day(1)
	assert.Equal(t, []string{"SPAN"}, ids(first.Staying))

	second, _ := grid.Day(2)
	assert.Equal(t, []string{"SPAN"}, ids(second.CheckOuts))

	last, _ := grid.Day(29)
	assert.Equal(t, []string{"LEAVE"}, ids(last.Staying))

	t.Run("cancelled bookings keep their events but never stay", func(t *testing.T) {
		arrival, _ := grid.Day(5)
		assert.Equal(t, []string{"GONE"}, ids(arrival.CheckIns))

		for day := 6; day <= 7; day++ {
			cell, _ := grid.Day(day)
			assert.Empty(t, cell.Staying)
		}

		departure, _ := grid.Day(8)
		assert.Equal(t, []string{"GONE"}, ids(departure.CheckOuts))
	})

	t.Run("property filter", func(t *testing.T) {
		filtered := service.BuildGrid(2024, time.February, date.MustParse("2024-03-15"), bookings, "PROP-2")

		for _, cell := range filtered.Cells {
			for _, b := range append(append(cell.CheckIns, cell.CheckOuts...), cell.Staying...) {
				assert.Equal(t, "PROP-2", b.PropertyID)
			}
		}

		first, _ := filtered.Day(1)
		assert.Empty(t, first.Staying)
	})

	t.Run("no today outside the month", func(t *testing.T) {
		for _, cell := range grid.Cells {
			assert.False(t, cell.IsToday)
		}
	})
}

func TestBuildGrid_StayProperties(t *testing.T) {
	bookings := []bookingModel.Booking{
		booking("A", "P", "2024-07-01", "2024-07-04", bookingModel.StatusConfirmed),
		booking("B", "P", "2024-07-03", "2024-07-10", bookingModel.StatusPending),
		booking("C", "P", "2024-07-09", "2024-07-10", bookingModel.StatusCheckedOut),
		booking("D", "P", "2024-07-20", "2024-07-25", bookingModel.StatusCancelled),
	}

	grid := service.BuildGrid(2024, time.July, date.MustParse("2024-07-01"), bookings, "")

	for _, b := range bookings {
		in, _ := grid.Day(b.CheckIn.Day())
		assert.Contains(t, ids(in.CheckIns), b.ID)
		assert.NotContains(t, ids(in.Staying), b.ID)

		out, _ := grid.Day(b.CheckOut.Day())
		assert.Contains(t, ids(out.CheckOuts), b.ID)
		assert.NotContains(t, ids(out.Staying), b.ID)

		for day := b.CheckIn.AddDays(1); day.Before(b.CheckOut); day = day.AddDays(1) {
			cell, _ := grid.Day(day.Day())
			if b.IsCancelled() {
				assert.NotContains(t, ids(cell.Staying), b.ID)
			} else {
				assert.Contains(t, ids(cell.Staying), b.ID)
			}
		}
	}
}
