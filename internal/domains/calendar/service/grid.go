package service

import (
	"time"

	bookingModel "hostly/internal/domains/booking/model"
	"hostly/internal/domains/calendar/model"
	"hostly/shared/date"
)

// BuildGrid lays out month as a Sunday-first grid and buckets bookings into
// day cells. Arrivals and departures are listed whatever their status; the
// staying list skips cancelled bookings and the boundary days themselves.
// An empty propertyID keeps bookings of every property.
func BuildGrid(year int, month time.Month, today date.Date, bookings []bookingModel.Booking, propertyID string) model.Grid {
	first := date.FirstOfMonth(year, month)
	days := date.DaysInMonth(year, month)
	blanks := int(first.Weekday())

	grid := model.Grid{
		Year:          year,
		Month:         month,
		PropertyID:    propertyID,
		LeadingBlanks: blanks,
		Cells:         make([]model.Cell, blanks, blanks+days),
	}

	for idx := range blanks {
		grid.Cells[idx].Blank = true
	}

	for offset := range days {
		grid.Cells = append(grid.Cells, model.Cell{
			Date:    first.AddDays(offset),
			IsToday: first.AddDays(offset).Equal(today),
		})
	}

	last := first.AddDays(days - 1)

	for _, booking := range bookings {
		if propertyID != "" && booking.PropertyID != propertyID {
			continue
		}

		if booking.CheckIn.After(last) || booking.CheckOut.Before(first) {
			continue
		}

		for day := maxDate(booking.CheckIn, first); !day.After(minDate(booking.CheckOut, last)); day = day.AddDays(1) {
			cell := &grid.Cells[blanks+day.Day()-1]

			switch {
			case day.Equal(booking.CheckIn):
				cell.CheckIns = append(cell.CheckIns, booking)
			case day.Equal(booking.CheckOut):
				cell.CheckOuts = append(cell.CheckOuts, booking)
			case booking.StaysOn(day):
				cell.Staying = append(cell.Staying, booking)
			}
		}
	}

	return grid
}

func maxDate(a, b date.Date) date.Date {
	if a.After(b) {
		return a
	}

	return b
}

func minDate(a, b date.Date) date.Date {
	if a.Before(b) {
		return a
	}

	return b
}
