package model

import (
	"time"

	bookingModel "hostly/internal/domains/booking/model"
	"hostly/shared/date"
)

const Columns = 7

// Cell is one square of the month grid. Blank cells pad the first week so
// that day one lands under its weekday column.
type Cell struct {
	Blank     bool
	Date      date.Date
	IsToday   bool
	CheckIns  []bookingModel.Booking
	CheckOuts []bookingModel.Booking
	Staying   []bookingModel.Booking
}

type Grid struct {
	Year          int
	Month         time.Month
	PropertyID    string
	LeadingBlanks int
	Cells         []Cell
}

// Day returns the cell for day of month, or false when day is outside the month.
func (g Grid) Day(day int) (Cell, bool) {
	idx := g.LeadingBlanks + day - 1
	if day < 1 || idx >= len(g.Cells) {
		return Cell{}, false
	}

	return g.Cells[idx], true
}

// Weeks is the number of grid rows needed to show the month.
func (g Grid) Weeks() int {
	return (len(g.Cells) + Columns - 1) / Columns
}
