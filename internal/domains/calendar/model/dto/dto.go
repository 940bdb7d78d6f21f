package dto

import (
	"fmt"
	"time"

	bookingDto "hostly/internal/domains/booking/model/dto"
	bookingModel "hostly/internal/domains/booking/model"
	"hostly/internal/domains/calendar/model"
	"hostly/shared/date"
)

type MonthRequest struct {
	Month      string `json:"month"       validate:"omitempty,month"`
	PropertyID string `json:"property_id" validate:"omitempty,max=50"`
}

// Period resolves Month, defaulting to the month containing today.
func (r MonthRequest) Period(today date.Date) (int, time.Month, error) {
	if r.Month == "" {
		return today.Year(), today.Month(), nil
	}

	year, month, err := date.ParseMonth(r.Month)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month: %w", err)
	}

	return year, month, nil
}

type CellResponse struct {
	Date      *string                      `json:"date"`
	Day       int                          `json:"day,omitempty"`
	IsToday   bool                         `json:"is_today"`
	CheckIns  []bookingDto.BookingResponse `json:"check_ins"`
	CheckOuts []bookingDto.BookingResponse `json:"check_outs"`
	Staying   []bookingDto.BookingResponse `json:"staying"`
}

type MonthResponse struct {
	Month         string         `json:"month"`
	PropertyID    string         `json:"property_id,omitempty"`
	LeadingBlanks int            `json:"leading_blanks"`
	Weeks         int            `json:"weeks"`
	Cells         []CellResponse `json:"cells"`
}

func (r *MonthResponse) FromModel(grid model.Grid) {
	r.Month = fmt.Sprintf("%04d-%02d", grid.Year, int(grid.Month))
	r.PropertyID = grid.PropertyID
	r.LeadingBlanks = grid.LeadingBlanks
	r.Weeks = grid.Weeks()

	r.Cells = make([]CellResponse, len(grid.Cells))
	for i, cell := range grid.Cells {
		if cell.Blank {
			continue
		}

		day := cell.Date.String()

		r.Cells[i] = CellResponse{
			Date:      &day,
			Day:       cell.Date.Day(),
			IsToday:   cell.IsToday,
			CheckIns:  responses(cell.CheckIns),
			CheckOuts: responses(cell.CheckOuts),
			Staying:   responses(cell.Staying),
		}
	}
}

func responses(bookings []bookingModel.Booking) []bookingDto.BookingResponse {
	res := make([]bookingDto.BookingResponse, len(bookings))
	for i, booking := range bookings {
		res[i].FromModel(booking)
	}

	return res
}
