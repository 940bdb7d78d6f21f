package dto

import (
	"errors"
	"fmt"
	"net/http"

	bookingModel "hostly/internal/domains/booking/model"
	"hostly/internal/domains/report/model"
	"hostly/shared/constant"
	"hostly/shared/date"
	"hostly/shared/format"
)

var ErrInvalidRange = errors.New("from must not be after to")

type ReportFilter struct {
	From       string `json:"from"        validate:"omitempty,date"`
	To         string `json:"to"          validate:"omitempty,date"`
	PropertyID string `json:"property_id" validate:"omitempty,max=50"`
}

func (f *ReportFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.From = query.Get(constant.RequestParamFrom)
	f.To = query.Get(constant.RequestParamTo)
	f.PropertyID = query.Get(constant.RequestParamProperty)
}

func (f ReportFilter) ToModel() (res model.Range, err error) {
	res.PropertyID = f.PropertyID

	if f.From != constant.Empty {
		if res.From, err = date.Parse(f.From); err != nil {
			return res, fmt.Errorf("invalid from: %w", err)
		}
	}

	if f.To != constant.Empty {
		if res.To, err = date.Parse(f.To); err != nil {
			return res, fmt.Errorf("invalid to: %w", err)
		}
	}

	if !res.From.IsZero() && !res.To.IsZero() && res.From.After(res.To) {
		return res, ErrInvalidRange
	}

	return res, nil
}

type Formatted struct {
	TotalRevenue        string `json:"total_revenue"`
	TotalCommission     string `json:"total_commission"`
	OwnerPayout         string `json:"owner_payout"`
	AverageBookingValue string `json:"average_booking_value"`
	RefundsIssued       string `json:"refunds_issued"`
	OccupancyRate       string `json:"occupancy_rate"`
	TotalBookings       string `json:"total_bookings"`
}

type DashboardResponse struct {
	From                string         `json:"from,omitempty"`
	To                  string         `json:"to,omitempty"`
	PropertyID          string         `json:"property_id,omitempty"`
	Currency            string         `json:"currency"`
	TotalBookings       int            `json:"total_bookings"`
	TotalRevenue        float64        `json:"total_revenue"`
	TotalCommission     float64        `json:"total_commission"`
	OwnerPayout         float64        `json:"owner_payout"`
	AverageBookingValue float64        `json:"average_booking_value"`
	RefundsIssued       float64        `json:"refunds_issued"`
	OccupiedRooms       int            `json:"occupied_rooms"`
	TotalRooms          int            `json:"total_rooms"`
	OccupancyRate       int            `json:"occupancy_rate"`
	BookingsByStatus    map[string]int `json:"bookings_by_status"`
	PendingProperties   int            `json:"pending_properties"`
	PendingOwners       int            `json:"pending_owners"`
	Formatted           Formatted      `json:"formatted"`
}

func (r *DashboardResponse) FromModel(summary model.Summary, currency string) {
	r.From = dateString(summary.From)
	r.To = dateString(summary.To)
	r.PropertyID = summary.PropertyID
	r.Currency = currency
	r.TotalBookings = summary.TotalBookings
	r.TotalRevenue = summary.TotalRevenue
	r.TotalCommission = summary.TotalCommission
	r.OwnerPayout = summary.OwnerPayout
	r.AverageBookingValue = summary.AverageBookingValue
	r.RefundsIssued = summary.RefundsIssued
	r.OccupiedRooms = summary.OccupiedRooms
	r.TotalRooms = summary.TotalRooms
	r.OccupancyRate = summary.OccupancyRate
	r.PendingProperties = summary.PendingProperties
	r.PendingOwners = summary.PendingOwners

	r.BookingsByStatus = make(map[string]int, len(summary.BookingsByStatus))
	for status, count := range summary.BookingsByStatus {
		r.BookingsByStatus[string(status)] = count
	}

	r.Formatted = Formatted{
		TotalRevenue:        format.Currency(currency, summary.TotalRevenue),
		TotalCommission:     format.Currency(currency, summary.TotalCommission),
		OwnerPayout:         format.Currency(currency, summary.OwnerPayout),
		AverageBookingValue: format.Currency(currency, summary.AverageBookingValue),
		RefundsIssued:       format.Currency(currency, summary.RefundsIssued),
		OccupancyRate:       format.Percentage(summary.OccupancyRate),
		TotalBookings:       format.Number(summary.TotalBookings),
	}
}

type PropertyReportResponse struct {
	PropertyID       string  `json:"property_id"`
	Name             string  `json:"name"`
	City             string  `json:"city"`
	ApprovalStatus   string  `json:"approval_status"`
	Bookings         int     `json:"bookings"`
	Revenue          float64 `json:"revenue"`
	CommissionRate   float64 `json:"commission_rate"`
	Commission       float64 `json:"commission"`
	OwnerPayout      float64 `json:"owner_payout"`
	Rooms            int     `json:"rooms"`
	OccupiedRooms    int     `json:"occupied_rooms"`
	OccupancyRate    int     `json:"occupancy_rate"`
	FormattedRevenue string  `json:"formatted_revenue"`
}

type PropertiesResponse struct {
	Currency   string                   `json:"currency"`
	Properties []PropertyReportResponse `json:"properties"`
}

func (r *PropertiesResponse) FromModels(lines []model.PropertyLine, currency string) {
	r.Currency = currency

	r.Properties = make([]PropertyReportResponse, len(lines))
	for i, line := range lines {
		r.Properties[i] = PropertyReportResponse{
			PropertyID:       line.PropertyID,
			Name:             line.Name,
			City:             line.City,
			ApprovalStatus:   line.ApprovalStatus,
			Bookings:         line.Bookings,
			Revenue:          line.Revenue,
			CommissionRate:   line.CommissionRate,
			Commission:       line.Commission,
			OwnerPayout:      line.OwnerPayout,
			Rooms:            line.Rooms,
			OccupiedRooms:    line.OccupiedRooms,
			OccupancyRate:    line.OccupancyRate,
			FormattedRevenue: format.Currency(currency, line.Revenue),
		}
	}
}

type ExportResponse struct {
	FileName string
	Content  []byte
}

func dateString(d date.Date) string {
	if d.IsZero() {
		return constant.Empty
	}

	return d.String()
}

// StatusOrder fixes the row order of status breakdowns.
var StatusOrder = []bookingModel.Status{
	bookingModel.StatusPending,
	bookingModel.StatusConfirmed,
	bookingModel.StatusCheckedIn,
	bookingModel.StatusCheckedOut,
	bookingModel.StatusCancelled,
}
