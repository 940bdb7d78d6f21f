package model

import (
	bookingModel "hostly/internal/domains/booking/model"
	"hostly/shared/date"
)

// Range restricts reports to bookings whose check-in falls within [From, To].
// A zero bound is open.
type Range struct {
	From       date.Date
	To         date.Date
	PropertyID string
}

type Summary struct {
	Range
	TotalBookings       int
	TotalRevenue        float64
	TotalCommission     float64
	OwnerPayout         float64
	AverageBookingValue float64
	RefundsIssued       float64
	OccupiedRooms       int
	TotalRooms          int
	OccupancyRate       int
	BookingsByStatus    map[bookingModel.Status]int
	PendingProperties   int
	PendingOwners       int
}

type PropertyLine struct {
	PropertyID     string
	Name           string
	City           string
	ApprovalStatus string
	Bookings       int
	Revenue        float64
	CommissionRate float64
	Commission     float64
	OwnerPayout    float64
	Rooms          int
	OccupiedRooms  int
	OccupancyRate  int
}
