package service

import (
	"slices"
	"strings"

	bookingModel "hostly/internal/domains/booking/model"
	propertyModel "hostly/internal/domains/property/model"
	"hostly/internal/domains/report/model"
	roomModel "hostly/internal/domains/room/model"
	"hostly/shared"
)

// dataset is everything a report reads, already narrowed to the requested range.
type dataset struct {
	rng           model.Range
	bookings      []bookingModel.Booking
	properties    []propertyModel.Property
	rooms         []roomModel.Room
	pendingOwners int
}

// Lines reduces the dataset to one line per property, ordered by revenue then name.
// Bookings of properties missing from the dataset are charged defaultRate.
func Lines(bookings []bookingModel.Booking, properties []propertyModel.Property, rooms []roomModel.Room, defaultRate float64) []model.PropertyLine {
	bookingsByProperty := make(map[string][]bookingModel.Booking)
	for _, booking := range bookings {
		bookingsByProperty[booking.PropertyID] = append(bookingsByProperty[booking.PropertyID], booking)
	}

	roomsByProperty := make(map[string][]roomModel.Room)
	for _, room := range rooms {
		roomsByProperty[room.PropertyID] = append(roomsByProperty[room.PropertyID], room)
	}

	lines := make([]model.PropertyLine, 0, len(properties))
	known := make(map[string]bool, len(properties))

	for _, property := range properties {
		known[property.ID] = true

		lines = append(lines, line(property.ID, property.CommissionRate, bookingsByProperty[property.ID], roomsByProperty[property.ID], func(l *model.PropertyLine) {
			l.Name = property.Name
			l.City = property.City
			l.ApprovalStatus = string(property.ApprovalStatus)
		}))
	}

	for propertyID, orphaned := range bookingsByProperty {
		if known[propertyID] {
			continue
		}

		lines = append(lines, line(propertyID, defaultRate, orphaned, roomsByProperty[propertyID], nil))
	}

	slices.SortFunc(lines, func(a, b model.PropertyLine) int {
		switch {
		case a.Revenue > b.Revenue:
			return -1
		case a.Revenue < b.Revenue:
			return 1
		default:
			return strings.Compare(a.Name+a.PropertyID, b.Name+b.PropertyID)
		}
	})

	return lines
}

func line(propertyID string, rate float64, bookings []bookingModel.Booking, rooms []roomModel.Room, describe func(*model.PropertyLine)) model.PropertyLine {
	revenue := TotalRevenue(bookings)
	commission := Commission(revenue, rate)
	occupied, total := RoomOccupancy(rooms)

	res := model.PropertyLine{
		PropertyID:     propertyID,
		Bookings:       len(bookings),
		Revenue:        revenue,
		CommissionRate: rate,
		Commission:     commission,
		OwnerPayout:    shared.RoundMoney(revenue - commission),
		Rooms:          total,
		OccupiedRooms:  occupied,
		OccupancyRate:  OccupancyRate(occupied, total),
	}

	if describe != nil {
		describe(&res)
	}

	return res
}

// Summarize folds per-property lines and the raw dataset into dashboard totals.
func Summarize(rng model.Range, bookings []bookingModel.Booking, properties []propertyModel.Property, rooms []roomModel.Room, lines []model.PropertyLine, pendingOwners int) model.Summary {
	summary := model.Summary{
		Range:               rng,
		TotalBookings:       len(bookings),
		TotalRevenue:        TotalRevenue(bookings),
		AverageBookingValue: AverageBookingValue(bookings),
		RefundsIssued:       RefundsIssued(bookings),
		BookingsByStatus:    CountByStatus(bookings),
		PendingOwners:       pendingOwners,
	}

	for _, l := range lines {
		summary.TotalCommission += l.Commission
	}

	summary.TotalCommission = shared.RoundMoney(summary.TotalCommission)
	summary.OwnerPayout = shared.RoundMoney(summary.TotalRevenue - summary.TotalCommission)

	summary.OccupiedRooms, summary.TotalRooms = RoomOccupancy(rooms)
	summary.OccupancyRate = OccupancyRate(summary.OccupiedRooms, summary.TotalRooms)

	for _, property := range properties {
		if property.ApprovalStatus == propertyModel.ApprovalPending {
			summary.PendingProperties++
		}
	}

	return summary
}
