package service

import (
	"math"

	bookingModel "hostly/internal/domains/booking/model"
	roomModel "hostly/internal/domains/room/model"
	"hostly/shared"
)

// TotalRevenue sums the totals of bookings that were not cancelled.
func TotalRevenue(bookings []bookingModel.Booking) float64 {
	total := 0.0

	for _, booking := range bookings {
		if booking.IsCancelled() {
			continue
		}

		total += booking.TotalAmount
	}

	return shared.RoundMoney(total)
}

// Commission is the platform cut of revenue at rate percent.
func Commission(revenue, rate float64) float64 {
	return shared.RoundMoney(revenue * rate / 100)
}

// OccupancyRate returns round(100 × occupied / total) clamped to [0, 100].
// An empty inventory is 0% occupied.
func OccupancyRate(occupied, total int) int {
	if total <= 0 || occupied <= 0 {
		return 0
	}

	rate := int(math.Round(100 * float64(occupied) / float64(total)))

	return min(rate, 100)
}

// RoomOccupancy counts occupied rooms against the whole inventory.
func RoomOccupancy(rooms []roomModel.Room) (occupied, total int) {
	for _, room := range rooms {
		if room.Status == roomModel.StatusOccupied {
			occupied++
		}
	}

	return occupied, len(rooms)
}

// AverageBookingValue is revenue per non-cancelled booking, 0 when there are none.
func AverageBookingValue(bookings []bookingModel.Booking) float64 {
	count := 0

	for _, booking := range bookings {
		if !booking.IsCancelled() {
			count++
		}
	}

	if count == 0 {
		return 0
	}

	return shared.RoundMoney(TotalRevenue(bookings) / float64(count))
}

// CountByStatus always reports every status, including those with no bookings.
func CountByStatus(bookings []bookingModel.Booking) map[bookingModel.Status]int {
	counts := map[bookingModel.Status]int{
		bookingModel.StatusPending:    0,
		bookingModel.StatusConfirmed:  0,
		bookingModel.StatusCheckedIn:  0,
		bookingModel.StatusCheckedOut: 0,
		bookingModel.StatusCancelled:  0,
	}

	for _, booking := range bookings {
		counts[booking.Status]++
	}

	return counts
}

// RefundsIssued sums refund amounts recorded on cancelled bookings.
func RefundsIssued(bookings []bookingModel.Booking) float64 {
	total := 0.0

	for _, booking := range bookings {
		if booking.IsCancelled() {
			total += booking.RefundAmount
		}
	}

	return shared.RoundMoney(total)
}
