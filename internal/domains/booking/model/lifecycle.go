package model

import "slices"

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCheckedOut},
}

// CanTransition reports whether a booking in status from may move to status to.
// checked-out and cancelled are terminal.
func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

func ValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	default:
		return false
	}
}

// RefundPercentage is the share of the total returned when a booking is
// cancelled daysUntilCheckIn days before arrival.
func RefundPercentage(daysUntilCheckIn int) int {
	switch {
	case daysUntilCheckIn > 7:
		return 100
	case daysUntilCheckIn > 3:
		return 50
	case daysUntilCheckIn > 1:
		return 25
	default:
		return 0
	}
}

// RefundedPaymentStatus is the payment status after refunding percentage of a booking.
func RefundedPaymentStatus(current PaymentStatus, percentage int) PaymentStatus {
	if current == PaymentUnpaid {
		return PaymentUnpaid
	}

	switch {
	case percentage >= 100:
		return PaymentRefunded
	case percentage > 0:
		return PaymentPartiallyRefunded
	default:
		return current
	}
}
