package model

import (
	"hostly/shared/date"
	"hostly/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID               = "id"
	FieldUserID           = "user_id"
	FieldPropertyID       = "property_id"
	FieldRoomID           = "room_id"
	FieldGuestName        = "guest_name"
	FieldGuestEmail       = "guest_email"
	FieldCheckIn          = "check_in"
	FieldCheckOut         = "check_out"
	FieldNights           = "nights"
	FieldAdults           = "adults"
	FieldChildren         = "children"
	FieldStatus           = "status"
	FieldPaymentStatus    = "payment_status"
	FieldTotalAmount      = "total_amount"
	FieldRefundPercentage = "refund_percentage"
	FieldRefundAmount     = "refund_amount"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked-in"
	StatusCheckedOut Status = "checked-out"
	StatusCancelled  Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid            PaymentStatus = "unpaid"
	PaymentPaid              PaymentStatus = "paid"
	PaymentPartiallyRefunded PaymentStatus = "partially-refunded"
	PaymentRefunded          PaymentStatus = "refunded"
)

type Booking struct {
	ID               string        `db:"id"`
	UserID           string        `db:"user_id"`
	PropertyID       string        `db:"property_id"`
	RoomID           string        `db:"room_id"`
	GuestName        string        `db:"guest_name"`
	GuestEmail       string        `db:"guest_email"`
	CheckIn          date.Date     `db:"check_in"`
	CheckOut         date.Date     `db:"check_out"`
	Nights           int           `db:"nights"`
	Adults           int           `db:"adults"`
	Children         int           `db:"children"`
	Status           Status        `db:"status"`
	PaymentStatus    PaymentStatus `db:"payment_status"`
	TotalAmount      float64       `db:"total_amount"`
	RefundPercentage int           `db:"refund_percentage"`
	RefundAmount     float64       `db:"refund_amount"`
	model.Metadata
}

func (b Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// StaysOn reports whether the guest occupies the room on the night of day,
// excluding the arrival and departure days.
func (b Booking) StaysOn(day date.Date) bool {
	return !b.IsCancelled() && b.CheckIn.Before(day) && day.Before(b.CheckOut)
}
