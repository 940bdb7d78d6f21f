package dto

import (
	"hostly/internal/domains/booking/model"
	"hostly/shared"
	"hostly/shared/date"
	gDto "hostly/shared/dto"
	gModel "hostly/shared/model"
	"hostly/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	PropertyID    string              `json:"property_id"    validate:"required"`
	RoomID        string              `json:"room_id"        validate:"required"`
	GuestName     string              `json:"guest_name"     validate:"required,max=100"`
	GuestEmail    string              `json:"guest_email"    validate:"required,email,max=100"`
	CheckIn       date.Date           `json:"check_in"       validate:"required"`
	CheckOut      date.Date           `json:"check_out"      validate:"required"`
	Adults        int                 `json:"adults"         validate:"required,gte=1,lte=10"`
	Children      int                 `json:"children"       validate:"gte=0,lte=10"`
	PaymentStatus model.PaymentStatus `json:"payment_status" validate:"omitempty,oneof=unpaid paid"`
}

// ToModel prices the stay at pricePerNight for every night between check-in and check-out.
func (c *CreateBookingRequest) ToModel(user string, pricePerNight float64) model.Booking {
	nights := date.DaysBetween(c.CheckIn, c.CheckOut)

	payment := c.PaymentStatus
	if payment == "" {
		payment = model.PaymentUnpaid
	}

	return model.Booking{
		ID:            uuid.NewString(),
		UserID:        user,
		PropertyID:    c.PropertyID,
		RoomID:        c.RoomID,
		GuestName:     c.GuestName,
		GuestEmail:    c.GuestEmail,
		CheckIn:       c.CheckIn,
		CheckOut:      c.CheckOut,
		Nights:        nights,
		Adults:        c.Adults,
		Children:      c.Children,
		Status:        model.StatusPending,
		PaymentStatus: payment,
		TotalAmount:   shared.RoundMoney(pricePerNight * float64(nights)),
		Metadata:      gModel.NewMetadata(user, timezone.Now()),
	}
}

type UpdateBookingRequest struct {
	GuestName     string              `db:"guest_name"     json:"guest_name"     validate:"omitempty,max=100"`
	GuestEmail    string              `db:"guest_email"    json:"guest_email"    validate:"omitempty,email,max=100"`
	Adults        int                 `db:"adults"         json:"adults"         validate:"omitempty,gte=1,lte=10"`
	Children      int                 `db:"children"       json:"children"       validate:"omitempty,gte=0,lte=10"`
	PaymentStatus model.PaymentStatus `db:"payment_status" json:"payment_status" validate:"omitempty,oneof=unpaid paid"`
}

type BookingResponse struct {
	ID               string  `json:"id"`
	UserID           string  `json:"user_id,omitempty"`
	PropertyID       string  `json:"property_id"`
	RoomID           string  `json:"room_id"`
	GuestName        string  `json:"guest_name"`
	GuestEmail       string  `json:"guest_email"`
	CheckIn          string  `json:"check_in"`
	CheckOut         string  `json:"check_out"`
	Nights           int     `json:"nights"`
	Adults           int     `json:"adults"`
	Children         int     `json:"children"`
	Status           string  `json:"status"`
	PaymentStatus    string  `json:"payment_status"`
	TotalAmount      float64 `json:"total_amount"`
	RefundPercentage int     `json:"refund_percentage"`
	RefundAmount     float64 `json:"refund_amount"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.PropertyID = model.PropertyID
	r.RoomID = model.RoomID
	r.GuestName = model.GuestName
	r.GuestEmail = model.GuestEmail
	r.CheckIn = model.CheckIn.String()
	r.CheckOut = model.CheckOut.String()
	r.Nights = model.Nights
	r.Adults = model.Adults
	r.Children = model.Children
	r.Status = string(model.Status)
	r.PaymentStatus = string(model.PaymentStatus)
	r.TotalAmount = model.TotalAmount
	r.RefundPercentage = model.RefundPercentage
	r.RefundAmount = model.RefundAmount
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type RefundQuoteResponse struct {
	BookingID        string  `json:"booking_id"`
	DaysUntilCheckIn int     `json:"days_until_check_in"`
	RefundPercentage int     `json:"refund_percentage"`
	RefundAmount     float64 `json:"refund_amount"`
	TotalAmount      float64 `json:"total_amount"`
}

// NewRefundQuote applies the cancellation policy as of today. Unpaid bookings refund nothing.
func NewRefundQuote(booking model.Booking, today date.Date) RefundQuoteResponse {
	days := date.DaysBetween(today, booking.CheckIn)
	percentage := model.RefundPercentage(days)

	amount := 0.0
	if booking.PaymentStatus == model.PaymentPaid {
		amount = shared.RoundMoney(booking.TotalAmount * float64(percentage) / 100)
	}

	return RefundQuoteResponse{
		BookingID:        booking.ID,
		DaysUntilCheckIn: days,
		RefundPercentage: percentage,
		RefundAmount:     amount,
		TotalAmount:      booking.TotalAmount,
	}
}

type StatusTransition struct {
	Status           model.Status        `db:"status"`
	PaymentStatus    model.PaymentStatus `db:"payment_status"`
	RefundPercentage int                 `db:"refund_percentage"`
	RefundAmount     float64             `db:"refund_amount"`
}
