package dto_test

import (
	"testing"

	"hostly/internal/domains/booking/model"
	"hostly/internal/domains/booking/model/dto"
	"hostly/shared/date"

	"github.com/stretchr/testify/assert"
)

func TestCreateBookingRequestToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		PropertyID: "PRP-001",
		RoomID:     "RM-101",
		GuestName:  "Ana Lima",
		GuestEmail: "ana@guest.example",
		CheckIn:    date.MustParse("2024-02-10"),
		CheckOut:   date.MustParse("2024-02-13"),
		Adults:     2,
	}

	booking := req.ToModel("user-1", 180)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, 3, booking.Nights)
	assert.InDelta(t, 540.0, booking.TotalAmount, 0.001)
	assert.Equal(t, model.StatusPending, booking.Status)
	assert.Equal(t, model.PaymentUnpaid, booking.PaymentStatus)
	assert.Equal(t, "user-1", booking.UserID)
	assert.Equal(t, "user-1", booking.CreatedBy)
}

func TestNewRefundQuote(t *testing.T) {
	today := date.MustParse("2024-02-01")
	booking := model.Booking{
		ID:            "BK-1",
		CheckIn:       date.MustParse("2024-02-06"),
		TotalAmount:   400,
		PaymentStatus: model.PaymentPaid,
	}

	quote := dto.NewRefundQuote(booking, today)
	assert.Equal(t, 5, quote.DaysUntilCheckIn)
	assert.Equal(t, 50, quote.RefundPercentage)
	assert.InDelta(t, 200.0, quote.RefundAmount, 0.001)

	booking.PaymentStatus = model.PaymentUnpaid
	quote = dto.NewRefundQuote(booking, today)
	assert.Equal(t, 50, quote.RefundPercentage)
	assert.Zero(t, quote.RefundAmount)
}
