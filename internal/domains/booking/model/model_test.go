package model_test

import (
	"testing"

	"hostly/internal/domains/booking/model"
	"hostly/shared/date"

	"github.com/stretchr/testify/assert"
)

func TestRefundPercentage(t *testing.T) {
	tests := map[int]int{
		30: 100,
		8:  100,
		7:  50,
		4:  50,
		3:  25,
		2:  25,
		1:  0,
		0:  0,
		-2: 0,
	}

	for days, want := range tests {
		assert.Equal(t, want, model.RefundPercentage(days), "days until check-in: %d", days)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to model.Status
		want     bool
	}{
		{model.StatusPending, model.StatusConfirmed, true},
		{model.StatusPending, model.StatusCancelled, true},
		{model.StatusPending, model.StatusCheckedIn, false},
		{model.StatusConfirmed, model.StatusCheckedIn, true},
		{model.StatusConfirmed, model.StatusCancelled, true},
		{model.StatusConfirmed, model.StatusPending, false},
		{model.StatusCheckedIn, model.StatusCheckedOut, true},
		{model.StatusCheckedIn, model.StatusCancelled, false},
		{model.StatusCheckedOut, model.StatusCheckedIn, false},
		{model.StatusCancelled, model.StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanTransition(tt.from, tt.to))
		})
	}
}

func TestRefundedPaymentStatus(t *testing.T) {
	assert.Equal(t, model.PaymentRefunded, model.RefundedPaymentStatus(model.PaymentPaid, 100))
	assert.Equal(t, model.PaymentPartiallyRefunded, model.RefundedPaymentStatus(model.PaymentPaid, 50))
	assert.Equal(t, model.PaymentPaid, model.RefundedPaymentStatus(model.PaymentPaid, 0))
	assert.Equal(t, model.PaymentUnpaid, model.RefundedPaymentStatus(model.PaymentUnpaid, 100))
}

func TestStaysOn(t *testing.T) {
	booking := model.Booking{
		Status:   model.StatusConfirmed,
		CheckIn:  date.MustParse("2024-02-10"),
		CheckOut: date.MustParse("2024-02-13"),
	}

	assert.False(t, booking.StaysOn(date.MustParse("2024-02-10")))
	assert.True(t, booking.StaysOn(date.MustParse("2024-02-11")))
	assert.True(t, booking.StaysOn(date.MustParse("2024-02-12")))
	assert.False(t, booking.StaysOn(date.MustParse("2024-02-13")))

	booking.Status = model.StatusCancelled
	assert.False(t, booking.StaysOn(date.MustParse("2024-02-11")))
}
