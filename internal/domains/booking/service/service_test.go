package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hostly/config"
	"hostly/infras/otel/mocks"
	bookingMocks "hostly/internal/domains/booking/mocks"
	"hostly/internal/domains/booking/model"
	"hostly/internal/domains/booking/model/dto"
	"hostly/internal/domains/booking/service"
	propertyMocks "hostly/internal/domains/property/mocks"
	propertyModel "hostly/internal/domains/property/model"
	roomMocks "hostly/internal/domains/room/mocks"
	roomModel "hostly/internal/domains/room/model"
	"hostly/shared/cache"
	"hostly/shared/constant"
	"hostly/shared/date"
	"hostly/shared/event"
	"hostly/shared/failure"
)

type publisherStub struct {
	mu     sync.Mutex
	events []event.BookingStatusChanged
}

func (p *publisherStub) PublishBookingStatusChanged(_ context.Context, evt event.BookingStatusChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, evt)

	return nil
}

type fixture struct {
	repo       *bookingMocks.MockBooking
	rooms      *roomMocks.MockRoom
	properties *propertyMocks.MockProperty
	events     *publisherStub
	svc        service.Booking
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	otel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f := fixture{
		repo:       bookingMocks.NewMockBooking(ctrl),
		rooms:      roomMocks.NewMockRoom(ctrl),
		properties: propertyMocks.NewMockProperty(ctrl),
		events:     &publisherStub{},
	}
	f.svc = service.New(f.repo, f.rooms, f.properties, cfg, cache.NewMemoryCache(otel), f.events, otel)

	return f
}

func staffContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "USR-001")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func guestContext(user string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, user)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleUser)
}

func TestBookingService_Create(t *testing.T) {
	checkIn := date.Today().AddDays(10)

	validRequest := dto.CreateBookingRequest{
		PropertyID: "PRP-001",
		RoomID:     "RM-101",
		GuestName:  "Ana Lima",
		GuestEmail: "ana@example.com",
		CheckIn:    checkIn,
		CheckOut:   checkIn.AddDays(3),
		Adults:     2,
	}

	approved := propertyModel.Property{ID: "PRP-001", ApprovalStatus: propertyModel.ApprovalApproved}
	room := roomModel.Room{ID: "RM-101", PropertyID: "PRP-001", Status: roomModel.StatusAvailable, PricePerNight: 120}

	tests := []struct {
		name      string
		req       func() dto.CreateBookingRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "successful creation",
			req:  func() dto.CreateBookingRequest { return validRequest },
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
				f.repo.EXPECT().InsertAvailable(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b model.Booking) error {
					assert.Equal(t, "RM-101", b.RoomID)
					assert.Equal(t, validRequest.CheckIn, b.CheckIn)
					assert.Equal(t, validRequest.CheckOut, b.CheckOut)
					assert.Equal(t, 3, b.Nights)
					assert.InDelta(t, 360.0, b.TotalAmount, 0.001)
					assert.Equal(t, model.StatusPending, b.Status)
					assert.Equal(t, "USR-001", b.UserID)

					return nil
				})
			},
		},
		{
			name: "check out before check in",
			req: func() dto.CreateBookingRequest {
				req := validRequest
				req.CheckOut = req.CheckIn

				return req
			},
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "property awaiting approval",
			req:  func() dto.CreateBookingRequest { return validRequest },
			setupMock: func(f fixture) {
				pending := approved
				pending.ApprovalStatus = propertyModel.ApprovalPending

				f.properties.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "room of another property",
			req:  func() dto.CreateBookingRequest { return validRequest },
			setupMock: func(f fixture) {
				other := room
				other.PropertyID = "PRP-002"

				f.properties.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(other, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "overlapping stay",
			req:  func() dto.CreateBookingRequest { return validRequest },
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
				f.repo.EXPECT().InsertAvailable(gomock.Any(), gomock.Any()).Return(failure.Conflict("booking conflicts with an existing booking"))
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "repository error",
			req:  func() dto.CreateBookingRequest { return validRequest },
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
				f.repo.EXPECT().InsertAvailable(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(staffContext(), tt.req())

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				assert.Empty(t, f.events.events)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "pending", res.Status)
			require.Len(t, f.events.events, 1)
			assert.Empty(t, f.events.events[0].From)
			assert.Equal(t, "pending", f.events.events[0].To)
		})
	}
}

func TestBookingService_Cancel(t *testing.T) {
	tests := []struct {
		name        string
		daysAhead   int
		payment     model.PaymentStatus
		wantPct     int
		wantAmount  float64
		wantPayment model.PaymentStatus
	}{
		{name: "paid more than a week ahead", daysAhead: 10, payment: model.PaymentPaid, wantPct: 100, wantAmount: 400, wantPayment: model.PaymentRefunded},
		{name: "paid five days ahead", daysAhead: 5, payment: model.PaymentPaid, wantPct: 50, wantAmount: 200, wantPayment: model.PaymentPartiallyRefunded},
		{name: "paid on the day", daysAhead: 0, payment: model.PaymentPaid, wantPct: 0, wantAmount: 0, wantPayment: model.PaymentPaid},
		{name: "unpaid", daysAhead: 10, payment: model.PaymentUnpaid, wantPct: 100, wantAmount: 0, wantPayment: model.PaymentUnpaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			booking := model.Booking{
				ID:            "BK-1001",
				UserID:        "USR-002",
				RoomID:        "RM-101",
				CheckIn:       date.Today().AddDays(tt.daysAhead),
				CheckOut:      date.Today().AddDays(tt.daysAhead + 2),
				Status:        model.StatusConfirmed,
				PaymentStatus: tt.payment,
				TotalAmount:   400,
			}

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])

				return nil
			})

			res, err := f.svc.Cancel(guestContext("USR-002"), "BK-1001")
			require.NoError(t, err)

			assert.Equal(t, "cancelled", res.Status)
			assert.Equal(t, tt.wantPct, res.RefundPercentage)
			assert.InDelta(t, tt.wantAmount, res.RefundAmount, 0.001)
			assert.Equal(t, string(tt.wantPayment), res.PaymentStatus)

			require.Len(t, f.events.events, 1)
			assert.Equal(t, "confirmed", f.events.events[0].From)
			assert.Equal(t, "cancelled", f.events.events[0].To)
		})
	}
}

func TestBookingService_Transitions(t *testing.T) {
	tests := []struct {
		name       string
		from       model.Status
		action     func(svc service.Booking, ctx context.Context) (dto.BookingResponse, error)
		roomStatus roomModel.Status
		wantCode   int
	}{
		{
			name:   "confirm pending",
			from:   model.StatusPending,
			action: func(svc service.Booking, ctx context.Context) (dto.BookingResponse, error) { return svc.Confirm(ctx, "BK-1") },
		},
		{
			name:       "check in confirmed occupies room",
			from:       model.StatusConfirmed,
			action:     func(svc service.Booking, ctx context.Context) (dto.BookingResponse, error) { return svc.CheckIn(ctx, "BK-1") },
			roomStatus: roomModel.StatusOccupied,
		},
		{
			name:       "check out frees room",
			from:       model.StatusCheckedIn,
			action:     func(svc service.Booking, ctx context.Context) (dto.BookingResponse, error) { return svc.CheckOut(ctx, "BK-1") },
			roomStatus: roomModel.StatusAvailable,
		},
		{
			name:     "check in pending is a conflict",
			from:     model.StatusPending,
			action:   func(svc service.Booking, ctx context.Context) (dto.BookingResponse, error) { return svc.CheckIn(ctx, "BK-1") },
			wantCode: http.StatusConflict,
		},
		{
			name:     "cancel checked out is a conflict",
			from:     model.StatusCheckedOut,
			action:   func(svc service.Booking, ctx context.Context) (dto.BookingResponse, error) { return svc.Cancel(ctx, "BK-1") },
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{ID: "BK-1", RoomID: "RM-101", Status: tt.from}, nil)

			if tt.wantCode == 0 {
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			}

			if tt.roomStatus != "" {
				f.rooms.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
					assert.Equal(t, tt.roomStatus, fields[roomModel.FieldStatus])

					return nil
				})
			}

			_, err := tt.action(f.svc, staffContext())

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			require.Len(t, f.events.events, 1)
			assert.Equal(t, string(tt.from), f.events.events[0].From)
		})
	}
}

func TestBookingService_GetOwnership(t *testing.T) {
	booking := model.Booking{ID: "BK-1", UserID: "USR-002", Status: model.StatusPending}

	t.Run("owner sees booking", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		res, err := f.svc.Get(guestContext("USR-002"), "BK-1")
		require.NoError(t, err)
		assert.Equal(t, "BK-1", res.ID)
	})

	t.Run("another guest is forbidden", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		_, err := f.svc.Get(guestContext("USR-003"), "BK-1")
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("missing booking", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.Get(staffContext(), "BK-404")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_RefundQuote(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{
		ID:            "BK-1",
		Status:        model.StatusConfirmed,
		PaymentStatus: model.PaymentPaid,
		CheckIn:       date.Today().AddDays(3),
		TotalAmount:   200,
	}, nil)

	quote, err := f.svc.RefundQuote(staffContext(), "BK-1")
	require.NoError(t, err)
	assert.Equal(t, 3, quote.DaysUntilCheckIn)
	assert.Equal(t, 25, quote.RefundPercentage)
	assert.InDelta(t, 50.0, quote.RefundAmount, 0.001)
}

func TestBookingService_Update(t *testing.T) {
	t.Run("empty request", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Update(staffContext(), dto.UpdateBookingRequest{}, "BK-1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("updates guest details", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{ID: "BK-1"}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			assert.Equal(t, "Bo Chen", fields[model.FieldGuestName])
			assert.NotContains(t, fields, model.FieldAdults)

			return nil
		})

		assert.NoError(t, f.svc.Update(staffContext(), dto.UpdateBookingRequest{GuestName: "Bo Chen"}, "BK-1"))
	})

	t.Run("payment of a cancelled booking", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{
			ID:            "BK-1",
			Status:        model.StatusCancelled,
			PaymentStatus: model.PaymentUnpaid,
		}, nil)

		err := f.svc.Update(staffContext(), dto.UpdateBookingRequest{PaymentStatus: model.PaymentPaid}, "BK-1")
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("guest details of a cancelled booking", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{ID: "BK-1", Status: model.StatusCancelled}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Update(staffContext(), dto.UpdateBookingRequest{GuestEmail: "bo@guest.example"}, "BK-1"))
	})
}

func TestBookingService_CheckInRoomFailure(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{ID: "BK-1", RoomID: "RM-101", Status: model.StatusConfirmed}, nil)

	gomock.InOrder(
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			assert.Equal(t, model.StatusCheckedIn, fields[model.FieldStatus])

			return nil
		}),
		f.rooms.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error")),
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			assert.Equal(t, model.StatusConfirmed, fields[model.FieldStatus])

			return nil
		}),
	)

	_, err := f.svc.CheckIn(staffContext(), "BK-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	assert.Empty(t, f.events.events)
}
