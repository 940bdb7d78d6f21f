package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hostly/infras/otel/mocks"
	bookingMocks "hostly/internal/domains/booking/mocks"
	bookingModel "hostly/internal/domains/booking/model"
	"hostly/internal/domains/calendar/model/dto"
	"hostly/internal/domains/calendar/service"
	ownerMocks "hostly/internal/domains/owner/mocks"
	ownerModel "hostly/internal/domains/owner/model"
	propertyMocks "hostly/internal/domains/property/mocks"
	propertyModel "hostly/internal/domains/property/model"
	"hostly/shared/constant"
	gDto "hostly/shared/dto"
	"hostly/shared/failure"
)

func TestCalendarService_Month(t *testing.T) {
	t.Run("builds the requested month", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := bookingMocks.NewMockBooking(ctrl)
		svc := service.New(repo, propertyMocks.NewMockProperty(ctrl), ownerMocks.NewMockOwner(ctrl), mocks.NewOtel())

		repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]bookingModel.Booking, error) {
				assert.Equal(t, bookingModel.FieldCheckIn, params.SortBy)
				assert.Len(t, filter.Filters, 3)

				return []bookingModel.Booking{booking("BK-1", "PROP-1", "2024-02-10", "2024-02-13", bookingModel.StatusConfirmed)}, nil
			})

		res, err := svc.Month(context.Background(), dto.MonthRequest{Month: "2024-02", PropertyID: "PROP-1"})
		require.NoError(t, err)

		assert.Equal(t, "2024-02", res.Month)
		assert.Equal(t, 4, res.LeadingBlanks)
		assert.Len(t, res.Cells, 33)
		assert.Nil(t, res.Cells[0].Date)

		tenth := res.Cells[4+9]
		require.NotNil(t, tenth.Date)
		assert.Equal(t, "2024-02-10", *tenth.Date)
		require.Len(t, tenth.CheckIns, 1)
		assert.Equal(t, "BK-1", tenth.CheckIns[0].ID)
		assert.Len(t, res.Cells[4+10].Staying, 1)
	})

	t.Run("malformed month", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := service.New(bookingMocks.NewMockBooking(ctrl), propertyMocks.NewMockProperty(ctrl), ownerMocks.NewMockOwner(ctrl), mocks.NewOtel())

		_, err := svc.Month(context.Background(), dto.MonthRequest{Month: "2024-13"})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("repository error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := bookingMocks.NewMockBooking(ctrl)
		svc := service.New(repo, propertyMocks.NewMockProperty(ctrl), ownerMocks.NewMockOwner(ctrl), mocks.NewOtel())

		repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))

		_, err := svc.Month(context.Background(), dto.MonthRequest{Month: "2024-02"})
		assert.Error(t, err)
	})
}

func ownerContext(email string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserRole, constant.RoleOwner)

	return context.WithValue(ctx, constant.ContextKeyUserEmail, email)
}

func TestCalendarService_MonthForOwner(t *testing.T) {
	type deps struct {
		bookings   *bookingMocks.MockBooking
		properties *propertyMocks.MockProperty
		owners     *ownerMocks.MockOwner
	}

	setup := func(t *testing.T) (deps, service.Calendar) {
		ctrl := gomock.NewController(t)
		d := deps{
			bookings:   bookingMocks.NewMockBooking(ctrl),
			properties: propertyMocks.NewMockProperty(ctrl),
			owners:     ownerMocks.NewMockOwner(ctrl),
		}

		return d, service.New(d.bookings, d.properties, d.owners, mocks.NewOtel())
	}

	owned := []propertyModel.Property{{ID: "PROP-001"}, {ID: "PROP-002"}}

	t.Run("limited to owned properties", func(t *testing.T) {
		d, svc := setup(t)

		d.owners.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownerModel.Owner{ID: "OWN-001", Email: "marta@seaside.example"}, nil)
		d.properties.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), propertyModel.FieldID).Return(owned, nil)
		d.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]bookingModel.Booking, error) {
				require.Len(t, filter.Filters, 3)

				scope := filter.Filters[2].(gDto.Filter)
				assert.Equal(t, gDto.FilterOperatorIn, scope.Operator)
				assert.Equal(t, []string{"PROP-001", "PROP-002"}, scope.Value)

				return nil, nil
			})

		_, err := svc.Month(ownerContext("marta@seaside.example"), dto.MonthRequest{Month: "2024-02"})
		require.NoError(t, err)
	})

	t.Run("property of another owner", func(t *testing.T) {
		d, svc := setup(t)

		d.owners.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownerModel.Owner{ID: "OWN-001"}, nil)
		d.properties.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), propertyModel.FieldID).Return(owned, nil)

		_, err := svc.Month(ownerContext("marta@seaside.example"), dto.MonthRequest{Month: "2024-02", PropertyID: "PROP-003"})
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("account without an owner record sees nothing", func(t *testing.T) {
		d, svc := setup(t)

		d.owners.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownerModel.Owner{}, nil)
		d.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]bookingModel.Booking, error) {
				scope := filter.Filters[len(filter.Filters)-1].(gDto.Filter)
				assert.Empty(t, scope.Value)

				return nil, nil
			})

		_, err := svc.Month(ownerContext("nobody@example.com"), dto.MonthRequest{Month: "2024-02"})
		require.NoError(t, err)
	})
}
