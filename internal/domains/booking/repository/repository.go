package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"hostly/infras/otel"
	"hostly/infras/postgres"
	"hostly/internal/domains/booking/model"
	"hostly/internal/seed"
	"hostly/shared/date"
	gDto "hostly/shared/dto"
	gRepo "hostly/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, booking model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	// InsertAvailable stores booking unless a live booking of the same room shares a night.
	InsertAvailable(ctx context.Context, booking model.Booking) error
}

type repositoryImpl struct {
	gRepo.Store[model.Booking]
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Store: gRepo.New(model.EntityName, model.TableName, model.FieldID, db, otel, seed.Bookings(date.Today())...),
	}
}

func (r *repositoryImpl) InsertAvailable(ctx context.Context, booking model.Booking) error {
	return r.InsertUnless(ctx, booking, overlapping(booking.RoomID, booking.CheckIn, booking.CheckOut))
}

// overlapping matches live bookings of roomID intersecting the half-open stay [checkIn, checkOut).
func overlapping(roomID string, checkIn, checkOut date.Date) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRoomID, Operator: gDto.FilterOperatorEq, Value: roomID, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorNotEq, Value: model.StatusCancelled, Table: model.TableName},
			gDto.Filter{Field: model.FieldCheckIn, Operator: gDto.FilterOperatorLessEq, Value: checkOut.AddDays(-1), Table: model.TableName},
			gDto.Filter{Field: model.FieldCheckOut, Operator: gDto.FilterOperatorGreaterEq, Value: checkIn.AddDays(1), Table: model.TableName},
		},
	}
}
