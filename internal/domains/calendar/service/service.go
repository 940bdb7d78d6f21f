package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"hostly/infras/otel"
	bookingModel "hostly/internal/domains/booking/model"
	bookingRepo "hostly/internal/domains/booking/repository"
	"hostly/internal/domains/calendar/model/dto"
	ownerRepo "hostly/internal/domains/owner/repository"
	propertyModel "hostly/internal/domains/property/model"
	propertyRepo "hostly/internal/domains/property/repository"
	"hostly/shared"
	"hostly/shared/constant"
	"hostly/shared/date"
	gDto "hostly/shared/dto"
	"hostly/shared/failure"

	"github.com/rs/zerolog/log"
)

type Calendar interface {
	Month(ctx context.Context, req dto.MonthRequest) (dto.MonthResponse, error)
}

type serviceImpl struct {
	bookingRepo  bookingRepo.Booking
	propertyRepo propertyRepo.Property
	ownerRepo    ownerRepo.Owner
	otel         otel.Otel
	today        func() date.Date
}

func New(bookingRepo bookingRepo.Booking, propertyRepo propertyRepo.Property, ownerRepo ownerRepo.Owner, otel otel.Otel) Calendar {
	return &serviceImpl{
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		ownerRepo:    ownerRepo,
		otel:         otel,
		today:        date.Today,
	}
}

func (s *serviceImpl) Month(ctx context.Context, req dto.MonthRequest) (res dto.MonthResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Month")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	today := s.today()

	year, month, err := req.Period(today)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	filter := monthFilter(year, month, req.PropertyID)

	if shared.CallerRole(ctx) == constant.RoleOwner {
		owned, err := s.ownedProperties(ctx)
		if err != nil {
			return res, err
		}

		if req.PropertyID != constant.Empty && !slices.Contains(owned, req.PropertyID) {
			return res, failure.ResourceRestrictedError
		}

		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "owned_property_id",
			Field:    bookingModel.FieldPropertyID,
			Operator: gDto.FilterOperatorIn,
			Value:    owned,
			Table:    bookingModel.TableName,
		})
	}

	params := gDto.QueryParams{SortBy: bookingModel.FieldCheckIn, SortDir: gDto.SortDirAsc}

	bookings, err := s.bookingRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for calendar")

		return res, fmt.Errorf("failed to get bookings for calendar: %w", err)
	}

	res.FromModel(BuildGrid(year, month, today, bookings, req.PropertyID))

	return res, nil
}

// ownedProperties lists the properties of the owner record linked to the caller's email.
// An account without an owner record owns nothing.
func (s *serviceImpl) ownedProperties(ctx context.Context) ([]string, error) {
	owner, err := ownerRepo.FindByAccount(ctx, s.ownerRepo, shared.CallerEmail(ctx))
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve owner for calendar")

		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}

	if owner.ID == constant.Empty {
		return []string{}, nil
	}

	properties, err := s.propertyRepo.GetAll(ctx, gDto.QueryParams{},
		shared.FilterByField(propertyModel.FieldOwnerID, owner.ID, propertyModel.TableName), propertyModel.FieldID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list owner properties")

		return nil, fmt.Errorf("failed to list owner properties: %w", err)
	}

	ids := make([]string, 0, len(properties))
	for _, property := range properties {
		ids = append(ids, property.ID)
	}

	return ids, nil
}

// monthFilter selects bookings that arrive, stay or depart within the month.
func monthFilter(year int, month time.Month, propertyID string) gDto.FilterGroup {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldCheckIn, Operator: gDto.FilterOperatorLessEq, Value: date.LastOfMonth(year, month), Table: bookingModel.TableName},
			gDto.Filter{Field: bookingModel.FieldCheckOut, Operator: gDto.FilterOperatorGreaterEq, Value: date.FirstOfMonth(year, month), Table: bookingModel.TableName},
		},
	}

	if propertyID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    bookingModel.FieldPropertyID,
			Operator: gDto.FilterOperatorEq,
			Value:    propertyID,
			Table:    bookingModel.TableName,
		})
	}

	return filter
}
