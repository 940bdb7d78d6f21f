package service

import (
	"context"
	"fmt"
	"net/http"

	"hostly/config"
	"hostly/infras/otel"
	"hostly/internal/domains/booking/model"
	"hostly/internal/domains/booking/model/dto"
	"hostly/internal/domains/booking/repository"
	propertyModel "hostly/internal/domains/property/model"
	propertyRepo "hostly/internal/domains/property/repository"
	roomModel "hostly/internal/domains/room/model"
	roomRepo "hostly/internal/domains/room/repository"
	"hostly/shared"
	"hostly/shared/cache"
	"hostly/shared/constant"
	"hostly/shared/date"
	gDto "hostly/shared/dto"
	"hostly/shared/event"
	"hostly/shared/failure"
	"hostly/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Delete(ctx context.Context, id string) error

	Confirm(ctx context.Context, id string) (dto.BookingResponse, error)
	CheckIn(ctx context.Context, id string) (dto.BookingResponse, error)
	CheckOut(ctx context.Context, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
	RefundQuote(ctx context.Context, id string) (dto.RefundQuoteResponse, error)
}

type serviceImpl struct {
	repo         repository.Booking
	roomRepo     roomRepo.Room
	propertyRepo propertyRepo.Property
	cfg          *config.Config
	cache        cache.Cache
	events       event.Publisher
	otel         otel.Otel
}

func New(repo repository.Booking, roomRepo roomRepo.Room, propertyRepo propertyRepo.Property, cfg *config.Config, cache cache.Cache, events event.Publisher, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:         repo,
		roomRepo:     roomRepo,
		propertyRepo: propertyRepo,
		cfg:          cfg,
		cache:        cache,
		events:       events,
		otel:         otel,
	}
}

func isStaff(ctx context.Context) bool {
	role := shared.CallerRole(ctx)

	return role == constant.RoleSuperAdmin || role == constant.RoleAdmin
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if !req.CheckOut.After(req.CheckIn) {
		return res, failure.BadRequestFromString("check_out must be after check_in") // nolint:wrapcheck
	}

	if req.CheckIn.Before(date.Today()) {
		return res, failure.BadRequestFromString("check_in cannot be in the past") // nolint:wrapcheck
	}

	property, err := s.propertyRepo.Get(ctx, shared.FilterByID(req.PropertyID, propertyModel.FieldID, propertyModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return res, fmt.Errorf("failed to get property: %w", err)
	}

	if property.ID == constant.Empty {
		return res, failure.BadRequestFromString("property does not exist") // nolint:wrapcheck
	}

	if !property.IsApproved() {
		return res, failure.BadRequestFromString("property is not accepting bookings") // nolint:wrapcheck
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty || room.PropertyID != property.ID {
		return res, failure.BadRequestFromString("room does not exist in this property") // nolint:wrapcheck
	}

	if room.Status == roomModel.StatusMaintenance {
		return res, failure.Conflict("room is under maintenance") // nolint:wrapcheck
	}

	booking := req.ToModel(user, room.PricePerNight)

	if err = s.repo.InsertAvailable(ctx, booking); err != nil {
		if failure.GetCode(err) == http.StatusConflict {
			return res, failure.Conflict("room is already booked for these dates") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publish(ctx, booking, "", user)
	s.invalidate(ctx, constant.Empty)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		if !s.canAccess(ctx, res.UserID) {
			return dto.BookingResponse{}, failure.ResourceRestrictedError
		}

		return res, nil
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// find loads a booking and enforces that non-staff callers only see their own.
func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if !s.canAccess(ctx, booking.UserID) {
		return model.Booking{}, failure.ResourceRestrictedError
	}

	return booking, nil
}

func (s *serviceImpl) canAccess(ctx context.Context, owner string) bool {
	if isStaff(ctx) {
		return true
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return owner != constant.Empty && owner == user
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateBookingRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if req.PaymentStatus != "" && booking.Status == model.StatusCancelled {
		return failure.Conflict("payment of a cancelled booking is settled by its refund") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Confirm(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, model.StatusConfirmed, nil)
}

func (s *serviceImpl) CheckIn(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, model.StatusCheckedIn, func(ctx context.Context, booking model.Booking) error {
		return s.setRoomStatus(ctx, booking.RoomID, roomModel.StatusOccupied)
	})
}

func (s *serviceImpl) CheckOut(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOut")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, model.StatusCheckedOut, func(ctx context.Context, booking model.Booking) error {
		return s.setRoomStatus(ctx, booking.RoomID, roomModel.StatusAvailable)
	})
}

func (s *serviceImpl) RefundQuote(ctx context.Context, id string) (res dto.RefundQuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefundQuote")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if !model.CanTransition(booking.Status, model.StatusCancelled) {
		return res, failure.Conflict(fmt.Sprintf("a %s booking cannot be cancelled", booking.Status)) // nolint:wrapcheck
	}

	return dto.NewRefundQuote(booking, date.Today()), nil
}

// Cancel records the refund owed under the cancellation policy and marks the payment accordingly.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, model.StatusCancelled, nil)
}

func (s *serviceImpl) transition(ctx context.Context, id string, to model.Status, after func(ctx context.Context, booking model.Booking) error) (res dto.BookingResponse, err error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	from := booking.Status
	if !model.CanTransition(from, to) {
		return res, failure.Conflict(fmt.Sprintf("cannot move booking from %s to %s", from, to)) // nolint:wrapcheck
	}

	change := dto.StatusTransition{Status: to}

	if to == model.StatusCancelled {
		quote := dto.NewRefundQuote(booking, date.Today())

		change.RefundPercentage = quote.RefundPercentage
		change.RefundAmount = quote.RefundAmount
		change.PaymentStatus = model.RefundedPaymentStatus(booking.PaymentStatus, quote.RefundPercentage)
	}

	updatedFields := shared.TransformFields(change, user)
	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("to", string(to)).Msg("failed to update booking status")

		return res, fmt.Errorf("failed to update booking status: %w", err)
	}

	booking.Status = to
	if to == model.StatusCancelled {
		booking.RefundPercentage = change.RefundPercentage
		booking.RefundAmount = change.RefundAmount
		booking.PaymentStatus = change.PaymentStatus
	}

	if after != nil {
		if err = after(ctx, booking); err != nil {
			log.Error().Err(err).Str("booking_id", id).Str("to", string(to)).Msg("room update failed, reverting booking status")

			s.revert(ctx, id, from, user)

			return res, fmt.Errorf("failed to update room of booking %s: %w", id, err)
		}
	}

	s.publish(ctx, booking, from, user)
	s.invalidate(ctx, id)

	res.FromModel(booking)

	return res, nil
}

// revert puts a booking back to its previous status after a failed room update, so the two
// never disagree. Only check-in and check-out have room follow-ups, and neither touches payment.
func (s *serviceImpl) revert(ctx context.Context, id string, from model.Status, user string) {
	fields := shared.TransformFields(dto.StatusTransition{Status: from}, user)

	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("booking_id", id).Str("status", string(from)).Msg("failed to revert booking status")
	}
}

func (s *serviceImpl) setRoomStatus(ctx context.Context, roomID string, status roomModel.Status) error {
	fields := shared.Touch(ctx, map[string]any{
		roomModel.FieldStatus: status,
	})

	if err := s.roomRepo.Update(ctx, fields, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName)); err != nil {
		return fmt.Errorf("failed to update room status: %w", err)
	}

	return nil
}

func (s *serviceImpl) publish(ctx context.Context, booking model.Booking, from model.Status, user string) {
	err := s.events.PublishBookingStatusChanged(ctx, event.BookingStatusChanged{
		BookingID:        booking.ID,
		PropertyID:       booking.PropertyID,
		RoomID:           booking.RoomID,
		From:             string(from),
		To:               string(booking.Status),
		PaymentStatus:    string(booking.PaymentStatus),
		RefundPercentage: booking.RefundPercentage,
		RefundAmount:     booking.RefundAmount,
		ChangedBy:        user,
		ChangedAt:        timezone.Now(),
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to publish booking status change")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete booking from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}
