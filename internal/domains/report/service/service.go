package service

import (
	"context"
	"fmt"

	"hostly/config"
	"hostly/infras/otel"
	bookingModel "hostly/internal/domains/booking/model"
	bookingRepo "hostly/internal/domains/booking/repository"
	ownerModel "hostly/internal/domains/owner/model"
	ownerRepo "hostly/internal/domains/owner/repository"
	propertyModel "hostly/internal/domains/property/model"
	propertyRepo "hostly/internal/domains/property/repository"
	"hostly/internal/domains/report/model"
	"hostly/internal/domains/report/model/dto"
	roomModel "hostly/internal/domains/room/model"
	roomRepo "hostly/internal/domains/room/repository"
	"hostly/shared"
	"hostly/shared/cache"
	"hostly/shared/constant"
	gDto "hostly/shared/dto"
	"hostly/shared/event"
	"hostly/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheReport           = "report"
	cacheReportDashboard  = cacheReport + ":dashboard"
	cacheReportProperties = cacheReport + ":properties"
)

type Report interface {
	Dashboard(ctx context.Context, filter dto.ReportFilter) (dto.DashboardResponse, error)
	Properties(ctx context.Context, filter dto.ReportFilter) (dto.PropertiesResponse, error)
	Export(ctx context.Context, filter dto.ReportFilter) (dto.ExportResponse, error)
	// Invalidate drops every cached report. It has the shape of an event.Handler.
	Invalidate(ctx context.Context, changed event.BookingStatusChanged) error
}

type serviceImpl struct {
	bookingRepo  bookingRepo.Booking
	propertyRepo propertyRepo.Property
	roomRepo     roomRepo.Room
	ownerRepo    ownerRepo.Owner
	cfg          *config.Config
	cache        cache.Cache
	otel         otel.Otel
}

func New(
	bookingRepo bookingRepo.Booking,
	propertyRepo propertyRepo.Property,
	roomRepo roomRepo.Room,
	ownerRepo ownerRepo.Owner,
	cfg *config.Config,
	cache cache.Cache,
	otel otel.Otel,
) Report {
	return &serviceImpl{
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		roomRepo:     roomRepo,
		ownerRepo:    ownerRepo,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Dashboard(ctx context.Context, filter dto.ReportFilter) (res dto.DashboardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Dashboard")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheReportDashboard, filter.From, filter.To, filter.PropertyID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for dashboard report")

		return res, nil
	}

	data, err := s.load(ctx, filter)
	if err != nil {
		return res, err
	}

	lines := Lines(data.bookings, data.properties, data.rooms, s.cfg.App.DefaultCommissionRate)
	res.FromModel(Summarize(data.rng, data.bookings, data.properties, data.rooms, lines, data.pendingOwners), s.cfg.App.Currency)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Properties(ctx context.Context, filter dto.ReportFilter) (res dto.PropertiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Properties")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheReportProperties, filter.From, filter.To, filter.PropertyID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for property report")

		return res, nil
	}

	data, err := s.load(ctx, filter)
	if err != nil {
		return res, err
	}

	res.FromModels(Lines(data.bookings, data.properties, data.rooms, s.cfg.App.DefaultCommissionRate), s.cfg.App.Currency)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Export(ctx context.Context, filter dto.ReportFilter) (res dto.ExportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Export")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	data, err := s.load(ctx, filter)
	if err != nil {
		return res, err
	}

	lines := Lines(data.bookings, data.properties, data.rooms, s.cfg.App.DefaultCommissionRate)
	summary := Summarize(data.rng, data.bookings, data.properties, data.rooms, lines, data.pendingOwners)

	content, err := workbook(summary, lines, s.cfg.App.Currency)
	if err != nil {
		log.Error().Err(err).Msg("failed to build report workbook")

		return res, fmt.Errorf("failed to build report workbook: %w", err)
	}

	res.FileName = exportFileName(data.rng)
	res.Content = content

	return res, nil
}

func (s *serviceImpl) Invalidate(ctx context.Context, changed event.BookingStatusChanged) error {
	log.Debug().Str("booking_id", changed.BookingID).Msg("invalidating report caches")

	if err := s.cache.Clear(ctx, cacheReport+constant.Asterix); err != nil {
		return fmt.Errorf("failed to invalidate report caches: %w", err)
	}

	return nil
}

func (s *serviceImpl) load(ctx context.Context, filter dto.ReportFilter) (data dataset, err error) {
	data.rng, err = filter.ToModel()
	if err != nil {
		return data, failure.BadRequest(err) // nolint:wrapcheck
	}

	data.bookings, err = s.bookingRepo.GetAll(ctx, gDto.QueryParams{}, bookingFilter(data.rng))
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for report")

		return data, fmt.Errorf("failed to get bookings for report: %w", err)
	}

	data.properties, err = s.propertyRepo.GetAll(ctx, gDto.QueryParams{}, optional(propertyModel.FieldID, data.rng.PropertyID, propertyModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get properties for report")

		return data, fmt.Errorf("failed to get properties for report: %w", err)
	}

	data.rooms, err = s.roomRepo.GetAll(ctx, gDto.QueryParams{}, optional(roomModel.FieldPropertyID, data.rng.PropertyID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms for report")

		return data, fmt.Errorf("failed to get rooms for report: %w", err)
	}

	data.pendingOwners, err = s.ownerRepo.Count(ctx, shared.FilterByField(ownerModel.FieldVerificationStatus, ownerModel.VerificationPending, ownerModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to count pending owners")

		return data, fmt.Errorf("failed to count pending owners: %w", err)
	}

	return data, nil
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save report to cache")
		}
	}()
}

// bookingFilter matches bookings checking in within the range, optionally for one property.
func bookingFilter(rng model.Range) gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if !rng.From.IsZero() {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "check_in_from",
			Field:    bookingModel.FieldCheckIn,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    rng.From,
			Table:    bookingModel.TableName,
		})
	}

	if !rng.To.IsZero() {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "check_in_to",
			Field:    bookingModel.FieldCheckIn,
			Operator: gDto.FilterOperatorLessEq,
			Value:    rng.To,
			Table:    bookingModel.TableName,
		})
	}

	if rng.PropertyID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    bookingModel.FieldPropertyID,
			Operator: gDto.FilterOperatorEq,
			Value:    rng.PropertyID,
			Table:    bookingModel.TableName,
		})
	}

	return filter
}

func optional(field, value, table string) gDto.FilterGroup {
	if value == constant.Empty {
		return gDto.FilterGroup{}
	}

	return shared.FilterByField(field, value, table)
}
