package service

import (
	"context"
	"fmt"

	"hostly/config"
	"hostly/infras/otel"
	ownerModel "hostly/internal/domains/owner/model"
	ownerRepo "hostly/internal/domains/owner/repository"
	"hostly/internal/domains/property/model"
	"hostly/internal/domains/property/model/dto"
	"hostly/internal/domains/property/repository"
	roomModel "hostly/internal/domains/room/model"
	roomRepo "hostly/internal/domains/room/repository"
	"hostly/shared"
	"hostly/shared/cache"
	"hostly/shared/constant"
	gDto "hostly/shared/dto"
	"hostly/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetProperty    = "property:get"
	cacheGetAllProperty = "property:gets"
	cacheCountProperty  = "property:count"
)

type Property interface {
	Create(ctx context.Context, req dto.CreatePropertyRequest) (dto.PropertyResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPropertiesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.PropertyResponse, error)
	Update(ctx context.Context, req dto.UpdatePropertyRequest, id string) error
	Delete(ctx context.Context, id string) error

	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, req dto.RejectPropertyRequest, id string) error
	UpdateCommission(ctx context.Context, req dto.UpdateCommissionRequest, id string) error
}

type serviceImpl struct {
	repo      repository.Property
	ownerRepo ownerRepo.Owner
	roomRepo  roomRepo.Room
	cfg       *config.Config
	cache     cache.Cache
	otel      otel.Otel
}

func New(repo repository.Property, ownerRepo ownerRepo.Owner, roomRepo roomRepo.Room, cfg *config.Config, cache cache.Cache, otel otel.Otel) Property {
	return &serviceImpl{
		repo:      repo,
		ownerRepo: ownerRepo,
		roomRepo:  roomRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePropertyRequest) (res dto.PropertyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exist, err := s.ownerRepo.Exist(ctx, shared.FilterByID(req.OwnerID, ownerModel.FieldID, ownerModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if owner exists")

		return res, fmt.Errorf("failed to check if owner exists: %w", err)
	}

	if !exist {
		return res, failure.BadRequestFromString("owner does not exist") // nolint:wrapcheck
	}

	if err = s.authorize(ctx, req.OwnerID); err != nil {
		return res, err
	}

	property := req.ToModel(user, s.cfg.App.DefaultCommissionRate)

	if err = s.repo.Insert(ctx, property); err != nil {
		log.Error().Err(err).Msg("failed to create property")

		return res, fmt.Errorf("failed to create property: %w", err)
	}

	s.invalidate(ctx, constant.Empty)

	res.FromModel(property)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPropertiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllProperty, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for properties")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count properties")

		return res, fmt.Errorf("failed to count properties: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get properties")

		return res, fmt.Errorf("failed to get properties: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save properties to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountProperty, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count properties")

		return res, fmt.Errorf("failed to count properties: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save property count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PropertyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetProperty, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for property")

		return res, nil
	}

	property, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(property)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save property to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Property, error) {
	property, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return property, fmt.Errorf("failed to get property: %w", err)
	}

	if property.ID == constant.Empty {
		return property, failure.NotFound("property not found") // nolint:wrapcheck
	}

	return property, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdatePropertyRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdatePropertyRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	property, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.authorize(ctx, property.OwnerID); err != nil {
		return err
	}

	return s.update(ctx, id, shared.TransformFields(req, user))
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	hasRooms, err := s.roomRepo.Exist(ctx, shared.FilterByField(roomModel.FieldPropertyID, id, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check property rooms")

		return fmt.Errorf("failed to check property rooms: %w", err)
	}

	if hasRooms {
		return failure.Conflict("property still has rooms") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete property")

		return fmt.Errorf("failed to delete property: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Approve(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Approve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	property, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if property.IsApproved() {
		return failure.Conflict("property is already approved") // nolint:wrapcheck
	}

	return s.update(ctx, id, s.fields(ctx, map[string]any{
		model.FieldApprovalStatus:  model.ApprovalApproved,
		model.FieldRejectionReason: nil,
	}))
}

func (s *serviceImpl) Reject(ctx context.Context, req dto.RejectPropertyRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reject")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	property, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if property.ApprovalStatus == model.ApprovalRejected {
		return failure.Conflict("property is already rejected") // nolint:wrapcheck
	}

	return s.update(ctx, id, s.fields(ctx, map[string]any{
		model.FieldApprovalStatus:  model.ApprovalRejected,
		model.FieldRejectionReason: req.Reason,
	}))
}

// UpdateCommission sets the platform's share of the property's booking revenue.
func (s *serviceImpl) UpdateCommission(ctx context.Context, req dto.UpdateCommissionRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateCommission")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.CommissionRate == nil || *req.CommissionRate < model.MinCommissionRate || *req.CommissionRate > model.MaxCommissionRate {
		return failure.BadRequestFromString(fmt.Sprintf("commission_rate must be between %d and %d", model.MinCommissionRate, model.MaxCommissionRate)) // nolint:wrapcheck
	}

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	return s.update(ctx, id, s.fields(ctx, map[string]any{
		model.FieldCommissionRate: shared.RoundMoney(*req.CommissionRate),
	}))
}

// authorize limits owner accounts to properties of the owner record linked to their email.
func (s *serviceImpl) authorize(ctx context.Context, ownerID string) error {
	if shared.CallerRole(ctx) != constant.RoleOwner {
		return nil
	}

	owner, err := ownerRepo.FindByAccount(ctx, s.ownerRepo, shared.CallerEmail(ctx))
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve caller's owner record")

		return fmt.Errorf("failed to resolve owner: %w", err)
	}

	if owner.ID == constant.Empty || owner.ID != ownerID {
		return failure.ResourceRestrictedError
	}

	return nil
}

func (s *serviceImpl) fields(ctx context.Context, fields map[string]any) map[string]any {
	return shared.Touch(ctx, fields)
}

func (s *serviceImpl) update(ctx context.Context, id string, fields map[string]any) error {
	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update property")

		return fmt.Errorf("failed to update property: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetProperty, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete property from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllProperty)
		shared.InvalidateCaches(c, s.cache, cacheCountProperty)
	}()
}
