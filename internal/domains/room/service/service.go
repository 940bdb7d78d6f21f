package service

import (
	"context"
	"fmt"

	"hostly/config"
	"hostly/infras/otel"
	ownerRepo "hostly/internal/domains/owner/repository"
	propertyModel "hostly/internal/domains/property/model"
	propertyRepo "hostly/internal/domains/property/repository"
	"hostly/internal/domains/room/model"
	"hostly/internal/domains/room/model/dto"
	"hostly/internal/domains/room/repository"
	"hostly/shared"
	"hostly/shared/cache"
	"hostly/shared/constant"
	gDto "hostly/shared/dto"
	"hostly/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) (dto.RoomResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateRoomStatusRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo         repository.Room
	propertyRepo propertyRepo.Property
	ownerRepo    ownerRepo.Owner
	cfg          *config.Config
	cache        cache.Cache
	otel         otel.Otel
}

func New(repo repository.Room, propertyRepo propertyRepo.Property, ownerRepo ownerRepo.Owner, cfg *config.Config, cache cache.Cache, otel otel.Otel) Room {
	return &serviceImpl{
		repo:         repo,
		propertyRepo: propertyRepo,
		ownerRepo:    ownerRepo,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exist, err := s.propertyRepo.Exist(ctx, shared.FilterByID(req.PropertyID, propertyModel.FieldID, propertyModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if property exists")

		return res, fmt.Errorf("failed to check if property exists: %w", err)
	}

	if !exist {
		return res, failure.BadRequestFromString("property does not exist") // nolint:wrapcheck
	}

	if err = s.authorize(ctx, req.PropertyID); err != nil {
		return res, err
	}

	duplicate, err := s.repo.Exist(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldPropertyID, Operator: gDto.FilterOperatorEq, Value: req.PropertyID, Table: model.TableName},
			gDto.Filter{Field: model.FieldNumber, Operator: gDto.FilterOperatorEq, Value: req.Number, Table: model.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check room number")

		return res, fmt.Errorf("failed to check room number: %w", err)
	}

	if duplicate {
		return res, failure.Conflict(fmt.Sprintf("room %s already exists in this property", req.Number)) // nolint:wrapcheck
	}

	room := req.ToModel(user)

	if err = s.repo.Insert(ctx, room); err != nil {
		log.Error().Err(err).Msg("failed to create room")

		return res, fmt.Errorf("failed to create room: %w", err)
	}

	s.invalidate(ctx, constant.Empty)

	res.FromModel(room)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateRoomRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return s.update(ctx, id, shared.TransformFields(req, user))
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateRoomStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.update(ctx, id, shared.Touch(ctx, map[string]any{
		model.FieldStatus: req.Status,
	}))
}

func (s *serviceImpl) update(ctx context.Context, id string, fields map[string]any) error {
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if shared.CallerRole(ctx) == constant.RoleOwner {
		room, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldPropertyID)
		if err != nil {
			log.Error().Err(err).Msg("failed to get room")

			return fmt.Errorf("failed to get room: %w", err)
		}

		if room.ID == constant.Empty {
			return failure.NotFound("room not found") // nolint:wrapcheck
		}

		if err = s.authorize(ctx, room.PropertyID); err != nil {
			return err
		}
	}

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update room")

		return fmt.Errorf("failed to update room: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// authorize limits owner accounts to rooms of properties they own, matched through the
// owner record linked to their email.
func (s *serviceImpl) authorize(ctx context.Context, propertyID string) error {
	if shared.CallerRole(ctx) != constant.RoleOwner {
		return nil
	}

	owner, err := ownerRepo.FindByAccount(ctx, s.ownerRepo, shared.CallerEmail(ctx))
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve caller's owner record")

		return fmt.Errorf("failed to resolve owner: %w", err)
	}

	if owner.ID == constant.Empty {
		return failure.ResourceRestrictedError
	}

	owned, err := s.propertyRepo.Exist(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: propertyModel.FieldID, Operator: gDto.FilterOperatorEq, Value: propertyID, Table: propertyModel.TableName},
			gDto.Filter{Field: propertyModel.FieldOwnerID, Operator: gDto.FilterOperatorEq, Value: owner.ID, Table: propertyModel.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check property ownership")

		return fmt.Errorf("failed to check property ownership: %w", err)
	}

	if !owned {
		return failure.ResourceRestrictedError
	}

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete room from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()
}
