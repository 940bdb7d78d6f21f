package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"hostly/config"
	"hostly/infras/otel"
	"hostly/infras/s3"
	"hostly/internal/domains/owner/model"
	"hostly/internal/domains/owner/model/dto"
	"hostly/internal/domains/owner/repository"
	"hostly/shared"
	"hostly/shared/cache"
	"hostly/shared/constant"
	gDto "hostly/shared/dto"
	"hostly/shared/failure"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetOwner    = "owner:get"
	cacheGetAllOwner = "owner:gets"
	cacheCountOwner  = "owner:count"
)

type Owner interface {
	Create(ctx context.Context, req dto.CreateOwnerRequest) (dto.OwnerResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetOwnersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.OwnerResponse, error)

	SubmitDocuments(ctx context.Context, req dto.SubmitDocumentsRequest, id string) (dto.OwnerResponse, error)
	Verify(ctx context.Context, id string) error
	Reject(ctx context.Context, req dto.RejectOwnerRequest, id string) error
}

type serviceImpl struct {
	repo  repository.Owner
	cfg   *config.Config
	cache cache.Cache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Owner, cfg *config.Config, cache cache.Cache, otel otel.Otel, s3 s3.S3) Owner {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateOwnerRequest) (res dto.OwnerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	owner := req.ToModel(user)

	if err = authorize(ctx, owner.Email); err != nil {
		return res, err
	}

	exist, err := s.repo.Exist(ctx, shared.FilterByField(model.FieldEmail, owner.Email, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check owner email")

		return res, fmt.Errorf("failed to check owner email: %w", err)
	}

	if exist {
		return res, failure.Conflict("an owner with this email already exists") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, owner); err != nil {
		log.Error().Err(err).Msg("failed to create owner")

		return res, fmt.Errorf("failed to create owner: %w", err)
	}

	s.invalidate(ctx, constant.Empty)

	res.FromModel(owner)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetOwnersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllOwner, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for owners")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count owners")

		return res, fmt.Errorf("failed to count owners: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get owners")

		return res, fmt.Errorf("failed to get owners: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save owners to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountOwner, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count owners")

		return res, fmt.Errorf("failed to count owners: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save owner count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.OwnerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetOwner, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for owner")

		if err = authorize(ctx, res.Email); err != nil {
			return dto.OwnerResponse{}, err
		}

		return res, nil
	}

	owner, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = authorize(ctx, owner.Email); err != nil {
		return res, err
	}

	res.FromModel(owner)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save owner to cache")
		}
	}()

	return res, nil
}

// authorize limits owner accounts to the owner record registered under their own email.
// Staff callers are not restricted.
func authorize(ctx context.Context, email string) error {
	if shared.CallerRole(ctx) != constant.RoleOwner {
		return nil
	}

	if caller := shared.CallerEmail(ctx); caller == constant.Empty || !strings.EqualFold(caller, email) {
		return failure.ResourceRestrictedError
	}

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Owner, error) {
	owner, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get owner")

		return owner, fmt.Errorf("failed to get owner: %w", err)
	}

	if owner.ID == constant.Empty {
		return owner, failure.NotFound("owner not found") // nolint:wrapcheck
	}

	return owner, nil
}

// SubmitDocuments stores the owner's verification document and puts the owner back in the review queue.
func (s *serviceImpl) SubmitDocuments(ctx context.Context, req dto.SubmitDocumentsRequest, id string) (res dto.OwnerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SubmitDocuments")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = authorize(ctx, owner.Email); err != nil {
		return res, err
	}

	if owner.VerificationStatus == model.VerificationVerified {
		return res, failure.Conflict("owner is already verified") // nolint:wrapcheck
	}

	filename := fmt.Sprintf("%s-%s%s", owner.ID, uuid.NewString(), path.Ext(req.Document.Filename))

	url, err := s.s3.UploadFile(ctx, model.DocumentDirectory, req.DocumentFile, req.Document, filename)
	if err != nil {
		log.Error().Err(err).Str("owner_id", owner.ID).Msg("failed to upload owner document")

		if errors.Is(err, s3.ErrDisabled) {
			return res, failure.ServiceUnavailable("document storage is not available") // nolint:wrapcheck
		}

		return res, fmt.Errorf("failed to upload document: %w", err)
	}

	fields := s.fields(ctx, map[string]any{
		model.FieldDocumentsSubmitted: true,
		model.FieldDocumentURL:        url,
		model.FieldVerificationStatus: model.VerificationPending,
		model.FieldRejectionReason:    nil,
	})

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update owner documents")

		if err := s.s3.DeleteFile(ctx, model.DocumentDirectory, filename); err != nil {
			log.Warn().Err(err).Str("file", filename).Msg("failed to clean up uploaded document")
		}

		return res, fmt.Errorf("failed to update owner documents: %w", err)
	}

	if owner.DocumentURL != nil {
		if previous := s.s3.GetObjectNameFromURL(model.DocumentDirectory, *owner.DocumentURL); previous != constant.Empty {
			if err := s.s3.DeleteFile(ctx, model.DocumentDirectory, previous); err != nil {
				log.Warn().Err(err).Str("file", previous).Msg("failed to delete previous document")
			}
		}
	}

	s.invalidate(ctx, id)

	owner.DocumentsSubmitted = true
	owner.DocumentURL = &url
	owner.VerificationStatus = model.VerificationPending
	owner.RejectionReason = nil

	res.FromModel(owner)

	return res, nil
}

func (s *serviceImpl) Verify(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Verify")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if owner.VerificationStatus == model.VerificationVerified {
		return failure.Conflict("owner is already verified") // nolint:wrapcheck
	}

	if !owner.DocumentsSubmitted {
		return failure.BadRequestFromString("owner has not submitted documents") // nolint:wrapcheck
	}

	return s.update(ctx, id, s.fields(ctx, map[string]any{
		model.FieldVerificationStatus: model.VerificationVerified,
		model.FieldRejectionReason:    nil,
	}))
}

func (s *serviceImpl) Reject(ctx context.Context, req dto.RejectOwnerRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reject")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if owner.VerificationStatus == model.VerificationRejected {
		return failure.Conflict("owner is already rejected") // nolint:wrapcheck
	}

	return s.update(ctx, id, s.fields(ctx, map[string]any{
		model.FieldVerificationStatus: model.VerificationRejected,
		model.FieldRejectionReason:    req.Reason,
	}))
}

func (s *serviceImpl) fields(ctx context.Context, fields map[string]any) map[string]any {
	return shared.Touch(ctx, fields)
}

func (s *serviceImpl) update(ctx context.Context, id string, fields map[string]any) error {
	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update owner")

		return fmt.Errorf("failed to update owner: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetOwner, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete owner from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllOwner)
		shared.InvalidateCaches(c, s.cache, cacheCountOwner)
	}()
}
