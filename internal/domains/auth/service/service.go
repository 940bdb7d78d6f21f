package service

import (
	"context"
	"fmt"
	"time"

	"hostly/config"
	"hostly/infras/jwt"
	"hostly/infras/otel"
	"hostly/internal/domains/auth/model/dto"
	userModel "hostly/internal/domains/user/model"
	userDto "hostly/internal/domains/user/model/dto"
	userRepo "hostly/internal/domains/user/repository"
	"hostly/shared"
	"hostly/shared/constant"
	"hostly/shared/failure"
	"hostly/shared/password"
	"hostly/shared/timezone"

	"github.com/rs/zerolog/log"
)

const invalidCredentials = "invalid email or password"

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (userDto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) error
	Logout(ctx context.Context, req dto.LogoutRequest) error
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
	revoked    jwt.Revocations
}

func New(userRepo userRepo.User, cfg *config.Config, otel otel.Otel, tokens jwt.JWT, revoked jwt.Revocations) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: tokens,
		revoked:    revoked,
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exists, err := s.userRepo.Exist(ctx, shared.FilterByField(userModel.FieldEmail, req.Email, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return res, failure.Conflict("email already registered") // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToUserModel(constant.ContextGuest, hashedPassword)

	if err = s.userRepo.Insert(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	emailFilter := shared.FilterByField(userModel.FieldEmail, req.Email, userModel.TableName)

	user, err := s.userRepo.Get(ctx, emailFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		log.Warn().Str("email", req.Email).Msg("login attempt with unknown email")

		return res, failure.BadRequestFromString(invalidCredentials) // nolint:wrapcheck
	}

	if err := password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.BadRequestFromString(invalidCredentials) // nolint:wrapcheck
	}

	if !user.Active {
		return res, failure.Forbidden("user account is deactivated") // nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Level)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	now := timezone.Now()
	lastLogin := shared.TransformFields(dto.UpdateLastLoginRequest{LastLogin: now}, user.ID)

	if password.NeedsRehash(user.Password) {
		if hashed, err := password.Hash(req.Password); err == nil {
			lastLogin[userModel.FieldPassword] = hashed
		}
	}

	if err := s.userRepo.Update(ctx, lastLogin, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	} else {
		user.LastLogin = &now
	}

	res.FromTokenPair(tokenPair)
	res.User.FromModel(user)

	return res, nil
}

// RefreshToken rotates the pair. The presented refresh token is revoked so it cannot be replayed.
func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	claims, err := s.jwtService.ValidateToken(req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to validate refresh token")

		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	revoked, err := s.revoked.Revoked(ctx, claims.TokenID)
	if err != nil {
		log.Error().Err(err).Msg("failed to check refresh token revocation")

		return res, fmt.Errorf("failed to check refresh token revocation: %w", err)
	}

	if revoked {
		return res, failure.Unauthorized("refresh token has been revoked") // nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	if claims.ExpiresAt != nil {
		if err := s.revoked.Revoke(ctx, claims.TokenID, claims.ExpiresAt.Time); err != nil {
			log.Error().Err(err).Str("user", claims.UserID).Msg("failed to revoke rotated refresh token")
		}
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

// Logout revokes the caller's access token and, when given, its refresh token.
func (s *serviceImpl) Logout(ctx context.Context, req dto.LogoutRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Logout")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	tokenID, _ := ctx.Value(constant.ContextKeyTokenID).(string)

	if userID == constant.Empty || tokenID == constant.Empty {
		return failure.Unauthorized("authentication required") // nolint:wrapcheck
	}

	var refresh *jwt.Claims

	if req.RefreshToken != constant.Empty {
		refresh, err = s.jwtService.ValidateToken(req.RefreshToken, jwt.RefreshToken)
		if err != nil {
			return failure.BadRequestFromString("invalid refresh token") // nolint:wrapcheck
		}

		if refresh.UserID != userID {
			return failure.Forbidden("refresh token belongs to another user") // nolint:wrapcheck
		}
	}

	accessExpiry := timezone.Now().Add(time.Duration(s.cfg.JWT.AccessExpireMin) * time.Minute)

	if err = s.revoked.Revoke(ctx, tokenID, accessExpiry); err != nil {
		log.Error().Err(err).Msg("failed to revoke access token")

		return fmt.Errorf("failed to revoke access token: %w", err)
	}

	if refresh != nil && refresh.ExpiresAt != nil {
		if err = s.revoked.Revoke(ctx, refresh.TokenID, refresh.ExpiresAt.Time); err != nil {
			log.Error().Err(err).Msg("failed to revoke refresh token")

			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
	}

	log.Info().Str("user", userID).Msg("user signed out")

	return nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return failure.Unauthorized("authentication required") // nolint:wrapcheck
	}

	filter := shared.FilterByID(userID, userModel.FieldID, userModel.TableName)

	user, err := s.userRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return failure.NotFound("user not found") // nolint:wrapcheck
	}

	if err := password.Verify(req.CurrentPassword, user.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect") // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	fields := shared.TransformFields(dto.UpdatePasswordRequest{Password: hashedPassword}, userID)

	if err = s.userRepo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
