package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hostly/config"
	"hostly/infras/jwt"
	jwtMocks "hostly/infras/jwt/mocks"
	"hostly/infras/otel/mocks"
	"hostly/internal/domains/auth/model/dto"
	"hostly/internal/domains/auth/service"
	userMocks "hostly/internal/domains/user/mocks"
	userModel "hostly/internal/domains/user/model"
	"hostly/shared/cache"
	"hostly/shared/constant"
	"hostly/shared/failure"
	gModel "hostly/shared/model"
	"hostly/shared/password"
	"hostly/shared/timezone"
)

func newService(t *testing.T) (*userMocks.MockUser, *jwtMocks.MockJWT, service.Auth) {
	t.Helper()

	repo, tokens, _, svc := newServiceWithRevocations(t)

	return repo, tokens, svc
}

func newServiceWithRevocations(t *testing.T) (*userMocks.MockUser, *jwtMocks.MockJWT, jwt.Revocations, service.Auth) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := userMocks.NewMockUser(ctrl)
	tokens := jwtMocks.NewMockJWT(ctrl)

	otel := mocks.NewOtel()
	revocations := jwt.NewRevocations(cache.NewMemoryCache(otel))

	cfg := &config.Config{}
	cfg.JWT.AccessExpireMin = 15

	return repo, tokens, revocations, service.New(repo, cfg, otel, tokens, revocations)
}

func refreshClaims(userID, tokenID string) *jwt.Claims {
	return &jwt.Claims{
		UserID:  userID,
		TokenID: tokenID,
		Type:    jwt.RefreshToken,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(timezone.Now().Add(time.Hour)),
		},
	}
}

func signedIn(userID, tokenID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyTokenID, tokenID)
}

func existingUser(t *testing.T, active bool) userModel.User {
	t.Helper()

	hash, err := password.Hash("password123")
	require.NoError(t, err)

	return userModel.User{
		ID:       "USR-010",
		Email:    "guest@example.com",
		Password: hash,
		Level:    constant.RoleUser,
		FullName: "Guest User",
		Active:   active,
		Metadata: gModel.NewMetadata("system", timezone.Now()),
	}
}

func TestAuthService_Register(t *testing.T) {
	req := dto.RegisterRequest{Email: "guest@example.com", Password: "password123", ConfirmPassword: "password123", FullName: "Guest User"}

	t.Run("creates a guest account", func(t *testing.T) {
		repo, _, svc := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, user userModel.User) error {
			assert.Equal(t, constant.RoleUser, user.Level)
			assert.Equal(t, constant.ContextGuest, user.CreatedBy)
			assert.NoError(t, password.Verify("password123", user.Password))

			return nil
		})

		res, err := svc.Register(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "guest@example.com", res.Email)
		assert.True(t, res.Active)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo, _, svc := newService(t)
		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := svc.Register(context.Background(), req)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	pair := &jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token", TokenType: "Bearer", ExpiresIn: 900}

	t.Run("successful login", func(t *testing.T) {
		repo, tokens, svc := newService(t)
		user := existingUser(t, true)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		tokens.EXPECT().GenerateTokenPair(user.ID, user.Email, user.Level).Return(pair, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			assert.Contains(t, fields, userModel.FieldLastLogin)

			return nil
		})

		res, err := svc.Login(context.Background(), dto.LoginRequest{Email: user.Email, Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, "access-token", res.AccessToken)
		assert.Equal(t, user.ID, res.User.ID)
		assert.NotNil(t, res.User.LastLogin)
	})

	t.Run("last login failure does not block login", func(t *testing.T) {
		repo, tokens, svc := newService(t)
		user := existingUser(t, true)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		tokens.EXPECT().GenerateTokenPair(user.ID, user.Email, user.Level).Return(pair, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		res, err := svc.Login(context.Background(), dto.LoginRequest{Email: user.Email, Password: "password123"})
		require.NoError(t, err)
		assert.Nil(t, res.User.LastLogin)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo, _, svc := newService(t)
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

		_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("wrong password", func(t *testing.T) {
		repo, _, svc := newService(t)
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existingUser(t, true), nil)

		_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "guest@example.com", Password: "wrong-password"})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("deactivated account", func(t *testing.T) {
		repo, _, svc := newService(t)
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existingUser(t, false), nil)

		_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "guest@example.com", Password: "password123"})
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("repository error", func(t *testing.T) {
		repo, _, svc := newService(t)
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("database error"))

		_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "guest@example.com", Password: "password123"})
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("rotates the pair", func(t *testing.T) {
		_, tokens, revocations, svc := newServiceWithRevocations(t)

		tokens.EXPECT().ValidateToken("refresh-token", jwt.RefreshToken).Return(refreshClaims("USR-010", "RT-1"), nil)
		tokens.EXPECT().RefreshTokens("refresh-token").Return(&jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)

		res, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh-token"})
		require.NoError(t, err)
		assert.Equal(t, "new-access", res.AccessToken)

		revoked, err := revocations.Revoked(context.Background(), "RT-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("replayed token", func(t *testing.T) {
		_, tokens, revocations, svc := newServiceWithRevocations(t)
		require.NoError(t, revocations.Revoke(context.Background(), "RT-1", timezone.Now().Add(time.Hour)))

		tokens.EXPECT().ValidateToken("refresh-token", jwt.RefreshToken).Return(refreshClaims("USR-010", "RT-1"), nil)

		_, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh-token"})
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("invalid token", func(t *testing.T) {
		_, tokens, svc := newService(t)
		tokens.EXPECT().ValidateToken("bogus", jwt.RefreshToken).Return(nil, errors.New("token is malformed"))

		_, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "bogus"})
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("revokes access and refresh tokens", func(t *testing.T) {
		_, tokens, revocations, svc := newServiceWithRevocations(t)
		tokens.EXPECT().ValidateToken("refresh-token", jwt.RefreshToken).Return(refreshClaims("USR-010", "RT-1"), nil)

		require.NoError(t, svc.Logout(signedIn("USR-010", "AT-1"), dto.LogoutRequest{RefreshToken: "refresh-token"}))

		for _, id := range []string{"AT-1", "RT-1"} {
			revoked, err := revocations.Revoked(context.Background(), id)
			require.NoError(t, err)
			assert.True(t, revoked, id)
		}
	})

	t.Run("access token only", func(t *testing.T) {
		_, _, revocations, svc := newServiceWithRevocations(t)

		require.NoError(t, svc.Logout(signedIn("USR-010", "AT-2"), dto.LogoutRequest{}))

		revoked, err := revocations.Revoked(context.Background(), "AT-2")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("refresh token of another user", func(t *testing.T) {
		_, tokens, revocations, svc := newServiceWithRevocations(t)
		tokens.EXPECT().ValidateToken("refresh-token", jwt.RefreshToken).Return(refreshClaims("USR-999", "RT-9"), nil)

		err := svc.Logout(signedIn("USR-010", "AT-3"), dto.LogoutRequest{RefreshToken: "refresh-token"})
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))

		revoked, err := revocations.Revoked(context.Background(), "AT-3")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, _, svc := newService(t)

		err := svc.Logout(context.Background(), dto.LogoutRequest{})
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "USR-010")
	req := dto.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "password456", ConfirmNewPassword: "password456"}

	t.Run("updates hash", func(t *testing.T) {
		repo, _, svc := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existingUser(t, true), nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			hash, _ := fields[userModel.FieldPassword].(string)
			assert.NoError(t, password.Verify("password456", hash))
			assert.Equal(t, "USR-010", fields[constant.FieldModifiedBy])

			return nil
		})

		assert.NoError(t, svc.ChangePassword(ctx, req))
	})

	t.Run("wrong current password", func(t *testing.T) {
		repo, _, svc := newService(t)
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existingUser(t, true), nil)

		wrong := req
		wrong.CurrentPassword = "not-my-password"

		err := svc.ChangePassword(ctx, wrong)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("anonymous caller", func(t *testing.T) {
		_, _, svc := newService(t)

		err := svc.ChangePassword(context.Background(), req)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}
