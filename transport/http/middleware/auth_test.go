package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hostly/config"
	"hostly/infras/jwt"
	"hostly/infras/otel/mocks"
	"hostly/permissions"
	"hostly/shared/cache"
	"hostly/shared/constant"
	"hostly/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (http.Handler, jwt.JWT, jwt.Revocations) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	tokens := jwt.New(cfg)
	perms := permissions.Get()
	require.NotNil(t, perms)

	otel := mocks.NewOtel()
	revocations := jwt.NewRevocations(cache.NewMemoryCache(otel))

	auth := middleware.NewAuthRoleMiddleware(tokens, otel, perms, cfg, revocations)

	router := chi.NewRouter()
	router.Use(auth.APIKey, auth.Auth, auth.RBAC)

	ok := func(w http.ResponseWriter, r *http.Request) {
		user, _ := r.Context().Value(constant.ContextKeyUserID).(string)
		_, _ = w.Write([]byte(user))
	}

	router.Route("/v1", func(r chi.Router) {
		r.Post("/auth/login", ok)
		r.Get("/reports/dashboard", ok)
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/mybookings", ok)
		})
	})

	return router, tokens, revocations
}

func bearer(t *testing.T, tokens jwt.JWT, role string) string {
	t.Helper()

	pair, err := tokens.GenerateTokenPair("USR-1", "someone@example.com", role)
	require.NoError(t, err)

	return "Bearer " + pair.AccessToken
}

func TestAuthRole(t *testing.T) {
	router, tokens, _ := newRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		header map[string]string
		code   int
		body   string
	}{
		{name: "public route", method: http.MethodPost, path: "/v1/auth/login", code: http.StatusOK},
		{name: "missing token", method: http.MethodGet, path: "/v1/bookings/mybookings", code: http.StatusUnauthorized},
		{
			name:   "malformed header",
			method: http.MethodGet,
			path:   "/v1/bookings/mybookings",
			header: map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			code:   http.StatusUnauthorized,
		},
		{
			name:   "guest reads own bookings",
			method: http.MethodGet,
			path:   "/v1/bookings/mybookings",
			header: map[string]string{constant.RequestHeaderAuthorization: bearer(t, tokens, constant.RoleUser)},
			code:   http.StatusOK,
			body:   "USR-1",
		},
		{
			name:   "guest cannot read reports",
			method: http.MethodGet,
			path:   "/v1/reports/dashboard",
			header: map[string]string{constant.RequestHeaderAuthorization: bearer(t, tokens, constant.RoleUser)},
			code:   http.StatusForbidden,
		},
		{
			name:   "admin reads reports",
			method: http.MethodGet,
			path:   "/v1/reports/dashboard",
			header: map[string]string{constant.RequestHeaderAuthorization: bearer(t, tokens, constant.RoleAdmin)},
			code:   http.StatusOK,
		},
		{
			name:   "internal api key",
			method: http.MethodGet,
			path:   "/v1/reports/dashboard",
			header: map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			code:   http.StatusOK,
		},
		{
			name:   "wrong api key",
			method: http.MethodGet,
			path:   "/v1/reports/dashboard",
			header: map[string]string{constant.RequestHeaderAPIKey: "nope"},
			code:   http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			for key, value := range tt.header {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)

			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestAuthRejectsRevokedToken(t *testing.T) {
	router, tokens, revocations := newRouter(t)

	header := bearer(t, tokens, constant.RoleUser)

	claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "), jwt.AccessToken)
	require.NoError(t, err)

	call := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/bookings/mybookings", nil)
		req.Header.Set(constant.RequestHeaderAuthorization, header)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		return rec
	}

	assert.Equal(t, http.StatusOK, call().Code)

	require.NoError(t, revocations.Revoke(context.Background(), claims.TokenID, claims.ExpiresAt.Time))

	rec := call()
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "revoked")
}
