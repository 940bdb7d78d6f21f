package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"hostly/config"
	"hostly/infras/jwt"
	"hostly/infras/otel"
	"hostly/permissions"
	"hostly/shared/constant"
	"hostly/shared/failure"
	"hostly/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type ctxKey int

// trustedCallerKey marks requests authenticated by the internal API key.
const trustedCallerKey ctxKey = iota

type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole is mounted as APIKey, then Auth, then RBAC.
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
	revoked    jwt.Revocations
}

func NewAuthRoleMiddleware(
	jwtService jwt.JWT,
	otel otel.Otel,
	permissions *permissions.PermissionData,
	cfg *config.Config,
	revoked jwt.Revocations,
) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
		revoked:    revoked,
	}
}

func trusted(ctx context.Context) bool {
	ok, _ := ctx.Value(trustedCallerKey).(bool)

	return ok
}

func deny(writer http.ResponseWriter, scope otel.Scope, err error) {
	scope.TraceError(err)
	response.WithError(writer, err)
}

// APIKey lets internal services bypass JWT auth with X-API-Key. A wrong key is
// rejected outright rather than falling back to JWT.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		key := request.Header.Get(constant.RequestHeaderAPIKey)
		if key == constant.Empty {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttribute("http.source", "internal")

		expected := m.cfg.App.APIKey
		if expected == constant.Empty || subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			deny(writer, scope, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(writer, request.WithContext(context.WithValue(request.Context(), trustedCallerKey, true)))
	})
}

// Auth requires a valid access token unless the route is public or the caller is trusted.
// The token's subject, email, role and id are copied into the request context.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		path := routePattern(request)

		if trusted(ctx) || (m.permission != nil && m.permission.FindPermissions(path, request.Method).Skip) {
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		header := request.Header.Get(constant.RequestHeaderAuthorization)
		if header == constant.Empty {
			deny(writer, scope, failure.Unauthorized("Missing authorization header"))

			return
		}

		token, err := jwt.ExtractTokenFromHeader(header)
		if err != nil {
			deny(writer, scope, failure.Unauthorized("Invalid authorization header format"))

			return
		}

		claims, err := m.jwtService.ValidateToken(token, jwt.AccessToken)
		if err != nil {
			deny(writer, scope, failure.Unauthorized(tokenErrorMessage(err)))

			return
		}

		if claims.UserID == constant.Empty || claims.Email == constant.Empty {
			log.Error().Str("user_id", claims.UserID).Msg("JWT claims: subject or email is empty")
			deny(writer, scope, failure.Unauthorized("Invalid token claims"))

			return
		}

		// A broken revocation store must not lock every user out.
		if revoked, err := m.revoked.Revoked(ctx, claims.TokenID); err != nil {
			log.Warn().Err(err).Msg("token revocation check failed, allowing request")
		} else if revoked {
			deny(writer, scope, failure.Unauthorized("Token has been revoked"))

			return
		}

		ctx = request.Context()
		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, jwt.ErrInvalidToken):
		return "Invalid token"
	case errors.Is(err, jwt.ErrInvalidClaim):
		return "Invalid token claims"
	default:
		return "Token validation failed"
	}
}

// RBAC checks the caller's role against the route's allowed roles. Without a
// permission table every protected route is forbidden.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		if trusted(ctx) {
			next.ServeHTTP(writer, request)

			return
		}

		if m.permission == nil {
			deny(writer, scope, failure.ForbiddenError)

			return
		}

		permission := m.permission.FindPermissions(routePattern(request), request.Method)
		if m.permission.Skip || permission.Skip {
			next.ServeHTTP(writer, request)

			return
		}

		role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
		if !permission.Allows(role) {
			scope.SetAttributes(map[string]any{
				"user_role":     role,
				"allowed_roles": permission.Permissions,
				"reason":        "role_not_allowed",
			})
			deny(writer, scope, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(writer, request)
	})
}

// routePattern resolves the registered chi pattern for the request, e.g. /v1/bookings/{id}.
func routePattern(request *http.Request) string {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil {
		return request.URL.Path
	}

	if pattern := rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path); pattern != constant.Empty {
		return pattern
	}

	return request.URL.Path
}
