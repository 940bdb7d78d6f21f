package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hostly/config"
	"hostly/infras/otel/mocks"
	"hostly/shared/cache"
	"hostly/shared/constant"
	"hostly/transport/http/middleware"

	"github.com/stretchr/testify/assert"
)

func newLimited(enable bool, maxRequests int) http.Handler {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = enable
	cfg.App.RateLimiter.MaxRequests = maxRequests
	cfg.App.RateLimiter.WindowSeconds = 60

	ot := mocks.NewOtel()
	app := middleware.NewAppMiddleware(ot, cfg, cache.NewMemoryCache(ot))

	return app.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func limitedRequest(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/properties", nil)
	req.Header.Set(constant.RequestHeaderForwardedFor, ip+", 10.0.0.1")
	req.Header.Set(constant.RequestHeaderUserAgent, "limiter-test")

	return req
}

func TestRateLimit(t *testing.T) {
	t.Run("blocks after the window budget", func(t *testing.T) {
		handler := newLimited(true, 2)

		var rec *httptest.ResponseRecorder

		for i, want := range []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests} {
			rec = httptest.NewRecorder()
			handler.ServeHTTP(rec, limitedRequest("203.0.113.7"))

			assert.Equal(t, want, rec.Code, "request %d", i+1)
		}

		assert.Equal(t, "0", rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
		assert.Equal(t, "60", rec.Header().Get(constant.RequestHeaderRetryAfter))
	})

	t.Run("reports the remaining budget", func(t *testing.T) {
		handler := newLimited(true, 3)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, limitedRequest("203.0.113.8"))

		assert.Equal(t, "3", rec.Header().Get(constant.RequestHeaderRateLimit))
		assert.Equal(t, "2", rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
	})

	t.Run("clients are counted separately", func(t *testing.T) {
		handler := newLimited(true, 1)

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, limitedRequest("203.0.113.9"))

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, limitedRequest("198.51.100.4"))

		assert.Equal(t, http.StatusNoContent, first.Code)
		assert.Equal(t, http.StatusNoContent, second.Code)
	})

	t.Run("disabled", func(t *testing.T) {
		handler := newLimited(false, 0)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, limitedRequest("203.0.113.10"))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Header().Get(constant.RequestHeaderRateLimit))
	})
}
