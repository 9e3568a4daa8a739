package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/brokerhub/pkg/cache"
	"github.com/jordanlanch/brokerhub/pkg/logger"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	st := store.New(cache.NewClientFromRedis(rdb), "real_estate", logger.Default())
	require.NoError(t, st.Seed(context.Background(), "password123"))
	return st
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(60, 3)
	mw := rl.Middleware()

	e := echo.New()
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, mw(okHandler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiter_BlocksOverBurst(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	mw := rl.Middleware()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	require.NoError(t, mw(okHandler)(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	require.NoError(t, mw(okHandler)(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate_limit_exceeded")
}

func TestRateLimiter_SeparatesIPs(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	mw := rl.Middleware()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.3:1234"
	rec := httptest.NewRecorder()
	require.NoError(t, mw(okHandler)(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.4:1234"
	rec = httptest.NewRecorder()
	require.NoError(t, mw(okHandler)(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	st := setupStore(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "6") // seeded admin

	require.NoError(t, RequireAdmin(st)(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin_RejectsBroker(t *testing.T) {
	st := setupStore(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "1") // seeded broker

	require.NoError(t, RequireAdmin(st)(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdmin_RejectsMissingUser(t *testing.T) {
	st := setupStore(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, RequireAdmin(st)(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := SecurityHeaders(SecurityHeadersConfig{})
	require.NoError(t, mw(okHandler)(c))

	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
	assert.NotEmpty(t, rec.Header().Get("Permissions-Policy"))
}

func TestCORSConfig_Defaults(t *testing.T) {
	cfg := CORSConfig(nil)
	assert.Contains(t, cfg.AllowOrigins, "http://localhost:5173")
	assert.True(t, cfg.AllowCredentials)

	cfg = CORSConfig([]string{"https://dashboard.example.com"})
	assert.Equal(t, []string{"https://dashboard.example.com"}, cfg.AllowOrigins)
}
