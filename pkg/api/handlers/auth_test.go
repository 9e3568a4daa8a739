package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/brokerhub/pkg/auth"
	"github.com/jordanlanch/brokerhub/pkg/logger"
	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/session"
)

func setupAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()

	st := setupStore(t)
	tokens := auth.NewTokenManager("test-secret", 24)
	sessions := session.NewService(st, tokens, logger.Default())
	return NewAuthHandler(sessions, testMetrics())
}

func TestAuthHandler_Login(t *testing.T) {
	h := setupAuthHandler(t)
	e := echo.New()

	c, rec := newContext(t, e, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "mafer@real_estate.com",
		"password": "password123",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[models.AuthResponse](t, rec)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Mafer", resp.User.Name)
	assert.Empty(t, resp.User.PasswordHash)
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	h := setupAuthHandler(t)
	e := echo.New()

	c, rec := newContext(t, e, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "mafer@real_estate.com",
		"password": "not-the-password",
	})
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_LoginUnknownUser(t *testing.T) {
	h := setupAuthHandler(t)
	e := echo.New()

	c, rec := newContext(t, e, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "nobody@real_estate.com",
		"password": "password123",
	})
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_LoginValidation(t *testing.T) {
	h := setupAuthHandler(t)
	e := echo.New()

	c, rec := newContext(t, e, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "not-an-email",
	})
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Register(t *testing.T) {
	h := setupAuthHandler(t)
	e := echo.New()

	c, rec := newContext(t, e, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "nuevo@real_estate.com",
		"password": "password123",
		"name":     "Nuevo Broker",
	})
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeBody[models.AuthResponse](t, rec)
	assert.Equal(t, models.RoleBroker, resp.User.Role)
	assert.NotEmpty(t, resp.Token)
}

func TestAuthHandler_RegisterDuplicateEmail(t *testing.T) {
	h := setupAuthHandler(t)
	e := echo.New()

	c, rec := newContext(t, e, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "mafer@real_estate.com",
		"password": "password123",
		"name":     "Impostora",
	})
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandler_MeAfterLogin(t *testing.T) {
	h := setupAuthHandler(t)
	e := echo.New()

	c, rec := newContext(t, e, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "admin@real_estate.com",
		"password": "password123",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(t, e, http.MethodGet, "/api/auth/me", nil)
	require.NoError(t, h.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)

	user := decodeBody[models.User](t, rec)
	assert.Equal(t, models.RoleAdmin, user.Role)

	// Logout clears the session
	c, rec = newContext(t, e, http.MethodPost, "/api/auth/logout", nil)
	require.NoError(t, h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(t, e, http.MethodGet, "/api/auth/me", nil)
	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
