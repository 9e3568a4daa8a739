package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/brokerhub/pkg/auth"
)

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"userId": UserID(c),
		"role":   UserRole(c),
	})
}

func TestJWT_ValidToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", 24)
	token, err := tokens.Generate("1", "mafer@real_estate.com", "broker")
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, JWT(tokens)(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":"1"`)
	assert.Contains(t, rec.Body.String(), `"role":"broker"`)
}

func TestJWT_MissingHeader(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", 24)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, JWT(tokens)(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_token")
}

func TestJWT_BadFormat(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", 24)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, JWT(tokens)(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_token_format")
}

func TestJWT_WrongSecret(t *testing.T) {
	other := auth.NewTokenManager("other-secret", 24)
	token, err := other.Generate("1", "mafer@real_estate.com", "broker")
	require.NoError(t, err)

	tokens := auth.NewTokenManager("test-secret", 24)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, JWT(tokens)(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_token")
}

func TestJWTFromQueryOrHeader_QueryToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", 24)
	token, err := tokens.Generate("6", "admin@real_estate.com", "admin")
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/exports/leads.csv?token="+token, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, JWTFromQueryOrHeader(tokens)(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)
}
