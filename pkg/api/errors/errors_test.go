package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/brokerhub/pkg/domain"
	"github.com/jordanlanch/brokerhub/pkg/models"
)

// newContext creates an echo.Context backed by an httptest.NewRecorder for the
// given HTTP method and path. It returns both the context and the recorder so
// callers can inspect the written response.
func newContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// captureLog redirects the standard logger to a buffer for the duration of fn
// and returns everything that was logged.
func captureLog(fn func()) string {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)
	fn()
	return buf.String()
}

func TestRespond_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "not found → 404",
			err:        domain.NewNotFoundError("lead"),
			wantStatus: http.StatusNotFound,
			wantError:  "not_found",
		},
		{
			name:       "validation → 400",
			err:        domain.NewValidationError("name is required"),
			wantStatus: http.StatusBadRequest,
			wantError:  "validation_error",
		},
		{
			name:       "bad request → 400",
			err:        domain.NewBadRequestError("Rate limit exceeded"),
			wantStatus: http.StatusBadRequest,
			wantError:  "bad_request",
		},
		{
			name:       "unauthorized → 401",
			err:        domain.NewUnauthorizedError("Incorrect password."),
			wantStatus: http.StatusUnauthorized,
			wantError:  "unauthorized",
		},
		{
			name:       "forbidden → 403",
			err:        domain.NewForbiddenError("admins only"),
			wantStatus: http.StatusForbidden,
			wantError:  "forbidden",
		},
		{
			name:       "account disabled → 403",
			err:        domain.NewAccountDisabledError(),
			wantStatus: http.StatusForbidden,
			wantError:  "account_disabled",
		},
		{
			name:       "conflict → 409",
			err:        domain.NewConflictError("A user with this email already exists"),
			wantStatus: http.StatusConflict,
			wantError:  "conflict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/test")
			require.NoError(t, Respond(c, tt.err))
			assert.Equal(t, tt.wantStatus, rec.Code)

			resp := parseBody(t, rec)
			assert.Equal(t, tt.wantError, resp.Error)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestRespond_DomainMessagePassesThrough(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/auth/login")
	require.NoError(t, Respond(c, domain.NewUnauthorizedError("Incorrect password.")))

	resp := parseBody(t, rec)
	assert.Equal(t, "Incorrect password.", resp.Message)
}

func TestRespond_InternalHidesDetails(t *testing.T) {
	internalMsg := "redis: connection refused on 127.0.0.1:6379"

	logged := captureLog(func() {
		c, rec := newContext(http.MethodGet, "/api/leads")
		require.NoError(t, Respond(c, domain.NewInternalError(errors.New(internalMsg))))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), internalMsg)
		assert.NotContains(t, rec.Body.String(), "redis")
	})

	assert.Contains(t, logged, "[INTERNAL ERROR]")
	assert.Contains(t, logged, internalMsg)
}

func TestRespond_UnknownErrorIsInternal(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/leads")
	require.NoError(t, Respond(c, errors.New("plain error")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	resp := parseBody(t, rec)
	assert.Equal(t, "internal_error", resp.Error)
}

func TestValidationError_HidesDetails(t *testing.T) {
	internalMsg := "Field validation for 'Email' failed on the 'email' tag"

	logged := captureLog(func() {
		c, rec := newContext(http.MethodPost, "/api/auth/register")
		require.NoError(t, ValidationError(c, errors.New(internalMsg)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotContains(t, rec.Body.String(), internalMsg)
	})

	assert.Contains(t, logged, "[VALIDATION ERROR]")
	assert.Contains(t, logged, "/api/auth/register")
}

func TestBindError(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/leads")
	require.NoError(t, BindError(c, errors.New("unexpected EOF")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := parseBody(t, rec)
	assert.Equal(t, "invalid_body", resp.Error)
}

func TestGenericHelpers(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/leads/999")
	require.NoError(t, NotFoundError(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newContext(http.MethodGet, "/api/leads")
	require.NoError(t, UnauthorizedError(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = newContext(http.MethodDelete, "/api/users/1")
	require.NoError(t, ForbiddenError(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
