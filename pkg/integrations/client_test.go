package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/brokerhub/pkg/domain"
	"github.com/jordanlanch/brokerhub/pkg/logger"
)

func TestClient_GetDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/things", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("limit"))
		assert.Equal(t, "token-1", r.Header.Get("X-Api-Key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"thing-1"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, map[string]string{"X-Api-Key": "token-1"}, logger.Default())

	var out struct {
		Name string `json:"name"`
	}
	err := client.Get(context.Background(), "/things", url.Values{"limit": {"42"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "thing-1", out.Name)
}

func TestClient_PostSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"id":"99"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, logger.Default())

	var out struct {
		ID string `json:"id"`
	}
	err := client.Post(context.Background(), "/things", map[string]string{"name": "x"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "99", out.ID)
}

func TestClient_NonOKReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"bad key"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, logger.Default())

	err := client.Get(context.Background(), "/things", nil, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "bad key")
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		verify func(t *testing.T, out error)
	}{
		{
			name: "401 maps to unauthorized",
			err:  &APIError{StatusCode: 401},
			verify: func(t *testing.T, out error) {
				assert.True(t, domain.IsUnauthorized(out))
			},
		},
		{
			name: "403 maps to forbidden",
			err:  &APIError{StatusCode: 403},
			verify: func(t *testing.T, out error) {
				assert.True(t, domain.IsForbidden(out))
			},
		},
		{
			name: "429 maps to bad request with rate limit message",
			err:  &APIError{StatusCode: 429},
			verify: func(t *testing.T, out error) {
				assert.True(t, domain.IsBadRequest(out))
				assert.Contains(t, out.Error(), "Rate limit")
			},
		},
		{
			name: "500 maps to internal",
			err:  &APIError{StatusCode: 503, Body: "down"},
			verify: func(t *testing.T, out error) {
				assert.Equal(t, domain.ErrCodeInternal, domain.GetErrorCode(out))
			},
		},
		{
			name: "404 maps to bad request with context",
			err:  &APIError{StatusCode: 404, Body: "nope"},
			verify: func(t *testing.T, out error) {
				assert.True(t, domain.IsBadRequest(out))
				assert.Contains(t, out.Error(), "Vendor Op")
			},
		},
		{
			name: "transport errors map to internal",
			err:  errors.New("connection refused"),
			verify: func(t *testing.T, out error) {
				assert.Equal(t, domain.ErrCodeInternal, domain.GetErrorCode(out))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.verify(t, Translate(tt.err, "Vendor Op"))
		})
	}

	assert.NoError(t, Translate(nil, "Vendor Op"))
}
