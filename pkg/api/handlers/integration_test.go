package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/brokerhub/pkg/integrations"
	"github.com/jordanlanch/brokerhub/pkg/integrations/evolution"
	"github.com/jordanlanch/brokerhub/pkg/logger"
)

func TestIntegrationHandler_SendWhatsApp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/message/sendText/real_estate", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "529981234567", payload["number"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("{}"))
	}))
	t.Cleanup(server.Close)

	wa := evolution.New(server.URL, "key", "real_estate", logger.Default())
	h := NewIntegrationHandler(nil, wa, testMetrics())
	e := echo.New()

	c, rec := newContext(t, e, http.MethodPost, "/api/integrations/whatsapp/send", map[string]string{
		"number":  "+52 998 123 4567",
		"message": "Hola, te comparto las opciones de Tulum",
	})
	require.NoError(t, h.SendWhatsApp(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIntegrationHandler_SendWhatsAppInvalidNumber(t *testing.T) {
	wa := evolution.New("http://127.0.0.1:1", "key", "real_estate", logger.Default())
	h := NewIntegrationHandler(nil, wa, testMetrics())
	e := echo.New()

	c, rec := newContext(t, e, http.MethodPost, "/api/integrations/whatsapp/send", map[string]string{
		"number":  "12",
		"message": "Hola",
	})
	require.NoError(t, h.SendWhatsApp(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIntegrationHandler_Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"state": "open"})
	}))
	t.Cleanup(server.Close)

	wa := evolution.New(server.URL, "key", "real_estate", logger.Default())
	h := NewIntegrationHandler([]integrations.Checker{wa}, wa, testMetrics())
	e := echo.New()

	c, rec := newContext(t, e, http.MethodGet, "/api/integrations/status", nil)
	require.NoError(t, h.Status(c))
	require.Equal(t, http.StatusOK, rec.Code)

	statuses := decodeBody[[]integrations.Status](t, rec)
	require.Len(t, statuses, 1)
	assert.Equal(t, "whatsapp", statuses[0].Name)
	assert.True(t, statuses[0].Connected)
}
