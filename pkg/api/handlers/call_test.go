package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/brokerhub/pkg/integrations/vapi"
	"github.com/jordanlanch/brokerhub/pkg/logger"
	"github.com/jordanlanch/brokerhub/pkg/models"
)

func TestCallHandler_StartAICall(t *testing.T) {
	st := setupStore(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/call", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var payload vapi.NewCall
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "asst_1", payload.AssistantID)
		require.NotNil(t, payload.Customer)
		assert.Equal(t, "Carlos Hernández", payload.Customer.Name)

		json.NewEncoder(w).Encode(vapi.Call{ID: "vapi_call_789", Status: "queued"})
	}))
	t.Cleanup(server.Close)

	vc := vapi.New(server.URL, "key", "asst_1", logger.Default())
	h := NewCallHandler(st, vc, testMetrics())
	e := echo.New()

	c, rec := newContext(t, e, http.MethodPost, "/api/calls/start/1", nil)
	c.SetParamNames("leadId")
	c.SetParamValues("1")
	require.NoError(t, h.StartAICall(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	call := decodeBody[models.Call](t, rec)
	assert.Equal(t, models.CallTypeVAPI, call.Type)
	assert.Equal(t, models.CallStatusInProgress, call.Status)
	assert.Equal(t, "vapi_call_789", call.VAPICallID)
	assert.NotNil(t, call.StartTime)
}

func TestCallHandler_StartAICallUnknownLead(t *testing.T) {
	st := setupStore(t)
	vc := vapi.New("http://127.0.0.1:1", "key", "asst_1", logger.Default())
	h := NewCallHandler(st, vc, testMetrics())
	e := echo.New()

	c, rec := newContext(t, e, http.MethodPost, "/api/calls/start/missing", nil)
	c.SetParamNames("leadId")
	c.SetParamValues("missing")
	require.NoError(t, h.StartAICall(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCallHandler_CreateDefaults(t *testing.T) {
	st := setupStore(t)
	h := NewCallHandler(st, vapi.New("", "", "", logger.Default()), testMetrics())
	e := echo.New()

	c, rec := newContext(t, e, http.MethodPost, "/api/calls", map[string]string{
		"leadId": "2",
	})
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	call := decodeBody[models.Call](t, rec)
	assert.Equal(t, models.CallTypeManual, call.Type)
	assert.Equal(t, models.CallStatusScheduled, call.Status)
}

func TestCallHandler_UpdateNotFound(t *testing.T) {
	st := setupStore(t)
	h := NewCallHandler(st, vapi.New("", "", "", logger.Default()), testMetrics())
	e := echo.New()

	c, rec := newContext(t, e, http.MethodPut, "/api/calls/missing", map[string]string{
		"status": "completed",
	})
	c.SetParamNames("id")
	c.SetParamValues("missing")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
