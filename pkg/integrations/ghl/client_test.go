package ghl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/brokerhub/pkg/domain"
	"github.com/jordanlanch/brokerhub/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-key", "loc-1", logger.Default())
}

func TestClient_TestConnection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/locations/loc-1", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "2021-07-28", r.Header.Get("Version"))
		w.Write([]byte(`{"id":"loc-1"}`))
	})

	require.NoError(t, client.TestConnection(context.Background()))
}

func TestClient_TestConnectionBadKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := client.TestConnection(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestClient_ListContacts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contacts/", r.URL.Path)
		assert.Equal(t, "loc-1", r.URL.Query().Get("locationId"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "carlos", r.URL.Query().Get("query"))
		w.Write([]byte(`{"contacts":[{"id":"c1","firstName":"Carlos"}],"total":1}`))
	})

	list, err := client.ListContacts(context.Background(), ContactQuery{Query: "carlos"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Contacts, 1)
	assert.Equal(t, "Carlos", list.Contacts[0].FirstName)
}

func TestClient_CreateContactCarriesLocation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/contacts/", r.URL.Path)

		var payload map[string]any
		require.NoError(t, decodeBody(r, &payload))
		assert.Equal(t, "loc-1", payload["locationId"])
		assert.Equal(t, "Manual", payload["source"], "empty source defaults to Manual")

		w.Write([]byte(`{"id":"c2","firstName":"Ana"}`))
	})

	created, err := client.CreateContact(context.Background(), NewContact{
		FirstName: "Ana",
		Email:     "ana.martinez@email.com",
		Phone:     "+52 998 777 8888",
	})
	require.NoError(t, err)
	assert.Equal(t, "c2", created.ID)
}

func TestClient_ListPipelines(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/opportunities/pipelines", r.URL.Path)
		w.Write([]byte(`{"pipelines":[{"id":"p1","name":"Ventas"}]}`))
	})

	pipelines, err := client.ListPipelines(context.Background())
	require.NoError(t, err)
	require.Len(t, pipelines, 1)
	assert.Equal(t, "Ventas", pipelines[0].Name)
}

func TestClient_CreateAppointment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calendars/events", r.URL.Path)

		var payload map[string]any
		require.NoError(t, decodeBody(r, &payload))
		assert.Equal(t, "loc-1", payload["locationId"])
		assert.Equal(t, "cal-1", payload["calendarId"])

		w.Write([]byte(`{"id":"evt-1","title":"Presentación Zoom"}`))
	})

	appt, err := client.CreateAppointment(context.Background(), NewAppointment{
		CalendarID: "cal-1",
		ContactID:  "c1",
		Title:      "Presentación Zoom",
		StartTime:  "2026-09-01T14:00:00Z",
		EndTime:    "2026-09-01T15:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", appt.ID)
}
