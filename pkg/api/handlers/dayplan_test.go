package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/brokerhub/pkg/dayplan"
	"github.com/jordanlanch/brokerhub/pkg/logger"
	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

func setupDayPlanHandler(t *testing.T) (*DayPlanHandler, *store.Store) {
	t.Helper()

	st := setupStore(t)
	return NewDayPlanHandler(dayplan.NewService(st, logger.Default())), st
}

func TestDayPlanHandler_Plan(t *testing.T) {
	h, st := setupDayPlanHandler(t)
	e := echo.New()
	ctx := context.Background()

	day := time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC)
	_, err := st.CreateLead(ctx, models.Lead{
		Name:           "Plan Lead",
		Status:         models.LeadStatusContacted,
		Priority:       models.PriorityHigh,
		AssignedTo:     "1",
		NextAction:     "Llamar antes de mediodía",
		NextActionDate: &day,
	})
	require.NoError(t, err)

	c, rec := newContext(t, e, http.MethodGet, "/api/dayplan/1?date=2026-09-14", nil)
	c.SetParamNames("userId")
	c.SetParamValues("1")
	require.NoError(t, h.Plan(c))
	require.Equal(t, http.StatusOK, rec.Code)

	entries := decodeBody[[]models.DayPlanEntry](t, rec)
	require.Len(t, entries, 1)
	assert.Equal(t, models.DayPlanLead, entries[0].Type)
	assert.Equal(t, "Seguimiento: Plan Lead", entries[0].Title)
	assert.Contains(t, entries[0].Description, "Llamar antes de mediodía")
}

func TestDayPlanHandler_BadDate(t *testing.T) {
	h, _ := setupDayPlanHandler(t)
	e := echo.New()

	c, rec := newContext(t, e, http.MethodGet, "/api/dayplan/1?date=14-09-2026", nil)
	c.SetParamNames("userId")
	c.SetParamValues("1")
	require.NoError(t, h.Plan(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDayPlanHandler_UnknownUser(t *testing.T) {
	h, _ := setupDayPlanHandler(t)
	e := echo.New()

	c, rec := newContext(t, e, http.MethodGet, "/api/dayplan/missing", nil)
	c.SetParamNames("userId")
	c.SetParamValues("missing")
	require.NoError(t, h.Plan(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
