package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/brokerhub/pkg/api/errors"
	"github.com/jordanlanch/brokerhub/pkg/dayplan"
	"github.com/jordanlanch/brokerhub/pkg/domain"
)

// DayPlanHandler handles the day-by-day agenda endpoint
type DayPlanHandler struct {
	dayplan *dayplan.Service
}

// NewDayPlanHandler creates a new day plan handler
func NewDayPlanHandler(dp *dayplan.Service) *DayPlanHandler {
	return &DayPlanHandler{dayplan: dp}
}

// Plan returns a user's agenda for one day. The date query parameter
// is yyyy-MM-dd and defaults to today.
func (h *DayPlanHandler) Plan(c echo.Context) error {
	date := time.Now()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return errors.Respond(c, domain.NewValidationError("date must be yyyy-MM-dd"))
		}
		date = parsed
	}

	entries, err := h.dayplan.Plan(c.Request().Context(), c.Param("userId"), date)
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}
