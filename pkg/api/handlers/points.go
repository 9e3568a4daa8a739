package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/brokerhub/pkg/api/errors"
	"github.com/jordanlanch/brokerhub/pkg/domain"
	"github.com/jordanlanch/brokerhub/pkg/metrics"
	"github.com/jordanlanch/brokerhub/pkg/scoring"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

// AwardPointsRequest credits sales activity to a broker
type AwardPointsRequest struct {
	UserID       string `json:"userId" validate:"required"`
	ActivityType string `json:"activityType" validate:"required,oneof=presentation result"`
	Subtype      string `json:"subtype" validate:"required"`
	Points       int    `json:"points" validate:"required,min=1"`
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
}

// PointsHandler handles gamification endpoints
type PointsHandler struct {
	store     *store.Store
	scoring   *scoring.Service
	metrics   *metrics.Metrics
	validator *validator.Validate
}

// NewPointsHandler creates a new points handler
func NewPointsHandler(st *store.Store, sc *scoring.Service, m *metrics.Metrics) *PointsHandler {
	return &PointsHandler{store: st, scoring: sc, metrics: m, validator: validator.New()}
}

// Leaderboard returns the monthly broker ranking
func (h *PointsHandler) Leaderboard(c echo.Context) error {
	entries, err := h.scoring.Leaderboard(c.Request().Context())
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// UserSummary returns one user's points summary with rank and
// activity breakdown
func (h *PointsHandler) UserSummary(c echo.Context) error {
	summary, err := h.scoring.UserSummary(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Award credits points and logs the matching activity
func (h *PointsHandler) Award(c echo.Context) error {
	var req AwardPointsRequest
	if err := c.Bind(&req); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	err := h.scoring.Award(c.Request().Context(), req.UserID, req.ActivityType, req.Subtype,
		req.Points, req.Title, req.Description)
	if err != nil {
		return errors.Respond(c, err)
	}

	h.metrics.RecordPointsAwarded(req.Points)
	return c.JSON(http.StatusCreated, map[string]bool{"success": true})
}

// RecentActivities returns the latest activity feed entries
func (h *PointsHandler) RecentActivities(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return errors.Respond(c, domain.NewValidationError("limit must be a positive integer"))
		}
		limit = parsed
	}

	activities, err := h.scoring.RecentActivities(c.Request().Context(), limit)
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, activities)
}

// Performance returns per-broker funnel and point summaries
func (h *PointsHandler) Performance(c echo.Context) error {
	summaries, err := h.scoring.PerformanceSummaries(c.Request().Context())
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, summaries)
}
