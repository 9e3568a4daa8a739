package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/brokerhub/pkg/api/errors"
	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

// CreateMeetingRequest is the payload for scheduling a meeting
type CreateMeetingRequest struct {
	Title     string    `json:"title" validate:"required,min=2"`
	Date      time.Time `json:"date" validate:"required"`
	Duration  int       `json:"duration" validate:"required,min=1"`
	Type      string    `json:"type" validate:"required,oneof=zoom physical phone"`
	Attendees []string  `json:"attendees"`
	Notes     string    `json:"notes"`
	LeadID    string    `json:"leadId"`
	ZoomLink  string    `json:"zoomLink"`
	Location  string    `json:"location"`
}

// MeetingHandler handles meeting CRUD endpoints
type MeetingHandler struct {
	store     *store.Store
	validator *validator.Validate
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(st *store.Store) *MeetingHandler {
	return &MeetingHandler{store: st, validator: validator.New()}
}

// List returns all meetings
func (h *MeetingHandler) List(c echo.Context) error {
	meetings, err := h.store.Meetings(c.Request().Context())
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, meetings)
}

// Get returns one meeting by id
func (h *MeetingHandler) Get(c echo.Context) error {
	meeting, err := h.store.MeetingByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, meeting)
}

// Create schedules a new meeting
func (h *MeetingHandler) Create(c echo.Context) error {
	var req CreateMeetingRequest
	if err := c.Bind(&req); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	if req.Attendees == nil {
		req.Attendees = []string{}
	}

	meeting, err := h.store.CreateMeeting(c.Request().Context(), models.Meeting{
		Title:     req.Title,
		Date:      req.Date,
		Duration:  req.Duration,
		Type:      req.Type,
		Status:    models.MeetingStatusScheduled,
		Attendees: req.Attendees,
		Notes:     req.Notes,
		LeadID:    req.LeadID,
		ZoomLink:  req.ZoomLink,
		Location:  req.Location,
	})
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, meeting)
}

// Update applies a partial update to a meeting
func (h *MeetingHandler) Update(c echo.Context) error {
	var patch models.MeetingPatch
	if err := c.Bind(&patch); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(patch); err != nil {
		return errors.ValidationError(c, err)
	}

	meeting, err := h.store.UpdateMeeting(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, meeting)
}

// Delete removes a meeting
func (h *MeetingHandler) Delete(c echo.Context) error {
	if err := h.store.DeleteMeeting(c.Request().Context(), c.Param("id")); err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
