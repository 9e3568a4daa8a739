package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/brokerhub/pkg/api/errors"
	"github.com/jordanlanch/brokerhub/pkg/domain"
	"github.com/jordanlanch/brokerhub/pkg/integrations/vapi"
	"github.com/jordanlanch/brokerhub/pkg/metrics"
	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

// CreateCallRequest is the payload for logging or scheduling a call
type CreateCallRequest struct {
	LeadID        string     `json:"leadId" validate:"required"`
	Type          string     `json:"type" validate:"omitempty,oneof=manual vapi"`
	Status        string     `json:"status" validate:"omitempty,oneof=scheduled in-progress completed failed"`
	ScheduledTime *time.Time `json:"scheduledTime"`
	Notes         string     `json:"notes"`
	AssignedTo    string     `json:"assignedTo"`
}

// CallHandler handles call endpoints, including dispatching outbound
// AI calls through the voice assistant
type CallHandler struct {
	store     *store.Store
	vapi      *vapi.Client
	metrics   *metrics.Metrics
	validator *validator.Validate
}

// NewCallHandler creates a new call handler
func NewCallHandler(st *store.Store, vc *vapi.Client, m *metrics.Metrics) *CallHandler {
	return &CallHandler{store: st, vapi: vc, metrics: m, validator: validator.New()}
}

// List returns all calls
func (h *CallHandler) List(c echo.Context) error {
	calls, err := h.store.Calls(c.Request().Context())
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, calls)
}

// Get returns one call by id
func (h *CallHandler) Get(c echo.Context) error {
	call, err := h.store.CallByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, call)
}

// Create logs a manual call or schedules one
func (h *CallHandler) Create(c echo.Context) error {
	var req CreateCallRequest
	if err := c.Bind(&req); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	if req.Type == "" {
		req.Type = models.CallTypeManual
	}
	if req.Status == "" {
		req.Status = models.CallStatusScheduled
	}

	call, err := h.store.CreateCall(c.Request().Context(), models.Call{
		LeadID:        req.LeadID,
		Type:          req.Type,
		Status:        req.Status,
		ScheduledTime: req.ScheduledTime,
		Notes:         req.Notes,
		AssignedTo:    req.AssignedTo,
	})
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, call)
}

// StartAICall places an outbound call to a lead through the voice
// assistant and records it as in-progress
func (h *CallHandler) StartAICall(c echo.Context) error {
	ctx := c.Request().Context()

	lead, err := h.store.LeadByID(ctx, c.Param("leadId"))
	if err != nil {
		return errors.Respond(c, err)
	}
	if lead.Phone == "" {
		return errors.Respond(c, domain.NewBadRequestError("Lead has no phone number"))
	}

	vapiCall, err := h.vapi.CreateCall(ctx, vapi.NewCall{
		PhoneNumber: lead.Phone,
		Customer:    &vapi.Customer{Name: lead.Name, Number: lead.Phone},
	})
	if err != nil {
		return errors.Respond(c, err)
	}

	now := time.Now()
	call, err := h.store.CreateCall(ctx, models.Call{
		LeadID:     lead.ID,
		Type:       models.CallTypeVAPI,
		Status:     models.CallStatusInProgress,
		StartTime:  &now,
		AssignedTo: lead.AssignedTo,
		VAPICallID: vapiCall.ID,
	})
	if err != nil {
		return errors.Respond(c, err)
	}

	h.metrics.RecordCallStarted()
	return c.JSON(http.StatusCreated, call)
}

// Update applies a partial update to a call
func (h *CallHandler) Update(c echo.Context) error {
	var patch models.CallPatch
	if err := c.Bind(&patch); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(patch); err != nil {
		return errors.ValidationError(c, err)
	}

	call, err := h.store.UpdateCall(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, call)
}

// Delete removes a call
func (h *CallHandler) Delete(c echo.Context) error {
	if err := h.store.DeleteCall(c.Request().Context(), c.Param("id")); err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
