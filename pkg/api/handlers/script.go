package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/brokerhub/pkg/api/errors"
	"github.com/jordanlanch/brokerhub/pkg/integrations/n8n"
	"github.com/jordanlanch/brokerhub/pkg/metrics"
	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

// CreateScriptRequest is the payload for creating a sales script
type CreateScriptRequest struct {
	Name      string   `json:"name" validate:"required,min=2"`
	Type      string   `json:"type" validate:"required,oneof=discovery presentation objection closing"`
	Content   string   `json:"content" validate:"required"`
	Variables []string `json:"variables"`
	IsActive  bool     `json:"isActive"`
}

// GenerateScriptRequest asks the AI workflow for a script tailored to
// one lead
type GenerateScriptRequest struct {
	LeadID  string `json:"leadId" validate:"required"`
	Type    string `json:"type" validate:"required,oneof=discovery presentation objection closing"`
	Context string `json:"context"`
}

// ScriptHandler handles sales-script endpoints
type ScriptHandler struct {
	store     *store.Store
	n8n       *n8n.Client
	metrics   *metrics.Metrics
	validator *validator.Validate
}

// NewScriptHandler creates a new script handler
func NewScriptHandler(st *store.Store, nc *n8n.Client, m *metrics.Metrics) *ScriptHandler {
	return &ScriptHandler{store: st, n8n: nc, metrics: m, validator: validator.New()}
}

// List returns all sales scripts
func (h *ScriptHandler) List(c echo.Context) error {
	scripts, err := h.store.Scripts(c.Request().Context())
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, scripts)
}

// Get returns one script by id
func (h *ScriptHandler) Get(c echo.Context) error {
	script, err := h.store.ScriptByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, script)
}

// Create adds a new script
func (h *ScriptHandler) Create(c echo.Context) error {
	var req CreateScriptRequest
	if err := c.Bind(&req); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	if req.Variables == nil {
		req.Variables = []string{}
	}

	script, err := h.store.CreateScript(c.Request().Context(), models.SalesScript{
		Name:      req.Name,
		Type:      req.Type,
		Content:   req.Content,
		Variables: req.Variables,
		IsActive:  req.IsActive,
	})
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, script)
}

// Generate asks the AI workflow for a script tailored to a lead and
// stores the result as a new inactive script
func (h *ScriptHandler) Generate(c echo.Context) error {
	var req GenerateScriptRequest
	if err := c.Bind(&req); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	ctx := c.Request().Context()

	lead, err := h.store.LeadByID(ctx, req.LeadID)
	if err != nil {
		return errors.Respond(c, err)
	}

	generated, err := h.n8n.GenerateScript(ctx, n8n.LeadInfo{
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Budget:    lead.Budget,
		Interests: lead.Interests,
	}, req.Type, req.Context)
	if err != nil {
		return errors.Respond(c, err)
	}

	script, err := h.store.CreateScript(ctx, models.SalesScript{
		Name:        "Script IA: " + lead.Name,
		Type:        req.Type,
		Content:     generated.Script,
		Variables:   generated.Variables,
		IsActive:    false,
		AIGenerated: true,
	})
	if err != nil {
		return errors.Respond(c, err)
	}

	h.metrics.RecordScriptGenerated()
	return c.JSON(http.StatusCreated, script)
}

// Update applies a partial update to a script
func (h *ScriptHandler) Update(c echo.Context) error {
	var patch models.ScriptPatch
	if err := c.Bind(&patch); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(patch); err != nil {
		return errors.ValidationError(c, err)
	}

	script, err := h.store.UpdateScript(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, script)
}

// Delete removes a script
func (h *ScriptHandler) Delete(c echo.Context) error {
	if err := h.store.DeleteScript(c.Request().Context(), c.Param("id")); err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
