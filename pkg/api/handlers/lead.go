package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/brokerhub/pkg/api/errors"
	"github.com/jordanlanch/brokerhub/pkg/metrics"
	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/phone"
	"github.com/jordanlanch/brokerhub/pkg/scoring"
	"github.com/jordanlanch/brokerhub/pkg/store"
	"github.com/jordanlanch/brokerhub/pkg/testdata"
)

// CreateLeadRequest is the payload for creating a lead
type CreateLeadRequest struct {
	Name       string   `json:"name" validate:"required,min=2"`
	Email      string   `json:"email" validate:"omitempty,email"`
	Phone      string   `json:"phone"`
	Source     string   `json:"source"`
	Status     string   `json:"status" validate:"omitempty,oneof=new contacted qualified presentation booked sold lost"`
	Priority   string   `json:"priority" validate:"omitempty,oneof=high medium low"`
	AssignedTo string   `json:"assignedTo"`
	NextAction string   `json:"nextAction"`
	Budget     float64  `json:"budget" validate:"omitempty,min=0"`
	Interests  []string `json:"interests"`
	Notes      string   `json:"notes"`
}

// LeadHandler handles lead CRUD endpoints
type LeadHandler struct {
	store     *store.Store
	scoring   *scoring.Service
	metrics   *metrics.Metrics
	validator *validator.Validate
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(st *store.Store, sc *scoring.Service, m *metrics.Metrics) *LeadHandler {
	return &LeadHandler{store: st, scoring: sc, metrics: m, validator: validator.New()}
}

// List returns all leads, optionally filtered by status or assignee
func (h *LeadHandler) List(c echo.Context) error {
	leads, err := h.store.Leads(c.Request().Context())
	if err != nil {
		return errors.Respond(c, err)
	}

	status := c.QueryParam("status")
	assignedTo := c.QueryParam("assignedTo")
	if status == "" && assignedTo == "" {
		return c.JSON(http.StatusOK, leads)
	}

	filtered := make([]models.Lead, 0, len(leads))
	for _, l := range leads {
		if status != "" && l.Status != status {
			continue
		}
		if assignedTo != "" && l.AssignedTo != assignedTo {
			continue
		}
		filtered = append(filtered, l)
	}
	return c.JSON(http.StatusOK, filtered)
}

// Get returns one lead by id
func (h *LeadHandler) Get(c echo.Context) error {
	lead, err := h.store.LeadByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, lead)
}

// Create adds a new lead to the funnel
func (h *LeadHandler) Create(c echo.Context) error {
	var req CreateLeadRequest
	if err := c.Bind(&req); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	if req.Status == "" {
		req.Status = models.LeadStatusNew
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if req.Source == "" {
		req.Source = "Manual"
	}
	if req.Interests == nil {
		req.Interests = []string{}
	}
	req.Phone = normalizePhone(req.Phone)

	lead, err := h.store.CreateLead(c.Request().Context(), models.Lead{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Source:     req.Source,
		Status:     req.Status,
		Priority:   req.Priority,
		AssignedTo: req.AssignedTo,
		NextAction: req.NextAction,
		Budget:     req.Budget,
		Interests:  req.Interests,
		Notes:      req.Notes,
	})
	if err != nil {
		return errors.Respond(c, err)
	}

	h.metrics.RecordLeadCreated()
	return c.JSON(http.StatusCreated, lead)
}

// normalizePhone converts a number to E.164 when it parses. Leads
// arrive from many sources, so an unparseable number is kept as-is
// rather than rejected.
func normalizePhone(number string) string {
	if number == "" {
		return ""
	}
	e164, err := phone.Normalize(number, phone.DefaultRegion)
	if err != nil {
		return number
	}
	return e164
}

// Update applies a partial update to a lead. Moving a lead to "sold"
// awards closing points to the assigned broker.
func (h *LeadHandler) Update(c echo.Context) error {
	var patch models.LeadPatch
	if err := c.Bind(&patch); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(patch); err != nil {
		return errors.ValidationError(c, err)
	}

	if patch.Phone != nil {
		normalized := normalizePhone(*patch.Phone)
		patch.Phone = &normalized
	}

	ctx := c.Request().Context()

	previous, err := h.store.LeadByID(ctx, c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}

	lead, err := h.store.UpdateLead(ctx, c.Param("id"), patch)
	if err != nil {
		return errors.Respond(c, err)
	}

	if previous.Status != models.LeadStatusSold && lead.Status == models.LeadStatusSold && lead.AssignedTo != "" {
		if err := h.scoring.Award(ctx, lead.AssignedTo, models.PointActivityResult, "direct_sale", 20,
			"Venta cerrada", "Cierre de venta: "+lead.Name); err != nil {
			return errors.Respond(c, err)
		}
		h.metrics.RecordPointsAwarded(20)
	}

	return c.JSON(http.StatusOK, lead)
}

// GenerateLeadsRequest is the payload for bulk demo-lead generation
type GenerateLeadsRequest struct {
	Count     int      `json:"count" validate:"required,min=1,max=500"`
	BrokerIDs []string `json:"brokerIds"`
}

// GenerateLeadsResponse reports the generated batch
type GenerateLeadsResponse struct {
	Count int           `json:"count"`
	Leads []models.Lead `json:"leads"`
}

// Generate bulk-creates demo leads with a realistic funnel shape.
// When no broker ids are given the batch is spread over all brokers.
func (h *LeadHandler) Generate(c echo.Context) error {
	var req GenerateLeadsRequest
	if err := c.Bind(&req); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	ctx := c.Request().Context()

	if len(req.BrokerIDs) == 0 {
		users, err := h.store.Users(ctx)
		if err != nil {
			return errors.Respond(c, err)
		}
		for _, u := range users {
			if u.Role == models.RoleBroker {
				req.BrokerIDs = append(req.BrokerIDs, u.ID)
			}
		}
	}

	leads, err := testdata.GenerateLeads(ctx, h.store, testdata.DefaultLeadGeneratorConfig(req.Count, req.BrokerIDs))
	if err != nil {
		return errors.Respond(c, err)
	}

	for range leads {
		h.metrics.RecordLeadCreated()
	}
	return c.JSON(http.StatusCreated, GenerateLeadsResponse{Count: len(leads), Leads: leads})
}

// Delete removes a lead
func (h *LeadHandler) Delete(c echo.Context) error {
	if err := h.store.DeleteLead(c.Request().Context(), c.Param("id")); err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
