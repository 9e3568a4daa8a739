package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/brokerhub/pkg/api/errors"
	"github.com/jordanlanch/brokerhub/pkg/domain"
	"github.com/jordanlanch/brokerhub/pkg/integrations"
	"github.com/jordanlanch/brokerhub/pkg/integrations/evolution"
	"github.com/jordanlanch/brokerhub/pkg/metrics"
	"github.com/jordanlanch/brokerhub/pkg/phone"
)

// SendWhatsAppRequest is the payload for sending a WhatsApp message
type SendWhatsAppRequest struct {
	Number  string `json:"number" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// IntegrationHandler handles connectivity checks and direct messaging
// endpoints
type IntegrationHandler struct {
	checkers  []integrations.Checker
	whatsapp  *evolution.Client
	metrics   *metrics.Metrics
	validator *validator.Validate
}

// NewIntegrationHandler creates a new integration handler
func NewIntegrationHandler(checkers []integrations.Checker, wa *evolution.Client, m *metrics.Metrics) *IntegrationHandler {
	return &IntegrationHandler{
		checkers:  checkers,
		whatsapp:  wa,
		metrics:   m,
		validator: validator.New(),
	}
}

// Status probes every configured integration concurrently
func (h *IntegrationHandler) Status(c echo.Context) error {
	statuses := integrations.CheckAll(c.Request().Context(), h.checkers)

	for _, s := range statuses {
		h.metrics.RecordIntegrationCheck(s.Name, s.Connected)
	}
	return c.JSON(http.StatusOK, statuses)
}

// SendWhatsApp delivers a text message through the WhatsApp gateway.
// The number is normalized to digits before sending.
func (h *IntegrationHandler) SendWhatsApp(c echo.Context) error {
	var req SendWhatsAppRequest
	if err := c.Bind(&req); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	number, err := phone.WhatsAppNumber(req.Number, "")
	if err != nil {
		return errors.Respond(c, domain.NewValidationError("Invalid phone number"))
	}

	if err := h.whatsapp.SendText(c.Request().Context(), number, req.Message); err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// WhatsAppQR returns the pairing QR code for the configured instance
func (h *IntegrationHandler) WhatsAppQR(c echo.Context) error {
	instance := c.QueryParam("instance")
	if instance == "" {
		instance = h.whatsapp.Instance()
	}

	qr, err := h.whatsapp.GenerateQRCode(c.Request().Context(), instance)
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, qr)
}
