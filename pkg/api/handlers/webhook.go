package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/brokerhub/pkg/api/errors"
	"github.com/jordanlanch/brokerhub/pkg/logger"
	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

// GHLContactEvent is the payload GoHighLevel posts on contact changes
type GHLContactEvent struct {
	Type    string `json:"type"`
	Contact struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"contact"`
}

// GHLAppointmentEvent is the payload GoHighLevel posts on calendar changes
type GHLAppointmentEvent struct {
	Type        string `json:"type"`
	Appointment struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		StartTime string `json:"startTime"`
		ContactID string `json:"contactId"`
	} `json:"appointment"`
}

// VAPICallEvent is the payload VAPI posts on call lifecycle changes
type VAPICallEvent struct {
	Type string `json:"type"`
	Call struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		EndedAt    string `json:"endedAt"`
		Transcript string `json:"transcript"`
		Summary    string `json:"summary"`
	} `json:"call"`
}

// WhatsAppMessageEvent is the payload the WhatsApp gateway posts on
// message traffic
type WhatsAppMessageEvent struct {
	Event    string `json:"event"`
	Instance string `json:"instance"`
	Data     struct {
		RemoteJID string `json:"remoteJid"`
		FromMe    bool   `json:"fromMe"`
		Message   string `json:"message"`
	} `json:"data"`
}

// WebhookHandler receives inbound events from the external vendors
type WebhookHandler struct {
	store  *store.Store
	secret string
	logger logger.Logger
}

// NewWebhookHandler creates a new inbound webhook handler. An empty
// secret disables signature verification.
func NewWebhookHandler(st *store.Store, secret string, log logger.Logger) *WebhookHandler {
	return &WebhookHandler{store: st, secret: secret, logger: log}
}

func (h *WebhookHandler) verify(c echo.Context) bool {
	if h.secret == "" {
		return true
	}
	return c.Request().Header.Get("X-Webhook-Secret") == h.secret
}

func (h *WebhookHandler) reject(c echo.Context) error {
	h.logger.Warn("⚠️ Inbound webhook rejected", "path", c.Request().URL.Path)
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:   "invalid_secret",
		Message: "Webhook secret mismatch",
	})
}

// GHLLeads ingests contact events. A contact.create event becomes a
// new lead in the funnel.
func (h *WebhookHandler) GHLLeads(c echo.Context) error {
	if !h.verify(c) {
		return h.reject(c)
	}

	var event GHLContactEvent
	if err := c.Bind(&event); err != nil {
		return errors.BindError(c, err)
	}

	ctx := c.Request().Context()

	if event.Type == "contact.create" && event.Contact.Name != "" {
		lead, err := h.store.CreateLead(ctx, models.Lead{
			Name:     event.Contact.Name,
			Email:    event.Contact.Email,
			Phone:    normalizePhone(event.Contact.Phone),
			Source:   "GHL",
			Status:   models.LeadStatusNew,
			Priority: models.PriorityMedium,
		})
		if err != nil {
			return errors.Respond(c, err)
		}
		h.logger.Info("🆕 Lead created from GHL webhook", "leadId", lead.ID, "name", lead.Name)
	}

	if _, err := h.store.AppendActivity(ctx, models.Activity{
		Type:        "ghl_webhook",
		Title:       "Evento GHL: " + event.Type,
		Description: "Contacto: " + event.Contact.Name,
	}); err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// GHLAppointments ingests calendar events
func (h *WebhookHandler) GHLAppointments(c echo.Context) error {
	if !h.verify(c) {
		return h.reject(c)
	}

	var event GHLAppointmentEvent
	if err := c.Bind(&event); err != nil {
		return errors.BindError(c, err)
	}

	if _, err := h.store.AppendActivity(c.Request().Context(), models.Activity{
		Type:        "ghl_webhook",
		Title:       "Evento de cita GHL: " + event.Type,
		Description: "Cita: " + event.Appointment.Title,
	}); err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// VAPICalls ingests call lifecycle events. A call.ended event closes
// the matching tracked call and attaches the transcript.
func (h *WebhookHandler) VAPICalls(c echo.Context) error {
	if !h.verify(c) {
		return h.reject(c)
	}

	var event VAPICallEvent
	if err := c.Bind(&event); err != nil {
		return errors.BindError(c, err)
	}

	ctx := c.Request().Context()

	if event.Type == "call.ended" && event.Call.ID != "" {
		call, err := h.store.CallByVAPIID(ctx, event.Call.ID)
		if err == nil {
			now := time.Now()
			status := models.CallStatusCompleted
			patch := models.CallPatch{
				Status:  &status,
				EndTime: &now,
			}
			if call.StartTime != nil {
				duration := int(now.Sub(*call.StartTime).Seconds())
				patch.Duration = &duration
			}
			if event.Call.Transcript != "" || event.Call.Summary != "" {
				patch.AIAnalysis = &models.CallAIAnalysis{
					NextAction:    event.Call.Summary,
					Transcription: event.Call.Transcript,
				}
			}
			if _, err := h.store.UpdateCall(ctx, call.ID, patch); err != nil {
				return errors.Respond(c, err)
			}
			h.logger.Info("✅ Call finalized from VAPI webhook", "callId", call.ID, "vapiCallId", event.Call.ID)
		} else {
			h.logger.Warn("⚠️ VAPI webhook for unknown call", "vapiCallId", event.Call.ID)
		}
	}

	if _, err := h.store.AppendActivity(ctx, models.Activity{
		Type:        "vapi_webhook",
		Title:       "Evento VAPI: " + event.Type,
		Description: "Llamada: " + event.Call.ID,
	}); err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// WhatsAppMessages ingests message traffic events
func (h *WebhookHandler) WhatsAppMessages(c echo.Context) error {
	if !h.verify(c) {
		return h.reject(c)
	}

	var event WhatsAppMessageEvent
	if err := c.Bind(&event); err != nil {
		return errors.BindError(c, err)
	}

	direction := "recibido"
	if event.Data.FromMe {
		direction = "enviado"
	}

	if _, err := h.store.AppendActivity(c.Request().Context(), models.Activity{
		Type:        "whatsapp_webhook",
		Title:       "Mensaje WhatsApp " + direction,
		Description: "Contacto: " + event.Data.RemoteJID,
	}); err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
