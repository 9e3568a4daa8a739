package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/brokerhub/pkg/api/errors"
	"github.com/jordanlanch/brokerhub/pkg/configstore"
	"github.com/jordanlanch/brokerhub/pkg/metrics"
	"github.com/jordanlanch/brokerhub/pkg/models"
)

// APIConfigPatch holds partial updates for an API configuration
type APIConfigPatch struct {
	Name     *string            `json:"name,omitempty" validate:"omitempty,min=1"`
	Type     *string            `json:"type,omitempty" validate:"omitempty,oneof=ghl vapi n8n whatsapp"`
	Config   *map[string]string `json:"config,omitempty"`
	IsActive *bool              `json:"isActive,omitempty"`
}

// WebhookPatch holds partial updates for a webhook configuration
type WebhookPatch struct {
	Name        *string            `json:"name,omitempty" validate:"omitempty,min=1"`
	Service     *string            `json:"service,omitempty"`
	URL         *string            `json:"url,omitempty" validate:"omitempty,url"`
	Events      *[]string          `json:"events,omitempty"`
	IsActive    *bool              `json:"isActive,omitempty"`
	Description *string            `json:"description,omitempty"`
	Headers     *map[string]string `json:"headers,omitempty"`
	Secret      *string            `json:"secret,omitempty"`
}

// ConfigurationHandler handles integration and webhook configuration
// endpoints
type ConfigurationHandler struct {
	configs   *configstore.Service
	metrics   *metrics.Metrics
	validator *validator.Validate
}

// NewConfigurationHandler creates a new configuration handler
func NewConfigurationHandler(cs *configstore.Service, m *metrics.Metrics) *ConfigurationHandler {
	return &ConfigurationHandler{configs: cs, metrics: m, validator: validator.New()}
}

// ListAPIs returns all API configurations
func (h *ConfigurationHandler) ListAPIs(c echo.Context) error {
	configs, err := h.configs.APIConfigurations(c.Request().Context())
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, configs)
}

// SaveAPI upserts an API configuration by name
func (h *ConfigurationHandler) SaveAPI(c echo.Context) error {
	var req configstore.SaveAPIInput
	if err := c.Bind(&req); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	saved, err := h.configs.SaveAPIConfiguration(c.Request().Context(), req)
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, saved)
}

// UpdateAPI applies a partial update to an API configuration
func (h *ConfigurationHandler) UpdateAPI(c echo.Context) error {
	var patch APIConfigPatch
	if err := c.Bind(&patch); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(patch); err != nil {
		return errors.ValidationError(c, err)
	}

	updated, found, err := h.configs.UpdateAPIConfiguration(c.Request().Context(), c.Param("id"), func(cfg *models.APIConfiguration) {
		if patch.Name != nil {
			cfg.Name = *patch.Name
		}
		if patch.Type != nil {
			cfg.Type = *patch.Type
		}
		if patch.Config != nil {
			cfg.Config = *patch.Config
		}
		if patch.IsActive != nil {
			cfg.IsActive = *patch.IsActive
		}
	})
	if err != nil {
		return errors.Respond(c, err)
	}
	if !found {
		return errors.NotFoundError(c)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteAPI removes an API configuration
func (h *ConfigurationHandler) DeleteAPI(c echo.Context) error {
	deleted, err := h.configs.DeleteAPIConfiguration(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}
	if !deleted {
		return errors.NotFoundError(c)
	}
	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// TestAPI probes the integration an API configuration points at
func (h *ConfigurationHandler) TestAPI(c echo.Context) error {
	ok, err := h.configs.TestAPIConfiguration(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": ok})
}

// ListWebhooks returns all webhook configurations
func (h *ConfigurationHandler) ListWebhooks(c echo.Context) error {
	webhooks, err := h.configs.WebhookConfigurations(c.Request().Context())
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, webhooks)
}

// SaveWebhook upserts a webhook configuration by name
func (h *ConfigurationHandler) SaveWebhook(c echo.Context) error {
	var req configstore.SaveWebhookInput
	if err := c.Bind(&req); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	saved, err := h.configs.SaveWebhookConfiguration(c.Request().Context(), req)
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, saved)
}

// UpdateWebhook applies a partial update to a webhook configuration
func (h *ConfigurationHandler) UpdateWebhook(c echo.Context) error {
	var patch WebhookPatch
	if err := c.Bind(&patch); err != nil {
		return errors.BindError(c, err)
	}
	if err := h.validator.Struct(patch); err != nil {
		return errors.ValidationError(c, err)
	}

	updated, found, err := h.configs.UpdateWebhookConfiguration(c.Request().Context(), c.Param("id"), func(w *models.WebhookConfiguration) {
		if patch.Name != nil {
			w.Name = *patch.Name
		}
		if patch.Service != nil {
			w.Service = *patch.Service
		}
		if patch.URL != nil {
			w.URL = *patch.URL
		}
		if patch.Events != nil {
			w.Events = *patch.Events
		}
		if patch.IsActive != nil {
			w.IsActive = *patch.IsActive
		}
		if patch.Description != nil {
			w.Description = *patch.Description
		}
		if patch.Headers != nil {
			w.Headers = *patch.Headers
		}
		if patch.Secret != nil {
			w.Secret = *patch.Secret
		}
	})
	if err != nil {
		return errors.Respond(c, err)
	}
	if !found {
		return errors.NotFoundError(c)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteWebhook removes a webhook configuration
func (h *ConfigurationHandler) DeleteWebhook(c echo.Context) error {
	deleted, err := h.configs.DeleteWebhookConfiguration(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}
	if !deleted {
		return errors.NotFoundError(c)
	}
	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// TestWebhook posts a test payload to a webhook target
func (h *ConfigurationHandler) TestWebhook(c echo.Context) error {
	ok, err := h.configs.TestWebhook(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.Respond(c, err)
	}

	h.metrics.RecordWebhookTest(ok)
	return c.JSON(http.StatusOK, map[string]bool{"success": ok})
}

// Export bundles every configuration record into one document
func (h *ConfigurationHandler) Export(c echo.Context) error {
	doc, err := h.configs.Export(c.Request().Context())
	if err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

// Import replaces all configuration records with the document's contents
func (h *ConfigurationHandler) Import(c echo.Context) error {
	var doc models.ConfigurationExport
	if err := c.Bind(&doc); err != nil {
		return errors.BindError(c, err)
	}

	if err := h.configs.Import(c.Request().Context(), doc); err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Configurations imported"})
}

// Reset restores the environment defaults
func (h *ConfigurationHandler) Reset(c echo.Context) error {
	if err := h.configs.ResetToDefaults(c.Request().Context()); err != nil {
		return errors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Configurations reset to defaults"})
}
