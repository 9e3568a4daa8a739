package configstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jordanlanch/brokerhub/config"
	"github.com/jordanlanch/brokerhub/pkg/domain"
	"github.com/jordanlanch/brokerhub/pkg/integrations"
	"github.com/jordanlanch/brokerhub/pkg/logger"
	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

const exportVersion = "1.0"

// CheckerFactory builds a connection checker out of a stored API
// configuration, so saved credentials (not just env vars) get tested
type CheckerFactory func(cfg models.APIConfiguration) integrations.Checker

// Service manages API and webhook configuration records. Unsaved
// state falls back to defaults derived from the environment.
type Service struct {
	store      *store.Store
	cfg        *config.Config
	newChecker CheckerFactory
	http       *http.Client
	logger     logger.Logger
	baseURL    string
	now        func() time.Time
}

// NewService creates a configuration service. baseURL is the public
// address of this API, used in default webhook URLs.
func NewService(st *store.Store, cfg *config.Config, factory CheckerFactory, baseURL string, log logger.Logger) *Service {
	return &Service{
		store:      st,
		cfg:        cfg,
		newChecker: factory,
		http:       &http.Client{Timeout: 10 * time.Second},
		logger:     log,
		baseURL:    baseURL,
		now:        time.Now,
	}
}

// WithHTTPClient swaps the webhook-test HTTP client (used by tests)
func (s *Service) WithHTTPClient(hc *http.Client) *Service {
	s.http = hc
	return s
}

// --- API configurations ---

// APIConfigurations returns the stored records, or the environment
// defaults when nothing has been saved yet
func (s *Service) APIConfigurations(ctx context.Context) ([]models.APIConfiguration, error) {
	configs, err := s.store.APIConfigurations(ctx)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return s.defaultAPIConfigurations(), nil
	}
	return configs, nil
}

// APIConfigurationByName finds a record by its unique name
func (s *Service) APIConfigurationByName(ctx context.Context, name string) (*models.APIConfiguration, error) {
	configs, err := s.APIConfigurations(ctx)
	if err != nil {
		return nil, err
	}
	for i := range configs {
		if configs[i].Name == name {
			return &configs[i], nil
		}
	}
	return nil, domain.NewNotFoundError("api configuration")
}

// SaveAPIInput is the payload for creating or replacing a record
type SaveAPIInput struct {
	Name     string            `json:"name" validate:"required"`
	Type     string            `json:"type" validate:"required,oneof=ghl vapi n8n whatsapp"`
	Config   map[string]string `json:"config" validate:"required"`
	IsActive bool              `json:"isActive"`
}

// SaveAPIConfiguration upserts a record by name. An existing record
// keeps its id and creation time.
func (s *Service) SaveAPIConfiguration(ctx context.Context, input SaveAPIInput) (*models.APIConfiguration, error) {
	now := s.now()
	saved := models.APIConfiguration{
		Name:      input.Name,
		Type:      input.Type,
		Config:    input.Config,
		IsActive:  input.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.store.MutateAPIConfigurations(ctx, func(configs []models.APIConfiguration) ([]models.APIConfiguration, error) {
		if len(configs) == 0 {
			configs = s.defaultAPIConfigurations()
		}
		for i := range configs {
			if configs[i].Name == input.Name {
				saved.ID = configs[i].ID
				saved.CreatedAt = configs[i].CreatedAt
				configs[i] = saved
				return configs, nil
			}
		}
		saved.ID = store.NewID()
		return append(configs, saved), nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpdateAPIConfiguration applies partial updates to a record by id.
// Returns false when the id is unknown.
func (s *Service) UpdateAPIConfiguration(ctx context.Context, id string, apply func(*models.APIConfiguration)) (*models.APIConfiguration, bool, error) {
	var updated *models.APIConfiguration
	err := s.store.MutateAPIConfigurations(ctx, func(configs []models.APIConfiguration) ([]models.APIConfiguration, error) {
		if len(configs) == 0 {
			configs = s.defaultAPIConfigurations()
		}
		for i := range configs {
			if configs[i].ID == id {
				apply(&configs[i])
				configs[i].UpdatedAt = s.now()
				updated = &configs[i]
				return configs, nil
			}
		}
		return configs, nil
	})
	if err != nil {
		return nil, false, err
	}
	return updated, updated != nil, nil
}

// DeleteAPIConfiguration removes a record by id. Returns false when
// the id is unknown.
func (s *Service) DeleteAPIConfiguration(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := s.store.MutateAPIConfigurations(ctx, func(configs []models.APIConfiguration) ([]models.APIConfiguration, error) {
		if len(configs) == 0 {
			configs = s.defaultAPIConfigurations()
		}
		kept := configs[:0]
		for _, c := range configs {
			if c.ID == id {
				deleted = true
				continue
			}
			kept = append(kept, c)
		}
		return kept, nil
	})
	return deleted, err
}

// TestAPIConfiguration probes the integration a record points at and
// stamps the result on the record
func (s *Service) TestAPIConfiguration(ctx context.Context, id string) (bool, error) {
	configs, err := s.APIConfigurations(ctx)
	if err != nil {
		return false, err
	}

	var target *models.APIConfiguration
	for i := range configs {
		if configs[i].ID == id {
			target = &configs[i]
			break
		}
	}
	if target == nil {
		return false, domain.NewNotFoundError("api configuration")
	}

	ok := false
	checker := s.newChecker(*target)
	if checker != nil {
		if err := checker.TestConnection(ctx); err != nil {
			s.logger.Warn("⚠️ Integration test failed", "name", target.Name, "error", err)
		} else {
			ok = true
		}
	}

	tested := s.now()
	_, _, err = s.UpdateAPIConfiguration(ctx, id, func(c *models.APIConfiguration) {
		c.LastTested = &tested
		result := ok
		c.TestResult = &result
	})
	if err != nil {
		return ok, err
	}
	return ok, nil
}

// --- Webhook configurations ---

// WebhookConfigurations returns the stored records, or the defaults
// when nothing has been saved yet
func (s *Service) WebhookConfigurations(ctx context.Context) ([]models.WebhookConfiguration, error) {
	webhooks, err := s.store.WebhookConfigurations(ctx)
	if err != nil {
		return nil, err
	}
	if len(webhooks) == 0 {
		return s.defaultWebhookConfigurations(), nil
	}
	return webhooks, nil
}

// SaveWebhookInput is the payload for creating or replacing a webhook
type SaveWebhookInput struct {
	Name        string            `json:"name" validate:"required"`
	Service     string            `json:"service" validate:"required"`
	URL         string            `json:"url" validate:"required,url"`
	Events      []string          `json:"events" validate:"required,min=1"`
	IsActive    bool              `json:"isActive"`
	Description string            `json:"description"`
	Headers     map[string]string `json:"headers"`
	Secret      string            `json:"secret"`
}

// SaveWebhookConfiguration upserts a webhook by name. An existing
// record keeps its id, creation time and call statistics; a new one
// starts at zero calls and a 100% success rate.
func (s *Service) SaveWebhookConfiguration(ctx context.Context, input SaveWebhookInput) (*models.WebhookConfiguration, error) {
	now := s.now()
	saved := models.WebhookConfiguration{
		Name:        input.Name,
		Service:     input.Service,
		URL:         input.URL,
		Events:      input.Events,
		IsActive:    input.IsActive,
		Description: input.Description,
		Headers:     input.Headers,
		Secret:      input.Secret,
		CreatedAt:   now,
		UpdatedAt:   now,
		TotalCalls:  0,
		SuccessRate: 100,
	}

	err := s.store.MutateWebhookConfigurations(ctx, func(webhooks []models.WebhookConfiguration) ([]models.WebhookConfiguration, error) {
		if len(webhooks) == 0 {
			webhooks = s.defaultWebhookConfigurations()
		}
		for i := range webhooks {
			if webhooks[i].Name == input.Name {
				saved.ID = webhooks[i].ID
				saved.CreatedAt = webhooks[i].CreatedAt
				saved.TotalCalls = webhooks[i].TotalCalls
				saved.SuccessRate = webhooks[i].SuccessRate
				webhooks[i] = saved
				return webhooks, nil
			}
		}
		saved.ID = store.NewID()
		return append(webhooks, saved), nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpdateWebhookConfiguration applies partial updates to a webhook by
// id. Returns false when the id is unknown.
func (s *Service) UpdateWebhookConfiguration(ctx context.Context, id string, apply func(*models.WebhookConfiguration)) (*models.WebhookConfiguration, bool, error) {
	var updated *models.WebhookConfiguration
	err := s.store.MutateWebhookConfigurations(ctx, func(webhooks []models.WebhookConfiguration) ([]models.WebhookConfiguration, error) {
		if len(webhooks) == 0 {
			webhooks = s.defaultWebhookConfigurations()
		}
		for i := range webhooks {
			if webhooks[i].ID == id {
				apply(&webhooks[i])
				webhooks[i].UpdatedAt = s.now()
				updated = &webhooks[i]
				return webhooks, nil
			}
		}
		return webhooks, nil
	})
	if err != nil {
		return nil, false, err
	}
	return updated, updated != nil, nil
}

// DeleteWebhookConfiguration removes a webhook by id. Returns false
// when the id is unknown.
func (s *Service) DeleteWebhookConfiguration(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := s.store.MutateWebhookConfigurations(ctx, func(webhooks []models.WebhookConfiguration) ([]models.WebhookConfiguration, error) {
		if len(webhooks) == 0 {
			webhooks = s.defaultWebhookConfigurations()
		}
		kept := webhooks[:0]
		for _, w := range webhooks {
			if w.ID == id {
				deleted = true
				continue
			}
			kept = append(kept, w)
		}
		return kept, nil
	})
	return deleted, err
}

// TestWebhook posts a test payload to a webhook target and updates
// its call statistics. A 2xx answer nudges the success rate up one
// point (capped at 100), any other answer down one (floored at 0).
// A transport failure costs five points.
func (s *Service) TestWebhook(ctx context.Context, id string) (bool, error) {
	webhooks, err := s.WebhookConfigurations(ctx)
	if err != nil {
		return false, err
	}

	var target *models.WebhookConfiguration
	for i := range webhooks {
		if webhooks[i].ID == id {
			target = &webhooks[i]
			break
		}
	}
	if target == nil {
		return false, domain.NewNotFoundError("webhook configuration")
	}

	payload := map[string]any{
		"test":      true,
		"timestamp": s.now().Format(time.RFC3339),
		"source":    "real_estate_dashboard",
		"data": map[string]string{
			"message": "Test webhook from Real Estate Dashboard",
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return false, domain.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, bytes.NewReader(body))
	if err != nil {
		return false, domain.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range target.Headers {
		req.Header.Set(k, v)
	}
	if target.Secret != "" {
		req.Header.Set("X-Webhook-Secret", target.Secret)
	}

	triggered := s.now()
	resp, err := s.http.Do(req)
	if err != nil {
		s.logger.Warn("⚠️ Webhook test transport error", "name", target.Name, "error", err)
		_, _, uerr := s.UpdateWebhookConfiguration(ctx, id, func(w *models.WebhookConfiguration) {
			w.LastTriggered = &triggered
			w.TotalCalls++
			w.SuccessRate = max(0, w.SuccessRate-5)
		})
		if uerr != nil {
			return false, uerr
		}
		return false, nil
	}
	defer resp.Body.Close()

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	_, _, err = s.UpdateWebhookConfiguration(ctx, id, func(w *models.WebhookConfiguration) {
		w.LastTriggered = &triggered
		w.TotalCalls++
		if success {
			w.SuccessRate = min(100, w.SuccessRate+1)
		} else {
			w.SuccessRate = max(0, w.SuccessRate-1)
		}
	})
	if err != nil {
		return success, err
	}
	return success, nil
}

// --- Export / Import ---

// Export bundles every configuration record into a portable document
func (s *Service) Export(ctx context.Context) (*models.ConfigurationExport, error) {
	apis, err := s.APIConfigurations(ctx)
	if err != nil {
		return nil, err
	}
	webhooks, err := s.WebhookConfigurations(ctx)
	if err != nil {
		return nil, err
	}

	return &models.ConfigurationExport{
		APIs:       apis,
		Webhooks:   webhooks,
		ExportedAt: s.now(),
		Version:    exportVersion,
	}, nil
}

// Import replaces all configuration records with the document's
// contents. When the second write fails the first is rolled back, so
// the two collections never end up half-imported.
func (s *Service) Import(ctx context.Context, doc models.ConfigurationExport) error {
	if doc.APIs == nil || doc.Webhooks == nil {
		return domain.NewBadRequestError("Invalid configuration file format")
	}

	backupAPIs, err := s.store.APIConfigurations(ctx)
	if err != nil {
		return err
	}
	backupWebhooks, err := s.store.WebhookConfigurations(ctx)
	if err != nil {
		return err
	}

	if err := s.store.SaveAPIConfigurations(ctx, doc.APIs); err != nil {
		return fmt.Errorf("failed importing api configurations: %w", err)
	}
	if err := s.store.SaveWebhookConfigurations(ctx, doc.Webhooks); err != nil {
		if rerr := s.store.SaveAPIConfigurations(ctx, backupAPIs); rerr != nil {
			s.logger.Error("❌ Failed rolling back api configurations", "error", rerr)
		}
		if rerr := s.store.SaveWebhookConfigurations(ctx, backupWebhooks); rerr != nil {
			s.logger.Error("❌ Failed rolling back webhook configurations", "error", rerr)
		}
		return fmt.Errorf("failed importing webhook configurations: %w", err)
	}

	s.logger.Info("✅ Configurations imported", "apis", len(doc.APIs), "webhooks", len(doc.Webhooks))
	return nil
}

// ResetToDefaults wipes the stored records so reads fall back to the
// environment defaults
func (s *Service) ResetToDefaults(ctx context.Context) error {
	if err := s.store.SaveAPIConfigurations(ctx, []models.APIConfiguration{}); err != nil {
		return err
	}
	return s.store.SaveWebhookConfigurations(ctx, []models.WebhookConfiguration{})
}

// --- Defaults ---

func (s *Service) defaultAPIConfigurations() []models.APIConfiguration {
	now := s.now()

	return []models.APIConfiguration{
		{
			ID:   "ghl-default",
			Name: "ghl",
			Type: models.IntegrationGHL,
			Config: map[string]string{
				"apiKey":     s.cfg.GHLAPIKey,
				"locationId": s.cfg.GHLLocationID,
				"baseUrl":    s.cfg.GHLBaseURL,
			},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:   "vapi-default",
			Name: "vapi",
			Type: models.IntegrationVAPI,
			Config: map[string]string{
				"apiKey":      s.cfg.VAPIAPIKey,
				"assistantId": s.cfg.VAPIAssistantID,
				"phoneNumber": s.cfg.VAPIPhoneNumber,
				"baseUrl":     s.cfg.VAPIBaseURL,
			},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:   "n8n-default",
			Name: "n8n",
			Type: models.IntegrationN8N,
			Config: map[string]string{
				"baseUrl":    s.cfg.N8NBaseURL,
				"apiKey":     s.cfg.N8NAPIKey,
				"webhookUrl": s.cfg.N8NWebhookURL,
			},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:   "whatsapp-default",
			Name: "whatsapp",
			Type: models.IntegrationWhatsApp,
			Config: map[string]string{
				"type":         "evolution-api",
				"baseUrl":      s.cfg.EvolutionBaseURL,
				"apiKey":       s.cfg.EvolutionAPIKey,
				"instanceName": s.cfg.EvolutionInstanceName,
			},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func (s *Service) defaultWebhookConfigurations() []models.WebhookConfiguration {
	now := s.now()

	return []models.WebhookConfiguration{
		{
			ID:          "ghl-leads-webhook",
			Name:        "GHL Leads Webhook",
			Service:     "ghl",
			URL:         s.baseURL + "/api/webhooks/ghl/leads",
			Events:      []string{"contact.create", "contact.update", "contact.delete"},
			IsActive:    true,
			Description: "Recibe notificaciones cuando se crean, actualizan o eliminan contactos en GoHighLevel",
			CreatedAt:   now,
			UpdatedAt:   now,
			TotalCalls:  1247,
			SuccessRate: 98.5,
		},
		{
			ID:          "ghl-appointments-webhook",
			Name:        "GHL Appointments Webhook",
			Service:     "ghl",
			URL:         s.baseURL + "/api/webhooks/ghl/appointments",
			Events:      []string{"appointment.create", "appointment.update", "appointment.cancel"},
			IsActive:    true,
			Description: "Sincroniza citas y eventos del calendario de GoHighLevel",
			CreatedAt:   now,
			UpdatedAt:   now,
			TotalCalls:  892,
			SuccessRate: 99.1,
		},
		{
			ID:          "vapi-calls-webhook",
			Name:        "VAPI Call Events Webhook",
			Service:     "vapi",
			URL:         s.baseURL + "/api/webhooks/vapi/calls",
			Events:      []string{"call.started", "call.ended", "call.transcript"},
			IsActive:    true,
			Description: "Procesa eventos de llamadas VAPI y transcripciones",
			CreatedAt:   now,
			UpdatedAt:   now,
			TotalCalls:  456,
			SuccessRate: 97.8,
		},
		{
			ID:          "whatsapp-messages-webhook",
			Name:        "WhatsApp Messages Webhook",
			Service:     "whatsapp",
			URL:         s.baseURL + "/api/webhooks/whatsapp/messages",
			Events:      []string{"message.received", "message.sent", "message.status"},
			IsActive:    true,
			Description: "Procesa mensajes entrantes y salientes de WhatsApp",
			CreatedAt:   now,
			UpdatedAt:   now,
			TotalCalls:  1567,
			SuccessRate: 99.3,
		},
	}
}
