package models

import "time"

// Integration types
const (
	IntegrationGHL      = "ghl"
	IntegrationVAPI     = "vapi"
	IntegrationN8N      = "n8n"
	IntegrationWhatsApp = "whatsapp"
)

// APIConfiguration is a named credential/settings bundle for one
// external integration. Records are upserted by name, so several
// configurations of the same type can coexist.
type APIConfiguration struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	Config     map[string]string `json:"config"`
	IsActive   bool              `json:"isActive"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	LastTested *time.Time        `json:"lastTested,omitempty"`
	TestResult *bool             `json:"testResult,omitempty"`
}

// WebhookConfiguration is a named outbound webhook target
type WebhookConfiguration struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Service       string            `json:"service"`
	URL           string            `json:"url"`
	Events        []string          `json:"events"`
	IsActive      bool              `json:"isActive"`
	Description   string            `json:"description,omitempty"`
	Headers       map[string]string `json:"headers,omitempty"`
	Secret        string            `json:"secret,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	LastTriggered *time.Time        `json:"lastTriggered,omitempty"`
	TotalCalls    int               `json:"totalCalls"`
	SuccessRate   float64           `json:"successRate"`
}

// ConfigurationExport is the export/import document for all
// configuration records
type ConfigurationExport struct {
	APIs       []APIConfiguration     `json:"apis"`
	Webhooks   []WebhookConfiguration `json:"webhooks"`
	ExportedAt time.Time              `json:"exportedAt"`
	Version    string                 `json:"version"`
}
