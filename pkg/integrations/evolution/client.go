// Package evolution wraps the Evolution API for WhatsApp: instance
// lifecycle, QR pairing and message sending.
package evolution

import (
	"context"
	"strings"

	"github.com/jordanlanch/brokerhub/pkg/integrations"
	"github.com/jordanlanch/brokerhub/pkg/logger"
)

// Client calls an Evolution API server for one WhatsApp instance
type Client struct {
	api      *integrations.Client
	apiKey   string
	instance string
}

// New creates an Evolution API client bound to an instance name
func New(baseURL, apiKey, instanceName string, log logger.Logger) *Client {
	return &Client{
		api: integrations.NewClient(baseURL, map[string]string{
			"apikey": apiKey,
		}, log),
		apiKey:   apiKey,
		instance: instanceName,
	}
}

// API exposes the underlying client (used by tests)
func (c *Client) API() *integrations.Client {
	return c.api
}

// Instance returns the configured instance name
func (c *Client) Instance() string {
	return c.instance
}

// Name implements integrations.Checker
func (c *Client) Name() string {
	return "whatsapp"
}

// TestConnection verifies the server by checking the instance's
// connection state
func (c *Client) TestConnection(ctx context.Context) error {
	state, err := c.ConnectionState(ctx)
	if err != nil {
		return err
	}
	if state.State != "open" {
		return integrations.Translate(&integrations.APIError{
			StatusCode: 503,
			Body:       "instance " + c.instance + " is " + state.State,
		}, "Evolution Test Connection")
	}
	return nil
}

// InstanceInfo describes a WhatsApp instance
type InstanceInfo struct {
	Instance struct {
		InstanceName string `json:"instanceName"`
		Status       string `json:"status"`
	} `json:"instance"`
}

// CreateInstance provisions a new WhatsApp instance on the server
func (c *Client) CreateInstance(ctx context.Context, instanceName string) (*InstanceInfo, error) {
	payload := map[string]any{
		"instanceName":         instanceName,
		"token":                c.apiKey,
		"qrcode":               true,
		"markMessagesRead":     true,
		"delayMessage":         1000,
		"markOnlineOnConnect":  true,
		"msgRetryCounterValue": 3,
	}

	var info InstanceInfo
	if err := c.api.Post(ctx, "/instance/create", payload, &info); err != nil {
		return nil, integrations.Translate(err, "Evolution Create Instance")
	}
	return &info, nil
}

// DeleteInstance removes an instance
func (c *Client) DeleteInstance(ctx context.Context, instanceName string) error {
	return integrations.Translate(c.api.Delete(ctx, "/instance/delete/"+instanceName), "Evolution Delete Instance")
}

// RestartInstance restarts an instance
func (c *Client) RestartInstance(ctx context.Context, instanceName string) (*InstanceInfo, error) {
	var info InstanceInfo
	if err := c.api.Put(ctx, "/instance/restart/"+instanceName, nil, &info); err != nil {
		return nil, integrations.Translate(err, "Evolution Restart Instance")
	}
	return &info, nil
}

// LogoutInstance signs the instance out of WhatsApp
func (c *Client) LogoutInstance(ctx context.Context, instanceName string) error {
	return integrations.Translate(c.api.Delete(ctx, "/instance/logout/"+instanceName), "Evolution Logout Instance")
}

// QRCode is a pairing code for linking a phone
type QRCode struct {
	Base64 string `json:"base64"`
	Code   string `json:"code"`
	Count  int    `json:"count"`
}

// GenerateQRCode requests a pairing QR for the instance
func (c *Client) GenerateQRCode(ctx context.Context, instanceName string) (*QRCode, error) {
	var qr QRCode
	if err := c.api.Get(ctx, "/instance/connect/"+instanceName, nil, &qr); err != nil {
		return nil, integrations.Translate(err, "Evolution Generate QR Code")
	}
	return &qr, nil
}

// ConnectionStateInfo is the instance's live connection state
type ConnectionStateInfo struct {
	Instance string `json:"instance"`
	State    string `json:"state"`
}

// ConnectionState fetches the configured instance's connection state
func (c *Client) ConnectionState(ctx context.Context) (*ConnectionStateInfo, error) {
	var state ConnectionStateInfo
	if err := c.api.Get(ctx, "/instance/connectionState/"+c.instance, nil, &state); err != nil {
		return nil, integrations.Translate(err, "Evolution Connection State")
	}
	return &state, nil
}

// digits strips everything but digits from a phone number
func digits(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type sendOptions struct {
	Delay       int    `json:"delay"`
	Presence    string `json:"presence"`
	LinkPreview bool   `json:"linkPreview,omitempty"`
}

func defaultSendOptions() sendOptions {
	return sendOptions{Delay: 1200, Presence: "composing"}
}

// SendText sends a plain text message
func (c *Client) SendText(ctx context.Context, number, text string) error {
	payload := map[string]any{
		"number":  digits(number),
		"options": defaultSendOptions(),
		"textMessage": map[string]string{
			"text": text,
		},
	}
	return integrations.Translate(c.api.Post(ctx, "/message/sendText/"+c.instance, payload, nil), "Evolution Send Text")
}

// SendMedia sends an image, document, audio or video by URL
func (c *Client) SendMedia(ctx context.Context, number, mediaURL, mediaType, caption, fileName string) error {
	media := map[string]string{
		"mediatype": mediaType,
		"media":     mediaURL,
	}
	if caption != "" {
		media["caption"] = caption
	}
	if fileName != "" {
		media["fileName"] = fileName
	}

	payload := map[string]any{
		"number":       digits(number),
		"options":      defaultSendOptions(),
		"mediaMessage": media,
	}
	return integrations.Translate(c.api.Post(ctx, "/message/sendMedia/"+c.instance, payload, nil), "Evolution Send Media")
}

// SendLocation shares a map pin
func (c *Client) SendLocation(ctx context.Context, number string, latitude, longitude float64, name, address string) error {
	if name == "" {
		name = "Ubicación"
	}
	payload := map[string]any{
		"number":  digits(number),
		"options": defaultSendOptions(),
		"locationMessage": map[string]any{
			"latitude":  latitude,
			"longitude": longitude,
			"name":      name,
			"address":   address,
		},
	}
	return integrations.Translate(c.api.Post(ctx, "/message/sendLocation/"+c.instance, payload, nil), "Evolution Send Location")
}

// SendContact shares a contact card
func (c *Client) SendContact(ctx context.Context, number, contactName, contactNumber string) error {
	payload := map[string]any{
		"number":  digits(number),
		"options": defaultSendOptions(),
		"contactMessage": []map[string]string{
			{
				"fullName":    contactName,
				"wuid":        digits(contactNumber),
				"phoneNumber": digits(contactNumber),
			},
		},
	}
	return integrations.Translate(c.api.Post(ctx, "/message/sendContact/"+c.instance, payload, nil), "Evolution Send Contact")
}

// BulkResult reports the outcome of one message in a bulk send
type BulkResult struct {
	Number string `json:"number"`
	Sent   bool   `json:"sent"`
	Error  string `json:"error,omitempty"`
}

// SendBulkText sends the same text to several numbers. Failures do not
// stop the batch; each number gets its own result.
func (c *Client) SendBulkText(ctx context.Context, numbers []string, text string) []BulkResult {
	results := make([]BulkResult, 0, len(numbers))
	for _, number := range numbers {
		result := BulkResult{Number: number}
		if err := c.SendText(ctx, number, text); err != nil {
			result.Error = err.Error()
		} else {
			result.Sent = true
		}
		results = append(results, result)
	}
	return results
}

// ChatMessage is one message in a conversation history
type ChatMessage struct {
	Key struct {
		RemoteJID string `json:"remoteJid"`
		FromMe    bool   `json:"fromMe"`
		ID        string `json:"id"`
	} `json:"key"`
	Message          map[string]any `json:"message"`
	MessageTimestamp int64          `json:"messageTimestamp"`
}

// FetchChatMessages returns the stored conversation with a number,
// newest first, capped at limit
func (c *Client) FetchChatMessages(ctx context.Context, number string, limit int) ([]ChatMessage, error) {
	payload := map[string]any{
		"where": map[string]any{
			"key": map[string]any{
				"remoteJid": digits(number) + "@s.whatsapp.net",
			},
		},
		"limit": limit,
	}

	var messages []ChatMessage
	if err := c.api.Post(ctx, "/chat/findMessages/"+c.instance, payload, &messages); err != nil {
		return nil, integrations.Translate(err, "Evolution Fetch Chat Messages")
	}
	return messages, nil
}

// SetWebhook points the instance's event webhook at a URL
func (c *Client) SetWebhook(ctx context.Context, webhookURL string, events []string) error {
	payload := map[string]any{
		"url":      webhookURL,
		"enabled":  true,
		"events":   events,
		"byEvents": false,
	}
	return integrations.Translate(c.api.Post(ctx, "/webhook/set/"+c.instance, payload, nil), "Evolution Set Webhook")
}
