// Package vapi wraps the VAPI voice-assistant API: outbound calls,
// assistants, phone numbers and call analytics.
package vapi

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"github.com/jordanlanch/brokerhub/pkg/integrations"
	"github.com/jordanlanch/brokerhub/pkg/logger"
)

// Client calls the VAPI API
type Client struct {
	api                *integrations.Client
	defaultAssistantID string
}

// New creates a VAPI client
func New(baseURL, apiKey, defaultAssistantID string, log logger.Logger) *Client {
	return &Client{
		api: integrations.NewClient(baseURL, map[string]string{
			"Authorization": "Bearer " + apiKey,
		}, log),
		defaultAssistantID: defaultAssistantID,
	}
}

// API exposes the underlying client (used by tests)
func (c *Client) API() *integrations.Client {
	return c.api
}

// Name implements integrations.Checker
func (c *Client) Name() string {
	return "vapi"
}

// TestConnection verifies credentials by listing assistants
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.ListAssistants(ctx)
	return err
}

// Customer identifies the person being called
type Customer struct {
	Number string `json:"number,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

// Call is a VAPI call record
type Call struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	Type         string    `json:"type"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	AssistantID  string    `json:"assistantId"`
	Customer     *Customer `json:"customer,omitempty"`
	StartedAt    string    `json:"startedAt,omitempty"`
	EndedAt      string    `json:"endedAt,omitempty"`
	Cost         float64   `json:"cost,omitempty"`
	Transcript   string    `json:"transcript,omitempty"`
	RecordingURL string    `json:"recordingUrl,omitempty"`
	Summary      string    `json:"summary,omitempty"`
}

// NewCall is the payload for placing an outbound call
type NewCall struct {
	PhoneNumber string    `json:"phoneNumber"`
	AssistantID string    `json:"assistantId"`
	Customer    *Customer `json:"customer,omitempty"`
}

// CreateCall places an outbound call. When no assistant is given the
// configured default is used.
func (c *Client) CreateCall(ctx context.Context, call NewCall) (*Call, error) {
	if call.AssistantID == "" {
		call.AssistantID = c.defaultAssistantID
	}

	var created Call
	if err := c.api.Post(ctx, "/call", call, &created); err != nil {
		return nil, integrations.Translate(err, "VAPI Create Call")
	}
	return &created, nil
}

// CallQuery filters call listings
type CallQuery struct {
	Limit       int
	CreatedAtGt string
	CreatedAtLt string
	AssistantID string
}

// ListCalls fetches call records
func (c *Client) ListCalls(ctx context.Context, q CallQuery) ([]Call, error) {
	params := url.Values{}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.CreatedAtGt != "" {
		params.Set("createdAtGt", q.CreatedAtGt)
	}
	if q.CreatedAtLt != "" {
		params.Set("createdAtLt", q.CreatedAtLt)
	}
	if q.AssistantID != "" {
		params.Set("assistantId", q.AssistantID)
	}

	var calls []Call
	if err := c.api.Get(ctx, "/call", params, &calls); err != nil {
		return nil, integrations.Translate(err, "VAPI List Calls")
	}
	return calls, nil
}

// GetCall fetches one call record
func (c *Client) GetCall(ctx context.Context, callID string) (*Call, error) {
	var call Call
	if err := c.api.Get(ctx, "/call/"+callID, nil, &call); err != nil {
		return nil, integrations.Translate(err, "VAPI Get Call")
	}
	return &call, nil
}

// EndCall hangs up an in-progress call
func (c *Client) EndCall(ctx context.Context, callID string) (*Call, error) {
	var call Call
	if err := c.api.Post(ctx, "/call/"+callID+"/end", nil, &call); err != nil {
		return nil, integrations.Translate(err, "VAPI End Call")
	}
	return &call, nil
}

// ScheduleCall queues an outbound call for a later time
func (c *Client) ScheduleCall(ctx context.Context, phoneNumber, scheduledAt, assistantID string, customer *Customer) error {
	if assistantID == "" {
		assistantID = c.defaultAssistantID
	}
	payload := map[string]any{
		"phoneNumber": phoneNumber,
		"scheduledAt": scheduledAt,
		"assistantId": assistantID,
	}
	if customer != nil {
		payload["customer"] = customer
	}
	return integrations.Translate(c.api.Post(ctx, "/call/schedule", payload, nil), "VAPI Schedule Call")
}

// BulkCallResult reports the outcome of one call in a bulk batch
type BulkCallResult struct {
	PhoneNumber string `json:"phoneNumber"`
	CallID      string `json:"callId,omitempty"`
	Error       string `json:"error,omitempty"`
}

// CreateBulkCalls places several outbound calls concurrently. A failed
// call does not abort the batch; results keep the input order.
func (c *Client) CreateBulkCalls(ctx context.Context, calls []NewCall) []BulkCallResult {
	results := make([]BulkCallResult, len(calls))

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call NewCall) {
			defer wg.Done()
			results[i].PhoneNumber = call.PhoneNumber
			created, err := c.CreateCall(ctx, call)
			if err != nil {
				results[i].Error = err.Error()
				return
			}
			results[i].CallID = created.ID
		}(i, call)
	}
	wg.Wait()

	return results
}

// Model configures an assistant's LLM
type Model struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"maxTokens,omitempty"`
}

// Voice configures an assistant's TTS voice
type Voice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

// Assistant is a VAPI voice assistant
type Assistant struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	Model         Model  `json:"model"`
	Voice         Voice  `json:"voice"`
	FirstMessage  string `json:"firstMessage,omitempty"`
	SystemMessage string `json:"systemMessage,omitempty"`
}

// ListAssistants fetches all assistants
func (c *Client) ListAssistants(ctx context.Context) ([]Assistant, error) {
	var assistants []Assistant
	if err := c.api.Get(ctx, "/assistant", nil, &assistants); err != nil {
		return nil, integrations.Translate(err, "VAPI List Assistants")
	}
	return assistants, nil
}

// GetAssistant fetches one assistant
func (c *Client) GetAssistant(ctx context.Context, assistantID string) (*Assistant, error) {
	var assistant Assistant
	if err := c.api.Get(ctx, "/assistant/"+assistantID, nil, &assistant); err != nil {
		return nil, integrations.Translate(err, "VAPI Get Assistant")
	}
	return &assistant, nil
}

// CreateAssistant creates an assistant
func (c *Client) CreateAssistant(ctx context.Context, assistant Assistant) (*Assistant, error) {
	var created Assistant
	if err := c.api.Post(ctx, "/assistant", assistant, &created); err != nil {
		return nil, integrations.Translate(err, "VAPI Create Assistant")
	}
	return &created, nil
}

// UpdateAssistant updates assistant fields
func (c *Client) UpdateAssistant(ctx context.Context, assistantID string, fields map[string]any) (*Assistant, error) {
	var updated Assistant
	if err := c.api.Put(ctx, "/assistant/"+assistantID, fields, &updated); err != nil {
		return nil, integrations.Translate(err, "VAPI Update Assistant")
	}
	return &updated, nil
}

// DeleteAssistant removes an assistant
func (c *Client) DeleteAssistant(ctx context.Context, assistantID string) error {
	return integrations.Translate(c.api.Delete(ctx, "/assistant/"+assistantID), "VAPI Delete Assistant")
}

// PhoneNumber is a provisioned VAPI number
type PhoneNumber struct {
	ID     string `json:"id"`
	Number string `json:"number"`
}

// ListPhoneNumbers fetches provisioned numbers
func (c *Client) ListPhoneNumbers(ctx context.Context) ([]PhoneNumber, error) {
	var numbers []PhoneNumber
	if err := c.api.Get(ctx, "/phone-number", nil, &numbers); err != nil {
		return nil, integrations.Translate(err, "VAPI List Phone Numbers")
	}
	return numbers, nil
}

// AnalyticsQuery filters call analytics
type AnalyticsQuery struct {
	StartDate   string
	EndDate     string
	AssistantID string
}

// CallAnalytics fetches aggregated call metrics
func (c *Client) CallAnalytics(ctx context.Context, q AnalyticsQuery) (map[string]any, error) {
	params := url.Values{}
	if q.StartDate != "" {
		params.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("endDate", q.EndDate)
	}
	if q.AssistantID != "" {
		params.Set("assistantId", q.AssistantID)
	}

	var analytics map[string]any
	if err := c.api.Get(ctx, "/analytics/calls", params, &analytics); err != nil {
		return nil, integrations.Translate(err, "VAPI Call Analytics")
	}
	return analytics, nil
}

// GetCallTranscript returns the transcript of a finished call
func (c *Client) GetCallTranscript(ctx context.Context, callID string) (string, error) {
	call, err := c.GetCall(ctx, callID)
	if err != nil {
		return "", err
	}
	return call.Transcript, nil
}

// GetCallRecording returns the recording URL of a finished call
func (c *Client) GetCallRecording(ctx context.Context, callID string) (string, error) {
	call, err := c.GetCall(ctx, callID)
	if err != nil {
		return "", err
	}
	return call.RecordingURL, nil
}
