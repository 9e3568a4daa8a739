// Package n8n wraps the n8n automation API and the webhook entry
// points of the AI workflows: script generation, lead processing,
// WhatsApp sends, follow-up scheduling, call analysis and lead scoring.
package n8n

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jordanlanch/brokerhub/pkg/integrations"
	"github.com/jordanlanch/brokerhub/pkg/logger"
)

// Webhook paths for the AI workflows
const (
	WebhookGenerateScript      = "generate-script"
	WebhookProcessLead         = "process-lead"
	WebhookSendWhatsApp        = "send-whatsapp"
	WebhookScheduleFollowUp    = "schedule-followup"
	WebhookAnalyzeCall         = "analyze-call"
	WebhookLeadScoring         = "lead-scoring"
	WebhookWorkflowAnalytics   = "workflow-analytics"
	WebhookUpdateKnowledgeBase = "update-knowledge-base"
)

// Client calls the n8n REST API and its webhook endpoints. Webhooks
// live on a separate base URL and carry no API key.
type Client struct {
	api      *integrations.Client
	webhooks *integrations.Client
}

// New creates an n8n client
func New(baseURL, apiKey, webhookURL string, log logger.Logger) *Client {
	return &Client{
		api: integrations.NewClient(baseURL, map[string]string{
			"X-N8N-API-KEY": apiKey,
		}, log),
		webhooks: integrations.NewClient(webhookURL, nil, log),
	}
}

// API exposes the underlying REST client (used by tests)
func (c *Client) API() *integrations.Client {
	return c.api
}

// Webhooks exposes the underlying webhook client (used by tests)
func (c *Client) Webhooks() *integrations.Client {
	return c.webhooks
}

// Name implements integrations.Checker
func (c *Client) Name() string {
	return "n8n"
}

// TestConnection verifies credentials by listing workflows
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.ListWorkflows(ctx)
	return err
}

// Workflow is an n8n workflow
type Workflow struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Active    bool     `json:"active"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
	Tags      []string `json:"tags,omitempty"`
}

// ListWorkflows fetches all workflows
func (c *Client) ListWorkflows(ctx context.Context) ([]Workflow, error) {
	var resp struct {
		Data []Workflow `json:"data"`
	}
	if err := c.api.Get(ctx, "/workflows", nil, &resp); err != nil {
		return nil, integrations.Translate(err, "n8n List Workflows")
	}
	return resp.Data, nil
}

// GetWorkflow fetches one workflow
func (c *Client) GetWorkflow(ctx context.Context, workflowID string) (*Workflow, error) {
	var wf Workflow
	if err := c.api.Get(ctx, "/workflows/"+workflowID, nil, &wf); err != nil {
		return nil, integrations.Translate(err, "n8n Get Workflow")
	}
	return &wf, nil
}

// ActivateWorkflow turns a workflow on
func (c *Client) ActivateWorkflow(ctx context.Context, workflowID string) (*Workflow, error) {
	var wf Workflow
	if err := c.api.Post(ctx, "/workflows/"+workflowID+"/activate", nil, &wf); err != nil {
		return nil, integrations.Translate(err, "n8n Activate Workflow")
	}
	return &wf, nil
}

// DeactivateWorkflow turns a workflow off
func (c *Client) DeactivateWorkflow(ctx context.Context, workflowID string) (*Workflow, error) {
	var wf Workflow
	if err := c.api.Post(ctx, "/workflows/"+workflowID+"/deactivate", nil, &wf); err != nil {
		return nil, integrations.Translate(err, "n8n Deactivate Workflow")
	}
	return &wf, nil
}

// DeleteWorkflow removes a workflow
func (c *Client) DeleteWorkflow(ctx context.Context, workflowID string) error {
	return integrations.Translate(c.api.Delete(ctx, "/workflows/"+workflowID), "n8n Delete Workflow")
}

// Execution is one run of a workflow
type Execution struct {
	ID         string `json:"id"`
	WorkflowID string `json:"workflowId"`
	Mode       string `json:"mode"`
	Status     string `json:"status"`
	StartedAt  string `json:"startedAt"`
	StoppedAt  string `json:"stoppedAt,omitempty"`
}

// ExecutionQuery filters execution listings
type ExecutionQuery struct {
	WorkflowID string
	Status     string
	Limit      int
}

// ListExecutions fetches workflow runs
func (c *Client) ListExecutions(ctx context.Context, q ExecutionQuery) ([]Execution, error) {
	params := url.Values{}
	if q.WorkflowID != "" {
		params.Set("workflowId", q.WorkflowID)
	}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	var resp struct {
		Data []Execution `json:"data"`
	}
	if err := c.api.Get(ctx, "/executions", params, &resp); err != nil {
		return nil, integrations.Translate(err, "n8n List Executions")
	}
	return resp.Data, nil
}

// GetExecution fetches one run
func (c *Client) GetExecution(ctx context.Context, executionID string) (*Execution, error) {
	var ex Execution
	if err := c.api.Get(ctx, "/executions/"+executionID, nil, &ex); err != nil {
		return nil, integrations.Translate(err, "n8n Get Execution")
	}
	return &ex, nil
}

// DeleteExecution removes a run record
func (c *Client) DeleteExecution(ctx context.Context, executionID string) error {
	return integrations.Translate(c.api.Delete(ctx, "/executions/"+executionID), "n8n Delete Execution")
}

// RetryExecution re-runs a failed execution
func (c *Client) RetryExecution(ctx context.Context, executionID string) (*Execution, error) {
	var ex Execution
	if err := c.api.Post(ctx, "/executions/"+executionID+"/retry", nil, &ex); err != nil {
		return nil, integrations.Translate(err, "n8n Retry Execution")
	}
	return &ex, nil
}

// RunWorkflow starts a workflow with input data
func (c *Client) RunWorkflow(ctx context.Context, workflowID string, input map[string]any) (*Execution, error) {
	payload := map[string]any{
		"workflowId": workflowID,
		"data":       input,
	}
	if input == nil {
		payload["data"] = map[string]any{}
	}

	var ex Execution
	if err := c.api.Post(ctx, "/workflows/run", payload, &ex); err != nil {
		return nil, integrations.Translate(err, "n8n Run Workflow")
	}
	return &ex, nil
}

// TriggerWebhook posts a payload to a workflow webhook path and
// decodes the workflow's response into out
func (c *Client) TriggerWebhook(ctx context.Context, path string, payload, out any) error {
	return integrations.Translate(c.webhooks.Post(ctx, "/"+path, payload, out), "n8n Trigger Webhook")
}

// LeadInfo describes a lead for the AI workflows
type LeadInfo struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Budget    float64  `json:"budget"`
	Interests []string `json:"interests"`
	Source    string   `json:"source"`
}

// GeneratedScript is the generate-script workflow's response
type GeneratedScript struct {
	Script    string   `json:"script"`
	Variables []string `json:"variables"`
}

// GenerateScript asks the AI workflow to write a sales script for a lead
func (c *Client) GenerateScript(ctx context.Context, lead LeadInfo, scriptType, scriptContext string) (*GeneratedScript, error) {
	payload := map[string]any{
		"leadInfo":   lead,
		"scriptType": scriptType,
	}
	if scriptContext != "" {
		payload["context"] = scriptContext
	}

	var script GeneratedScript
	if err := c.TriggerWebhook(ctx, WebhookGenerateScript, payload, &script); err != nil {
		return nil, err
	}
	return &script, nil
}

// ProcessLead pushes a new lead through the enrichment workflow
func (c *Client) ProcessLead(ctx context.Context, contactID, source string, interests []string, budget float64, notes string) error {
	payload := map[string]any{
		"contactId": contactID,
		"source":    source,
		"interests": interests,
		"budget":    budget,
	}
	if notes != "" {
		payload["notes"] = notes
	}
	return c.TriggerWebhook(ctx, WebhookProcessLead, payload, nil)
}

// SendWhatsApp relays a WhatsApp message through the messaging workflow
func (c *Client) SendWhatsApp(ctx context.Context, phoneNumber, message string) error {
	payload := map[string]string{
		"phoneNumber": phoneNumber,
		"message":     message,
	}
	return c.TriggerWebhook(ctx, WebhookSendWhatsApp, payload, nil)
}

// ScheduleFollowUp books a future touchpoint for a contact
func (c *Client) ScheduleFollowUp(ctx context.Context, contactID, followUpType, scheduledAt, message, assignedTo string) error {
	payload := map[string]string{
		"contactId":   contactID,
		"type":        followUpType,
		"scheduledAt": scheduledAt,
	}
	if message != "" {
		payload["message"] = message
	}
	if assignedTo != "" {
		payload["assignedTo"] = assignedTo
	}
	return c.TriggerWebhook(ctx, WebhookScheduleFollowUp, payload, nil)
}

// CallAnalysis is the analyze-call workflow's response
type CallAnalysis struct {
	Sentiment  string   `json:"sentiment"`
	KeyTopics  []string `json:"keyTopics"`
	NextAction string   `json:"nextAction"`
	Score      int      `json:"score"`
}

// AnalyzeCall sends a call transcript through the analysis workflow
func (c *Client) AnalyzeCall(ctx context.Context, callID, transcript string, lead LeadInfo) (*CallAnalysis, error) {
	payload := map[string]any{
		"callId":     callID,
		"transcript": transcript,
		"leadInfo":   lead,
	}

	var analysis CallAnalysis
	if err := c.TriggerWebhook(ctx, WebhookAnalyzeCall, payload, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// LeadScore is the lead-scoring workflow's response
type LeadScore struct {
	Score           int      `json:"score"`
	Factors         []string `json:"factors"`
	Recommendations []string `json:"recommendations"`
}

// ScoreLead asks the scoring workflow to grade a contact
func (c *Client) ScoreLead(ctx context.Context, contactID string, data map[string]any) (*LeadScore, error) {
	payload := map[string]any{"contactId": contactID}
	for k, v := range data {
		payload[k] = v
	}

	var score LeadScore
	if err := c.TriggerWebhook(ctx, WebhookLeadScoring, payload, &score); err != nil {
		return nil, err
	}
	return &score, nil
}

// WorkflowAnalytics fetches run metrics for a workflow through the
// analytics webhook
func (c *Client) WorkflowAnalytics(ctx context.Context, workflowID, startDate, endDate string) (map[string]any, error) {
	payload := map[string]string{"workflowId": workflowID}
	if startDate != "" {
		payload["startDate"] = startDate
	}
	if endDate != "" {
		payload["endDate"] = endDate
	}

	var analytics map[string]any
	if err := c.TriggerWebhook(ctx, WebhookWorkflowAnalytics, payload, &analytics); err != nil {
		return nil, err
	}
	return analytics, nil
}

// UpdateKnowledgeBase pushes new content into the AI knowledge base
func (c *Client) UpdateKnowledgeBase(ctx context.Context, category, content string, tags []string, priority string) error {
	payload := map[string]any{
		"category": category,
		"content":  content,
		"tags":     tags,
		"priority": priority,
	}
	return c.TriggerWebhook(ctx, WebhookUpdateKnowledgeBase, payload, nil)
}
