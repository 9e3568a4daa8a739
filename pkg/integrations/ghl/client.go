// Package ghl wraps the GoHighLevel CRM API: contacts, pipelines,
// calendars, notes, tags and webhooks.
package ghl

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jordanlanch/brokerhub/pkg/integrations"
	"github.com/jordanlanch/brokerhub/pkg/logger"
)

// apiVersion is the Version header GoHighLevel requires on every call
const apiVersion = "2021-07-28"

// Client calls the GoHighLevel API for a single location
type Client struct {
	api        *integrations.Client
	locationID string
}

// New creates a GHL client
func New(baseURL, apiKey, locationID string, log logger.Logger) *Client {
	return &Client{
		api: integrations.NewClient(baseURL, map[string]string{
			"Authorization": "Bearer " + apiKey,
			"Version":       apiVersion,
		}, log),
		locationID: locationID,
	}
}

// API exposes the underlying client (used by tests)
func (c *Client) API() *integrations.Client {
	return c.api
}

// Name implements integrations.Checker
func (c *Client) Name() string {
	return "ghl"
}

// TestConnection verifies credentials by fetching the location
func (c *Client) TestConnection(ctx context.Context) error {
	err := c.api.Get(ctx, "/locations/"+c.locationID, nil, nil)
	return integrations.Translate(err, "GHL Test Connection")
}

// Contact is a GHL contact record
type Contact struct {
	ID        string   `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Source    string   `json:"source"`
	Tags      []string `json:"tags"`
}

// ContactList is a paginated contacts response
type ContactList struct {
	Contacts []Contact `json:"contacts"`
	Total    int       `json:"total"`
}

// ContactQuery filters contact listings
type ContactQuery struct {
	Limit     int
	Offset    int
	Query     string
	StartDate string
	EndDate   string
}

// ListContacts fetches contacts for the location
func (c *Client) ListContacts(ctx context.Context, q ContactQuery) (*ContactList, error) {
	limit := q.Limit
	if limit == 0 {
		limit = 50
	}
	params := url.Values{
		"locationId": {c.locationID},
		"limit":      {strconv.Itoa(limit)},
		"offset":     {strconv.Itoa(q.Offset)},
	}
	if q.Query != "" {
		params.Set("query", q.Query)
	}
	if q.StartDate != "" {
		params.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("endDate", q.EndDate)
	}

	var list ContactList
	if err := c.api.Get(ctx, "/contacts/", params, &list); err != nil {
		return nil, integrations.Translate(err, "GHL List Contacts")
	}
	return &list, nil
}

// NewContact is the payload for creating a contact
type NewContact struct {
	FirstName    string            `json:"firstName"`
	LastName     string            `json:"lastName"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	Source       string            `json:"source"`
	Tags         []string          `json:"tags"`
	CustomFields map[string]string `json:"customFields"`
}

// CreateContact creates a contact in the location
func (c *Client) CreateContact(ctx context.Context, contact NewContact) (*Contact, error) {
	if contact.Source == "" {
		contact.Source = "Manual"
	}
	if contact.Tags == nil {
		contact.Tags = []string{}
	}
	if contact.CustomFields == nil {
		contact.CustomFields = map[string]string{}
	}

	payload := struct {
		LocationID string `json:"locationId"`
		NewContact
	}{c.locationID, contact}

	var created Contact
	if err := c.api.Post(ctx, "/contacts/", payload, &created); err != nil {
		return nil, integrations.Translate(err, "GHL Create Contact")
	}
	return &created, nil
}

// UpdateContact updates contact fields
func (c *Client) UpdateContact(ctx context.Context, contactID string, fields map[string]any) (*Contact, error) {
	var updated Contact
	if err := c.api.Put(ctx, "/contacts/"+contactID, fields, &updated); err != nil {
		return nil, integrations.Translate(err, "GHL Update Contact")
	}
	return &updated, nil
}

// DeleteContact removes a contact
func (c *Client) DeleteContact(ctx context.Context, contactID string) error {
	return integrations.Translate(c.api.Delete(ctx, "/contacts/"+contactID), "GHL Delete Contact")
}

// Pipeline is a GHL sales pipeline
type Pipeline struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Stages []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"stages"`
}

// ListPipelines fetches the location's pipelines
func (c *Client) ListPipelines(ctx context.Context) ([]Pipeline, error) {
	var resp struct {
		Pipelines []Pipeline `json:"pipelines"`
	}
	params := url.Values{"locationId": {c.locationID}}
	if err := c.api.Get(ctx, "/opportunities/pipelines", params, &resp); err != nil {
		return nil, integrations.Translate(err, "GHL List Pipelines")
	}
	return resp.Pipelines, nil
}

// MoveContactToStage creates an opportunity placing a contact on a
// pipeline stage
func (c *Client) MoveContactToStage(ctx context.Context, contactID, pipelineID, stageID string) error {
	payload := map[string]string{
		"contactId":  contactID,
		"pipelineId": pipelineID,
		"stageId":    stageID,
		"locationId": c.locationID,
	}
	return integrations.Translate(c.api.Post(ctx, "/opportunities/", payload, nil), "GHL Move Contact To Stage")
}

// Calendar is a GHL booking calendar
type Calendar struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListCalendars fetches the location's calendars
func (c *Client) ListCalendars(ctx context.Context) ([]Calendar, error) {
	var resp struct {
		Calendars []Calendar `json:"calendars"`
	}
	params := url.Values{"locationId": {c.locationID}}
	if err := c.api.Get(ctx, "/calendars/", params, &resp); err != nil {
		return nil, integrations.Translate(err, "GHL List Calendars")
	}
	return resp.Calendars, nil
}

// Appointment is a calendar event
type Appointment struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	ContactID string `json:"contactId"`
	Location  string `json:"location"`
}

// AppointmentQuery filters appointment listings
type AppointmentQuery struct {
	CalendarID string
	StartDate  string
	EndDate    string
}

// ListAppointments fetches calendar events
func (c *Client) ListAppointments(ctx context.Context, q AppointmentQuery) ([]Appointment, error) {
	params := url.Values{"locationId": {c.locationID}}
	if q.CalendarID != "" {
		params.Set("calendarId", q.CalendarID)
	}
	if q.StartDate != "" {
		params.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("endDate", q.EndDate)
	}

	var resp struct {
		Events []Appointment `json:"events"`
	}
	if err := c.api.Get(ctx, "/calendars/events", params, &resp); err != nil {
		return nil, integrations.Translate(err, "GHL List Appointments")
	}
	return resp.Events, nil
}

// NewAppointment is the payload for booking an event
type NewAppointment struct {
	CalendarID  string `json:"calendarId"`
	ContactID   string `json:"contactId"`
	Title       string `json:"title"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// CreateAppointment books a calendar event
func (c *Client) CreateAppointment(ctx context.Context, appt NewAppointment) (*Appointment, error) {
	payload := struct {
		LocationID string `json:"locationId"`
		NewAppointment
	}{c.locationID, appt}

	var created Appointment
	if err := c.api.Post(ctx, "/calendars/events", payload, &created); err != nil {
		return nil, integrations.Translate(err, "GHL Create Appointment")
	}
	return &created, nil
}

// UpdateAppointment updates event fields
func (c *Client) UpdateAppointment(ctx context.Context, eventID string, fields map[string]any) (*Appointment, error) {
	var updated Appointment
	if err := c.api.Put(ctx, "/calendars/events/"+eventID, fields, &updated); err != nil {
		return nil, integrations.Translate(err, "GHL Update Appointment")
	}
	return &updated, nil
}

// DeleteAppointment cancels a calendar event
func (c *Client) DeleteAppointment(ctx context.Context, eventID string) error {
	return integrations.Translate(c.api.Delete(ctx, "/calendars/events/"+eventID), "GHL Delete Appointment")
}

// AddNote attaches a note to a contact
func (c *Client) AddNote(ctx context.Context, contactID, note string) error {
	payload := map[string]string{
		"contactId": contactID,
		"body":      note,
		"userId":    "system",
	}
	return integrations.Translate(c.api.Post(ctx, "/contacts/notes", payload, nil), "GHL Add Note")
}

// AddTags adds tags to a contact
func (c *Client) AddTags(ctx context.Context, contactID string, tags []string) error {
	payload := map[string]any{
		"contactId": contactID,
		"tags":      tags,
	}
	return integrations.Translate(c.api.Post(ctx, "/contacts/tags", payload, nil), "GHL Add Tags")
}

// CustomField is a location-level custom field definition
type CustomField struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DataType string `json:"dataType"`
}

// ListCustomFields fetches the location's custom field definitions
func (c *Client) ListCustomFields(ctx context.Context) ([]CustomField, error) {
	var resp struct {
		CustomFields []CustomField `json:"customFields"`
	}
	params := url.Values{"locationId": {c.locationID}}
	if err := c.api.Get(ctx, "/custom-fields/", params, &resp); err != nil {
		return nil, integrations.Translate(err, "GHL List Custom Fields")
	}
	return resp.CustomFields, nil
}

// RegisterWebhook subscribes a URL to location events
func (c *Client) RegisterWebhook(ctx context.Context, webhookURL string, events []string) error {
	payload := map[string]any{
		"locationId": c.locationID,
		"url":        webhookURL,
		"events":     events,
	}
	return integrations.Translate(c.api.Post(ctx, "/webhooks/", payload, nil), "GHL Register Webhook")
}
