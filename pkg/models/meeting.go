package models

import "time"

// Meeting types
const (
	MeetingTypeZoom     = "zoom"
	MeetingTypePhysical = "physical"
	MeetingTypePhone    = "phone"
)

// Meeting statuses
const (
	MeetingStatusScheduled = "scheduled"
	MeetingStatusCompleted = "completed"
	MeetingStatusCancelled = "cancelled"
	MeetingStatusNoShow    = "no-show"
)

// Meeting represents a scheduled appointment with a lead.
// Attendees are free-text entries: either a user id or a display name.
type Meeting struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	Duration     int       `json:"duration"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	Attendees    []string  `json:"attendees"`
	Notes        string    `json:"notes,omitempty"`
	Outcome      string    `json:"outcome,omitempty"`
	LeadID       string    `json:"leadId,omitempty"`
	GHLEventID   string    `json:"ghlEventId,omitempty"`
	ZoomLink     string    `json:"zoomLink,omitempty"`
	ReminderSent bool      `json:"reminderSent"`
	Location     string    `json:"location,omitempty"`
}

// MeetingPatch holds partial updates for a meeting
type MeetingPatch struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,min=2"`
	Date         *time.Time `json:"date,omitempty"`
	Duration     *int       `json:"duration,omitempty" validate:"omitempty,min=1"`
	Type         *string    `json:"type,omitempty" validate:"omitempty,oneof=zoom physical phone"`
	Status       *string    `json:"status,omitempty" validate:"omitempty,oneof=scheduled completed cancelled no-show"`
	Attendees    *[]string  `json:"attendees,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	Outcome      *string    `json:"outcome,omitempty"`
	LeadID       *string    `json:"leadId,omitempty"`
	ZoomLink     *string    `json:"zoomLink,omitempty"`
	ReminderSent *bool      `json:"reminderSent,omitempty"`
	Location     *string    `json:"location,omitempty"`
}

// Apply merges the patch into the meeting
func (p MeetingPatch) Apply(m *Meeting) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Date != nil {
		m.Date = *p.Date
	}
	if p.Duration != nil {
		m.Duration = *p.Duration
	}
	if p.Type != nil {
		m.Type = *p.Type
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.Attendees != nil {
		m.Attendees = *p.Attendees
	}
	if p.Notes != nil {
		m.Notes = *p.Notes
	}
	if p.Outcome != nil {
		m.Outcome = *p.Outcome
	}
	if p.LeadID != nil {
		m.LeadID = *p.LeadID
	}
	if p.ZoomLink != nil {
		m.ZoomLink = *p.ZoomLink
	}
	if p.ReminderSent != nil {
		m.ReminderSent = *p.ReminderSent
	}
	if p.Location != nil {
		m.Location = *p.Location
	}
}
