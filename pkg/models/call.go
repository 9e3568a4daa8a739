package models

import "time"

// Call types
const (
	CallTypeManual = "manual"
	CallTypeVAPI   = "vapi"
)

// Call statuses
const (
	CallStatusScheduled  = "scheduled"
	CallStatusInProgress = "in-progress"
	CallStatusCompleted  = "completed"
	CallStatusFailed     = "failed"
)

// Call outcomes
const (
	CallOutcomeQualified     = "qualified"
	CallOutcomeInterested    = "interested"
	CallOutcomeNotInterested = "not-interested"
	CallOutcomeNoAnswer      = "no-answer"
	CallOutcomeCallback      = "callback"
)

// CallAIAnalysis carries analysis of a finished call, attached by the
// n8n analyze-call workflow
type CallAIAnalysis struct {
	Sentiment     string   `json:"sentiment"`
	KeyTopics     []string `json:"keyTopics"`
	NextAction    string   `json:"nextAction"`
	Transcription string   `json:"transcription,omitempty"`
}

// Call represents a phone call with a lead, manual or placed by the
// VAPI voice assistant
type Call struct {
	ID            string          `json:"id"`
	LeadID        string          `json:"leadId"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	StartTime     *time.Time      `json:"startTime,omitempty"`
	EndTime       *time.Time      `json:"endTime,omitempty"`
	ScheduledTime *time.Time      `json:"scheduledTime,omitempty"`
	Duration      int             `json:"duration,omitempty"`
	Outcome       string          `json:"outcome,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	AssignedTo    string          `json:"assignedTo"`
	VAPICallID    string          `json:"vapiCallId,omitempty"`
	AIAnalysis    *CallAIAnalysis `json:"aiAnalysis,omitempty"`
}

// CallPatch holds partial updates for a call
type CallPatch struct {
	Status        *string         `json:"status,omitempty" validate:"omitempty,oneof=scheduled in-progress completed failed"`
	StartTime     *time.Time      `json:"startTime,omitempty"`
	EndTime       *time.Time      `json:"endTime,omitempty"`
	ScheduledTime *time.Time      `json:"scheduledTime,omitempty"`
	Duration      *int            `json:"duration,omitempty" validate:"omitempty,min=0"`
	Outcome       *string         `json:"outcome,omitempty" validate:"omitempty,oneof=qualified interested not-interested no-answer callback"`
	Notes         *string         `json:"notes,omitempty"`
	AssignedTo    *string         `json:"assignedTo,omitempty"`
	VAPICallID    *string         `json:"vapiCallId,omitempty"`
	AIAnalysis    *CallAIAnalysis `json:"aiAnalysis,omitempty"`
}

// Apply merges the patch into the call
func (p CallPatch) Apply(c *Call) {
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.StartTime != nil {
		c.StartTime = p.StartTime
	}
	if p.EndTime != nil {
		c.EndTime = p.EndTime
	}
	if p.ScheduledTime != nil {
		c.ScheduledTime = p.ScheduledTime
	}
	if p.Duration != nil {
		c.Duration = *p.Duration
	}
	if p.Outcome != nil {
		c.Outcome = *p.Outcome
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.AssignedTo != nil {
		c.AssignedTo = *p.AssignedTo
	}
	if p.VAPICallID != nil {
		c.VAPICallID = *p.VAPICallID
	}
	if p.AIAnalysis != nil {
		c.AIAnalysis = p.AIAnalysis
	}
}
