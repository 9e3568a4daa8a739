package models

import "time"

// Lead statuses. The funnel runs new → contacted → qualified →
// presentation → booked → sold; "lost" can be entered from any stage.
// Transitions are not enforced.
const (
	LeadStatusNew          = "new"
	LeadStatusContacted    = "contacted"
	LeadStatusQualified    = "qualified"
	LeadStatusPresentation = "presentation"
	LeadStatusBooked       = "booked"
	LeadStatusSold         = "sold"
	LeadStatusLost         = "lost"
)

// Lead priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// LeadAIAnalysis carries analysis results attached by the n8n
// AI workflows. Nothing in this service computes these values.
type LeadAIAnalysis struct {
	Sentiment         string   `json:"sentiment"`
	BuyingIntent      int      `json:"buyingIntent"`
	KeyPoints         []string `json:"keyPoints"`
	RecommendedScript string   `json:"recommendedScript,omitempty"`
	NextBestAction    string   `json:"nextBestAction"`
}

// Lead represents a prospective buyer tracked through the sales funnel
type Lead struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Source         string          `json:"source"`
	Status         string          `json:"status"`
	Priority       string          `json:"priority"`
	AssignedTo     string          `json:"assignedTo"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	NextAction     string          `json:"nextAction"`
	NextActionDate *time.Time      `json:"nextActionDate,omitempty"`
	Budget         float64         `json:"budget"`
	Interests      []string        `json:"interests"`
	Notes          string          `json:"notes"`
	AIAnalysis     *LeadAIAnalysis `json:"aiAnalysis,omitempty"`
}

// LeadPatch holds partial updates for a lead
type LeadPatch struct {
	Name           *string         `json:"name,omitempty" validate:"omitempty,min=2"`
	Email          *string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string         `json:"phone,omitempty"`
	Source         *string         `json:"source,omitempty"`
	Status         *string         `json:"status,omitempty" validate:"omitempty,oneof=new contacted qualified presentation booked sold lost"`
	Priority       *string         `json:"priority,omitempty" validate:"omitempty,oneof=high medium low"`
	AssignedTo     *string         `json:"assignedTo,omitempty"`
	NextAction     *string         `json:"nextAction,omitempty"`
	NextActionDate *time.Time      `json:"nextActionDate,omitempty"`
	Budget         *float64        `json:"budget,omitempty" validate:"omitempty,min=0"`
	Interests      *[]string       `json:"interests,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	AIAnalysis     *LeadAIAnalysis `json:"aiAnalysis,omitempty"`
}

// Apply merges the patch into the lead
func (p LeadPatch) Apply(l *Lead) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.Source != nil {
		l.Source = *p.Source
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Priority != nil {
		l.Priority = *p.Priority
	}
	if p.AssignedTo != nil {
		l.AssignedTo = *p.AssignedTo
	}
	if p.NextAction != nil {
		l.NextAction = *p.NextAction
	}
	if p.NextActionDate != nil {
		l.NextActionDate = p.NextActionDate
	}
	if p.Budget != nil {
		l.Budget = *p.Budget
	}
	if p.Interests != nil {
		l.Interests = *p.Interests
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
	if p.AIAnalysis != nil {
		l.AIAnalysis = p.AIAnalysis
	}
}
