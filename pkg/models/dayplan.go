package models

import "time"

// Day plan entry types
const (
	DayPlanLead    = "lead"
	DayPlanMeeting = "meeting"
	DayPlanCall    = "call"
)

// DayPlanEntry is one obligation in a broker's daily feed, drawn from
// leads (pending follow-ups), meetings, or scheduled calls
type DayPlanEntry struct {
	Type        string    `json:"type"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Link        string    `json:"link,omitempty"`
}
