package models

import "time"

// Point event activity types
const (
	PointActivityPresentation = "presentation"
	PointActivityResult       = "result"
)

// PointEvent attributes sales-activity credit to a broker for a given
// month. Events are append-only; leaderboards are derived views.
type PointEvent struct {
	UserID       string `json:"userId"`
	ActivityType string `json:"activityType"`
	Subtype      string `json:"subtype"`
	Points       int    `json:"points"`
	Month        int    `json:"month"`
	Year         int    `json:"year"`
}

// LeaderboardEntry is one row of the monthly broker ranking
type LeaderboardEntry struct {
	UserID        string `json:"user_id"`
	UserName      string `json:"user_name"`
	UserAvatar    string `json:"user_avatar"`
	TotalPoints   int    `json:"total_points"`
	MonthlyPoints int    `json:"monthly_points"`
}

// PointsSummary aggregates one user's point events
type PointsSummary struct {
	TotalPoints       int            `json:"total_points"`
	MonthlyPoints     int            `json:"monthly_points"`
	ActivityBreakdown map[string]int `json:"activity_breakdown"`
	RankPosition      int            `json:"rank_position"`
}

// Activity is a logged sales action shown in the recent-activity feed
type Activity struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	LeadID       string    `json:"leadId,omitempty"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PointsEarned int       `json:"pointsEarned"`
	Duration     int       `json:"duration,omitempty"`
	Outcome      string    `json:"outcome,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// RecentActivity is an activity joined with its user's display name
type RecentActivity struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UserName     string    `json:"user_name"`
	PointsEarned int       `json:"points_earned"`
}

// PerformanceSummary is a per-broker snapshot for the reports view
type PerformanceSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Avatar        string `json:"avatar"`
	TotalLeads    int    `json:"total_leads"`
	ClosedDeals   int    `json:"closed_deals"`
	MonthlyPoints int    `json:"monthly_points"`
}
