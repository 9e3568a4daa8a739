package scoring

import (
	"context"
	"sort"
	"time"

	"github.com/jordanlanch/brokerhub/pkg/logger"
	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

// Service derives leaderboards and point summaries from the
// append-only point event log
type Service struct {
	store  *store.Store
	logger logger.Logger
	now    func() time.Time
}

// NewService creates a scoring service
func NewService(st *store.Store, log logger.Logger) *Service {
	return &Service{
		store:  st,
		logger: log,
		now:    time.Now,
	}
}

// Award records a point event for the current month and logs the
// matching activity so it shows up in the recent feed
func (s *Service) Award(ctx context.Context, userID, activityType, subtype string, points int, title, description string) error {
	now := s.now()

	event := models.PointEvent{
		UserID:       userID,
		ActivityType: activityType,
		Subtype:      subtype,
		Points:       points,
		Month:        int(now.Month()),
		Year:         now.Year(),
	}
	if err := s.store.AppendPointEvent(ctx, event); err != nil {
		return err
	}

	_, err := s.store.AppendActivity(ctx, models.Activity{
		UserID:       userID,
		Type:         activityType,
		Title:        title,
		Description:  description,
		PointsEarned: points,
		Timestamp:    now,
	})
	return err
}

// Leaderboard ranks brokers by their point total for the current
// month, highest first. Ties keep the broker list order.
func (s *Service) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.store.PointEvents(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	month, year := int(now.Month()), now.Year()

	entries := make([]models.LeaderboardEntry, 0, len(users))
	for _, user := range users {
		if user.Role != models.RoleBroker {
			continue
		}
		monthly := 0
		for _, ev := range events {
			if ev.UserID == user.ID && ev.Month == month && ev.Year == year {
				monthly += ev.Points
			}
		}
		entries = append(entries, models.LeaderboardEntry{
			UserID:        user.ID,
			UserName:      user.Name,
			UserAvatar:    user.Avatar,
			TotalPoints:   monthly,
			MonthlyPoints: monthly,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].MonthlyPoints > entries[j].MonthlyPoints
	})
	return entries, nil
}

// UserSummary aggregates one user's points: lifetime total, current
// month, a per-subtype breakdown of the month, and the user's rank on
// the monthly leaderboard. Rank is 0 for users not ranked (admins).
func (s *Service) UserSummary(ctx context.Context, userID string) (*models.PointsSummary, error) {
	events, err := s.store.PointEvents(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	month, year := int(now.Month()), now.Year()

	summary := &models.PointsSummary{
		ActivityBreakdown: make(map[string]int),
	}
	for _, ev := range events {
		if ev.UserID != userID {
			continue
		}
		summary.TotalPoints += ev.Points
		if ev.Month == month && ev.Year == year {
			summary.MonthlyPoints += ev.Points
			summary.ActivityBreakdown[ev.Subtype] += ev.Points
		}
	}

	board, err := s.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	for i, entry := range board {
		if entry.UserID == userID {
			summary.RankPosition = i + 1
			break
		}
	}

	return summary, nil
}

// RecentActivities returns the newest activities joined with user
// names, capped at limit
func (s *Service) RecentActivities(ctx context.Context, limit int) ([]models.RecentActivity, error) {
	if limit <= 0 {
		limit = 20
	}

	activities, err := s.store.Activities(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}

	recent := make([]models.RecentActivity, 0, len(activities))
	for _, a := range activities {
		name, ok := names[a.UserID]
		if !ok {
			name = "Usuario"
		}
		recent = append(recent, models.RecentActivity{
			ID:           a.ID,
			Type:         a.Type,
			Title:        a.Title,
			Description:  a.Description,
			CreatedAt:    a.Timestamp,
			UserName:     name,
			PointsEarned: a.PointsEarned,
		})
	}
	return recent, nil
}

// PerformanceSummaries builds the per-broker report rows: lead counts,
// closed deals and current-month points
func (s *Service) PerformanceSummaries(ctx context.Context) ([]models.PerformanceSummary, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.store.PointEvents(ctx)
	if err != nil {
		return nil, err
	}
	leads, err := s.store.Leads(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	month, year := int(now.Month()), now.Year()

	summaries := make([]models.PerformanceSummary, 0, len(users))
	for _, user := range users {
		if user.Role != models.RoleBroker {
			continue
		}

		monthly := 0
		for _, ev := range events {
			if ev.UserID == user.ID && ev.Month == month && ev.Year == year {
				monthly += ev.Points
			}
		}

		totalLeads, closedDeals := 0, 0
		for _, lead := range leads {
			if lead.AssignedTo != user.ID {
				continue
			}
			totalLeads++
			if lead.Status == models.LeadStatusSold {
				closedDeals++
			}
		}

		summaries = append(summaries, models.PerformanceSummary{
			ID:            user.ID,
			Name:          user.Name,
			Avatar:        user.Avatar,
			TotalLeads:    totalLeads,
			ClosedDeals:   closedDeals,
			MonthlyPoints: monthly,
		})
	}
	return summaries, nil
}
