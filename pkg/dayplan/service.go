package dayplan

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jordanlanch/brokerhub/pkg/logger"
	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

const dayFormat = "2006-01-02"

// Service builds a broker's daily agenda out of pending lead
// follow-ups, meetings and scheduled calls
type Service struct {
	store  *store.Store
	logger logger.Logger
}

// NewService creates a day plan service
func NewService(st *store.Store, log logger.Logger) *Service {
	return &Service{
		store:  st,
		logger: log,
	}
}

// Plan collects everything a broker has on a given calendar day,
// sorted by time. Day membership is decided by comparing dates in the
// yyyy-MM-dd form, so entries on the selected day count regardless of
// their hour.
func (s *Service) Plan(ctx context.Context, userID string, date time.Time) ([]models.DayPlanEntry, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	leads, err := s.store.Leads(ctx)
	if err != nil {
		return nil, err
	}
	meetings, err := s.store.Meetings(ctx)
	if err != nil {
		return nil, err
	}
	calls, err := s.store.Calls(ctx)
	if err != nil {
		return nil, err
	}

	day := date.Format(dayFormat)
	entries := []models.DayPlanEntry{}

	leadNames := make(map[string]string, len(leads))
	for _, lead := range leads {
		leadNames[lead.ID] = lead.Name
	}

	for _, lead := range leads {
		if lead.AssignedTo != userID || lead.NextActionDate == nil {
			continue
		}
		if lead.NextActionDate.Format(dayFormat) != day {
			continue
		}
		nextAction := lead.NextAction
		if nextAction == "" {
			nextAction = "N/A"
		}
		entries = append(entries, models.DayPlanEntry{
			Type:        models.DayPlanLead,
			ID:          lead.ID,
			Title:       "Seguimiento: " + lead.Name,
			Date:        *lead.NextActionDate,
			Status:      lead.Status,
			Description: fmt.Sprintf("Próxima acción: %s (Prioridad: %s)", nextAction, lead.Priority),
			Link:        "/leads/" + lead.ID,
		})
	}

	for _, meeting := range meetings {
		if !attends(meeting.Attendees, userID, user.Name) {
			continue
		}
		if meeting.Date.Format(dayFormat) != day {
			continue
		}
		entries = append(entries, models.DayPlanEntry{
			Type:        models.DayPlanMeeting,
			ID:          meeting.ID,
			Title:       "Reunión: " + meeting.Title,
			Date:        meeting.Date,
			Status:      meeting.Status,
			Description: fmt.Sprintf("Tipo: %s, con: %s", meeting.Type, strings.Join(meeting.Attendees, ", ")),
			Link:        meeting.ZoomLink,
		})
	}

	for _, call := range calls {
		if call.AssignedTo != userID || call.ScheduledTime == nil {
			continue
		}
		if call.ScheduledTime.Format(dayFormat) != day {
			continue
		}
		leadName, ok := leadNames[call.LeadID]
		if !ok {
			leadName = "Desconocido"
		}
		outcome := call.Outcome
		if outcome == "" {
			outcome = "N/A"
		}
		entries = append(entries, models.DayPlanEntry{
			Type:        models.DayPlanCall,
			ID:          call.ID,
			Title:       "Llamada: " + leadName,
			Date:        *call.ScheduledTime,
			Status:      call.Status,
			Description: fmt.Sprintf("Tipo: %s, Outcome: %s", call.Type, outcome),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries, nil
}

// attends reports whether a broker is on a meeting's attendee list.
// Entries are free text, so both an exact id match and a display-name
// substring match count.
func attends(attendees []string, userID, userName string) bool {
	for _, attendee := range attendees {
		if attendee == userID {
			return true
		}
		if userName != "" && strings.Contains(attendee, userName) {
			return true
		}
	}
	return false
}
