package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jordanlanch/brokerhub/pkg/cache"
	"github.com/jordanlanch/brokerhub/pkg/domain"
	"github.com/jordanlanch/brokerhub/pkg/logger"
	"github.com/jordanlanch/brokerhub/pkg/models"
)

// Collection names. Each collection is one Redis key holding a JSON
// array, prefixed with the store namespace.
const (
	ColUsers      = "users"
	ColLeads      = "leads"
	ColMeetings   = "meetings"
	ColCalls      = "calls"
	ColScripts    = "scripts"
	ColActivities = "activities"
	ColPoints     = "points"
	ColAPIConfigs = "api_configs"
	ColWebhooks   = "webhook_configs"
)

// SessionKey holds the logged-in user snapshot. It is not namespaced.
const SessionKey = "current_user"

var collections = []string{
	ColUsers, ColLeads, ColMeetings, ColCalls, ColScripts,
	ColActivities, ColPoints, ColAPIConfigs, ColWebhooks,
}

// Store is a Redis-backed collection store. Every read loads the whole
// collection; writes re-serialize it under a per-collection mutex so
// concurrent read-modify-write cycles cannot drop each other's changes.
type Store struct {
	cache  *cache.Client
	ns     string
	logger logger.Logger
	mu     map[string]*sync.Mutex
}

// New creates a Store over the given cache client and key namespace
func New(c *cache.Client, namespace string, log logger.Logger) *Store {
	mu := make(map[string]*sync.Mutex, len(collections)+1)
	for _, col := range collections {
		mu[col] = &sync.Mutex{}
	}
	mu[SessionKey] = &sync.Mutex{}

	return &Store{
		cache:  c,
		ns:     namespace,
		logger: log,
		mu:     mu,
	}
}

// Ping verifies the backing Redis connection
func (s *Store) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

func (s *Store) key(collection string) string {
	return s.ns + "_" + collection
}

func (s *Store) lock(collection string) *sync.Mutex {
	return s.mu[collection]
}

// NewID returns a time-based identifier, mirroring the epoch-style ids
// the demo data uses. Nanosecond precision keeps ids unique within a
// single process even for back-to-back creates.
func NewID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

// read loads a collection. A missing key yields an empty slice.
func read[T any](ctx context.Context, s *Store, collection string) ([]T, error) {
	raw, err := s.cache.Get(ctx, s.key(collection))
	if err != nil {
		if cache.IsNil(err) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("failed reading collection %s: %w", collection, err)
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed decoding collection %s: %w", collection, err)
	}
	return items, nil
}

// write replaces a collection. Callers must hold the collection lock
// when the write follows a read of the same collection.
func write[T any](ctx context.Context, s *Store, collection string, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed encoding collection %s: %w", collection, err)
	}
	if err := s.cache.Set(ctx, s.key(collection), string(data)); err != nil {
		return fmt.Errorf("failed writing collection %s: %w", collection, err)
	}
	return nil
}

// --- Users ---

func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	return read[models.User](ctx, s, ColUsers)
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, domain.NewNotFoundError("user")
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, domain.NewNotFoundError("user")
}

func (s *Store) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	s.lock(ColUsers).Lock()
	defer s.lock(ColUsers).Unlock()

	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}

	user.ID = NewID()
	users = append(users, user)

	if err := write(ctx, s, ColUsers, users); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a patch to a user. When the patched user is the
// one held in the session key, the session snapshot is refreshed too,
// so profile edits show up without a re-login.
func (s *Store) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	s.lock(ColUsers).Lock()
	defer s.lock(ColUsers).Unlock()

	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].ID != id {
			continue
		}
		patch.Apply(&users[i])
		if err := write(ctx, s, ColUsers, users); err != nil {
			return nil, err
		}
		if err := s.refreshSession(ctx, users[i]); err != nil {
			s.logger.Warn("failed refreshing session after user update", "user_id", id, "error", err)
		}
		return &users[i], nil
	}
	return nil, domain.NewNotFoundError("user")
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.lock(ColUsers).Lock()
	defer s.lock(ColUsers).Unlock()

	users, err := s.Users(ctx)
	if err != nil {
		return err
	}

	kept := users[:0]
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	return write(ctx, s, ColUsers, kept)
}

// --- Session ---

// CurrentUser returns the session snapshot, or NotFound when no
// session is active
func (s *Store) CurrentUser(ctx context.Context) (*models.User, error) {
	raw, err := s.cache.Get(ctx, SessionKey)
	if err != nil {
		if cache.IsNil(err) {
			return nil, domain.NewNotFoundError("session")
		}
		return nil, fmt.Errorf("failed reading session: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("failed decoding session: %w", err)
	}
	return &user, nil
}

func (s *Store) SetCurrentUser(ctx context.Context, user models.User) error {
	s.lock(SessionKey).Lock()
	defer s.lock(SessionKey).Unlock()

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed encoding session: %w", err)
	}
	return s.cache.Set(ctx, SessionKey, string(data))
}

func (s *Store) ClearCurrentUser(ctx context.Context) error {
	return s.cache.Delete(ctx, SessionKey)
}

func (s *Store) refreshSession(ctx context.Context, user models.User) error {
	current, err := s.CurrentUser(ctx)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil
		}
		return err
	}
	if current.ID != user.ID {
		return nil
	}
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, SessionKey, string(data))
}

// --- Leads ---

func (s *Store) Leads(ctx context.Context) ([]models.Lead, error) {
	return read[models.Lead](ctx, s, ColLeads)
}

func (s *Store) LeadByID(ctx context.Context, id string) (*models.Lead, error) {
	leads, err := s.Leads(ctx)
	if err != nil {
		return nil, err
	}
	for i := range leads {
		if leads[i].ID == id {
			return &leads[i], nil
		}
	}
	return nil, domain.NewNotFoundError("lead")
}

func (s *Store) CreateLead(ctx context.Context, lead models.Lead) (*models.Lead, error) {
	s.lock(ColLeads).Lock()
	defer s.lock(ColLeads).Unlock()

	leads, err := s.Leads(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	lead.ID = NewID()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	leads = append(leads, lead)

	if err := write(ctx, s, ColLeads, leads); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (s *Store) UpdateLead(ctx context.Context, id string, patch models.LeadPatch) (*models.Lead, error) {
	s.lock(ColLeads).Lock()
	defer s.lock(ColLeads).Unlock()

	leads, err := s.Leads(ctx)
	if err != nil {
		return nil, err
	}

	for i := range leads {
		if leads[i].ID != id {
			continue
		}
		patch.Apply(&leads[i])
		leads[i].UpdatedAt = time.Now()
		if err := write(ctx, s, ColLeads, leads); err != nil {
			return nil, err
		}
		return &leads[i], nil
	}
	return nil, domain.NewNotFoundError("lead")
}

func (s *Store) DeleteLead(ctx context.Context, id string) error {
	s.lock(ColLeads).Lock()
	defer s.lock(ColLeads).Unlock()

	leads, err := s.Leads(ctx)
	if err != nil {
		return err
	}

	kept := leads[:0]
	for _, l := range leads {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	return write(ctx, s, ColLeads, kept)
}

// --- Meetings ---

func (s *Store) Meetings(ctx context.Context) ([]models.Meeting, error) {
	return read[models.Meeting](ctx, s, ColMeetings)
}

func (s *Store) MeetingByID(ctx context.Context, id string) (*models.Meeting, error) {
	meetings, err := s.Meetings(ctx)
	if err != nil {
		return nil, err
	}
	for i := range meetings {
		if meetings[i].ID == id {
			return &meetings[i], nil
		}
	}
	return nil, domain.NewNotFoundError("meeting")
}

func (s *Store) CreateMeeting(ctx context.Context, meeting models.Meeting) (*models.Meeting, error) {
	s.lock(ColMeetings).Lock()
	defer s.lock(ColMeetings).Unlock()

	meetings, err := s.Meetings(ctx)
	if err != nil {
		return nil, err
	}

	meeting.ID = NewID()
	meetings = append(meetings, meeting)

	if err := write(ctx, s, ColMeetings, meetings); err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (s *Store) UpdateMeeting(ctx context.Context, id string, patch models.MeetingPatch) (*models.Meeting, error) {
	s.lock(ColMeetings).Lock()
	defer s.lock(ColMeetings).Unlock()

	meetings, err := s.Meetings(ctx)
	if err != nil {
		return nil, err
	}

	for i := range meetings {
		if meetings[i].ID != id {
			continue
		}
		patch.Apply(&meetings[i])
		if err := write(ctx, s, ColMeetings, meetings); err != nil {
			return nil, err
		}
		return &meetings[i], nil
	}
	return nil, domain.NewNotFoundError("meeting")
}

func (s *Store) DeleteMeeting(ctx context.Context, id string) error {
	s.lock(ColMeetings).Lock()
	defer s.lock(ColMeetings).Unlock()

	meetings, err := s.Meetings(ctx)
	if err != nil {
		return err
	}

	kept := meetings[:0]
	for _, m := range meetings {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	return write(ctx, s, ColMeetings, kept)
}

// --- Calls ---

func (s *Store) Calls(ctx context.Context) ([]models.Call, error) {
	return read[models.Call](ctx, s, ColCalls)
}

func (s *Store) CallByID(ctx context.Context, id string) (*models.Call, error) {
	calls, err := s.Calls(ctx)
	if err != nil {
		return nil, err
	}
	for i := range calls {
		if calls[i].ID == id {
			return &calls[i], nil
		}
	}
	return nil, domain.NewNotFoundError("call")
}

// CallByVAPIID finds the call that tracks a given VAPI call id. Used
// when the call-ended webhook arrives.
func (s *Store) CallByVAPIID(ctx context.Context, vapiCallID string) (*models.Call, error) {
	calls, err := s.Calls(ctx)
	if err != nil {
		return nil, err
	}
	for i := range calls {
		if calls[i].VAPICallID == vapiCallID {
			return &calls[i], nil
		}
	}
	return nil, domain.NewNotFoundError("call")
}

func (s *Store) CreateCall(ctx context.Context, call models.Call) (*models.Call, error) {
	s.lock(ColCalls).Lock()
	defer s.lock(ColCalls).Unlock()

	calls, err := s.Calls(ctx)
	if err != nil {
		return nil, err
	}

	call.ID = NewID()
	calls = append(calls, call)

	if err := write(ctx, s, ColCalls, calls); err != nil {
		return nil, err
	}
	return &call, nil
}

func (s *Store) UpdateCall(ctx context.Context, id string, patch models.CallPatch) (*models.Call, error) {
	s.lock(ColCalls).Lock()
	defer s.lock(ColCalls).Unlock()

	calls, err := s.Calls(ctx)
	if err != nil {
		return nil, err
	}

	for i := range calls {
		if calls[i].ID != id {
			continue
		}
		patch.Apply(&calls[i])
		if err := write(ctx, s, ColCalls, calls); err != nil {
			return nil, err
		}
		return &calls[i], nil
	}
	return nil, domain.NewNotFoundError("call")
}

func (s *Store) DeleteCall(ctx context.Context, id string) error {
	s.lock(ColCalls).Lock()
	defer s.lock(ColCalls).Unlock()

	calls, err := s.Calls(ctx)
	if err != nil {
		return err
	}

	kept := calls[:0]
	for _, c := range calls {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	return write(ctx, s, ColCalls, kept)
}

// --- Scripts ---

func (s *Store) Scripts(ctx context.Context) ([]models.SalesScript, error) {
	return read[models.SalesScript](ctx, s, ColScripts)
}

func (s *Store) ScriptByID(ctx context.Context, id string) (*models.SalesScript, error) {
	scripts, err := s.Scripts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range scripts {
		if scripts[i].ID == id {
			return &scripts[i], nil
		}
	}
	return nil, domain.NewNotFoundError("script")
}

func (s *Store) CreateScript(ctx context.Context, script models.SalesScript) (*models.SalesScript, error) {
	s.lock(ColScripts).Lock()
	defer s.lock(ColScripts).Unlock()

	scripts, err := s.Scripts(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	script.ID = NewID()
	script.CreatedAt = now
	script.UpdatedAt = now
	scripts = append(scripts, script)

	if err := write(ctx, s, ColScripts, scripts); err != nil {
		return nil, err
	}
	return &script, nil
}

func (s *Store) UpdateScript(ctx context.Context, id string, patch models.ScriptPatch) (*models.SalesScript, error) {
	s.lock(ColScripts).Lock()
	defer s.lock(ColScripts).Unlock()

	scripts, err := s.Scripts(ctx)
	if err != nil {
		return nil, err
	}

	for i := range scripts {
		if scripts[i].ID != id {
			continue
		}
		patch.Apply(&scripts[i])
		scripts[i].UpdatedAt = time.Now()
		if err := write(ctx, s, ColScripts, scripts); err != nil {
			return nil, err
		}
		return &scripts[i], nil
	}
	return nil, domain.NewNotFoundError("script")
}

func (s *Store) DeleteScript(ctx context.Context, id string) error {
	s.lock(ColScripts).Lock()
	defer s.lock(ColScripts).Unlock()

	scripts, err := s.Scripts(ctx)
	if err != nil {
		return err
	}

	kept := scripts[:0]
	for _, sc := range scripts {
		if sc.ID != id {
			kept = append(kept, sc)
		}
	}
	return write(ctx, s, ColScripts, kept)
}

// --- Activities ---

func (s *Store) Activities(ctx context.Context) ([]models.Activity, error) {
	return read[models.Activity](ctx, s, ColActivities)
}

func (s *Store) AppendActivity(ctx context.Context, activity models.Activity) (*models.Activity, error) {
	s.lock(ColActivities).Lock()
	defer s.lock(ColActivities).Unlock()

	activities, err := s.Activities(ctx)
	if err != nil {
		return nil, err
	}

	activity.ID = NewID()
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now()
	}
	activities = append(activities, activity)

	if err := write(ctx, s, ColActivities, activities); err != nil {
		return nil, err
	}
	return &activity, nil
}

// --- Points ---

func (s *Store) PointEvents(ctx context.Context) ([]models.PointEvent, error) {
	return read[models.PointEvent](ctx, s, ColPoints)
}

func (s *Store) AppendPointEvent(ctx context.Context, event models.PointEvent) error {
	s.lock(ColPoints).Lock()
	defer s.lock(ColPoints).Unlock()

	events, err := s.PointEvents(ctx)
	if err != nil {
		return err
	}

	events = append(events, event)
	return write(ctx, s, ColPoints, events)
}

// --- API configurations ---

func (s *Store) APIConfigurations(ctx context.Context) ([]models.APIConfiguration, error) {
	return read[models.APIConfiguration](ctx, s, ColAPIConfigs)
}

func (s *Store) SaveAPIConfigurations(ctx context.Context, configs []models.APIConfiguration) error {
	s.lock(ColAPIConfigs).Lock()
	defer s.lock(ColAPIConfigs).Unlock()
	return write(ctx, s, ColAPIConfigs, configs)
}

// MutateAPIConfigurations runs fn over the current list under the
// collection lock and persists what it returns
func (s *Store) MutateAPIConfigurations(ctx context.Context, fn func([]models.APIConfiguration) ([]models.APIConfiguration, error)) error {
	s.lock(ColAPIConfigs).Lock()
	defer s.lock(ColAPIConfigs).Unlock()

	configs, err := read[models.APIConfiguration](ctx, s, ColAPIConfigs)
	if err != nil {
		return err
	}
	updated, err := fn(configs)
	if err != nil {
		return err
	}
	return write(ctx, s, ColAPIConfigs, updated)
}

// --- Webhook configurations ---

func (s *Store) WebhookConfigurations(ctx context.Context) ([]models.WebhookConfiguration, error) {
	return read[models.WebhookConfiguration](ctx, s, ColWebhooks)
}

func (s *Store) SaveWebhookConfigurations(ctx context.Context, configs []models.WebhookConfiguration) error {
	s.lock(ColWebhooks).Lock()
	defer s.lock(ColWebhooks).Unlock()
	return write(ctx, s, ColWebhooks, configs)
}

// MutateWebhookConfigurations runs fn over the current list under the
// collection lock and persists what it returns
func (s *Store) MutateWebhookConfigurations(ctx context.Context, fn func([]models.WebhookConfiguration) ([]models.WebhookConfiguration, error)) error {
	s.lock(ColWebhooks).Lock()
	defer s.lock(ColWebhooks).Unlock()

	configs, err := read[models.WebhookConfiguration](ctx, s, ColWebhooks)
	if err != nil {
		return err
	}
	updated, err := fn(configs)
	if err != nil {
		return err
	}
	return write(ctx, s, ColWebhooks, updated)
}
