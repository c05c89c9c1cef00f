package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/pkg/civildate"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
)

type eventSource interface {
	Snapshot() []models.CalendarEvent
}

// NotificationService derives notifications from the event collection and
// tracks which of them have been read. The read set only grows.
type NotificationService struct {
	mu          sync.RWMutex
	read        map[string]struct{}
	events      eventSource
	state       stateStore
	clock       *civildate.Clock
	horizonDays int
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewNotificationService constructs the service. Call Bootstrap before serving requests.
func NewNotificationService(events eventSource, state stateStore, clock *civildate.Clock, horizonDays int, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	return &NotificationService{
		read:        make(map[string]struct{}),
		events:      events,
		state:       state,
		clock:       clock,
		horizonDays: horizonDays,
		metrics:     metrics,
		logger:      logger,
	}
}

// Bootstrap loads the persisted read set; a missing blob starts empty.
func (s *NotificationService) Bootstrap(ctx context.Context) error {
	var ids []string
	found, err := s.state.Load(ctx, models.StateKeyReadNotifications, &ids)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.read = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			s.read[id] = struct{}{}
		}
	}
	s.logger.Info("read notifications loaded", zap.Bool("stored", found), zap.Int("count", len(s.read)))
	return nil
}

// Relevant returns the events that are ongoing or upcoming today.
func (s *NotificationService) Relevant() []models.CalendarEvent {
	return RelevantEvents(s.events.Snapshot(), s.clock.Today(), s.horizonDays)
}

// List returns the relevant events decorated with read flags and phase labels.
func (s *NotificationService) List(_ context.Context) models.NotificationFeed {
	today := s.clock.Today()
	horizon := Horizon(today, s.horizonDays)
	relevant := RelevantEvents(s.events.Snapshot(), today, s.horizonDays)

	s.mu.RLock()
	items := make([]models.Notification, 0, len(relevant))
	unread := 0
	for _, event := range relevant {
		_, read := s.read[event.ID]
		if !read {
			unread++
		}
		items = append(items, models.Notification{
			Event:     event,
			Relevance: Classify(event, today, horizon),
			Phase:     Phase(event, today),
			Read:      read,
		})
	}
	s.mu.RUnlock()

	s.metrics.SetUnreadNotifications(unread)
	return models.NotificationFeed{Today: today, Horizon: horizon, Items: items, UnreadCount: unread}
}

// UnreadCount returns the number of relevant events not yet read.
func (s *NotificationService) UnreadCount(_ context.Context) int {
	relevant := s.Relevant()
	s.mu.RLock()
	defer s.mu.RUnlock()
	unread := len(relevant)
	for _, event := range relevant {
		if _, ok := s.read[event.ID]; ok {
			unread--
		}
	}
	if unread < 0 {
		unread = 0
	}
	s.metrics.SetUnreadNotifications(unread)
	return unread
}

// MarkAsRead adds id to the read set. Unknown ids are accepted.
func (s *NotificationService) MarkAsRead(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "notification id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.read[id]; ok {
		return nil
	}
	return s.commitLocked(ctx, []string{id})
}

// MarkAllAsRead adds every currently relevant event to the read set and
// returns how many ids were newly marked.
func (s *NotificationService) MarkAllAsRead(ctx context.Context) (int, error) {
	relevant := s.Relevant()
	s.mu.Lock()
	defer s.mu.Unlock()
	added := make([]string, 0, len(relevant))
	for _, event := range relevant {
		if _, ok := s.read[event.ID]; !ok {
			added = append(added, event.ID)
		}
	}
	if len(added) == 0 {
		return 0, nil
	}
	if err := s.commitLocked(ctx, added); err != nil {
		return 0, err
	}
	return len(added), nil
}

// IsRead reports whether id is in the read set.
func (s *NotificationService) IsRead(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.read[id]
	return ok
}

// commitLocked persists the read set extended by added, then applies it in
// memory. Callers hold s.mu.
func (s *NotificationService) commitLocked(ctx context.Context, added []string) error {
	ids := make([]string, 0, len(s.read)+len(added))
	for id := range s.read {
		ids = append(ids, id)
	}
	ids = append(ids, added...)
	sort.Strings(ids)
	if err := s.state.Save(ctx, models.StateKeyReadNotifications, ids); err != nil {
		s.logger.Error("failed to persist read notifications", zap.Error(err))
		return err
	}
	for _, id := range added {
		s.read[id] = struct{}{}
	}
	return nil
}
