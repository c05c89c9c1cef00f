package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/pkg/civildate"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
	"github.com/noah-isme/pentadosen-api/pkg/export"
)

type stateStore interface {
	Load(ctx context.Context, key string, dest interface{}) (bool, error)
	Save(ctx context.Context, key string, value interface{}) error
}

// EventService owns the calendar event collection. Every mutation is written
// through to the state store before it becomes visible.
type EventService struct {
	mu        sync.RWMutex
	events    []models.CalendarEvent
	state     stateStore
	activity  ActivityRecorder
	clock     *civildate.Clock
	ics       *export.ICSExporter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEventService constructs the service. Call Bootstrap before serving requests.
func NewEventService(state stateStore, activity ActivityRecorder, clock *civildate.Clock, ics *export.ICSExporter, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = NewValidator()
	} else {
		registerDomainValidations(validate)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ics == nil {
		ics = export.NewICSExporter("", "")
	}
	if activity == nil {
		activity = noopActivity{}
	}
	return &EventService{
		state:     state,
		activity:  activity,
		clock:     clock,
		ics:       ics,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Bootstrap loads the persisted collection, falling back to seed when nothing
// is stored. Stored events that fail validation are dropped with a warning.
func (s *EventService) Bootstrap(ctx context.Context, seed []models.CalendarEvent) error {
	var raw []json.RawMessage
	found, err := s.state.Load(ctx, models.StateKeyEvents, &raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !found {
		events := make([]models.CalendarEvent, 0, len(seed))
		for _, event := range seed {
			if err := checkEvent(event); err != nil {
				s.logger.Warn("skipping invalid seed event", zap.String("id", event.ID), zap.Error(err))
				continue
			}
			events = append(events, event)
		}
		if err := s.state.Save(ctx, models.StateKeyEvents, events); err != nil {
			return err
		}
		s.events = events
		s.logger.Info("events seeded", zap.Int("count", len(events)))
		return nil
	}

	events := make([]models.CalendarEvent, 0, len(raw))
	for i, item := range raw {
		var event models.CalendarEvent
		if err := json.Unmarshal(item, &event); err != nil {
			s.logger.Warn("dropping undecodable stored event", zap.Int("index", i), zap.Error(err))
			continue
		}
		if err := checkEvent(event); err != nil {
			s.logger.Warn("dropping invalid stored event", zap.String("id", event.ID), zap.Error(err))
			continue
		}
		events = append(events, event)
	}
	s.events = events
	s.logger.Info("events loaded", zap.Int("count", len(events)), zap.Int("dropped", len(raw)-len(events)))
	return nil
}

// Snapshot returns a copy of the collection in insertion order.
func (s *EventService) Snapshot() []models.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEvents(s.events)
}

// Today returns the current civil date of the service clock.
func (s *EventService) Today() civildate.Date { return s.clock.Today() }

// EventListRequest filters the calendar. Dates are YYYY-MM-DD.
type EventListRequest struct {
	Date     string `form:"date"`
	From     string `form:"from"`
	To       string `form:"to"`
	Category string `form:"category"`
}

// List returns events matching req, sorted by start date.
func (s *EventService) List(_ context.Context, req EventListRequest) ([]models.CalendarEvent, error) {
	filter, err := parseEventFilter(req)
	if err != nil {
		return nil, err
	}

	events := s.Snapshot()
	switch {
	case !filter.Date.IsZero():
		events = EventsOn(events, filter.Date)
	case !filter.From.IsZero() || !filter.To.IsZero():
		from, to := filter.From, filter.To
		if from.IsZero() {
			from = civildate.New(1, time.January, 1)
		}
		if to.IsZero() {
			to = civildate.New(9999, time.December, 31)
		}
		events = EventsBetween(events, from, to)
	}
	if filter.Category != "" {
		kept := events[:0]
		for _, event := range events {
			if event.Category == filter.Category {
				kept = append(kept, event)
			}
		}
		events = kept
	}
	sortEventsByStart(events)
	return events, nil
}

func parseEventFilter(req EventListRequest) (models.EventFilter, error) {
	var filter models.EventFilter
	var err error
	if filter.Date, err = parseOptionalDate("date", req.Date); err != nil {
		return filter, err
	}
	if filter.From, err = parseOptionalDate("from", req.From); err != nil {
		return filter, err
	}
	if filter.To, err = parseOptionalDate("to", req.To); err != nil {
		return filter, err
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return filter, appErrors.Clone(appErrors.ErrInvalidDateRange, "to must not be before from")
	}
	if req.Category != "" {
		filter.Category = models.EventCategory(req.Category)
		if !filter.Category.Valid() {
			return filter, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown category %q", req.Category))
		}
	}
	return filter, nil
}

// Get returns the event with id.
func (s *EventService) Get(_ context.Context, id string) (*models.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	event := cloneEvent(s.events[idx])
	return &event, nil
}

// CreateEventRequest is the payload for a new event.
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate"`
	Category    string `json:"category" validate:"required,eventcategory"`
}

// UpdateEventRequest is a partial update; nil fields are left unchanged and
// an empty endDate clears the end.
type UpdateEventRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Category    *string `json:"category" validate:"omitempty,eventcategory"`
}

// Create validates and stores a new event.
func (s *EventService) Create(ctx context.Context, req CreateEventRequest) (*models.CalendarEvent, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid event payload")
	}
	start, err := parseRequiredDate("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate("endDate", req.EndDate)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	event := models.CalendarEvent{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		StartDate:   start,
		Category:    models.EventCategory(req.Category),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !end.IsZero() {
		event.EndDate = &end
	}
	if err := checkEventRange(event); err != nil {
		return nil, err
	}

	s.mu.Lock()
	next := append(cloneEvents(s.events), event)
	if err := s.commitLocked(ctx, next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.activity.Record(ctx, models.ActivityCreate, models.EntityEvent, event.ID, fmt.Sprintf("Menambahkan agenda %q", event.Title))
	return &event, nil
}

// Update merges req into the event with id. The merged event must keep a valid range.
func (s *EventService) Update(ctx context.Context, id string, req UpdateEventRequest) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid event payload")
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	event := cloneEvent(s.events[idx])
	if err := applyEventUpdate(&event, req); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	event.UpdatedAt = s.now().UTC()

	next := cloneEvents(s.events)
	next[idx] = event
	if err := s.commitLocked(ctx, next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.activity.Record(ctx, models.ActivityUpdate, models.EntityEvent, event.ID, fmt.Sprintf("Memperbarui agenda %q", event.Title))
	return &event, nil
}

func applyEventUpdate(event *models.CalendarEvent, req UpdateEventRequest) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid event payload"), map[string]string{"title": "wajib diisi"})
		}
		event.Title = title
	}
	if req.Description != nil {
		event.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		event.Category = models.EventCategory(*req.Category)
	}
	if req.StartDate != nil {
		start, err := parseRequiredDate("startDate", *req.StartDate)
		if err != nil {
			return err
		}
		event.StartDate = start
	}
	if req.EndDate != nil {
		end, err := parseOptionalDate("endDate", *req.EndDate)
		if err != nil {
			return err
		}
		if end.IsZero() {
			event.EndDate = nil
		} else {
			event.EndDate = &end
		}
	}
	return checkEventRange(*event)
}

// Delete removes the event with id. Read flags for the id are kept.
func (s *EventService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	removed := s.events[idx]
	next := make([]models.CalendarEvent, 0, len(s.events)-1)
	next = append(next, cloneEvents(s.events[:idx])...)
	next = append(next, cloneEvents(s.events[idx+1:])...)
	if err := s.commitLocked(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.activity.Record(ctx, models.ActivityDelete, models.EntityEvent, removed.ID, fmt.Sprintf("Menghapus agenda %q", removed.Title))
	return nil
}

// ExportICS renders every event as an all-day iCalendar entry.
func (s *EventService) ExportICS(_ context.Context) ([]byte, error) {
	events := s.Snapshot()
	sortEventsByStart(events)
	entries := make([]export.CalendarEntry, 0, len(events))
	for _, event := range events {
		entries = append(entries, export.CalendarEntry{
			UID:         event.ID,
			Summary:     event.Title,
			Description: event.Description,
			Category:    string(event.Category),
			Start:       event.StartDate.Time(),
			End:         event.EffectiveEnd().Time(),
		})
	}
	data, err := s.ics.Render("Kalender PentaDosen", entries)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render calendar")
	}
	return data, nil
}

// ICSContentType reports the MIME type of ExportICS output.
func (s *EventService) ICSContentType() string { return s.ics.ContentType() }

// commitLocked persists next and swaps it in. On failure the in-memory
// collection keeps the last persisted value. Callers hold s.mu.
func (s *EventService) commitLocked(ctx context.Context, next []models.CalendarEvent) error {
	if err := s.state.Save(ctx, models.StateKeyEvents, next); err != nil {
		s.logger.Error("failed to persist events", zap.Error(err))
		return err
	}
	s.events = next
	return nil
}

func (s *EventService) indexOf(id string) int {
	for i, event := range s.events {
		if event.ID == id {
			return i
		}
	}
	return -1
}

func checkEvent(event models.CalendarEvent) error {
	if strings.TrimSpace(event.ID) == "" {
		return fmt.Errorf("missing id")
	}
	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("missing title")
	}
	if !event.Category.Valid() {
		return fmt.Errorf("unknown category %q", event.Category)
	}
	if event.StartDate.IsZero() {
		return fmt.Errorf("missing start date")
	}
	return checkEventRange(event)
}

func checkEventRange(event models.CalendarEvent) error {
	if event.EndDate != nil && !event.EndDate.IsZero() && event.EndDate.Before(event.StartDate) {
		return appErrors.Clone(appErrors.ErrInvalidDateRange, "")
	}
	return nil
}

func parseRequiredDate(field, raw string) (civildate.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return civildate.Date{}, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is required", field)), map[string]string{field: "wajib diisi"})
	}
	return parseOptionalDate(field, raw)
}

func parseOptionalDate(field, raw string) (civildate.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return civildate.Date{}, nil
	}
	d, err := civildate.Parse(raw)
	if err != nil {
		return civildate.Date{}, appErrors.WithDetails(appErrors.Clone(appErrors.ErrInvalidDate, ""), map[string]string{field: raw})
	}
	return d, nil
}

func sortEventsByStart(events []models.CalendarEvent) {
	sortStableBy(events, func(a, b models.CalendarEvent) bool { return a.StartDate.Before(b.StartDate) })
}

func cloneEvent(event models.CalendarEvent) models.CalendarEvent {
	if event.EndDate != nil {
		end := *event.EndDate
		event.EndDate = &end
	}
	return event
}

func cloneEvents(events []models.CalendarEvent) []models.CalendarEvent {
	out := make([]models.CalendarEvent, len(events))
	for i, event := range events {
		out[i] = cloneEvent(event)
	}
	return out
}
