package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/repository"
	"github.com/noah-isme/pentadosen-api/pkg/civildate"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
)

type recordedActivity struct {
	Type     models.ActivityType
	Entity   string
	EntityID string
}

type activityRecorderStub struct {
	mu      sync.Mutex
	entries []recordedActivity
}

func (a *activityRecorderStub) Record(_ context.Context, activityType models.ActivityType, entity, entityID, _ string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, recordedActivity{Type: activityType, Entity: entity, EntityID: entityID})
}

func (a *activityRecorderStub) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

func jakartaClock(date string) *civildate.Clock {
	loc := time.FixedZone("WIB", 7*60*60)
	d := civildate.MustParse(date)
	return civildate.FixedClock(time.Date(d.Year(), d.Time().Month(), d.Time().Day(), 9, 0, 0, 0, loc), loc)
}

func seedEvents() []models.CalendarEvent {
	return []models.CalendarEvent{
		{ID: "1", Title: "Proposal Hibah Internal", StartDate: day("2025-10-25"), EndDate: dayPtr("2025-10-30"), Category: models.EventCategoryResearch},
		{ID: "2", Title: "Submit Jurnal Q1", StartDate: day("2025-10-18"), EndDate: dayPtr("2025-10-20"), Category: models.EventCategoryPublication},
	}
}

func newEventFixture(t *testing.T) (*EventService, *flakyStateStore, *activityRecorderStub) {
	t.Helper()
	state, _ := newFlakyState()
	activity := &activityRecorderStub{}
	svc := NewEventService(state, activity, jakartaClock("2025-10-19"), nil, nil, nil)
	require.NoError(t, svc.Bootstrap(context.Background(), seedEvents()))
	return svc, state, activity
}

func TestEventServiceBootstrapSeedsAndPersists(t *testing.T) {
	svc, state, _ := newEventFixture(t)

	assert.Len(t, svc.Snapshot(), 2)

	var stored []models.CalendarEvent
	found, err := state.StateStore.Load(context.Background(), models.StateKeyEvents, &stored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, stored, 2)
}

func TestEventServiceBootstrapDropsInvalidStoredEvents(t *testing.T) {
	repo := repository.NewMemoryStateRepository()
	repo.Put(models.StateKeyEvents, []byte(`{"schemaVersion": 1, "savedAt": "2025-10-19T00:00:00Z", "data": [
		{"id": "ok", "title": "Valid", "startDate": "2025-10-19", "category": "Other"},
		{"id": "bad-range", "title": "Reversed", "startDate": "2025-10-19", "endDate": "2025-10-01", "category": "Other"},
		{"id": "bad-date", "title": "Broken", "startDate": "19/10/2025", "category": "Other"},
		{"id": "bad-category", "title": "Unknown", "startDate": "2025-10-19", "category": "Seminar"}
	]}`))
	svc := NewEventService(NewStateStore(repo, nil, nil), nil, jakartaClock("2025-10-19"), nil, nil, nil)

	require.NoError(t, svc.Bootstrap(context.Background(), seedEvents()))

	events := svc.Snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "ok", events[0].ID)
}

func TestEventServiceCreate(t *testing.T) {
	svc, _, activity := newEventFixture(t)

	event, err := svc.Create(context.Background(), CreateEventRequest{
		Title:     "  Seminar Nasional ",
		StartDate: "2025-11-01",
		Category:  string(models.EventCategoryOther),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "Seminar Nasional", event.Title)
	assert.Nil(t, event.EndDate)
	assert.Equal(t, day("2025-11-01"), event.EffectiveEnd())
	assert.Len(t, svc.Snapshot(), 3)
	assert.Equal(t, 1, activity.count())
}

func TestEventServiceCreateRejectsReversedRange(t *testing.T) {
	svc, state, _ := newEventFixture(t)
	savesBefore := state.saves

	_, err := svc.Create(context.Background(), CreateEventRequest{
		Title:     "Mundur",
		StartDate: "2025-10-20",
		EndDate:   "2025-10-19",
		Category:  string(models.EventCategoryResearch),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidDateRange))
	assert.Len(t, svc.Snapshot(), 2)
	assert.Equal(t, savesBefore, state.saves)
}

func TestEventServiceCreateAcceptsSameDayRange(t *testing.T) {
	svc, _, _ := newEventFixture(t)

	event, err := svc.Create(context.Background(), CreateEventRequest{
		Title:     "Sehari",
		StartDate: "2025-10-20",
		EndDate:   "2025-10-20",
		Category:  string(models.EventCategoryHKI),
	})
	require.NoError(t, err)
	require.NotNil(t, event.EndDate)
}

func TestEventServiceCreateValidation(t *testing.T) {
	svc, _, _ := newEventFixture(t)

	_, err := svc.Create(context.Background(), CreateEventRequest{StartDate: "2025-10-20", Category: "Seminar"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Details, "title")
	assert.Contains(t, appErr.Details, "category")

	_, err = svc.Create(context.Background(), CreateEventRequest{Title: "X", StartDate: "2025-02-30", Category: "Other"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidDate))
}

func TestEventServiceFailedSaveKeepsCollection(t *testing.T) {
	svc, state, activity := newEventFixture(t)
	state.fail = true

	_, err := svc.Create(context.Background(), CreateEventRequest{Title: "Gagal", StartDate: "2025-10-21", Category: "Other"})
	require.Error(t, err)
	err = svc.Delete(context.Background(), "1")
	require.Error(t, err)

	assert.Len(t, svc.Snapshot(), 2)
	assert.Zero(t, activity.count())
}

func TestEventServiceUpdate(t *testing.T) {
	svc, _, _ := newEventFixture(t)
	empty := ""
	title := "Submit Jurnal Q1 (revisi)"

	event, err := svc.Update(context.Background(), "2", UpdateEventRequest{Title: &title, EndDate: &empty})
	require.NoError(t, err)
	assert.Equal(t, title, event.Title)
	assert.Nil(t, event.EndDate)

	start := "2025-10-21"
	end := "2025-10-20"
	_, err = svc.Update(context.Background(), "2", UpdateEventRequest{StartDate: &start, EndDate: &end})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidDateRange))

	stored, err := svc.Get(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, day("2025-10-18"), stored.StartDate)

	_, err = svc.Update(context.Background(), "missing", UpdateEventRequest{Title: &title})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestEventServiceDelete(t *testing.T) {
	svc, _, _ := newEventFixture(t)

	require.NoError(t, svc.Delete(context.Background(), "1"))
	assert.Len(t, svc.Snapshot(), 1)
	assert.True(t, errors.Is(svc.Delete(context.Background(), "1"), appErrors.ErrNotFound))
}

func TestEventServiceList(t *testing.T) {
	svc, _, _ := newEventFixture(t)

	all, err := svc.List(context.Background(), EventListRequest{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2", all[0].ID)

	onDay, err := svc.List(context.Background(), EventListRequest{Date: "2025-10-27"})
	require.NoError(t, err)
	require.Len(t, onDay, 1)
	assert.Equal(t, "1", onDay[0].ID)

	byCategory, err := svc.List(context.Background(), EventListRequest{Category: "Publication"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)

	_, err = svc.List(context.Background(), EventListRequest{From: "2025-10-30", To: "2025-10-01"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidDateRange))
}

func TestEventServiceExportICS(t *testing.T) {
	svc, _, _ := newEventFixture(t)

	data, err := svc.ExportICS(context.Background())
	require.NoError(t, err)
	body := string(data)
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
	assert.Contains(t, body, "Proposal Hibah Internal")
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
}
