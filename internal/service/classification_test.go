package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/pkg/civildate"
)

func day(s string) civildate.Date { return civildate.MustParse(s) }

func dayPtr(s string) *civildate.Date {
	d := civildate.MustParse(s)
	return &d
}

func testEvent(id, start, end string) models.CalendarEvent {
	event := models.CalendarEvent{ID: id, Title: "Agenda " + id, StartDate: day(start), Category: models.EventCategoryOther}
	if end != "" {
		event.EndDate = dayPtr(end)
	}
	return event
}

func TestTodayUsesJakartaCivilDate(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	now := time.Date(2025, time.October, 18, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, day("2025-10-19"), Today(now, jakarta))
	assert.Equal(t, day("2025-10-18"), Today(now, time.UTC))
}

func TestClassify(t *testing.T) {
	today := day("2025-10-19")
	horizon := Horizon(today, DefaultHorizonDays)
	assert.Equal(t, day("2025-10-26"), horizon)

	cases := []struct {
		name  string
		event models.CalendarEvent
		want  models.Relevance
	}{
		{"range containing today", testEvent("a", "2025-10-18", "2025-10-20"), models.RelevanceOngoing},
		{"single day today", testEvent("b", "2025-10-19", ""), models.RelevanceOngoing},
		{"starts within horizon", testEvent("c", "2025-10-25", "2025-10-30"), models.RelevanceUpcoming},
		{"starts on horizon", testEvent("d", "2025-10-26", ""), models.RelevanceUpcoming},
		{"starts after horizon", testEvent("e", "2025-10-27", ""), models.RelevanceNone},
		{"ended yesterday", testEvent("f", "2025-10-10", "2025-10-18"), models.RelevanceNone},
		{"single day yesterday", testEvent("g", "2025-10-18", ""), models.RelevanceNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.event, today, horizon))
		})
	}
}

func TestPhase(t *testing.T) {
	today := day("2025-10-19")
	assert.Equal(t, models.PhaseNotStarted, Phase(testEvent("a", "2025-10-25", ""), today))
	assert.Equal(t, models.PhaseOngoing, Phase(testEvent("b", "2025-10-18", "2025-10-20"), today))
	assert.Equal(t, models.PhaseFinished, Phase(testEvent("c", "2025-10-01", "2025-10-02"), today))
}

func TestRelevantEventsSortsStably(t *testing.T) {
	events := []models.CalendarEvent{
		testEvent("late", "2025-10-25", "2025-10-30"),
		testEvent("old", "2025-09-01", ""),
		testEvent("first-tie", "2025-10-18", "2025-10-20"),
		testEvent("second-tie", "2025-10-18", "2025-10-19"),
		testEvent("now", "2025-10-19", ""),
	}

	relevant := RelevantEvents(events, day("2025-10-19"), DefaultHorizonDays)

	ids := make([]string, 0, len(relevant))
	for _, event := range relevant {
		ids = append(ids, event.ID)
	}
	assert.Equal(t, []string{"first-tie", "second-tie", "now", "late"}, ids)
}

func TestEventsOnAndBetween(t *testing.T) {
	events := []models.CalendarEvent{
		testEvent("a", "2025-10-18", "2025-10-20"),
		testEvent("b", "2025-10-25", ""),
	}

	assert.Len(t, EventsOn(events, day("2025-10-20")), 1)
	assert.Empty(t, EventsOn(events, day("2025-10-21")))
	assert.Len(t, EventsBetween(events, day("2025-10-20"), day("2025-10-25")), 2)
	assert.Empty(t, EventsBetween(events, day("2025-10-21"), day("2025-10-24")))
}
