package service

import (
	"sort"
	"time"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/pkg/civildate"
)

// DefaultHorizonDays is how far ahead upcoming events are announced.
const DefaultHorizonDays = 7

// Today returns the civil date of now in loc.
func Today(now time.Time, loc *time.Location) civildate.Date {
	return civildate.In(now, loc)
}

// Horizon returns the last day, inclusive, for which upcoming events are announced.
func Horizon(today civildate.Date, horizonDays int) civildate.Date {
	if horizonDays < 0 {
		horizonDays = 0
	}
	return today.AddDays(horizonDays)
}

// Classify buckets event relative to today. An event is ongoing when today
// lies within its inclusive range and upcoming when it starts after today but
// no later than horizon.
func Classify(event models.CalendarEvent, today, horizon civildate.Date) models.Relevance {
	if event.StartDate.IsZero() {
		return models.RelevanceNone
	}
	if event.Contains(today) {
		return models.RelevanceOngoing
	}
	if event.StartDate.After(today) && !event.StartDate.After(horizon) {
		return models.RelevanceUpcoming
	}
	return models.RelevanceNone
}

// Phase labels event against today.
func Phase(event models.CalendarEvent, today civildate.Date) models.EventPhase {
	switch {
	case today.Before(event.StartDate):
		return models.PhaseNotStarted
	case today.After(event.EffectiveEnd()):
		return models.PhaseFinished
	default:
		return models.PhaseOngoing
	}
}

// RelevantEvents returns the ongoing and upcoming events ordered by start
// date. Events sharing a start date keep their input order.
func RelevantEvents(events []models.CalendarEvent, today civildate.Date, horizonDays int) []models.CalendarEvent {
	horizon := Horizon(today, horizonDays)
	relevant := make([]models.CalendarEvent, 0, len(events))
	for _, event := range events {
		if Classify(event, today, horizon) != models.RelevanceNone {
			relevant = append(relevant, event)
		}
	}
	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].StartDate.Before(relevant[j].StartDate)
	})
	return relevant
}

// EventsOn returns the events whose inclusive range contains day.
func EventsOn(events []models.CalendarEvent, day civildate.Date) []models.CalendarEvent {
	out := make([]models.CalendarEvent, 0)
	for _, event := range events {
		if event.Contains(day) {
			out = append(out, event)
		}
	}
	return out
}

// EventsBetween returns the events overlapping the inclusive window [from, to].
func EventsBetween(events []models.CalendarEvent, from, to civildate.Date) []models.CalendarEvent {
	out := make([]models.CalendarEvent, 0)
	for _, event := range events {
		if event.Overlaps(from, to) {
			out = append(out, event)
		}
	}
	return out
}
