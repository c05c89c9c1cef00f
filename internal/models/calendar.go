package models

import (
	"time"

	"github.com/noah-isme/pentadosen-api/pkg/civildate"
)

// EventCategory classifies a calendar entry.
type EventCategory string

const (
	EventCategoryResearch    EventCategory = "Research"
	EventCategoryPublication EventCategory = "Publication"
	EventCategoryHKI         EventCategory = "HKI"
	EventCategoryOther       EventCategory = "Other"
)

// EventCategories lists every accepted category in display order.
var EventCategories = []EventCategory{
	EventCategoryResearch,
	EventCategoryPublication,
	EventCategoryHKI,
	EventCategoryOther,
}

// Valid reports whether c is a known category.
func (c EventCategory) Valid() bool {
	for _, known := range EventCategories {
		if c == known {
			return true
		}
	}
	return false
}

// CalendarEvent is a dated research milestone. EndDate is optional; a missing
// end makes the event a single day.
type CalendarEvent struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	StartDate   civildate.Date  `json:"startDate"`
	EndDate     *civildate.Date `json:"endDate,omitempty"`
	Category    EventCategory   `json:"category"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt,omitempty"`
}

// EffectiveEnd returns EndDate, or StartDate when no end is set.
func (e CalendarEvent) EffectiveEnd() civildate.Date {
	if e.EndDate == nil || e.EndDate.IsZero() {
		return e.StartDate
	}
	return *e.EndDate
}

// Contains reports whether day falls inside the inclusive event range.
func (e CalendarEvent) Contains(day civildate.Date) bool {
	return !day.Before(e.StartDate) && !day.After(e.EffectiveEnd())
}

// Overlaps reports whether the event intersects the inclusive window [from, to].
func (e CalendarEvent) Overlaps(from, to civildate.Date) bool {
	return !e.EffectiveEnd().Before(from) && !e.StartDate.After(to)
}

// EventFilter narrows calendar listings. Zero fields are ignored.
type EventFilter struct {
	Date     civildate.Date
	From     civildate.Date
	To       civildate.Date
	Category EventCategory
}
