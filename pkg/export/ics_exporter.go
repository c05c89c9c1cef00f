package export

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// CalendarEntry is one all-day event to publish. End is inclusive.
type CalendarEntry struct {
	UID         string
	Summary     string
	Description string
	Category    string
	Start       time.Time
	End         time.Time
}

// ICSExporter renders calendar entries as an RFC 5545 document.
type ICSExporter struct {
	ProductID string
	Domain    string
	now       func() time.Time
}

// NewICSExporter constructs an iCalendar exporter.
func NewICSExporter(productID, domain string) *ICSExporter {
	if productID == "" {
		productID = "-//PentaDosen//Research Calendar//ID"
	}
	if domain == "" {
		domain = "pentadosen.local"
	}
	return &ICSExporter{ProductID: productID, Domain: domain, now: time.Now}
}

// ContentType reports the MIME type of rendered output.
func (e *ICSExporter) ContentType() string { return "text/calendar; charset=utf-8" }

// Render serialises entries. DTEND is exclusive per RFC 5545, so it is End plus one day.
func (e *ICSExporter) Render(name string, entries []CalendarEntry) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(e.ProductID)
	if name != "" {
		cal.SetName(name)
		cal.SetXWRCalName(name)
	}

	stamp := e.now().UTC()
	for _, entry := range entries {
		if entry.UID == "" {
			return nil, fmt.Errorf("calendar entry %q has no uid", entry.Summary)
		}
		end := entry.End
		if end.IsZero() || end.Before(entry.Start) {
			end = entry.Start
		}
		ev := cal.AddEvent(fmt.Sprintf("%s@%s", entry.UID, e.Domain))
		ev.SetDtStampTime(stamp)
		ev.SetSummary(entry.Summary)
		if entry.Description != "" {
			ev.SetDescription(entry.Description)
		}
		if entry.Category != "" {
			ev.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(entry.Category))
		}
		ev.SetAllDayStartAt(entry.Start)
		ev.SetAllDayEndAt(end.AddDate(0, 0, 1))
	}
	return []byte(cal.Serialize()), nil
}
