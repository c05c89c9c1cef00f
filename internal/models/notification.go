package models

import "github.com/noah-isme/pentadosen-api/pkg/civildate"

// Relevance is the notification bucket of an event relative to today.
type Relevance string

const (
	RelevanceNone     Relevance = "none"
	RelevanceOngoing  Relevance = "ongoing"
	RelevanceUpcoming Relevance = "upcoming"
)

// EventPhase is the label shown next to a notification.
type EventPhase string

const (
	PhaseNotStarted EventPhase = "Belum Dimulai"
	PhaseOngoing    EventPhase = "Sedang Berlangsung"
	PhaseFinished   EventPhase = "Selesai"
)

// Notification is a relevant event decorated with its read flag.
type Notification struct {
	Event     CalendarEvent `json:"event"`
	Relevance Relevance     `json:"relevance"`
	Phase     EventPhase    `json:"phase"`
	Read      bool          `json:"read"`
}

// NotificationFeed is the full notification view for one read.
type NotificationFeed struct {
	Today       civildate.Date `json:"today"`
	Horizon     civildate.Date `json:"horizon"`
	Items       []Notification `json:"items"`
	UnreadCount int            `json:"unreadCount"`
}
