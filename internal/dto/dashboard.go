package dto

import (
	"time"

	"github.com/noah-isme/pentadosen-api/internal/models"
)

// DashboardSummary is the payload of GET /dashboard/summary.
type DashboardSummary struct {
	Records          RecordStats         `json:"records"`
	Notifications    NotificationSection `json:"notifications"`
	RecentActivities []models.Activity   `json:"recentActivities"`
	GeneratedAt      time.Time           `json:"generatedAt"`
}

// RecordStats aggregates the tracked records. It is the cached part of the summary.
type RecordStats struct {
	Research              KindStats `json:"research"`
	Publications          KindStats `json:"publications"`
	HKI                   KindStats `json:"hki"`
	TotalFunding          int64     `json:"totalFunding"`
	TotalFundingFormatted string    `json:"totalFundingFormatted"`
}

// KindStats counts one record kind by derived status and year.
type KindStats struct {
	Total    int                         `json:"total"`
	ByStatus map[models.RecordStatus]int `json:"byStatus"`
	ByYear   map[int]int                 `json:"byYear"`
}

// NotificationSection is recomputed on every request.
type NotificationSection struct {
	Today       string                `json:"today"`
	UnreadCount int                   `json:"unreadCount"`
	Upcoming    []models.Notification `json:"upcoming"`
}
