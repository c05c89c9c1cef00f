package models

import "time"

// ActivityType classifies an activity log entry.
type ActivityType string

const (
	ActivityCreate   ActivityType = "create"
	ActivityUpdate   ActivityType = "update"
	ActivityDelete   ActivityType = "delete"
	ActivityUpload   ActivityType = "upload"
	ActivityImport   ActivityType = "import"
	ActivityRegister ActivityType = "register"
	ActivityLogin    ActivityType = "login"
	ActivityLogout   ActivityType = "logout"
)

// Entity kinds referenced by activity entries.
const (
	EntityEvent       = "event"
	EntityResearch    = "research"
	EntityPublication = "publication"
	EntityHKI         = "hki"
	EntityLecturer    = "lecturer"
	EntityReadState   = "notification"
	EntityExport      = "export"
)

// Actor attributes an action to a person. There is no authentication; the
// values are whatever the caller declares.
type Actor struct {
	Name       string `json:"name"`
	Faculty    string `json:"faculty,omitempty"`
	Department string `json:"department,omitempty"`
}

// Activity is one dashboard activity log entry.
type Activity struct {
	ID          string       `json:"id" yaml:"id"`
	User        string       `json:"user" yaml:"user"`
	Faculty     string       `json:"faculty" yaml:"faculty"`
	Department  string       `json:"department" yaml:"department"`
	Type        ActivityType `json:"activityType" yaml:"activityType"`
	Entity      string       `json:"entity,omitempty" yaml:"entity"`
	EntityID    string       `json:"entityId,omitempty" yaml:"entityId"`
	Description string       `json:"description" yaml:"description"`
	CreatedAt   time.Time    `json:"timestamp" yaml:"timestamp"`
}

// ActivityFilter narrows the activity log.
type ActivityFilter struct {
	Search     string
	Faculty    string
	Department string
	Type       ActivityType
	Entity     string
	Page       int
	PageSize   int
}
