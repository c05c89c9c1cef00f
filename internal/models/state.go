package models

import (
	"encoding/json"
	"time"
)

// Fixed state keys. Versions live inside the envelope, not in the key.
const (
	StateKeyEvents            = "events"
	StateKeyReadNotifications = "read_notifications"
)

// StateEnvelope wraps a persisted blob with its schema version.
type StateEnvelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	SavedAt       time.Time       `json:"savedAt"`
	Data          json.RawMessage `json:"data"`
}

// StateRecord is one row of the app_state table.
type StateRecord struct {
	Key           string    `db:"key"`
	SchemaVersion int       `db:"schema_version"`
	Payload       []byte    `db:"payload"`
	UpdatedAt     time.Time `db:"updated_at"`
}
