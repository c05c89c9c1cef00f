package models

import "time"

// Artifact is an attached document held in memory. Seeded artifacts carry a
// filename only.
type Artifact struct {
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType,omitempty"`
	SizeBytes  int64     `json:"sizeBytes,omitempty"`
	UploadedAt time.Time `json:"uploadedAt,omitempty"`
	Content    []byte    `json:"-"`
}

// Present reports whether the slot holds a document.
func (a *Artifact) Present() bool {
	return a != nil && a.FileName != ""
}

// HasContent reports whether the artifact payload is downloadable.
func (a *Artifact) HasContent() bool {
	return a.Present() && len(a.Content) > 0
}

// Clone returns a deep copy so callers cannot mutate stored payloads.
func (a *Artifact) Clone() *Artifact {
	if a == nil {
		return nil
	}
	c := *a
	if a.Content != nil {
		c.Content = append([]byte(nil), a.Content...)
	}
	return &c
}

// RecordStatus is the lifecycle status derived from artifact presence.
type RecordStatus string

const (
	StatusComplete   RecordStatus = "Lengkap"
	StatusInProgress RecordStatus = "Sedang Berjalan"
	StatusProposal   RecordStatus = "Proposal"
	StatusRejected   RecordStatus = "Ditolak"
)

// Valid reports whether s is a known status.
func (s RecordStatus) Valid() bool {
	switch s {
	case StatusComplete, StatusInProgress, StatusProposal, StatusRejected:
		return true
	}
	return false
}
