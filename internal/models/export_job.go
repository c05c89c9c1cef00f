package models

import "time"

// ExportResource selects the dataset of an export job.
type ExportResource string

const (
	ExportResearch     ExportResource = "research"
	ExportPublications ExportResource = "publications"
	ExportHKI          ExportResource = "hki"
	ExportEvents       ExportResource = "events"
)

// Valid reports whether r is exportable.
func (r ExportResource) Valid() bool {
	switch r {
	case ExportResearch, ExportPublications, ExportHKI, ExportEvents:
		return true
	}
	return false
}

// ExportFormat enumerates supported export formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportStatus captures background job lifecycle states.
type ExportStatus string

const (
	ExportStatusQueued     ExportStatus = "QUEUED"
	ExportStatusProcessing ExportStatus = "PROCESSING"
	ExportStatusFinished   ExportStatus = "FINISHED"
	ExportStatusFailed     ExportStatus = "FAILED"
)

// ExportJob is the metadata of one asynchronous export.
type ExportJob struct {
	ID           string         `json:"id"`
	Resource     ExportResource `json:"resource"`
	Format       ExportFormat   `json:"format"`
	Status       ExportStatus   `json:"status"`
	Progress     int            `json:"progress"`
	Rows         int            `json:"rows"`
	FilePath     string         `json:"-"`
	ResultURL    *string        `json:"resultUrl,omitempty"`
	ExpiresAt    *time.Time     `json:"expiresAt,omitempty"`
	ErrorMessage *string        `json:"error,omitempty"`
	RequestedBy  string         `json:"requestedBy"`
	CreatedAt    time.Time      `json:"createdAt"`
	FinishedAt   *time.Time     `json:"finishedAt,omitempty"`
}
