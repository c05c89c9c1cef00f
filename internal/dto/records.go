package dto

import (
	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/pkg/format"
)

// ResearchResponse decorates a research project with derived fields.
type ResearchResponse struct {
	*models.Research
	Status                  models.RecordStatus `json:"status"`
	AmountFormatted         string              `json:"amountFormatted"`
	AmountInWords           string              `json:"amountInWords"`
	ProposedAmountFormatted string              `json:"proposedAmountFormatted"`
}

// NewResearchResponse builds the response for r with its derived status.
func NewResearchResponse(r *models.Research, status models.RecordStatus) ResearchResponse {
	return ResearchResponse{
		Research:                r,
		Status:                  status,
		AmountFormatted:         format.FormatRupiah(r.Amount),
		AmountInWords:           format.Terbilang(r.Amount),
		ProposedAmountFormatted: format.FormatRupiah(r.ProposedAmount),
	}
}

// PublicationResponse decorates a publication with its derived status.
type PublicationResponse struct {
	*models.Publication
	Status models.RecordStatus `json:"status"`
}

// HKIResponse decorates an HKI record with its derived year and status.
type HKIResponse struct {
	*models.HKI
	Year   int                 `json:"year"`
	Status models.RecordStatus `json:"status"`
}

// NewHKIResponse builds the response for h.
func NewHKIResponse(h *models.HKI, status models.RecordStatus) HKIResponse {
	return HKIResponse{HKI: h, Year: h.Year(), Status: status}
}

// UnreadCountResponse is the payload of GET /notifications/unread-count.
type UnreadCountResponse struct {
	UnreadCount int `json:"unreadCount"`
}

// MarkAllReadResponse reports how many notifications were newly marked.
type MarkAllReadResponse struct {
	Marked      int `json:"marked"`
	UnreadCount int `json:"unreadCount"`
}

// IdentityFormatRequest carries raw identity inputs; every field is optional.
type IdentityFormatRequest struct {
	NIDN  string `json:"nidn"`
	NIP   string `json:"nip"`
	ISBN  string `json:"isbn"`
	Email string `json:"email"`
}

// FormattedField is one formatted identity value.
type FormattedField struct {
	Input     string `json:"input"`
	Formatted string `json:"formatted"`
	Valid     bool   `json:"valid"`
}

// IdentityFormatResponse holds the formatted values for the submitted fields.
type IdentityFormatResponse struct {
	NIDN  *FormattedField `json:"nidn,omitempty"`
	NIP   *FormattedField `json:"nip,omitempty"`
	ISBN  *FormattedField `json:"isbn,omitempty"`
	Email *FormattedField `json:"email,omitempty"`
}

// RupiahResponse is the payload of GET /formats/rupiah.
type RupiahResponse struct {
	Amount    int64  `json:"amount"`
	Formatted string `json:"formatted"`
	InWords   string `json:"inWords"`
}
