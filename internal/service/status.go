package service

import "github.com/noah-isme/pentadosen-api/internal/models"

// DeriveResearchStatus computes the research lifecycle from its attached reports.
func DeriveResearchStatus(r *models.Research) models.RecordStatus {
	if r == nil {
		return models.StatusRejected
	}
	proposal, progress, final := r.Proposal.Present(), r.Progress.Present(), r.Final.Present()
	switch {
	case proposal && progress && final:
		return models.StatusComplete
	case proposal && progress:
		return models.StatusInProgress
	case proposal:
		return models.StatusProposal
	default:
		return models.StatusRejected
	}
}

// PublicationStatus is complete once a manuscript is attached.
func PublicationStatus(p *models.Publication) models.RecordStatus {
	if p != nil && p.Manuscript.Present() {
		return models.StatusComplete
	}
	return models.StatusInProgress
}

// HKIStatus is complete once the certificate document is attached.
func HKIStatus(h *models.HKI) models.RecordStatus {
	if h != nil && h.Document.Present() {
		return models.StatusComplete
	}
	return models.StatusInProgress
}
