package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/pentadosen-api/internal/models"
)

func TestDeriveResearchStatus(t *testing.T) {
	file := func(name string) *models.Artifact { return &models.Artifact{FileName: name} }

	cases := []struct {
		name     string
		research *models.Research
		want     models.RecordStatus
	}{
		{"all reports", &models.Research{Proposal: file("p.pdf"), Progress: file("g.pdf"), Final: file("f.pdf")}, models.StatusComplete},
		{"proposal and progress", &models.Research{Proposal: file("p.pdf"), Progress: file("g.pdf")}, models.StatusInProgress},
		{"proposal only", &models.Research{Proposal: file("p.pdf")}, models.StatusProposal},
		{"final without proposal", &models.Research{Final: file("f.pdf")}, models.StatusRejected},
		{"nothing attached", &models.Research{}, models.StatusRejected},
		{"empty file name", &models.Research{Proposal: &models.Artifact{}}, models.StatusRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveResearchStatus(tc.research))
		})
	}
}

func TestSingleSlotStatuses(t *testing.T) {
	assert.Equal(t, models.StatusInProgress, PublicationStatus(&models.Publication{}))
	assert.Equal(t, models.StatusComplete, PublicationStatus(&models.Publication{Manuscript: &models.Artifact{FileName: "m.pdf"}}))
	assert.Equal(t, models.StatusInProgress, HKIStatus(&models.HKI{}))
	assert.Equal(t, models.StatusComplete, HKIStatus(&models.HKI{Document: &models.Artifact{FileName: "d.pdf"}}))
}
