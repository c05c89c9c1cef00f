package models

import "time"

// ResearchScheme is the funding scheme of a research project.
type ResearchScheme string

const (
	SchemeInternalGrant ResearchScheme = "Hibah Internal"
	SchemeExternalGrant ResearchScheme = "Hibah External"
	SchemeSelfFunded    ResearchScheme = "Mandiri"
)

// ResearchSlot names an artifact slot on a research project.
type ResearchSlot string

const (
	SlotProposal ResearchSlot = "proposal"
	SlotProgress ResearchSlot = "progress"
	SlotFinal    ResearchSlot = "final"
)

// Valid reports whether s is a known slot.
func (s ResearchSlot) Valid() bool {
	return s == SlotProposal || s == SlotProgress || s == SlotFinal
}

// Research is a tracked research project. Status is never stored.
type Research struct {
	ID             string         `json:"id" yaml:"id"`
	Title          string         `json:"title" yaml:"title"`
	LeadResearcher string         `json:"leadResearcher" yaml:"leadResearcher"`
	Members        []string       `json:"members" yaml:"members"`
	Scheme         ResearchScheme `json:"scheme" yaml:"scheme"`
	Amount         int64          `json:"amount" yaml:"amount"`
	ProposedAmount int64          `json:"proposedAmount" yaml:"proposedAmount"`
	SourceOfFunds  string         `json:"sourceOfFunds" yaml:"sourceOfFunds"`
	Year           int            `json:"year" yaml:"year"`
	Proposal       *Artifact      `json:"proposal,omitempty" yaml:"-"`
	Progress       *Artifact      `json:"progress,omitempty" yaml:"-"`
	Final          *Artifact      `json:"final,omitempty" yaml:"-"`
	CreatedAt      time.Time      `json:"createdAt" yaml:"-"`
	UpdatedAt      time.Time      `json:"updatedAt" yaml:"-"`
}

// Artifact returns the artifact in slot.
func (r *Research) Artifact(slot ResearchSlot) *Artifact {
	switch slot {
	case SlotProposal:
		return r.Proposal
	case SlotProgress:
		return r.Progress
	case SlotFinal:
		return r.Final
	}
	return nil
}

// SetArtifact replaces the artifact in slot.
func (r *Research) SetArtifact(slot ResearchSlot, a *Artifact) {
	switch slot {
	case SlotProposal:
		r.Proposal = a
	case SlotProgress:
		r.Progress = a
	case SlotFinal:
		r.Final = a
	}
}

// Clone returns a deep copy.
func (r *Research) Clone() *Research {
	c := *r
	c.Members = append([]string(nil), r.Members...)
	c.Proposal = r.Proposal.Clone()
	c.Progress = r.Progress.Clone()
	c.Final = r.Final.Clone()
	return &c
}

// ResearchFilter narrows research listings.
type ResearchFilter struct {
	Search   string
	Scheme   ResearchScheme
	Status   RecordStatus
	Year     int
	Page     int
	PageSize int
}
