package models

import "time"

// PublicationCategory groups publications.
type PublicationCategory string

const (
	PublicationScientificWork PublicationCategory = "Publikasi Karya Ilmiah"
	PublicationScientificBook PublicationCategory = "Publikasi Buku Ilmiah"
)

// PublicationType is the medium of a publication.
type PublicationType string

const (
	PublicationArticle  PublicationType = "Artikel"
	PublicationBook     PublicationType = "Buku"
	PublicationMagazine PublicationType = "Majalah"
)

// Publication is a tracked scholarly output with one manuscript slot.
type Publication struct {
	ID         string              `json:"id" yaml:"id"`
	Title      string              `json:"title" yaml:"title"`
	Author     string              `json:"author" yaml:"author"`
	CoAuthors  []string            `json:"coAuthors" yaml:"coAuthors"`
	Category   PublicationCategory `json:"category" yaml:"category"`
	Type       PublicationType     `json:"type" yaml:"type"`
	Publisher  string              `json:"publisher" yaml:"publisher"`
	Pages      int                 `json:"pages" yaml:"pages"`
	ISBN       string              `json:"isbn" yaml:"isbn"`
	Abstract   string              `json:"abstract,omitempty" yaml:"abstract"`
	Year       int                 `json:"year" yaml:"year"`
	Manuscript *Artifact           `json:"manuscript,omitempty" yaml:"-"`
	CreatedAt  time.Time           `json:"createdAt" yaml:"-"`
	UpdatedAt  time.Time           `json:"updatedAt" yaml:"-"`
}

// Clone returns a deep copy.
func (p *Publication) Clone() *Publication {
	c := *p
	c.CoAuthors = append([]string(nil), p.CoAuthors...)
	c.Manuscript = p.Manuscript.Clone()
	return &c
}

// PublicationFilter narrows publication listings.
type PublicationFilter struct {
	Search   string
	Type     PublicationType
	Status   RecordStatus
	Year     int
	Page     int
	PageSize int
}
