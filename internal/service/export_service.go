package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/pkg/civildate"
	"github.com/noah-isme/pentadosen-api/pkg/export"
	"github.com/noah-isme/pentadosen-api/pkg/format"
	"github.com/noah-isme/pentadosen-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	Extension() string
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Rows         int
	ExpiresAt    time.Time
}

// ExportServiceParams groups the export dependencies.
type ExportServiceParams struct {
	Research     researchLister
	Publications publicationLister
	HKI          hkiLister
	Events       eventSource
	Clock        *civildate.Clock
	Storage      fileStorage
	Signer       *storage.SignedURLSigner
	CSV          datasetRenderer
	PDF          datasetRenderer
	Logger       *zap.Logger
	Config       ExportConfig
}

// ExportService builds tabular datasets from the records and persists rendered files.
type ExportService struct {
	research     researchLister
	publications publicationLister
	hki          hkiLister
	events       eventSource
	clock        *civildate.Clock
	storage      fileStorage
	signer       *storage.SignedURLSigner
	csv          datasetRenderer
	pdf          datasetRenderer
	logger       *zap.Logger
	cfg          ExportConfig
	now          func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(params ExportServiceParams) *ExportService {
	cfg := params.Config
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	csv := params.CSV
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	pdf := params.PDF
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		research:     params.Research,
		publications: params.Publications,
		hki:          params.HKI,
		events:       params.Events,
		clock:        params.Clock,
		storage:      params.Storage,
		signer:       params.Signer,
		csv:          csv,
		pdf:          pdf,
		logger:       logger,
		cfg:          cfg,
		now:          time.Now,
	}
}

// Generate renders the dataset of job and stores it behind a signed token.
func (s *ExportService) Generate(_ context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, err := s.BuildDataset(job.Resource)
	if err != nil {
		return nil, err
	}

	var renderer datasetRenderer
	switch job.Format {
	case models.ExportFormatCSV:
		renderer = s.csv
	case models.ExportFormatPDF:
		renderer = s.pdf
	default:
		return nil, fmt.Errorf("unsupported format %s", job.Format)
	}
	payload, err := renderer.Render(dataset)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", job.Format, err)
	}

	filename := fmt.Sprintf("%s_%s_%s%s", job.Resource, s.now().UTC().Format("20060102_150405"), job.ID[:min(8, len(job.ID))], renderer.Extension())
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, fmt.Errorf("store export: %w", err)
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, fmt.Errorf("sign export: %w", err)
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.logger.Info("export generated",
		zap.String("job_id", job.ID),
		zap.String("resource", string(job.Resource)),
		zap.String("format", string(job.Format)),
		zap.Int("rows", len(dataset.Rows)),
	)
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/download/%s", prefix, token),
		Rows:         len(dataset.Rows),
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl, or the configured result TTL when ttl <= 0.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// ContentType reports the MIME type of a format.
func (s *ExportService) ContentType(f models.ExportFormat) string {
	if f == models.ExportFormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}

// BuildDataset turns the current records of resource into a table.
func (s *ExportService) BuildDataset(resource models.ExportResource) (export.Dataset, error) {
	switch resource {
	case models.ExportResearch:
		return s.researchDataset(), nil
	case models.ExportPublications:
		return s.publicationDataset(), nil
	case models.ExportHKI:
		return s.hkiDataset(), nil
	case models.ExportEvents:
		return s.eventDataset(), nil
	default:
		return export.Dataset{}, fmt.Errorf("unsupported export resource %s", resource)
	}
}

func (s *ExportService) researchDataset() export.Dataset {
	data := export.Dataset{
		Title:   "Daftar Penelitian",
		Headers: []string{"No", "Judul", "Ketua Peneliti", "Anggota", "Skema", "Dana", "Sumber Dana", "Tahun", "Status"},
	}
	for i, r := range s.research.All() {
		data.Rows = append(data.Rows, map[string]string{
			"No":             strconv.Itoa(i + 1),
			"Judul":          r.Title,
			"Ketua Peneliti": r.LeadResearcher,
			"Anggota":        strings.Join(r.Members, "; "),
			"Skema":          string(r.Scheme),
			"Dana":           format.FormatRupiah(r.Amount),
			"Sumber Dana":    r.SourceOfFunds,
			"Tahun":          yearString(r.Year),
			"Status":         string(DeriveResearchStatus(r)),
		})
	}
	return data
}

func (s *ExportService) publicationDataset() export.Dataset {
	data := export.Dataset{
		Title:   "Daftar Publikasi",
		Headers: []string{"No", "Judul", "Penulis", "Kategori", "Jenis", "Penerbit", "Halaman", "ISBN", "Tahun", "Status"},
	}
	for i, p := range s.publications.All() {
		data.Rows = append(data.Rows, map[string]string{
			"No":       strconv.Itoa(i + 1),
			"Judul":    p.Title,
			"Penulis":  strings.Join(append([]string{p.Author}, p.CoAuthors...), "; "),
			"Kategori": string(p.Category),
			"Jenis":    string(p.Type),
			"Penerbit": p.Publisher,
			"Halaman":  strconv.Itoa(p.Pages),
			"ISBN":     p.ISBN,
			"Tahun":    yearString(p.Year),
			"Status":   string(PublicationStatus(p)),
		})
	}
	return data
}

func (s *ExportService) hkiDataset() export.Dataset {
	data := export.Dataset{
		Title:   "Daftar HKI",
		Headers: []string{"No", "Judul", "Jenis Ciptaan", "Nomor Permohonan", "Nomor Pencatatan", "Tanggal Diumumkan", "Pencipta", "Pemegang", "Status"},
	}
	for i, h := range s.hki.All() {
		data.Rows = append(data.Rows, map[string]string{
			"No":                strconv.Itoa(i + 1),
			"Judul":             h.Title,
			"Jenis Ciptaan":     string(h.Type),
			"Nomor Permohonan":  h.ApplicationNo,
			"Nomor Pencatatan":  h.RegistrationNo,
			"Tanggal Diumumkan": h.AnnouncedOn.String(),
			"Pencipta":          strings.Join(h.Creators, "; "),
			"Pemegang":          strings.Join(h.Holders, "; "),
			"Status":            string(HKIStatus(h)),
		})
	}
	return data
}

func (s *ExportService) eventDataset() export.Dataset {
	data := export.Dataset{
		Title:   "Agenda Penelitian",
		Headers: []string{"No", "Judul", "Kategori", "Mulai", "Selesai", "Status"},
	}
	events := s.events.Snapshot()
	sortEventsByStart(events)
	today := s.clock.Today()
	for i, e := range events {
		data.Rows = append(data.Rows, map[string]string{
			"No":       strconv.Itoa(i + 1),
			"Judul":    e.Title,
			"Kategori": string(e.Category),
			"Mulai":    e.StartDate.String(),
			"Selesai":  e.EffectiveEnd().String(),
			"Status":   string(Phase(e, today)),
		})
	}
	return data
}

func yearString(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year)
}
