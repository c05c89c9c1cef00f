package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/repository"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
	"github.com/noah-isme/pentadosen-api/pkg/format"
)

type researchRepository interface {
	List() []*models.Research
	Get(id string) (*models.Research, error)
	Create(item *models.Research) error
	Update(id string, fn func(*models.Research) (*models.Research, error)) (*models.Research, error)
	Delete(id string) (*models.Research, error)
}

// ResearchService manages research projects and their report slots.
type ResearchService struct {
	repo      researchRepository
	activity  ActivityRecorder
	artifacts *ArtifactPolicy
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	latency   time.Duration
	now       func() time.Time
}

// ResearchServiceParams groups the service dependencies.
type ResearchServiceParams struct {
	Repo      researchRepository
	Activity  ActivityRecorder
	Artifacts *ArtifactPolicy
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	Latency   time.Duration
}

// NewResearchService constructs the service.
func NewResearchService(params ResearchServiceParams) *ResearchService {
	validate := params.Validator
	if validate == nil {
		validate = NewValidator()
	} else {
		registerDomainValidations(validate)
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	activity := params.Activity
	if activity == nil {
		activity = noopActivity{}
	}
	artifacts := params.Artifacts
	if artifacts == nil {
		artifacts = NewArtifactPolicy(0, nil)
	}
	return &ResearchService{
		repo:      params.Repo,
		activity:  activity,
		artifacts: artifacts,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
		latency:   params.Latency,
		now:       time.Now,
	}
}

// ResearchListRequest filters research listings.
type ResearchListRequest struct {
	Search   string `form:"search"`
	Scheme   string `form:"scheme"`
	Status   string `form:"status"`
	Year     int    `form:"year"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// ResearchRequest is the create and update payload.
type ResearchRequest struct {
	Title          string   `json:"title" validate:"required,max=300"`
	LeadResearcher string   `json:"leadResearcher" validate:"required,max=150"`
	Members        []string `json:"members" validate:"omitempty,dive,required"`
	Scheme         string   `json:"scheme" validate:"required,researchscheme"`
	Amount         int64    `json:"amount" validate:"gte=0"`
	ProposedAmount int64    `json:"proposedAmount" validate:"gte=0"`
	SourceOfFunds  string   `json:"sourceOfFunds" validate:"max=150"`
	Year           int      `json:"year" validate:"required,gte=1900,lte=2100"`
}

// List returns matching projects with pagination.
func (s *ResearchService) List(_ context.Context, req ResearchListRequest) ([]*models.Research, *models.Pagination, error) {
	filter := models.ResearchFilter{
		Search: strings.ToLower(strings.TrimSpace(req.Search)),
		Scheme: models.ResearchScheme(req.Scheme),
		Status: models.RecordStatus(req.Status),
		Year:   req.Year,
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", req.Status))
	}
	filter.Page, filter.PageSize = normalisePage(req.Page, req.PageSize)

	matched := make([]*models.Research, 0)
	for _, r := range s.repo.List() {
		if filter.Search != "" && !strings.Contains(strings.ToLower(r.Title), filter.Search) &&
			!strings.Contains(strings.ToLower(r.LeadResearcher), filter.Search) {
			continue
		}
		if filter.Scheme != "" && r.Scheme != filter.Scheme {
			continue
		}
		if filter.Status != "" && DeriveResearchStatus(r) != filter.Status {
			continue
		}
		if filter.Year != 0 && r.Year != filter.Year {
			continue
		}
		matched = append(matched, r)
	}
	return paginate(matched, filter.Page, filter.PageSize), models.NewPagination(filter.Page, filter.PageSize, len(matched)), nil
}

// All returns every project in list order.
func (s *ResearchService) All() []*models.Research { return s.repo.List() }

// Get returns the project with id.
func (s *ResearchService) Get(_ context.Context, id string) (*models.Research, error) {
	r, err := s.repo.Get(id)
	if err != nil {
		return nil, mapRecordError(err, "research")
	}
	return r, nil
}

// Create validates and stores a new project.
func (s *ResearchService) Create(ctx context.Context, req ResearchRequest) (*models.Research, error) {
	req = normaliseResearchRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid research payload")
	}
	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	item := &models.Research{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	applyResearchRequest(item, req)
	if err := s.repo.Create(item); err != nil {
		return nil, mapRecordError(err, "research")
	}
	s.activity.Record(ctx, models.ActivityCreate, models.EntityResearch, item.ID, fmt.Sprintf("Menambahkan penelitian %q", item.Title))
	return item, nil
}

// Update replaces the descriptive fields of a project; attached reports are kept.
func (s *ResearchService) Update(ctx context.Context, id string, req ResearchRequest) (*models.Research, error) {
	req = normaliseResearchRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid research payload")
	}
	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(id, func(r *models.Research) (*models.Research, error) {
		applyResearchRequest(r, req)
		r.UpdatedAt = s.now().UTC()
		return r, nil
	})
	if err != nil {
		return nil, mapRecordError(err, "research")
	}
	s.activity.Record(ctx, models.ActivityUpdate, models.EntityResearch, updated.ID, fmt.Sprintf("Memperbarui penelitian %q", updated.Title))
	return updated, nil
}

// Delete removes a project.
func (s *ResearchService) Delete(ctx context.Context, id string) error {
	if err := simulateLatency(ctx, s.latency); err != nil {
		return err
	}
	removed, err := s.repo.Delete(id)
	if err != nil {
		return mapRecordError(err, "research")
	}
	s.activity.Record(ctx, models.ActivityDelete, models.EntityResearch, removed.ID, fmt.Sprintf("Menghapus penelitian %q", removed.Title))
	return nil
}

// AttachArtifact validates upload and stores it in slot. A rejected upload
// leaves the existing document in place.
func (s *ResearchService) AttachArtifact(ctx context.Context, id string, slot models.ResearchSlot, upload ArtifactUpload) (*models.Research, error) {
	if !slot.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown report slot %q", slot))
	}
	if _, err := s.repo.Get(id); err != nil {
		return nil, mapRecordError(err, "research")
	}
	artifact, err := s.artifacts.Accept(upload)
	s.metrics.RecordUpload(models.EntityResearch, err == nil)
	if err != nil {
		return nil, err
	}
	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(id, func(r *models.Research) (*models.Research, error) {
		r.SetArtifact(slot, artifact)
		r.UpdatedAt = s.now().UTC()
		return r, nil
	})
	if err != nil {
		return nil, mapRecordError(err, "research")
	}
	s.logger.Info("research report attached",
		zap.String("research_id", id),
		zap.String("slot", string(slot)),
		zap.String("mime", artifact.MimeType),
		zap.Int64("size", artifact.SizeBytes),
	)
	s.activity.Record(ctx, models.ActivityUpload, models.EntityResearch, id,
		fmt.Sprintf("Mengunggah %s %q untuk penelitian %q", researchSlotLabel(slot), artifact.FileName, updated.Title))
	return updated, nil
}

// Artifact returns the downloadable document in slot.
func (s *ResearchService) Artifact(_ context.Context, id string, slot models.ResearchSlot) (*models.Artifact, error) {
	if !slot.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown report slot %q", slot))
	}
	r, err := s.repo.Get(id)
	if err != nil {
		return nil, mapRecordError(err, "research")
	}
	return downloadable(r.Artifact(slot))
}

// ImportRowError describes a rejected import row.
type ImportRowError struct {
	Line    int               `json:"line"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ImportResult summarises a bulk import.
type ImportResult struct {
	Processed int                `json:"processed"`
	Imported  int                `json:"imported"`
	Records   []*models.Research `json:"records"`
	Errors    []ImportRowError   `json:"errors,omitempty"`
}

var researchImportColumns = map[string]string{
	"title":          "title",
	"judul":          "title",
	"leadresearcher": "leadResearcher",
	"ketua":          "leadResearcher",
	"ketuapeneliti":  "leadResearcher",
	"members":        "members",
	"anggota":        "members",
	"scheme":         "scheme",
	"skema":          "scheme",
	"amount":         "amount",
	"dana":           "amount",
	"jumlahdana":     "amount",
	"proposedamount": "proposedAmount",
	"danadiusulkan":  "proposedAmount",
	"sourceoffunds":  "sourceOfFunds",
	"sumberdana":     "sourceOfFunds",
	"year":           "year",
	"tahun":          "year",
}

// Import creates projects from a CSV file whose first row is a header.
// Invalid rows are reported by line number and skipped.
func (s *ResearchService) Import(ctx context.Context, fileName string, content io.Reader) (*ImportResult, error) {
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".csv":
	case ".xlsx", ".xls":
		return nil, appErrors.Clone(appErrors.ErrUnsupportedMedia, "spreadsheet files are not supported, export the sheet as CSV")
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedMedia, "only .csv files can be imported")
	}

	reader := csv.NewReader(content)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "import file is empty")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid CSV header")
	}
	columns := make(map[int]string, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.TrimPrefix(strings.TrimSpace(name), "\uFEFF")))
		if field, ok := researchImportColumns[key]; ok {
			columns[i] = field
		}
	}
	if len(columns) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "CSV header has no recognised columns")
	}

	result := &ImportResult{Records: make([]*models.Research, 0)}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed CSV")
		}
		line, _ := reader.FieldPos(0)
		if blankRow(row) {
			continue
		}
		result.Processed++

		req, rowErr := researchRequestFromRow(columns, row)
		if rowErr == nil {
			req = normaliseResearchRequest(req)
			if err := s.validator.Struct(req); err != nil {
				rowErr = validationError(err, "invalid row")
			}
		}
		if rowErr != nil {
			result.Errors = append(result.Errors, importRowError(line, rowErr))
			continue
		}

		now := s.now().UTC()
		item := &models.Research{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
		applyResearchRequest(item, req)
		if err := s.repo.Create(item); err != nil {
			result.Errors = append(result.Errors, importRowError(line, mapRecordError(err, "research")))
			continue
		}
		result.Records = append(result.Records, item)
		result.Imported++
	}

	s.logger.Info("research import finished",
		zap.String("file", fileName),
		zap.Int("processed", result.Processed),
		zap.Int("imported", result.Imported),
	)
	if result.Imported > 0 {
		s.activity.Record(ctx, models.ActivityImport, models.EntityResearch, "",
			fmt.Sprintf("Mengimpor %d penelitian dari %s", result.Imported, filepath.Base(fileName)))
	}
	return result, nil
}

func researchRequestFromRow(columns map[int]string, row []string) (ResearchRequest, error) {
	var req ResearchRequest
	details := map[string]string{}
	for i, value := range row {
		field, ok := columns[i]
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch field {
		case "title":
			req.Title = value
		case "leadResearcher":
			req.LeadResearcher = value
		case "members":
			req.Members = splitList(value)
		case "scheme":
			req.Scheme = value
		case "amount":
			req.Amount = format.ParseRupiah(value)
		case "proposedAmount":
			req.ProposedAmount = format.ParseRupiah(value)
		case "sourceOfFunds":
			req.SourceOfFunds = value
		case "year":
			if value == "" {
				continue
			}
			year, err := strconv.Atoi(value)
			if err != nil {
				details["year"] = "harus berupa angka"
				continue
			}
			req.Year = year
		}
	}
	if len(details) > 0 {
		return req, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid row"), details)
	}
	return req, nil
}

func importRowError(line int, err error) ImportRowError {
	appErr := appErrors.FromError(err)
	return ImportRowError{Line: line, Message: appErr.Message, Fields: appErr.Details}
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == '|' || r == '\n' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normaliseResearchRequest(req ResearchRequest) ResearchRequest {
	req.Title = strings.TrimSpace(req.Title)
	req.LeadResearcher = strings.TrimSpace(req.LeadResearcher)
	req.SourceOfFunds = strings.TrimSpace(req.SourceOfFunds)
	req.Members = trimList(req.Members)
	return req
}

func applyResearchRequest(r *models.Research, req ResearchRequest) {
	r.Title = req.Title
	r.LeadResearcher = req.LeadResearcher
	r.Members = req.Members
	r.Scheme = models.ResearchScheme(req.Scheme)
	r.Amount = req.Amount
	r.ProposedAmount = req.ProposedAmount
	r.SourceOfFunds = req.SourceOfFunds
	r.Year = req.Year
}

func researchSlotLabel(slot models.ResearchSlot) string {
	switch slot {
	case models.SlotProposal:
		return "proposal"
	case models.SlotProgress:
		return "laporan kemajuan"
	case models.SlotFinal:
		return "laporan akhir"
	}
	return string(slot)
}

// mapRecordError translates repository errors for a record kind.
func mapRecordError(err error, kind string) error {
	switch {
	case errors.Is(err, repository.ErrRecordNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, kind+" not found")
	case errors.Is(err, repository.ErrDuplicateID):
		return appErrors.Clone(appErrors.ErrConflict, kind+" already exists")
	default:
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return appErrors.Internal(err, "failed to store "+kind)
	}
}
