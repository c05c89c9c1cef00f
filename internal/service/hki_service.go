package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/pkg/civildate"
)

type hkiRepository interface {
	List() []*models.HKI
	Get(id string) (*models.HKI, error)
	Create(item *models.HKI) error
	Update(id string, fn func(*models.HKI) (*models.HKI, error)) (*models.HKI, error)
	Delete(id string) (*models.HKI, error)
}

// HKIService manages intellectual property records.
type HKIService struct {
	repo      hkiRepository
	activity  ActivityRecorder
	artifacts *ArtifactPolicy
	metrics   *MetricsService
	clock     *civildate.Clock
	validator *validator.Validate
	logger    *zap.Logger
	latency   time.Duration
	now       func() time.Time
}

// HKIServiceParams groups the service dependencies.
type HKIServiceParams struct {
	Repo      hkiRepository
	Activity  ActivityRecorder
	Artifacts *ArtifactPolicy
	Metrics   *MetricsService
	Clock     *civildate.Clock
	Validator *validator.Validate
	Logger    *zap.Logger
	Latency   time.Duration
}

// NewHKIService constructs the service.
func NewHKIService(params HKIServiceParams) *HKIService {
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
	clock := params.Clock
	if clock == nil {
		clock = civildate.FixedClock(time.Now(), time.UTC)
	}
	return &HKIService{
		repo:      params.Repo,
		activity:  activity,
		artifacts: artifacts,
		metrics:   params.Metrics,
		clock:     clock,
		validator: validate,
		logger:    logger,
		latency:   params.Latency,
		now:       time.Now,
	}
}

// HKIListRequest filters HKI listings.
type HKIListRequest struct {
	Search   string `form:"search"`
	Type     string `form:"jenis"`
	Year     int    `form:"year"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// HKIRequest is the create and update payload.
type HKIRequest struct {
	Title          string   `json:"title" validate:"required,max=300"`
	Type           string   `json:"jenisCiptaan" validate:"required,hkitype"`
	ApplicationNo  string   `json:"nomorPermohonan" validate:"max=100"`
	AnnouncedPlace string   `json:"tempatDiumumkan" validate:"max=150"`
	AnnouncedOn    string   `json:"tanggalDiumumkan" validate:"required"`
	RegistrationNo string   `json:"nomorPencatatan" validate:"max=100"`
	Creators       []string `json:"pencipta" validate:"required,min=1,dive,required"`
	Holders        []string `json:"pemegang" validate:"omitempty,dive,required"`
}

// List returns matching records with pagination.
func (s *HKIService) List(_ context.Context, req HKIListRequest) ([]*models.HKI, *models.Pagination, error) {
	filter := models.HKIFilter{
		Search: strings.ToLower(strings.TrimSpace(req.Search)),
		Type:   models.HKIType(req.Type),
		Year:   req.Year,
	}
	filter.Page, filter.PageSize = normalisePage(req.Page, req.PageSize)

	matched := make([]*models.HKI, 0)
	for _, h := range s.repo.List() {
		if filter.Search != "" && !strings.Contains(strings.ToLower(h.Title), filter.Search) &&
			!strings.Contains(strings.ToLower(h.RegistrationNo), filter.Search) {
			continue
		}
		if filter.Type != "" && h.Type != filter.Type {
			continue
		}
		if filter.Year != 0 && h.Year() != filter.Year {
			continue
		}
		matched = append(matched, h)
	}
	return paginate(matched, filter.Page, filter.PageSize), models.NewPagination(filter.Page, filter.PageSize, len(matched)), nil
}

// All returns every record in list order.
func (s *HKIService) All() []*models.HKI { return s.repo.List() }

// Get returns the record with id.
func (s *HKIService) Get(_ context.Context, id string) (*models.HKI, error) {
	h, err := s.repo.Get(id)
	if err != nil {
		return nil, mapRecordError(err, "hki")
	}
	return h, nil
}

// Create validates and stores a new record.
func (s *HKIService) Create(ctx context.Context, req HKIRequest) (*models.HKI, error) {
	req = normaliseHKIRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid hki payload")
	}
	announced, err := parseRequiredDate("tanggalDiumumkan", req.AnnouncedOn)
	if err != nil {
		return nil, err
	}
	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	item := &models.HKI{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	applyHKIRequest(item, req, announced)
	if err := s.repo.Create(item); err != nil {
		return nil, mapRecordError(err, "hki")
	}
	s.activity.Record(ctx, models.ActivityCreate, models.EntityHKI, item.ID, fmt.Sprintf("Menambahkan HKI %q", item.Title))
	return item, nil
}

// Update replaces the descriptive fields; the document is kept.
func (s *HKIService) Update(ctx context.Context, id string, req HKIRequest) (*models.HKI, error) {
	req = normaliseHKIRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid hki payload")
	}
	announced, err := parseRequiredDate("tanggalDiumumkan", req.AnnouncedOn)
	if err != nil {
		return nil, err
	}
	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(id, func(h *models.HKI) (*models.HKI, error) {
		applyHKIRequest(h, req, announced)
		h.UpdatedAt = s.now().UTC()
		return h, nil
	})
	if err != nil {
		return nil, mapRecordError(err, "hki")
	}
	s.activity.Record(ctx, models.ActivityUpdate, models.EntityHKI, updated.ID, fmt.Sprintf("Memperbarui HKI %q", updated.Title))
	return updated, nil
}

// Delete removes a record.
func (s *HKIService) Delete(ctx context.Context, id string) error {
	if err := simulateLatency(ctx, s.latency); err != nil {
		return err
	}
	removed, err := s.repo.Delete(id)
	if err != nil {
		return mapRecordError(err, "hki")
	}
	s.activity.Record(ctx, models.ActivityDelete, models.EntityHKI, removed.ID, fmt.Sprintf("Menghapus HKI %q", removed.Title))
	return nil
}

// AttachDocument validates upload and stores it as the certificate document.
func (s *HKIService) AttachDocument(ctx context.Context, id string, upload ArtifactUpload) (*models.HKI, error) {
	if _, err := s.repo.Get(id); err != nil {
		return nil, mapRecordError(err, "hki")
	}
	artifact, err := s.artifacts.Accept(upload)
	s.metrics.RecordUpload(models.EntityHKI, err == nil)
	if err != nil {
		return nil, err
	}
	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(id, func(h *models.HKI) (*models.HKI, error) {
		h.Document = artifact
		h.UpdatedAt = s.now().UTC()
		return h, nil
	})
	if err != nil {
		return nil, mapRecordError(err, "hki")
	}
	s.activity.Record(ctx, models.ActivityUpload, models.EntityHKI, id,
		fmt.Sprintf("Mengunggah dokumen %q untuk HKI %q", artifact.FileName, updated.Title))
	return updated, nil
}

// Document returns the downloadable certificate document.
func (s *HKIService) Document(_ context.Context, id string) (*models.Artifact, error) {
	h, err := s.repo.Get(id)
	if err != nil {
		return nil, mapRecordError(err, "hki")
	}
	return downloadable(h.Document)
}

// Protection computes the protection period of the record with id.
func (s *HKIService) Protection(_ context.Context, id string) (*models.HKIProtection, error) {
	h, err := s.repo.Get(id)
	if err != nil {
		return nil, mapRecordError(err, "hki")
	}
	p := ProtectionPeriod(h.Type, h.AnnouncedOn, s.clock.Today())
	return &p, nil
}

// ProtectionPeriod derives the protection term of an HKI type announced on
// announced, evaluated against today.
func ProtectionPeriod(t models.HKIType, announced, today civildate.Date) models.HKIProtection {
	switch t {
	case models.HKICopyrightGeneral:
		return models.HKIProtection{Duration: "Seumur hidup pencipta + 70 tahun", Unlimited: true, Status: models.ProtectionActive}
	case models.HKITradeSecret:
		return models.HKIProtection{Duration: "Tidak terbatas", Unlimited: true, Status: models.ProtectionActive}
	}

	years := 10
	switch t {
	case models.HKICopyrightDigital:
		years = 50
	case models.HKIPatent:
		years = 20
	}
	p := models.HKIProtection{Duration: fmt.Sprintf("%d tahun", years), Years: years, Status: models.ProtectionActive}
	if !announced.IsZero() {
		end := announced.AddYears(years)
		p.EndDate = &end
		if today.After(end) {
			p.Status = models.ProtectionExpired
		}
	}
	return p
}

func normaliseHKIRequest(req HKIRequest) HKIRequest {
	req.Title = strings.TrimSpace(req.Title)
	req.ApplicationNo = strings.TrimSpace(req.ApplicationNo)
	req.AnnouncedPlace = strings.TrimSpace(req.AnnouncedPlace)
	req.AnnouncedOn = strings.TrimSpace(req.AnnouncedOn)
	req.RegistrationNo = strings.TrimSpace(req.RegistrationNo)
	req.Creators = trimList(req.Creators)
	req.Holders = trimList(req.Holders)
	return req
}

func trimList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func applyHKIRequest(h *models.HKI, req HKIRequest, announced civildate.Date) {
	h.Title = req.Title
	h.Type = models.HKIType(req.Type)
	h.ApplicationNo = req.ApplicationNo
	h.AnnouncedPlace = req.AnnouncedPlace
	h.AnnouncedOn = announced
	h.RegistrationNo = req.RegistrationNo
	h.Creators = req.Creators
	h.Holders = req.Holders
}
