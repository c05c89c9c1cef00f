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
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
	"github.com/noah-isme/pentadosen-api/pkg/format"
)

type publicationRepository interface {
	List() []*models.Publication
	Get(id string) (*models.Publication, error)
	Create(item *models.Publication) error
	Update(id string, fn func(*models.Publication) (*models.Publication, error)) (*models.Publication, error)
	Delete(id string) (*models.Publication, error)
}

// PublicationService manages publications and their manuscripts.
type PublicationService struct {
	repo      publicationRepository
	activity  ActivityRecorder
	artifacts *ArtifactPolicy
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	latency   time.Duration
	now       func() time.Time
}

// PublicationServiceParams groups the service dependencies.
type PublicationServiceParams struct {
	Repo      publicationRepository
	Activity  ActivityRecorder
	Artifacts *ArtifactPolicy
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	Latency   time.Duration
}

// NewPublicationService constructs the service.
func NewPublicationService(params PublicationServiceParams) *PublicationService {
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
	return &PublicationService{
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

// PublicationListRequest filters publication listings.
type PublicationListRequest struct {
	Search   string `form:"search"`
	Type     string `form:"type"`
	Status   string `form:"status"`
	Year     int    `form:"year"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// PublicationRequest is the create and update payload.
type PublicationRequest struct {
	Title     string   `json:"title" validate:"required,max=300"`
	Author    string   `json:"author" validate:"required,max=150"`
	CoAuthors []string `json:"coAuthors" validate:"omitempty,dive,required"`
	Category  string   `json:"category" validate:"required,pubcategory"`
	Type      string   `json:"type" validate:"required,pubtype"`
	Publisher string   `json:"publisher" validate:"required,max=200"`
	Pages     int      `json:"pages" validate:"gte=0"`
	ISBN      string   `json:"isbn" validate:"required,isbn13"`
	Abstract  string   `json:"abstract" validate:"max=5000"`
	Year      int      `json:"year" validate:"required,gte=1900,lte=2100"`
}

// List returns matching publications with pagination.
func (s *PublicationService) List(_ context.Context, req PublicationListRequest) ([]*models.Publication, *models.Pagination, error) {
	filter := models.PublicationFilter{
		Search: strings.ToLower(strings.TrimSpace(req.Search)),
		Type:   models.PublicationType(req.Type),
		Status: models.RecordStatus(req.Status),
		Year:   req.Year,
	}
	if filter.Status != "" && filter.Status != models.StatusComplete && filter.Status != models.StatusInProgress {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", req.Status))
	}
	filter.Page, filter.PageSize = normalisePage(req.Page, req.PageSize)

	matched := make([]*models.Publication, 0)
	for _, p := range s.repo.List() {
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Title), filter.Search) &&
			!strings.Contains(strings.ToLower(p.Publisher), filter.Search) {
			continue
		}
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		if filter.Status != "" && PublicationStatus(p) != filter.Status {
			continue
		}
		if filter.Year != 0 && p.Year != filter.Year {
			continue
		}
		matched = append(matched, p)
	}
	return paginate(matched, filter.Page, filter.PageSize), models.NewPagination(filter.Page, filter.PageSize, len(matched)), nil
}

// All returns every publication in list order.
func (s *PublicationService) All() []*models.Publication { return s.repo.List() }

// Get returns the publication with id.
func (s *PublicationService) Get(_ context.Context, id string) (*models.Publication, error) {
	p, err := s.repo.Get(id)
	if err != nil {
		return nil, mapRecordError(err, "publication")
	}
	return p, nil
}

// Create validates and stores a new publication. The ISBN is stored formatted.
func (s *PublicationService) Create(ctx context.Context, req PublicationRequest) (*models.Publication, error) {
	req = normalisePublicationRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid publication payload")
	}
	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	item := &models.Publication{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	applyPublicationRequest(item, req)
	if err := s.repo.Create(item); err != nil {
		return nil, mapRecordError(err, "publication")
	}
	s.activity.Record(ctx, models.ActivityCreate, models.EntityPublication, item.ID, fmt.Sprintf("Menambahkan publikasi %q", item.Title))
	return item, nil
}

// Update replaces the descriptive fields; the manuscript is kept.
func (s *PublicationService) Update(ctx context.Context, id string, req PublicationRequest) (*models.Publication, error) {
	req = normalisePublicationRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid publication payload")
	}
	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(id, func(p *models.Publication) (*models.Publication, error) {
		applyPublicationRequest(p, req)
		p.UpdatedAt = s.now().UTC()
		return p, nil
	})
	if err != nil {
		return nil, mapRecordError(err, "publication")
	}
	s.activity.Record(ctx, models.ActivityUpdate, models.EntityPublication, updated.ID, fmt.Sprintf("Memperbarui publikasi %q", updated.Title))
	return updated, nil
}

// Delete removes a publication.
func (s *PublicationService) Delete(ctx context.Context, id string) error {
	if err := simulateLatency(ctx, s.latency); err != nil {
		return err
	}
	removed, err := s.repo.Delete(id)
	if err != nil {
		return mapRecordError(err, "publication")
	}
	s.activity.Record(ctx, models.ActivityDelete, models.EntityPublication, removed.ID, fmt.Sprintf("Menghapus publikasi %q", removed.Title))
	return nil
}

// AttachManuscript validates upload and stores it as the manuscript.
func (s *PublicationService) AttachManuscript(ctx context.Context, id string, upload ArtifactUpload) (*models.Publication, error) {
	if _, err := s.repo.Get(id); err != nil {
		return nil, mapRecordError(err, "publication")
	}
	artifact, err := s.artifacts.Accept(upload)
	s.metrics.RecordUpload(models.EntityPublication, err == nil)
	if err != nil {
		return nil, err
	}
	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(id, func(p *models.Publication) (*models.Publication, error) {
		p.Manuscript = artifact
		p.UpdatedAt = s.now().UTC()
		return p, nil
	})
	if err != nil {
		return nil, mapRecordError(err, "publication")
	}
	s.activity.Record(ctx, models.ActivityUpload, models.EntityPublication, id,
		fmt.Sprintf("Mengunggah naskah %q untuk publikasi %q", artifact.FileName, updated.Title))
	return updated, nil
}

// Manuscript returns the downloadable manuscript.
func (s *PublicationService) Manuscript(_ context.Context, id string) (*models.Artifact, error) {
	p, err := s.repo.Get(id)
	if err != nil {
		return nil, mapRecordError(err, "publication")
	}
	return downloadable(p.Manuscript)
}

func normalisePublicationRequest(req PublicationRequest) PublicationRequest {
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	req.Publisher = strings.TrimSpace(req.Publisher)
	req.Abstract = strings.TrimSpace(req.Abstract)
	req.ISBN = strings.TrimSpace(req.ISBN)
	req.CoAuthors = trimList(req.CoAuthors)
	return req
}

func applyPublicationRequest(p *models.Publication, req PublicationRequest) {
	p.Title = req.Title
	p.Author = req.Author
	p.CoAuthors = req.CoAuthors
	p.Category = models.PublicationCategory(req.Category)
	p.Type = models.PublicationType(req.Type)
	p.Publisher = req.Publisher
	p.Pages = req.Pages
	p.ISBN = format.FormatISBN(req.ISBN)
	p.Abstract = req.Abstract
	p.Year = req.Year
}
