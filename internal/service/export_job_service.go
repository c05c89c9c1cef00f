package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/repository"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
	"github.com/noah-isme/pentadosen-api/pkg/jobs"
)

type exportJobStore interface {
	Create(ctx context.Context, job *models.ExportJob) error
	GetByID(ctx context.Context, id string) (*models.ExportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error
	ListFinishedBefore(ctx context.Context, cutoff time.Time) ([]models.ExportJob, error)
	Delete(ctx context.Context, id string) error
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// ExportJobServiceConfig governs result retention and cleanup.
type ExportJobServiceConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ExportJobService orchestrates the export job lifecycle.
type ExportJobService struct {
	repo     exportJobStore
	queue    jobDispatcher
	exporter *ExportService
	activity ActivityRecorder
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      ExportJobServiceConfig
	now      func() time.Time
}

// ExportDownload aggregates resolved download data.
type ExportDownload struct {
	File        *os.File
	Filename    string
	ContentType string
	ExpiresAt   time.Time
}

// CreateExportRequest is the POST /exports payload.
type CreateExportRequest struct {
	Resource string `json:"resource"`
	Format   string `json:"format"`
}

// NewExportJobService constructs the service.
func NewExportJobService(repo exportJobStore, queue jobDispatcher, exporter *ExportService, activity ActivityRecorder, metrics *MetricsService, logger *zap.Logger, cfg ExportJobServiceConfig) *ExportJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if activity == nil {
		activity = noopActivity{}
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportJobService{
		repo:     repo,
		queue:    queue,
		exporter: exporter,
		activity: activity,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SetQueue attaches the dispatcher once the worker pool is built.
func (s *ExportJobService) SetQueue(queue jobDispatcher) { s.queue = queue }

// Create validates req, stores the job and enqueues it.
func (s *ExportJobService) Create(ctx context.Context, req CreateExportRequest) (*models.ExportJob, error) {
	resource := models.ExportResource(strings.ToLower(strings.TrimSpace(req.Resource)))
	if !resource.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "resource must be one of research, publications, hki, events")
	}
	exportFormat := models.ExportFormat(strings.ToLower(strings.TrimSpace(req.Format)))
	if exportFormat == "" {
		exportFormat = models.ExportFormatCSV
	}
	if exportFormat != models.ExportFormatCSV && exportFormat != models.ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	job := &models.ExportJob{
		Resource:    resource,
		Format:      exportFormat,
		Status:      models.ExportStatusQueued,
		RequestedBy: ActorFrom(ctx).Name,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Internal(err, "failed to create export job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Resource)}); err != nil {
		s.markFailed(ctx, job.ID, job.Resource, "failed to enqueue job")
		return nil, appErrors.Internal(err, "failed to enqueue export job")
	}
	s.logger.Info("export job queued", zap.String("job_id", job.ID), zap.String("resource", string(resource)), zap.String("format", string(exportFormat)))
	return job, nil
}

// Get returns job metadata.
func (s *ExportJobService) Get(ctx context.Context, id string) (*models.ExportJob, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Internal(err, "failed to load export job")
	}
	return job, nil
}

// ResolveDownload validates token and opens the stored export file.
func (s *ExportJobService) ResolveDownload(ctx context.Context, token string) (*ExportDownload, error) {
	jobID, relPath, expiresAt, err := s.exporter.ParseToken(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.ResultURL == nil || !strings.HasSuffix(*job.ResultURL, token) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	if job.Status != models.ExportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "export not ready")
	}
	file, err := s.exporter.Open(relPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
		}
		return nil, appErrors.Internal(err, "failed to open export file")
	}
	return &ExportDownload{
		File:        file,
		Filename:    filepath.Base(relPath),
		ContentType: s.exporter.ContentType(job.Format),
		ExpiresAt:   expiresAt,
	}, nil
}

// Handle processes one queued job. Errors are retried by the queue; the
// final failure is recorded by HandleFailure.
func (s *ExportJobService) Handle(ctx context.Context, job jobs.Job) error {
	record, err := s.repo.GetByID(ctx, job.ID)
	if err != nil {
		return err
	}
	processing := models.ExportStatusProcessing
	progress := 10
	if err := s.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{Status: &processing, Progress: &progress}); err != nil {
		return err
	}

	result, err := s.exporter.Generate(ctx, record)
	if err != nil {
		msg := err.Error()
		queued := models.ExportStatusQueued
		reset := 0
		if updateErr := s.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{Status: &queued, Progress: &reset, ErrorMessage: &msg}); updateErr != nil {
			s.logger.Warn("failed to requeue export job", zap.String("job_id", job.ID), zap.Error(updateErr))
		}
		return err
	}

	finished := models.ExportStatusFinished
	progress = 100
	now := s.now().UTC()
	noError := ""
	if err := s.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{
		Status:       &finished,
		Progress:     &progress,
		Rows:         &result.Rows,
		FilePath:     &result.RelativePath,
		ResultURL:    &result.URL,
		ExpiresAt:    &result.ExpiresAt,
		ErrorMessage: &noError,
		FinishedAt:   &now,
	}); err != nil {
		return err
	}
	s.metrics.RecordExportJob(record.Resource, finished)
	s.activity.Record(WithActor(ctx, models.Actor{Name: record.RequestedBy}), models.ActivityCreate, models.EntityExport, record.ID,
		fmt.Sprintf("Mengekspor %d baris %s ke %s", result.Rows, record.Resource, strings.ToUpper(string(record.Format))))
	return nil
}

// HandleFailure marks a job failed once the queue gives up on it.
func (s *ExportJobService) HandleFailure(job jobs.Job, err error) {
	ctx := context.Background()
	record, getErr := s.repo.GetByID(ctx, job.ID)
	resource := models.ExportResource(job.Type)
	if getErr == nil {
		resource = record.Resource
	}
	s.markFailed(ctx, job.ID, resource, err.Error())
}

func (s *ExportJobService) markFailed(ctx context.Context, id string, resource models.ExportResource, msg string) {
	failed := models.ExportStatusFailed
	progress := 100
	now := s.now().UTC()
	if err := s.repo.Update(ctx, id, repository.UpdateExportJobParams{
		Status:       &failed,
		Progress:     &progress,
		ErrorMessage: &msg,
		FinishedAt:   &now,
	}); err != nil {
		s.logger.Warn("failed to mark export job failed", zap.String("job_id", id), zap.Error(err))
	}
	s.metrics.RecordExportJob(resource, failed)
}

// StartCleanup boots a goroutine that purges expired exports periodically.
func (s *ExportJobService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupExpired(ctx)
			}
		}
	}()
}

// CleanupExpired removes finished jobs and files older than the result TTL.
func (s *ExportJobService) CleanupExpired(ctx context.Context) int {
	cutoff := s.now().Add(-s.cfg.ResultTTL)
	stale, err := s.repo.ListFinishedBefore(ctx, cutoff)
	if err != nil {
		s.logger.Warn("export cleanup list failed", zap.Error(err))
		return 0
	}
	removed := 0
	for _, job := range stale {
		if job.FilePath != "" {
			if err := s.exporter.Delete(job.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
				s.logger.Warn("export cleanup delete failed", zap.String("job_id", job.ID), zap.Error(err))
				continue
			}
		}
		if err := s.repo.Delete(ctx, job.ID); err != nil {
			s.logger.Warn("export cleanup job delete failed", zap.String("job_id", job.ID), zap.Error(err))
			continue
		}
		removed++
	}
	if _, err := s.exporter.Cleanup(s.cfg.ResultTTL); err != nil {
		s.logger.Warn("export filesystem cleanup failed", zap.Error(err))
	}
	if removed > 0 {
		s.logger.Info("expired exports purged", zap.Int("count", removed))
	}
	return removed
}
