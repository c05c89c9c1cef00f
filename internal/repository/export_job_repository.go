package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/pentadosen-api/internal/models"
)

// ExportJobRepository tracks export job metadata in memory.
type ExportJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]models.ExportJob
	now  func() time.Time
}

// NewExportJobRepository constructs the repository.
func NewExportJobRepository() *ExportJobRepository {
	return &ExportJobRepository{jobs: make(map[string]models.ExportJob), now: time.Now}
}

// Create stores job, filling in the id, status and creation time when unset.
func (r *ExportJobRepository) Create(_ context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.ExportStatusQueued
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = r.now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.ID]; exists {
		return ErrDuplicateID
	}
	r.jobs[job.ID] = *job
	return nil
}

// GetByID returns a copy of the job with id.
func (r *ExportJobRepository) GetByID(_ context.Context, id string) (*models.ExportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &job, nil
}

// UpdateExportJobParams defines the mutable fields of a job.
type UpdateExportJobParams struct {
	Status       *models.ExportStatus
	Progress     *int
	Rows         *int
	FilePath     *string
	ResultURL    *string
	ExpiresAt    *time.Time
	ErrorMessage *string
	FinishedAt   *time.Time
}

// Update applies the non-nil fields of params to the job with id.
func (r *ExportJobRepository) Update(_ context.Context, id string, params UpdateExportJobParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return ErrRecordNotFound
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.Rows != nil {
		job.Rows = *params.Rows
	}
	if params.FilePath != nil {
		job.FilePath = *params.FilePath
	}
	if params.ResultURL != nil {
		url := *params.ResultURL
		job.ResultURL = &url
	}
	if params.ExpiresAt != nil {
		expires := *params.ExpiresAt
		job.ExpiresAt = &expires
	}
	if params.ErrorMessage != nil {
		msg := *params.ErrorMessage
		job.ErrorMessage = &msg
	}
	if params.FinishedAt != nil {
		finished := *params.FinishedAt
		job.FinishedAt = &finished
	}
	r.jobs[id] = job
	return nil
}

// ListFinishedBefore returns finished jobs whose completion predates cutoff.
func (r *ExportJobRepository) ListFinishedBefore(_ context.Context, cutoff time.Time) ([]models.ExportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.ExportJob
	for _, job := range r.jobs {
		if job.Status == models.ExportStatusFinished && job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			out = append(out, job)
		}
	}
	return out, nil
}

// Delete removes the job with id.
func (r *ExportJobRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return ErrRecordNotFound
	}
	delete(r.jobs, id)
	return nil
}
