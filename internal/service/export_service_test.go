package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/repository"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
	"github.com/noah-isme/pentadosen-api/pkg/jobs"
	"github.com/noah-isme/pentadosen-api/pkg/storage"
)

type queueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type exportFixture struct {
	svc      *ExportJobService
	exporter *ExportService
	repo     *repository.ExportJobRepository
	queue    *queueStub
	activity *activityRecorderStub
}

func newExportFixture(t *testing.T) exportFixture {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	research := NewResearchService(ResearchServiceParams{Repo: repository.NewResearchRepository(seededResearch()...)})
	exporter := NewExportService(ExportServiceParams{
		Research:     research,
		Publications: NewPublicationService(PublicationServiceParams{Repo: repository.NewPublicationRepository()}),
		HKI:          NewHKIService(HKIServiceParams{Repo: repository.NewHKIRepository()}),
		Events:       staticEvents(seedEvents()),
		Clock:        jakartaClock("2025-10-19"),
		Storage:      store,
		Signer:       storage.NewSignedURLSigner("test-secret", time.Hour),
		Config:       ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour},
	})

	repo := repository.NewExportJobRepository()
	queue := &queueStub{}
	activity := &activityRecorderStub{}
	svc := NewExportJobService(repo, queue, exporter, activity, nil, nil, ExportJobServiceConfig{ResultTTL: time.Hour})
	return exportFixture{svc: svc, exporter: exporter, repo: repo, queue: queue, activity: activity}
}

func TestExportServiceBuildDataset(t *testing.T) {
	f := newExportFixture(t)

	research, err := f.exporter.BuildDataset(models.ExportResearch)
	require.NoError(t, err)
	require.Len(t, research.Rows, 2)
	assert.Equal(t, "Rp 45.000.000", research.Rows[0]["Dana"])
	assert.Equal(t, string(models.StatusInProgress), research.Rows[0]["Status"])
	assert.Equal(t, string(models.StatusComplete), research.Rows[1]["Status"])

	events, err := f.exporter.BuildDataset(models.ExportEvents)
	require.NoError(t, err)
	require.Len(t, events.Rows, 2)
	assert.Equal(t, "Submit Jurnal Q1", events.Rows[0]["Judul"])
	assert.Equal(t, string(models.PhaseOngoing), events.Rows[0]["Status"])

	_, err = f.exporter.BuildDataset("grades")
	require.Error(t, err)
}

func TestExportJobCreateValidates(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateExportRequest{Resource: "students"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	_, err = f.svc.Create(ctx, CreateExportRequest{Resource: "research", Format: "xlsx"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, f.queue.jobs)

	job, err := f.svc.Create(WithActor(ctx, models.Actor{Name: "Dr. Jane Doe"}), CreateExportRequest{Resource: " Research "})
	require.NoError(t, err)
	assert.Equal(t, models.ExportFormatCSV, job.Format)
	assert.Equal(t, models.ExportStatusQueued, job.Status)
	assert.Equal(t, "Dr. Jane Doe", job.RequestedBy)
	require.Len(t, f.queue.jobs, 1)
	assert.Equal(t, job.ID, f.queue.jobs[0].ID)
}

func TestExportJobEnqueueFailureMarksFailed(t *testing.T) {
	f := newExportFixture(t)
	f.queue.err = errors.New("queue full")

	_, err := f.svc.Create(context.Background(), CreateExportRequest{Resource: "hki"})
	require.Error(t, err)
}

func TestExportJobHandleAndDownload(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()

	job, err := f.svc.Create(ctx, CreateExportRequest{Resource: "research", Format: "csv"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Handle(ctx, f.queue.jobs[0]))

	finished, err := f.svc.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, finished.Status)
	assert.Equal(t, 100, finished.Progress)
	assert.Equal(t, 2, finished.Rows)
	require.NotNil(t, finished.ResultURL)
	assert.True(t, strings.HasPrefix(*finished.ResultURL, "/api/v1/exports/download/"))
	assert.Equal(t, 1, f.activity.count())

	token := strings.TrimPrefix(*finished.ResultURL, "/api/v1/exports/download/")
	download, err := f.svc.ResolveDownload(ctx, token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, "text/csv", download.ContentType)
	assert.True(t, strings.HasSuffix(download.Filename, ".csv"))
	body, err := io.ReadAll(download.File)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Analisis Keamanan Jaringan IoT")

	_, err = f.svc.ResolveDownload(ctx, token+"x")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestExportJobHandleFailure(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()

	job, err := f.svc.Create(ctx, CreateExportRequest{Resource: "events", Format: "pdf"})
	require.NoError(t, err)
	f.svc.HandleFailure(f.queue.jobs[0], errors.New("renderer crashed"))

	failed, err := f.svc.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFailed, failed.Status)
	require.NotNil(t, failed.ErrorMessage)
	assert.Equal(t, "renderer crashed", *failed.ErrorMessage)

	_, err = f.svc.Get(ctx, "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestExportJobCleanupExpired(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()

	job, err := f.svc.Create(ctx, CreateExportRequest{Resource: "publications"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Handle(ctx, f.queue.jobs[0]))

	assert.Zero(t, f.svc.CleanupExpired(ctx))

	f.svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.Equal(t, 1, f.svc.CleanupExpired(ctx))
	_, err = f.svc.Get(ctx, job.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
