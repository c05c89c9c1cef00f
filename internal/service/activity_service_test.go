package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/repository"
)

func TestActorFromDefaultsToSystem(t *testing.T) {
	assert.Equal(t, "Sistem", ActorFrom(context.Background()).Name)

	ctx := WithActor(context.Background(), models.Actor{Name: "  "})
	assert.Equal(t, "Sistem", ActorFrom(ctx).Name)

	ctx = WithActor(context.Background(), models.Actor{Name: "Dr. Budi Santoso", Faculty: "Fakultas Ekonomi Bisnis"})
	assert.Equal(t, "Fakultas Ekonomi Bisnis", ActorFrom(ctx).Faculty)
}

func TestActivityServiceRecordAndList(t *testing.T) {
	svc := NewActivityService(repository.NewActivityRepository(3), nil)
	hooked := 0
	svc.OnRecord(func(context.Context, models.Activity) { hooked++ })

	tech := WithActor(context.Background(), models.Actor{Name: "Dr. Sarah Putri", Faculty: "Fakultas Teknologi Informasi", Department: "Teknik Informatika"})
	law := WithActor(context.Background(), models.Actor{Name: "Dr. Rahman", Faculty: "Fakultas Hukum", Department: "Hukum"})

	svc.Record(tech, models.ActivityCreate, models.EntityResearch, "r1", "Menambahkan penelitian")
	svc.Record(law, models.ActivityDelete, models.EntityPublication, "p1", "Menghapus publikasi")
	svc.Record(tech, models.ActivityUpdate, models.EntityHKI, "h1", "Memperbarui HKI")
	svc.Record(tech, models.ActivityUpload, models.EntityResearch, "r1", "Mengunggah proposal")
	assert.Equal(t, 4, hooked)

	all, page, err := svc.List(context.Background(), ActivityListRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3, "log keeps the newest entries only")
	assert.Equal(t, models.ActivityUpload, all[0].Type)
	assert.Equal(t, 3, page.TotalCount)

	filtered, _, err := svc.List(context.Background(), ActivityListRequest{Faculty: "fakultas hukum"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Dr. Rahman", filtered[0].User)

	searched, _, err := svc.List(context.Background(), ActivityListRequest{Search: "hki", Type: "update"})
	require.NoError(t, err)
	assert.Len(t, searched, 1)

	assert.Len(t, svc.Recent(2), 2)
}
