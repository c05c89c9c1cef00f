package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/repository"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
)

func TestProtectionPeriod(t *testing.T) {
	today := day("2025-10-19")

	general := ProtectionPeriod(models.HKICopyrightGeneral, day("2025-01-15"), today)
	assert.True(t, general.Unlimited)
	assert.Nil(t, general.EndDate)
	assert.Equal(t, models.ProtectionActive, general.Status)

	secret := ProtectionPeriod(models.HKITradeSecret, day("1990-01-01"), today)
	assert.True(t, secret.Unlimited)
	assert.Equal(t, models.ProtectionActive, secret.Status)

	digital := ProtectionPeriod(models.HKICopyrightDigital, day("2025-01-15"), today)
	assert.Equal(t, 50, digital.Years)
	require.NotNil(t, digital.EndDate)
	assert.Equal(t, day("2075-01-15"), *digital.EndDate)
	assert.Equal(t, models.ProtectionActive, digital.Status)

	patent := ProtectionPeriod(models.HKIPatent, day("2000-01-01"), today)
	assert.Equal(t, 20, patent.Years)
	assert.Equal(t, models.ProtectionExpired, patent.Status)

	trademark := ProtectionPeriod(models.HKITrademark, day("2015-10-19"), today)
	assert.Equal(t, 10, trademark.Years)
	assert.Equal(t, models.ProtectionActive, trademark.Status, "last protected day is still active")
}

func newHKIFixture() *HKIService {
	return NewHKIService(HKIServiceParams{
		Repo:  repository.NewHKIRepository(),
		Clock: jakartaClock("2025-10-19"),
	})
}

func validHKIRequest() HKIRequest {
	return HKIRequest{
		Title:          "Sistem Deteksi Dini Kanker Payudara",
		Type:           string(models.HKICopyrightDigital),
		ApplicationNo:  "P00202500123",
		AnnouncedPlace: "Jakarta",
		AnnouncedOn:    "2025-01-15",
		RegistrationNo: "000123456",
		Creators:       []string{"Dr. Jane Doe, M.T.", " Rafly Eryan "},
		Holders:        []string{"Universitas YARSI"},
	}
}

func TestHKIServiceCreateDerivesYear(t *testing.T) {
	svc := newHKIFixture()
	ctx := context.Background()

	item, err := svc.Create(ctx, validHKIRequest())
	require.NoError(t, err)
	assert.Equal(t, 2025, item.Year())
	assert.Equal(t, []string{"Dr. Jane Doe, M.T.", "Rafly Eryan"}, item.Creators)
	assert.Equal(t, models.StatusInProgress, HKIStatus(item))

	protection, err := svc.Protection(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProtectionActive, protection.Status)

	items, _, err := svc.List(ctx, HKIListRequest{Year: 2025, Type: string(models.HKICopyrightDigital)})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestHKIServiceValidation(t *testing.T) {
	svc := newHKIFixture()

	req := validHKIRequest()
	req.Type = "Hak Paten"
	req.Creators = nil
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	details := appErrors.FromError(err).Details
	assert.Contains(t, details, "jenisCiptaan")
	assert.Contains(t, details, "pencipta")

	req = validHKIRequest()
	req.AnnouncedOn = "15-01-2025"
	_, err = svc.Create(context.Background(), req)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidDate))
}

func TestHKIServiceDocument(t *testing.T) {
	svc := newHKIFixture()
	ctx := context.Background()
	item, err := svc.Create(ctx, validHKIRequest())
	require.NoError(t, err)

	updated, err := svc.AttachDocument(ctx, item.ID, pdfUpload("sertifikat.pdf"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, HKIStatus(updated))

	_, err = svc.AttachDocument(ctx, item.ID, ArtifactUpload{FileName: "sertifikat.png", Size: 3})
	assert.True(t, errors.Is(err, appErrors.ErrUnsupportedMedia))

	doc, err := svc.Document(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "sertifikat.pdf", doc.FileName)
}
