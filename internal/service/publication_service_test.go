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

func newPublicationFixture() *PublicationService {
	return NewPublicationService(PublicationServiceParams{Repo: repository.NewPublicationRepository()})
}

func validPublicationRequest() PublicationRequest {
	return PublicationRequest{
		Title:     "Deep Learning for Early Breast Cancer Detection",
		Author:    "Dr. Jane Doe, M.T.",
		CoAuthors: []string{"Prof. Ahmad Fauzi"},
		Category:  string(models.PublicationScientificWork),
		Type:      string(models.PublicationArticle),
		Publisher: "International Journal of Medical Informatics",
		Pages:     12,
		ISBN:      "9786021234567",
		Year:      2025,
	}
}

func TestPublicationServiceCreateFormatsISBN(t *testing.T) {
	svc := newPublicationFixture()

	item, err := svc.Create(context.Background(), validPublicationRequest())
	require.NoError(t, err)
	assert.Equal(t, "978-602-12-3456-7", item.ISBN)
	assert.Equal(t, models.StatusInProgress, PublicationStatus(item))
}

func TestPublicationServiceRejectsShortISBN(t *testing.T) {
	svc := newPublicationFixture()
	req := validPublicationRequest()
	req.ISBN = "978-602-12"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Details, "isbn")
}

func TestPublicationServiceManuscript(t *testing.T) {
	svc := newPublicationFixture()
	ctx := context.Background()
	item, err := svc.Create(ctx, validPublicationRequest())
	require.NoError(t, err)

	_, err = svc.Manuscript(ctx, item.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	updated, err := svc.AttachManuscript(ctx, item.ID, pdfUpload("naskah.pdf"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, PublicationStatus(updated))

	doc, err := svc.Manuscript(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "naskah.pdf", doc.FileName)

	items, _, err := svc.List(ctx, PublicationListRequest{Status: string(models.StatusComplete), Year: 2025})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
