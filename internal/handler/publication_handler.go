package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pentadosen-api/internal/dto"
	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/service"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
	"github.com/noah-isme/pentadosen-api/pkg/response"
)

type publicationService interface {
	List(ctx context.Context, req service.PublicationListRequest) ([]*models.Publication, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Publication, error)
	Create(ctx context.Context, req service.PublicationRequest) (*models.Publication, error)
	Update(ctx context.Context, id string, req service.PublicationRequest) (*models.Publication, error)
	Delete(ctx context.Context, id string) error
	AttachManuscript(ctx context.Context, id string, upload service.ArtifactUpload) (*models.Publication, error)
	Manuscript(ctx context.Context, id string) (*models.Artifact, error)
}

// PublicationHandler exposes publications and their manuscripts.
type PublicationHandler struct {
	service publicationService
}

// NewPublicationHandler constructs the handler.
func NewPublicationHandler(service publicationService) *PublicationHandler {
	return &PublicationHandler{service: service}
}

func publicationResponse(p *models.Publication) dto.PublicationResponse {
	return dto.PublicationResponse{Publication: p, Status: service.PublicationStatus(p)}
}

// List godoc
// @Summary List publications
// @Tags Publications
// @Produce json
// @Param search query string false "Title or publisher"
// @Param type query string false "Artikel, Buku or Majalah"
// @Param status query string false "Derived status"
// @Param year query int false "Year"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /publications [get]
func (h *PublicationHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "publication service not configured"))
		return
	}
	var req service.PublicationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]dto.PublicationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, publicationResponse(item))
	}
	response.JSON(c, http.StatusOK, out, pagination)
}

// Get godoc
// @Summary Get publication
// @Tags Publications
// @Produce json
// @Param id path string true "Publication ID"
// @Success 200 {object} response.Envelope
// @Router /publications/{id} [get]
func (h *PublicationHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "publication service not configured"))
		return
	}
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, publicationResponse(item), nil)
}

// Create godoc
// @Summary Create publication
// @Tags Publications
// @Accept json
// @Produce json
// @Param payload body service.PublicationRequest true "Publication payload"
// @Success 201 {object} response.Envelope
// @Router /publications [post]
func (h *PublicationHandler) Create(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "publication service not configured"))
		return
	}
	var req service.PublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid publication payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, publicationResponse(item), nil)
}

// Update godoc
// @Summary Update publication
// @Tags Publications
// @Accept json
// @Produce json
// @Param id path string true "Publication ID"
// @Param payload body service.PublicationRequest true "Publication payload"
// @Success 200 {object} response.Envelope
// @Router /publications/{id} [put]
func (h *PublicationHandler) Update(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "publication service not configured"))
		return
	}
	var req service.PublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid publication payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, publicationResponse(item), nil)
}

// Delete godoc
// @Summary Delete publication
// @Tags Publications
// @Param id path string true "Publication ID"
// @Success 204
// @Router /publications/{id} [delete]
func (h *PublicationHandler) Delete(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "publication service not configured"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UploadManuscript godoc
// @Summary Upload the publication manuscript
// @Tags Publications
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Publication ID"
// @Param file formData file true "PDF or DOCX document"
// @Success 200 {object} response.Envelope
// @Router /publications/{id}/manuscript [put]
func (h *PublicationHandler) UploadManuscript(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "publication service not configured"))
		return
	}
	upload, closer, err := formUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closer.Close() //nolint:errcheck

	item, err := h.service.AttachManuscript(c.Request.Context(), c.Param("id"), upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, publicationResponse(item), nil)
}

// DownloadManuscript godoc
// @Summary Download the publication manuscript
// @Tags Publications
// @Produce octet-stream
// @Param id path string true "Publication ID"
// @Success 200 {file} binary
// @Router /publications/{id}/manuscript [get]
func (h *PublicationHandler) DownloadManuscript(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "publication service not configured"))
		return
	}
	artifact, err := h.service.Manuscript(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, artifact.FileName, artifact.MimeType, artifact.Content)
}
