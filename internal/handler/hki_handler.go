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

type hkiService interface {
	List(ctx context.Context, req service.HKIListRequest) ([]*models.HKI, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.HKI, error)
	Create(ctx context.Context, req service.HKIRequest) (*models.HKI, error)
	Update(ctx context.Context, id string, req service.HKIRequest) (*models.HKI, error)
	Delete(ctx context.Context, id string) error
	AttachDocument(ctx context.Context, id string, upload service.ArtifactUpload) (*models.HKI, error)
	Document(ctx context.Context, id string) (*models.Artifact, error)
	Protection(ctx context.Context, id string) (*models.HKIProtection, error)
}

// HKIHandler exposes intellectual property records.
type HKIHandler struct {
	service hkiService
}

// NewHKIHandler constructs the handler.
func NewHKIHandler(service hkiService) *HKIHandler {
	return &HKIHandler{service: service}
}

func hkiResponse(h *models.HKI) dto.HKIResponse {
	return dto.NewHKIResponse(h, service.HKIStatus(h))
}

// List godoc
// @Summary List HKI records
// @Tags HKI
// @Produce json
// @Param search query string false "Title or registration number"
// @Param jenis query string false "Jenis ciptaan"
// @Param year query int false "Year of announcement"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /hki [get]
func (h *HKIHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "hki service not configured"))
		return
	}
	var req service.HKIListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]dto.HKIResponse, 0, len(items))
	for _, item := range items {
		out = append(out, hkiResponse(item))
	}
	response.JSON(c, http.StatusOK, out, pagination)
}

// Get godoc
// @Summary Get HKI record
// @Tags HKI
// @Produce json
// @Param id path string true "HKI ID"
// @Success 200 {object} response.Envelope
// @Router /hki/{id} [get]
func (h *HKIHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "hki service not configured"))
		return
	}
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hkiResponse(item), nil)
}

// Create godoc
// @Summary Create HKI record
// @Tags HKI
// @Accept json
// @Produce json
// @Param payload body service.HKIRequest true "HKI payload"
// @Success 201 {object} response.Envelope
// @Router /hki [post]
func (h *HKIHandler) Create(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "hki service not configured"))
		return
	}
	var req service.HKIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid hki payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, hkiResponse(item), nil)
}

// Update godoc
// @Summary Update HKI record
// @Tags HKI
// @Accept json
// @Produce json
// @Param id path string true "HKI ID"
// @Param payload body service.HKIRequest true "HKI payload"
// @Success 200 {object} response.Envelope
// @Router /hki/{id} [put]
func (h *HKIHandler) Update(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "hki service not configured"))
		return
	}
	var req service.HKIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid hki payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hkiResponse(item), nil)
}

// Delete godoc
// @Summary Delete HKI record
// @Tags HKI
// @Param id path string true "HKI ID"
// @Success 204
// @Router /hki/{id} [delete]
func (h *HKIHandler) Delete(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "hki service not configured"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UploadDocument godoc
// @Summary Upload the HKI certificate
// @Tags HKI
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "HKI ID"
// @Param file formData file true "PDF or DOCX document"
// @Success 200 {object} response.Envelope
// @Router /hki/{id}/document [put]
func (h *HKIHandler) UploadDocument(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "hki service not configured"))
		return
	}
	upload, closer, err := formUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closer.Close() //nolint:errcheck

	item, err := h.service.AttachDocument(c.Request.Context(), c.Param("id"), upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hkiResponse(item), nil)
}

// DownloadDocument godoc
// @Summary Download the HKI certificate
// @Tags HKI
// @Produce octet-stream
// @Param id path string true "HKI ID"
// @Success 200 {file} binary
// @Router /hki/{id}/document [get]
func (h *HKIHandler) DownloadDocument(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "hki service not configured"))
		return
	}
	artifact, err := h.service.Document(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, artifact.FileName, artifact.MimeType, artifact.Content)
}

// Protection godoc
// @Summary Protection period of an HKI right
// @Tags HKI
// @Produce json
// @Param id path string true "HKI ID"
// @Success 200 {object} response.Envelope
// @Router /hki/{id}/protection [get]
func (h *HKIHandler) Protection(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "hki service not configured"))
		return
	}
	protection, err := h.service.Protection(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, protection, nil)
}
