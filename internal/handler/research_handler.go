package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pentadosen-api/internal/dto"
	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/service"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
	"github.com/noah-isme/pentadosen-api/pkg/response"
)

type researchService interface {
	List(ctx context.Context, req service.ResearchListRequest) ([]*models.Research, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Research, error)
	Create(ctx context.Context, req service.ResearchRequest) (*models.Research, error)
	Update(ctx context.Context, id string, req service.ResearchRequest) (*models.Research, error)
	Delete(ctx context.Context, id string) error
	AttachArtifact(ctx context.Context, id string, slot models.ResearchSlot, upload service.ArtifactUpload) (*models.Research, error)
	Artifact(ctx context.Context, id string, slot models.ResearchSlot) (*models.Artifact, error)
	Import(ctx context.Context, fileName string, content io.Reader) (*service.ImportResult, error)
}

// ResearchHandler exposes research projects and their reports.
type ResearchHandler struct {
	service researchService
}

// NewResearchHandler constructs the handler.
func NewResearchHandler(service researchService) *ResearchHandler {
	return &ResearchHandler{service: service}
}

func researchResponse(r *models.Research) dto.ResearchResponse {
	return dto.NewResearchResponse(r, service.DeriveResearchStatus(r))
}

// List godoc
// @Summary List research projects
// @Tags Research
// @Produce json
// @Param search query string false "Title or lead researcher"
// @Param scheme query string false "Funding scheme"
// @Param status query string false "Derived status"
// @Param year query int false "Year"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /research [get]
func (h *ResearchHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "research service not configured"))
		return
	}
	var req service.ResearchListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]dto.ResearchResponse, 0, len(items))
	for _, item := range items {
		out = append(out, researchResponse(item))
	}
	response.JSON(c, http.StatusOK, out, pagination)
}

// Get godoc
// @Summary Get research project
// @Tags Research
// @Produce json
// @Param id path string true "Research ID"
// @Success 200 {object} response.Envelope
// @Router /research/{id} [get]
func (h *ResearchHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "research service not configured"))
		return
	}
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, researchResponse(item), nil)
}

// Create godoc
// @Summary Create research project
// @Tags Research
// @Accept json
// @Produce json
// @Param payload body service.ResearchRequest true "Research payload"
// @Success 201 {object} response.Envelope
// @Router /research [post]
func (h *ResearchHandler) Create(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "research service not configured"))
		return
	}
	var req service.ResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid research payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, researchResponse(item), nil)
}

// Update godoc
// @Summary Update research project
// @Tags Research
// @Accept json
// @Produce json
// @Param id path string true "Research ID"
// @Param payload body service.ResearchRequest true "Research payload"
// @Success 200 {object} response.Envelope
// @Router /research/{id} [put]
func (h *ResearchHandler) Update(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "research service not configured"))
		return
	}
	var req service.ResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid research payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, researchResponse(item), nil)
}

// Delete godoc
// @Summary Delete research project
// @Tags Research
// @Param id path string true "Research ID"
// @Success 204
// @Router /research/{id} [delete]
func (h *ResearchHandler) Delete(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "research service not configured"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UploadArtifact godoc
// @Summary Upload a research report
// @Tags Research
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Research ID"
// @Param slot path string true "proposal, progress or final"
// @Param file formData file true "PDF or DOCX document"
// @Success 200 {object} response.Envelope
// @Router /research/{id}/artifacts/{slot} [put]
func (h *ResearchHandler) UploadArtifact(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "research service not configured"))
		return
	}
	upload, closer, err := formUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closer.Close() //nolint:errcheck

	item, err := h.service.AttachArtifact(c.Request.Context(), c.Param("id"), models.ResearchSlot(c.Param("slot")), upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, researchResponse(item), nil)
}

// DownloadArtifact godoc
// @Summary Download a research report
// @Tags Research
// @Produce octet-stream
// @Param id path string true "Research ID"
// @Param slot path string true "proposal, progress or final"
// @Success 200 {file} binary
// @Router /research/{id}/artifacts/{slot} [get]
func (h *ResearchHandler) DownloadArtifact(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "research service not configured"))
		return
	}
	artifact, err := h.service.Artifact(c.Request.Context(), c.Param("id"), models.ResearchSlot(c.Param("slot")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, artifact.FileName, artifact.MimeType, artifact.Content)
}

// Import godoc
// @Summary Import research projects from CSV
// @Description The first row is a header. Invalid rows are reported by line number and skipped.
// @Tags Research
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Router /research/import [post]
func (h *ResearchHandler) Import(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "research service not configured"))
		return
	}
	upload, closer, err := formUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closer.Close() //nolint:errcheck

	result, err := h.service.Import(c.Request.Context(), upload.FileName, upload.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil, map[string]interface{}{
		"processed": result.Processed,
		"imported":  result.Imported,
	})
}
