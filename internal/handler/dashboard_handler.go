package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pentadosen-api/internal/dto"
	"github.com/noah-isme/pentadosen-api/internal/middleware"
	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/service"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
	"github.com/noah-isme/pentadosen-api/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardSummary, bool, error)
}

type activityLister interface {
	List(ctx context.Context, req service.ActivityListRequest) ([]models.Activity, *models.Pagination, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service    dashboardService
	activities activityLister
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService, activities activityLister) *DashboardHandler {
	return &DashboardHandler{service: service, activities: activities}
}

// Summary godoc
// @Summary Dashboard summary
// @Description Record statistics (cached), live notification section and recent activity.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	summary, cacheHit, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, summary, nil, meta)
}

// Activities godoc
// @Summary Activity log
// @Tags Dashboard
// @Produce json
// @Param search query string false "User or description"
// @Param faculty query string false "Faculty"
// @Param department query string false "Department"
// @Param type query string false "Activity type"
// @Param entity query string false "Entity kind"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /dashboard/activities [get]
func (h *DashboardHandler) Activities(c *gin.Context) {
	if h.activities == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "activity service not configured"))
		return
	}
	page, err := queryInt(c, "page")
	if err != nil {
		response.Error(c, err)
		return
	}
	pageSize, err := queryInt(c, "pageSize")
	if err != nil {
		response.Error(c, err)
		return
	}
	req := service.ActivityListRequest{
		Search:     strings.TrimSpace(c.Query("search")),
		Faculty:    strings.TrimSpace(c.Query("faculty")),
		Department: strings.TrimSpace(c.Query("department")),
		Type:       strings.TrimSpace(c.Query("type")),
		Entity:     strings.TrimSpace(c.Query("entity")),
		Page:       page,
		PageSize:   pageSize,
	}
	items, pagination, err := h.activities.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}
