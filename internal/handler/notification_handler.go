package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pentadosen-api/internal/dto"
	"github.com/noah-isme/pentadosen-api/internal/middleware"
	"github.com/noah-isme/pentadosen-api/internal/models"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
	"github.com/noah-isme/pentadosen-api/pkg/response"
)

type notificationService interface {
	List(ctx context.Context) models.NotificationFeed
	UnreadCount(ctx context.Context) int
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context) (int, error)
}

// NotificationHandler exposes the notification feed and its read state.
type NotificationHandler struct {
	service notificationService
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(service notificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List godoc
// @Summary List relevant notifications
// @Description Ongoing events and events starting within the horizon, with read flags.
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "notification service not configured"))
		return
	}
	feed := h.service.List(c.Request.Context())
	response.JSON(c, http.StatusOK, feed, nil, middleware.ExtractMeta(c))
}

// UnreadCount godoc
// @Summary Count unread notifications
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "notification service not configured"))
		return
	}
	response.JSON(c, http.StatusOK, dto.UnreadCountResponse{UnreadCount: h.service.UnreadCount(c.Request.Context())}, nil)
}

// MarkAsRead godoc
// @Summary Mark a notification as read
// @Tags Notifications
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "notification service not configured"))
		return
	}
	ctx := c.Request.Context()
	if err := h.service.MarkAsRead(ctx, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.UnreadCountResponse{UnreadCount: h.service.UnreadCount(ctx)}, nil)
}

// MarkAllAsRead godoc
// @Summary Mark every relevant notification as read
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "notification service not configured"))
		return
	}
	ctx := c.Request.Context()
	marked, err := h.service.MarkAllAsRead(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.MarkAllReadResponse{Marked: marked, UnreadCount: h.service.UnreadCount(ctx)}, nil)
}
