package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted under the API prefix. Nil
// handlers leave their routes unregistered.
type Handlers struct {
	Events        *EventHandler
	Notifications *NotificationHandler
	Research      *ResearchHandler
	Publications  *PublicationHandler
	HKI           *HKIHandler
	Registrations *RegistrationHandler
	Formats       *FormatHandler
	Dashboard     *DashboardHandler
	Exports       *ExportHandler
}

// RegisterRoutes mounts every API route on group.
func RegisterRoutes(group gin.IRouter, h Handlers) {
	if h.Events != nil {
		group.GET("/events", h.Events.List)
		group.POST("/events", h.Events.Create)
		group.GET("/events.ics", h.Events.ExportICS)
		group.GET("/events/:id", h.Events.Get)
		group.PATCH("/events/:id", h.Events.Update)
		group.DELETE("/events/:id", h.Events.Delete)
	}

	if h.Notifications != nil {
		notifications := group.Group("/notifications")
		notifications.GET("", h.Notifications.List)
		notifications.GET("/unread-count", h.Notifications.UnreadCount)
		notifications.POST("/read-all", h.Notifications.MarkAllAsRead)
		notifications.POST("/:id/read", h.Notifications.MarkAsRead)
	}

	if h.Research != nil {
		research := group.Group("/research")
		research.GET("", h.Research.List)
		research.POST("", h.Research.Create)
		research.POST("/import", h.Research.Import)
		research.GET("/:id", h.Research.Get)
		research.PUT("/:id", h.Research.Update)
		research.DELETE("/:id", h.Research.Delete)
		research.PUT("/:id/artifacts/:slot", h.Research.UploadArtifact)
		research.GET("/:id/artifacts/:slot", h.Research.DownloadArtifact)
	}

	if h.Publications != nil {
		publications := group.Group("/publications")
		publications.GET("", h.Publications.List)
		publications.POST("", h.Publications.Create)
		publications.GET("/:id", h.Publications.Get)
		publications.PUT("/:id", h.Publications.Update)
		publications.DELETE("/:id", h.Publications.Delete)
		publications.PUT("/:id/manuscript", h.Publications.UploadManuscript)
		publications.GET("/:id/manuscript", h.Publications.DownloadManuscript)
	}

	if h.HKI != nil {
		hki := group.Group("/hki")
		hki.GET("", h.HKI.List)
		hki.POST("", h.HKI.Create)
		hki.GET("/:id", h.HKI.Get)
		hki.PUT("/:id", h.HKI.Update)
		hki.DELETE("/:id", h.HKI.Delete)
		hki.PUT("/:id/document", h.HKI.UploadDocument)
		hki.GET("/:id/document", h.HKI.DownloadDocument)
		hki.GET("/:id/protection", h.HKI.Protection)
	}

	if h.Registrations != nil {
		group.POST("/registrations", h.Registrations.Register)
		group.GET("/registrations/faculties", h.Registrations.Faculties)
	}

	if h.Formats != nil {
		group.POST("/formats/identity", h.Formats.Identity)
		group.GET("/formats/rupiah", h.Formats.Rupiah)
	}

	if h.Dashboard != nil {
		group.GET("/dashboard/summary", h.Dashboard.Summary)
		group.GET("/dashboard/activities", h.Dashboard.Activities)
	}

	if h.Exports != nil {
		exports := group.Group("/exports")
		exports.POST("", h.Exports.Create)
		exports.GET("/download/:token", h.Exports.Download)
		exports.GET("/:id", h.Exports.Status)
	}
}
