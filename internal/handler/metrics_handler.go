package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pentadosen-api/internal/service"
	"github.com/noah-isme/pentadosen-api/pkg/civildate"
)

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	clock   *civildate.Clock
}

// NewMetricsHandler constructs a metrics handler. clock may be nil.
func NewMetricsHandler(metrics *service.MetricsService, clock *civildate.Clock) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, clock: clock}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for readiness/liveness usage,
// including the civil date the service classifies events against.
func (h *MetricsHandler) Health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if h.clock != nil {
		body["today"] = h.clock.Today().String()
		body["timezone"] = h.clock.Location().String()
	}
	c.JSON(http.StatusOK, body)
}
