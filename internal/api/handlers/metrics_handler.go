package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/putaway-service/pkg/logging"
	"github.com/wms-platform/putaway-service/pkg/middleware"
)

// MetricsHandler serves the put-away floor summary
type MetricsHandler struct {
	service MetricsService
	logger  *logging.Logger
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(service MetricsService, logger *logging.Logger) *MetricsHandler {
	return &MetricsHandler{service: service, logger: logger}
}

// RegisterRoutes registers the summary route. Prometheus /metrics lives on
// the root router.
func (h *MetricsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/metrics/summary", h.GetSummary)
}

// GetSummary handles GET /metrics/summary
func (h *MetricsHandler) GetSummary(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	summary, err := h.service.GetMetrics(c.Request.Context())
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
