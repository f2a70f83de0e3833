package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/putaway-service/internal/application"
	"github.com/wms-platform/putaway-service/pkg/api"
	"github.com/wms-platform/putaway-service/pkg/logging"
	"github.com/wms-platform/putaway-service/pkg/middleware"
)

// MovementHandler serves read access to the stock ledger
type MovementHandler struct {
	service LedgerService
	logger  *logging.Logger
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(service LedgerService, logger *logging.Logger) *MovementHandler {
	return &MovementHandler{service: service, logger: logger}
}

// RegisterRoutes registers ledger routes on the router
func (h *MovementHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/movements", h.ListMovements)
}

// ListMovements handles GET /movements?taskId=&locationId=
func (h *MovementHandler) ListMovements(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	page := api.ParsePagination(c)
	movements, total, err := h.service.ListMovements(c.Request.Context(), application.ListMovementsQuery{
		TaskID:     c.Query("taskId"),
		LocationID: c.Query("locationId"),
		Page:       toPagination(page),
	})
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, api.NewPageResponse(movements, page, total))
}
