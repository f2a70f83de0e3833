package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/putaway-service/internal/application"
	"github.com/wms-platform/putaway-service/pkg/api"
	"github.com/wms-platform/putaway-service/pkg/logging"
	"github.com/wms-platform/putaway-service/pkg/middleware"
)

// PalletHandler serves the pallet registry
type PalletHandler struct {
	service PalletService
	logger  *logging.Logger
}

// NewPalletHandler creates a new PalletHandler
func NewPalletHandler(service PalletService, logger *logging.Logger) *PalletHandler {
	return &PalletHandler{service: service, logger: logger}
}

// RegisterRoutes registers pallet routes on the router
func (h *PalletHandler) RegisterRoutes(router *gin.RouterGroup) {
	pallets := router.Group("/pallets")
	{
		pallets.POST("", h.RegisterPallet)
		pallets.GET("", h.ListPallets)
		pallets.GET("/:palletId", h.GetPallet)
	}
}

// RegisterPalletRequest is the body of POST /pallets
type RegisterPalletRequest struct {
	PalletID  string   `json:"palletId" binding:"required,max=64"`
	ProductID string   `json:"productId" binding:"required,max=64"`
	Quantity  int      `json:"quantity" binding:"required,min=1"`
	Weight    *float64 `json:"weight" binding:"omitempty,gte=0"`
}

// RegisterPallet handles POST /pallets
func (h *PalletHandler) RegisterPallet(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req RegisterPalletRequest
	if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	pallet, err := h.service.RegisterPallet(c.Request.Context(), application.RegisterPalletCommand{
		PalletID:  req.PalletID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Weight:    req.Weight,
	})
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusCreated, pallet)
}

// GetPallet handles GET /pallets/:palletId
func (h *PalletHandler) GetPallet(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	pallet, err := h.service.GetPallet(c.Request.Context(), c.Param("palletId"))
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, pallet)
}

// ListPallets handles GET /pallets?status=
func (h *PalletHandler) ListPallets(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	page := api.ParsePagination(c)
	pallets, total, err := h.service.ListPallets(c.Request.Context(), application.ListPalletsQuery{
		Status: c.Query("status"),
		Page:   toPagination(page),
	})
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, api.NewPageResponse(pallets, page, total))
}
