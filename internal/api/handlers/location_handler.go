package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/putaway-service/internal/application"
	"github.com/wms-platform/putaway-service/pkg/api"
	"github.com/wms-platform/putaway-service/pkg/logging"
	"github.com/wms-platform/putaway-service/pkg/middleware"
)

// LocationHandler serves the location directory
type LocationHandler struct {
	service LocationService
	logger  *logging.Logger
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(service LocationService, logger *logging.Logger) *LocationHandler {
	return &LocationHandler{service: service, logger: logger}
}

// RegisterRoutes registers location routes on the router
func (h *LocationHandler) RegisterRoutes(router *gin.RouterGroup) {
	locations := router.Group("/locations")
	{
		locations.POST("", h.RegisterLocation)
		locations.GET("", h.ListLocations)
		locations.GET("/:locationId", h.GetLocation)
		locations.POST("/:locationId/rotate-code", h.RotateConfirmationCode)
		locations.PATCH("/:locationId/active", h.SetActive)
	}
}

// RegisterLocationRequest is the body of POST /locations
type RegisterLocationRequest struct {
	Code      string   `json:"code" binding:"required,max=32"`
	Type      string   `json:"type" binding:"required,location_type"`
	Capacity  *int     `json:"capacity" binding:"omitempty,min=1"`
	MaxWeight *float64 `json:"maxWeight" binding:"omitempty,gt=0"`
}

// RegisterLocation handles POST /locations. The response carries the
// confirmation code for the label.
func (h *LocationHandler) RegisterLocation(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req RegisterLocationRequest
	if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	location, err := h.service.RegisterLocation(c.Request.Context(), application.RegisterLocationCommand{
		Code:      req.Code,
		Type:      req.Type,
		Capacity:  req.Capacity,
		MaxWeight: req.MaxWeight,
	})
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusCreated, location)
}

// RotateConfirmationCode handles POST /locations/:locationId/rotate-code
func (h *LocationHandler) RotateConfirmationCode(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	location, err := h.service.RotateConfirmationCode(c.Request.Context(), c.Param("locationId"))
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, location)
}

// SetActiveRequest is the body of PATCH /locations/:locationId/active
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive handles PATCH /locations/:locationId/active
func (h *LocationHandler) SetActive(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req SetActiveRequest
	if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	location, err := h.service.SetLocationActive(c.Request.Context(), application.SetLocationActiveCommand{
		LocationID: c.Param("locationId"),
		Active:     *req.Active,
	})
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, location)
}

// GetLocation handles GET /locations/:locationId
func (h *LocationHandler) GetLocation(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	location, err := h.service.GetLocation(c.Request.Context(), c.Param("locationId"))
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, location)
}

// ListLocations handles GET /locations?type=&active=
func (h *LocationHandler) ListLocations(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	query := application.ListLocationsQuery{
		Type: c.Query("type"),
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			responder.RespondBadRequest("active must be true or false")
			return
		}
		query.Active = &active
	}

	page := api.ParsePagination(c)
	query.Page = toPagination(page)

	locations, total, err := h.service.ListLocations(c.Request.Context(), query)
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, api.NewPageResponse(locations, page, total))
}
