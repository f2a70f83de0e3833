package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/putaway-service/internal/application"
	"github.com/wms-platform/putaway-service/pkg/api"
	"github.com/wms-platform/putaway-service/pkg/logging"
	"github.com/wms-platform/putaway-service/pkg/middleware"
)

// TaskHandler serves the put-away task lifecycle
type TaskHandler struct {
	service TaskService
	logger  *logging.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(service TaskService, logger *logging.Logger) *TaskHandler {
	return &TaskHandler{service: service, logger: logger}
}

// RegisterRoutes registers task routes on the router
func (h *TaskHandler) RegisterRoutes(router *gin.RouterGroup) {
	tasks := router.Group("/tasks")
	{
		tasks.POST("/claim", h.ClaimTask)
		tasks.GET("", h.ListTasks)
		tasks.GET("/:taskId", h.GetTask)
		tasks.POST("/:taskId/complete", h.CompleteTask)
		tasks.POST("/:taskId/cancel", h.CancelTask)
	}
	router.POST("/locations/suggest", h.SuggestLocation)
}

// ClaimTaskRequest is the body of POST /tasks/claim
type ClaimTaskRequest struct {
	PalletID   string `json:"palletId" binding:"required,max=64"`
	OperatorID string `json:"operatorId"`
	Priority   int    `json:"priority" binding:"omitempty,min=1,max=5"`
	Notes      string `json:"notes" binding:"max=500"`
}

// ClaimTask handles POST /tasks/claim. The operator comes from the body or
// the X-Operator-ID header.
func (h *TaskHandler) ClaimTask(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req ClaimTaskRequest
	if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	if req.OperatorID == "" {
		req.OperatorID = middleware.GetOperatorID(c)
	}
	if req.OperatorID == "" {
		responder.RespondBadRequest("operatorId is required")
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"pallet.id":   req.PalletID,
		"operator.id": req.OperatorID,
	})

	result, err := h.service.ClaimTask(c.Request.Context(), application.ClaimTaskCommand{
		PalletID:   req.PalletID,
		OperatorID: req.OperatorID,
		Priority:   req.Priority,
		Notes:      middleware.SanitizeString(req.Notes),
	})
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// CompleteTaskRequest is the body of POST /tasks/:taskId/complete
type CompleteTaskRequest struct {
	LocationID       string `json:"locationId" binding:"required"`
	// compared verbatim against the location code, so no charset is enforced here
	ConfirmationCode string `json:"confirmationCode" binding:"required,max=32"`
}

// CompleteTask handles POST /tasks/:taskId/complete
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	taskID := c.Param("taskId")
	var req CompleteTaskRequest
	if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"task.id":     taskID,
		"location.id": req.LocationID,
	})

	result, err := h.service.CompleteTask(c.Request.Context(), application.CompleteTaskCommand{
		TaskID:           taskID,
		LocationID:       req.LocationID,
		ConfirmationCode: req.ConfirmationCode,
	})
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CancelTaskRequest is the body of POST /tasks/:taskId/cancel
type CancelTaskRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// CancelTask handles POST /tasks/:taskId/cancel. The body is optional.
func (h *TaskHandler) CancelTask(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	taskID := c.Param("taskId")
	var req CancelTaskRequest
	if c.Request.ContentLength > 0 {
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{"task.id": taskID})

	task, err := h.service.CancelTask(c.Request.Context(), application.CancelTaskCommand{
		TaskID: taskID,
		Reason: middleware.SanitizeString(req.Reason),
	})
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// GetTask handles GET /tasks/:taskId
func (h *TaskHandler) GetTask(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	task, err := h.service.GetTask(c.Request.Context(), application.GetTaskQuery{TaskID: c.Param("taskId")})
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// ListTasks handles GET /tasks?status=&operatorId=&palletId=&page=&pageSize=
func (h *TaskHandler) ListTasks(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	page := api.ParsePagination(c)
	tasks, total, err := h.service.ListTasks(c.Request.Context(), application.ListTasksQuery{
		Status:     c.Query("status"),
		OperatorID: c.Query("operatorId"),
		PalletID:   c.Query("palletId"),
		Page:       toPagination(page),
	})
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, api.NewPageResponse(tasks, page, total))
}

// SuggestLocationRequest is the body of POST /locations/suggest
type SuggestLocationRequest struct {
	PalletID string `json:"palletId" binding:"required"`
}

// SuggestLocation handles POST /locations/suggest, a dry run of the selector
func (h *TaskHandler) SuggestLocation(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req SuggestLocationRequest
	if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	location, err := h.service.SuggestLocation(c.Request.Context(), application.SuggestLocationQuery{PalletID: req.PalletID})
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, location)
}
