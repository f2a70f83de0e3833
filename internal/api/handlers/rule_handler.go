package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/putaway-service/internal/application"
	"github.com/wms-platform/putaway-service/pkg/logging"
	"github.com/wms-platform/putaway-service/pkg/middleware"
)

// RuleHandler serves put-away rule CRUD
type RuleHandler struct {
	service RuleService
	logger  *logging.Logger
}

// NewRuleHandler creates a new RuleHandler
func NewRuleHandler(service RuleService, logger *logging.Logger) *RuleHandler {
	return &RuleHandler{service: service, logger: logger}
}

// RegisterRoutes registers rule routes on the router
func (h *RuleHandler) RegisterRoutes(router *gin.RouterGroup) {
	rules := router.Group("/rules")
	{
		rules.POST("", h.CreateRule)
		rules.GET("", h.ListRules)
		rules.GET("/:ruleId", h.GetRule)
		rules.PUT("/:ruleId", h.UpdateRule)
		rules.DELETE("/:ruleId", h.DeleteRule)
	}
}

// RuleConditionRequest is one condition in a rule body
type RuleConditionRequest struct {
	Field    string  `json:"field" binding:"required,rule_field"`
	Operator string  `json:"operator" binding:"required,rule_operator"`
	Value    float64 `json:"value"`
}

// RuleRequest is the body of POST /rules and PUT /rules/:ruleId
type RuleRequest struct {
	Name          string                 `json:"name" binding:"required,max=100"`
	Description   string                 `json:"description" binding:"max=500"`
	Conditions    []RuleConditionRequest `json:"conditions" binding:"dive"`
	LocationTypes []string               `json:"locationTypes" binding:"required,min=1,dive,location_type"`
	Priority      int                    `json:"priority" binding:"min=0"`
	Active        *bool                  `json:"active"`
}

func (r RuleRequest) conditions() []application.RuleConditionInput {
	out := make([]application.RuleConditionInput, 0, len(r.Conditions))
	for _, c := range r.Conditions {
		out = append(out, application.RuleConditionInput{Field: c.Field, Operator: c.Operator, Value: c.Value})
	}
	return out
}

// CreateRule handles POST /rules
func (h *RuleHandler) CreateRule(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req RuleRequest
	if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	rule, err := h.service.CreateRule(c.Request.Context(), application.CreateRuleCommand{
		Name:          req.Name,
		Description:   req.Description,
		Conditions:    req.conditions(),
		LocationTypes: req.LocationTypes,
		Priority:      req.Priority,
		Active:        req.Active,
	})
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusCreated, rule)
}

// UpdateRule handles PUT /rules/:ruleId. An omitted active flag keeps the rule active.
func (h *RuleHandler) UpdateRule(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req RuleRequest
	if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	rule, err := h.service.UpdateRule(c.Request.Context(), application.UpdateRuleCommand{
		RuleID:        c.Param("ruleId"),
		Name:          req.Name,
		Description:   req.Description,
		Conditions:    req.conditions(),
		LocationTypes: req.LocationTypes,
		Priority:      req.Priority,
		Active:        active,
	})
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

// DeleteRule handles DELETE /rules/:ruleId
func (h *RuleHandler) DeleteRule(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	if err := h.service.DeleteRule(c.Request.Context(), c.Param("ruleId")); err != nil {
		responder.RespondWithError(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetRule handles GET /rules/:ruleId
func (h *RuleHandler) GetRule(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	rule, err := h.service.GetRule(c.Request.Context(), c.Param("ruleId"))
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

// ListRules handles GET /rules?active=true
func (h *RuleHandler) ListRules(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	rules, err := h.service.ListRules(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rules, "total": len(rules)})
}
