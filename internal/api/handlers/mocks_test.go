package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/putaway-service/internal/application"
	"github.com/wms-platform/putaway-service/pkg/logging"
	"github.com/wms-platform/putaway-service/pkg/middleware"
)

type mockTaskService struct {
	claimFn    func(ctx context.Context, cmd application.ClaimTaskCommand) (*application.ClaimResultDTO, error)
	completeFn func(ctx context.Context, cmd application.CompleteTaskCommand) (*application.CompletionResultDTO, error)
	cancelFn   func(ctx context.Context, cmd application.CancelTaskCommand) (*application.TaskDTO, error)
	getFn      func(ctx context.Context, query application.GetTaskQuery) (*application.TaskDTO, error)
	listFn     func(ctx context.Context, query application.ListTasksQuery) ([]application.TaskDTO, int64, error)
	suggestFn  func(ctx context.Context, query application.SuggestLocationQuery) (*application.LocationDTO, error)
}

func (m *mockTaskService) ClaimTask(ctx context.Context, cmd application.ClaimTaskCommand) (*application.ClaimResultDTO, error) {
	if m.claimFn == nil {
		panic("ClaimTask not implemented")
	}
	return m.claimFn(ctx, cmd)
}

func (m *mockTaskService) CompleteTask(ctx context.Context, cmd application.CompleteTaskCommand) (*application.CompletionResultDTO, error) {
	if m.completeFn == nil {
		panic("CompleteTask not implemented")
	}
	return m.completeFn(ctx, cmd)
}

func (m *mockTaskService) CancelTask(ctx context.Context, cmd application.CancelTaskCommand) (*application.TaskDTO, error) {
	if m.cancelFn == nil {
		panic("CancelTask not implemented")
	}
	return m.cancelFn(ctx, cmd)
}

func (m *mockTaskService) GetTask(ctx context.Context, query application.GetTaskQuery) (*application.TaskDTO, error) {
	if m.getFn == nil {
		panic("GetTask not implemented")
	}
	return m.getFn(ctx, query)
}

func (m *mockTaskService) ListTasks(ctx context.Context, query application.ListTasksQuery) ([]application.TaskDTO, int64, error) {
	if m.listFn == nil {
		panic("ListTasks not implemented")
	}
	return m.listFn(ctx, query)
}

func (m *mockTaskService) SuggestLocation(ctx context.Context, query application.SuggestLocationQuery) (*application.LocationDTO, error) {
	if m.suggestFn == nil {
		panic("SuggestLocation not implemented")
	}
	return m.suggestFn(ctx, query)
}

type mockRuleService struct {
	createFn func(ctx context.Context, cmd application.CreateRuleCommand) (*application.RuleDTO, error)
	updateFn func(ctx context.Context, cmd application.UpdateRuleCommand) (*application.RuleDTO, error)
	deleteFn func(ctx context.Context, ruleID string) error
	getFn    func(ctx context.Context, ruleID string) (*application.RuleDTO, error)
	listFn   func(ctx context.Context, activeOnly bool) ([]application.RuleDTO, error)
}

func (m *mockRuleService) CreateRule(ctx context.Context, cmd application.CreateRuleCommand) (*application.RuleDTO, error) {
	if m.createFn == nil {
		panic("CreateRule not implemented")
	}
	return m.createFn(ctx, cmd)
}

func (m *mockRuleService) UpdateRule(ctx context.Context, cmd application.UpdateRuleCommand) (*application.RuleDTO, error) {
	if m.updateFn == nil {
		panic("UpdateRule not implemented")
	}
	return m.updateFn(ctx, cmd)
}

func (m *mockRuleService) DeleteRule(ctx context.Context, ruleID string) error {
	if m.deleteFn == nil {
		panic("DeleteRule not implemented")
	}
	return m.deleteFn(ctx, ruleID)
}

func (m *mockRuleService) GetRule(ctx context.Context, ruleID string) (*application.RuleDTO, error) {
	if m.getFn == nil {
		panic("GetRule not implemented")
	}
	return m.getFn(ctx, ruleID)
}

func (m *mockRuleService) ListRules(ctx context.Context, activeOnly bool) ([]application.RuleDTO, error) {
	if m.listFn == nil {
		panic("ListRules not implemented")
	}
	return m.listFn(ctx, activeOnly)
}

type mockPalletService struct {
	registerFn func(ctx context.Context, cmd application.RegisterPalletCommand) (*application.PalletDTO, error)
	getFn      func(ctx context.Context, palletID string) (*application.PalletDTO, error)
	listFn     func(ctx context.Context, query application.ListPalletsQuery) ([]application.PalletDTO, int64, error)
}

func (m *mockPalletService) RegisterPallet(ctx context.Context, cmd application.RegisterPalletCommand) (*application.PalletDTO, error) {
	if m.registerFn == nil {
		panic("RegisterPallet not implemented")
	}
	return m.registerFn(ctx, cmd)
}

func (m *mockPalletService) GetPallet(ctx context.Context, palletID string) (*application.PalletDTO, error) {
	if m.getFn == nil {
		panic("GetPallet not implemented")
	}
	return m.getFn(ctx, palletID)
}

func (m *mockPalletService) ListPallets(ctx context.Context, query application.ListPalletsQuery) ([]application.PalletDTO, int64, error) {
	if m.listFn == nil {
		panic("ListPallets not implemented")
	}
	return m.listFn(ctx, query)
}

type mockLocationService struct {
	registerFn  func(ctx context.Context, cmd application.RegisterLocationCommand) (*application.LocationCodeDTO, error)
	rotateFn    func(ctx context.Context, locationID string) (*application.LocationCodeDTO, error)
	setActiveFn func(ctx context.Context, cmd application.SetLocationActiveCommand) (*application.LocationCodeDTO, error)
	getFn       func(ctx context.Context, locationID string) (*application.LocationDTO, error)
	listFn      func(ctx context.Context, query application.ListLocationsQuery) ([]application.LocationDTO, int64, error)
}

func (m *mockLocationService) RegisterLocation(ctx context.Context, cmd application.RegisterLocationCommand) (*application.LocationCodeDTO, error) {
	if m.registerFn == nil {
		panic("RegisterLocation not implemented")
	}
	return m.registerFn(ctx, cmd)
}

func (m *mockLocationService) RotateConfirmationCode(ctx context.Context, locationID string) (*application.LocationCodeDTO, error) {
	if m.rotateFn == nil {
		panic("RotateConfirmationCode not implemented")
	}
	return m.rotateFn(ctx, locationID)
}

func (m *mockLocationService) SetLocationActive(ctx context.Context, cmd application.SetLocationActiveCommand) (*application.LocationCodeDTO, error) {
	if m.setActiveFn == nil {
		panic("SetLocationActive not implemented")
	}
	return m.setActiveFn(ctx, cmd)
}

func (m *mockLocationService) GetLocation(ctx context.Context, locationID string) (*application.LocationDTO, error) {
	if m.getFn == nil {
		panic("GetLocation not implemented")
	}
	return m.getFn(ctx, locationID)
}

func (m *mockLocationService) ListLocations(ctx context.Context, query application.ListLocationsQuery) ([]application.LocationDTO, int64, error) {
	if m.listFn == nil {
		panic("ListLocations not implemented")
	}
	return m.listFn(ctx, query)
}

type mockLedgerService struct {
	listFn func(ctx context.Context, query application.ListMovementsQuery) ([]application.MovementDTO, int64, error)
}

func (m *mockLedgerService) ListMovements(ctx context.Context, query application.ListMovementsQuery) ([]application.MovementDTO, int64, error) {
	if m.listFn == nil {
		panic("ListMovements not implemented")
	}
	return m.listFn(ctx, query)
}

type mockMetricsService struct {
	getFn func(ctx context.Context) (*application.MetricsDTO, error)
}

func (m *mockMetricsService) GetMetrics(ctx context.Context) (*application.MetricsDTO, error) {
	if m.getFn == nil {
		panic("GetMetrics not implemented")
	}
	return m.getFn(ctx)
}

type routeRegistrar interface {
	RegisterRoutes(router *gin.RouterGroup)
}

func newTestRouter(handlers ...routeRegistrar) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.InitValidator()
	router := gin.New()
	group := router.Group("/api/v1")
	for _, h := range handlers {
		h.RegisterRoutes(group)
	}
	return router
}

func performRequest(router *gin.Engine, method, path string, body string, headers ...string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var testLogger = logging.NewNop()
