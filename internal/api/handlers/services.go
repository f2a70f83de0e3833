package handlers

import (
	"context"

	"github.com/wms-platform/putaway-service/internal/application"
	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/pkg/api"
)

// TaskService is the task lifecycle surface used by TaskHandler
type TaskService interface {
	ClaimTask(ctx context.Context, cmd application.ClaimTaskCommand) (*application.ClaimResultDTO, error)
	CompleteTask(ctx context.Context, cmd application.CompleteTaskCommand) (*application.CompletionResultDTO, error)
	CancelTask(ctx context.Context, cmd application.CancelTaskCommand) (*application.TaskDTO, error)
	GetTask(ctx context.Context, query application.GetTaskQuery) (*application.TaskDTO, error)
	ListTasks(ctx context.Context, query application.ListTasksQuery) ([]application.TaskDTO, int64, error)
	SuggestLocation(ctx context.Context, query application.SuggestLocationQuery) (*application.LocationDTO, error)
}

// RuleService is the rule CRUD surface used by RuleHandler
type RuleService interface {
	CreateRule(ctx context.Context, cmd application.CreateRuleCommand) (*application.RuleDTO, error)
	UpdateRule(ctx context.Context, cmd application.UpdateRuleCommand) (*application.RuleDTO, error)
	DeleteRule(ctx context.Context, ruleID string) error
	GetRule(ctx context.Context, ruleID string) (*application.RuleDTO, error)
	ListRules(ctx context.Context, activeOnly bool) ([]application.RuleDTO, error)
}

// PalletService is the pallet registry surface used by PalletHandler
type PalletService interface {
	RegisterPallet(ctx context.Context, cmd application.RegisterPalletCommand) (*application.PalletDTO, error)
	GetPallet(ctx context.Context, palletID string) (*application.PalletDTO, error)
	ListPallets(ctx context.Context, query application.ListPalletsQuery) ([]application.PalletDTO, int64, error)
}

// LocationService is the location directory surface used by LocationHandler
type LocationService interface {
	RegisterLocation(ctx context.Context, cmd application.RegisterLocationCommand) (*application.LocationCodeDTO, error)
	RotateConfirmationCode(ctx context.Context, locationID string) (*application.LocationCodeDTO, error)
	SetLocationActive(ctx context.Context, cmd application.SetLocationActiveCommand) (*application.LocationCodeDTO, error)
	GetLocation(ctx context.Context, locationID string) (*application.LocationDTO, error)
	ListLocations(ctx context.Context, query application.ListLocationsQuery) ([]application.LocationDTO, int64, error)
}

// LedgerService reads stock movements
type LedgerService interface {
	ListMovements(ctx context.Context, query application.ListMovementsQuery) ([]application.MovementDTO, int64, error)
}

// MetricsService computes the floor summary
type MetricsService interface {
	GetMetrics(ctx context.Context) (*application.MetricsDTO, error)
}

var (
	_ TaskService     = (*application.PutawayService)(nil)
	_ RuleService     = (*application.RuleService)(nil)
	_ PalletService   = (*application.PalletService)(nil)
	_ LocationService = (*application.LocationService)(nil)
	_ LedgerService   = (*application.LedgerService)(nil)
	_ MetricsService  = (*application.MetricsService)(nil)
)

func toPagination(p api.PageRequest) domain.Pagination {
	return domain.Pagination{Page: p.Page, PageSize: p.PageSize}
}
