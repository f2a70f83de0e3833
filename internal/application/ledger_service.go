package application

import (
	"context"

	"github.com/wms-platform/putaway-service/internal/domain"
)

// LedgerService reads the stock ledger. Entries are only written by CompleteTask.
type LedgerService struct {
	repos Repositories
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(repos Repositories) *LedgerService {
	return &LedgerService{repos: repos}
}

// ListMovements lists ledger entries in append order
func (s *LedgerService) ListMovements(ctx context.Context, query ListMovementsQuery) ([]MovementDTO, int64, error) {
	filter := domain.MovementFilter{}
	if query.TaskID != "" {
		filter.TaskID = &query.TaskID
	}
	if query.LocationID != "" {
		filter.LocationID = &query.LocationID
	}

	movements, total, err := s.repos.Movements.List(ctx, filter, query.Page)
	if err != nil {
		return nil, 0, toAppError(err, refs{}, "list movements")
	}
	return mapSlice(movements, ToMovementDTO), total, nil
}
