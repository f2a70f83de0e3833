package application

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/pkg/errors"
	"github.com/wms-platform/putaway-service/pkg/logging"
)

// PalletService is the Pallet Registry
type PalletService struct {
	repos  Repositories
	logger *logging.Logger
}

// NewPalletService creates a new PalletService
func NewPalletService(repos Repositories, logger *logging.Logger) *PalletService {
	return &PalletService{repos: repos, logger: logger}
}

// RegisterPallet records an inbound pallet as waiting for put-away. Registering
// an id that already exists returns the stored pallet unchanged.
func (s *PalletService) RegisterPallet(ctx context.Context, cmd RegisterPalletCommand) (*PalletDTO, error) {
	pallet, err := domain.NewPallet(strings.TrimSpace(cmd.PalletID), strings.TrimSpace(cmd.ProductID), cmd.Quantity, cmd.Weight)
	if err != nil {
		return nil, toAppError(err, refs{palletID: cmd.PalletID}, "register pallet")
	}

	err = s.repos.Pallets.Create(ctx, pallet)
	if stderrors.Is(err, domain.ErrPalletExists) {
		existing, findErr := s.repos.Pallets.FindByID(ctx, pallet.ID)
		if findErr != nil {
			return nil, toAppError(findErr, refs{palletID: pallet.ID}, "register pallet")
		}
		s.logger.WithContext(ctx).Debug("Pallet already registered", "palletId", pallet.ID)
		dto := ToPalletDTO(existing)
		return &dto, nil
	}
	if err != nil {
		return nil, toAppError(err, refs{palletID: pallet.ID}, "register pallet")
	}

	s.logger.WithContext(ctx).Info("Registered pallet",
		"palletId", pallet.ID,
		"productId", pallet.ProductID,
		"quantity", pallet.Quantity,
	)

	dto := ToPalletDTO(pallet)
	return &dto, nil
}

// GetPallet retrieves a pallet by ID
func (s *PalletService) GetPallet(ctx context.Context, palletID string) (*PalletDTO, error) {
	pallet, err := s.repos.Pallets.FindByID(ctx, palletID)
	if err != nil {
		return nil, toAppError(err, refs{palletID: palletID}, "get pallet")
	}
	dto := ToPalletDTO(pallet)
	return &dto, nil
}

// ListPallets lists pallets, oldest first
func (s *PalletService) ListPallets(ctx context.Context, query ListPalletsQuery) ([]PalletDTO, int64, error) {
	filter := domain.PalletFilter{}
	if query.Status != "" {
		status := domain.PalletStatus(query.Status)
		if !status.IsValid() {
			return nil, 0, errors.ErrValidation("invalid pallet status").WithDetail("status", query.Status)
		}
		filter.Status = &status
	}

	pallets, total, err := s.repos.Pallets.List(ctx, filter, query.Page)
	if err != nil {
		return nil, 0, toAppError(err, refs{}, "list pallets")
	}
	return mapSlice(pallets, ToPalletDTO), total, nil
}
