package memory

import (
	"context"
	"sort"
	"time"

	"github.com/wms-platform/putaway-service/internal/domain"
)

// PalletRepository implements domain.PalletRepository
type PalletRepository struct {
	s *Store
}

func copyPallet(p *domain.Pallet) *domain.Pallet {
	cp := *p
	return &cp
}

// Create inserts a pallet
func (r *PalletRepository) Create(ctx context.Context, pallet *domain.Pallet) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.pallets[pallet.ID]; ok {
		return domain.ErrPalletExists
	}
	r.s.pallets[pallet.ID] = copyPallet(pallet)
	return nil
}

// FindByID retrieves a pallet
func (r *PalletRepository) FindByID(ctx context.Context, palletID string) (*domain.Pallet, error) {
	defer r.s.lock(ctx)()
	p, ok := r.s.pallets[palletID]
	if !ok {
		return nil, domain.ErrPalletNotFound
	}
	return copyPallet(p), nil
}

// ClaimForPutaway swaps waiting_putaway -> in_process
func (r *PalletRepository) ClaimForPutaway(ctx context.Context, palletID, operatorID string, at time.Time) (*domain.Pallet, error) {
	defer r.s.lock(ctx)()
	p, ok := r.s.pallets[palletID]
	if !ok {
		return nil, domain.ErrPalletUnavailable
	}
	updated := copyPallet(p)
	if err := updated.Claim(operatorID, at); err != nil {
		return nil, err
	}
	r.s.pallets[palletID] = updated
	return copyPallet(updated), nil
}

// MarkStored swaps in_process -> stored
func (r *PalletRepository) MarkStored(ctx context.Context, palletID, locationID string, at time.Time) error {
	return r.transition(ctx, palletID, func(p *domain.Pallet) error { return p.Store(locationID, at) })
}

// Release swaps in_process -> waiting_putaway
func (r *PalletRepository) Release(ctx context.Context, palletID string, at time.Time) error {
	return r.transition(ctx, palletID, func(p *domain.Pallet) error { return p.Release(at) })
}

func (r *PalletRepository) transition(ctx context.Context, palletID string, apply func(*domain.Pallet) error) error {
	defer r.s.lock(ctx)()
	p, ok := r.s.pallets[palletID]
	if !ok {
		return domain.ErrPalletNotFound
	}
	updated := copyPallet(p)
	if err := apply(updated); err != nil {
		return err
	}
	r.s.pallets[palletID] = updated
	return nil
}

// List returns pallets oldest first
func (r *PalletRepository) List(ctx context.Context, filter domain.PalletFilter, page domain.Pagination) ([]*domain.Pallet, int64, error) {
	defer r.s.lock(ctx)()
	var out []*domain.Pallet
	for _, p := range r.s.pallets {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		out = append(out, copyPallet(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, page), int64(len(out)), nil
}

// CountByStatus counts pallets in status
func (r *PalletRepository) CountByStatus(ctx context.Context, status domain.PalletStatus) (int64, error) {
	defer r.s.lock(ctx)()
	var n int64
	for _, p := range r.s.pallets {
		if p.Status == status {
			n++
		}
	}
	return n, nil
}
