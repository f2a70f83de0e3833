package memory

import (
	"context"
	"sort"
	"time"

	"github.com/wms-platform/putaway-service/internal/domain"
)

// LocationRepository implements domain.LocationRepository
type LocationRepository struct {
	s *Store
}

func copyLocation(l *domain.Location) *domain.Location {
	cp := *l
	return &cp
}

// Create inserts a location; codes are unique
func (r *LocationRepository) Create(ctx context.Context, location *domain.Location) error {
	defer r.s.lock(ctx)()
	for _, l := range r.s.locations {
		if l.ID == location.ID || l.Code == location.Code {
			return domain.ErrLocationExists
		}
		if location.Active && l.Active && l.ConfirmationCode == location.ConfirmationCode {
			return domain.ErrConfirmationCodeInUse
		}
	}
	r.s.locations[location.ID] = copyLocation(location)
	return nil
}

// FindByID retrieves a location
func (r *LocationRepository) FindByID(ctx context.Context, locationID string) (*domain.Location, error) {
	defer r.s.lock(ctx)()
	l, ok := r.s.locations[locationID]
	if !ok {
		return nil, domain.ErrLocationNotFound
	}
	return copyLocation(l), nil
}

// FindCandidates returns active, available locations ordered by code
func (r *LocationRepository) FindCandidates(ctx context.Context) ([]*domain.Location, error) {
	defer r.s.lock(ctx)()
	var out []*domain.Location
	for _, l := range r.s.locations {
		if l.IsCandidate() {
			out = append(out, copyLocation(l))
		}
	}
	sortByCode(out)
	return out, nil
}

// IncrementOccupancy adds one pallet to the location
func (r *LocationRepository) IncrementOccupancy(ctx context.Context, locationID string, at time.Time) (*domain.Location, error) {
	defer r.s.lock(ctx)()
	l, ok := r.s.locations[locationID]
	if !ok {
		return nil, domain.ErrLocationNotFound
	}
	updated := copyLocation(l)
	if err := updated.Occupy(at); err != nil {
		return nil, err
	}
	r.s.locations[locationID] = updated
	return copyLocation(updated), nil
}

// UpdateConfirmationCode replaces the code
func (r *LocationRepository) UpdateConfirmationCode(ctx context.Context, locationID, code string, at time.Time) error {
	defer r.s.lock(ctx)()
	l, ok := r.s.locations[locationID]
	if !ok {
		return domain.ErrLocationNotFound
	}
	if l.Active && r.codeTakenByOther(locationID, code) {
		return domain.ErrConfirmationCodeInUse
	}
	updated := copyLocation(l)
	updated.ConfirmationCode = code
	updated.UpdatedAt = at
	r.s.locations[locationID] = updated
	return nil
}

// SetActive toggles the active flag
func (r *LocationRepository) SetActive(ctx context.Context, locationID string, active bool, at time.Time) error {
	defer r.s.lock(ctx)()
	l, ok := r.s.locations[locationID]
	if !ok {
		return domain.ErrLocationNotFound
	}
	if active && !l.Active && r.codeTakenByOther(locationID, l.ConfirmationCode) {
		return domain.ErrConfirmationCodeInUse
	}
	updated := copyLocation(l)
	updated.Active = active
	updated.UpdatedAt = at
	r.s.locations[locationID] = updated
	return nil
}

// ConfirmationCodeInUse checks active locations
func (r *LocationRepository) ConfirmationCodeInUse(ctx context.Context, code string) (bool, error) {
	defer r.s.lock(ctx)()
	return r.codeTakenByOther("", code), nil
}

func (r *LocationRepository) codeTakenByOther(locationID, code string) bool {
	for _, l := range r.s.locations {
		if l.ID != locationID && l.Active && l.ConfirmationCode == code {
			return true
		}
	}
	return false
}

// List returns locations ordered by code
func (r *LocationRepository) List(ctx context.Context, filter domain.LocationFilter, page domain.Pagination) ([]*domain.Location, int64, error) {
	defer r.s.lock(ctx)()
	var out []*domain.Location
	for _, l := range r.s.locations {
		if filter.Type != nil && l.Type != *filter.Type {
			continue
		}
		if filter.Active != nil && l.Active != *filter.Active {
			continue
		}
		out = append(out, copyLocation(l))
	}
	sortByCode(out)
	return paginate(out, page), int64(len(out)), nil
}

func sortByCode(locations []*domain.Location) {
	sort.Slice(locations, func(i, j int) bool {
		return locations[i].Code < locations[j].Code
	})
}
