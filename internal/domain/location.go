package domain

import (
	"strings"
	"time"
)

// LocationType is the kind of storage slot
type LocationType string

const (
	LocationTypeBin   LocationType = "bin"
	LocationTypeRack  LocationType = "rack"
	LocationTypeShelf LocationType = "shelf"
	LocationTypeFloor LocationType = "floor"
	LocationTypeBulk  LocationType = "bulk"
)

// IsValid checks if the location type is valid
func (t LocationType) IsValid() bool {
	switch t {
	case LocationTypeBin, LocationTypeRack, LocationTypeShelf, LocationTypeFloor, LocationTypeBulk:
		return true
	default:
		return false
	}
}

// OccupancyStatus tells the selector whether a location takes new pallets
type OccupancyStatus string

const (
	OccupancyAvailable OccupancyStatus = "available"
	OccupancyOccupied  OccupancyStatus = "occupied"
)

// Restrictions limit which pallets a location accepts
type Restrictions struct {
	MaxWeight *float64 `bson:"maxWeight,omitempty" json:"maxWeight,omitempty"`
}

// Location is an addressable storage slot. CurrentOccupancy never exceeds
// Capacity when Capacity is set, and ConfirmationCode is unique across
// active locations.
type Location struct {
	ID               string          `bson:"_id" json:"id"`
	Code             string          `bson:"code" json:"code"`
	Type             LocationType    `bson:"type" json:"type"`
	Capacity         *int            `bson:"capacity,omitempty" json:"capacity,omitempty"`
	CurrentOccupancy int             `bson:"currentOccupancy" json:"currentOccupancy"`
	OccupancyStatus  OccupancyStatus `bson:"occupancyStatus" json:"occupancyStatus"`
	Active           bool            `bson:"active" json:"active"`
	Restrictions     Restrictions    `bson:"restrictions" json:"restrictions"`
	ConfirmationCode string          `bson:"confirmationCode" json:"confirmationCode"`
	CreatedAt        time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// NewLocation creates an active, empty location
func NewLocation(id, code string, locationType LocationType, capacity *int, maxWeight *float64, confirmationCode string) (*Location, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(code) == "" || !locationType.IsValid() {
		return nil, ErrInvalidLocation
	}
	if capacity != nil && *capacity <= 0 {
		return nil, ErrInvalidLocation
	}
	if maxWeight != nil && *maxWeight <= 0 {
		return nil, ErrInvalidLocation
	}

	now := time.Now().UTC()
	return &Location{
		ID:               id,
		Code:             code,
		Type:             locationType,
		Capacity:         capacity,
		OccupancyStatus:  OccupancyAvailable,
		Active:           true,
		Restrictions:     Restrictions{MaxWeight: maxWeight},
		ConfirmationCode: confirmationCode,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// IsCandidate reports whether the selector may propose this location
func (l *Location) IsCandidate() bool {
	return l.Active && l.OccupancyStatus == OccupancyAvailable
}

// AcceptsWeight checks the max_weight restriction; an unknown pallet weight passes
func (l *Location) AcceptsWeight(weight *float64) bool {
	if l.Restrictions.MaxWeight == nil || weight == nil {
		return true
	}
	return *weight <= *l.Restrictions.MaxWeight
}

// HasRoom reports whether one more pallet fits
func (l *Location) HasRoom() bool {
	return l.Capacity == nil || l.CurrentOccupancy+1 <= *l.Capacity
}

// MatchesCode is an exact, unnormalized comparison
func (l *Location) MatchesCode(code string) bool {
	return l.ConfirmationCode == code
}

// FillRatio is occupancy over capacity; unbounded locations report zero
func (l *Location) FillRatio() float64 {
	if l.Capacity == nil || *l.Capacity == 0 {
		return 0
	}
	return float64(l.CurrentOccupancy) / float64(*l.Capacity)
}

// Occupy places one pallet in the location
func (l *Location) Occupy(at time.Time) error {
	if !l.HasRoom() {
		return ErrLocationCapacityExceeded
	}
	l.CurrentOccupancy++
	l.OccupancyStatus = OccupancyOccupied
	l.UpdatedAt = at
	return nil
}
