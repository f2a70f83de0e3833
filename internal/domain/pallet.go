package domain

import (
	"strings"
	"time"
)

// PalletStatus represents where a pallet is in the put-away flow
type PalletStatus string

const (
	PalletStatusWaitingPutaway PalletStatus = "waiting_putaway"
	PalletStatusInProcess      PalletStatus = "in_process"
	PalletStatusStored         PalletStatus = "stored"
)

// IsValid checks if the status is valid
func (s PalletStatus) IsValid() bool {
	switch s {
	case PalletStatusWaitingPutaway, PalletStatusInProcess, PalletStatusStored:
		return true
	default:
		return false
	}
}

// Pallet is a unit load of inbound product awaiting or undergoing storage.
// AssignedOperatorID is set iff Status is in_process; LocationID is set iff
// Status is stored.
type Pallet struct {
	ID                 string       `bson:"_id" json:"id"`
	ProductID          string       `bson:"productId" json:"productId"`
	Quantity           int          `bson:"quantity" json:"quantity"`
	Weight             *float64     `bson:"weight,omitempty" json:"weight,omitempty"`
	Status             PalletStatus `bson:"status" json:"status"`
	AssignedOperatorID string       `bson:"assignedOperatorId,omitempty" json:"assignedOperatorId,omitempty"`
	AssignedAt         *time.Time   `bson:"assignedAt,omitempty" json:"assignedAt,omitempty"`
	LocationID         string       `bson:"locationId,omitempty" json:"locationId,omitempty"`
	CreatedAt          time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// NewPallet creates a pallet waiting for put-away
func NewPallet(id, productID string, quantity int, weight *float64) (*Pallet, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(productID) == "" || quantity <= 0 {
		return nil, ErrInvalidPallet
	}
	if weight != nil && *weight < 0 {
		return nil, ErrInvalidPallet
	}

	now := time.Now().UTC()
	return &Pallet{
		ID:        id,
		ProductID: productID,
		Quantity:  quantity,
		Weight:    weight,
		Status:    PalletStatusWaitingPutaway,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Claim assigns the pallet to an operator
func (p *Pallet) Claim(operatorID string, at time.Time) error {
	if p.Status != PalletStatusWaitingPutaway {
		return ErrPalletUnavailable
	}
	p.Status = PalletStatusInProcess
	p.AssignedOperatorID = operatorID
	p.AssignedAt = &at
	p.UpdatedAt = at
	return nil
}

// Store records the final placement. The operator assignment is cleared so
// the assignment invariant holds for terminal pallets.
func (p *Pallet) Store(locationID string, at time.Time) error {
	if p.Status != PalletStatusInProcess {
		return ErrInvalidStatusTransition
	}
	p.Status = PalletStatusStored
	p.LocationID = locationID
	p.AssignedOperatorID = ""
	p.AssignedAt = nil
	p.UpdatedAt = at
	return nil
}

// Release returns the pallet to the pool as if it had never been claimed
func (p *Pallet) Release(at time.Time) error {
	if p.Status != PalletStatusInProcess {
		return ErrInvalidStatusTransition
	}
	p.Status = PalletStatusWaitingPutaway
	p.AssignedOperatorID = ""
	p.AssignedAt = nil
	p.UpdatedAt = at
	return nil
}

// WeightOrZero returns the weight, treating unknown as zero
func (p *Pallet) WeightOrZero() float64 {
	if p.Weight == nil {
		return 0
	}
	return *p.Weight
}
