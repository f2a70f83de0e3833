package domain

import (
	"context"
	"time"
)

// Transactor runs fn as one atomic unit. Repositories called with the ctx
// passed to fn take part in the transaction. fn may be re-run on transient
// conflicts and must not keep state across attempts.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PalletRepository is the Pallet Registry
type PalletRepository interface {
	// Create inserts a pallet, failing with ErrPalletExists on a duplicate id
	Create(ctx context.Context, pallet *Pallet) error

	FindByID(ctx context.Context, palletID string) (*Pallet, error)

	// ClaimForPutaway swaps status waiting_putaway -> in_process in one
	// atomic step and returns the updated pallet. Any other current state
	// yields ErrPalletUnavailable.
	ClaimForPutaway(ctx context.Context, palletID, operatorID string, at time.Time) (*Pallet, error)

	// MarkStored swaps in_process -> stored and records the location
	MarkStored(ctx context.Context, palletID, locationID string, at time.Time) error

	// Release swaps in_process -> waiting_putaway and clears the assignment
	Release(ctx context.Context, palletID string, at time.Time) error

	List(ctx context.Context, filter PalletFilter, page Pagination) ([]*Pallet, int64, error)

	CountByStatus(ctx context.Context, status PalletStatus) (int64, error)
}

// LocationRepository is the Location Directory
type LocationRepository interface {
	CandidateSource

	// Create inserts a location, failing with ErrLocationExists on a duplicate code
	Create(ctx context.Context, location *Location) error

	FindByID(ctx context.Context, locationID string) (*Location, error)

	// IncrementOccupancy adds one pallet atomically, marking the location
	// occupied. It fails with ErrLocationCapacityExceeded when full.
	IncrementOccupancy(ctx context.Context, locationID string, at time.Time) (*Location, error)

	UpdateConfirmationCode(ctx context.Context, locationID, code string, at time.Time) error

	SetActive(ctx context.Context, locationID string, active bool, at time.Time) error

	// ConfirmationCodeInUse checks the code against active locations
	ConfirmationCodeInUse(ctx context.Context, code string) (bool, error)

	List(ctx context.Context, filter LocationFilter, page Pagination) ([]*Location, int64, error)
}

// TaskRepository persists put-away tasks
type TaskRepository interface {
	// Create inserts a task. A second in-progress task for the same pallet
	// fails with ErrPalletUnavailable; a duplicate number with ErrTaskNumberExists.
	Create(ctx context.Context, task *PutAwayTask) error

	FindByID(ctx context.Context, taskID string) (*PutAwayTask, error)

	// Finalize writes a terminal task, guarded on the stored status still
	// being in_progress. A lost race yields ErrTaskNotInProgress.
	Finalize(ctx context.Context, task *PutAwayTask) error

	TaskNumberExists(ctx context.Context, taskNumber string) (bool, error)

	List(ctx context.Context, filter TaskFilter, page Pagination) ([]*PutAwayTask, int64, error)

	// FindCompletedBetween returns completed tasks with from <= completedAt < to
	FindCompletedBetween(ctx context.Context, from, to time.Time) ([]*PutAwayTask, error)

	// ActiveOperatorIDs returns the distinct operators holding in-progress tasks
	ActiveOperatorIDs(ctx context.Context) ([]string, error)
}

// RuleRepository persists put-away rules
type RuleRepository interface {
	RuleSource

	Create(ctx context.Context, rule *PutAwayRule) error
	Update(ctx context.Context, rule *PutAwayRule) error
	Delete(ctx context.Context, ruleID string) error
	FindByID(ctx context.Context, ruleID string) (*PutAwayRule, error)

	// List returns rules in evaluation order
	List(ctx context.Context, activeOnly bool) ([]*PutAwayRule, error)

	Count(ctx context.Context) (int64, error)
}

// MovementRepository is the stock ledger. It only appends.
type MovementRepository interface {
	Append(ctx context.Context, movement *StockMovement) error
	List(ctx context.Context, filter MovementFilter, page Pagination) ([]*StockMovement, int64, error)
}

// Pagination represents pagination options
type Pagination struct {
	Page     int64
	PageSize int64
}

// DefaultPagination returns default pagination options
func DefaultPagination() Pagination {
	return Pagination{Page: 1, PageSize: 20}
}

// Skip returns the number of documents to skip
func (p Pagination) Skip() int64 {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Limit returns the maximum number of documents to return
func (p Pagination) Limit() int64 {
	return p.PageSize
}

// PalletFilter represents filter options for querying pallets
type PalletFilter struct {
	Status *PalletStatus
}

// LocationFilter represents filter options for querying locations
type LocationFilter struct {
	Type   *LocationType
	Active *bool
}

// TaskFilter represents filter options for querying tasks
type TaskFilter struct {
	Status     *TaskStatus
	OperatorID *string
	PalletID   *string
}

// MovementFilter represents filter options for querying the ledger
type MovementFilter struct {
	TaskID     *string
	LocationID *string
}
