package domain

import (
	"time"

	"github.com/wms-platform/putaway-service/pkg/cloudevents"
)

// DomainEvent represents a domain event interface
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// TaskClaimedEvent is emitted when an operator claims a pallet
type TaskClaimedEvent struct {
	TaskID              string    `json:"taskId"`
	TaskNumber          string    `json:"taskNumber"`
	PalletID            string    `json:"palletId"`
	OperatorID          string    `json:"operatorId"`
	SuggestedLocationID string    `json:"suggestedLocationId,omitempty"`
	ClaimedAt           time.Time `json:"claimedAt"`
}

func (e *TaskClaimedEvent) EventType() string     { return cloudevents.PutawayTaskClaimed }
func (e *TaskClaimedEvent) OccurredAt() time.Time { return e.ClaimedAt }

// TaskCompletedEvent is emitted when a pallet is confirmed at its location
type TaskCompletedEvent struct {
	TaskID              string    `json:"taskId"`
	TaskNumber          string    `json:"taskNumber"`
	PalletID            string    `json:"palletId"`
	OperatorID          string    `json:"operatorId"`
	SuggestedLocationID string    `json:"suggestedLocationId,omitempty"`
	ActualLocationID    string    `json:"actualLocationId"`
	DurationMinutes     int       `json:"durationMinutes"`
	CompletedAt         time.Time `json:"completedAt"`
}

func (e *TaskCompletedEvent) EventType() string     { return cloudevents.PutawayTaskCompleted }
func (e *TaskCompletedEvent) OccurredAt() time.Time { return e.CompletedAt }

// TaskCancelledEvent is emitted when a task is abandoned
type TaskCancelledEvent struct {
	TaskID      string    `json:"taskId"`
	TaskNumber  string    `json:"taskNumber"`
	PalletID    string    `json:"palletId"`
	OperatorID  string    `json:"operatorId"`
	Reason      string    `json:"reason,omitempty"`
	CancelledAt time.Time `json:"cancelledAt"`
}

func (e *TaskCancelledEvent) EventType() string     { return cloudevents.PutawayTaskCancelled }
func (e *TaskCancelledEvent) OccurredAt() time.Time { return e.CancelledAt }

// StockMovedEvent carries a ledger entry to inventory and accounting. It
// shares its wire shape with the payload the ledger export consumes.
type StockMovedEvent cloudevents.StockMovedData

func (e *StockMovedEvent) EventType() string     { return cloudevents.PutawayStockMoved }
func (e *StockMovedEvent) OccurredAt() time.Time { return e.CreatedAt }

// Rule change kinds
const (
	RuleCreated = "created"
	RuleUpdated = "updated"
	RuleDeleted = "deleted"
)

// RuleChangedEvent is emitted on every rule create, update and delete
type RuleChangedEvent struct {
	RuleID    string    `json:"ruleId"`
	Name      string    `json:"name"`
	Change    string    `json:"change"`
	Priority  int       `json:"priority"`
	Active    bool      `json:"active"`
	ChangedAt time.Time `json:"changedAt"`
}

func (e *RuleChangedEvent) EventType() string     { return cloudevents.PutawayRuleChanged }
func (e *RuleChangedEvent) OccurredAt() time.Time { return e.ChangedAt }
