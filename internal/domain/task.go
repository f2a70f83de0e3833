package domain

import (
	"time"
)

// TaskStatus represents the status of a put-away task
type TaskStatus string

const (
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the task can no longer change
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// CanTransitionTo checks if the status can transition to another status
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	validTransitions := map[TaskStatus][]TaskStatus{
		TaskStatusInProgress: {TaskStatusCompleted, TaskStatusCancelled},
		TaskStatusCompleted:  {},
		TaskStatusCancelled:  {},
	}

	for _, allowed := range validTransitions[s] {
		if target == allowed {
			return true
		}
	}
	return false
}

// DefaultTaskPriority is used when a claim does not carry one
const DefaultTaskPriority = 3

// PutAwayTask binds one pallet to one operator. It is created in_progress
// together with the claim and terminated exactly once.
type PutAwayTask struct {
	ID                  string        `bson:"_id" json:"id"`
	TaskNumber          string        `bson:"taskNumber" json:"taskNumber"`
	PalletID            string        `bson:"palletId" json:"palletId"`
	ProductID           string        `bson:"productId" json:"productId"`
	OperatorID          string        `bson:"operatorId" json:"operatorId"`
	SuggestedLocationID string        `bson:"suggestedLocationId,omitempty" json:"suggestedLocationId,omitempty"`
	ActualLocationID    string        `bson:"actualLocationId,omitempty" json:"actualLocationId,omitempty"`
	Status              TaskStatus    `bson:"status" json:"status"`
	Priority            int           `bson:"priority" json:"priority"`
	Quantity            int           `bson:"quantity" json:"quantity"`
	StartedAt           time.Time     `bson:"startedAt" json:"startedAt"`
	CompletedAt         *time.Time    `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	DurationMinutes     *int          `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	Notes               string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CancellationReason  string        `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CreatedAt           time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time     `bson:"updatedAt" json:"updatedAt"`
	DomainEvents        []DomainEvent `bson:"-" json:"-"`
}

// NewPutAwayTask creates an in-progress task for a freshly claimed pallet.
// suggestedLocationID may be empty when no location was available.
func NewPutAwayTask(id, taskNumber string, pallet *Pallet, operatorID, suggestedLocationID string, priority int, notes string, startedAt time.Time) *PutAwayTask {
	if priority <= 0 {
		priority = DefaultTaskPriority
	}

	task := &PutAwayTask{
		ID:                  id,
		TaskNumber:          taskNumber,
		PalletID:            pallet.ID,
		ProductID:           pallet.ProductID,
		OperatorID:          operatorID,
		SuggestedLocationID: suggestedLocationID,
		Status:              TaskStatusInProgress,
		Priority:            priority,
		Quantity:            pallet.Quantity,
		StartedAt:           startedAt,
		Notes:               notes,
		CreatedAt:           startedAt,
		UpdatedAt:           startedAt,
		DomainEvents:        make([]DomainEvent, 0),
	}

	task.addDomainEvent(&TaskClaimedEvent{
		TaskID:              id,
		TaskNumber:          taskNumber,
		PalletID:            pallet.ID,
		OperatorID:          operatorID,
		SuggestedLocationID: suggestedLocationID,
		ClaimedAt:           startedAt,
	})

	return task
}

// Complete finalizes the task at locationID. Duration is floored to whole minutes.
func (t *PutAwayTask) Complete(locationID string, at time.Time) error {
	if !t.Status.CanTransitionTo(TaskStatusCompleted) {
		return ErrTaskNotInProgress
	}

	minutes := int(at.Sub(t.StartedAt) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}

	t.Status = TaskStatusCompleted
	t.ActualLocationID = locationID
	t.CompletedAt = &at
	t.DurationMinutes = &minutes
	t.UpdatedAt = at

	t.addDomainEvent(&TaskCompletedEvent{
		TaskID:              t.ID,
		TaskNumber:          t.TaskNumber,
		PalletID:            t.PalletID,
		OperatorID:          t.OperatorID,
		SuggestedLocationID: t.SuggestedLocationID,
		ActualLocationID:    locationID,
		DurationMinutes:     minutes,
		CompletedAt:         at,
	})

	return nil
}

// Cancel terminates the task without a placement
func (t *PutAwayTask) Cancel(reason string, at time.Time) error {
	if !t.Status.CanTransitionTo(TaskStatusCancelled) {
		return ErrTaskNotInProgress
	}

	t.Status = TaskStatusCancelled
	t.CancellationReason = reason
	t.CompletedAt = &at
	t.UpdatedAt = at

	t.addDomainEvent(&TaskCancelledEvent{
		TaskID:      t.ID,
		TaskNumber:  t.TaskNumber,
		PalletID:    t.PalletID,
		OperatorID:  t.OperatorID,
		Reason:      reason,
		CancelledAt: at,
	})

	return nil
}

// FollowedSuggestion reports whether the pallet went where the selector proposed
func (t *PutAwayTask) FollowedSuggestion() bool {
	return t.SuggestedLocationID != "" && t.SuggestedLocationID == t.ActualLocationID
}

func (t *PutAwayTask) addDomainEvent(event DomainEvent) {
	t.DomainEvents = append(t.DomainEvents, event)
}

// GetDomainEvents returns all domain events
func (t *PutAwayTask) GetDomainEvents() []DomainEvent {
	return t.DomainEvents
}

// ClearDomainEvents clears all domain events
func (t *PutAwayTask) ClearDomainEvents() {
	t.DomainEvents = make([]DomainEvent, 0)
}
