package domain

import "time"

// MovementTypePutaway is the only movement this service writes
const MovementTypePutaway = "putaway"

// MovementStatusCompleted marks a movement that physically happened
const MovementStatusCompleted = "completed"

// StockMovement is an append-only ledger entry. Nothing updates or deletes it.
type StockMovement struct {
	ID           string    `bson:"_id" json:"id"`
	ProductID    string    `bson:"productId" json:"productId"`
	LocationID   string    `bson:"locationId" json:"locationId"`
	Quantity     int       `bson:"quantity" json:"quantity"`
	MovementType string    `bson:"movementType" json:"movementType"`
	TaskID       string    `bson:"taskId" json:"taskId"`
	OperatorID   string    `bson:"operatorId" json:"operatorId"`
	Status       string    `bson:"status" json:"status"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// NewPutawayMovement records the placement made by a completed task
func NewPutawayMovement(id string, task *PutAwayTask) *StockMovement {
	createdAt := task.UpdatedAt
	if task.CompletedAt != nil {
		createdAt = *task.CompletedAt
	}
	return &StockMovement{
		ID:           id,
		ProductID:    task.ProductID,
		LocationID:   task.ActualLocationID,
		Quantity:     task.Quantity,
		MovementType: MovementTypePutaway,
		TaskID:       task.ID,
		OperatorID:   task.OperatorID,
		Status:       MovementStatusCompleted,
		CreatedAt:    createdAt,
	}
}

// Event returns the ledger event for the movement
func (m *StockMovement) Event() *StockMovedEvent {
	return &StockMovedEvent{
		MovementID:   m.ID,
		ProductID:    m.ProductID,
		LocationID:   m.LocationID,
		Quantity:     m.Quantity,
		MovementType: m.MovementType,
		TaskID:       m.TaskID,
		OperatorID:   m.OperatorID,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
	}
}
