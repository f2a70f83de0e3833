package application

import "time"

// TaskDTO represents a put-away task in responses
type TaskDTO struct {
	ID                  string     `json:"id"`
	TaskNumber          string     `json:"taskNumber"`
	PalletID            string     `json:"palletId"`
	ProductID           string     `json:"productId"`
	OperatorID          string     `json:"operatorId"`
	SuggestedLocationID string     `json:"suggestedLocationId,omitempty"`
	ActualLocationID    string     `json:"actualLocationId,omitempty"`
	Status              string     `json:"status"`
	Priority            int        `json:"priority"`
	Quantity            int        `json:"quantity"`
	StartedAt           time.Time  `json:"startedAt"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`
	DurationMinutes     *int       `json:"durationMinutes,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	CancellationReason  string     `json:"cancellationReason,omitempty"`
}

// ClaimResultDTO is the claimed task plus the selector's suggestion, if any
type ClaimResultDTO struct {
	Task              TaskDTO      `json:"task"`
	SuggestedLocation *LocationDTO `json:"suggestedLocation,omitempty"`
}

// CompletionResultDTO is the completed task and its ledger entry
type CompletionResultDTO struct {
	Task     TaskDTO     `json:"task"`
	Movement MovementDTO `json:"movement"`
}

// PalletDTO represents a pallet in responses
type PalletDTO struct {
	ID                 string     `json:"id"`
	ProductID          string     `json:"productId"`
	Quantity           int        `json:"quantity"`
	Weight             *float64   `json:"weight,omitempty"`
	Status             string     `json:"status"`
	AssignedOperatorID string     `json:"assignedOperatorId,omitempty"`
	AssignedAt         *time.Time `json:"assignedAt,omitempty"`
	LocationID         string     `json:"locationId,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// LocationDTO represents a location in responses. The confirmation code is
// left out; only LocationCodeDTO carries it.
type LocationDTO struct {
	ID               string    `json:"id"`
	Code             string    `json:"code"`
	Type             string    `json:"type"`
	Capacity         *int      `json:"capacity,omitempty"`
	CurrentOccupancy int       `json:"currentOccupancy"`
	OccupancyStatus  string    `json:"occupancyStatus"`
	Active           bool      `json:"active"`
	MaxWeight        *float64  `json:"maxWeight,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// LocationCodeDTO is returned when a confirmation code is issued
type LocationCodeDTO struct {
	Location         LocationDTO `json:"location"`
	ConfirmationCode string      `json:"confirmationCode,omitempty"`
}

// RuleConditionDTO represents a rule condition
type RuleConditionDTO struct {
	Field    string  `json:"field"`
	Operator string  `json:"operator"`
	Value    float64 `json:"value"`
}

// RuleDTO represents a put-away rule in responses
type RuleDTO struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	Conditions    []RuleConditionDTO `json:"conditions"`
	LocationTypes []string           `json:"locationTypes"`
	Priority      int                `json:"priority"`
	Active        bool               `json:"active"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// MovementDTO represents a stock ledger entry
type MovementDTO struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	LocationID   string    `json:"locationId"`
	Quantity     int       `json:"quantity"`
	MovementType string    `json:"movementType"`
	TaskID       string    `json:"taskId"`
	OperatorID   string    `json:"operatorId"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MetricsDTO is the put-away floor summary
type MetricsDTO struct {
	TasksCompletedToday      int     `json:"tasksCompletedToday"`
	PendingPalletCount       int64   `json:"pendingPalletCount"`
	ActiveOperatorCount      int     `json:"activeOperatorCount"`
	AverageCompletionMinutes float64 `json:"averageCompletionMinutes"`
}
