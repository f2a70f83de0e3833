package application

import "github.com/wms-platform/putaway-service/internal/domain"

// ClaimTaskCommand claims a waiting pallet for an operator
type ClaimTaskCommand struct {
	PalletID   string
	OperatorID string
	Priority   int
	Notes      string
}

// CompleteTaskCommand confirms placement of the task's pallet
type CompleteTaskCommand struct {
	TaskID           string
	LocationID       string
	ConfirmationCode string
}

// CancelTaskCommand abandons an in-progress task
type CancelTaskCommand struct {
	TaskID string
	Reason string
}

// GetTaskQuery retrieves a task by ID
type GetTaskQuery struct {
	TaskID string
}

// ListTasksQuery lists tasks
type ListTasksQuery struct {
	Status     string
	OperatorID string
	PalletID   string
	Page       domain.Pagination
}

// SuggestLocationQuery runs the selector without claiming
type SuggestLocationQuery struct {
	PalletID string
}

// RuleConditionInput is one condition of a rule command
type RuleConditionInput struct {
	Field    string  `json:"field" yaml:"field"`
	Operator string  `json:"operator" yaml:"operator"`
	Value    float64 `json:"value" yaml:"value"`
}

// CreateRuleCommand creates a put-away rule
type CreateRuleCommand struct {
	Name          string               `yaml:"name"`
	Description   string               `yaml:"description"`
	Conditions    []RuleConditionInput `yaml:"conditions"`
	LocationTypes []string             `yaml:"locationTypes"`
	Priority      int                  `yaml:"priority"`
	Active        *bool                `yaml:"active"`
}

// UpdateRuleCommand replaces a put-away rule
type UpdateRuleCommand struct {
	RuleID        string
	Name          string
	Description   string
	Conditions    []RuleConditionInput
	LocationTypes []string
	Priority      int
	Active        bool
}

// RegisterPalletCommand announces an inbound pallet
type RegisterPalletCommand struct {
	PalletID  string
	ProductID string
	Quantity  int
	Weight    *float64
}

// ListPalletsQuery lists pallets
type ListPalletsQuery struct {
	Status string
	Page   domain.Pagination
}

// RegisterLocationCommand configures a storage slot
type RegisterLocationCommand struct {
	Code      string
	Type      string
	Capacity  *int
	MaxWeight *float64
}

// SetLocationActiveCommand activates or deactivates a location
type SetLocationActiveCommand struct {
	LocationID string
	Active     bool
}

// ListLocationsQuery lists locations
type ListLocationsQuery struct {
	Type   string
	Active *bool
	Page   domain.Pagination
}

// ListMovementsQuery reads the stock ledger
type ListMovementsQuery struct {
	TaskID     string
	LocationID string
	Page       domain.Pagination
}
