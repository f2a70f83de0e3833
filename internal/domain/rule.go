package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ConditionField is the pallet attribute a rule condition tests
type ConditionField string

const (
	FieldWeight   ConditionField = "weight"
	FieldQuantity ConditionField = "quantity"
)

// ConditionOperator compares a pallet attribute against a threshold
type ConditionOperator string

const (
	OpGreaterThan    ConditionOperator = "gt"
	OpGreaterOrEqual ConditionOperator = "gte"
	OpLessThan       ConditionOperator = "lt"
	OpLessOrEqual    ConditionOperator = "lte"
	OpEqual          ConditionOperator = "eq"
)

// RuleCondition is one threshold test, e.g. weight gt 500
type RuleCondition struct {
	Field    ConditionField    `bson:"field" json:"field" yaml:"field"`
	Operator ConditionOperator `bson:"operator" json:"operator" yaml:"operator"`
	Value    float64           `bson:"value" json:"value" yaml:"value"`
}

// Validate checks field and operator
func (c RuleCondition) Validate() error {
	switch c.Field {
	case FieldWeight, FieldQuantity:
	default:
		return fmt.Errorf("%w: unknown condition field %q", ErrInvalidRule, c.Field)
	}
	switch c.Operator {
	case OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual, OpEqual:
	default:
		return fmt.Errorf("%w: unknown condition operator %q", ErrInvalidRule, c.Operator)
	}
	return nil
}

// Holds evaluates the condition against a pallet. A weight condition never
// holds for a pallet of unknown weight.
func (c RuleCondition) Holds(p *Pallet) bool {
	var actual float64
	switch c.Field {
	case FieldWeight:
		if p.Weight == nil {
			return false
		}
		actual = *p.Weight
	case FieldQuantity:
		actual = float64(p.Quantity)
	default:
		return false
	}

	switch c.Operator {
	case OpGreaterThan:
		return actual > c.Value
	case OpGreaterOrEqual:
		return actual >= c.Value
	case OpLessThan:
		return actual < c.Value
	case OpLessOrEqual:
		return actual <= c.Value
	case OpEqual:
		return actual == c.Value
	default:
		return false
	}
}

// PutAwayRule restricts candidate locations for the pallets it matches.
// All conditions must hold for the rule to apply; a rule without conditions
// applies to every pallet.
type PutAwayRule struct {
	ID            string          `bson:"_id" json:"id"`
	Name          string          `bson:"name" json:"name"`
	Description   string          `bson:"description,omitempty" json:"description,omitempty"`
	Conditions    []RuleCondition `bson:"conditions" json:"conditions"`
	LocationTypes []LocationType  `bson:"locationTypes" json:"locationTypes"`
	Priority      int             `bson:"priority" json:"priority"`
	Active        bool            `bson:"active" json:"active"`
	CreatedAt     time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// NewPutAwayRule creates and validates a rule
func NewPutAwayRule(id, name, description string, conditions []RuleCondition, locationTypes []LocationType, priority int, active bool) (*PutAwayRule, error) {
	now := time.Now().UTC()
	rule := &PutAwayRule{
		ID:            id,
		Name:          strings.TrimSpace(name),
		Description:   description,
		Conditions:    conditions,
		LocationTypes: locationTypes,
		Priority:      priority,
		Active:        active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return rule, nil
}

// Validate checks the rule is usable by the evaluator
func (r *PutAwayRule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRule)
	}
	if r.Priority < 0 {
		return fmt.Errorf("%w: priority must not be negative", ErrInvalidRule)
	}
	if len(r.LocationTypes) == 0 {
		return fmt.Errorf("%w: at least one location type is required", ErrInvalidRule)
	}
	for _, t := range r.LocationTypes {
		if !t.IsValid() {
			return fmt.Errorf("%w: unknown location type %q", ErrInvalidRule, t)
		}
	}
	for _, c := range r.Conditions {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AppliesTo reports whether every condition holds for the pallet
func (r *PutAwayRule) AppliesTo(p *Pallet) bool {
	for _, c := range r.Conditions {
		if !c.Holds(p) {
			return false
		}
	}
	return true
}

// Admits reports whether the location satisfies the rule's type preference
func (r *PutAwayRule) Admits(l *Location) bool {
	for _, t := range r.LocationTypes {
		if l.Type == t {
			return true
		}
	}
	return false
}

// SortRules orders rules by priority, lower first, then by name and id
func SortRules(rules []*PutAwayRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority < rules[j].Priority
		}
		if rules[i].Name != rules[j].Name {
			return rules[i].Name < rules[j].Name
		}
		return rules[i].ID < rules[j].ID
	})
}
