package memory

import (
	"context"

	"github.com/wms-platform/putaway-service/internal/domain"
)

// RuleRepository implements domain.RuleRepository
type RuleRepository struct {
	s *Store
}

func copyRule(r *domain.PutAwayRule) *domain.PutAwayRule {
	cp := *r
	cp.Conditions = append([]domain.RuleCondition(nil), r.Conditions...)
	cp.LocationTypes = append([]domain.LocationType(nil), r.LocationTypes...)
	return &cp
}

// Create inserts a rule
func (r *RuleRepository) Create(ctx context.Context, rule *domain.PutAwayRule) error {
	defer r.s.lock(ctx)()
	r.s.rules[rule.ID] = copyRule(rule)
	return nil
}

// Update replaces an existing rule
func (r *RuleRepository) Update(ctx context.Context, rule *domain.PutAwayRule) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.rules[rule.ID]; !ok {
		return domain.ErrRuleNotFound
	}
	r.s.rules[rule.ID] = copyRule(rule)
	return nil
}

// Delete removes a rule
func (r *RuleRepository) Delete(ctx context.Context, ruleID string) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.rules[ruleID]; !ok {
		return domain.ErrRuleNotFound
	}
	delete(r.s.rules, ruleID)
	return nil
}

// FindByID retrieves a rule
func (r *RuleRepository) FindByID(ctx context.Context, ruleID string) (*domain.PutAwayRule, error) {
	defer r.s.lock(ctx)()
	rule, ok := r.s.rules[ruleID]
	if !ok {
		return nil, domain.ErrRuleNotFound
	}
	return copyRule(rule), nil
}

// List returns rules in evaluation order
func (r *RuleRepository) List(ctx context.Context, activeOnly bool) ([]*domain.PutAwayRule, error) {
	defer r.s.lock(ctx)()
	out := make([]*domain.PutAwayRule, 0, len(r.s.rules))
	for _, rule := range r.s.rules {
		if activeOnly && !rule.Active {
			continue
		}
		out = append(out, copyRule(rule))
	}
	domain.SortRules(out)
	return out, nil
}

// ListActive implements domain.RuleSource
func (r *RuleRepository) ListActive(ctx context.Context) ([]*domain.PutAwayRule, error) {
	return r.List(ctx, true)
}

// Count returns the number of rules
func (r *RuleRepository) Count(ctx context.Context) (int64, error) {
	defer r.s.lock(ctx)()
	return int64(len(r.s.rules)), nil
}
