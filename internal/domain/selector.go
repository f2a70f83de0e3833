package domain

import (
	"context"
	"fmt"
)

// CandidateSource lists locations that are active and available
type CandidateSource interface {
	FindCandidates(ctx context.Context) ([]*Location, error)
}

// RuleSource lists active rules
type RuleSource interface {
	ListActive(ctx context.Context) ([]*PutAwayRule, error)
}

// LocationSelector proposes one storage location for a pallet
type LocationSelector struct {
	locations CandidateSource
	rules     RuleSource
	evaluator *RuleEvaluator
	ranker    Ranker
}

// NewLocationSelector creates a selector; a nil ranker ranks by code
func NewLocationSelector(locations CandidateSource, rules RuleSource, ranker Ranker) *LocationSelector {
	if ranker == nil {
		ranker = CodeRanker{}
	}
	return &LocationSelector{
		locations: locations,
		rules:     rules,
		evaluator: NewRuleEvaluator(),
		ranker:    ranker,
	}
}

// Ranker returns the configured ranking strategy
func (s *LocationSelector) Ranker() Ranker {
	return s.ranker
}

// Select returns the suggested location or ErrNoLocationAvailable
func (s *LocationSelector) Select(ctx context.Context, pallet *Pallet) (*Location, error) {
	found, err := s.locations.FindCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("find candidate locations: %w", err)
	}

	// occupied or inactive locations are never proposed, whatever the store returns
	candidates := make([]*Location, 0, len(found))
	for _, loc := range found {
		if loc.IsCandidate() {
			candidates = append(candidates, loc)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoLocationAvailable
	}

	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active rules: %w", err)
	}

	ranked := s.ranker.Rank(s.evaluator.Evaluate(candidates, pallet, rules), pallet)
	if len(ranked) == 0 {
		return nil, ErrNoLocationAvailable
	}
	return ranked[0], nil
}
