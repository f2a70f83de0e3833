package domain

// RuleEvaluator narrows candidate locations for a pallet
type RuleEvaluator struct{}

// NewRuleEvaluator creates a RuleEvaluator
func NewRuleEvaluator() *RuleEvaluator {
	return &RuleEvaluator{}
}

// Evaluate drops locations whose max_weight is below the pallet weight, then
// applies each active rule matching the pallet as a cumulative filter in
// priority order. Rules are advisory: if nothing survives, the unfiltered
// candidates are returned.
func (e *RuleEvaluator) Evaluate(candidates []*Location, pallet *Pallet, rules []*PutAwayRule) []*Location {
	if len(candidates) == 0 {
		return candidates
	}

	filtered := make([]*Location, 0, len(candidates))
	for _, loc := range candidates {
		if loc.AcceptsWeight(pallet.Weight) {
			filtered = append(filtered, loc)
		}
	}

	ordered := make([]*PutAwayRule, 0, len(rules))
	for _, r := range rules {
		if r.Active {
			ordered = append(ordered, r)
		}
	}
	SortRules(ordered)

	for _, rule := range ordered {
		if len(filtered) == 0 {
			break
		}
		if !rule.AppliesTo(pallet) {
			continue
		}
		kept := filtered[:0:0]
		for _, loc := range filtered {
			if rule.Admits(loc) {
				kept = append(kept, loc)
			}
		}
		filtered = kept
	}

	if len(filtered) == 0 {
		return candidates
	}
	return filtered
}
