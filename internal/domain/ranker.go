package domain

import (
	"fmt"
	"sort"
)

// Ranker orders filtered candidates; the selector proposes the first one.
// Implementations must be deterministic for a given input.
type Ranker interface {
	Name() string
	Rank(candidates []*Location, pallet *Pallet) []*Location
}

// Ranking strategy names
const (
	RankByCode          = "code"
	RankByLeastOccupied = "least_occupied"
)

// NewRanker returns the ranker registered under name
func NewRanker(name string) (Ranker, error) {
	switch name {
	case "", RankByCode:
		return CodeRanker{}, nil
	case RankByLeastOccupied:
		return LeastOccupiedRanker{}, nil
	default:
		return nil, fmt.Errorf("unknown ranking strategy %q", name)
	}
}

// CodeRanker sorts by location code ascending
type CodeRanker struct{}

// Name returns the strategy name
func (CodeRanker) Name() string { return RankByCode }

// Rank returns a sorted copy of candidates
func (CodeRanker) Rank(candidates []*Location, _ *Pallet) []*Location {
	ranked := append([]*Location(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Code < ranked[j].Code
	})
	return ranked
}

// LeastOccupiedRanker spreads load by preferring the emptiest location
type LeastOccupiedRanker struct{}

// Name returns the strategy name
func (LeastOccupiedRanker) Name() string { return RankByLeastOccupied }

// Rank sorts by fill ratio, then by code
func (LeastOccupiedRanker) Rank(candidates []*Location, _ *Pallet) []*Location {
	ranked := append([]*Location(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := ranked[i].FillRatio(), ranked[j].FillRatio()
		if ri != rj {
			return ri < rj
		}
		return ranked[i].Code < ranked[j].Code
	})
	return ranked
}
