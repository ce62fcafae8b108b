package optimizer

import (
	"fmt"
	"sort"

	"github.com/jstittsworth/portfolio-optimizer/internal/models"
)

// DefaultPortfolioSize is the batch size the shipped appearance targets are
// calibrated for.
const DefaultPortfolioSize = 10

// AppearanceTarget is the appearance window for one (position, rank) pair:
// the elite player at that rank must appear in at least MinCount and at most
// MaxCount of the portfolio's lineups.
type AppearanceTarget struct {
	Position string `json:"position"`
	Rank     int    `json:"rank"`
	MinCount int    `json:"min_count"`
	MaxCount int    `json:"max_count"`
}

// TargetTable is an immutable lookup of appearance targets, constructed once
// per request. (position, rank) pairs absent from the table generate no
// constraint. Rank-1 targets are permanently protected from relaxation.
type TargetTable struct {
	totalLineups int
	byPosition   map[string][]AppearanceTarget
}

// NewTargetTable builds a table from explicit targets, validating that every
// window satisfies 0 <= min <= max <= totalLineups and that no (position,
// rank) pair repeats.
func NewTargetTable(totalLineups int, targets []AppearanceTarget) (*TargetTable, error) {
	if totalLineups <= 0 {
		return nil, fmt.Errorf("total lineups must be positive, got %d", totalLineups)
	}

	byPosition := make(map[string][]AppearanceTarget)
	seen := make(map[string]bool)
	for _, target := range targets {
		if target.Rank < 1 {
			return nil, fmt.Errorf("target for %s has rank %d, ranks start at 1", target.Position, target.Rank)
		}
		if target.MinCount < 0 || target.MinCount > target.MaxCount || target.MaxCount > totalLineups {
			return nil, fmt.Errorf("target for %s rank %d violates 0 <= min(%d) <= max(%d) <= %d",
				target.Position, target.Rank, target.MinCount, target.MaxCount, totalLineups)
		}
		key := fmt.Sprintf("%s:%d", target.Position, target.Rank)
		if seen[key] {
			return nil, fmt.Errorf("duplicate target for %s rank %d", target.Position, target.Rank)
		}
		seen[key] = true
		byPosition[target.Position] = append(byPosition[target.Position], target)
	}

	for position := range byPosition {
		sort.Slice(byPosition[position], func(i, j int) bool {
			return byPosition[position][i].Rank < byPosition[position][j].Rank
		})
	}

	return &TargetTable{totalLineups: totalLineups, byPosition: byPosition}, nil
}

// TotalLineups returns the batch size the targets are calibrated for
func (t *TargetTable) TotalLineups() int {
	return t.totalLineups
}

// IsEmpty reports whether the table has no configured targets
func (t *TargetTable) IsEmpty() bool {
	return len(t.byPosition) == 0
}

// Lookup returns the target for a (position, rank) pair, if configured
func (t *TargetTable) Lookup(position string, rank int) (AppearanceTarget, bool) {
	for _, target := range t.byPosition[position] {
		if target.Rank == rank {
			return target, true
		}
	}
	return AppearanceTarget{}, false
}

// PositionTargets returns a position's configured targets in ascending rank
// order. The returned slice is a copy.
func (t *TargetTable) PositionTargets(position string) []AppearanceTarget {
	targets := t.byPosition[position]
	out := make([]AppearanceTarget, len(targets))
	copy(out, targets)
	return out
}

// Positions returns the positions with at least one configured target, in
// canonical position order.
func (t *TargetTable) Positions() []string {
	out := make([]string, 0, len(t.byPosition))
	for _, position := range models.PositionOrder {
		if len(t.byPosition[position]) > 0 {
			out = append(out, position)
		}
	}
	// Positions outside the canonical set, sorted for determinism
	extras := make([]string, 0)
	for position := range t.byPosition {
		if !models.IsValidPosition(position) {
			extras = append(extras, position)
		}
	}
	sort.Strings(extras)
	return append(out, extras...)
}

// defaultWindows maps rank to (min, max) per position for a 10-lineup batch.
// Ranks run 1..14: the relaxation walk starts one below the elite cutoff, so
// the cutoff rank itself carries no default window.
var defaultWindows = map[string][][2]int{
	models.PositionQB: {
		{3, 6}, {2, 5}, {1, 4}, {1, 3}, {0, 3}, {0, 2}, {0, 2},
		{0, 2}, {0, 2}, {0, 2}, {0, 1}, {0, 1}, {0, 1}, {0, 1},
	},
	models.PositionRB: {
		{4, 8}, {3, 7}, {3, 6}, {2, 5}, {2, 5}, {1, 4}, {1, 4},
		{1, 3}, {0, 3}, {0, 3}, {0, 2}, {0, 2}, {0, 1}, {0, 1},
	},
	models.PositionWR: {
		{4, 8}, {3, 7}, {3, 6}, {2, 6}, {2, 5}, {2, 5}, {1, 4},
		{1, 4}, {1, 3}, {0, 3}, {0, 2}, {0, 2}, {0, 1}, {0, 1},
	},
	models.PositionTE: {
		{3, 7}, {2, 5}, {1, 4}, {1, 3}, {0, 3}, {0, 2}, {0, 2},
		{0, 2}, {0, 1}, {0, 1}, {0, 1}, {0, 1}, {0, 1}, {0, 1},
	},
	models.PositionDST: {
		{2, 6}, {2, 5}, {1, 4}, {1, 3}, {0, 3}, {0, 2}, {0, 2},
		{0, 1}, {0, 1}, {0, 1}, {0, 1}, {0, 1}, {0, 1}, {0, 1},
	},
}

// DefaultTargetTable returns the shipped appearance targets for a 10-lineup
// portfolio.
func DefaultTargetTable() *TargetTable {
	targets := make([]AppearanceTarget, 0, len(defaultWindows)*14)
	for _, position := range models.PositionOrder {
		for i, window := range defaultWindows[position] {
			targets = append(targets, AppearanceTarget{
				Position: position,
				Rank:     i + 1,
				MinCount: window[0],
				MaxCount: window[1],
			})
		}
	}
	table, err := NewTargetTable(DefaultPortfolioSize, targets)
	if err != nil {
		panic(err)
	}
	return table
}
