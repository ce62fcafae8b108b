package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/portfolio-optimizer/internal/models"
)

func TestNewTargetTable_RejectsInvalidWindows(t *testing.T) {
	cases := []struct {
		name   string
		total  int
		target AppearanceTarget
	}{
		{"rank below one", 10, AppearanceTarget{Position: "RB", Rank: 0, MinCount: 0, MaxCount: 1}},
		{"min above max", 10, AppearanceTarget{Position: "RB", Rank: 2, MinCount: 5, MaxCount: 3}},
		{"max above total", 10, AppearanceTarget{Position: "RB", Rank: 2, MinCount: 0, MaxCount: 11}},
		{"negative min", 10, AppearanceTarget{Position: "RB", Rank: 2, MinCount: -1, MaxCount: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTargetTable(tc.total, []AppearanceTarget{tc.target})
			assert.Error(t, err)
		})
	}
}

func TestNewTargetTable_RejectsDuplicatePairs(t *testing.T) {
	_, err := NewTargetTable(10, []AppearanceTarget{
		{Position: "RB", Rank: 2, MinCount: 1, MaxCount: 3},
		{Position: "RB", Rank: 2, MinCount: 0, MaxCount: 2},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewTargetTable_RejectsNonPositiveTotal(t *testing.T) {
	_, err := NewTargetTable(0, nil)
	assert.Error(t, err)
}

func TestTargetTable_LookupAndAbsentPairs(t *testing.T) {
	table := mustTargets(10, []AppearanceTarget{
		{Position: "RB", Rank: 1, MinCount: 4, MaxCount: 8},
		{Position: "RB", Rank: 3, MinCount: 1, MaxCount: 5},
	})

	target, ok := table.Lookup("RB", 1)
	require.True(t, ok)
	assert.Equal(t, 4, target.MinCount)
	assert.Equal(t, 8, target.MaxCount)

	// Pairs without a configured window carry no constraint.
	_, ok = table.Lookup("RB", 2)
	assert.False(t, ok)
	_, ok = table.Lookup("WR", 1)
	assert.False(t, ok)
}

func TestTargetTable_PositionTargetsAscendingRank(t *testing.T) {
	table := mustTargets(10, []AppearanceTarget{
		{Position: "WR", Rank: 3, MinCount: 1, MaxCount: 4},
		{Position: "WR", Rank: 1, MinCount: 3, MaxCount: 7},
		{Position: "WR", Rank: 2, MinCount: 2, MaxCount: 5},
	})

	targets := table.PositionTargets("WR")
	require.Len(t, targets, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{targets[0].Rank, targets[1].Rank, targets[2].Rank})
}

func TestTargetTable_PositionsCanonicalOrder(t *testing.T) {
	table := mustTargets(10, []AppearanceTarget{
		{Position: models.PositionTE, Rank: 1, MinCount: 0, MaxCount: 5},
		{Position: models.PositionQB, Rank: 1, MinCount: 0, MaxCount: 5},
		{Position: models.PositionRB, Rank: 1, MinCount: 0, MaxCount: 5},
	})

	assert.Equal(t, []string{models.PositionQB, models.PositionRB, models.PositionTE}, table.Positions())
}

func TestTargetTable_IsEmpty(t *testing.T) {
	empty := mustTargets(5, nil)
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, 5, empty.TotalLineups())

	assert.False(t, DefaultTargetTable().IsEmpty())
}

func TestDefaultTargetTable_Shape(t *testing.T) {
	table := DefaultTargetTable()
	assert.Equal(t, DefaultPortfolioSize, table.TotalLineups())

	for _, position := range models.PositionOrder {
		targets := table.PositionTargets(position)
		require.Len(t, targets, DefaultEliteCutoff-1, "position %s", position)

		for i, target := range targets {
			assert.Equal(t, i+1, target.Rank, "position %s", position)
			assert.GreaterOrEqual(t, target.MinCount, 0)
			assert.LessOrEqual(t, target.MinCount, target.MaxCount)
			assert.LessOrEqual(t, target.MaxCount, DefaultPortfolioSize)
		}

		// Rank 1 always carries a binding minimum.
		rank1, ok := table.Lookup(position, 1)
		require.True(t, ok)
		assert.Greater(t, rank1.MinCount, 0, "position %s", position)

		// No window at the cutoff rank: the walk starts below it.
		_, ok = table.Lookup(position, DefaultEliteCutoff)
		assert.False(t, ok, "position %s", position)
	}
}
