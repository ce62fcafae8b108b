package optimizer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/portfolio-optimizer/internal/models"
	"github.com/jstittsworth/portfolio-optimizer/internal/solver"
)

func TestGeneratePortfolio_EndToEnd(t *testing.T) {
	players := []models.Player{
		testPlayer(1, models.PositionQB, 6000, 22),
		testPlayer(2, models.PositionQB, 5500, 19),
		testPlayer(3, models.PositionRB, 7000, 18),
		testPlayer(4, models.PositionRB, 6500, 16),
	}
	config := testConfig(twoSlotTemplate(), 2, 20000, 0)
	config.Targets = mustTargets(2, []AppearanceTarget{
		{Position: models.PositionQB, Rank: 1, MinCount: 1, MaxCount: 2},
	})

	portfolio, err := New(solver.Options{}).GeneratePortfolio(players, config)
	require.NoError(t, err)
	require.Len(t, portfolio.Lineups, 2)

	for _, lineup := range portfolio.Lineups {
		require.Len(t, lineup.Slots, 2)
		assert.LessOrEqual(t, lineup.TotalSalary, 20000)
	}
	assert.Empty(t, portfolio.RelaxationLog)
	assert.False(t, portfolio.UsedFallback)

	require.NotNil(t, portfolio.Report)
	require.Len(t, portfolio.Report.Entries, 1)
	assert.GreaterOrEqual(t, portfolio.Report.Entries[0].Appearances, 1)
}

func TestGeneratePortfolio_Idempotent(t *testing.T) {
	players := []models.Player{
		testPlayer(1, models.PositionQB, 6000, 22),
		testPlayer(2, models.PositionQB, 5500, 19),
		testPlayer(3, models.PositionRB, 7000, 18),
		testPlayer(4, models.PositionRB, 6500, 16),
	}
	config := testConfig(twoSlotTemplate(), 2, 20000, 0)
	config.Targets = mustTargets(2, []AppearanceTarget{
		{Position: models.PositionQB, Rank: 1, MinCount: 1, MaxCount: 2},
	})

	opt := New(solver.Options{})
	first, err := opt.GeneratePortfolio(players, config)
	require.NoError(t, err)
	second, err := opt.GeneratePortfolio(players, config)
	require.NoError(t, err)

	require.Len(t, second.Lineups, len(first.Lineups))
	for k := range first.Lineups {
		a, b := first.Lineups[k], second.Lineups[k]
		assert.Equal(t, a.TotalScore, b.TotalScore)
		assert.Equal(t, a.TotalSalary, b.TotalSalary)
		require.Len(t, b.Slots, len(a.Slots))
		for i := range a.Slots {
			assert.Equal(t, a.Slots[i].Player.ID, b.Slots[i].Player.ID)
		}
	}
}

func TestGeneratePortfolio_ClassicTemplate(t *testing.T) {
	players := make([]models.Player, 0, 13)
	n := 1
	add := func(position string, count int) {
		for i := 0; i < count; i++ {
			players = append(players, testPlayer(n, position, 5000, float64(30-n)))
			n++
		}
	}
	add(models.PositionQB, 2)
	add(models.PositionRB, 3)
	add(models.PositionWR, 4)
	add(models.PositionTE, 2)
	add(models.PositionDST, 2)

	config := DefaultOptimizeConfig()
	config.LineupCount = 1
	config.SalaryFloor = 40000
	config.Targets = mustTargets(1, nil)

	portfolio, err := New(solver.Options{}).GeneratePortfolio(players, config)
	require.NoError(t, err)
	require.Len(t, portfolio.Lineups, 1)

	lineup := portfolio.Lineups[0]
	require.Len(t, lineup.Slots, 9)
	assert.Equal(t, 45000, lineup.TotalSalary)

	counts := make(map[string]int)
	for _, slot := range lineup.Slots {
		counts[slot.SlotName]++
	}
	assert.Equal(t, 1, counts["QB"])
	assert.Equal(t, 2, counts["RB"])
	assert.Equal(t, 3, counts["WR"])
	assert.Equal(t, 1, counts["TE"])
	assert.Equal(t, 1, counts[models.SlotFlex])
	assert.Equal(t, 1, counts["DST"])
}

func TestGeneratePortfolio_RejectsBadPercentile(t *testing.T) {
	config := testConfig(twoSlotTemplate(), 1, 20000, 0)
	config.Targets = mustTargets(1, nil)
	config.ScorePercentileCutoff = 100

	_, err := New(solver.Options{}).GeneratePortfolio([]models.Player{
		testPlayer(1, models.PositionQB, 5000, 10),
	}, config)
	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "score_percentile_cutoff", configErr.Field)
}

func TestGeneratePortfolio_RejectsTargetCountMismatch(t *testing.T) {
	config := testConfig(twoSlotTemplate(), 3, 20000, 0)
	config.Targets = mustTargets(2, []AppearanceTarget{
		{Position: models.PositionQB, Rank: 1, MinCount: 0, MaxCount: 1},
	})

	_, err := New(solver.Options{}).GeneratePortfolio([]models.Player{
		testPlayer(1, models.PositionQB, 5000, 10),
	}, config)
	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "lineup_count", configErr.Field)
	assert.Contains(t, configErr.Reason, "calibrated for 2")
}

func TestGeneratePortfolio_EmptyPoolAfterFilters(t *testing.T) {
	chalk := testPlayer(1, models.PositionRB, 5000, 10)
	chalk.Ownership = 80

	config := testConfig(singleSlotTemplate(models.PositionRB), 1, 10000, 0)
	config.Targets = mustTargets(1, nil)
	config.MaxOwnership = 20

	_, err := New(solver.Options{}).GeneratePortfolio([]models.Player{chalk}, config)
	var baselineErr *BaselineInfeasibleError
	require.ErrorAs(t, err, &baselineErr)
	assert.Contains(t, baselineErr.Reason, "after pool filters")
}

func TestGeneratePortfolio_DefaultTargetsRequireMatchingCount(t *testing.T) {
	_, err := New(solver.Options{}).GeneratePortfolio([]models.Player{
		testPlayer(1, models.PositionQB, 5000, 10),
	}, OptimizeConfig{
		LineupCount: 3,
		SalaryCap:   50000,
		SalaryFloor: 0,
		Template:    twoSlotTemplate(),
	})
	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Contains(t, configErr.Reason, "calibrated for 10")
}

func TestGeneratePortfolio_ReportTracksExposure(t *testing.T) {
	players := []models.Player{
		testPlayer(1, models.PositionRB, 5000, 30),
		testPlayer(2, models.PositionRB, 5000, 20),
	}
	config := testConfig(singleSlotTemplate(models.PositionRB), 2, 10000, 0)
	config.Targets = mustTargets(2, []AppearanceTarget{
		{Position: models.PositionRB, Rank: 1, MinCount: 1, MaxCount: 1},
	})

	portfolio, err := New(solver.Options{}).GeneratePortfolio(players, config)
	require.NoError(t, err)

	exposure := make(map[uuid.UUID]int)
	for _, lineup := range portfolio.Lineups {
		for _, slot := range lineup.Slots {
			exposure[slot.Player.ID]++
		}
	}
	assert.Equal(t, exposure, portfolio.Report.PlayerExposure)
	require.Len(t, portfolio.Report.Entries, 1)
	assert.Equal(t, 1, portfolio.Report.Entries[0].Appearances)
}
