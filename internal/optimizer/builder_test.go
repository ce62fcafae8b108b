package optimizer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/portfolio-optimizer/internal/models"
	"github.com/jstittsworth/portfolio-optimizer/internal/solver"
)

func solvePortfolio(t *testing.T, pm *PortfolioModel, salaryFloor, salaryCap int) []*models.Lineup {
	t.Helper()
	sol, err := solver.New(solver.Options{}).Solve(pm.Model)
	require.NoError(t, err)
	require.Equal(t, solver.StatusOptimal, sol.Status)
	lineups, err := ExtractLineups(pm, sol, salaryFloor, salaryCap)
	require.NoError(t, err)
	return lineups
}

func TestBuildPortfolio_ModelShape(t *testing.T) {
	players := []models.Player{
		testPlayer(1, models.PositionQB, 6000, 20),
		testPlayer(2, models.PositionQB, 5000, 18),
		testPlayer(3, models.PositionRB, 7000, 17),
		testPlayer(4, models.PositionRB, 6500, 15),
	}
	config := testConfig(twoSlotTemplate(), 2, 20000, 0)
	targets := mustTargets(2, []AppearanceTarget{
		{Position: models.PositionQB, Rank: 1, MinCount: 0, MaxCount: 2},
	})
	builder := NewModelBuilder(config, targets, IdentifyElites(players, config.EliteCutoff))

	pm, err := builder.BuildPortfolio(players, 2)
	require.NoError(t, err)

	// One variable per (player, lineup, fillable slot), one cell per slot.
	assert.Equal(t, 8, pm.Model.NumVariables())
	assert.Equal(t, 4, pm.Model.NumCells())

	for k := 0; k < 2; k++ {
		assert.True(t, pm.Model.HasConstraint(fmt.Sprintf("salary:k%d", k)))
		assert.True(t, pm.Model.HasConstraint(fmt.Sprintf("position:k%d:QB", k)))
		assert.True(t, pm.Model.HasConstraint(fmt.Sprintf("position:k%d:RB", k)))
	}
	assert.True(t, pm.Model.HasConstraint(EliteConstraintID(models.PositionQB, 1)))
	assert.False(t, pm.Model.HasConstraint(EliteConstraintID(models.PositionQB, 2)))
}

func TestBuildPortfolio_SkipsTargetsWithoutRankedPlayer(t *testing.T) {
	players := []models.Player{
		testPlayer(1, models.PositionQB, 6000, 20),
		testPlayer(2, models.PositionRB, 7000, 17),
	}
	config := testConfig(twoSlotTemplate(), 1, 20000, 0)
	targets := mustTargets(1, []AppearanceTarget{
		{Position: models.PositionQB, Rank: 1, MinCount: 0, MaxCount: 1},
		{Position: models.PositionQB, Rank: 5, MinCount: 0, MaxCount: 1},
	})
	builder := NewModelBuilder(config, targets, IdentifyElites(players, config.EliteCutoff))

	pm, err := builder.BuildPortfolio(players, 1)
	require.NoError(t, err)

	assert.True(t, pm.Model.HasConstraint(EliteConstraintID(models.PositionQB, 1)))
	assert.False(t, pm.Model.HasConstraint(EliteConstraintID(models.PositionQB, 5)))
}

func TestBuildLineups_FloorMustBeBelowCap(t *testing.T) {
	players := []models.Player{testPlayer(1, models.PositionRB, 5000, 10)}
	config := testConfig(singleSlotTemplate(models.PositionRB), 1, 10000, 10000)
	builder := NewModelBuilder(config, mustTargets(1, nil), nil)

	_, err := builder.BuildPortfolio(players, 1)
	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "salary_floor", configErr.Field)
}

func TestBuildSingle_UniquenessForcesDifferentLineup(t *testing.T) {
	players := []models.Player{
		testPlayer(1, models.PositionQB, 6000, 20),
		testPlayer(2, models.PositionQB, 5000, 18),
		testPlayer(3, models.PositionRB, 7000, 17),
		testPlayer(4, models.PositionRB, 6500, 15),
	}
	config := testConfig(twoSlotTemplate(), 1, 20000, 0)
	builder := NewModelBuilder(config, mustTargets(1, nil), nil)

	pm, err := builder.BuildSingle(players, nil)
	require.NoError(t, err)
	first := solvePortfolio(t, pm, 0, 20000)[0]
	assert.True(t, first.HasPlayer(testPlayerID(1)))
	assert.True(t, first.HasPlayer(testPlayerID(3)))

	pm, err = builder.BuildSingle(players, []*models.Lineup{first})
	require.NoError(t, err)
	assert.True(t, pm.Model.HasConstraint("uniqueness:prev0"))
	second := solvePortfolio(t, pm, 0, 20000)[0]

	assert.Less(t, first.SharedPlayerCount(second), 2, "second lineup must differ in at least one player")
}

func TestSalaryBonus_BreaksTiesTowardHigherSalary(t *testing.T) {
	players := []models.Player{
		testPlayer(1, models.PositionRB, 4000, 10),
		testPlayer(2, models.PositionRB, 5000, 10),
	}
	config := testConfig(singleSlotTemplate(models.PositionRB), 1, 10000, 0)
	builder := NewModelBuilder(config, mustTargets(1, nil), nil)

	pm, err := builder.BuildSingle(players, nil)
	require.NoError(t, err)
	lineup := solvePortfolio(t, pm, 0, 10000)[0]

	assert.True(t, lineup.HasPlayer(testPlayerID(2)), "equal scores resolve toward the higher salary")
}

func TestSalaryBonus_NeverOutweighsScore(t *testing.T) {
	players := []models.Player{
		testPlayer(1, models.PositionRB, 1000, 10.0),
		testPlayer(2, models.PositionRB, 10000, 9.99),
	}
	config := testConfig(singleSlotTemplate(models.PositionRB), 1, 20000, 0)
	builder := NewModelBuilder(config, mustTargets(1, nil), nil)

	pm, err := builder.BuildSingle(players, nil)
	require.NoError(t, err)
	lineup := solvePortfolio(t, pm, 0, 20000)[0]

	assert.True(t, lineup.HasPlayer(testPlayerID(1)), "a real score edge beats any salary bonus")
}

func TestStacking_QuarterbackRequiresSameTeamReceiver(t *testing.T) {
	strayQB := testPlayer(1, models.PositionQB, 6000, 30)
	strayQB.Team = "KC"
	stackQB := testPlayer(2, models.PositionQB, 6000, 20)
	stackQB.Team = "BUF"
	stackWR := testPlayer(3, models.PositionWR, 5000, 5)
	stackWR.Team = "BUF"
	otherWR := testPlayer(4, models.PositionWR, 5000, 15)
	otherWR.Team = "DAL"

	template := models.RosterTemplate{
		Name: "qbwr",
		Slots: []models.RosterSlot{
			{SlotName: "QB", AllowedPositions: []string{models.PositionQB}, Priority: 1, IsRequired: true},
			{SlotName: "WR", AllowedPositions: []string{models.PositionWR}, Priority: 2, IsRequired: true},
		},
	}
	config := testConfig(template, 1, 20000, 0)
	config.EnableStacking = true
	builder := NewModelBuilder(config, mustTargets(1, nil), nil)

	pm, err := builder.BuildSingle([]models.Player{strayQB, stackQB, stackWR, otherWR}, nil)
	require.NoError(t, err)
	assert.True(t, pm.Model.HasConstraint("stacking:k0:"+strayQB.ID.String()))
	assert.True(t, pm.Model.HasConstraint("stacking:k0:"+stackQB.ID.String()))

	// The highest-scoring pairing uses the KC quarterback, but KC has no
	// receiver in the pool, so the stack rule forces the BUF pairing.
	lineup := solvePortfolio(t, pm, 0, 20000)[0]
	assert.True(t, lineup.HasPlayer(stackQB.ID))
	assert.True(t, lineup.HasPlayer(stackWR.ID))
}

func TestStacking_DisabledAllowsAnyQuarterback(t *testing.T) {
	strayQB := testPlayer(1, models.PositionQB, 6000, 30)
	strayQB.Team = "KC"
	otherWR := testPlayer(2, models.PositionWR, 5000, 15)
	otherWR.Team = "DAL"

	template := models.RosterTemplate{
		Name: "qbwr",
		Slots: []models.RosterSlot{
			{SlotName: "QB", AllowedPositions: []string{models.PositionQB}, Priority: 1, IsRequired: true},
			{SlotName: "WR", AllowedPositions: []string{models.PositionWR}, Priority: 2, IsRequired: true},
		},
	}
	config := testConfig(template, 1, 20000, 0)
	builder := NewModelBuilder(config, mustTargets(1, nil), nil)

	pm, err := builder.BuildSingle([]models.Player{strayQB, otherWR}, nil)
	require.NoError(t, err)
	assert.False(t, pm.Model.HasConstraint("stacking:k0:"+strayQB.ID.String()))

	lineup := solvePortfolio(t, pm, 0, 20000)[0]
	assert.True(t, lineup.HasPlayer(strayQB.ID))
}

func TestTeamCap_LimitsPlayersPerTeam(t *testing.T) {
	qb := testPlayer(1, models.PositionQB, 5000, 20)
	qb.Team = "BUF"
	rbSame := testPlayer(2, models.PositionRB, 5000, 18)
	rbSame.Team = "BUF"
	rbOther := testPlayer(3, models.PositionRB, 5000, 10)
	rbOther.Team = "NYJ"

	config := testConfig(twoSlotTemplate(), 1, 20000, 0)
	config.MaxPerTeam = 1
	builder := NewModelBuilder(config, mustTargets(1, nil), nil)

	pm, err := builder.BuildSingle([]models.Player{qb, rbSame, rbOther}, nil)
	require.NoError(t, err)
	lineup := solvePortfolio(t, pm, 0, 20000)[0]

	assert.True(t, lineup.HasPlayer(qb.ID))
	assert.True(t, lineup.HasPlayer(rbOther.ID), "team cap forces the lower-scoring RB from another team")
}

func TestGameCap_LimitsPlayersPerGame(t *testing.T) {
	qb := testPlayer(1, models.PositionQB, 5000, 20)
	qb.Team, qb.Opponent = "BUF", "MIA"
	rbSameGame := testPlayer(2, models.PositionRB, 5000, 18)
	rbSameGame.Team, rbSameGame.Opponent = "MIA", "BUF"
	rbOther := testPlayer(3, models.PositionRB, 5000, 10)
	rbOther.Team, rbOther.Opponent = "KC", "DEN"

	config := testConfig(twoSlotTemplate(), 1, 20000, 0)
	config.MaxPerGame = 1
	builder := NewModelBuilder(config, mustTargets(1, nil), nil)

	pm, err := builder.BuildSingle([]models.Player{qb, rbSameGame, rbOther}, nil)
	require.NoError(t, err)
	lineup := solvePortfolio(t, pm, 0, 20000)[0]

	assert.True(t, lineup.HasPlayer(qb.ID))
	assert.True(t, lineup.HasPlayer(rbOther.ID), "game cap keeps both sides of a matchup from filling the lineup")
}
