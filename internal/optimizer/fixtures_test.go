package optimizer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jstittsworth/portfolio-optimizer/internal/models"
)

// testPlayer builds a pool entry with a deterministic id and a unique team,
// so team and game caps stay out of the way unless a test sets them up.
func testPlayer(n int, position string, salary int, score float64) models.Player {
	return models.Player{
		ID:         testPlayerID(n),
		Name:       fmt.Sprintf("%s %d", position, n),
		Team:       fmt.Sprintf("T%02d", n),
		Opponent:   fmt.Sprintf("O%02d", n),
		Position:   position,
		Salary:     salary,
		Score:      score,
		Projection: score,
	}
}

func testPlayerID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}

// singleSlotTemplate is a one-slot roster for compact solver scenarios
func singleSlotTemplate(position string) models.RosterTemplate {
	return models.RosterTemplate{
		Name: "single",
		Slots: []models.RosterSlot{
			{SlotName: position, AllowedPositions: []string{position}, Priority: 1, IsRequired: true},
		},
	}
}

// twoSlotTemplate pairs a QB slot with an RB slot
func twoSlotTemplate() models.RosterTemplate {
	return models.RosterTemplate{
		Name: "two",
		Slots: []models.RosterSlot{
			{SlotName: "QB", AllowedPositions: []string{models.PositionQB}, Priority: 1, IsRequired: true},
			{SlotName: "RB", AllowedPositions: []string{models.PositionRB}, Priority: 2, IsRequired: true},
		},
	}
}

func testConfig(template models.RosterTemplate, lineupCount, salaryCap, salaryFloor int) OptimizeConfig {
	return OptimizeConfig{
		LineupCount: lineupCount,
		SalaryCap:   salaryCap,
		SalaryFloor: salaryFloor,
		MaxPerTeam:  4,
		MaxPerGame:  6,
		EliteCutoff: DefaultEliteCutoff,
		Template:    template,
	}
}

func mustTargets(totalLineups int, targets []AppearanceTarget) *TargetTable {
	table, err := NewTargetTable(totalLineups, targets)
	if err != nil {
		panic(err)
	}
	return table
}
