package optimizer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jstittsworth/portfolio-optimizer/internal/models"
	"github.com/jstittsworth/portfolio-optimizer/internal/solver"
)

// ExtractLineups decodes a solved model into Lineup entities. Totals are
// recomputed from the decoded players rather than read off the solver
// objective, and every lineup is re-validated before being returned.
func ExtractLineups(pm *PortfolioModel, sol *solver.Solution, salaryFloor, salaryCap int) ([]*models.Lineup, error) {
	if sol.Status != solver.StatusOptimal {
		return nil, fmt.Errorf("cannot extract lineups from %s solution", sol.Status)
	}

	lineups := make([]*models.Lineup, pm.lineupCount)
	for k := range lineups {
		lineups[k] = &models.Lineup{}
	}

	// Variables were registered lineup-major and slot-major, so an ascending
	// scan yields slots in template order.
	for v, selected := range sol.Values {
		if !selected {
			continue
		}
		binding := pm.bindings[v]
		lineup := lineups[binding.lineupIndex]
		lineup.Slots = append(lineup.Slots, models.NewSlot(binding.slotName, binding.player))
	}

	for k, lineup := range lineups {
		lineup.RecalculateTotals()
		if err := ValidateLineup(lineup, pm.template, salaryFloor, salaryCap); err != nil {
			return nil, fmt.Errorf("decoded lineup %d failed validation: %w", k+1, err)
		}
	}

	return lineups, nil
}

// ValidateLineup re-checks the structural invariants of a decoded lineup:
// exact roster cardinality, no duplicate players, and the salary window.
func ValidateLineup(lineup *models.Lineup, template models.RosterTemplate, salaryFloor, salaryCap int) error {
	if err := validateRosterCardinality(lineup, template); err != nil {
		return err
	}
	if err := validateNoDuplicates(lineup); err != nil {
		return err
	}
	return validateSalaryWindow(lineup, salaryFloor, salaryCap)
}

func validateRosterCardinality(lineup *models.Lineup, template models.RosterTemplate) error {
	if len(lineup.Slots) != template.Size() {
		return fmt.Errorf("lineup has %d slots, template %s requires %d",
			len(lineup.Slots), template.Name, template.Size())
	}

	want := template.SlotCounts()
	got := make(map[string]int)
	for _, slot := range lineup.Slots {
		got[slot.SlotName]++
	}
	for slotName, count := range want {
		if got[slotName] != count {
			return fmt.Errorf("slot %s filled %d times, template %s requires %d",
				slotName, got[slotName], template.Name, count)
		}
	}

	for i, slot := range lineup.Slots {
		if i < len(template.Slots) && !template.Slots[i].CanFill(slot.Player) {
			return fmt.Errorf("player %s (%s) cannot fill slot %s",
				slot.Player.Name, slot.Player.Position, template.Slots[i].SlotName)
		}
	}
	return nil
}

func validateNoDuplicates(lineup *models.Lineup) error {
	seen := make(map[uuid.UUID]bool, len(lineup.Slots))
	for _, slot := range lineup.Slots {
		if seen[slot.Player.ID] {
			return fmt.Errorf("player %s appears more than once", slot.Player.Name)
		}
		seen[slot.Player.ID] = true
	}
	return nil
}

func validateSalaryWindow(lineup *models.Lineup, salaryFloor, salaryCap int) error {
	if lineup.TotalSalary > salaryCap {
		return fmt.Errorf("lineup exceeds salary cap: %d > %d", lineup.TotalSalary, salaryCap)
	}
	if lineup.TotalSalary < salaryFloor {
		return fmt.Errorf("lineup below salary floor: %d < %d", lineup.TotalSalary, salaryFloor)
	}
	return nil
}
