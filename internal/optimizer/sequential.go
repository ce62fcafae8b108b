package optimizer

import (
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/portfolio-optimizer/internal/models"
	"github.com/jstittsworth/portfolio-optimizer/internal/solver"
	"github.com/jstittsworth/portfolio-optimizer/pkg/logger"
)

// SequentialLineupBuilder generates lineups one at a time under the baseline
// per-lineup constraints only, requiring each lineup to differ from every
// previously generated one by at least one player. It is the fallback when
// portfolio relaxation is exhausted, and holds no per-request state so a
// single instance serves all requests.
type SequentialLineupBuilder struct {
	solver *solver.Solver
	logger *logrus.Entry
}

// NewSequentialLineupBuilder creates the fallback builder
func NewSequentialLineupBuilder(slv *solver.Solver) *SequentialLineupBuilder {
	return &SequentialLineupBuilder{
		solver: slv,
		logger: logger.WithComponent("sequential_builder"),
	}
}

// Generate produces count lineups for the request's pool. The ModelBuilder
// supplies this request's baseline constraint families; elite appearance
// targets play no part here.
func (s *SequentialLineupBuilder) Generate(builder *ModelBuilder, players []models.Player, count int) ([]*models.Lineup, error) {
	generated := make([]*models.Lineup, 0, count)

	for i := 0; i < count; i++ {
		pm, err := builder.BuildSingle(players, generated)
		if err != nil {
			return nil, err
		}

		sol, err := s.solver.Solve(pm.Model)
		if err != nil {
			return nil, err
		}
		if sol.Status == solver.StatusInfeasible {
			reason := "no lineup satisfies the baseline constraints"
			if i > 0 {
				reason = "pool cannot produce another lineup differing from the previous ones"
			}
			return nil, &BaselineInfeasibleError{
				Reason:      reason,
				SalaryCap:   builder.config.SalaryCap,
				SalaryFloor: builder.config.SalaryFloor,
			}
		}

		lineups, err := ExtractLineups(pm, sol, builder.config.SalaryFloor, builder.config.SalaryCap)
		if err != nil {
			return nil, err
		}
		lineup := lineups[0]
		generated = append(generated, lineup)

		s.logger.WithFields(logrus.Fields{
			"lineup":       i + 1,
			"total_salary": lineup.TotalSalary,
			"total_score":  lineup.TotalScore,
		}).Debug("Generated fallback lineup")
	}

	return generated, nil
}

// CheckBaseline solves a single unconstrained-by-targets lineup to verify the
// pool can produce at least one valid lineup. Infeasibility here is fatal for
// the whole request.
func (s *SequentialLineupBuilder) CheckBaseline(builder *ModelBuilder, players []models.Player) error {
	pm, err := builder.BuildSingle(players, nil)
	if err != nil {
		return err
	}
	sol, err := s.solver.Solve(pm.Model)
	if err != nil {
		return err
	}
	if sol.Status == solver.StatusInfeasible {
		return &BaselineInfeasibleError{
			Reason:      "no lineup satisfies the baseline constraints",
			SalaryCap:   builder.config.SalaryCap,
			SalaryFloor: builder.config.SalaryFloor,
		}
	}
	return nil
}
