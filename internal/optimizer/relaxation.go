package optimizer

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/portfolio-optimizer/internal/models"
	"github.com/jstittsworth/portfolio-optimizer/internal/solver"
	"github.com/jstittsworth/portfolio-optimizer/pkg/logger"
)

// RelaxationController drives the solve / detect-infeasible / relax /
// re-solve loop for the portfolio model. When every non-protected elite
// appearance constraint has been removed and the model is still infeasible,
// it falls back to the sequential builder.
type RelaxationController struct {
	builder        *ModelBuilder
	solver         *solver.Solver
	sequential     *SequentialLineupBuilder
	targets        *TargetTable
	optimizationID string
	logger         *logrus.Entry
}

// NewRelaxationController wires a controller for one optimization request
func NewRelaxationController(builder *ModelBuilder, slv *solver.Solver, sequential *SequentialLineupBuilder, targets *TargetTable, optimizationID string) *RelaxationController {
	return &RelaxationController{
		builder:        builder,
		solver:         slv,
		sequential:     sequential,
		targets:        targets,
		optimizationID: optimizationID,
		logger:         logger.WithOptimizationID(optimizationID).WithField("component", "relaxation_controller"),
	}
}

// Run produces the portfolio. A pool that cannot produce even one baseline
// lineup fails immediately; an infeasible portfolio model triggers the
// relaxation walk; an exhausted walk triggers the sequential fallback.
func (rc *RelaxationController) Run(players []models.Player, lineupCount int) (*models.Portfolio, error) {
	if err := rc.sequential.CheckBaseline(rc.builder, players); err != nil {
		var baseline *BaselineInfeasibleError
		if errors.As(err, &baseline) {
			rc.logger.WithField("reason", baseline.Reason).Error("Baseline lineup infeasible, aborting")
		}
		return nil, err
	}

	pm, err := rc.builder.BuildPortfolio(players, lineupCount)
	if err != nil {
		return nil, err
	}

	lineups, err := rc.solveOnce(pm)
	if err == nil {
		return &models.Portfolio{Lineups: lineups, RelaxationLog: []models.RelaxationStep{}}, nil
	}
	if !errors.Is(err, errPortfolioInfeasible) {
		return nil, err
	}

	rc.logger.Info("Portfolio model infeasible, starting relaxation walk")

	lineups, steps, err := rc.relax(pm)
	if err == nil {
		return &models.Portfolio{Lineups: lineups, RelaxationLog: steps}, nil
	}
	if !errors.Is(err, errRelaxationExhausted) {
		return nil, err
	}

	rc.logger.WithField("removed_constraints", len(steps)).Warn("Relaxation exhausted, falling back to sequential generation")

	fallback, err := rc.sequential.Generate(rc.builder, players, lineupCount)
	if err != nil {
		return nil, err
	}
	return &models.Portfolio{Lineups: fallback, RelaxationLog: steps, UsedFallback: true}, nil
}

// solveOnce attempts the portfolio model as-is, translating infeasibility
// into the internal signal the caller dispatches on.
func (rc *RelaxationController) solveOnce(pm *PortfolioModel) ([]*models.Lineup, error) {
	sol, err := rc.solver.Solve(pm.Model)
	if err != nil {
		return nil, err
	}
	if sol.Status == solver.StatusInfeasible {
		return nil, errPortfolioInfeasible
	}
	return ExtractLineups(pm, sol, rc.builder.config.SalaryFloor, rc.builder.config.SalaryCap)
}

// relax walks candidate relaxations in a fixed order: per position, from the
// highest non-protected configured rank down to rank 2, removing one
// appearance constraint per step and re-solving. Rank 1 is never removed.
// Every removal and its outcome lands in the returned log in removal order.
func (rc *RelaxationController) relax(pm *PortfolioModel) ([]*models.Lineup, []models.RelaxationStep, error) {
	steps := make([]models.RelaxationStep, 0)

	for _, position := range rc.targets.Positions() {
		targets := rc.targets.PositionTargets(position)
		for i := len(targets) - 1; i >= 0; i-- {
			rank := targets[i].Rank
			if rank == 1 {
				continue
			}
			id := EliteConstraintID(position, rank)
			if !pm.Model.RemoveConstraint(id) {
				continue
			}

			stepLog := logger.WithRelaxationContext(rc.optimizationID, position, rank)
			lineups, err := rc.solveOnce(pm)
			if err == nil {
				steps = append(steps, models.RelaxationStep{
					Position:     position,
					Rank:         rank,
					ConstraintID: id,
					Outcome:      models.RelaxationFeasible,
				})
				stepLog.WithField("status", string(models.RelaxationFeasible)).Info("Removed appearance constraint")
				return lineups, steps, nil
			}
			if !errors.Is(err, errPortfolioInfeasible) {
				return nil, steps, err
			}

			steps = append(steps, models.RelaxationStep{
				Position:     position,
				Rank:         rank,
				ConstraintID: id,
				Outcome:      models.RelaxationStillInfeasible,
			})
			stepLog.WithField("status", string(models.RelaxationStillInfeasible)).Info("Removed appearance constraint")
		}
	}

	return nil, steps, fmt.Errorf("%w: removed %d appearance constraints", errRelaxationExhausted, len(steps))
}
