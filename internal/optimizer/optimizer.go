// Package optimizer builds salary-capped lineup portfolios: it ranks the
// elite player pool, assembles one combined optimization model across the
// whole batch, recovers from infeasibility by progressively relaxing elite
// appearance constraints, and falls back to sequential generation when the
// walk is exhausted.
package optimizer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/portfolio-optimizer/internal/models"
	"github.com/jstittsworth/portfolio-optimizer/internal/solver"
	"github.com/jstittsworth/portfolio-optimizer/pkg/logger"
)

// OptimizeConfig carries one request's recognized options
type OptimizeConfig struct {
	LineupCount           int                   `json:"lineup_count"`
	SalaryCap             int                   `json:"salary_cap"`
	SalaryFloor           int                   `json:"salary_floor"`
	MaxPerTeam            int                   `json:"max_per_team"`
	MaxPerGame            int                   `json:"max_per_game"`
	EnableStacking        bool                  `json:"enable_stacking"`
	MaxOwnership          float64               `json:"max_ownership"`
	ScorePercentileCutoff float64               `json:"score_percentile_cutoff"`
	EliteCutoff           int                   `json:"elite_cutoff"`
	Template              models.RosterTemplate `json:"template"`
	// Targets overrides the shipped appearance targets; nil selects the
	// default table.
	Targets *TargetTable `json:"-"`
}

// DefaultOptimizeConfig returns the standard classic-contest configuration
func DefaultOptimizeConfig() OptimizeConfig {
	return OptimizeConfig{
		LineupCount: DefaultPortfolioSize,
		SalaryCap:   50000,
		SalaryFloor: 45000,
		MaxPerTeam:  4,
		MaxPerGame:  6,
		EliteCutoff: DefaultEliteCutoff,
		Template:    models.ClassicTemplate(),
	}
}

// Optimizer is the portfolio entry point. It owns the solver and the
// sequential fallback builder, both reused across requests; per-request
// state lives in the models and controllers built per call.
type Optimizer struct {
	solver     *solver.Solver
	sequential *SequentialLineupBuilder
	logger     *logrus.Entry
}

// New creates an optimizer
func New(opts solver.Options) *Optimizer {
	slv := solver.New(opts)
	return &Optimizer{
		solver:     slv,
		sequential: NewSequentialLineupBuilder(slv),
		logger:     logger.WithComponent("optimizer"),
	}
}

// GeneratePortfolio produces exactly config.LineupCount lineups for the
// eligible pool, or a fatal error per the error taxonomy. The pool is
// expected to be pre-filtered for availability; only the optional ownership
// and score-percentile filters are applied here.
func (o *Optimizer) GeneratePortfolio(players []models.Player, config OptimizeConfig) (*models.Portfolio, error) {
	start := time.Now()
	optimizationID := uuid.New().String()

	config, targets, err := o.normalizeConfig(config)
	if err != nil {
		return nil, err
	}

	log := logger.WithOptimizationContext(optimizationID, config.Template.Name, config.LineupCount)
	log.WithFields(logrus.Fields{
		"pool_size":       len(players),
		"salary_cap":      config.SalaryCap,
		"salary_floor":    config.SalaryFloor,
		"enable_stacking": config.EnableStacking,
	}).Info("Starting portfolio optimization")

	filtered := FilterPlayers(players, config.MaxOwnership, config.ScorePercentileCutoff)
	if len(filtered) < len(players) {
		log.WithFields(logrus.Fields{
			"before": len(players),
			"after":  len(filtered),
		}).Debug("Applied pool filters")
	}
	if len(filtered) == 0 {
		return nil, &BaselineInfeasibleError{
			Reason:      "no players remain after pool filters",
			SalaryCap:   config.SalaryCap,
			SalaryFloor: config.SalaryFloor,
		}
	}

	elites := IdentifyElites(filtered, config.EliteCutoff)

	builder := NewModelBuilder(config, targets, elites)
	controller := NewRelaxationController(builder, o.solver, o.sequential, targets, optimizationID)

	portfolio, err := controller.Run(filtered, config.LineupCount)
	if err != nil {
		log.WithError(err).Error("Portfolio optimization failed")
		return nil, err
	}

	portfolio.Report = BuildAppearanceReport(portfolio.Lineups, elites, targets, portfolio.RelaxationLog)

	log.WithFields(logrus.Fields{
		"lineups":         len(portfolio.Lineups),
		"relaxed":         len(portfolio.RelaxationLog),
		"used_fallback":   portfolio.UsedFallback,
		"diversity_score": portfolio.Report.DiversityScore,
		"duration":        time.Since(start),
	}).Info("Portfolio optimization completed")

	return portfolio, nil
}

// normalizeConfig fills defaults and validates the request options
func (o *Optimizer) normalizeConfig(config OptimizeConfig) (OptimizeConfig, *TargetTable, error) {
	if config.LineupCount <= 0 {
		return config, nil, &ConfigError{Field: "lineup_count", Reason: fmt.Sprintf("must be positive, got %d", config.LineupCount)}
	}
	if config.SalaryCap <= 0 {
		return config, nil, &ConfigError{Field: "salary_cap", Reason: fmt.Sprintf("must be positive, got %d", config.SalaryCap)}
	}
	if config.MaxOwnership < 0 || config.MaxOwnership > 100 {
		return config, nil, &ConfigError{Field: "max_ownership", Reason: fmt.Sprintf("must be a percentage in [0,100], got %v", config.MaxOwnership)}
	}
	if config.ScorePercentileCutoff < 0 || config.ScorePercentileCutoff >= 100 {
		return config, nil, &ConfigError{Field: "score_percentile_cutoff", Reason: fmt.Sprintf("must be a percentile in [0,100), got %v", config.ScorePercentileCutoff)}
	}
	if config.MaxPerTeam <= 0 {
		config.MaxPerTeam = 4
	}
	if config.MaxPerGame <= 0 {
		config.MaxPerGame = 6
	}
	if config.EliteCutoff <= 0 {
		config.EliteCutoff = DefaultEliteCutoff
	}
	if config.Template.Size() == 0 {
		config.Template = models.ClassicTemplate()
	}

	targets := config.Targets
	if targets == nil {
		targets = DefaultTargetTable()
	}
	if !targets.IsEmpty() && config.LineupCount != targets.TotalLineups() {
		return config, nil, &ConfigError{
			Field: "lineup_count",
			Reason: fmt.Sprintf("appearance targets are calibrated for %d lineups, requested %d",
				targets.TotalLineups(), config.LineupCount),
		}
	}

	return config, targets, nil
}
