package showdown

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/portfolio-optimizer/internal/models"
	"github.com/jstittsworth/portfolio-optimizer/internal/optimizer"
	"github.com/jstittsworth/portfolio-optimizer/internal/solver"
	"github.com/jstittsworth/portfolio-optimizer/pkg/logger"
)

// Config carries one showdown request's recognized options
type Config struct {
	LineupCount           int     `json:"lineup_count"`
	SalaryCap             int     `json:"salary_cap"`
	SalaryFloor           int     `json:"salary_floor"`
	MaxOwnership          float64 `json:"max_ownership"`
	ScorePercentileCutoff float64 `json:"score_percentile_cutoff"`
	LockedCaptainID       string  `json:"locked_captain_id"`
}

// DefaultConfig returns the standard showdown configuration
func DefaultConfig() Config {
	return Config{
		LineupCount: 10,
		SalaryCap:   50000,
		SalaryFloor: 0,
	}
}

// LineupBuilder is the single-game entry point. Captain selection happens
// once per batch; each lineup then gets its own five-FLEX model with the
// captain's multiplied salary charged against the window up front.
type LineupBuilder struct {
	solver   *solver.Solver
	selector *CaptainSelector
	logger   *logrus.Entry
}

// New creates a builder. The solver and captain selector are reused across
// requests.
func New(opts solver.Options) *LineupBuilder {
	return &LineupBuilder{
		solver:   solver.New(opts),
		selector: NewCaptainSelector(),
		logger:   logger.WithComponent("showdown_builder"),
	}
}

// GenerateLineups produces exactly config.LineupCount showdown lineups in
// generation order, each differing from every earlier lineup in its captain
// or at least one FLEX player.
func (b *LineupBuilder) GenerateLineups(players []models.Player, config Config) ([]*models.Lineup, error) {
	start := time.Now()
	optimizationID := uuid.New().String()

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	log := logger.WithOptimizationContext(optimizationID, "showdown", config.LineupCount)
	log.WithFields(logrus.Fields{
		"pool_size":    len(players),
		"salary_cap":   config.SalaryCap,
		"salary_floor": config.SalaryFloor,
		"locked":       config.LockedCaptainID != "",
	}).Info("Starting showdown generation")

	filtered := optimizer.FilterPlayers(players, config.MaxOwnership, config.ScorePercentileCutoff)

	captains, err := b.assignCaptains(filtered, config, optimizationID)
	if err != nil {
		log.WithError(err).Error("Captain selection failed")
		return nil, err
	}

	lineups := make([]*models.Lineup, 0, config.LineupCount)
	for _, captain := range captains {
		lineup, err := b.buildLineup(filtered, captain, lineups, config)
		if err != nil {
			log.WithError(err).Error("Showdown generation failed")
			return nil, err
		}
		lineups = append(lineups, lineup)
	}

	log.WithFields(logrus.Fields{
		"lineups":  len(lineups),
		"duration": time.Since(start),
	}).Info("Showdown generation completed")

	return lineups, nil
}

// assignCaptains resolves one captain per lineup: the locked captain for
// every lineup when the caller supplied one, otherwise the rotated automatic
// selection. Locked captains are validated before any model is solved.
func (b *LineupBuilder) assignCaptains(players []models.Player, config Config, optimizationID string) ([]models.CaptainCandidate, error) {
	if config.LockedCaptainID == "" {
		return b.selector.SelectCaptains(players, config.LineupCount, config.SalaryCap)
	}

	captainID, err := uuid.Parse(config.LockedCaptainID)
	if err != nil {
		return nil, &optimizer.ConfigError{
			Field:  "locked_captain_id",
			Reason: fmt.Sprintf("not a valid player id: %q", config.LockedCaptainID),
		}
	}

	captain, err := b.selector.LockedCaptain(players, captainID, config.SalaryCap)
	if err != nil {
		return nil, err
	}

	logger.WithCaptainContext(optimizationID, captain.Player.ID.String()).WithFields(logrus.Fields{
		"captain_salary":   captain.CaptainSalary,
		"remaining_budget": config.SalaryCap - captain.CaptainSalary,
	}).Info("Locked captain validated")

	captains := make([]models.CaptainCandidate, config.LineupCount)
	for i := range captains {
		captains[i] = captain
	}
	return captains, nil
}

// buildLineup solves one five-FLEX model around a fixed captain
func (b *LineupBuilder) buildLineup(players []models.Player, captain models.CaptainCandidate, previous []*models.Lineup, config Config) (*models.Lineup, error) {
	// Deterministic candidate order: score, then salary, then id
	sorted := make([]models.Player, 0, len(players))
	for _, player := range players {
		if player.ID != captain.Player.ID {
			sorted = append(sorted, player)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		if sorted[i].Salary != sorted[j].Salary {
			return sorted[i].Salary > sorted[j].Salary
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})
	if len(sorted) < flexSlotCount {
		return nil, &optimizer.BaselineInfeasibleError{
			Reason:      fmt.Sprintf("only %d flex players available, need %d", len(sorted), flexSlotCount),
			SalaryCap:   config.SalaryCap,
			SalaryFloor: config.SalaryFloor,
		}
	}

	m := solver.NewModel()
	bindings := make([]models.Player, 0, flexSlotCount*len(sorted))
	playerVars := make(map[uuid.UUID][]solver.VarID, len(sorted))

	for i := 0; i < flexSlotCount; i++ {
		candidates := make([]solver.VarID, 0, len(sorted))
		for _, player := range sorted {
			v := m.AddVariable(
				fmt.Sprintf("x:%s:%s%d", player.ID, models.SlotFlex, i),
				player.ID.String(),
			)
			m.SetObjectiveCoeff(v, player.Score)
			bindings = append(bindings, player)
			candidates = append(candidates, v)
			playerVars[player.ID] = append(playerVars[player.ID], v)
		}
		m.AddCell(fmt.Sprintf("%s%d", models.SlotFlex, i), models.SlotFlex, candidates)
	}

	// Salary window with the captain's multiplied salary charged up front
	salaryTerms := make([]solver.Term, 0, len(bindings))
	for v, player := range bindings {
		salaryTerms = append(salaryTerms, solver.Term{Var: solver.VarID(v), Coeff: float64(player.Salary)})
	}
	flexFloor := solver.NoMin
	if config.SalaryFloor > captain.CaptainSalary {
		flexFloor = float64(config.SalaryFloor - captain.CaptainSalary)
	}
	err := m.AddConstraint(solver.Constraint{
		ID:    "salary",
		Tag:   solver.TagSalary,
		Terms: salaryTerms,
		Min:   flexFloor,
		Max:   float64(config.SalaryCap - captain.CaptainSalary),
	})
	if err != nil {
		return nil, err
	}

	// A repeated captain needs at least one FLEX player changed; a different
	// captain already makes the lineup distinct.
	for idx, prev := range previous {
		prevCaptain, ok := prev.Captain()
		if !ok || prevCaptain.Player.ID != captain.Player.ID {
			continue
		}
		terms := make([]solver.Term, 0)
		for _, slot := range prev.Slots {
			if slot.IsCaptain {
				continue
			}
			for _, v := range playerVars[slot.Player.ID] {
				terms = append(terms, solver.Term{Var: v, Coeff: 1})
			}
		}
		err := m.AddConstraint(solver.Constraint{
			ID:    fmt.Sprintf("uniqueness:prev%d", idx),
			Tag:   solver.TagUniqueness,
			Terms: terms,
			Min:   solver.NoMin,
			Max:   float64(flexSlotCount - 1),
		})
		if err != nil {
			return nil, err
		}
	}

	sol, err := b.solver.Solve(m)
	if err != nil {
		return nil, err
	}
	if sol.Status != solver.StatusOptimal {
		return nil, &optimizer.BaselineInfeasibleError{
			Reason: fmt.Sprintf("lineup %d: no flex combination for captain %s fits the salary window and differs from earlier lineups",
				len(previous)+1, captain.Player.Name),
			SalaryCap:   config.SalaryCap,
			SalaryFloor: config.SalaryFloor,
		}
	}

	lineup := &models.Lineup{Slots: []models.LineupSlot{models.NewCaptainSlot(captain.Player)}}
	for v, selected := range sol.Values {
		if selected {
			lineup.Slots = append(lineup.Slots, models.NewSlot(models.SlotFlex, bindings[v]))
		}
	}
	lineup.RecalculateTotals()

	if err := optimizer.ValidateLineup(lineup, models.ShowdownTemplate(), config.SalaryFloor, config.SalaryCap); err != nil {
		return nil, fmt.Errorf("decoded showdown lineup failed validation: %w", err)
	}
	captainCount := 0
	for _, slot := range lineup.Slots {
		if slot.IsCaptain {
			captainCount++
		}
	}
	if captainCount != 1 {
		return nil, fmt.Errorf("decoded showdown lineup has %d captain slots", captainCount)
	}

	return lineup, nil
}

func validateConfig(config Config) error {
	if config.LineupCount <= 0 {
		return &optimizer.ConfigError{Field: "lineup_count", Reason: fmt.Sprintf("must be positive, got %d", config.LineupCount)}
	}
	if config.SalaryCap <= 0 {
		return &optimizer.ConfigError{Field: "salary_cap", Reason: fmt.Sprintf("must be positive, got %d", config.SalaryCap)}
	}
	if config.SalaryFloor >= config.SalaryCap {
		return &optimizer.ConfigError{
			Field:  "salary_floor",
			Reason: fmt.Sprintf("floor %d must be strictly below cap %d", config.SalaryFloor, config.SalaryCap),
		}
	}
	if config.MaxOwnership < 0 || config.MaxOwnership > 100 {
		return &optimizer.ConfigError{Field: "max_ownership", Reason: fmt.Sprintf("must be a percentage in [0,100], got %v", config.MaxOwnership)}
	}
	if config.ScorePercentileCutoff < 0 || config.ScorePercentileCutoff >= 100 {
		return &optimizer.ConfigError{Field: "score_percentile_cutoff", Reason: fmt.Sprintf("must be a percentile in [0,100), got %v", config.ScorePercentileCutoff)}
	}
	return nil
}
