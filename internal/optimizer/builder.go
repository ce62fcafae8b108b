package optimizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/portfolio-optimizer/internal/models"
	"github.com/jstittsworth/portfolio-optimizer/internal/solver"
	"github.com/jstittsworth/portfolio-optimizer/pkg/logger"
)

// scoreTieEpsilon is the score-sum difference below which two portfolios are
// considered tied. The salary bonus coefficient is sized so the whole bonus
// range stays under half of it and can only ever break such ties.
const scoreTieEpsilon = 0.0005

type varBinding struct {
	player      models.Player
	lineupIndex int
	slotName    string
}

// PortfolioModel pairs a solver model with the bindings needed to decode a
// solution back into lineups.
type PortfolioModel struct {
	Model       *solver.Model
	bindings    []varBinding
	lineupCount int
	template    models.RosterTemplate
}

// ModelBuilder constructs optimization models: the combined K-lineup
// portfolio model with elite appearance constraints, and single-lineup
// baseline models for the sequential fallback.
type ModelBuilder struct {
	config  OptimizeConfig
	targets *TargetTable
	elites  map[string][]EliteRank
	logger  *logrus.Entry
}

// NewModelBuilder creates a builder for one request's pool and targets
func NewModelBuilder(config OptimizeConfig, targets *TargetTable, elites map[string][]EliteRank) *ModelBuilder {
	return &ModelBuilder{
		config:  config,
		targets: targets,
		elites:  elites,
		logger:  logger.WithComponent("model_builder"),
	}
}

// BuildPortfolio builds the combined model spanning lineupCount lineups:
// binary variables per (player, lineup, slot), per-lineup structural
// constraints, and portfolio-wide elite appearance constraints.
func (b *ModelBuilder) BuildPortfolio(players []models.Player, lineupCount int) (*PortfolioModel, error) {
	pm, playerVars, err := b.buildLineups(players, lineupCount)
	if err != nil {
		return nil, err
	}

	if err := b.addEliteConstraints(pm, playerVars); err != nil {
		return nil, err
	}

	b.logger.WithFields(logrus.Fields{
		"lineups":     lineupCount,
		"players":     len(players),
		"variables":   pm.Model.NumVariables(),
		"constraints": pm.Model.NumConstraints(),
	}).Debug("Built portfolio model")

	return pm, nil
}

// BuildSingle builds a one-lineup baseline model: the per-lineup structural
// constraints only, plus a uniqueness constraint against every previously
// generated lineup (at least one differing player).
func (b *ModelBuilder) BuildSingle(players []models.Player, previous []*models.Lineup) (*PortfolioModel, error) {
	pm, playerVars, err := b.buildLineups(players, 1)
	if err != nil {
		return nil, err
	}

	for i, prev := range previous {
		terms := make([]solver.Term, 0, len(prev.Slots))
		seen := make(map[uuid.UUID]bool, len(prev.Slots))
		for _, slot := range prev.Slots {
			if seen[slot.Player.ID] {
				continue
			}
			seen[slot.Player.ID] = true
			for _, v := range playerVars[slot.Player.ID] {
				terms = append(terms, solver.Term{Var: v, Coeff: 1})
			}
		}
		err := pm.Model.AddConstraint(solver.Constraint{
			ID:    fmt.Sprintf("uniqueness:prev%d", i),
			Tag:   solver.TagUniqueness,
			Terms: terms,
			Min:   solver.NoMin,
			Max:   float64(pm.template.Size() - 1),
		})
		if err != nil {
			return nil, err
		}
	}

	return pm, nil
}

// buildLineups creates the variables, decision cells, and per-lineup
// constraint families shared by both model shapes. It returns the model plus
// a map from player id to all of that player's variables.
func (b *ModelBuilder) buildLineups(players []models.Player, lineupCount int) (*PortfolioModel, map[uuid.UUID][]solver.VarID, error) {
	if lineupCount < 1 {
		return nil, nil, &ConfigError{Field: "lineup_count", Reason: fmt.Sprintf("must be at least 1, got %d", lineupCount)}
	}
	if b.config.SalaryFloor >= b.config.SalaryCap {
		return nil, nil, &ConfigError{
			Field:  "salary_floor",
			Reason: fmt.Sprintf("floor %d must be strictly below cap %d", b.config.SalaryFloor, b.config.SalaryCap),
		}
	}

	template := b.config.Template
	pm := &PortfolioModel{
		Model:       solver.NewModel(),
		lineupCount: lineupCount,
		template:    template,
	}
	model := pm.Model

	// Deterministic candidate order: score, then salary, then id
	sorted := make([]models.Player, len(players))
	copy(sorted, players)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		if sorted[i].Salary != sorted[j].Salary {
			return sorted[i].Salary > sorted[j].Salary
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	bonusCoeff := salaryBonusCoeff(lineupCount, b.config.SalaryCap)
	playerVars := make(map[uuid.UUID][]solver.VarID)

	for k := 0; k < lineupCount; k++ {
		lineupVars := make([]solver.VarID, 0)
		teamVars := make(map[string][]solver.VarID)
		gameVars := make(map[string][]solver.VarID)
		slotNameVars := make(map[string][]solver.VarID)

		for slotIdx, slot := range template.Slots {
			candidates := make([]solver.VarID, 0)
			for _, player := range sorted {
				if !slot.CanFill(player) {
					continue
				}
				v := model.AddVariable(
					fmt.Sprintf("x:%s:k%d:%s%d", player.ID, k, slot.SlotName, slotIdx),
					fmt.Sprintf("k%d:%s", k, player.ID),
				)
				model.SetObjectiveCoeff(v, player.Score+bonusCoeff*float64(player.Salary))
				pm.bindings = append(pm.bindings, varBinding{
					player:      player,
					lineupIndex: k,
					slotName:    slot.SlotName,
				})
				candidates = append(candidates, v)
				lineupVars = append(lineupVars, v)
				teamVars[player.Team] = append(teamVars[player.Team], v)
				gameVars[player.GameKey()] = append(gameVars[player.GameKey()], v)
				slotNameVars[slot.SlotName] = append(slotNameVars[slot.SlotName], v)
				playerVars[player.ID] = append(playerVars[player.ID], v)
			}
			group := fmt.Sprintf("k%d:%s:%s", k, slot.SlotName, strings.Join(slot.AllowedPositions, "|"))
			model.AddCell(fmt.Sprintf("k%d:%s%d", k, slot.SlotName, slotIdx), group, candidates)
		}

		// Salary window
		salaryTerms := make([]solver.Term, 0, len(lineupVars))
		for _, v := range lineupVars {
			salaryTerms = append(salaryTerms, solver.Term{Var: v, Coeff: float64(pm.bindings[v].player.Salary)})
		}
		err := model.AddConstraint(solver.Constraint{
			ID:    fmt.Sprintf("salary:k%d", k),
			Tag:   solver.TagSalary,
			Terms: salaryTerms,
			Min:   float64(b.config.SalaryFloor),
			Max:   float64(b.config.SalaryCap),
		})
		if err != nil {
			return nil, nil, err
		}

		// Slot cardinality per slot name
		for _, slotName := range slotNameOrder(template) {
			count := 0
			for _, slot := range template.Slots {
				if slot.SlotName == slotName {
					count++
				}
			}
			terms := make([]solver.Term, 0, len(slotNameVars[slotName]))
			for _, v := range slotNameVars[slotName] {
				terms = append(terms, solver.Term{Var: v, Coeff: 1})
			}
			err := model.AddConstraint(solver.Constraint{
				ID:    fmt.Sprintf("position:k%d:%s", k, slotName),
				Tag:   solver.TagPosition,
				Terms: terms,
				Min:   float64(count),
				Max:   float64(count),
			})
			if err != nil {
				return nil, nil, err
			}
		}

		// Team cap
		for _, team := range sortedKeys(teamVars) {
			terms := make([]solver.Term, 0, len(teamVars[team]))
			for _, v := range teamVars[team] {
				terms = append(terms, solver.Term{Var: v, Coeff: 1})
			}
			err := model.AddConstraint(solver.Constraint{
				ID:    fmt.Sprintf("team:k%d:%s", k, team),
				Tag:   solver.TagTeam,
				Terms: terms,
				Min:   0,
				Max:   float64(b.config.MaxPerTeam),
			})
			if err != nil {
				return nil, nil, err
			}
		}

		// Game cap
		for _, game := range sortedKeys(gameVars) {
			terms := make([]solver.Term, 0, len(gameVars[game]))
			for _, v := range gameVars[game] {
				terms = append(terms, solver.Term{Var: v, Coeff: 1})
			}
			err := model.AddConstraint(solver.Constraint{
				ID:    fmt.Sprintf("game:k%d:%s", k, game),
				Tag:   solver.TagGame,
				Terms: terms,
				Min:   0,
				Max:   float64(b.config.MaxPerGame),
			})
			if err != nil {
				return nil, nil, err
			}
		}

		// Stacking: a rostered quarterback requires a same-team receiver
		if b.config.EnableStacking {
			if err := b.addStackingConstraints(pm, k, sorted, playerVars); err != nil {
				return nil, nil, err
			}
		}
	}

	return pm, playerVars, nil
}

// addStackingConstraints adds, per quarterback, a constraint requiring at
// least one same-team WR or TE whenever that quarterback is rostered.
func (b *ModelBuilder) addStackingConstraints(pm *PortfolioModel, k int, sorted []models.Player, playerVars map[uuid.UUID][]solver.VarID) error {
	for _, qb := range sorted {
		if qb.Position != models.PositionQB {
			continue
		}
		qbVars := varsInLineup(pm, playerVars[qb.ID], k)
		if len(qbVars) == 0 {
			continue
		}
		terms := make([]solver.Term, 0)
		for _, receiver := range sorted {
			if receiver.Team != qb.Team {
				continue
			}
			if receiver.Position != models.PositionWR && receiver.Position != models.PositionTE {
				continue
			}
			for _, v := range varsInLineup(pm, playerVars[receiver.ID], k) {
				terms = append(terms, solver.Term{Var: v, Coeff: 1})
			}
		}
		for _, v := range qbVars {
			terms = append(terms, solver.Term{Var: v, Coeff: -1})
		}
		err := pm.Model.AddConstraint(solver.Constraint{
			ID:    fmt.Sprintf("stacking:k%d:%s", k, qb.ID),
			Tag:   solver.TagStacking,
			Terms: terms,
			Min:   0,
			Max:   solver.NoMax,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// addEliteConstraints adds the portfolio-wide appearance window for every
// configured (position, rank) pair that has a ranked player in this pool.
func (b *ModelBuilder) addEliteConstraints(pm *PortfolioModel, playerVars map[uuid.UUID][]solver.VarID) error {
	if b.targets == nil {
		return nil
	}
	for _, position := range b.targets.Positions() {
		ranked := b.elites[position]
		for _, target := range b.targets.PositionTargets(position) {
			if target.Rank > len(ranked) {
				continue
			}
			player := ranked[target.Rank-1].Player
			terms := make([]solver.Term, 0, len(playerVars[player.ID]))
			for _, v := range playerVars[player.ID] {
				terms = append(terms, solver.Term{Var: v, Coeff: 1})
			}
			err := pm.Model.AddConstraint(solver.Constraint{
				ID:       EliteConstraintID(position, target.Rank),
				Tag:      solver.TagEliteAppearance,
				Terms:    terms,
				Min:      float64(target.MinCount),
				Max:      float64(target.MaxCount),
				Position: position,
				Rank:     target.Rank,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// EliteConstraintID composes the registry id for a (position, rank) pair
func EliteConstraintID(position string, rank int) string {
	return fmt.Sprintf("elite_appearance:%s:%d", position, rank)
}

// salaryBonusCoeff sizes the salary bonus so the objective difference it can
// introduce across the whole portfolio stays below half the tie epsilon.
func salaryBonusCoeff(lineupCount, salaryCap int) float64 {
	return scoreTieEpsilon / 2 / (float64(lineupCount) * float64(salaryCap))
}

func varsInLineup(pm *PortfolioModel, vars []solver.VarID, k int) []solver.VarID {
	out := make([]solver.VarID, 0, len(vars))
	for _, v := range vars {
		if pm.bindings[v].lineupIndex == k {
			out = append(out, v)
		}
	}
	return out
}

func slotNameOrder(template models.RosterTemplate) []string {
	seen := make(map[string]bool)
	order := make([]string, 0)
	for _, slot := range template.Slots {
		if !seen[slot.SlotName] {
			seen[slot.SlotName] = true
			order = append(order, slot.SlotName)
		}
	}
	return order
}

func sortedKeys(m map[string][]solver.VarID) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
