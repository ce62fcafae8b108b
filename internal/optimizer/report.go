package optimizer

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/jstittsworth/portfolio-optimizer/internal/models"
)

// BuildAppearanceReport summarizes a finished portfolio: every configured
// elite target against the appearance count the portfolio actually produced,
// overall player exposure, and a pairwise lineup-diversity score.
func BuildAppearanceReport(lineups []*models.Lineup, elites map[string][]EliteRank, targets *TargetTable, steps []models.RelaxationStep) *models.AppearanceReport {
	relaxed := make(map[string]bool, len(steps))
	for _, step := range steps {
		relaxed[step.ConstraintID] = true
	}

	report := &models.AppearanceReport{
		Entries:        make([]models.AppearanceEntry, 0),
		PlayerExposure: make(map[uuid.UUID]int),
	}

	for _, lineup := range lineups {
		for _, slot := range lineup.Slots {
			report.PlayerExposure[slot.Player.ID]++
		}
	}

	if targets != nil {
		for _, position := range targets.Positions() {
			ranked := elites[position]
			for _, target := range targets.PositionTargets(position) {
				if target.Rank > len(ranked) {
					continue
				}
				player := ranked[target.Rank-1].Player
				report.Entries = append(report.Entries, models.AppearanceEntry{
					Position:    position,
					Rank:        target.Rank,
					PlayerID:    player.ID,
					PlayerName:  player.Name,
					MinCount:    target.MinCount,
					MaxCount:    target.MaxCount,
					Appearances: report.PlayerExposure[player.ID],
					Relaxed:     relaxed[EliteConstraintID(position, target.Rank)],
				})
			}
		}
	}

	report.DiversityScore = diversityScore(lineups)
	return report
}

// diversityScore averages, over all lineup pairs, the share of players not
// shared between the pair. A single lineup scores perfect diversity.
func diversityScore(lineups []*models.Lineup) float64 {
	if len(lineups) < 2 {
		return 1.0
	}

	ratios := make([]float64, 0, len(lineups)*(len(lineups)-1)/2)
	for i := 0; i < len(lineups); i++ {
		for j := i + 1; j < len(lineups); j++ {
			size := len(lineups[i].Slots)
			if size == 0 {
				continue
			}
			shared := lineups[i].SharedPlayerCount(lineups[j])
			ratios = append(ratios, float64(size-shared)/float64(size))
		}
	}
	if len(ratios) == 0 {
		return 1.0
	}
	return stat.Mean(ratios, nil)
}
