package optimizer

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/jstittsworth/portfolio-optimizer/internal/models"
)

// FilterPlayers applies the optional pool filters ahead of elite ranking.
// maxOwnership keeps players with projected ownership at or below the given
// percentage; scorePercentileCutoff keeps players whose score is at or above
// that percentile of the pool's scores. A zero value disables a filter.
func FilterPlayers(players []models.Player, maxOwnership, scorePercentileCutoff float64) []models.Player {
	filtered := players

	if maxOwnership > 0 {
		kept := make([]models.Player, 0, len(filtered))
		for _, player := range filtered {
			if player.Ownership <= maxOwnership {
				kept = append(kept, player)
			}
		}
		filtered = kept
	}

	if scorePercentileCutoff > 0 && len(filtered) > 0 {
		scores := make([]float64, len(filtered))
		for i, player := range filtered {
			scores[i] = player.Score
		}
		sort.Float64s(scores)
		threshold := stat.Quantile(scorePercentileCutoff/100, stat.Empirical, scores, nil)

		kept := make([]models.Player, 0, len(filtered))
		for _, player := range filtered {
			if player.Score >= threshold {
				kept = append(kept, player)
			}
		}
		filtered = kept
	}

	return filtered
}
