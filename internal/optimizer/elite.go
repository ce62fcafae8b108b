package optimizer

import (
	"sort"

	"github.com/jstittsworth/portfolio-optimizer/internal/models"
)

// DefaultEliteCutoff is the rank cutoff below which players carry
// appearance targets.
const DefaultEliteCutoff = 15

// EliteRank ties a player to their projection rank at a position.
// Rank 1 is the highest-projection player at that position.
type EliteRank struct {
	Position string        `json:"position"`
	Player   models.Player `json:"player"`
	Rank     int           `json:"rank"`
}

// IdentifyElites ranks the pool per position by projection and returns the
// top cutoff players at each position, rank-ordered. Players beyond the
// cutoff are unranked and carry no appearance target.
//
// Ties in projection break deterministically: higher salary first, then
// smaller player id. Identical pools always produce identical rankings.
func IdentifyElites(players []models.Player, cutoff int) map[string][]EliteRank {
	if cutoff <= 0 {
		cutoff = DefaultEliteCutoff
	}

	byPosition := make(map[string][]models.Player)
	for _, player := range players {
		byPosition[player.Position] = append(byPosition[player.Position], player)
	}

	elites := make(map[string][]EliteRank, len(byPosition))
	for position, posPlayers := range byPosition {
		sort.Slice(posPlayers, func(i, j int) bool {
			if posPlayers[i].Projection != posPlayers[j].Projection {
				return posPlayers[i].Projection > posPlayers[j].Projection
			}
			if posPlayers[i].Salary != posPlayers[j].Salary {
				return posPlayers[i].Salary > posPlayers[j].Salary
			}
			return posPlayers[i].ID.String() < posPlayers[j].ID.String()
		})

		limit := cutoff
		if len(posPlayers) < limit {
			limit = len(posPlayers)
		}
		ranked := make([]EliteRank, 0, limit)
		for i := 0; i < limit; i++ {
			ranked = append(ranked, EliteRank{
				Position: position,
				Player:   posPlayers[i],
				Rank:     i + 1,
			})
		}
		elites[position] = ranked
	}

	return elites
}
