package showdown

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jstittsworth/portfolio-optimizer/internal/models"
)

// flexPlayer builds a single-game pool entry with a deterministic id. All
// players share one matchup, as a real showdown slate does.
func flexPlayer(n int, position string, salary int, score float64) models.Player {
	team, opponent := "BUF", "MIA"
	if n%2 == 0 {
		team, opponent = "MIA", "BUF"
	}
	return models.Player{
		ID:         flexPlayerID(n),
		Name:       fmt.Sprintf("%s %d", position, n),
		Team:       team,
		Opponent:   opponent,
		Position:   position,
		Salary:     salary,
		Score:      score,
		Projection: score,
	}
}

func flexPlayerID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}
