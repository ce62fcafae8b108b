package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Position constants for the supported roster positions
const (
	PositionQB  = "QB"
	PositionRB  = "RB"
	PositionWR  = "WR"
	PositionTE  = "TE"
	PositionDST = "DST"
)

// PositionOrder is the canonical ordering used whenever components walk
// positions deterministically (elite ranking, relaxation, reports).
var PositionOrder = []string{PositionQB, PositionRB, PositionWR, PositionTE, PositionDST}

// Player represents an eligible player for one optimization request.
// Values are concrete (no pointers) so the solver can copy them freely;
// the pool is treated as immutable for the duration of a request.
type Player struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Team       string    `json:"team"`
	Opponent   string    `json:"opponent"`
	Position   string    `json:"position"`
	Salary     int       `json:"salary"`
	Score      float64   `json:"score"`      // externally computed value the optimizer maximizes
	Projection float64   `json:"projection"` // used only for elite ranking
	Ownership  float64   `json:"ownership"`  // used only for optional filtering
	IsInjured  bool      `json:"is_injured"` // excluded upstream, never re-checked mid-solve
}

// GameKey returns a stable key for the real-world game a player belongs to.
// Teams are ordered alphabetically so both sides of a matchup share a key.
func (p Player) GameKey() string {
	team1, team2 := p.Team, p.Opponent
	if team1 > team2 {
		team1, team2 = team2, team1
	}
	return fmt.Sprintf("%s@%s", team1, team2)
}

// IsValidPosition reports whether pos is one of the supported positions.
func IsValidPosition(pos string) bool {
	for _, p := range PositionOrder {
		if p == pos {
			return true
		}
	}
	return false
}
