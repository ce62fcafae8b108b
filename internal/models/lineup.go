package models

import (
	"github.com/google/uuid"
)

// CaptainSalaryMultiplierNum and CaptainSalaryMultiplierDen express the 1.5x
// captain multiplier as integer arithmetic so salaries stay exact.
const (
	CaptainSalaryMultiplierNum = 3
	CaptainSalaryMultiplierDen = 2
	CaptainScoreMultiplier     = 1.5
)

// CaptainSalary returns a player's salary when slotted as captain
func CaptainSalary(baseSalary int) int {
	return baseSalary * CaptainSalaryMultiplierNum / CaptainSalaryMultiplierDen
}

// CaptainScore returns a player's score when slotted as captain
func CaptainScore(baseScore float64) float64 {
	return baseScore * CaptainScoreMultiplier
}

// LineupSlot is one filled roster slot. Salary and Score carry the effective
// values for the slot: base values normally, multiplied values for a captain.
type LineupSlot struct {
	SlotName  string  `json:"slot_name"`
	Player    Player  `json:"player"`
	IsCaptain bool    `json:"is_captain"`
	Salary    int     `json:"salary"`
	Score     float64 `json:"score"`
}

// Lineup is an ordered set of filled roster slots with derived totals
type Lineup struct {
	Slots       []LineupSlot `json:"slots"`
	TotalSalary int          `json:"total_salary"`
	TotalScore  float64      `json:"total_score"`
}

// NewSlot fills a roster slot with a player at base salary and score
func NewSlot(slotName string, player Player) LineupSlot {
	return LineupSlot{
		SlotName: slotName,
		Player:   player,
		Salary:   player.Salary,
		Score:    player.Score,
	}
}

// NewCaptainSlot fills the captain slot, applying the 1.5x multiplier to
// both salary and score.
func NewCaptainSlot(player Player) LineupSlot {
	return LineupSlot{
		SlotName:  SlotCaptain,
		Player:    player,
		IsCaptain: true,
		Salary:    CaptainSalary(player.Salary),
		Score:     CaptainScore(player.Score),
	}
}

// RecalculateTotals recomputes TotalSalary and TotalScore from the slots
func (l *Lineup) RecalculateTotals() {
	totalSalary := 0
	totalScore := 0.0
	for _, slot := range l.Slots {
		totalSalary += slot.Salary
		totalScore += slot.Score
	}
	l.TotalSalary = totalSalary
	l.TotalScore = totalScore
}

// HasPlayer reports whether the lineup contains the given player
func (l *Lineup) HasPlayer(playerID uuid.UUID) bool {
	for _, slot := range l.Slots {
		if slot.Player.ID == playerID {
			return true
		}
	}
	return false
}

// PlayerIDs returns the set of player ids in the lineup
func (l *Lineup) PlayerIDs() map[uuid.UUID]bool {
	ids := make(map[uuid.UUID]bool, len(l.Slots))
	for _, slot := range l.Slots {
		ids[slot.Player.ID] = true
	}
	return ids
}

// SharedPlayerCount returns how many players the two lineups have in common
func (l *Lineup) SharedPlayerCount(other *Lineup) int {
	ids := l.PlayerIDs()
	shared := 0
	for _, slot := range other.Slots {
		if ids[slot.Player.ID] {
			shared++
		}
	}
	return shared
}

// Captain returns the captain slot, if any
func (l *Lineup) Captain() (LineupSlot, bool) {
	for _, slot := range l.Slots {
		if slot.IsCaptain {
			return slot, true
		}
	}
	return LineupSlot{}, false
}

// TeamCounts returns the number of players per real-world team
func (l *Lineup) TeamCounts() map[string]int {
	counts := make(map[string]int)
	for _, slot := range l.Slots {
		counts[slot.Player.Team]++
	}
	return counts
}

// GameCounts returns the number of players per real-world game
func (l *Lineup) GameCounts() map[string]int {
	counts := make(map[string]int)
	for _, slot := range l.Slots {
		counts[slot.Player.GameKey()]++
	}
	return counts
}

// Clone returns a deep copy of the lineup
func (l *Lineup) Clone() *Lineup {
	slots := make([]LineupSlot, len(l.Slots))
	copy(slots, l.Slots)
	return &Lineup{
		Slots:       slots,
		TotalSalary: l.TotalSalary,
		TotalScore:  l.TotalScore,
	}
}
