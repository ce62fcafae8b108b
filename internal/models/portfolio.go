package models

import "github.com/google/uuid"

// RelaxationOutcome records what a single constraint removal achieved
type RelaxationOutcome string

const (
	RelaxationStillInfeasible RelaxationOutcome = "still_infeasible"
	RelaxationFeasible        RelaxationOutcome = "feasible"
)

// RelaxationStep is one entry of the relaxation log, in removal order
type RelaxationStep struct {
	Position     string            `json:"position"`
	Rank         int               `json:"rank"`
	ConstraintID string            `json:"constraint_id"`
	Outcome      RelaxationOutcome `json:"outcome"`
}

// AppearanceEntry reports one elite player's target window against the
// appearance count actually produced by the portfolio.
type AppearanceEntry struct {
	Position    string    `json:"position"`
	Rank        int       `json:"rank"`
	PlayerID    uuid.UUID `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	MinCount    int       `json:"min_count"`
	MaxCount    int       `json:"max_count"`
	Appearances int       `json:"appearances"`
	Relaxed     bool      `json:"relaxed"`
}

// AppearanceReport summarizes portfolio composition for observability
type AppearanceReport struct {
	Entries        []AppearanceEntry `json:"entries"`
	PlayerExposure map[uuid.UUID]int `json:"player_exposure"`
	DiversityScore float64           `json:"diversity_score"`
}

// Portfolio is the full batch of lineups produced by one optimization call,
// together with the relaxation log and the appearance report.
type Portfolio struct {
	Lineups       []*Lineup         `json:"lineups"`
	RelaxationLog []RelaxationStep  `json:"relaxation_log"`
	UsedFallback  bool              `json:"used_fallback"`
	Report        *AppearanceReport `json:"report,omitempty"`
}

// CaptainCandidate is a ranked captain option for single-game contests
type CaptainCandidate struct {
	Player        Player  `json:"player"`
	Value         float64 `json:"value"` // score per salary dollar
	CaptainSalary int     `json:"captain_salary"`
	CaptainScore  float64 `json:"captain_score"`
}
