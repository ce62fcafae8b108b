// Package showdown builds single-game contest lineups: one captain slot at a
// 1.5x salary and score multiplier plus five FLEX slots open to any position.
// Captains are ranked by value and rotated across the batch, or locked by the
// caller and validated up front.
package showdown

import (
	"crypto/md5"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/portfolio-optimizer/internal/models"
	"github.com/jstittsworth/portfolio-optimizer/pkg/logger"
)

// captainRotationSize is how many top-ranked viable candidates the automatic
// selection rotates through.
const captainRotationSize = 5

// flexSlotCount is the number of FLEX slots beside the captain
const flexSlotCount = 5

// CaptainSelector ranks captain candidates by value and hands out captains
// for a batch of lineups. The ranking is memoized per pool content hash so
// repeated requests against an unchanged pool skip the sort; the memo is
// replaced whenever the hash changes and is never shared across pools.
type CaptainSelector struct {
	logger *logrus.Entry

	mu        sync.RWMutex
	memoKey   string
	memoRanks []models.CaptainCandidate
}

// NewCaptainSelector creates a selector with an empty memo
func NewCaptainSelector() *CaptainSelector {
	return &CaptainSelector{logger: logger.WithComponent("captain_selector")}
}

// RankCandidates returns every player with a positive score and salary as a
// captain candidate, sorted descending by value (score per salary dollar).
// The returned slice is shared with the memo and must not be mutated.
func (s *CaptainSelector) RankCandidates(players []models.Player) []models.CaptainCandidate {
	key := poolHash(players)

	s.mu.RLock()
	if s.memoKey == key {
		ranked := s.memoRanks
		s.mu.RUnlock()
		return ranked
	}
	s.mu.RUnlock()

	ranked := rankCandidates(players)

	s.mu.Lock()
	s.memoKey = key
	s.memoRanks = ranked
	s.mu.Unlock()

	return ranked
}

func rankCandidates(players []models.Player) []models.CaptainCandidate {
	ranked := make([]models.CaptainCandidate, 0, len(players))
	for _, player := range players {
		if player.Score <= 0 || player.Salary <= 0 {
			continue
		}
		ranked = append(ranked, models.CaptainCandidate{
			Player:        player,
			Value:         player.Score / float64(player.Salary),
			CaptainSalary: models.CaptainSalary(player.Salary),
			CaptainScore:  models.CaptainScore(player.Score),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		if ranked[i].Player.Score != ranked[j].Player.Score {
			return ranked[i].Player.Score > ranked[j].Player.Score
		}
		return ranked[i].Player.ID.String() < ranked[j].Player.ID.String()
	})
	return ranked
}

// SelectCaptains picks one captain per requested lineup, rotating round-robin
// through the top viable candidates to diversify captains across the batch.
func (s *CaptainSelector) SelectCaptains(players []models.Player, count, salaryCap int) ([]models.CaptainCandidate, error) {
	ranked := s.RankCandidates(players)

	viable := make([]models.CaptainCandidate, 0, captainRotationSize)
	for _, candidate := range ranked {
		if len(viable) == captainRotationSize {
			break
		}
		if isViable(candidate, players, salaryCap) {
			viable = append(viable, candidate)
		}
	}
	if len(viable) == 0 {
		return nil, &CaptainSelectionError{SalaryCap: salaryCap, Candidates: len(ranked)}
	}

	captains := make([]models.CaptainCandidate, count)
	usage := make(map[string]int, len(viable))
	for i := range captains {
		captains[i] = viable[i%len(viable)]
		usage[captains[i].Player.Name]++
	}

	s.logger.WithFields(logrus.Fields{
		"viable_candidates": len(viable),
		"captain_usage":     usage,
	}).Info("Selected captains for batch")

	return captains, nil
}

// LockedCaptain validates a caller-locked captain. The budget check runs
// before any lineup model is built or solved, and a failure is final: no
// automatic selection is attempted in its place.
func (s *CaptainSelector) LockedCaptain(players []models.Player, captainID uuid.UUID, salaryCap int) (models.CaptainCandidate, error) {
	for _, player := range players {
		if player.ID != captainID {
			continue
		}
		candidate := models.CaptainCandidate{
			Player:        player,
			CaptainSalary: models.CaptainSalary(player.Salary),
			CaptainScore:  models.CaptainScore(player.Score),
		}
		if player.Salary > 0 {
			candidate.Value = player.Score / float64(player.Salary)
		}

		minFlex, enough := minFlexBudget(players, player.ID)
		if !enough {
			return models.CaptainCandidate{}, &LockedCaptainInfeasibleError{
				CaptainID: captainID,
				Reason:    fmt.Sprintf("fewer than %d other players in the pool", flexSlotCount),
			}
		}
		remaining := salaryCap - candidate.CaptainSalary
		if remaining < minFlex {
			return models.CaptainCandidate{}, &LockedCaptainInfeasibleError{
				CaptainID:       captainID,
				CaptainSalary:   candidate.CaptainSalary,
				RemainingBudget: remaining,
				MinFlexBudget:   minFlex,
			}
		}
		return candidate, nil
	}
	return models.CaptainCandidate{}, &LockedCaptainInfeasibleError{
		CaptainID: captainID,
		Reason:    "player not in eligible pool",
	}
}

// isViable reports whether a candidate leaves enough budget under the cap to
// fill the five FLEX slots with the cheapest remaining players.
func isViable(candidate models.CaptainCandidate, players []models.Player, salaryCap int) bool {
	minFlex, enough := minFlexBudget(players, candidate.Player.ID)
	if !enough {
		return false
	}
	return salaryCap-candidate.CaptainSalary >= minFlex
}

// minFlexBudget is the sum of the five cheapest base salaries among the
// other players in the pool. The second return is false when fewer than five
// other players exist.
func minFlexBudget(players []models.Player, captainID uuid.UUID) (int, bool) {
	salaries := make([]int, 0, len(players))
	for _, player := range players {
		if player.ID == captainID {
			continue
		}
		salaries = append(salaries, player.Salary)
	}
	if len(salaries) < flexSlotCount {
		return 0, false
	}
	sort.Ints(salaries)
	total := 0
	for _, salary := range salaries[:flexSlotCount] {
		total += salary
	}
	return total, true
}

// poolHash fingerprints the pool's member set and pricing for memo keying
func poolHash(players []models.Player) string {
	lines := make([]string, 0, len(players))
	for _, player := range players {
		lines = append(lines, fmt.Sprintf("%s:%d:%g", player.ID, player.Salary, player.Score))
	}
	sort.Strings(lines)
	return fmt.Sprintf("%x", md5.Sum([]byte(strings.Join(lines, "\n"))))
}
