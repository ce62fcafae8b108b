package showdown

import (
	"fmt"

	"github.com/google/uuid"
)

// CaptainSelectionError is fatal: no automatically ranked candidate leaves
// enough budget under the cap to fill the five FLEX slots.
type CaptainSelectionError struct {
	SalaryCap  int
	Candidates int
}

func (e *CaptainSelectionError) Error() string {
	return fmt.Sprintf("no valid captain: none of %d candidates leaves enough budget under cap %d for the minimum flex cost",
		e.Candidates, e.SalaryCap)
}

// LockedCaptainInfeasibleError is fatal and raised before any model is
// solved: the caller-locked captain leaves insufficient budget for the five
// cheapest remaining players. No fallback is attempted.
type LockedCaptainInfeasibleError struct {
	CaptainID       uuid.UUID
	Reason          string
	CaptainSalary   int
	RemainingBudget int
	MinFlexBudget   int
}

func (e *LockedCaptainInfeasibleError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("locked captain %s infeasible: %s", e.CaptainID, e.Reason)
	}
	return fmt.Sprintf("locked captain %s infeasible: remaining budget %d after captain salary %d is below minimum flex budget %d",
		e.CaptainID, e.RemainingBudget, e.CaptainSalary, e.MinFlexBudget)
}
