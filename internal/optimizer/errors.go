package optimizer

import (
	"errors"
	"fmt"
)

// Internal control-flow signals for the relaxation loop. They never escape
// the optimizer: callers only ever see the fatal error types below.
var (
	errPortfolioInfeasible = errors.New("portfolio model infeasible")
	errRelaxationExhausted = errors.New("relaxation exhausted")
)

// BaselineInfeasibleError is fatal: a single lineup cannot be built under the
// baseline salary/position/team/game/stacking constraints, independent of any
// elite appearance target.
type BaselineInfeasibleError struct {
	Reason      string
	SalaryCap   int
	SalaryFloor int
}

func (e *BaselineInfeasibleError) Error() string {
	return fmt.Sprintf("baseline lineup infeasible: %s (salary floor %d, cap %d)",
		e.Reason, e.SalaryFloor, e.SalaryCap)
}

// ConfigError is fatal: the request configuration is inconsistent
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}
