// Package solver provides a binary-program model with a tagged constraint
// registry and a deterministic branch-and-bound engine for solving it.
package solver

import (
	"fmt"
	"math"
)

// ConstraintTag classifies a constraint family
type ConstraintTag string

const (
	TagSalary          ConstraintTag = "salary"
	TagPosition        ConstraintTag = "position"
	TagTeam            ConstraintTag = "team"
	TagGame            ConstraintTag = "game"
	TagStacking        ConstraintTag = "stacking"
	TagUniqueness      ConstraintTag = "uniqueness"
	TagEliteAppearance ConstraintTag = "elite_appearance"
)

// Bounds sentinels for one-sided constraints
var (
	NoMin = math.Inf(-1)
	NoMax = math.Inf(1)
)

// VarID indexes a binary decision variable within a model
type VarID int

// Variable is a binary decision variable. ExclusionKey groups variables that
// are mutually exclusive on the search path (e.g., the same player offered to
// several slots of one lineup); the solver allows at most one active variable
// per non-empty key.
type Variable struct {
	Name         string
	ExclusionKey string
}

// Term is one weighted variable of a linear constraint
type Term struct {
	Var   VarID
	Coeff float64
}

// Constraint is a linear constraint Min <= sum(terms) <= Max with a stable
// identifier and a tag, so it can be removed from a live model in O(1).
// Position and Rank are populated for elite appearance constraints only.
type Constraint struct {
	ID       string
	Tag      ConstraintTag
	Terms    []Term
	Min      float64
	Max      float64
	Position string
	Rank     int
}

// Cell is one decision point of the search plan: exactly one candidate
// variable must be selected. Cells sharing a non-empty Group must select
// candidates at strictly increasing ordinal positions, which removes
// permutation symmetry between interchangeable slots.
type Cell struct {
	Label      string
	Group      string
	Candidates []VarID
}

// Model holds the variables, objective, constraints, and decision plan of one
// optimization problem. A model is built once per solve attempt; constraint
// removal is the only supported mutation after construction.
type Model struct {
	vars        []Variable
	objective   []float64
	constraints map[string]*Constraint
	order       []string
	cells       []Cell
}

// NewModel creates an empty model
func NewModel() *Model {
	return &Model{
		constraints: make(map[string]*Constraint),
	}
}

// AddVariable registers a binary variable and returns its id
func (m *Model) AddVariable(name, exclusionKey string) VarID {
	id := VarID(len(m.vars))
	m.vars = append(m.vars, Variable{Name: name, ExclusionKey: exclusionKey})
	m.objective = append(m.objective, 0)
	return id
}

// SetObjectiveCoeff sets the maximization coefficient for a variable
func (m *Model) SetObjectiveCoeff(v VarID, coeff float64) {
	m.objective[v] = coeff
}

// ObjectiveCoeff returns the maximization coefficient for a variable
func (m *Model) ObjectiveCoeff(v VarID) float64 {
	return m.objective[v]
}

// AddCell appends a decision cell to the search plan. Cells are explored in
// insertion order; candidate order determines exploration order and must be
// deterministic for reproducible solves.
func (m *Model) AddCell(label, group string, candidates []VarID) {
	m.cells = append(m.cells, Cell{Label: label, Group: group, Candidates: candidates})
}

// AddConstraint registers a constraint under its id
func (m *Model) AddConstraint(c Constraint) error {
	if c.ID == "" {
		return fmt.Errorf("constraint must have an id")
	}
	if _, exists := m.constraints[c.ID]; exists {
		return fmt.Errorf("duplicate constraint id: %s", c.ID)
	}
	if c.Min > c.Max {
		return fmt.Errorf("constraint %s has min %v above max %v", c.ID, c.Min, c.Max)
	}
	stored := c
	m.constraints[c.ID] = &stored
	m.order = append(m.order, c.ID)
	return nil
}

// RemoveConstraint removes a constraint by id, reporting whether it existed
func (m *Model) RemoveConstraint(id string) bool {
	if _, exists := m.constraints[id]; !exists {
		return false
	}
	delete(m.constraints, id)
	for i, cid := range m.order {
		if cid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// HasConstraint reports whether a constraint id is registered
func (m *Model) HasConstraint(id string) bool {
	_, exists := m.constraints[id]
	return exists
}

// Constraint returns a registered constraint by id
func (m *Model) Constraint(id string) (*Constraint, bool) {
	c, exists := m.constraints[id]
	return c, exists
}

// Constraints returns all constraints in insertion order
func (m *Model) Constraints() []*Constraint {
	out := make([]*Constraint, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.constraints[id])
	}
	return out
}

// NumVariables returns the number of registered variables
func (m *Model) NumVariables() int {
	return len(m.vars)
}

// NumConstraints returns the number of registered constraints
func (m *Model) NumConstraints() int {
	return len(m.constraints)
}

// NumCells returns the number of decision cells
func (m *Model) NumCells() int {
	return len(m.cells)
}

// VariableName returns the name a variable was registered with
func (m *Model) VariableName(v VarID) string {
	return m.vars[v].Name
}
