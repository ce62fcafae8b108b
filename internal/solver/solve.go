package solver

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/portfolio-optimizer/pkg/logger"
)

// Status is the outcome of a solve attempt
type Status string

const (
	StatusOptimal    Status = "optimal"
	StatusInfeasible Status = "infeasible"
)

// ErrNodeLimit is returned when the node budget runs out before any feasible
// assignment is found. It is not an infeasibility verdict.
var ErrNodeLimit = errors.New("node limit exceeded before finding a feasible solution")

const (
	boundsEps     = 1e-6
	objImproveEps = 1e-9
)

// SolveStats captures search effort for observability
type SolveStats struct {
	NodesExplored    int64         `json:"nodes_explored"`
	BoundPrunes      int64         `json:"bound_prunes"`
	ConstraintPrunes int64         `json:"constraint_prunes"`
	Duration         time.Duration `json:"duration"`
	Truncated        bool          `json:"truncated"`
}

// Solution is the result of a solve attempt. Values is indexed by VarID and
// only meaningful when Status is StatusOptimal.
type Solution struct {
	Status    Status
	Objective float64
	Values    []bool
	Stats     SolveStats
}

// Options tunes the search engine
type Options struct {
	// MaxNodes caps explored nodes; 0 means exhaustive search. With a cap the
	// engine may return a feasible but suboptimal incumbent (Stats.Truncated).
	MaxNodes int64
}

// Solver runs depth-first branch and bound over a model's decision plan.
// The search is deterministic: cells in plan order, candidates in the order
// the builder sorted them, first incumbent kept on objective ties.
type Solver struct {
	logger *logrus.Entry
	opts   Options
}

// New creates a solver
func New(opts Options) *Solver {
	return &Solver{
		logger: logger.WithComponent("solver"),
		opts:   opts,
	}
}

type membership struct {
	con   int
	coeff float64
}

type conState struct {
	min      float64
	max      float64
	cur      float64
	posSlack float64
	negSlack float64
}

type searchState struct {
	vars      []Variable
	objective []float64
	cells     []Cell
	cons      []conState
	varCons   [][]membership
	prevGroup []int
	suffixMax []float64
	chosenOrd []int
	chosenVar []VarID
	excluded  map[string]bool
	bestFound bool
	bestObj   float64
	bestVals  []bool
	nodes     int64
	maxNodes  int64
	truncated bool
	stats     SolveStats
}

// Solve runs the search and returns the best assignment, an infeasibility
// verdict, or ErrNodeLimit when the node budget ran out with no incumbent.
func (s *Solver) Solve(m *Model) (*Solution, error) {
	start := time.Now()

	st, err := newSearchState(m, s.opts.MaxNodes)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"variables":   m.NumVariables(),
		"constraints": m.NumConstraints(),
		"cells":       m.NumCells(),
	}).Debug("Starting solve")

	// A cell with no candidates or a constraint unsatisfiable at the root
	// means there is nothing to search.
	feasibleRoot := true
	for _, cell := range st.cells {
		if len(cell.Candidates) == 0 {
			feasibleRoot = false
			break
		}
	}
	if feasibleRoot {
		for i := range st.cons {
			if st.conDead(i) {
				feasibleRoot = false
				break
			}
		}
	}
	if feasibleRoot {
		st.dfs(0, 0)
	}

	st.stats.NodesExplored = st.nodes
	st.stats.Duration = time.Since(start)
	st.stats.Truncated = st.truncated

	if !st.bestFound {
		if st.truncated {
			return nil, ErrNodeLimit
		}
		s.logger.WithFields(logrus.Fields{
			"nodes":    st.stats.NodesExplored,
			"duration": st.stats.Duration,
		}).Debug("Solve finished infeasible")
		return &Solution{Status: StatusInfeasible, Stats: st.stats}, nil
	}

	s.logger.WithFields(logrus.Fields{
		"objective": st.bestObj,
		"nodes":     st.stats.NodesExplored,
		"duration":  st.stats.Duration,
		"truncated": st.stats.Truncated,
	}).Debug("Solve finished optimal")

	return &Solution{
		Status:    StatusOptimal,
		Objective: st.bestObj,
		Values:    st.bestVals,
		Stats:     st.stats,
	}, nil
}

func newSearchState(m *Model, maxNodes int64) (*searchState, error) {
	st := &searchState{
		vars:      m.vars,
		objective: m.objective,
		cells:     m.cells,
		excluded:  make(map[string]bool),
		maxNodes:  maxNodes,
	}

	// Every variable must belong to exactly one cell so that closing cells
	// fully decides the model.
	cellCount := make([]int, len(m.vars))
	for _, cell := range m.cells {
		for _, v := range cell.Candidates {
			cellCount[v]++
		}
	}
	for v, count := range cellCount {
		if count != 1 {
			return nil, fmt.Errorf("variable %s appears in %d cells, want exactly 1", m.vars[v].Name, count)
		}
	}

	st.cons = make([]conState, 0, len(m.order))
	st.varCons = make([][]membership, len(m.vars))
	for _, id := range m.order {
		c := m.constraints[id]
		state := conState{min: c.Min, max: c.Max}
		idx := len(st.cons)
		for _, term := range c.Terms {
			if term.Coeff == 0 {
				continue
			}
			if term.Coeff > 0 {
				state.posSlack += term.Coeff
			} else {
				state.negSlack += term.Coeff
			}
			st.varCons[term.Var] = append(st.varCons[term.Var], membership{con: idx, coeff: term.Coeff})
		}
		st.cons = append(st.cons, state)
	}

	st.prevGroup = make([]int, len(m.cells))
	lastInGroup := make(map[string]int)
	for i, cell := range m.cells {
		st.prevGroup[i] = -1
		if cell.Group != "" {
			if prev, seen := lastInGroup[cell.Group]; seen {
				st.prevGroup[i] = prev
			}
			lastInGroup[cell.Group] = i
		}
	}

	st.suffixMax = make([]float64, len(m.cells)+1)
	for i := len(m.cells) - 1; i >= 0; i-- {
		best := 0.0
		for j, v := range m.cells[i].Candidates {
			coeff := m.objective[v]
			if j == 0 || coeff > best {
				best = coeff
			}
		}
		st.suffixMax[i] = st.suffixMax[i+1] + best
	}

	st.chosenOrd = make([]int, len(m.cells))
	st.chosenVar = make([]VarID, len(m.cells))
	return st, nil
}

// conDead reports whether a constraint can no longer reach its bounds: the
// maximum achievable sum is below min, or the minimum achievable is above max.
func (st *searchState) conDead(i int) bool {
	c := &st.cons[i]
	if c.cur+c.posSlack < c.min-boundsEps {
		return true
	}
	if c.cur+c.negSlack > c.max+boundsEps {
		return true
	}
	return false
}

func (st *searchState) applyVar(v VarID, chosen bool) {
	for _, m := range st.varCons[v] {
		c := &st.cons[m.con]
		if chosen {
			c.cur += m.coeff
		}
		if m.coeff > 0 {
			c.posSlack -= m.coeff
		} else {
			c.negSlack -= m.coeff
		}
	}
}

func (st *searchState) undoVar(v VarID, chosen bool) {
	for _, m := range st.varCons[v] {
		c := &st.cons[m.con]
		if chosen {
			c.cur -= m.coeff
		}
		if m.coeff > 0 {
			c.posSlack += m.coeff
		} else {
			c.negSlack += m.coeff
		}
	}
}

func (st *searchState) dfs(cellIdx int, curObj float64) {
	if st.truncated {
		return
	}

	if cellIdx == len(st.cells) {
		for i := range st.cons {
			c := &st.cons[i]
			if c.cur < c.min-boundsEps || c.cur > c.max+boundsEps {
				return
			}
		}
		if !st.bestFound || curObj > st.bestObj+objImproveEps {
			st.bestFound = true
			st.bestObj = curObj
			if st.bestVals == nil {
				st.bestVals = make([]bool, len(st.vars))
			}
			for i := range st.bestVals {
				st.bestVals[i] = false
			}
			for i := range st.cells {
				st.bestVals[st.chosenVar[i]] = true
			}
		}
		return
	}

	// Optimistic bound: current objective plus the best candidate of every
	// remaining cell cannot beat the incumbent.
	if st.bestFound && curObj+st.suffixMax[cellIdx] <= st.bestObj+objImproveEps {
		st.stats.BoundPrunes++
		return
	}

	cell := st.cells[cellIdx]
	minOrd := 0
	if prev := st.prevGroup[cellIdx]; prev >= 0 {
		minOrd = st.chosenOrd[prev] + 1
	}

	for ord := minOrd; ord < len(cell.Candidates); ord++ {
		st.nodes++
		if st.maxNodes > 0 && st.nodes > st.maxNodes {
			st.truncated = true
			return
		}

		v := cell.Candidates[ord]
		key := st.vars[v].ExclusionKey
		if key != "" && st.excluded[key] {
			continue
		}

		// Choose v and close the cell: every other candidate becomes zero.
		st.applyVar(v, true)
		for _, w := range cell.Candidates {
			if w != v {
				st.applyVar(w, false)
			}
		}

		dead := false
		for _, w := range cell.Candidates {
			for _, m := range st.varCons[w] {
				if st.conDead(m.con) {
					dead = true
					break
				}
			}
			if dead {
				break
			}
		}

		if !dead {
			if key != "" {
				st.excluded[key] = true
			}
			st.chosenOrd[cellIdx] = ord
			st.chosenVar[cellIdx] = v
			st.dfs(cellIdx+1, curObj+st.objective[v])
			if key != "" {
				delete(st.excluded, key)
			}
		} else {
			st.stats.ConstraintPrunes++
		}

		for _, w := range cell.Candidates {
			if w != v {
				st.undoVar(w, false)
			}
		}
		st.undoVar(v, true)

		if st.truncated {
			return
		}
	}
}
