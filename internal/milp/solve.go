package milp

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	// intTol is the distance from an integer within which a relaxed binary
	// counts as integral.
	intTol = 1e-6
	// objTol breaks ties between incumbent objective values.
	objTol = 1e-9
	// simplexTol is handed to gonum's simplex.
	simplexTol = 1e-10
)

// SolveOptions bound a solve attempt. A zero TimeLimit means unbounded
// search. The deadline is checked after each branch-and-bound node, so a
// run can overshoot the limit by the duration of the relaxations in
// flight; the first node always completes, including the incumbent dive,
// so a time-boxed run on a feasible model normally has a solution to
// report. AcceptIncumbent turns a time-limited feasible-but-unproven
// result into a success with StatusFeasible instead of a SolveError.
type SolveOptions struct {
	TimeLimit       time.Duration
	AcceptIncumbent bool
}

// Solution holds the variable values of an accepted solve.
type Solution struct {
	Status    Status
	Objective float64
	values    []float64
}

// Value returns the solved value of a variable.
func (s *Solution) Value(v Var) float64 {
	if int(v) >= len(s.values) {
		return 0
	}
	return s.values[v]
}

// Bool reads a binary variable.
func (s *Solution) Bool(v Var) bool { return s.Value(v) > 0.5 }

type relaxOutcome int

const (
	relaxOptimal relaxOutcome = iota
	relaxInfeasible
	relaxUnbounded
)

// Solve runs branch-and-bound on the model's binary variables, solving
// each node's LP relaxation with the simplex method. Branching is
// deterministic: the most fractional binary (lowest index on ties), the
// value its relaxation leans toward explored first. A rounding dive from
// the first fractional node seeds the incumbent bound.
func Solve(m *Model, opts SolveOptions) (*Solution, error) {
	if m.NumVars() == 0 {
		return &Solution{Status: StatusOptimal}, nil
	}

	start := time.Now()
	obj := m.objectiveCoefs()
	bins := m.binaries()

	type incumbent struct {
		objective float64
		values    []float64
	}
	var best *incumbent
	timedOut := false

	// DFS over partial assignments of the binary variables. The deadline
	// check skips the root so the first node always runs to completion,
	// dive included.
	stack := []map[Var]float64{{}}
	root := true
	for len(stack) > 0 {
		if !root && opts.TimeLimit > 0 && time.Since(start) > opts.TimeLimit {
			timedOut = true
			break
		}
		root = false

		fixed := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nodeObj, x, outcome, err := m.solveRelaxation(obj, bins, fixed)
		if err != nil {
			return nil, &SolveError{Status: StatusUndefined, Err: err}
		}
		switch outcome {
		case relaxInfeasible:
			continue
		case relaxUnbounded:
			return nil, &SolveError{Status: StatusUnbounded}
		}

		// The relaxation value bounds every integer solution below this
		// node; prune when it cannot beat the incumbent.
		if best != nil && nodeObj <= best.objective+objTol {
			continue
		}

		branch := mostFractional(x, bins, fixed)
		if branch < 0 {
			best = &incumbent{objective: nodeObj, values: snapBinaries(x, bins)}
			continue
		}

		// Until the search finds an integral node on its own, dive from
		// the fractional point for an incumbent: it seeds the pruning
		// bound and guarantees a time-boxed run has a solution to return.
		if best == nil {
			dObj, dVals, ok, err := m.dive(obj, bins, fixed, x)
			if err != nil {
				return nil, &SolveError{Status: StatusUndefined, Err: err}
			}
			if ok {
				best = &incumbent{objective: dObj, values: dVals}
				if nodeObj <= best.objective+objTol {
					continue
				}
			}
		}

		// Explore the branch the relaxation leans toward first.
		up := cloneFixed(fixed)
		up[branch] = 1
		down := cloneFixed(fixed)
		down[branch] = 0
		if math.Round(x[branch]) == 1 {
			stack = append(stack, down, up)
		} else {
			stack = append(stack, up, down)
		}
	}

	if timedOut {
		if best == nil {
			return nil, &SolveError{Status: StatusNotSolved}
		}
		if !opts.AcceptIncumbent {
			return nil, &SolveError{Status: StatusFeasible}
		}
		return &Solution{Status: StatusFeasible, Objective: best.objective, values: best.values}, nil
	}
	if best == nil {
		return nil, &SolveError{Status: StatusInfeasible}
	}
	return &Solution{Status: StatusOptimal, Objective: best.objective, values: best.values}, nil
}

// dive rounds its way from a fractional relaxation to an integral
// solution: fix the most fractional binary to its nearest value, re-solve,
// repeat; back off to the opposite value when a fixing closes the node.
// Reports ok == false when some step is infeasible both ways.
func (m *Model) dive(obj []float64, bins []Var, fixed map[Var]float64, x []float64) (float64, []float64, bool, error) {
	cur := cloneFixed(fixed)
	cx := x
	var nodeObj float64
	for {
		branch := mostFractional(cx, bins, cur)
		if branch < 0 {
			return nodeObj, snapBinaries(cx, bins), true, nil
		}

		val := math.Round(cx[branch])
		cur[branch] = val
		o, nx, outcome, err := m.solveRelaxation(obj, bins, cur)
		if err != nil {
			return 0, nil, false, err
		}
		if outcome != relaxOptimal {
			cur[branch] = 1 - val
			o, nx, outcome, err = m.solveRelaxation(obj, bins, cur)
			if err != nil {
				return 0, nil, false, err
			}
			if outcome != relaxOptimal {
				return 0, nil, false, nil
			}
		}
		nodeObj, cx = o, nx
	}
}

// solveRelaxation solves the LP relaxation of the model under the given
// binary fixings and returns the maximized objective value.
func (m *Model) solveRelaxation(obj []float64, bins []Var, fixed map[Var]float64) (float64, []float64, relaxOutcome, error) {
	n := m.NumVars()

	slackCount := 0
	for _, c := range m.cons {
		if c.Op != Equal {
			slackCount++
		}
	}
	unfixed := 0
	for _, v := range bins {
		if _, ok := fixed[v]; !ok {
			unfixed++
		}
	}

	rows := len(m.cons) + len(bins)
	cols := n + slackCount + unfixed

	if rows == 0 {
		// Continuous variables with no constraints: anything with a
		// positive objective coefficient runs away.
		for _, coef := range obj {
			if coef > 0 {
				return 0, nil, relaxUnbounded, nil
			}
		}
		return 0, make([]float64, n), relaxOptimal, nil
	}

	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)

	slack := n
	for r, c := range m.cons {
		for _, t := range c.Expr {
			a.Set(r, int(t.Var), a.At(r, int(t.Var))+t.Coef)
		}
		switch c.Op {
		case LessEq:
			a.Set(r, slack, 1)
			slack++
		case GreaterEq:
			a.Set(r, slack, -1)
			slack++
		}
		b[r] = c.RHS
	}

	// One row per binary: either fixed to its branch value or bounded by
	// one with a slack.
	r := len(m.cons)
	for _, v := range bins {
		if val, ok := fixed[v]; ok {
			a.Set(r, int(v), 1)
			b[r] = val
		} else {
			a.Set(r, int(v), 1)
			a.Set(r, slack, 1)
			slack++
			b[r] = 1
		}
		r++
	}

	// Simplex phase one wants non-negative right-hand sides; equality rows
	// negate freely.
	for r := 0; r < rows; r++ {
		if b[r] < 0 {
			b[r] = -b[r]
			for c := 0; c < cols; c++ {
				a.Set(r, c, -a.At(r, c))
			}
		}
	}

	// Minimize the negated objective to maximize.
	c := make([]float64, cols)
	for i := 0; i < n; i++ {
		c[i] = -obj[i]
	}

	optF, x, err := lp.Simplex(c, a, b, simplexTol, nil)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return 0, nil, relaxInfeasible, nil
		case errors.Is(err, lp.ErrUnbounded):
			return 0, nil, relaxUnbounded, nil
		default:
			return 0, nil, relaxOptimal, err
		}
	}
	return -optF, x[:n], relaxOptimal, nil
}

// mostFractional picks the unfixed binary farthest from an integer, or -1
// when the relaxation is integral on every binary.
func mostFractional(x []float64, bins []Var, fixed map[Var]float64) Var {
	branch := Var(-1)
	worst := intTol
	for _, v := range bins {
		if _, ok := fixed[v]; ok {
			continue
		}
		frac := math.Abs(x[v] - math.Round(x[v]))
		if frac > worst {
			worst = frac
			branch = v
		}
	}
	return branch
}

// snapBinaries copies the relaxation values with binaries rounded exact.
func snapBinaries(x []float64, bins []Var) []float64 {
	values := make([]float64, len(x))
	copy(values, x)
	for _, v := range bins {
		values[v] = math.Round(values[v])
	}
	return values
}

func cloneFixed(fixed map[Var]float64) map[Var]float64 {
	out := make(map[Var]float64, len(fixed)+1)
	for k, v := range fixed {
		out[k] = v
	}
	return out
}
