package milp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_BinaryKnapsack(t *testing.T) {
	// maximize 3x + 2y subject to x + y <= 1
	m := NewModel("knapsack")
	x := m.AddBinary("x")
	y := m.AddBinary("y")
	m.AddConstraint("cap", "one_of", Expr{}.Plus(x, 1).Plus(y, 1), LessEq, 1)
	m.Maximize(Expr{}.Plus(x, 3).Plus(y, 2))

	sol, err := Solve(m, SolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 3, sol.Objective, 1e-9)
	assert.True(t, sol.Bool(x))
	assert.False(t, sol.Bool(y))
}

func TestSolve_FractionalRelaxationForcesBranching(t *testing.T) {
	// maximize x1 + x2 subject to 2x1 + 2x2 <= 3; the LP relaxation sits
	// at 1.5, the best integer solution at 1.
	m := NewModel("branch")
	x1 := m.AddBinary("x1")
	x2 := m.AddBinary("x2")
	m.AddConstraint("cap", "pair", Expr{}.Plus(x1, 2).Plus(x2, 2), LessEq, 3)
	m.Maximize(Expr{}.Plus(x1, 1).Plus(x2, 1))

	sol, err := Solve(m, SolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 1, sol.Objective, 1e-9)
	assert.NotEqual(t, sol.Bool(x1), sol.Bool(x2))
}

func TestSolve_MixedIntegerContinuous(t *testing.T) {
	// p can only carry value when its indicator is on (big-M link), and the
	// indicator costs 1 against p's value of 2 per unit up to 4.
	m := NewModel("mixed")
	on := m.AddBinary("on")
	p := m.AddContinuous("p")
	m.AddConstraint("link", "p_le_4on", Expr{}.Plus(p, 1).Plus(on, -4), LessEq, 0)
	m.Maximize(Expr{}.Plus(p, 2).Plus(on, -1))

	sol, err := Solve(m, SolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.True(t, sol.Bool(on))
	assert.InDelta(t, 4, sol.Value(p), 1e-6)
	assert.InDelta(t, 7, sol.Objective, 1e-6)
}

func TestSolve_Infeasible(t *testing.T) {
	m := NewModel("infeasible")
	x := m.AddBinary("x")
	m.AddConstraint("a", "x_ge_1", Expr{}.Plus(x, 1), GreaterEq, 1)
	m.AddConstraint("b", "x_le_0", Expr{}.Plus(x, 1), LessEq, 0)
	m.Maximize(Expr{}.Plus(x, 1))

	_, err := Solve(m, SolveOptions{})
	var solveErr *SolveError
	require.ErrorAs(t, err, &solveErr)
	assert.Equal(t, StatusInfeasible, solveErr.Status)
}

func TestSolve_UnboundedContinuous(t *testing.T) {
	m := NewModel("unbounded")
	p := m.AddContinuous("p")
	q := m.AddContinuous("q")
	m.AddConstraint("tie", "q_le_p", Expr{}.Plus(q, 1).Plus(p, -1), LessEq, 0)
	m.Maximize(Expr{}.Plus(p, 1))

	_, err := Solve(m, SolveOptions{})
	var solveErr *SolveError
	require.ErrorAs(t, err, &solveErr)
	assert.Equal(t, StatusUnbounded, solveErr.Status)
}

func TestSolve_EmptyModel(t *testing.T) {
	m := NewModel("empty")
	sol, err := Solve(m, SolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.Zero(t, sol.Objective)
}

func TestSolve_EqualityConstraint(t *testing.T) {
	// p must equal 5 exactly when sel is on, 0 otherwise; selecting is
	// worth 3.
	m := NewModel("equality")
	sel := m.AddBinary("sel")
	p := m.AddContinuous("p")
	m.AddConstraint("complete", "p_eq_5sel", Expr{}.Plus(p, 1).Plus(sel, -5), Equal, 0)
	m.AddConstraint("cap", "p_le_8", Expr{}.Plus(p, 1), LessEq, 8)
	m.Maximize(Expr{}.Plus(sel, 3))

	sol, err := Solve(m, SolveOptions{})
	require.NoError(t, err)
	assert.True(t, sol.Bool(sel))
	assert.InDelta(t, 5, sol.Value(p), 1e-6)
}

func TestSolve_GenerousTimeLimitStillProvesOptimal(t *testing.T) {
	m := NewModel("timed")
	x := m.AddBinary("x")
	m.AddConstraint("cap", "x_le_1", Expr{}.Plus(x, 1), LessEq, 1)
	m.Maximize(Expr{}.Plus(x, 2))

	sol, err := Solve(m, SolveOptions{TimeLimit: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 2, sol.Objective, 1e-9)
}

func TestSolve_TinyTimeLimitSurfacesFeasibleIncumbent(t *testing.T) {
	// The root node always completes, and its dive turns the fractional
	// relaxation into an integral incumbent before the deadline trips.
	// Without AcceptIncumbent that incumbent is still reported as failure.
	m := NewModel("timeout")
	x1 := m.AddBinary("x1")
	x2 := m.AddBinary("x2")
	m.AddConstraint("cap", "pair", Expr{}.Plus(x1, 2).Plus(x2, 2), LessEq, 3)
	m.Maximize(Expr{}.Plus(x1, 1).Plus(x2, 1))

	_, err := Solve(m, SolveOptions{TimeLimit: time.Nanosecond})
	var solveErr *SolveError
	require.ErrorAs(t, err, &solveErr)
	assert.Equal(t, StatusFeasible, solveErr.Status)
}

func TestSolve_TinyTimeLimitWithAcceptIncumbentReturnsPlan(t *testing.T) {
	m := NewModel("timeout_accept")
	x1 := m.AddBinary("x1")
	x2 := m.AddBinary("x2")
	m.AddConstraint("cap", "pair", Expr{}.Plus(x1, 2).Plus(x2, 2), LessEq, 3)
	m.Maximize(Expr{}.Plus(x1, 1).Plus(x2, 1))

	sol, err := Solve(m, SolveOptions{TimeLimit: time.Nanosecond, AcceptIncumbent: true})
	require.NoError(t, err)
	assert.Equal(t, StatusFeasible, sol.Status)
	// The dive lands on one of the two single-task optima.
	assert.InDelta(t, 1, sol.Objective, 1e-9)
	assert.NotEqual(t, sol.Bool(x1), sol.Bool(x2))
}

func TestSolve_TimeLimitWithoutAnyIncumbentReportsNotSolved(t *testing.T) {
	// 2x = 1 holds only at x = 0.5, so the dive fails in both directions
	// and the deadline trips with nothing to return.
	m := NewModel("undived")
	x := m.AddBinary("x")
	m.AddConstraint("tie", "half", Expr{}.Plus(x, 2), Equal, 1)
	m.Maximize(Expr{}.Plus(x, 1))

	_, err := Solve(m, SolveOptions{TimeLimit: time.Nanosecond})
	var solveErr *SolveError
	require.ErrorAs(t, err, &solveErr)
	assert.Equal(t, StatusNotSolved, solveErr.Status)
}

func TestSolve_DiveIncumbentDoesNotWeakenOptimality(t *testing.T) {
	// The root relaxation of this knapsack is fractional (x2 = 2/3), so
	// the dive fires and seeds an incumbent; the search must still close
	// the gap to the root bound and prove the true maximum.
	// maximize 5x1 + 4x2 + 3x3 subject to 2x1 + 3x2 + x3 <= 5.
	m := NewModel("dive_bound")
	x1 := m.AddBinary("x1")
	x2 := m.AddBinary("x2")
	x3 := m.AddBinary("x3")
	m.AddConstraint("cap", "knap", Expr{}.Plus(x1, 2).Plus(x2, 3).Plus(x3, 1), LessEq, 5)
	m.Maximize(Expr{}.Plus(x1, 5).Plus(x2, 4).Plus(x3, 3))

	sol, err := Solve(m, SolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 9, sol.Objective, 1e-9)
	assert.True(t, sol.Bool(x1))
	assert.True(t, sol.Bool(x2))
	assert.False(t, sol.Bool(x3))
}

func TestSolveError_Message(t *testing.T) {
	err := &SolveError{Status: StatusInfeasible}
	assert.Equal(t, "solver finished with status Infeasible", err.Error())
}

func TestModel_ConstraintGroups(t *testing.T) {
	m := NewModel("groups")
	x := m.AddBinary("x")
	m.AddConstraint("capacity", "a", Expr{}.Plus(x, 1), LessEq, 1)
	m.AddConstraint("capacity", "b", Expr{}.Plus(x, 1), GreaterEq, 0)
	m.AddConstraint("skills", "c", Expr{}.Plus(x, 1), Equal, 0)

	assert.Len(t, m.ConstraintGroup("capacity"), 2)
	assert.Len(t, m.ConstraintGroup("skills"), 1)
	assert.Empty(t, m.ConstraintGroup("missing"))
	assert.Equal(t, 3, m.NumConstraints())
	assert.Equal(t, "x", m.VarName(x))
}
