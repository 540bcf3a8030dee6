// Package milp provides a small mixed-integer linear programming layer:
// a model arena for binary and non-negative continuous variables with
// named, grouped linear constraints, and a branch-and-bound solver built
// on gonum's simplex method.
package milp

// Var is a dense index into a model's variable arena.
type Var int

// VarKind distinguishes continuous (>= 0) from binary {0,1} variables.
type VarKind int

const (
	Continuous VarKind = iota
	Binary
)

// Op is a constraint comparator.
type Op int

const (
	LessEq Op = iota
	GreaterEq
	Equal
)

// Term is one coefficient-variable product of a linear expression.
type Term struct {
	Var  Var
	Coef float64
}

// Expr is a linear expression. Repeated variables are allowed; their
// coefficients accumulate.
type Expr []Term

// Plus appends a term and returns the extended expression.
func (e Expr) Plus(v Var, coef float64) Expr {
	return append(e, Term{Var: v, Coef: coef})
}

// Constraint is a named linear constraint. Group ties related constraints
// together for traceability; it never affects solving.
type Constraint struct {
	Group string
	Name  string
	Expr  Expr
	Op    Op
	RHS   float64
}

// Model is one optimization problem instance. Models are built fresh per
// run and must not be solved concurrently from multiple goroutines.
type Model struct {
	name      string
	kinds     []VarKind
	varNames  []string
	cons      []Constraint
	objective Expr
}

// NewModel creates an empty model.
func NewModel(name string) *Model {
	return &Model{name: name}
}

// AddBinary adds a {0,1} variable and returns its index.
func (m *Model) AddBinary(name string) Var {
	m.kinds = append(m.kinds, Binary)
	m.varNames = append(m.varNames, name)
	return Var(len(m.kinds) - 1)
}

// AddContinuous adds a continuous variable bounded below by zero.
func (m *Model) AddContinuous(name string) Var {
	m.kinds = append(m.kinds, Continuous)
	m.varNames = append(m.varNames, name)
	return Var(len(m.kinds) - 1)
}

// AddConstraint records expr op rhs under the given group and name.
func (m *Model) AddConstraint(group, name string, expr Expr, op Op, rhs float64) {
	m.cons = append(m.cons, Constraint{Group: group, Name: name, Expr: expr, Op: op, RHS: rhs})
}

// Maximize sets the objective. Calling it again replaces the previous one.
func (m *Model) Maximize(expr Expr) {
	m.objective = expr
}

// NumVars returns the number of variables in the arena.
func (m *Model) NumVars() int { return len(m.kinds) }

// NumConstraints returns the number of recorded constraints.
func (m *Model) NumConstraints() int { return len(m.cons) }

// VarName returns the name a variable was registered under.
func (m *Model) VarName(v Var) string { return m.varNames[v] }

// ConstraintGroup returns the constraints recorded under a group, in
// insertion order.
func (m *Model) ConstraintGroup(group string) []Constraint {
	var out []Constraint
	for _, c := range m.cons {
		if c.Group == group {
			out = append(out, c)
		}
	}
	return out
}

// objectiveCoefs densifies the objective into one coefficient per variable.
func (m *Model) objectiveCoefs() []float64 {
	coefs := make([]float64, len(m.kinds))
	for _, t := range m.objective {
		coefs[t.Var] += t.Coef
	}
	return coefs
}

// binaries returns the indices of all binary variables.
func (m *Model) binaries() []Var {
	var out []Var
	for i, k := range m.kinds {
		if k == Binary {
			out = append(out, Var(i))
		}
	}
	return out
}
