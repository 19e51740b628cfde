package interp

import (
	"github.com/crillab/gophersat/solver"
)

// GopherSolver is a Solver backed by github.com/crillab/gophersat's
// solver subpackage, adapted from marco.GopherSolver the same way
// GiniSolver adapts marco.GiniSolver.
type GopherSolver struct {
	solver   *solver.Solver
	varToLit map[int]int
}

// NewGopherSolver returns a GopherSolver whose SAT variables are
// exactly the elements of vars.
func NewGopherSolver(vars IntSet) *GopherSolver {
	varToLit := make(map[int]int)
	litToVar := make(map[int]int)

	for i, v := range vars.ToSlice() {
		varToLit[v] = i + 1
		litToVar[i+1] = v
	}

	clauses := [][]int{}
	for lit := range litToVar {
		clauses = append(clauses, []int{lit, -lit})
	}
	pb := solver.ParseSlice(clauses)
	return &GopherSolver{
		solver:   solver.New(pb),
		varToLit: varToLit,
	}
}

func (s *GopherSolver) Solve() bool {
	return s.solver.Solve() == solver.Sat
}

func (s *GopherSolver) AddClause(vars IntSet) {
	lits := make([]solver.Lit, 0, vars.Cardinality())
	for v := range vars.Iter() {
		if v > 0 {
			lit := int32(s.varToLit[v])
			lits = append(lits, solver.IntToLit(lit))
		} else {
			lit := int32(s.varToLit[-v])
			lits = append(lits, solver.IntToLit(lit).Negation())
		}
	}
	clause := solver.NewClause(lits)
	s.solver.AppendClause(clause)
}
