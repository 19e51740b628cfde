package interp

import (
	"github.com/irifrance/gini"
	"github.com/irifrance/gini/z"
)

// GiniSolver is a Solver backed by github.com/irifrance/gini, adapted
// from marco.GiniSolver: instead of the caller's own rule ids
// standing in for SAT variables, the variables here are Tseitin ids
// assigned by the simplifier's literal encoder.
type GiniSolver struct {
	solver   *gini.Gini
	vars     IntSet
	varToLit map[int]int
}

// NewGiniSolver returns a GiniSolver whose SAT variables are exactly
// the elements of vars.
func NewGiniSolver(vars IntSet) *GiniSolver {
	varToLit := make(map[int]int)
	slice := vars.ToSlice()
	for i, v := range slice {
		varToLit[v] = i + 1
	}
	return &GiniSolver{
		solver:   gini.NewV(len(slice)),
		vars:     vars,
		varToLit: varToLit,
	}
}

func (s *GiniSolver) Solve() bool {
	return s.solver.Solve() == 1
}

func (s *GiniSolver) AddClause(vs IntSet) {
	for v := range vs.Iter() {
		if v < 0 {
			lit := s.varToLit[-v]
			s.solver.Add(z.Var(lit).Neg())
		} else if v > 0 {
			lit := s.varToLit[v]
			s.solver.Add(z.Var(lit).Pos())
		} else {
			panic("interp: propositional variable cannot be zero")
		}
	}
	s.solver.Add(0)
}
