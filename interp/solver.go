// Package interp is the interpreted-tail simplifier spec.md §4.1 step
// 8 calls into: constant folding plus a SAT check of a rule's
// non-predicate tail conjuncts. The SAT check is backed by one of two
// pluggable solvers, mirroring the teacher's marco.Solver /
// marco.GiniSolver / marco.GopherSolver trio — here repurposed from
// MUS/MaxSAT enumeration to plain unsatisfiability checking of a
// Tseitin-style boolean abstraction of the tail.
package interp

import mapset "github.com/deckarep/golang-set/v2"

// IntSet is a set of signed SAT literals: positive v means the
// boolean variable v, negative v means its negation.
type IntSet mapset.Set[int]

// NewIntSet returns a new IntSet containing vals.
func NewIntSet(vals ...int) IntSet {
	return IntSet(mapset.NewSet[int](vals...))
}

// Solver is a minimal incremental SAT solver interface: add unit or
// multi-literal clauses, then check satisfiability. Both backends in
// this package (gini, gophersat) implement it.
type Solver interface {
	Solve() bool
	AddClause(IntSet)
}
