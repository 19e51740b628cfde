// Package unify implements most-general unification between atoms
// under a two-sided substitution, and offset-based substitution
// application over the term algebra. This is the "unifier" contract
// spec.md §6 says the inlining engine consumes rather than
// implements — the design note in spec.md §9 asks for a "small
// enumerated Side{Target, Source} with an offset map" in place of the
// original's integer tags 0/1, which is what this package provides.
package unify

import "dlinline/term"

// Side identifies which rule (target or source) a variable, before
// renaming, came from. Resolving `tgt.tail[i]` against `src.head`
// needs two atoms' variables to live in disjoint spaces even though
// both start their numbering at 0; Side plus an offset map keeps that
// explicit instead of folding it into a bare integer tag.
type Side int

const (
	Target Side = iota
	Source
)

// Subst is a two-sided substitution: a binding environment for
// (Side, Var) pairs, plus the per-side offsets used to keep target and
// source variables from colliding. Storage can be reused across calls
// (spec.md §5): Reset clears bindings without reallocating the
// backing map.
type Subst struct {
	offset  [2]int
	binding map[key]bindingValue
}

type key struct {
	side Side
	v    term.Var
}

// NewSubst allocates an empty substitution.
func NewSubst() *Subst {
	return &Subst{binding: make(map[key]bindingValue)}
}

// Reset clears all bindings and offsets, readying the substitution for
// reuse in the next unification.
func (s *Subst) Reset() {
	for k := range s.binding {
		delete(s.binding, k)
	}
	s.offset = [2]int{0, 0}
}

// SetOffsets records the per-side offsets used when a variable's
// side-local index is turned into a globally unique index by Apply.
// spec.md §4.1 step 3 uses offsets {0, vmax+1}.
func (s *Subst) SetOffsets(target, source int) {
	s.offset[Target] = target
	s.offset[Source] = source
}

func (s *Subst) bind(side Side, v term.Var, bv bindingValue) {
	s.binding[key{side, v}] = bv
}

func (s *Subst) lookup(side Side, v term.Var) (bindingValue, bool) {
	bv, ok := s.binding[key{side, v}]
	return bv, ok
}

// bindingValue tags a bound term with the side it belongs to, so
// derefIn can resume dereferencing chains that cross from target to
// source space or vice versa.
type bindingValue struct {
	side Side
	t    term.Term
}

// Unify attempts to unify atom `a` (from side sideA) with atom `b`
// (from side sideB) under subst, which must be fresh or Reset (and
// optionally offset) beforehand. It returns false, leaving subst
// partially populated, on failure — a failed subst must not be used
// for another attempt until it is Reset.
func Unify(a *term.Atom, sideA Side, b *term.Atom, sideB Side, subst *Subst) bool {
	if a.Pred != b.Pred {
		return false
	}
	for i := range a.Args {
		if !unifyTerm(a.Args[i], sideA, b.Args[i], sideB, subst) {
			return false
		}
	}
	return true
}

func unifyTerm(x term.Term, sx Side, y term.Term, sy Side, subst *Subst) bool {
	sx, x = derefIn(x, sx, subst)
	sy, y = derefIn(y, sy, subst)

	xv, xIsVar := x.(term.Var)
	yv, yIsVar := y.(term.Var)

	switch {
	case xIsVar && yIsVar && sx == sy && xv == yv:
		return true
	case xIsVar:
		if occurs(xv, sx, y, sy, subst) {
			return false
		}
		subst.bind(sx, xv, bindingValue{sy, y})
		return true
	case yIsVar:
		if occurs(yv, sy, x, sx, subst) {
			return false
		}
		subst.bind(sy, yv, bindingValue{sx, x})
		return true
	}

	switch xt := x.(type) {
	case term.Const:
		yt, ok := y.(term.Const)
		return ok && xt.Value == yt.Value
	case term.Fn:
		yt, ok := y.(term.Fn)
		if !ok || xt.Sym != yt.Sym || len(xt.Args) != len(yt.Args) {
			return false
		}
		for i := range xt.Args {
			if !unifyTerm(xt.Args[i], sx, yt.Args[i], sy, subst) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func derefIn(t term.Term, side Side, subst *Subst) (Side, term.Term) {
	for {
		v, ok := t.(term.Var)
		if !ok {
			return side, t
		}
		bound, ok := subst.lookup(side, v)
		if !ok {
			return side, v
		}
		side, t = bound.side, bound.t
	}
}

func occurs(v term.Var, vSide Side, t term.Term, tSide Side, subst *Subst) bool {
	tSide, t = derefIn(t, tSide, subst)
	switch x := t.(type) {
	case term.Var:
		return tSide == vSide && x == v
	case term.Fn:
		for _, a := range x.Args {
			if occurs(v, vSide, a, tSide, subst) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Apply resolves t (belonging to the given side) fully under subst and
// renumbers its variables into the shared global space using the
// side's offset, so that a target-side variable 3 and a source-side
// variable 3 come out as distinct variables in the result.
func Apply(t term.Term, side Side, subst *Subst) term.Term {
	side, t = derefIn(t, side, subst)
	switch x := t.(type) {
	case term.Var:
		return term.Var(int(x) + subst.offset[side])
	case term.Const:
		return x
	case term.Fn:
		args := make([]term.Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = Apply(a, side, subst)
		}
		return term.Fn{Sym: x.Sym, Args: args}
	case term.Cmp:
		return term.Cmp{Op: x.Op, L: Apply(x.L, side, subst), R: Apply(x.R, side, subst)}
	case term.Not:
		return term.Not{X: Apply(x.X, side, subst).(term.BoolExpr)}
	case term.And:
		xs := make([]term.BoolExpr, len(x.Xs))
		for i, e := range x.Xs {
			xs[i] = Apply(e, side, subst).(term.BoolExpr)
		}
		return term.And{Xs: xs}
	case term.Or:
		xs := make([]term.BoolExpr, len(x.Xs))
		for i, e := range x.Xs {
			xs[i] = Apply(e, side, subst).(term.BoolExpr)
		}
		return term.Or{Xs: xs}
	case term.BoolConst:
		return x
	case term.Quantified:
		vars := make([]term.Var, len(x.Vars))
		for i, v := range x.Vars {
			vars[i] = Apply(v, side, subst).(term.Var)
		}
		return term.Quantified{Kind: x.Kind, Vars: vars, Body: Apply(x.Body, side, subst).(term.BoolExpr)}
	default:
		return t
	}
}

// ApplyAtom applies Apply to every argument of a, returning a new atom
// over the same predicate.
func ApplyAtom(a *term.Atom, side Side, subst *Subst) *term.Atom {
	args := make([]term.Term, len(a.Args))
	for i, arg := range a.Args {
		args[i] = Apply(arg, side, subst)
	}
	return &term.Atom{Pred: a.Pred, Args: args}
}
