// Package rule implements the rule manager and rule-set abstraction
// spec.md §6 assumes the inlining engine can call into: rule
// construction, variable renumbering, unbound-variable handling, and
// (in ruleset.go) the stratified rule-set with its
// SCC-based stratifier.
package rule

import "dlinline/term"

// TailKind distinguishes the three kinds of tail entry spec.md §3
// describes: positive literals, negative literals, and interpreted
// conjuncts.
type TailKind int

const (
	Pos TailKind = iota
	Neg
	Interp
)

// TailLit is one entry of a rule's tail. Atom is set for Pos/Neg,
// Expr is set for Interp.
type TailLit struct {
	Kind TailKind
	Atom *term.Atom
	Expr term.BoolExpr
}

// PosLit, NegLit, and InterpLit build tail literals of each kind.
func PosLit(a *term.Atom) TailLit       { return TailLit{Kind: Pos, Atom: a} }
func NegLit(a *term.Atom) TailLit       { return TailLit{Kind: Neg, Atom: a} }
func InterpLit(e term.BoolExpr) TailLit { return TailLit{Kind: Interp, Expr: e} }

// Rule is `head :- tail`. Rules are immutable value objects once
// built by Manager.Mk; every transformation produces a new Rule
// rather than mutating one in place (spec.md §3 Lifecycle).
type Rule struct {
	ID   uint64
	Head *term.Atom
	Tail []TailLit

	// Parent is the target rule a resolvent was produced from, so a
	// proof converter can reconstruct a derivation chain rather than
	// a flat ledger (SPEC_FULL.md §4 item 1). Nil for rules that were
	// not produced by resolution.
	Parent *Rule
}

// canonicalTail reorders lits into the partition spec.md §3 requires:
// positive literals first, then negative literals, then interpreted
// conjuncts, each group keeping its relative order.
func canonicalTail(lits []TailLit) []TailLit {
	out := make([]TailLit, 0, len(lits))
	for _, l := range lits {
		if l.Kind == Pos {
			out = append(out, l)
		}
	}
	for _, l := range lits {
		if l.Kind == Neg {
			out = append(out, l)
		}
	}
	for _, l := range lits {
		if l.Kind == Interp {
			out = append(out, l)
		}
	}
	return out
}

// PositiveTailSize returns the number of positive literals in r's
// tail — the size of the "positive tail prefix" of spec.md §3.
func (r *Rule) PositiveTailSize() int {
	n := 0
	for _, l := range r.Tail {
		if l.Kind != Pos {
			break
		}
		n++
	}
	return n
}

// UninterpretedTailSize returns the number of positive plus negative
// literals in r's tail.
func (r *Rule) UninterpretedTailSize() int {
	n := 0
	for _, l := range r.Tail {
		if l.Kind == Interp {
			break
		}
		n++
	}
	return n
}

// Decl returns the predicate of the i'th uninterpreted tail literal.
func (r *Rule) Decl(i int) *term.Pred { return r.Tail[i].Atom.Pred }

// TailAtom returns the atom of the i'th uninterpreted tail literal.
func (r *Rule) TailAtom(i int) *term.Atom { return r.Tail[i].Atom }

// IsNegTail reports whether the i'th uninterpreted tail literal is
// negative.
func (r *Rule) IsNegTail(i int) bool { return r.Tail[i].Kind == Neg }

// InterpretedTail returns the interpreted (non-predicate) conjuncts of
// r's tail, in order.
func (r *Rule) InterpretedTail() []term.BoolExpr {
	var out []term.BoolExpr
	for _, l := range r.Tail {
		if l.Kind == Interp {
			out = append(out, l.Expr)
		}
	}
	return out
}

// MaxVar returns the highest variable index occurring anywhere in r,
// or -1 if r has no variables.
func (r *Rule) MaxVar() int {
	max := term.AtomMaxVar(r.Head)
	for _, l := range r.Tail {
		var m int
		if l.Kind == Interp {
			m = term.MaxVar(l.Expr)
		} else {
			m = term.AtomMaxVar(l.Atom)
		}
		if m > max {
			max = m
		}
	}
	return max
}

// HasQuantifiers reports whether any interpreted conjunct of r's tail
// carries a quantifier. Such rules are not eligible for inlining as
// either a resolution source or target (spec.md §3).
func (r *Rule) HasQuantifiers() bool {
	for _, l := range r.Tail {
		if l.Kind == Interp && term.HasQuantifiers(l.Expr) {
			return true
		}
	}
	return false
}

// collectVars appends every variable occurring in r, in first
// occurrence order (head first, then tail left to right), to out.
func (r *Rule) collectVars(out *[]term.Var) {
	term.AtomCollectVars(r.Head, out)
	for _, l := range r.Tail {
		if l.Kind == Interp {
			term.CollectVars(l.Expr, out)
		} else {
			term.AtomCollectVars(l.Atom, out)
		}
	}
}
