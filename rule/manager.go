package rule

import "dlinline/term"

// Manager owns rule construction and variable bookkeeping. It plays
// the role spec.md §6 calls "the rule manager": Mk, NormVars, and
// FixUnboundVars are the exact three operations the inlining engine
// calls into.
type Manager struct {
	nextID uint64
}

// NewManager returns a fresh rule manager with its rule-id counter at
// zero.
func NewManager() *Manager { return &Manager{} }

// Mk constructs a rule from a head and a tail, reordering the tail
// into the canonical positive/negative/interpreted partition. It does
// not renumber variables; callers normalize explicitly via NormVars,
// mirroring rule_manager::mk followed by an explicit norm_vars call in
// the source this module is grounded on.
func (m *Manager) Mk(head *term.Atom, tail []TailLit) *Rule {
	r := &Rule{
		ID:   m.nextID,
		Head: head,
		Tail: canonicalTail(tail),
	}
	m.nextID++
	return r
}

// MkResolvent is like Mk but also records provenance: parent is the
// target rule this resolvent was produced from (SPEC_FULL.md §4 item
// 1).
func (m *Manager) MkResolvent(head *term.Atom, tail []TailLit, parent *Rule) *Rule {
	r := m.Mk(head, tail)
	r.Parent = parent
	return r
}

// NormVars returns a copy of r with variables renumbered densely from
// 0, in first-occurrence order (head first, then tail left to right).
// spec.md §3 requires every rule ever added to a result set to satisfy
// this invariant.
func NormVars(r *Rule) *Rule {
	var order []term.Var
	r.collectVars(&order)
	remap := make(map[term.Var]term.Var, len(order))
	for i, v := range order {
		remap[v] = term.Var(i)
	}
	sub := renamer{remap}
	out := &Rule{
		ID:     r.ID,
		Parent: r.Parent,
		Head:   sub.atom(r.Head),
	}
	out.Tail = make([]TailLit, len(r.Tail))
	for i, l := range r.Tail {
		if l.Kind == Interp {
			out.Tail[i] = TailLit{Kind: Interp, Expr: sub.expr(l.Expr)}
		} else {
			out.Tail[i] = TailLit{Kind: l.Kind, Atom: sub.atom(l.Atom)}
		}
	}
	return out
}

// renamer applies a fixed variable-to-variable remapping across the
// term algebra; unlike unify.Apply it never needs to look anything up
// in a substitution, so it stays in this package rather than growing
// the unify package's surface.
type renamer struct{ m map[term.Var]term.Var }

func (s renamer) term(t term.Term) term.Term {
	switch x := t.(type) {
	case term.Var:
		if nv, ok := s.m[x]; ok {
			return nv
		}
		return x
	case term.Const:
		return x
	case term.Fn:
		args := make([]term.Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = s.term(a)
		}
		return term.Fn{Sym: x.Sym, Args: args}
	default:
		return t
	}
}

func (s renamer) atom(a *term.Atom) *term.Atom {
	args := make([]term.Term, len(a.Args))
	for i, arg := range a.Args {
		args[i] = s.term(arg)
	}
	return &term.Atom{Pred: a.Pred, Args: args}
}

func (s renamer) expr(e term.BoolExpr) term.BoolExpr {
	switch x := e.(type) {
	case term.Cmp:
		return term.Cmp{Op: x.Op, L: s.term(x.L), R: s.term(x.R)}
	case term.Not:
		return term.Not{X: s.expr(x.X)}
	case term.And:
		xs := make([]term.BoolExpr, len(x.Xs))
		for i, y := range x.Xs {
			xs[i] = s.expr(y)
		}
		return term.And{Xs: xs}
	case term.Or:
		xs := make([]term.BoolExpr, len(x.Xs))
		for i, y := range x.Xs {
			xs[i] = s.expr(y)
		}
		return term.Or{Xs: xs}
	case term.BoolConst:
		return x
	case term.Quantified:
		vars := make([]term.Var, len(x.Vars))
		for i, v := range x.Vars {
			vars[i] = s.term(v).(term.Var)
		}
		return term.Quantified{Kind: x.Kind, Vars: vars, Body: s.expr(x.Body)}
	default:
		return e
	}
}

// unboundHeadVars returns the head variables of r that do not occur
// anywhere else in the rule — the "unbound variable" case
// FixUnboundVars exists to handle.
func unboundHeadVars(r *Rule) []term.Var {
	var headVars []term.Var
	term.AtomCollectVars(r.Head, &headVars)

	other := make(map[term.Var]bool)
	for _, l := range r.Tail {
		var vs []term.Var
		if l.Kind == Interp {
			term.CollectVars(l.Expr, &vs)
		} else {
			term.AtomCollectVars(l.Atom, &vs)
		}
		for _, v := range vs {
			other[v] = true
		}
	}

	var out []term.Var
	for _, v := range headVars {
		if !other[v] {
			out = append(out, v)
		}
	}
	return out
}

// FixUnboundVars quantifies head variables that occur nowhere else in
// the rule, per the "(implicit) fix-unbound-vars" configuration key of
// spec.md §6. It is a no-op if r has no unbound head variables.
//
// A rule this touches carries a quantifier afterward, which per
// spec.md §3 makes it ineligible as an inlining source or target from
// that point on — that is intentional: an unbound head variable means
// the rule is unsafe to keep resolving against, so this acts as a
// stopping point rather than silently dropping the variable.
func FixUnboundVars(r *Rule) *Rule {
	unbound := unboundHeadVars(r)
	if len(unbound) == 0 {
		return r
	}
	marker := term.Quantified{Kind: term.Exists, Vars: unbound, Body: term.BoolConst(true)}
	out := &Rule{
		ID:     r.ID,
		Parent: r.Parent,
		Head:   r.Head,
		Tail:   append(append([]TailLit(nil), r.Tail...), InterpLit(marker)),
	}
	return out
}
