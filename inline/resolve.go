package inline

import (
	"dlinline/rule"
	"dlinline/term"
	"dlinline/unify"
)

// ResolveOutcome is the three-way result of §4.1: success, a failure
// to apply (unification failed, or src carries a quantifier), or an
// unsatisfiable interpreted tail.
type ResolveOutcome int

const (
	ResolveOk ResolveOutcome = iota
	ResolveNotApplicable
	ResolveUnsat
)

// ResolveResult is the outcome of Resolve.
type ResolveResult struct {
	Outcome ResolveOutcome
	Rule    *rule.Rule
}

// Resolve builds the resolvent of tgt.tail[i] against src.head, per
// spec.md §4.1 steps 1-8. It never mutates tgt or src — rules are
// immutable value objects (spec.md §3 Lifecycle).
func (e *Engine) Resolve(tgt *rule.Rule, i int, src *rule.Rule) ResolveResult {
	if i < 0 || i >= tgt.PositiveTailSize() {
		return ResolveResult{Outcome: ResolveNotApplicable}
	}

	// Step 1: renormalize target variables.
	tgt = rule.NormVars(tgt)

	// Step 2: quantifier check on src.
	if src.HasQuantifiers() {
		return ResolveResult{Outcome: ResolveNotApplicable}
	}

	// Step 3: unify tgt.tail[i] with src.head under offsets {0, vmax+1}.
	vmax := tgt.MaxVar()
	if m := src.MaxVar(); m > vmax {
		vmax = m
	}
	vmax++
	subst := unify.NewSubst()
	subst.SetOffsets(0, vmax+1)
	if !unify.Unify(tgt.TailAtom(i), unify.Target, src.Head, unify.Source, subst) {
		return ResolveResult{Outcome: ResolveNotApplicable}
	}

	// Step 4: new head.
	newHead := unify.ApplyAtom(tgt.Head, unify.Target, subst)

	// Step 5: new tail — tgt's tail minus position i, then src's tail.
	var newTail []rule.TailLit
	for j, lit := range tgt.Tail {
		if j == i {
			continue
		}
		newTail = append(newTail, applySubstToLit(lit, unify.Target, subst))
	}
	for _, lit := range src.Tail {
		newTail = append(newTail, applySubstToLit(lit, unify.Source, subst))
	}

	// Step 6: de-duplicate syntactically identical tail entries.
	newTail = dedupTail(newTail)

	// Step 7: construct, normalize, optionally fix unbound variables.
	res := e.Manager.MkResolvent(newHead, newTail, tgt)
	res = rule.NormVars(res)
	if e.Config.FixUnboundVars {
		res = rule.FixUnboundVars(res)
	}

	// Step 8: run the interpreted-tail simplifier.
	folded, ok := e.Simplifier.Simplify(res.InterpretedTail())
	if !ok {
		return ResolveResult{Outcome: ResolveUnsat, Rule: res}
	}
	res = withInterpretedTail(res, folded)

	return ResolveResult{Outcome: ResolveOk, Rule: res}
}

func applySubstToLit(lit rule.TailLit, side unify.Side, subst *unify.Subst) rule.TailLit {
	if lit.Kind == rule.Interp {
		return rule.InterpLit(unify.Apply(lit.Expr, side, subst).(term.BoolExpr))
	}
	atom := unify.ApplyAtom(lit.Atom, side, subst)
	if lit.Kind == rule.Neg {
		return rule.NegLit(atom)
	}
	return rule.PosLit(atom)
}

// withInterpretedTail replaces r's interpreted conjuncts with folded,
// keeping its uninterpreted tail and provenance untouched.
func withInterpretedTail(r *rule.Rule, folded []term.BoolExpr) *rule.Rule {
	tail := make([]rule.TailLit, 0, len(r.Tail))
	for _, l := range r.Tail {
		if l.Kind != rule.Interp {
			tail = append(tail, l)
		}
	}
	for _, e := range folded {
		tail = append(tail, rule.InterpLit(e))
	}
	return &rule.Rule{ID: r.ID, Head: r.Head, Tail: tail, Parent: r.Parent}
}

// dedupTail removes tail entries that are syntactically identical
// (same sign and same structure) to an earlier entry, per spec.md
// §4.1 step 6 / Testable Property 9.
func dedupTail(tail []rule.TailLit) []rule.TailLit {
	seen := make(map[string]bool, len(tail))
	out := make([]rule.TailLit, 0, len(tail))
	for _, lit := range tail {
		key := litFingerprint(lit)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, lit)
	}
	return out
}

func litFingerprint(lit rule.TailLit) string {
	switch lit.Kind {
	case rule.Pos:
		return "p:" + term.AtomFingerprint(lit.Atom)
	case rule.Neg:
		return "n:" + term.AtomFingerprint(lit.Atom)
	default:
		return "i:" + term.Fingerprint(lit.Expr)
	}
}

// atomsUnify reports whether a and b unify, without constructing a
// resolvent. It gives the two atoms disjoint variable spaces the same
// way Resolve's step 3 does, so it can be used as a pure "could these
// ever meet" probe by the eager and linear inliners.
func atomsUnify(a, b *term.Atom) bool {
	vmax := term.AtomMaxVar(a)
	if m := term.AtomMaxVar(b); m > vmax {
		vmax = m
	}
	vmax++
	subst := unify.NewSubst()
	subst.SetOffsets(0, vmax+1)
	return unify.Unify(a, unify.Target, b, unify.Source, subst)
}

// tryToInlineRule inlines src at tgt's tail[tailIndex], returning the
// resolvent only on success. It is the mk_rule_inliner::try_to_inline_rule
// entry point the planner, main transform pass, eager inliner, and
// linear inliner all call through, and — like the source — it records
// every successful resolution to e.Ledger itself, so no caller needs
// to log its own resolve steps.
func (e *Engine) tryToInlineRule(tgt *rule.Rule, tailIndex int, src *rule.Rule) (*rule.Rule, bool) {
	res := e.Resolve(tgt, tailIndex, src)
	if res.Outcome != ResolveOk {
		return nil, false
	}
	e.Ledger.AppendResolve(tgt, src, tailIndex, res.Rule)
	return res.Rule, true
}
