package inline

import (
	"dlinline/rule"
)

// isOrientedRewriter is spec.md §4.6.1: candidate may only be eagerly
// inlined into a same-stratum consumer if it "shrinks" — a lower
// arity head, or equal arity broken by predicate identity — so eager
// inlining within one stratum can't loop forever.
func (e *Engine) isOrientedRewriter(candidate *rule.Rule, strat *rule.Stratifier) bool {
	headPred := candidate.Head.Pred
	headStrat := strat.Strat(headPred)
	n := candidate.PositiveTailSize()
	for ti := 0; ti < n; ti++ {
		pred := candidate.Decl(ti)
		if strat.Strat(pred) != headStrat {
			continue
		}
		if pred.Arity > headPred.Arity {
			return false
		}
		if pred.Arity == headPred.Arity && pred.ID() >= headPred.ID() {
			return false
		}
	}
	return true
}

// eagerCandidate looks up the rule(s) defining pred and reduces them
// to spec.md §4.6's three cases: no definition (unsatisfiable), one
// definition, or several — of which exactly one unifies with r's
// tail[ti] (usable), more than one unifies (ambiguous, skip this tail
// index), or none unify (unsatisfiable).
func (e *Engine) eagerCandidate(r *rule.Rule, ti int, rules *rule.Set) (candidate *rule.Rule, unsatisfiable bool) {
	pred := r.Decl(ti)
	defs := rules.ForPred(pred)
	switch len(defs) {
	case 0:
		return nil, true
	case 1:
		return defs[0], false
	default:
		var found *rule.Rule
		for _, d := range defs {
			if !atomsUnify(r.TailAtom(ti), d.Head) {
				continue
			}
			if found != nil {
				return nil, false // ambiguous: more than one unifies
			}
			found = d
		}
		if found == nil {
			return nil, true
		}
		return found, false
	}
}

type eagerStep int

const (
	eagerNone eagerStep = iota
	eagerReplace
	eagerDelete
)

// eagerStepFor is spec.md §4.6's per-rule step: scan r's positive tail
// left to right for the first position whose predicate has a resolvable,
// oriented definition, apply it, and stop. If some position has no
// resolvable definition at all, r is unsatisfiable and dropped.
func (e *Engine) eagerStepFor(r *rule.Rule, rules *rule.Set, strat *rule.Stratifier) (eagerStep, *rule.Rule) {
	headPred := r.Head.Pred
	n := r.PositiveTailSize()
	for ti := 0; ti < n; ti++ {
		pred := r.Decl(ti)
		if pred == headPred || e.factPreds.Contains(pred) {
			continue
		}
		candidate, unsat := e.eagerCandidate(r, ti, rules)
		if unsat {
			e.Ledger.AppendDelete(r)
			return eagerDelete, nil
		}
		if candidate == nil {
			continue // ambiguous unifier: try the next tail position
		}
		if !e.isOrientedRewriter(candidate, strat) {
			continue
		}
		res, ok := e.tryToInlineRule(r, ti, candidate)
		if !ok {
			e.Ledger.AppendDelete(r)
			return eagerDelete, nil
		}
		return eagerReplace, res
	}
	return eagerNone, nil
}

// eagerPass runs one sweep of spec.md §4.6 over rules, chasing each
// rule to its own fixpoint against the fixed definitions in rules (not
// against the sweep's own accumulating output — see DESIGN.md, Open
// Question 2). The caller loops this to fixpoint.
func (e *Engine) eagerPass(rules *rule.Set) (*rule.Set, bool) {
	strat := rules.Stratifier()
	res := rule.NewSet()
	doneSomething := false

	for _, r := range rules.Rules() {
		cur := r
		for cur != nil {
			step, next := e.eagerStepFor(cur, rules, strat)
			if step == eagerNone {
				break
			}
			doneSomething = true
			if step == eagerDelete {
				cur = nil
				break
			}
			cur = next
		}
		if cur != nil {
			res.Add(cur)
		}
	}

	if !doneSomething {
		return rules, false
	}
	if err := res.Close(); err != nil {
		panic("inline: eager pass produced an unstratifiable rule set: " + err.Error())
	}
	return res, true
}
