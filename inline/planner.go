package inline

import (
	"dlinline/rule"
)

// createAllowedRuleSet builds the candidate rule set of spec.md §4.4
// Phase A: every rule of orig whose head predicate is currently
// eligible for inlining. Since orig is already stratified and this is
// a subset of its rules, the subset must stratify too (spec.md §3
// invariant) — a failure here is an internal invariant violation.
func (e *Engine) createAllowedRuleSet(orig *rule.Set) *rule.Set {
	res := rule.NewSet()
	for _, r := range orig.Rules() {
		if e.inliningAllowed(r.Head.Pred) {
			res.Add(r)
		}
	}
	if err := res.Close(); err != nil {
		panic("inline: candidate rule set failed to stratify: " + err.Error())
	}
	return res
}

// forbidPredsFromCycles is spec.md §4.4 Phase A's cycle breaker: for
// every SCC of size greater than one in the candidate set, forbid its
// first predicate (in stratifier iteration order) and report whether
// anything was forbidden.
func (e *Engine) forbidPredsFromCycles(candidate *rule.Set) bool {
	somethingForbidden := false
	for _, comp := range candidate.Stratifier().Strats() {
		if len(comp) <= 1 {
			continue
		}
		e.forbidden.Add(comp[0])
		somethingForbidden = true
	}
	return somethingForbidden
}

// phaseBDecision is the per-tail-index verdict spec.md's Design Notes
// ask Phase B to be restructured around, replacing the source's
// `goto process_next_pred` / `goto process_next_tail` dispatch.
type phaseBDecision int

const (
	NoChange phaseBDecision = iota
	ForbidHead
	ForbidTail
	UpdateCount
)

// classifyPhaseB decides what to do about one (headPred, tailPred)
// pair where tailPred multiplies headPred's rule count by inlining.
func classifyPhaseB(headAlreadyMultiplies, tailIsMultiConsumer bool) phaseBDecision {
	if headAlreadyMultiplies {
		return ForbidHead
	}
	if tailIsMultiConsumer {
		return ForbidTail
	}
	return UpdateCount
}

// forbidMultipleMultipliers is spec.md §4.4 Phase B: suppress
// cartesian-product blow-up from inlining more than one
// rule-multiplying predicate into the same consumer.
func (e *Engine) forbidMultipleMultipliers(orig, proposed *rule.Set) bool {
	somethingForbidden := false

predLoop:
	for _, comp := range proposed.Stratifier().Strats() {
		headPred := comp[0]
		isMultiHead := e.stats.HeadCount[headPred] > 1

		for _, r := range proposed.ForPred(headPred) {
			n := r.PositiveTailSize()
			for ti := 0; ti < n; ti++ {
				tailPred := r.Decl(ti)
				if !e.inliningAllowed(tailPred) {
					continue
				}
				tailHeadCnt := e.stats.HeadCount[tailPred]
				if tailHeadCnt <= 1 {
					continue
				}
				tailIsMultiConsumer := e.stats.TailCount[tailPred] > 1
				switch classifyPhaseB(isMultiHead, tailIsMultiConsumer) {
				case ForbidHead:
					e.forbidden.Add(headPred)
					somethingForbidden = true
					continue predLoop
				case ForbidTail:
					e.forbidden.Add(tailPred)
					somethingForbidden = true
				case UpdateCount:
					isMultiHead = true
					e.stats.HeadCount[headPred] = e.stats.HeadCount[headPred] * tailHeadCnt
				}
			}
		}
	}

	// Rules that stay in the output (their head is not eligible for
	// inlining) can still blow up combinatorially if two or more of
	// their positive tail predicates each multiply — forbid all but
	// the first such predicate.
	for _, r := range orig.Rules() {
		headPred := r.Head.Pred
		if e.inliningAllowed(headPred) {
			continue
		}
		hasMultiHeadPred := false
		n := r.PositiveTailSize()
		for ti := 0; ti < n; ti++ {
			p := r.Decl(ti)
			if !e.inliningAllowed(p) {
				continue
			}
			if e.stats.HeadCount[p] <= 1 {
				continue
			}
			if hasMultiHeadPred {
				e.forbidden.Add(p)
				somethingForbidden = true
			} else {
				hasMultiHeadPred = true
			}
		}
	}
	return somethingForbidden
}

// PlanInlining is spec.md §4.4's plan_inlining: it computes occurrence
// statistics, breaks cycles and suppresses multiplier blow-up among
// the candidate predicates, and then mutually inlines the survivors
// in topological (lower-stratum-first) order, filling in e.inlinedRules.
func (e *Engine) PlanInlining(orig *rule.Set) {
	e.stats = computeStats(orig, e.factPreds)

	candidate := e.createAllowedRuleSet(orig)
	for e.forbidPredsFromCycles(candidate) {
		candidate = e.createAllowedRuleSet(orig)
	}

	if e.forbidMultipleMultipliers(orig, candidate) {
		candidate = e.createAllowedRuleSet(orig)
	}

	e.inlinedRules = rule.NewSet()
	for _, comp := range candidate.Stratifier().Strats() {
		pred := comp[0]
		for _, r := range candidate.ForPred(pred) {
			e.transformRule(r, e.inlinedRules)
		}
	}
}
