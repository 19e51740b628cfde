package inline

import "dlinline/rule"

// transformRule is spec.md §4.5's worklist transform: it drives r to a
// fixpoint against e.inlinedRules, expanding the first eligible
// positive tail predicate at every step. A worklist item that carries
// a fix-up quantifier is discarded outright — spec.md §4.5 and §7 both
// call for dropping it, not retaining it — and every remaining rule
// that can no longer be expanded (none of its positive tail predicates
// are eligible) is appended to out. It reports whether it did anything
// at all.
func (e *Engine) transformRule(r0 *rule.Rule, out *rule.Set) bool {
	modified := false
	todo := []*rule.Rule{r0}

	for len(todo) > 0 {
		r := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		if r.HasQuantifiers() {
			modified = true
			continue
		}

		n := r.PositiveTailSize()
		i := 0
		for i < n && !e.inliningAllowed(r.Decl(i)) {
			i++
		}
		if i == n {
			out.Add(r)
			continue
		}

		modified = true
		pred := r.Decl(i)
		for _, s := range e.inlinedRules.ForPred(pred) {
			if res, ok := e.tryToInlineRule(r, i, s); ok {
				todo = append(todo, res)
			}
		}
	}
	return modified
}

// transformRules is spec.md §4.5's ruleset-level entry point, run once
// after planning to produce the main transformed rule set: every rule
// whose head is NOT eligible for inlining is chased to a fixpoint and
// appended to out; rules whose head IS eligible are skipped entirely —
// they were already folded into e.inlinedRules by the planner and
// contribute nothing further of their own.
func (e *Engine) transformRules(orig *rule.Set, out *rule.Set) bool {
	somethingDone := false
	for _, r := range orig.Rules() {
		if e.inliningAllowed(r.Head.Pred) {
			continue
		}
		if e.transformRule(r, out) {
			somethingDone = true
		}
	}
	return somethingDone
}
