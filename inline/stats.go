package inline

import (
	"dlinline/rule"
	"dlinline/term"

	mapset "github.com/deckarep/golang-set/v2"
)

// Stats is the occurrence-statistics component of spec.md §4.2: a
// single linear scan of a rule set populating, per predicate, its
// head count, head-with-nonempty-tail count, positive tail-occurrence
// count, and whether it occurs negatively anywhere.
//
// HeadCount is mutated in place by the planner's Phase B (multiplier
// propagation, spec.md §4.4) and never recomputed from scratch across
// a candidate-set rebuild — see DESIGN.md, Open Question 1.
type Stats struct {
	HeadCount             map[*term.Pred]int
	HeadNonEmptyTailCount map[*term.Pred]int
	TailCount             map[*term.Pred]int
	NegPreds              mapset.Set[*term.Pred]
	FactPreds             mapset.Set[*term.Pred]
}

// computeStats scans orig once and builds a Stats. factPreds is
// supplied by the caller — spec.md §4.2 says fact_preds "is supplied
// by the context," not derived from the rule set.
func computeStats(orig *rule.Set, factPreds mapset.Set[*term.Pred]) *Stats {
	s := &Stats{
		HeadCount:             make(map[*term.Pred]int),
		HeadNonEmptyTailCount: make(map[*term.Pred]int),
		TailCount:             make(map[*term.Pred]int),
		NegPreds:              mapset.NewSet[*term.Pred](),
		FactPreds:             factPreds,
	}
	for _, r := range orig.Rules() {
		hp := r.Head.Pred
		s.HeadCount[hp]++
		if len(r.Tail) > 0 {
			s.HeadNonEmptyTailCount[hp]++
		}
		n := r.UninterpretedTailSize()
		for i := 0; i < n; i++ {
			p := r.Decl(i)
			if r.IsNegTail(i) {
				s.NegPreds.Add(p)
			} else {
				s.TailCount[p]++
			}
		}
	}
	return s
}

// inliningAllowed is the eligibility oracle of spec.md §4.3.
func (e *Engine) inliningAllowed(p *term.Pred) bool {
	if e.outputPreds.Contains(p) ||
		e.stats.FactPreds.Contains(p) ||
		e.stats.NegPreds.Contains(p) ||
		e.forbidden.Contains(p) {
		return false
	}
	headCount := e.stats.HeadCount[p]
	tailCount := e.stats.TailCount[p]
	return headCount <= 1 || (tailCount <= 1 && headCount <= 4)
}
