package inline

import (
	"dlinline/convert"
	"dlinline/interp"
	"dlinline/rule"
	"dlinline/term"

	mapset "github.com/deckarep/golang-set/v2"
)

// Run is spec.md §4.8's top-level driver: plan, transform, close,
// eager-to-fixpoint, and (if configured) fuse linear chains. It
// returns the original set unchanged, with a nil ledger, if the whole
// run made no progress.
func Run(source *rule.Set, mgr *rule.Manager, simp *interp.Simplifier, cfg Config, outputPreds, factPreds mapset.Set[*term.Pred]) (*rule.Set, *convert.Ledger, bool) {
	if source.NumRules() == 0 {
		return source, nil, false
	}

	e := NewEngine(mgr, simp, cfg, outputPreds, factPreds)

	e.PlanInlining(source)

	transformed := rule.NewSet()
	somethingDone := e.transformRules(source, transformed)
	if err := transformed.Close(); err != nil {
		panic("inline: main transform pass produced an unstratifiable rule set: " + err.Error())
	}

	cur := transformed
	for {
		next, progressed := e.eagerPass(cur)
		if !progressed {
			break
		}
		somethingDone = true
		cur = next
	}

	if cfg.InlineLinear {
		if next, progressed := e.linearPass(cur); progressed {
			somethingDone = true
			cur = next
		}
	}

	if !somethingDone {
		return source, nil, false
	}
	return cur, e.Ledger, true
}
