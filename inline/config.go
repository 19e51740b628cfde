// Package inline is the inlining engine itself: the rule resolvent
// builder, occurrence statistics, eligibility oracle, planner/mutual
// inliner, main transform pass, eager inliner, and linear inliner of
// spec.md §4, wired together by the top-level driver of §4.8.
//
// The package is grounded directly on
// _examples/original_source/z3/lib/dl_mk_rule_inliner.cpp's
// mk_rule_inliner class: Engine here plays the same role that class
// does, one method per pass, in the same order.
package inline

import (
	"dlinline/convert"
	"dlinline/interp"
	"dlinline/rule"

	mapset "github.com/deckarep/golang-set/v2"

	"dlinline/term"
)

// Config holds the three recognized configuration keys of spec.md §6.
type Config struct {
	// InlineLinear enables the §4.7 linear pass. Default true.
	InlineLinear bool
	// InlineLinearBranch permits linear fusion even when the consumed
	// rule has multiple consumers. Default false.
	InlineLinearBranch bool
	// FixUnboundVars quantifies unbound variables after resolvent
	// construction (spec.md §4.1 step 7). Default true.
	FixUnboundVars bool
}

// DefaultConfig returns the configuration spec.md §6 lists as the
// default for every key.
func DefaultConfig() Config {
	return Config{
		InlineLinear:       true,
		InlineLinearBranch: false,
		FixUnboundVars:     true,
	}
}

// Engine owns the mutable planning state (occurrence counters,
// forbidden-predicate set, the accumulating inlined rule set, and the
// converter ledger) for one run of the transformation. It is not
// reentrant and is not meant to outlive a single call to Run: spec.md
// §5 makes the whole engine single-threaded and synchronous, and its
// indices are "owned by the engine."
//
// Every successful resolution, wherever it happens — planner mutual
// inlining, the main transform pass, eager inlining, linear inlining —
// is recorded to Ledger by tryToInlineRule itself, mirroring the
// source's try_to_inline_rule appending to its proof converter on
// every call (dl_mk_rule_inliner.cpp:182-186), so no call site has to
// remember to log its own resolutions.
type Engine struct {
	Config     Config
	Manager    *rule.Manager
	Simplifier *interp.Simplifier
	Ledger     *convert.Ledger

	outputPreds mapset.Set[*term.Pred]
	factPreds   mapset.Set[*term.Pred]

	stats     *Stats
	forbidden mapset.Set[*term.Pred]

	inlinedRules *rule.Set
}

// NewEngine returns an Engine ready to run the transformation once,
// given the set of output predicates (never eliminated) and the set
// of predicates known to have extensional facts.
func NewEngine(mgr *rule.Manager, simp *interp.Simplifier, cfg Config, outputPreds, factPreds mapset.Set[*term.Pred]) *Engine {
	if outputPreds == nil {
		outputPreds = mapset.NewSet[*term.Pred]()
	}
	if factPreds == nil {
		factPreds = mapset.NewSet[*term.Pred]()
	}
	return &Engine{
		Config:      cfg,
		Manager:     mgr,
		Simplifier:  simp,
		Ledger:      convert.NewLedger(),
		outputPreds: outputPreds,
		factPreds:   factPreds,
		forbidden:   mapset.NewSet[*term.Pred](),
	}
}
