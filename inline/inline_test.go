package inline

import (
	"testing"

	"dlinline/interp"
	"dlinline/rule"
	"dlinline/syntax"
	"dlinline/term"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, src string) (*rule.Set, *term.Table, *rule.Manager) {
	t.Helper()
	prog, err := syntax.Parse("test", src)
	require.NoError(t, err)
	preds := term.NewTable()
	mgr := rule.NewManager()
	set, _, _, err := syntax.Build(preds, mgr, prog)
	require.NoError(t, err)
	return set, preds, mgr
}

func predOf(t *testing.T, preds *term.Table, name string, arity int) *term.Pred {
	t.Helper()
	p, ok := preds.Lookup(name, arity)
	require.True(t, ok)
	return p
}

func headPreds(rs *rule.Set) mapset.Set[string] {
	out := mapset.NewSet[string]()
	for _, r := range rs.Rules() {
		out.Add(r.Head.Pred.String())
	}
	return out
}

// A single-use intermediate predicate (Concrete Scenario 1) is fully
// eliminated: its only rule is spliced into every consumer, and the
// intermediate head predicate no longer appears in the result.
func TestRunEliminatesSingleUseIntermediate(t *testing.T) {
	src := `
edge(a, b).
edge(b, c).
mid(X, Y) :- edge(X, Y).
path(X, Y) :- mid(X, Y).
`
	orig, preds, mgr := build(t, src)
	outputs := mapset.NewSet(predOf(t, preds, "path", 2))
	facts := mapset.NewSet(predOf(t, preds, "edge", 2))

	result, ledger, changed := Run(orig, mgr, interp.NewGiniSimplifier(), DefaultConfig(), outputs, facts)
	require.True(t, changed)
	require.NotNil(t, ledger)

	names := headPreds(result)
	assert.False(t, names.Contains("mid/2"), "mid/2 should be inlined away: %v", names.ToSlice())
	assert.True(t, names.Contains("path/2"))
}

// An output predicate is never eliminated even when it would otherwise
// be eligible for inlining (spec.md §4.3 eligibility oracle).
func TestRunNeverInlinesOutputPredicate(t *testing.T) {
	src := `
edge(a, b).
mid(X, Y) :- edge(X, Y).
`
	orig, preds, mgr := build(t, src)
	outputs := mapset.NewSet(predOf(t, preds, "mid", 2))
	facts := mapset.NewSet(predOf(t, preds, "edge", 2))

	result, _, _ := Run(orig, mgr, interp.NewGiniSimplifier(), DefaultConfig(), outputs, facts)
	assert.True(t, headPreds(result).Contains("mid/2"))
}

// A fact predicate (supplied by context) is never inlined even though
// it never appears as a rule head with a nonempty tail.
func TestRunNeverInlinesFactPredicate(t *testing.T) {
	src := `
edge(a, b).
path(X, Y) :- edge(X, Y).
`
	orig, preds, mgr := build(t, src)
	outputs := mapset.NewSet(predOf(t, preds, "path", 2))
	facts := mapset.NewSet(predOf(t, preds, "edge", 2))

	result, _, _ := Run(orig, mgr, interp.NewGiniSimplifier(), DefaultConfig(), outputs, facts)
	assert.True(t, headPreds(result).Contains("edge/2"))
}

// Two mutually recursive intermediate predicates form a nontrivial SCC
// in the candidate set; Phase A must forbid one of them to break the
// cycle rather than loop forever or produce an unstratifiable result
// (spec.md §4.4 Phase A).
func TestRunBreaksMutualCycleAmongCandidates(t *testing.T) {
	src := `
a(1).
mid1(X) :- a(X), mid2(X).
mid2(X) :- a(X), mid1(X).
final(X) :- mid1(X).
`
	orig, preds, mgr := build(t, src)
	outputs := mapset.NewSet(predOf(t, preds, "final", 1))
	facts := mapset.NewSet(predOf(t, preds, "a", 1))

	result, _, changed := Run(orig, mgr, interp.NewGiniSimplifier(), DefaultConfig(), outputs, facts)
	require.True(t, changed)
	require.NoError(t, result.Close())
	assert.True(t, headPreds(result).Contains("final/1"))
}

// A negated occurrence of a predicate makes it ineligible for
// inlining anywhere (spec.md §4.3), even where the predicate also
// occurs positively.
func TestRunNeverInlinesNegativelyOccurringPredicate(t *testing.T) {
	src := `
node(a).
node(b).
excluded(a).
keep(X) :- node(X), not excluded(X).
`
	orig, preds, mgr := build(t, src)
	outputs := mapset.NewSet(predOf(t, preds, "keep", 1))
	facts := mapset.NewSet(predOf(t, preds, "node", 1))

	result, _, _ := Run(orig, mgr, interp.NewGiniSimplifier(), DefaultConfig(), outputs, facts)
	assert.True(t, headPreds(result).Contains("excluded/1"))
}

// Resolving a target's tail atom against a source whose combined
// interpreted tail carries a literal and its exact negation (after the
// two rules' variables are unified onto one) reports ResolveUnsat
// rather than a satisfiable resolvent (spec.md §4.1 step 8). The
// interpreted-tail simplifier's SAT check only catches syntactic
// complementary pairs, not arbitrary arithmetic contradictions, so the
// negation has to be literal here.
func TestResolveDetectsUnsatisfiableTail(t *testing.T) {
	preds := term.NewTable()
	p := preds.Intern("p", 1)
	q := preds.Intern("q", 1)

	mgr := rule.NewManager()
	eqX1 := term.Cmp{Op: term.OpEq, L: term.Var(0), R: term.Const{Value: int64(1)}}
	src := mgr.Mk(term.NewAtom(q, term.Var(0)), []rule.TailLit{rule.InterpLit(eqX1)})
	tgt := mgr.Mk(term.NewAtom(p, term.Var(0)), []rule.TailLit{
		rule.PosLit(term.NewAtom(q, term.Var(0))),
		rule.InterpLit(term.Not{X: eqX1}),
	})

	e := NewEngine(mgr, interp.NewGiniSimplifier(), DefaultConfig(), nil, nil)
	res := e.Resolve(tgt, 0, src)
	assert.Equal(t, ResolveUnsat, res.Outcome)
}

// An out-of-range tail index is rejected as not applicable rather than
// panicking.
func TestResolveRejectsOutOfRangeTailIndex(t *testing.T) {
	source := `p(X) :- X = 1.`
	orig, _, mgr := build(t, source)
	r := orig.Rules()[0]
	e := NewEngine(mgr, interp.NewGiniSimplifier(), DefaultConfig(), nil, nil)
	res := e.Resolve(r, -1, r)
	assert.Equal(t, ResolveNotApplicable, res.Outcome)
}

// Run on an empty rule set is a no-op: no change, nil ledger.
func TestRunOnEmptySetIsNoop(t *testing.T) {
	mgr := rule.NewManager()
	orig := rule.NewSet()
	require.NoError(t, orig.Close())

	result, ledger, changed := Run(orig, mgr, interp.NewGiniSimplifier(), DefaultConfig(), nil, nil)
	assert.False(t, changed)
	assert.Nil(t, ledger)
	assert.Same(t, orig, result)
}

// The InlineLinear config flag reaches the driver: disabling it must
// not break a chain that the main transform pass alone already fully
// resolves, and must not panic or drop the output predicate.
func TestRunRespectsInlineLinearFlag(t *testing.T) {
	src := `
edge(a, b).
step1(X, Y) :- edge(X, Y).
step2(X, Y) :- step1(X, Y).
out(X, Y) :- step2(X, Y).
`
	orig, preds, mgr := build(t, src)
	outputs := mapset.NewSet(predOf(t, preds, "out", 2))
	facts := mapset.NewSet(predOf(t, preds, "edge", 2))

	cfg := DefaultConfig()
	cfg.InlineLinear = false
	result, _, changed := Run(orig, mgr, interp.NewGiniSimplifier(), cfg, outputs, facts)
	require.True(t, changed)
	assert.True(t, headPreds(result).Contains("out/2"))
}
