package oracle

import (
	"testing"

	"dlinline/rule"
	"dlinline/syntax"
	"dlinline/term"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapsetOf(preds ...*term.Pred) mapset.Set[*term.Pred] {
	return mapset.NewSet[*term.Pred](preds...)
}

func buildProgram(t *testing.T, src string) (*rule.Set, *term.Table) {
	t.Helper()
	prog, err := syntax.Parse("test", src)
	require.NoError(t, err)
	preds := term.NewTable()
	mgr := rule.NewManager()
	set, _, _, err := syntax.Build(preds, mgr, prog)
	require.NoError(t, err)
	return set, preds
}

func TestCheckReportsNoDiffForIdenticalPrograms(t *testing.T) {
	src := `
edge(a, b).
edge(b, c).
path(X, Y) :- edge(X, Y).
path(X, Y) :- edge(X, Z), path(Z, Y).
`
	set, preds := buildProgram(t, src)
	pathPred, ok := preds.Lookup("path", 2)
	require.True(t, ok)

	outputs := mapsetOf(pathPred)
	diffs, err := Check(set, set, outputs)
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestCheckReportsDiffWhenAnswerSetChanges(t *testing.T) {
	src := `
edge(a, b).
edge(b, c).
path(X, Y) :- edge(X, Y).
path(X, Y) :- edge(X, Z), path(Z, Y).
`
	before, preds := buildProgram(t, src)
	after, _ := buildProgram(t, `edge(a, b).
path(X, Y) :- edge(X, Y).
`)
	pathPred, ok := preds.Lookup("path", 2)
	require.True(t, ok)

	diffs, err := Check(before, after, mapsetOf(pathPred))
	require.NoError(t, err)
	assert.NotEmpty(t, diffs)
}
