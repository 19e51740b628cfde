package syntax

import (
	"testing"

	"dlinline/rule"
	"dlinline/term"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFactsAndRules(t *testing.T) {
	src := `
#output path/2.
edge(a, b).
edge(b, c).
path(X, Y) :- edge(X, Y).
path(X, Y) :- edge(X, Z), path(Z, Y).
`
	prog, err := Parse("test", src)
	require.NoError(t, err)

	preds := term.NewTable()
	mgr := rule.NewManager()
	set, outputPreds, factPreds, err := Build(preds, mgr, prog)
	require.NoError(t, err)

	pathPred, ok := preds.Lookup("path", 2)
	require.True(t, ok)
	edgePred, ok := preds.Lookup("edge", 2)
	require.True(t, ok)

	assert.True(t, outputPreds.Contains(pathPred))
	assert.True(t, factPreds.Contains(edgePred))
	assert.False(t, factPreds.Contains(pathPred))
	assert.Equal(t, 4, set.NumRules())
	assert.Len(t, set.ForPred(pathPred), 2)
}

func TestBuildNegationAndComparison(t *testing.T) {
	src := `safe(X, Y) :- edge(X, Y), not blocked(Y), X != Y.`
	prog, err := Parse("test", src)
	require.NoError(t, err)

	preds := term.NewTable()
	mgr := rule.NewManager()
	set, _, _, err := Build(preds, mgr, prog)
	require.NoError(t, err)
	require.Equal(t, 1, set.NumRules())

	r := set.Rules()[0]
	require.Equal(t, 1, r.PositiveTailSize())
	require.Equal(t, 2, r.UninterpretedTailSize())
	assert.True(t, r.IsNegTail(1))
	assert.Len(t, r.InterpretedTail(), 1)
}

func TestBuildRejectsUnstratifiableNegation(t *testing.T) {
	src := `p(X) :- q(X), not p(X).`
	prog, err := Parse("test", src)
	require.NoError(t, err)

	preds := term.NewTable()
	mgr := rule.NewManager()
	_, _, _, err = Build(preds, mgr, prog)
	assert.ErrorIs(t, err, rule.ErrUnstratifiable)
}
