package rule

import (
	"testing"

	"dlinline/term"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalTailOrdering(t *testing.T) {
	preds := term.NewTable()
	p := preds.Intern("p", 1)
	q := preds.Intern("q", 1)
	r := preds.Intern("r", 1)

	mgr := NewManager()
	rl := mgr.Mk(
		term.NewAtom(p, term.Var(0)),
		[]TailLit{
			InterpLit(term.Cmp{Op: term.OpEq, L: term.Var(0), R: term.Const{Value: int64(1)}}),
			NegLit(term.NewAtom(r, term.Var(0))),
			PosLit(term.NewAtom(q, term.Var(0))),
		},
	)
	assert.Equal(t, 1, rl.PositiveTailSize())
	assert.Equal(t, 2, rl.UninterpretedTailSize())
	assert.Equal(t, Pos, rl.Tail[0].Kind)
	assert.Equal(t, Neg, rl.Tail[1].Kind)
	assert.Equal(t, Interp, rl.Tail[2].Kind)
}

func TestNormVarsDensifies(t *testing.T) {
	preds := term.NewTable()
	p := preds.Intern("p", 1)
	q := preds.Intern("q", 1)

	mgr := NewManager()
	rl := mgr.Mk(
		term.NewAtom(p, term.Var(7)),
		[]TailLit{PosLit(term.NewAtom(q, term.Var(3)))},
	)
	normed := NormVars(rl)
	assert.Equal(t, term.Var(0), normed.Head.Args[0])
	assert.Equal(t, term.Var(1), normed.Tail[0].Atom.Args[0])
}

func TestFixUnboundVarsMarksQuantifier(t *testing.T) {
	preds := term.NewTable()
	p := preds.Intern("p", 2)
	q := preds.Intern("q", 1)

	mgr := NewManager()
	// p(x, y) :- q(x). — y is unbound.
	rl := mgr.Mk(
		term.NewAtom(p, term.Var(0), term.Var(1)),
		[]TailLit{PosLit(term.NewAtom(q, term.Var(0)))},
	)
	assert.False(t, rl.HasQuantifiers())
	fixed := FixUnboundVars(rl)
	assert.True(t, fixed.HasQuantifiers())

	// Rules with no unbound head vars pass through unchanged.
	rl2 := mgr.Mk(
		term.NewAtom(q, term.Var(0)),
		[]TailLit{PosLit(term.NewAtom(q, term.Var(0)))},
	)
	assert.Same(t, rl2, FixUnboundVars(rl2))
}

func buildLinearChain(t *testing.T, preds *term.Table) *Set {
	t.Helper()
	a := preds.Intern("a", 0)
	b := preds.Intern("b", 0)
	c := preds.Intern("c", 0)
	mgr := NewManager()
	s := NewSet()
	s.Add(mgr.Mk(term.NewAtom(a), []TailLit{PosLit(term.NewAtom(b))}))
	s.Add(mgr.Mk(term.NewAtom(b), []TailLit{PosLit(term.NewAtom(c))}))
	s.Add(mgr.Mk(term.NewAtom(c), nil))
	return s
}

func TestCloseStratifiesAcyclicChain(t *testing.T) {
	preds := term.NewTable()
	s := buildLinearChain(t, preds)
	require.NoError(t, s.Close())
	strat := s.Stratifier()
	a, _ := preds.Lookup("a", 0)
	b, _ := preds.Lookup("b", 0)
	c, _ := preds.Lookup("c", 0)
	assert.Less(t, strat.Strat(c), strat.Strat(b))
	assert.Less(t, strat.Strat(b), strat.Strat(a))
}

func TestCloseDetectsNegativeCycle(t *testing.T) {
	preds := term.NewTable()
	a := preds.Intern("a", 0)
	b := preds.Intern("b", 0)
	mgr := NewManager()
	s := NewSet()
	// a :- not b.  b :- not a.  — a negative cycle, unstratifiable.
	s.Add(mgr.Mk(term.NewAtom(a), []TailLit{NegLit(term.NewAtom(b))}))
	s.Add(mgr.Mk(term.NewAtom(b), []TailLit{NegLit(term.NewAtom(a))}))
	err := s.Close()
	assert.ErrorIs(t, err, ErrUnstratifiable)
}

func TestCloseAllowsPositiveCycle(t *testing.T) {
	preds := term.NewTable()
	a := preds.Intern("a", 0)
	b := preds.Intern("b", 0)
	mgr := NewManager()
	s := NewSet()
	s.Add(mgr.Mk(term.NewAtom(a), []TailLit{PosLit(term.NewAtom(b))}))
	s.Add(mgr.Mk(term.NewAtom(b), []TailLit{PosLit(term.NewAtom(a))}))
	require.NoError(t, s.Close())
	strat := s.Stratifier()
	assert.Equal(t, strat.Strat(a), strat.Strat(b))
}
