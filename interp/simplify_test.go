package interp

import (
	"testing"

	"dlinline/term"

	"github.com/stretchr/testify/assert"
)

func TestFoldConstantArithmetic(t *testing.T) {
	// 4 = 2+2 folds to true and 4 = 5 folds to false: both sides are
	// ground constants.
	e := term.Cmp{Op: term.OpEq, L: term.Const{Value: int64(4)}, R: term.Fn{Sym: "+", Args: []term.Term{term.Const{Value: int64(2)}, term.Const{Value: int64(2)}}}}
	assert.Equal(t, term.BoolConst(true), Fold(e))

	e2 := term.Cmp{Op: term.OpEq, L: term.Const{Value: int64(4)}, R: term.Const{Value: int64(5)}}
	assert.Equal(t, term.BoolConst(false), Fold(e2))
}

func TestFoldAndShortCircuitsOnFalse(t *testing.T) {
	x := term.Cmp{Op: term.OpEq, L: term.Var(0), R: term.Var(1)}
	e := term.And{Xs: []term.BoolExpr{x, term.BoolConst(false)}}
	assert.Equal(t, term.BoolConst(false), Fold(e))
}

func TestSimplifyDetectsContradiction(t *testing.T) {
	x := term.Cmp{Op: term.OpEq, L: term.Var(0), R: term.Var(1)}
	s := NewGiniSimplifier()
	_, ok := s.Simplify([]term.BoolExpr{x, term.Not{X: x}})
	assert.False(t, ok)
}

func TestSimplifyKeepsSatisfiableTail(t *testing.T) {
	x := term.Cmp{Op: term.OpEq, L: term.Var(0), R: term.Var(1)}
	y := term.Cmp{Op: term.OpLt, L: term.Var(1), R: term.Var(2)}
	s := NewGiniSimplifier()
	folded, ok := s.Simplify([]term.BoolExpr{x, y})
	assert.True(t, ok)
	assert.Len(t, folded, 2)
}

func TestSimplifyDropsConstantTrue(t *testing.T) {
	s := NewGopherSimplifier()
	folded, ok := s.Simplify([]term.BoolExpr{term.Cmp{Op: term.OpEq, L: term.Const{Value: int64(1)}, R: term.Const{Value: int64(1)}}})
	assert.True(t, ok)
	assert.Empty(t, folded)
}

func TestSimplifyEmptyTailIsSat(t *testing.T) {
	s := NewGiniSimplifier()
	folded, ok := s.Simplify(nil)
	assert.True(t, ok)
	assert.Nil(t, folded)
}
