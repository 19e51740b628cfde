package term

import (
	"fmt"
	"strings"
)

// BoolExpr is an interpreted tail conjunct: a term of boolean sort
// that is not an atom over a user predicate (spec.md §3). The
// interpreted-tail simplifier (package interp) folds and SAT-checks
// conjunctions of these.
type BoolExpr interface {
	Term
	isBoolExpr()
}

// CmpOp is a comparison operator over two terms.
type CmpOp int

const (
	OpEq CmpOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

func (op CmpOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// Cmp is an atomic interpreted constraint: L op R.
type Cmp struct {
	Op   CmpOp
	L, R Term
}

func (Cmp) isTerm()     {}
func (Cmp) isBoolExpr() {}

func (c Cmp) String() string { return fmt.Sprintf("%v%s%v", c.L, c.Op, c.R) }

// Not negates a boolean expression.
type Not struct{ X BoolExpr }

func (Not) isTerm()     {}
func (Not) isBoolExpr() {}

func (n Not) String() string { return fmt.Sprintf("!%v", n.X) }

// And is a conjunction of boolean expressions.
type And struct{ Xs []BoolExpr }

func (And) isTerm()     {}
func (And) isBoolExpr() {}

func (a And) String() string { return joinExprs(a.Xs, "&") }

// Or is a disjunction of boolean expressions.
type Or struct{ Xs []BoolExpr }

func (Or) isTerm()     {}
func (Or) isBoolExpr() {}

func (o Or) String() string { return joinExprs(o.Xs, "|") }

func joinExprs(xs []BoolExpr, sep string) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, x := range xs {
		if i > 0 {
			b.WriteString(sep)
		}
		fmt.Fprint(&b, x)
	}
	b.WriteByte(')')
	return b.String()
}

// BoolConst is a folded boolean literal, the result of constant
// folding an interpreted conjunct down to true or false.
type BoolConst bool

func (BoolConst) isTerm()     {}
func (BoolConst) isBoolExpr() {}

func (b BoolConst) String() string {
	if bool(b) {
		return "true"
	}
	return "false"
}

// QKind distinguishes existential from universal quantification.
type QKind int

const (
	Exists QKind = iota
	Forall
)

// Quantified marks a rule as carrying a quantifier inside an
// interpreted conjunct. Per spec.md §3, a rule containing one of these
// anywhere in its interpreted tail is not eligible for inlining as
// either a source or a target.
type Quantified struct {
	Kind QKind
	Vars []Var
	Body BoolExpr
}

func (Quantified) isTerm()     {}
func (Quantified) isBoolExpr() {}

func (q Quantified) String() string {
	kind := "exists"
	if q.Kind == Forall {
		kind = "forall"
	}
	return fmt.Sprintf("%s(...).%v", kind, q.Body)
}

// HasQuantifiers reports whether x, or anything nested inside it,
// carries a Quantified node.
func HasQuantifiers(x BoolExpr) bool {
	switch v := x.(type) {
	case Quantified:
		return true
	case Not:
		return HasQuantifiers(v.X)
	case And:
		for _, e := range v.Xs {
			if HasQuantifiers(e) {
				return true
			}
		}
		return false
	case Or:
		for _, e := range v.Xs {
			if HasQuantifiers(e) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
