package interp

import "dlinline/term"

// Fold performs constant folding on an interpreted expression:
// comparisons between two fully-ground constant terms are replaced by
// their boolean result, comparisons between two syntactically
// identical terms (e.g. a variable compared against itself) are
// replaced by their reflexive result, and And/Or/Not are simplified
// once their operands fold to constants.
func Fold(e term.BoolExpr) term.BoolExpr {
	switch x := e.(type) {
	case term.Cmp:
		if term.Equal(x.L, x.R) {
			switch x.Op {
			case term.OpEq, term.OpLe, term.OpGe:
				return term.BoolConst(true)
			case term.OpNe, term.OpLt, term.OpGt:
				return term.BoolConst(false)
			}
		}
		lv, lok := evalConst(x.L)
		rv, rok := evalConst(x.R)
		if lok && rok {
			if b, ok := compareConst(x.Op, lv, rv); ok {
				return term.BoolConst(b)
			}
		}
		return x
	case term.Not:
		fx := Fold(x.X)
		if bc, ok := fx.(term.BoolConst); ok {
			return term.BoolConst(!bool(bc))
		}
		return term.Not{X: fx}
	case term.And:
		var rest []term.BoolExpr
		for _, sub := range x.Xs {
			f := Fold(sub)
			if bc, ok := f.(term.BoolConst); ok {
				if !bool(bc) {
					return term.BoolConst(false)
				}
				continue
			}
			rest = append(rest, f)
		}
		switch len(rest) {
		case 0:
			return term.BoolConst(true)
		case 1:
			return rest[0]
		default:
			return term.And{Xs: rest}
		}
	case term.Or:
		var rest []term.BoolExpr
		for _, sub := range x.Xs {
			f := Fold(sub)
			if bc, ok := f.(term.BoolConst); ok {
				if bool(bc) {
					return term.BoolConst(true)
				}
				continue
			}
			rest = append(rest, f)
		}
		switch len(rest) {
		case 0:
			return term.BoolConst(false)
		case 1:
			return rest[0]
		default:
			return term.Or{Xs: rest}
		}
	default:
		return e
	}
}

func evalConst(t term.Term) (interface{}, bool) {
	switch x := t.(type) {
	case term.Const:
		return x.Value, true
	case term.Fn:
		if len(x.Args) != 2 {
			return nil, false
		}
		lv, lok := evalConst(x.Args[0])
		rv, rok := evalConst(x.Args[1])
		if !lok || !rok {
			return nil, false
		}
		return evalArith(x.Sym, lv, rv)
	default:
		return nil, false
	}
}

func evalArith(op string, l, r interface{}) (interface{}, bool) {
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if !lok || !rok {
		return nil, false
	}
	switch op {
	case "+":
		return foldFloat(l, r, lf+rf), true
	case "-":
		return foldFloat(l, r, lf-rf), true
	case "*":
		return foldFloat(l, r, lf*rf), true
	case "/":
		if rf == 0 {
			return nil, false
		}
		return lf / rf, true
	default:
		return nil, false
	}
}

// foldFloat keeps int64 + int64 results as int64, so that Eq
// comparisons against integer constants stay exact.
func foldFloat(l, r interface{}, f float64) interface{} {
	_, lInt := l.(int64)
	_, rInt := r.(int64)
	if lInt && rInt && f == float64(int64(f)) {
		return int64(f)
	}
	return f
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

func compareConst(op term.CmpOp, l, r interface{}) (bool, bool) {
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if lok && rok {
		switch op {
		case term.OpEq:
			return lf == rf, true
		case term.OpNe:
			return lf != rf, true
		case term.OpLt:
			return lf < rf, true
		case term.OpLe:
			return lf <= rf, true
		case term.OpGt:
			return lf > rf, true
		case term.OpGe:
			return lf >= rf, true
		}
	}
	if op == term.OpEq {
		return l == r, true
	}
	if op == term.OpNe {
		return l != r, true
	}
	return false, false
}

// Simplifier is the interpreted-tail simplifier of spec.md §4.1 step
// 8: `(rule) -> Ok(rule') | Unsat`, specialized here to operate on the
// tail's interpreted conjuncts directly. It folds constants, then
// hands the surviving conjuncts to a SAT backend as a set of unit
// clauses over a Tseitin-style encoding, so that a literal appearing
// both asserted and negated (`c` and `!c`) is caught even when it
// can't be constant-folded away.
type Simplifier struct {
	NewSolver func(vars IntSet) Solver
}

// NewGiniSimplifier returns a Simplifier backed by the gini SAT
// solver.
func NewGiniSimplifier() *Simplifier {
	return &Simplifier{NewSolver: func(vars IntSet) Solver { return NewGiniSolver(vars) }}
}

// NewGopherSimplifier returns a Simplifier backed by gophersat.
func NewGopherSimplifier() *Simplifier {
	return &Simplifier{NewSolver: func(vars IntSet) Solver { return NewGopherSolver(vars) }}
}

// Simplify folds and SAT-checks conjuncts. It returns (folded, true)
// when the interpreted tail is satisfiable (possibly empty, meaning
// trivially true), or (nil, false) when it is unsatisfiable.
func (s *Simplifier) Simplify(conjuncts []term.BoolExpr) ([]term.BoolExpr, bool) {
	var folded []term.BoolExpr
	for _, c := range conjuncts {
		f := Fold(c)
		if bc, ok := f.(term.BoolConst); ok {
			if !bool(bc) {
				return nil, false
			}
			continue
		}
		folded = append(folded, f)
	}
	if len(folded) == 0 {
		return folded, true
	}

	enc := newEncoder()
	vars := NewIntSet()
	units := make([]int, 0, len(folded))
	for _, c := range folded {
		lit := enc.unitLiteral(c)
		vars.Add(abs(lit))
		units = append(units, lit)
	}

	solver := s.NewSolver(vars)
	for _, lit := range units {
		solver.AddClause(NewIntSet(lit))
	}
	if !solver.Solve() {
		return nil, false
	}
	return folded, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// encoder assigns a positive SAT variable to each distinct atomic
// interpreted literal (by structural fingerprint), so that `c` and
// `!c` map to the same variable with opposite sign.
type encoder struct {
	next int
	ids  map[string]int
}

func newEncoder() *encoder { return &encoder{next: 1, ids: make(map[string]int)} }

func (e *encoder) unitLiteral(c term.BoolExpr) int {
	if n, ok := c.(term.Not); ok {
		return -e.varOf(n.X)
	}
	return e.varOf(c)
}

func (e *encoder) varOf(c term.BoolExpr) int {
	fp := term.Fingerprint(c)
	if id, ok := e.ids[fp]; ok {
		return id
	}
	id := e.next
	e.next++
	e.ids[fp] = id
	return id
}
