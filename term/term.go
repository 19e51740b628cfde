package term

import (
	"fmt"
	"sort"
	"strings"
)

// Term is any first-order term: a variable, a constant, or a function
// application. BoolExpr (interpreted expressions) also implement Term
// so that a rule's interpreted tail can be walked and substituted the
// same way as its atoms.
type Term interface {
	isTerm()
}

// Var is a rule-local variable, identified by a dense index. Rules are
// renumbered so that indices start at 0 (spec.md §3 invariant).
type Var int

func (Var) isTerm() {}

func (v Var) String() string { return fmt.Sprintf("V%d", int(v)) }

// Const is a literal value: an integer, float, or string constant.
type Const struct {
	Value interface{}
}

func (Const) isTerm() {}

func (c Const) String() string { return fmt.Sprintf("%v", c.Value) }

// Fn is an application of an uninterpreted function symbol, including
// nullary symbols (ordinary Datalog constants like `a` or `nil`).
type Fn struct {
	Sym  string
	Args []Term
}

func (Fn) isTerm() {}

func (f Fn) String() string {
	if len(f.Args) == 0 {
		return f.Sym
	}
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = fmt.Sprint(a)
	}
	return f.Sym + "(" + strings.Join(parts, ",") + ")"
}

// Atom is a predicate applied to arguments: p(t1,...,tn).
type Atom struct {
	Pred *Pred
	Args []Term
}

// NewAtom builds an atom, panicking if the argument count does not
// match the predicate's arity — a mismatch here is a construction bug
// in the caller, not a runtime condition the engine can recover from.
func NewAtom(p *Pred, args ...Term) *Atom {
	if len(args) != p.Arity {
		panic(fmt.Sprintf("term: %s expects %d args, got %d", p, p.Arity, len(args)))
	}
	return &Atom{Pred: p, Args: args}
}

func (a *Atom) String() string {
	if len(a.Args) == 0 {
		return a.Pred.Name
	}
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = fmt.Sprint(arg)
	}
	return a.Pred.Name + "(" + strings.Join(parts, ",") + ")"
}

// AtomEqual reports whether two atoms are syntactically identical
// (same predicate, structurally equal arguments).
func AtomEqual(a, b *Atom) bool {
	if a.Pred != b.Pred || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !Equal(a.Args[i], b.Args[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether two terms are syntactically identical.
func Equal(a, b Term) bool {
	switch x := a.(type) {
	case Var:
		y, ok := b.(Var)
		return ok && x == y
	case Const:
		y, ok := b.(Const)
		return ok && x.Value == y.Value
	case Fn:
		y, ok := b.(Fn)
		if !ok || x.Sym != y.Sym || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	default:
		// BoolExpr variants delegate to their own equality via
		// fingerprinting, since they don't recur through Equal.
		return Fingerprint(a) == Fingerprint(b)
	}
}

// MaxVar returns the highest variable index occurring in t, or -1 if t
// contains no variables.
func MaxVar(t Term) int {
	max := -1
	walkVars(t, func(v Var) {
		if int(v) > max {
			max = int(v)
		}
	})
	return max
}

// AtomMaxVar returns the highest variable index occurring in a's
// arguments, or -1.
func AtomMaxVar(a *Atom) int {
	max := -1
	for _, arg := range a.Args {
		if m := MaxVar(arg); m > max {
			max = m
		}
	}
	return max
}

// CollectVars appends every variable occurring in t to out, in
// first-occurrence order, without duplicates.
func CollectVars(t Term, out *[]Var) {
	seen := make(map[Var]bool)
	for _, v := range *out {
		seen[v] = true
	}
	walkVars(t, func(v Var) {
		if !seen[v] {
			seen[v] = true
			*out = append(*out, v)
		}
	})
}

func walkVars(t Term, f func(Var)) {
	switch x := t.(type) {
	case Var:
		f(x)
	case Const:
	case Fn:
		for _, a := range x.Args {
			walkVars(a, f)
		}
	case Cmp:
		walkVars(x.L, f)
		walkVars(x.R, f)
	case Not:
		walkVars(x.X, f)
	case And:
		for _, x := range x.Xs {
			walkVars(x, f)
		}
	case Or:
		for _, x := range x.Xs {
			walkVars(x, f)
		}
	case BoolConst:
	case Quantified:
		walkVars(x.Body, f)
	}
}

// AtomFingerprint returns a canonical string encoding of a, used to
// de-duplicate structurally identical tail entries.
func AtomFingerprint(a *Atom) string {
	var b strings.Builder
	fmt.Fprintf(&b, "a{%s(", a.Pred)
	for _, arg := range a.Args {
		fingerprint(arg, &b)
		b.WriteByte(',')
	}
	b.WriteString(")}")
	return b.String()
}

// AtomCollectVars appends every variable occurring in a's arguments to
// out, in first-occurrence order, without duplicates.
func AtomCollectVars(a *Atom, out *[]Var) {
	for _, arg := range a.Args {
		CollectVars(arg, out)
	}
}

// Fingerprint returns a canonical string encoding of t, used to
// de-duplicate structurally identical tail entries and as the key the
// interpreted-tail simplifier assigns SAT variables by.
func Fingerprint(t Term) string {
	var b strings.Builder
	fingerprint(t, &b)
	return b.String()
}

func fingerprint(t Term, b *strings.Builder) {
	switch x := t.(type) {
	case Var:
		fmt.Fprintf(b, "v%d", int(x))
	case Const:
		fmt.Fprintf(b, "c%v", x.Value)
	case Fn:
		fmt.Fprintf(b, "f{%s(", x.Sym)
		for _, a := range x.Args {
			fingerprint(a, b)
			b.WriteByte(',')
		}
		b.WriteString(")}")
	case Cmp:
		fmt.Fprintf(b, "cmp%d(", int(x.Op))
		fingerprint(x.L, b)
		b.WriteByte(',')
		fingerprint(x.R, b)
		b.WriteByte(')')
	case Not:
		b.WriteString("not(")
		fingerprint(x.X, b)
		b.WriteByte(')')
	case And:
		b.WriteString("and(")
		fingerprintSorted(x.Xs, b)
		b.WriteByte(')')
	case Or:
		b.WriteString("or(")
		fingerprintSorted(x.Xs, b)
		b.WriteByte(')')
	case BoolConst:
		fmt.Fprintf(b, "bc%v", bool(x))
	case Quantified:
		fmt.Fprintf(b, "q%d[", int(x.Kind))
		for _, v := range x.Vars {
			fmt.Fprintf(b, "%d,", int(v))
		}
		b.WriteString("](")
		fingerprint(x.Body, b)
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "?%v", t)
	}
}

func fingerprintSorted(xs []BoolExpr, b *strings.Builder) {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = Fingerprint(x)
	}
	sort.Strings(parts)
	for _, p := range parts {
		b.WriteString(p)
		b.WriteByte(';')
	}
}
