// Package oracle is the differential checker of Testable Property 1
// ("Answer-set preservation"): render a rule set as Prolog source,
// run it and an inlined counterpart through an embedded Prolog
// interpreter, and diff the sorted solution sets of every output
// predicate. It is a test/verification aid, not part of the
// transformation itself.
//
// Grounded on prolog-tool/prolog.go's Logic.ConsultAndCheck: the same
// Exec-then-Query-then-Scan sequence, generalized from a single
// boolean check to a per-predicate findall/sort comparison.
package oracle

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"dlinline/rule"
	"dlinline/term"

	"github.com/ichiban/prolog"

	mapset "github.com/deckarep/golang-set/v2"
)

// Diff is one output predicate whose answer set changed.
type Diff struct {
	Pred   string
	Before string
	After  string
}

// Check renders before and after, runs each through its own Prolog
// interpreter, and returns the predicates in outputPreds whose sorted
// solution set differs between the two. An empty, non-nil slice means
// every output predicate's answer set was preserved.
func Check(before, after *rule.Set, outputPreds mapset.Set[*term.Pred]) ([]Diff, error) {
	preds := outputPreds.ToSlice()
	sort.Slice(preds, func(i, j int) bool {
		if preds[i].Name != preds[j].Name {
			return preds[i].Name < preds[j].Name
		}
		return preds[i].Arity < preds[j].Arity
	})

	beforeSrc := Render(before)
	afterSrc := Render(after)

	var diffs []Diff
	for _, p := range preds {
		b, err := solutionsOf(beforeSrc, p)
		if err != nil {
			return nil, fmt.Errorf("oracle: querying %s before inlining: %w", p, err)
		}
		a, err := solutionsOf(afterSrc, p)
		if err != nil {
			return nil, fmt.Errorf("oracle: querying %s after inlining: %w", p, err)
		}
		if b != a {
			diffs = append(diffs, Diff{Pred: p.String(), Before: b, After: a})
		}
	}
	if diffs == nil {
		diffs = []Diff{}
	}
	return diffs, nil
}

// solutionsOf consults program and returns the canonical (sorted,
// deduplicated) printed form of every solution of pred.
func solutionsOf(program string, pred *term.Pred) (string, error) {
	p := prolog.New(nil, nil)
	if err := p.Exec(program); err != nil {
		return "", fmt.Errorf("consulting program: %w", err)
	}

	args := make([]string, pred.Arity)
	for i := range args {
		args[i] = fmt.Sprintf("V%d", i)
	}
	var goal string
	if pred.Arity == 0 {
		goal = prologAtomName(pred.Name)
	} else {
		goal = fmt.Sprintf("%s(%s)", prologAtomName(pred.Name), strings.Join(args, ","))
	}

	query := fmt.Sprintf("findall(pack(%s), %s, L0), sort(L0, L).", strings.Join(args, ","), goal)
	solutions, err := p.Query(query)
	if err != nil {
		return "", fmt.Errorf("querying %s: %w", pred, err)
	}
	defer solutions.Close()

	if !solutions.Next() {
		return "[]", nil
	}
	scanned := map[string]prolog.TermString{}
	if err := solutions.Scan(&scanned); err != nil {
		return "", fmt.Errorf("scanning result of %s: %w", pred, err)
	}
	return string(scanned["L"]), nil
}

// Render renders rs as Prolog clause text.
func Render(rs *rule.Set) string {
	var b strings.Builder
	for _, r := range rs.Rules() {
		renderRule(&b, r)
	}
	return b.String()
}

func renderRule(b *strings.Builder, r *rule.Rule) {
	b.WriteString(renderAtom(r.Head))
	if len(r.Tail) > 0 {
		b.WriteString(" :- ")
		parts := make([]string, len(r.Tail))
		for i, l := range r.Tail {
			parts[i] = renderLit(l)
		}
		b.WriteString(strings.Join(parts, ", "))
	}
	b.WriteString(".\n")
}

func renderLit(l rule.TailLit) string {
	switch l.Kind {
	case rule.Neg:
		return "\\+ " + renderAtom(l.Atom)
	case rule.Interp:
		return renderExpr(l.Expr)
	default:
		return renderAtom(l.Atom)
	}
}

func renderAtom(a *term.Atom) string {
	if len(a.Args) == 0 {
		return prologAtomName(a.Pred.Name)
	}
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = renderTerm(arg)
	}
	return fmt.Sprintf("%s(%s)", prologAtomName(a.Pred.Name), strings.Join(parts, ","))
}

func renderTerm(t term.Term) string {
	switch x := t.(type) {
	case term.Var:
		return fmt.Sprintf("V%d", int(x))
	case term.Const:
		return renderConst(x.Value)
	case term.Fn:
		if len(x.Args) == 0 {
			return prologAtomName(x.Sym)
		}
		parts := make([]string, len(x.Args))
		for i, a := range x.Args {
			parts[i] = renderTerm(a)
		}
		return fmt.Sprintf("%s(%s)", prologAtomName(x.Sym), strings.Join(parts, ","))
	default:
		return fmt.Sprintf("%v", t)
	}
}

// renderConst renders a Go value backing a term.Const as a Prolog
// literal: numbers as-is, everything else as a quoted atom.
func renderConst(v interface{}) string {
	switch x := v.(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprintf("'%s'", strings.ReplaceAll(fmt.Sprint(x), "'", "\\'"))
	}
}

// renderExpr renders an interpreted tail conjunct. OpEq/OpNe render as
// Prolog structural (=)/(\=), not arithmetic (=:=)/(=\=) — an
// arithmetic operand like `Z = X + 1` therefore unifies Z with the
// compound term X+1 rather than evaluating it, matching the
// structural-equality fallback interp.compareConst uses for
// non-numeric operands. OpLt/OpLe/OpGt/OpGe render as Prolog's
// arithmetic comparison operators, which do evaluate +,-,*,/
// subexpressions per ISO Prolog.
func renderExpr(e term.BoolExpr) string {
	switch x := e.(type) {
	case term.Cmp:
		return fmt.Sprintf("%s %s %s", renderTerm(x.L), prologCmpOp(x.Op), renderTerm(x.R))
	case term.Not:
		return "\\+ (" + renderExpr(x.X) + ")"
	case term.And:
		parts := make([]string, len(x.Xs))
		for i, y := range x.Xs {
			parts[i] = renderExpr(y)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case term.Or:
		parts := make([]string, len(x.Xs))
		for i, y := range x.Xs {
			parts[i] = renderExpr(y)
		}
		return "(" + strings.Join(parts, "; ") + ")"
	case term.BoolConst:
		if bool(x) {
			return "true"
		}
		return "fail"
	case term.Quantified:
		// FixUnboundVars only ever attaches one of these with a
		// BoolConst(true) body; it exists to mark the rule ineligible
		// for further inlining, not to constrain execution.
		return "true"
	default:
		return "true"
	}
}

func prologCmpOp(op term.CmpOp) string {
	switch op {
	case term.OpEq:
		return "="
	case term.OpNe:
		return "\\="
	case term.OpLt:
		return "<"
	case term.OpLe:
		return "=<"
	case term.OpGt:
		return ">"
	case term.OpGe:
		return ">="
	default:
		return "="
	}
}

// prologAtomName lower-cases nothing (Datalog predicate/constant names
// are already lowercase-initial by grammar) but quotes the rare name
// that isn't a bare Prolog identifier, e.g. one containing '-'.
func prologAtomName(name string) string {
	for i, r := range name {
		isLower := r >= 'a' && r <= 'z'
		isAlnum := isLower || r == '_' || (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z')
		if i == 0 && !isLower {
			return "'" + name + "'"
		}
		if !isAlnum {
			return "'" + name + "'"
		}
	}
	return name
}
