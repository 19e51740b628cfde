package syntax

import (
	"fmt"
	"strconv"
	"strings"

	"dlinline/rule"
	"dlinline/term"

	mapset "github.com/deckarep/golang-set/v2"
)

// varScope allocates dense, first-occurrence-ordered variable indices
// within a single clause, in source order. buildClause still runs
// rule.NormVars afterwards, since Mk's canonical tail reordering can
// change which variable occurs first.
type varScope struct {
	byName map[string]term.Var
	next   int
}

func newVarScope() *varScope { return &varScope{byName: make(map[string]term.Var)} }

func (s *varScope) get(name string) term.Var {
	if name == "_" {
		v := term.Var(s.next)
		s.next++
		return v
	}
	if v, ok := s.byName[name]; ok {
		return v
	}
	v := term.Var(s.next)
	s.next++
	s.byName[name] = v
	return v
}

type builder struct {
	preds *term.Table
	mgr   *rule.Manager
}

// Build converts a parsed Program into a closed rule set, the set of
// predicates named by `#output` directives, and the set of predicates
// with at least one fact (an empty-tail clause) — spec.md §4.2's
// fact_preds, derived here from the source text rather than supplied
// out of band, since a standalone CLI has no other context to supply
// it from (see DESIGN.md).
func Build(preds *term.Table, mgr *rule.Manager, prog *Program) (*rule.Set, mapset.Set[*term.Pred], mapset.Set[*term.Pred], error) {
	b := &builder{preds: preds, mgr: mgr}
	outputPreds := mapset.NewSet[*term.Pred]()
	factPreds := mapset.NewSet[*term.Pred]()
	set := rule.NewSet()

	for _, st := range prog.Statements {
		if st.Directive != nil {
			for _, pr := range st.Directive.Preds {
				outputPreds.Add(preds.Intern(pr.Name, pr.Arity))
			}
			continue
		}
		r, err := b.buildClause(st.Clause)
		if err != nil {
			return nil, nil, nil, err
		}
		set.Add(r)
		if len(r.Tail) == 0 {
			factPreds.Add(r.Head.Pred)
		}
	}

	if err := set.Close(); err != nil {
		return nil, nil, nil, err
	}
	return set, outputPreds, factPreds, nil
}

func (b *builder) buildClause(c *Clause) (*rule.Rule, error) {
	scope := newVarScope()
	head, err := b.buildAtom(&c.Head, scope)
	if err != nil {
		return nil, err
	}

	tail := make([]rule.TailLit, 0, len(c.Tail))
	for _, item := range c.Tail {
		switch x := item.(type) {
		case NegLit:
			a, err := b.buildAtom(&x.Atom, scope)
			if err != nil {
				return nil, err
			}
			tail = append(tail, rule.NegLit(a))
		case PosLit:
			a, err := b.buildAtom(&x.Atom, scope)
			if err != nil {
				return nil, err
			}
			tail = append(tail, rule.PosLit(a))
		case CmpLit:
			expr, err := b.buildCmp(x, scope)
			if err != nil {
				return nil, err
			}
			tail = append(tail, rule.InterpLit(expr))
		default:
			return nil, fmt.Errorf("syntax: unknown body item %T", item)
		}
	}

	r := b.mgr.Mk(head, tail)
	return rule.NormVars(r), nil
}

func (b *builder) buildAtom(a *AtomLit, scope *varScope) (*term.Atom, error) {
	args := make([]term.Term, len(a.Args))
	for i, t := range a.Args {
		v, err := b.buildTerm(t, scope)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	pred := b.preds.Intern(a.Name, len(args))
	return term.NewAtom(pred, args...), nil
}

func (b *builder) buildTerm(t Term, scope *varScope) (term.Term, error) {
	switch x := t.(type) {
	case TVar:
		return scope.get(x.Name), nil
	case TCompound:
		args := make([]term.Term, len(x.Args))
		for i, a := range x.Args {
			v, err := b.buildTerm(a, scope)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return term.Fn{Sym: x.Name, Args: args}, nil
	case TNum:
		v, err := parseNumber(x.Value)
		if err != nil {
			return nil, err
		}
		return term.Const{Value: v}, nil
	case TStr:
		return term.Const{Value: unquote(x.Value)}, nil
	case TConst:
		return term.Fn{Sym: x.Name}, nil
	default:
		return nil, fmt.Errorf("syntax: unknown term %T", t)
	}
}

func (b *builder) buildOperand(o Operand, scope *varScope) (term.Term, error) {
	switch x := o.(type) {
	case OVar:
		return scope.get(x.Name), nil
	case ONum:
		v, err := parseNumber(x.Value)
		if err != nil {
			return nil, err
		}
		return term.Const{Value: v}, nil
	case OStr:
		return term.Const{Value: unquote(x.Value)}, nil
	case OConst:
		return term.Fn{Sym: x.Name}, nil
	default:
		return nil, fmt.Errorf("syntax: unknown operand %T", o)
	}
}

func (b *builder) buildValue(v Value, scope *varScope) (term.Term, error) {
	left, err := b.buildOperand(v.Left, scope)
	if err != nil {
		return nil, err
	}
	if v.Right == nil {
		return left, nil
	}
	right, err := b.buildOperand(*v.Right, scope)
	if err != nil {
		return nil, err
	}
	return term.Fn{Sym: v.Op, Args: []term.Term{left, right}}, nil
}

func (b *builder) buildCmp(c CmpLit, scope *varScope) (term.BoolExpr, error) {
	l, err := b.buildValue(c.Left, scope)
	if err != nil {
		return nil, err
	}
	r, err := b.buildValue(c.Right, scope)
	if err != nil {
		return nil, err
	}
	op, err := cmpOpFromString(c.Op)
	if err != nil {
		return nil, err
	}
	return term.Cmp{Op: op, L: l, R: r}, nil
}

func cmpOpFromString(s string) (term.CmpOp, error) {
	switch s {
	case "=":
		return term.OpEq, nil
	case "!=":
		return term.OpNe, nil
	case "<":
		return term.OpLt, nil
	case "<=":
		return term.OpLe, nil
	case ">":
		return term.OpGt, nil
	case ">=":
		return term.OpGe, nil
	default:
		return 0, fmt.Errorf("syntax: unknown comparison operator %q", s)
	}
}

func parseNumber(s string) (interface{}, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("syntax: invalid number %q", s)
	}
	return f, nil
}

func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.ReplaceAll(s, `\"`, `"`)
}
