package inline

import (
	"dlinline/rule"
	"dlinline/term"
)

// findHeadUnifiers is spec.md §4.7's head index lookup: every valid
// rule (other than self) whose head unifies with atom. Real term
// indices in the source (m_head_index) key by structural
// discrimination trees; here the same query is answered by a linear
// scan doing real unification checks — see DESIGN.md for why a
// discrimination-tree index wasn't worth building for this exercise.
func findHeadUnifiers(atom *term.Atom, acc []*rule.Rule, valid []bool, self int) []int {
	var out []int
	for j, r := range acc {
		if j == self || !valid[j] {
			continue
		}
		if r.Head.Pred != atom.Pred {
			continue
		}
		if atomsUnify(atom, r.Head) {
			out = append(out, j)
		}
	}
	return out
}

// findTailUnifiers is spec.md §4.7's tail index lookup: every valid
// rule with some uninterpreted tail literal that unifies with head. A
// rule with several matching tail literals contributes once per
// occurrence, mirroring the source's per-occurrence position lists.
func findTailUnifiers(head *term.Atom, acc []*rule.Rule, valid []bool) []int {
	var out []int
	for j, r := range acc {
		if !valid[j] {
			continue
		}
		n := r.UninterpretedTailSize()
		for ti := 0; ti < n; ti++ {
			a := r.TailAtom(ti)
			if a.Pred != head.Pred {
				continue
			}
			if atomsUnify(head, a) {
				out = append(out, j)
			}
		}
	}
	return out
}

// linearPass is spec.md §4.7: fuse chains of single-tail-atom rules
// into their unique definitions, deleting the consumed rule whenever
// it has no other consumer. Branching, when permitted by configuration,
// allows fusion into one of several consumers; the consumed rule is
// then kept for the others.
func (e *Engine) linearPass(rules *rule.Set) (*rule.Set, bool) {
	acc := append([]*rule.Rule(nil), rules.Rules()...)
	sz := len(acc)
	valid := make([]bool, sz)
	canRemove := make([]bool, sz)
	canExpand := make([]bool, sz)
	for i, r := range acc {
		valid[i] = true
		canRemove[i] = !e.outputPreds.Contains(r.Head.Pred) && !e.factPreds.Contains(r.Head.Pred)
		canExpand[i] = r.UninterpretedTailSize() == 1 && r.PositiveTailSize() == 1 &&
			!e.factPreds.Contains(r.Decl(0)) && !e.outputPreds.Contains(r.Decl(0))
	}

	doneSomething := false
	allowBranching := e.Config.InlineLinearBranch

	for i := 0; i < sz; i++ {
		for valid[i] && canExpand[i] {
			r := acc[i]
			headUnifiers := findHeadUnifiers(r.TailAtom(0), acc, valid, i)
			if len(headUnifiers) != 1 {
				break
			}
			j := headUnifiers[0]
			if j == i || !valid[j] || !canRemove[j] {
				break
			}
			r2 := acc[j]

			tailUnifiers := findTailUnifiers(r2.Head, acc, valid)
			if !allowBranching && len(tailUnifiers) != 1 {
				break
			}

			res, ok := e.tryToInlineRule(r, 0, r2)
			if !ok {
				break
			}

			doneSomething = true
			acc[i] = res
			canExpand[i] = canExpand[j]

			if len(tailUnifiers) == 1 {
				valid[j] = false
				e.Ledger.AppendDelete(r2)
			}
		}
	}

	if !doneSomething {
		return rules, false
	}
	out := rule.NewSet()
	for i, ok := range valid {
		if ok {
			out.Add(acc[i])
		}
	}
	if err := out.Close(); err != nil {
		panic("inline: linear pass produced an unstratifiable rule set: " + err.Error())
	}
	return out, true
}
