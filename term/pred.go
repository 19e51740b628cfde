// Package term implements the term algebra the inliner is built on:
// predicate symbols, first-order terms (variables, constants, function
// applications), atoms, and the interpreted boolean-expression algebra
// that stands in for a rule's non-predicate tail conjuncts.
package term

import "fmt"

// Pred is a predicate symbol. Identity is by pointer: two Preds with
// the same name and arity are only equal if they came from the same
// Table.
type Pred struct {
	Name  string
	Arity int
	id    uint64
}

// ID returns the numeric id used to break ties in the orientation
// check (spec.md §4.6.1).
func (p *Pred) ID() uint64 { return p.id }

func (p *Pred) String() string {
	return fmt.Sprintf("%s/%d", p.Name, p.Arity)
}

// Table interns predicate symbols by (name, arity) so that pointer
// equality can stand in for symbol identity everywhere else in the
// module.
type Table struct {
	next uint64
	syms map[predKey]*Pred
}

type predKey struct {
	name  string
	arity int
}

// NewTable returns an empty predicate table.
func NewTable() *Table {
	return &Table{syms: make(map[predKey]*Pred)}
}

// Intern returns the canonical *Pred for (name, arity), creating it on
// first use.
func (t *Table) Intern(name string, arity int) *Pred {
	k := predKey{name, arity}
	if p, ok := t.syms[k]; ok {
		return p
	}
	p := &Pred{Name: name, Arity: arity, id: t.next}
	t.next++
	t.syms[k] = p
	return p
}

// Lookup returns the interned predicate if it exists, without creating
// one.
func (t *Table) Lookup(name string, arity int) (*Pred, bool) {
	p, ok := t.syms[predKey{name, arity}]
	return p, ok
}

// All returns every predicate interned so far, in id order.
func (t *Table) All() []*Pred {
	out := make([]*Pred, len(t.syms))
	for _, p := range t.syms {
		out[p.id] = p
	}
	return out
}
