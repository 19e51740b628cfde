package rule

import (
	"errors"

	"dlinline/graph"
	"dlinline/term"
)

// ErrUnstratifiable is returned by Set.Close when the rule set's
// predicate dependency graph has a negative edge inside a single
// strongly connected component — i.e. a predicate negatively depends,
// directly or indirectly, on itself. spec.md §7 treats this as an
// internal invariant violation when it happens *after* a
// transformation (the engine is supposed to preserve stratification);
// Close reports it as an ordinary error so callers can decide how to
// react to input that was never stratified in the first place.
var ErrUnstratifiable = errors.New("rule: rule set is not stratifiable")

// Set is an unordered collection of rules, indexable by head
// predicate and closed under stratification once Close succeeds.
type Set struct {
	rules  []*Rule
	byHead map[*term.Pred][]*Rule
	strat  *Stratifier
}

// NewSet returns an empty rule set.
func NewSet() *Set {
	return &Set{byHead: make(map[*term.Pred][]*Rule)}
}

// Add inserts r into the set. Adding a rule invalidates any previously
// computed stratifier; Close must be called again before Stratifier
// is used.
func (s *Set) Add(r *Rule) {
	s.rules = append(s.rules, r)
	s.byHead[r.Head.Pred] = append(s.byHead[r.Head.Pred], r)
	s.strat = nil
}

// Rules returns every rule in the set, in insertion order.
func (s *Set) Rules() []*Rule { return s.rules }

// NumRules returns the number of rules in the set.
func (s *Set) NumRules() int { return len(s.rules) }

// ForPred returns the rules whose head predicate is p.
func (s *Set) ForPred(p *term.Pred) []*Rule { return s.byHead[p] }

// IsClosed reports whether Close has succeeded since the last Add.
func (s *Set) IsClosed() bool { return s.strat != nil }

// Stratifier returns the stratifier computed by the last successful
// Close call. It panics if the set is not currently closed, since
// every caller in this module is expected to close a set immediately
// after building it and before stratifier-dependent passes run.
func (s *Set) Stratifier() *Stratifier {
	if s.strat == nil {
		panic("rule: Stratifier called on a set that is not closed")
	}
	return s.strat
}

// Clone returns a new, empty-stratifier Set containing the same rules
// (the *Rule values are shared, since rules are immutable).
func (s *Set) Clone() *Set {
	out := NewSet()
	for _, r := range s.rules {
		out.Add(r)
	}
	return out
}

// Close recomputes the stratifier: it builds the head-to-tail
// predicate dependency graph, decomposes it into strongly connected
// components in dependency-first order, and verifies that no negative
// edge stays inside a single component.
func (s *Set) Close() error {
	preds, index := s.collectPreds()
	g := graph.NewGraph(len(preds))

	type negEdge struct{ from, to int }
	var negEdges []negEdge

	for _, r := range s.rules {
		hi := index[r.Head.Pred]
		n := r.UninterpretedTailSize()
		for i := 0; i < n; i++ {
			ti := index[r.Decl(i)]
			g.AddEdge(hi, ti)
			if r.IsNegTail(i) {
				negEdges = append(negEdges, negEdge{hi, ti})
			}
		}
	}

	comps := g.SCC()
	stratOf := make([]uint, len(preds))
	for i, comp := range comps {
		for _, node := range comp {
			stratOf[node] = uint(i)
		}
	}

	for _, e := range negEdges {
		if stratOf[e.from] == stratOf[e.to] {
			return ErrUnstratifiable
		}
	}

	compPreds := make([][]*term.Pred, len(comps))
	predStrat := make(map[*term.Pred]uint, len(preds))
	for i, comp := range comps {
		ps := make([]*term.Pred, len(comp))
		for j, node := range comp {
			ps[j] = preds[node]
			predStrat[preds[node]] = uint(i)
		}
		compPreds[i] = ps
	}

	s.strat = &Stratifier{comps: compPreds, stratOf: predStrat}
	return nil
}

func (s *Set) collectPreds() ([]*term.Pred, map[*term.Pred]int) {
	index := make(map[*term.Pred]int)
	var preds []*term.Pred
	add := func(p *term.Pred) {
		if _, ok := index[p]; !ok {
			index[p] = len(preds)
			preds = append(preds, p)
		}
	}
	for _, r := range s.rules {
		add(r.Head.Pred)
		n := r.UninterpretedTailSize()
		for i := 0; i < n; i++ {
			add(r.Decl(i))
		}
	}
	return preds, index
}

// Stratifier is the ordered SCC decomposition of a closed rule set's
// predicate dependency graph.
type Stratifier struct {
	comps   [][]*term.Pred
	stratOf map[*term.Pred]uint
}

// Strats returns the strongly connected components, in dependency
// (lower-first) order.
func (st *Stratifier) Strats() [][]*term.Pred { return st.comps }

// Strat returns p's stratum number; higher means later / more
// dependent. Predicates that never appear in the rule set are not
// present and Strat returns 0 for them, matching the convention that
// an isolated predicate is its own trivial stratum at the bottom.
func (st *Stratifier) Strat(p *term.Pred) uint { return st.stratOf[p] }
