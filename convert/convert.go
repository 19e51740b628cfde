// Package convert implements the proof/model-converter ledger spec.md
// §4.1 and §7 treat as an opaque audit-trail sink: every rule deletion
// and every resolve step is appended to it, never interpreted by the
// inlining engine itself.
package convert

import "dlinline/rule"

// DeleteEntry records that a rule was dropped from the result without
// being replaced (spec.md §3 "logically deleted").
type DeleteEntry struct {
	Rule *rule.Rule
}

// ResolveEntry records that res was produced by resolving tgt's
// tail[tailIndex] against src.
type ResolveEntry struct {
	Target    *rule.Rule
	Source    *rule.Rule
	TailIndex int
	Result    *rule.Rule
}

// Ledger accumulates delete and resolve entries in emission order:
// whoever consumes it can reconstruct `P(x) := P(x) or (exists y.
// Q(y) & phi(x,y))` for every resolve entry, and drop the semantic
// contribution of every delete entry.
type Ledger struct {
	Deletes  []DeleteEntry
	Resolves []ResolveEntry
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger { return &Ledger{} }

func (l *Ledger) AppendDelete(r *rule.Rule) {
	l.Deletes = append(l.Deletes, DeleteEntry{Rule: r})
}

func (l *Ledger) AppendResolve(tgt, src *rule.Rule, tailIndex int, res *rule.Rule) {
	l.Resolves = append(l.Resolves, ResolveEntry{Target: tgt, Source: src, TailIndex: tailIndex, Result: res})
}
