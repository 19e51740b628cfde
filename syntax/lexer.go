// Package syntax is the Datalog surface grammar spec.md leaves
// implicit: a small textual notation for facts, rules, negation, and
// interpreted (equality/arithmetic) tail literals, parsed with
// participle the way prolog-tool/language.go parses Prolog terms.
//
// A program is a sequence of `#output` directives and clauses:
//
//	#output path/2.
//	edge(a, b).
//	edge(b, c).
//	path(X, Y) :- edge(X, Y).
//	path(X, Y) :- edge(X, Z), path(Z, Y).
//	safe(X, Y) :- edge(X, Y), not blocked(Y), X != Y.
//
// Arithmetic and comparison operands are deliberately restricted to
// variables, numbers, strings, and bare (zero-arity) constants — not
// arbitrary compound terms — so that a comparison's left/right operand
// grammar never has to be disambiguated against a predicate literal's
// argument list. term.Fn (and hence nested function terms) is still
// fully supported inside ordinary atom arguments.
package syntax

import "github.com/alecthomas/participle/v2/lexer"

var datalogLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `%[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Directive", Pattern: `#output`},
	{Name: "Arrow", Pattern: `:-`},
	{Name: "Ne", Pattern: `!=`},
	{Name: "Le", Pattern: `<=`},
	{Name: "Ge", Pattern: `>=`},
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?`},
	{Name: "String", Pattern: `"(\\.|[^"])*"`},
	{Name: "Ident", Pattern: `[a-z][a-zA-Z_0-9]*`},
	{Name: "Var", Pattern: `[A-Z_][a-zA-Z_0-9]*`},
	{Name: "Punct", Pattern: `[/(),.=<>+\-*]`},
})
