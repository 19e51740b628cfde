package syntax

import "github.com/alecthomas/participle/v2"

// Term is a first-order term as it appears inside an atom's argument
// list: a variable, a number, a string, a bare constant, or a
// compound (function) application.
type Term interface{ term() }

type TVar struct {
	Name string `@Var`
}

type TCompound struct {
	Name string `@Ident`
	Args []Term `"(" @@ ("," @@)* ")"`
}

type TNum struct {
	Value string `@Number`
}

type TStr struct {
	Value string `@String`
}

type TConst struct {
	Name string `@Ident`
}

func (TVar) term()      {}
func (TCompound) term() {}
func (TNum) term()      {}
func (TStr) term()      {}
func (TConst) term()    {}

// Operand is the restricted term grammar allowed on either side of a
// comparison — see the package doc for why compounds are excluded.
type Operand interface{ operand() }

type OVar struct {
	Name string `@Var`
}

type ONum struct {
	Value string `@Number`
}

type OStr struct {
	Value string `@String`
}

type OConst struct {
	Name string `@Ident`
}

func (OVar) operand()   {}
func (ONum) operand()   {}
func (OStr) operand()   {}
func (OConst) operand() {}

// Value is an operand, optionally combined with one other operand by
// a single arithmetic operator (`X`, `X + 1`, `Y * 2`).
type Value struct {
	Left  Operand  `@@`
	Op    string   `( @("+" | "-" | "*" | "/")`
	Right *Operand `  @@ )?`
}

// AtomLit is a predicate applied to zero or more term arguments — the
// shape shared by a clause head and a positive/negative tail literal.
type AtomLit struct {
	Name string `@Ident`
	Args []Term `("(" @@ ("," @@)* ")")?`
}

// BodyItem is one tail entry: a negated atom, a comparison, or a
// positive atom, tried in that order so a comparison's leading
// operand doesn't get mistaken for a bare atom.
type BodyItem interface{ bodyItem() }

type NegLit struct {
	Atom AtomLit `"not" @@`
}

type CmpLit struct {
	Left  Value  `@@`
	Op    string `@("!=" | "<=" | ">=" | "=" | "<" | ">")`
	Right Value  `@@`
}

type PosLit struct {
	Atom AtomLit `@@`
}

func (NegLit) bodyItem() {}
func (CmpLit) bodyItem() {}
func (PosLit) bodyItem() {}

// Clause is `head.` or `head :- item, item, ... .`.
type Clause struct {
	Head AtomLit    `@@`
	Tail []BodyItem `(":-" @@ ("," @@)*)? "."`
}

// PredRef names a predicate by name and arity, as used in a directive.
type PredRef struct {
	Name  string `@Ident`
	Arity int    `"/" @Number`
}

// Directive is `#output pred/arity, pred/arity, ... .`, marking
// predicates the driver must never inline away.
type Directive struct {
	Preds []PredRef `"#output" @@ ("," @@)* "."`
}

// Statement is one top-level directive or clause.
type Statement struct {
	Directive *Directive `( @@`
	Clause    *Clause    `| @@ )`
}

// Program is a full parsed source file.
type Program struct {
	Statements []Statement `@@*`
}

var parser = participle.MustBuild[Program](
	participle.Lexer(datalogLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Union[Term](TCompound{}, TVar{}, TNum{}, TStr{}, TConst{}),
	participle.Union[Operand](OVar{}, ONum{}, OStr{}, OConst{}),
	participle.Union[BodyItem](NegLit{}, CmpLit{}, PosLit{}),
	participle.UseLookahead(2),
)

// Parse parses source text into a Program AST.
func Parse(filename, source string) (*Program, error) {
	return parser.ParseString(filename, source)
}
