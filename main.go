package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"dlinline/inline"
	"dlinline/interp"
	"dlinline/oracle"
	"dlinline/rule"
	"dlinline/syntax"
	"dlinline/term"
)

func main() {
	linear := flag.Bool("linear", true, "run the linear inlining pass")
	branch := flag.Bool("linear-branch", false, "allow linear inlining to fuse a rule consumed by more than one rule")
	fixUnbound := flag.Bool("fix-unbound-vars", true, "quantify unbound head variables produced by resolution")
	verify := flag.Bool("verify", false, "run the Prolog differential oracle over the output predicates and print any mismatch")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: dlinline [flags] <source.dl>")
		os.Exit(2)
	}

	source, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("reading %s: %v", flag.Arg(0), err)
	}

	prog, err := syntax.Parse(flag.Arg(0), string(source))
	if err != nil {
		log.Fatalf("parsing %s: %v", flag.Arg(0), err)
	}

	preds := term.NewTable()
	mgr := rule.NewManager()
	orig, outputPreds, factPreds, err := syntax.Build(preds, mgr, prog)
	if err != nil {
		log.Fatalf("building rule set: %v", err)
	}

	cfg := inline.Config{
		InlineLinear:       *linear,
		InlineLinearBranch: *branch,
		FixUnboundVars:     *fixUnbound,
	}
	simp := interp.NewGiniSimplifier()

	result, ledger, changed := inline.Run(orig, mgr, simp, cfg, outputPreds, factPreds)
	if !changed {
		fmt.Println("no change")
		return
	}

	fmt.Printf("%d rule(s) before, %d rule(s) after (%d deletion(s), %d resolution(s)):\n",
		orig.NumRules(), result.NumRules(), len(ledger.Deletes), len(ledger.Resolves))
	for _, r := range result.Rules() {
		fmt.Println(renderRule(r))
	}

	if *verify {
		diffs, err := oracle.Check(orig, result, outputPreds)
		if err != nil {
			log.Fatalf("running differential oracle: %v", err)
		}
		if len(diffs) == 0 {
			fmt.Println("\nverify: every output predicate's answer set is unchanged")
			return
		}
		fmt.Println("\nverify: answer sets diverged")
		for _, d := range diffs {
			fmt.Printf("  %s: before=%s after=%s\n", d.Pred, d.Before, d.After)
		}
		os.Exit(1)
	}
}

func renderRule(r *rule.Rule) string {
	if len(r.Tail) == 0 {
		return fmt.Sprintf("%v.", r.Head)
	}
	s := fmt.Sprintf("%v :- ", r.Head)
	for i, l := range r.Tail {
		if i > 0 {
			s += ", "
		}
		switch l.Kind {
		case rule.Neg:
			s += fmt.Sprintf("not %v", l.Atom)
		case rule.Interp:
			s += fmt.Sprintf("%v", l.Expr)
		default:
			s += fmt.Sprintf("%v", l.Atom)
		}
	}
	return s + "."
}
