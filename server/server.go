package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"dlinline/inline"
	"dlinline/interp"
	"dlinline/oracle"
	"dlinline/rule"
	"dlinline/syntax"
	"dlinline/term"
)

// Response is the JSON shape /inline replies with, in the same
// flat-struct-with-a-Stage-field style server/server.go's teacher
// version used for its /typecheck and /prolog endpoints.
type Response struct {
	Stage   string
	Error   string   `json:",omitempty"`
	Changed bool     `json:",omitempty"`
	Before  []string `json:",omitempty"`
	After   []string `json:",omitempty"`
	Diffs   []oracle.Diff
}

const (
	ParseErrorStage = "parse-error"
	BuildErrorStage = "build-error"
	NoChangeStage   = "no-change"
	InlinedStage    = "inlined"
)

func handleInline(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

	source, err := readBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	prog, err := syntax.Parse("request", source)
	if err != nil {
		encode(w, Response{Stage: ParseErrorStage, Error: err.Error()})
		return
	}

	preds := term.NewTable()
	mgr := rule.NewManager()
	orig, outputPreds, factPreds, err := syntax.Build(preds, mgr, prog)
	if err != nil {
		encode(w, Response{Stage: BuildErrorStage, Error: err.Error()})
		return
	}

	simp := interp.NewGopherSimplifier()
	cfg := inline.DefaultConfig()
	result, _, changed := inline.Run(orig, mgr, simp, cfg, outputPreds, factPreds)
	if !changed {
		encode(w, Response{Stage: NoChangeStage, Before: renderAll(orig), After: renderAll(orig)})
		return
	}

	diffs, err := oracle.Check(orig, result, outputPreds)
	if err != nil {
		log.Printf("oracle check failed: %v", err)
		diffs = nil
	}

	encode(w, Response{
		Stage:   InlinedStage,
		Changed: true,
		Before:  renderAll(orig),
		After:   renderAll(result),
		Diffs:   diffs,
	})
}

func encode(w http.ResponseWriter, resp Response) {
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func renderAll(rs *rule.Set) []string {
	out := make([]string, 0, rs.NumRules())
	for _, r := range rs.Rules() {
		out = append(out, renderRule(r))
	}
	return out
}

func renderRule(r *rule.Rule) string {
	if len(r.Tail) == 0 {
		return r.Head.String() + "."
	}
	s := r.Head.String() + " :- "
	for i, l := range r.Tail {
		if i > 0 {
			s += ", "
		}
		switch l.Kind {
		case rule.Neg:
			s += "not " + l.Atom.String()
		case rule.Interp:
			s += fmt.Sprintf("%v", l.Expr)
		default:
			s += l.Atom.String()
		}
	}
	return s + "."
}

func readBody(r *http.Request) (string, error) {
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("closing request body: %v", err)
		}
	}()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("reading request body: %v", err)
		return "", err
	}
	return string(body), nil
}

func main() {
	http.HandleFunc("/inline", handleInline)
	log.Fatal(http.ListenAndServe(":8080", nil))
}
