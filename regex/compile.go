package regex

import (
	"github.com/marrowgate/langforge/automaton"
	"github.com/marrowgate/langforge/internal/util"
)

// CompiledRegex is the output of running one exported regex body all the
// way through the pipeline: its postfix form (kept for diagnostics) and its
// minimized DFA.
type CompiledRegex struct {
	Name    string
	Postfix []string
	DFA     *automaton.DFA[util.StringSet]
}

// Compile turns a single (already merged and bracket-expanded) regex body
// into a minimized DFA: tokenize, insert explicit concatenation, run
// shunting-yard to postfix, build the Thompson NFA, subset-construct, then
// minimize.
func Compile(body string) (*CompiledRegex, error) {
	tokens := InsertConcat(tokenize(body))
	postfix, err := ToPostfix(tokens)
	if err != nil {
		return nil, err
	}

	nfa, err := BuildNFA(postfix)
	if err != nil {
		return nil, err
	}

	dfa := automaton.SubsetConstruct(nfa)
	min := automaton.Minimize(dfa)

	return &CompiledRegex{Postfix: postfix, DFA: min}, nil
}

// CompileSource runs the full regex-source pipeline: parse lines,
// merge helper definitions into the exported ones, then compile each
// exported definition to a minimized DFA. The returned map is keyed by the
// exported name with its leading underscore stripped.
func CompileSource(lines []string) (map[string]*CompiledRegex, error) {
	defs, err := ParseLines(lines)
	if err != nil {
		return nil, err
	}

	merged := Merge(defs)
	exported := Export(merged)

	out := make(map[string]*CompiledRegex, len(exported))
	for name, body := range exported {
		compiled, err := Compile(body)
		if err != nil {
			return nil, err
		}
		compiled.Name = name
		out[name] = compiled
	}

	return out, nil
}
