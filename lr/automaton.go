package lr

import (
	"github.com/marrowgate/langforge/automaton"
	"github.com/marrowgate/langforge/grammar"
	"github.com/marrowgate/langforge/internal/util"
	"github.com/marrowgate/langforge/types"
)

// BuildCanonical constructs the canonical LR(1) automaton for g: start
// state = CLOSURE({initial item}), explored breadth-first over GOTO,
// memoizing state identity by item-set content. g is augmented
// unconditionally for this purpose via AugmentForLR.
//
// The returned automaton.DFA's states carry the item set they represent as
// their Value, exactly as automaton.DFA already generalizes for subset
// construction -- an LR(1) state IS a DFA state whose payload is a set of
// items instead of a set of NFA states.
func BuildCanonical(g *grammar.Grammar) (*automaton.DFA[ItemSet], *grammar.Grammar, map[string]util.StringSet) {
	aug := g.AugmentForLR()
	first := grammar.FirstSets(aug)

	initialCore := grammar.LR0Item{NonTerminal: aug.StartSymbol(), Right: []string{g.StartSymbol()}}
	initialItem := grammar.LR1Item{LR0Item: initialCore, Lookahead: types.EndOfInput}
	initialSet := util.NewSVSet[grammar.LR1Item]()
	initialSet.Set(initialItem.Key(), initialItem)

	start := Closure(aug, first, initialSet)

	dfa := automaton.NewDFA[ItemSet]()
	seen := map[string]string{}

	startName := dfa.AddState(false, start)
	dfa.Start = startName
	seen[stateKey(start)] = startName

	type pending struct {
		name string
		set  ItemSet
	}
	worklist := []pending{{startName, start}}

	symbols := allSymbols(aug)

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]

		for _, x := range symbols {
			next := Goto(aug, first, cur.set, x)
			if next.Empty() {
				continue
			}
			key := stateKey(next)
			name, ok := seen[key]
			if !ok {
				name = dfa.AddState(false, next)
				seen[key] = name
				worklist = append(worklist, pending{name, next})
			}
			dfa.AddTransition(cur.name, x, name)
		}
	}

	return dfa, aug, first
}

// allSymbols returns every terminal and non-terminal of g, in a stable
// order (non-terminals first in declaration order, then terminals
// lexically), used to drive GOTO exploration.
func allSymbols(g *grammar.Grammar) []string {
	var out []string
	out = append(out, g.NonTerminals()...)
	out = append(out, g.Terminals().Ordered()...)
	return out
}
