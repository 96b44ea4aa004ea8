// Package lr builds the canonical LR(1) item-set automaton, collapses it to
// LALR(1) by merging same-core states, and constructs the resulting
// ACTION/GOTO table.
package lr

import (
	"sort"

	"github.com/marrowgate/langforge/grammar"
	"github.com/marrowgate/langforge/internal/util"
)

// ItemSet is a set of LR1Items keyed by their full (core, lookahead) key.
type ItemSet = util.SVSet[grammar.LR1Item]

// Closure computes CLOSURE(items): for each item
// (A -> alpha . B beta, L) and each production B -> gamma, for every b in
// FIRST(beta L), add the item (B -> . gamma, {b}), iterating to a fixed
// point. Items sharing a core are naturally merged because the result set
// is keyed by the full item key -- adding an already-present (core,
// lookahead) pair is a no-op, which is exactly "union of lookaheads" over
// repeated insertion.
func Closure(g *grammar.Grammar, first map[string]util.StringSet, items ItemSet) ItemSet {
	result := util.NewSVSet[grammar.LR1Item]()
	for k, v := range items {
		result.Set(k, v)
	}

	changed := true
	for changed {
		changed = false
		for _, k := range result.Elements() {
			item := result.Get(k)
			b, ok := item.NextSymbol()
			if !ok || !g.IsNonTerminal(b) {
				continue
			}

			beta := item.Right[1:]
			seq := append(append([]string{}, beta...), item.Lookahead)
			lookaheads := grammar.FirstOfSequence(first, seq)

			rule, ok := g.Rule(b)
			if !ok {
				continue
			}
			for _, prod := range rule.Productions {
				var right []string
				if !prod.IsEpsilon() {
					right = []string(prod)
				}
				core := grammar.LR0Item{NonTerminal: b, Right: right}

				for _, la := range lookaheads.Ordered() {
					if la == "@" {
						continue
					}
					newItem := grammar.LR1Item{LR0Item: core, Lookahead: la}
					key := newItem.Key()
					if !result.Has(key) {
						result.Set(key, newItem)
						changed = true
					}
				}
			}
		}
	}

	return result
}

// Goto computes GOTO(items, x): the closure of the
// set of items with the dot advanced over x.
func Goto(g *grammar.Grammar, first map[string]util.StringSet, items ItemSet, x string) ItemSet {
	kernel := util.NewSVSet[grammar.LR1Item]()
	for _, k := range items.Elements() {
		item := items.Get(k)
		sym, ok := item.NextSymbol()
		if !ok || sym != x {
			continue
		}
		advanced := grammar.LR1Item{LR0Item: item.LR0Item.Advance(), Lookahead: item.Lookahead}
		kernel.Set(advanced.Key(), advanced)
	}
	if kernel.Empty() {
		return kernel
	}
	return Closure(g, first, kernel)
}

// stateKey gives a canonical, order-independent key for an item set,
// identifying an LR(1) state by set-equality of its items including
// lookaheads.
func stateKey(items ItemSet) string {
	keys := items.Elements()
	sort.Strings(keys)
	out := ""
	for _, k := range keys {
		out += k + "\x00"
	}
	return out
}

// coreKey gives a canonical key for an item set's cores only, ignoring
// lookaheads, used to detect same-core states for the LALR(1) collapse.
func coreKey(items ItemSet) string {
	var cores []string
	seen := map[string]bool{}
	for _, k := range items.Elements() {
		c := items.Get(k).Core()
		if seen[c] {
			continue
		}
		seen[c] = true
		cores = append(cores, c)
	}
	sort.Strings(cores)
	out := ""
	for _, c := range cores {
		out += c + "\x00"
	}
	return out
}
