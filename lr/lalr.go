package lr

import (
	"github.com/marrowgate/langforge/automaton"
)

// CollapseLALR merges same-core states of a canonical LR(1) automaton into
// single LALR(1) states: states are equivalent iff their item cores match
// pairwise; each equivalence class becomes one state whose items are the
// core items with the union of lookaheads, and transitions are rewritten
// to point at representative classes.
func CollapseLALR(lr1 *automaton.DFA[ItemSet]) *automaton.DFA[ItemSet] {
	groups := map[string][]string{} // coreKey -> list of original state names
	var groupOrder []string

	for _, s := range lr1.States().Ordered() {
		ck := coreKey(lr1.State(s).Value)
		if _, ok := groups[ck]; !ok {
			groupOrder = append(groupOrder, ck)
		}
		groups[ck] = append(groups[ck], s)
	}

	lalr := automaton.NewDFA[ItemSet]()
	nameOf := map[string]string{} // original state name -> new lalr state name

	for _, ck := range groupOrder {
		members := groups[ck]
		merged := mergeItemSets(lr1, members)
		accept := false
		for _, m := range members {
			if lr1.IsAccepting(m) {
				accept = true
			}
		}
		newName := lalr.AddState(accept, merged)
		for _, m := range members {
			nameOf[m] = newName
		}
	}

	for _, ck := range groupOrder {
		members := groups[ck]
		rep := members[0]
		for _, x := range lr1.Alphabet().Ordered() {
			to, ok := lr1.Next(rep, x)
			if !ok {
				continue
			}
			lalr.AddTransition(nameOf[rep], x, nameOf[to])
		}
	}

	lalr.Start = nameOf[lr1.Start]
	return lalr
}

func mergeItemSets(lr1 *automaton.DFA[ItemSet], members []string) ItemSet {
	merged := ItemSet{}
	for _, m := range members {
		for k, v := range lr1.State(m).Value {
			merged[k] = v
		}
	}
	return merged
}
