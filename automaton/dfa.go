package automaton

import (
	"sort"
	"strconv"

	"github.com/marrowgate/langforge/internal/util"
)

// DFAState is one node of a DFA: a total partial transition function over
// the alphabet (no epsilon), plus an arbitrary payload value recording
// where the state came from.
type DFAState[E any] struct {
	Accepting bool
	Value     E
	Trans     map[string]string
}

// DFA is a deterministic finite automaton over dense, string-numbered
// states.
type DFA[E any] struct {
	states map[string]DFAState[E]
	Start  string
	next   int
}

func NewDFA[E any]() *DFA[E] {
	return &DFA[E]{states: map[string]DFAState[E]{}}
}

func (dfa *DFA[E]) AddState(accepting bool, value E) string {
	name := strconv.Itoa(dfa.next)
	dfa.next++
	dfa.states[name] = DFAState[E]{Accepting: accepting, Value: value, Trans: map[string]string{}}
	return name
}

func (dfa *DFA[E]) AddTransition(from, label, to string) {
	s := dfa.states[from]
	s.Trans[label] = to
	dfa.states[from] = s
}

func (dfa *DFA[E]) State(name string) DFAState[E] {
	return dfa.states[name]
}

func (dfa *DFA[E]) States() util.StringSet {
	s := util.NewStringSet()
	for k := range dfa.states {
		s.Add(k)
	}
	return s
}

// Next returns the state reached from "from" on "label", and whether that
// transition is defined.
func (dfa *DFA[E]) Next(from, label string) (string, bool) {
	to, ok := dfa.states[from].Trans[label]
	return to, ok
}

func (dfa *DFA[E]) IsAccepting(state string) bool {
	return dfa.states[state].Accepting
}

// Alphabet returns every input symbol appearing on some transition.
func (dfa *DFA[E]) Alphabet() util.StringSet {
	s := util.NewStringSet()
	for _, st := range dfa.states {
		for label := range st.Trans {
			s.Add(label)
		}
	}
	return s
}

// Accepts runs the DFA against w in full.
func (dfa *DFA[E]) Accepts(w string) bool {
	cur := dfa.Start
	for _, r := range w {
		next, ok := dfa.Next(cur, string(r))
		if !ok {
			return false
		}
		cur = next
	}
	return dfa.IsAccepting(cur)
}

// SubsetConstruct performs subset construction turning an NFA
// into an equivalent DFA whose states are numbered in discovery order, and
// whose Value is the NFA state set each one originated from.
//
// This is algorithm 3.20 from the purple dragon book.
func SubsetConstruct[E any](nfa *NFA[E]) *DFA[util.SVSet[E]] {
	dfa := NewDFA[util.SVSet[E]]()

	alphabet := nfa.Alphabet()

	dStart := nfa.EpsilonClosure(nfa.Start)
	startKey := dStart.StringOrdered()

	type pending struct {
		key string
		set util.StringSet
	}

	seen := map[string]string{} // state-set key -> dfa state name
	worklist := []pending{{key: startKey, set: dStart}}

	makeValue := func(set util.StringSet) util.SVSet[E] {
		v := util.NewSVSet[E]()
		for _, n := range set.Elements() {
			v.Set(n, nfa.State(n).Value)
		}
		return v
	}

	startAccepting := dStart.Any(func(s string) bool { return nfa.State(s).Accepting })
	startName := dfa.AddState(startAccepting, makeValue(dStart))
	dfa.Start = startName
	seen[startKey] = startName

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]
		curName := seen[cur.key]

		for _, a := range alphabet.Ordered() {
			u := nfa.EpsilonClosureOfSet(nfa.Move(cur.set, a))
			if u.Empty() {
				continue
			}
			uKey := u.StringOrdered()
			uName, ok := seen[uKey]
			if !ok {
				accepting := u.Any(func(s string) bool { return nfa.State(s).Accepting })
				uName = dfa.AddState(accepting, makeValue(u))
				seen[uKey] = uName
				worklist = append(worklist, pending{key: uKey, set: u})
			}
			dfa.AddTransition(curName, a, uName)
		}
	}

	return dfa
}

// Minimize partition-refines dfa into the minimal DFA accepting the same
// language. The initial partition is {non-accepting,
// accepting}; blocks are repeatedly split by successor-block membership on
// each alphabet symbol until no block splits further, which is exactly
// Hopcroft's refinement to a fixed point.
//
// Each resulting state's Value is the set of original dfa state names
// merged into it.
func Minimize[E any](dfa *DFA[E]) *DFA[util.StringSet] {
	alphabet := dfa.Alphabet().Ordered()

	var nonAccepting, accepting util.StringSet = util.NewStringSet(), util.NewStringSet()
	for _, s := range dfa.States().Elements() {
		if dfa.IsAccepting(s) {
			accepting.Add(s)
		} else {
			nonAccepting.Add(s)
		}
	}

	var blocks []util.StringSet
	if !nonAccepting.Empty() {
		blocks = append(blocks, nonAccepting)
	}
	if !accepting.Empty() {
		blocks = append(blocks, accepting)
	}

	blockOf := func(cur []util.StringSet, state string) int {
		for i, b := range cur {
			if b.Has(state) {
				return i
			}
		}
		return -1
	}

	for {
		changed := false
		var next []util.StringSet

		for _, b := range blocks {
			if b.Len() <= 1 {
				next = append(next, b)
				continue
			}

			groups := map[string]util.StringSet{}
			var groupOrder []string
			for _, s := range b.Ordered() {
				var sig string
				for _, a := range alphabet {
					to, ok := dfa.Next(s, a)
					if !ok {
						sig += "|-1"
						continue
					}
					sig += "|" + strconv.Itoa(blockOf(blocks, to))
				}
				if _, ok := groups[sig]; !ok {
					groups[sig] = util.NewStringSet()
					groupOrder = append(groupOrder, sig)
				}
				groups[sig].Add(s)
			}

			if len(groups) > 1 {
				changed = true
			}
			sort.Strings(groupOrder)
			for _, sig := range groupOrder {
				next = append(next, groups[sig])
			}
		}

		blocks = next
		if !changed {
			break
		}
	}

	min := NewDFA[util.StringSet]()
	blockName := map[int]string{}
	var startBlockIdx int
	for i, b := range blocks {
		if b.Has(dfa.Start) {
			startBlockIdx = i
		}
	}
	// number the start block first so the minimized DFA's states are dense
	// and its start state is always "0".
	order := []int{startBlockIdx}
	for i := range blocks {
		if i != startBlockIdx {
			order = append(order, i)
		}
	}

	for _, idx := range order {
		b := blocks[idx]
		accept := b.Any(func(s string) bool { return dfa.IsAccepting(s) })
		name := min.AddState(accept, b)
		blockName[idx] = name
	}
	min.Start = blockName[startBlockIdx]

	for _, idx := range order {
		b := blocks[idx]
		rep := b.Ordered()[0]
		for _, a := range alphabet {
			to, ok := dfa.Next(rep, a)
			if !ok {
				continue
			}
			toBlock := blockOf(blocks, to)
			min.AddTransition(blockName[idx], a, blockName[toBlock])
		}
	}

	return min
}
