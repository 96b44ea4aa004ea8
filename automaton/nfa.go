// Package automaton holds the generic finite-automaton graph types shared
// by the regex compiler (NFA -> DFA -> minimal DFA) and the LR(1)/LALR(1)
// viable-prefix automaton builder. States are dense, string-keyed nodes in
// a map rather than a pointer graph, and the state value is generic so the same DFA type can carry
// either an originating NFA-state-set (regex minimization) or an LR(1) item
// set (the LR automaton).
package automaton

import (
	"fmt"
	"strconv"

	"github.com/marrowgate/langforge/internal/util"
)

// NFAState is one node of an NFA: a set of labeled transitions (the
// alphabet excludes epsilon; see Eps) plus the epsilon-moves reachable
// without consuming input, and an arbitrary payload value.
type NFAState[E any] struct {
	Accepting bool
	Value     E
	Trans     map[string][]string
	Eps       []string
}

func newNFAState[E any]() NFAState[E] {
	return NFAState[E]{Trans: map[string][]string{}}
}

// NFA is a Thompson-style nondeterministic finite automaton over dense,
// string-numbered states.
type NFA[E any] struct {
	states map[string]NFAState[E]
	Start  string
	next   int
}

// NewNFA returns an empty NFA ready to have states added to it.
func NewNFA[E any]() *NFA[E] {
	return &NFA[E]{states: map[string]NFAState[E]{}}
}

// AddState allocates a new, densely-numbered state and returns its name.
func (nfa *NFA[E]) AddState(accepting bool) string {
	name := strconv.Itoa(nfa.next)
	nfa.next++
	nfa.states[name] = NFAState[E]{Accepting: accepting, Trans: map[string][]string{}}
	return name
}

// SetAccepting marks the given state accepting or not.
func (nfa *NFA[E]) SetAccepting(state string, accepting bool) {
	s := nfa.states[state]
	s.Accepting = accepting
	nfa.states[state] = s
}

// AddTransition adds a transition on a concrete input symbol.
func (nfa *NFA[E]) AddTransition(from, label, to string) {
	s := nfa.states[from]
	s.Trans[label] = append(s.Trans[label], to)
	nfa.states[from] = s
}

// AddEpsilon adds an epsilon-transition from "from" to "to".
func (nfa *NFA[E]) AddEpsilon(from, to string) {
	s := nfa.states[from]
	s.Eps = append(s.Eps, to)
	nfa.states[from] = s
}

func (nfa *NFA[E]) State(name string) NFAState[E] {
	return nfa.states[name]
}

// States returns the set of all state names.
func (nfa *NFA[E]) States() util.StringSet {
	s := util.NewStringSet()
	for k := range nfa.states {
		s.Add(k)
	}
	return s
}

// AcceptingStates returns the set of accepting state names.
func (nfa *NFA[E]) AcceptingStates() util.StringSet {
	s := util.NewStringSet()
	for k, st := range nfa.states {
		if st.Accepting {
			s.Add(k)
		}
	}
	return s
}

// Alphabet returns every concrete (non-epsilon) input symbol appearing on
// some transition.
func (nfa *NFA[E]) Alphabet() util.StringSet {
	s := util.NewStringSet()
	for _, st := range nfa.states {
		for label := range st.Trans {
			s.Add(label)
		}
	}
	return s
}

// EpsilonClosure returns the set of states reachable from "from" using only
// epsilon-transitions, including from itself.
func (nfa *NFA[E]) EpsilonClosure(from string) util.StringSet {
	return nfa.EpsilonClosureOfSet(util.StringSetOf([]string{from}))
}

// EpsilonClosureOfSet is EpsilonClosure extended to a set of starting
// states at once.
func (nfa *NFA[E]) EpsilonClosureOfSet(from util.StringSet) util.StringSet {
	closure := from.Copy()
	stack := from.Elements()
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range nfa.states[cur].Eps {
			if !closure.Has(next) {
				closure.Add(next)
				stack = append(stack, next)
			}
		}
	}
	return closure
}

// Move returns the set of states reachable from any state in "from" on
// input symbol a (purple dragon book's MOVE(T, a)).
func (nfa *NFA[E]) Move(from util.StringSet, a string) util.StringSet {
	moves := util.NewStringSet()
	for _, s := range from.Elements() {
		for _, to := range nfa.states[s].Trans[a] {
			moves.Add(to)
		}
	}
	return moves
}

// Accepts runs the NFA against w by brute-force closure tracking; used only
// by tests asserting round-trip behavior against a compiled DFA.
func (nfa *NFA[E]) Accepts(w string) bool {
	cur := nfa.EpsilonClosure(nfa.Start)
	for _, r := range w {
		sym := string(r)
		next := nfa.EpsilonClosureOfSet(nfa.Move(cur, sym))
		if next.Empty() {
			return false
		}
		cur = next
	}
	return cur.Any(func(s string) bool { return nfa.states[s].Accepting })
}

func (nfa *NFA[E]) String() string {
	return fmt.Sprintf("NFA(start=%s, states=%d)", nfa.Start, len(nfa.states))
}
