package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildAbNFA() *NFA[int] {
	nfa := NewNFA[int]()
	s0 := nfa.AddState(false)
	s1 := nfa.AddState(false)
	s2 := nfa.AddState(true)
	nfa.Start = s0
	nfa.AddTransition(s0, "a", s1)
	nfa.AddTransition(s1, "b", s2)
	nfa.AddEpsilon(s0, s1)
	nfa.AddTransition(s1, "b", s2)
	return nfa
}

func Test_SubsetConstruct_AcceptsSameLanguageAsNFA(t *testing.T) {
	assert := assert.New(t)

	nfa := buildAbNFA()
	dfa := SubsetConstruct(nfa)

	assert.True(dfa.Accepts("ab"))
	assert.True(dfa.Accepts("b")) // via the epsilon from s0 to s1
	assert.False(dfa.Accepts("a"))
	assert.False(dfa.Accepts(""))
}

func Test_Minimize_CollapsesEquivalentStates(t *testing.T) {
	assert := assert.New(t)

	dfa := NewDFA[int]()
	s0 := dfa.AddState(false, 0)
	s1 := dfa.AddState(true, 0)
	s2 := dfa.AddState(true, 0)
	dfa.Start = s0
	dfa.AddTransition(s0, "a", s1)
	dfa.AddTransition(s1, "a", s2)
	dfa.AddTransition(s2, "a", s2)

	min := Minimize(dfa)

	// s1 and s2 are both accepting with identical "a" self/forward loops
	// into another accepting state, so they collapse into one block.
	assert.LessOrEqual(min.States().Len(), 2)
	assert.True(min.Accepts("a"))
	assert.True(min.Accepts("aa"))
	assert.True(min.Accepts("aaa"))
	assert.False(min.Accepts(""))
}

func Test_DFA_AddStateAssignsSequentialNames(t *testing.T) {
	assert := assert.New(t)

	dfa := NewDFA[string]()
	n0 := dfa.AddState(false, "x")
	n1 := dfa.AddState(true, "y")

	assert.Equal("0", n0)
	assert.Equal("1", n1)
	assert.True(dfa.IsAccepting(n1))
	assert.False(dfa.IsAccepting(n0))
}
