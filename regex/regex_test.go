package regex

import (
	"testing"

	"github.com/marrowgate/langforge/automaton"
	"github.com/stretchr/testify/assert"
)

func Test_ExpandBrackets(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "simple range", input: "[a-c]", expect: "(a|b|c)"},
		{name: "two ranges", input: "[a-cA-C]", expect: "(a|b|c|A|B|C)"},
		{name: "empty bracket dropped", input: "[]", expect: ""},
		{name: "truncated to multiple of three", input: "[a-bx]", expect: "(a|b)"},
		{name: "truncated to nothing", input: "[ab]", expect: ""},
		{name: "lone closing bracket literal", input: "a]b", expect: "a]b"},
		{name: "not a bracket at all", input: "abc", expect: "abc"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expect, ExpandBrackets(tc.input))
		})
	}
}

func Test_Merge_and_Export(t *testing.T) {
	assert := assert.New(t)

	defs, err := ParseLines([]string{
		"letter = [a-zA-Z]",
		"digit = [0-9]",
		"_identifier = letter(letter|digit)*",
	})
	assert.NoError(err)

	merged := Merge(defs)
	exported := Export(merged)

	assert.Contains(exported, "identifier")
	assert.NotContains(exported, "letter")
	assert.Contains(exported["identifier"], "a|b")
}

// Test_Merge_ResolvesTransitiveChain checks that a three-level reference
// chain (array -> number -> digit) fully resolves in a single pass, with no
// unresolved intermediate identifier left in the final body.
func Test_Merge_ResolvesTransitiveChain(t *testing.T) {
	assert := assert.New(t)

	defs, err := ParseLines([]string{
		"digit = [0-9]",
		"number = digit+",
		"_array = number(,number)*",
	})
	assert.NoError(err)

	merged := Merge(defs)
	exported := Export(merged)

	assert.Contains(exported, "array")
	assert.NotContains(exported["array"], "digit")
	assert.NotContains(exported["array"], "number")
	assert.Contains(exported["array"], "(0|1|2|3|4|5|6|7|8|9)")
}

func Test_InsertConcat(t *testing.T) {
	testCases := []struct {
		name   string
		input  []string
		expect []string
	}{
		{
			name:   "two literals",
			input:  []string{"a", "b"},
			expect: []string{"a", ".", "b"},
		},
		{
			name:   "star then literal",
			input:  []string{"a", "*", "b"},
			expect: []string{"a", "*", ".", "b"},
		},
		{
			name:   "alternation untouched",
			input:  []string{"a", "|", "b"},
			expect: []string{"a", "|", "b"},
		},
		{
			name:   "paren group",
			input:  []string{"a", "(", "b", ")", "c"},
			expect: []string{"a", ".", "(", "b", ")", ".", "c"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expect, InsertConcat(tc.input))
		})
	}
}

// Test_CompileSource_IdentifierDFAAcceptsExpectedStrings checks that an
// identifier regex's minimized DFA accepts x1, Abc, a and rejects 1a and
// the empty string.
func Test_CompileSource_IdentifierDFAAcceptsExpectedStrings(t *testing.T) {
	assert := assert.New(t)

	compiled, err := CompileSource([]string{
		"letter = [a-zA-Z]",
		"digit = [0-9]",
		"_identifier = letter(letter|digit)*",
	})
	assert.NoError(err)

	id, ok := compiled["identifier"]
	assert.True(ok)

	assert.True(id.DFA.Accepts("x1"))
	assert.True(id.DFA.Accepts("Abc"))
	assert.True(id.DFA.Accepts("a"))
	assert.False(id.DFA.Accepts("1a"))
	assert.False(id.DFA.Accepts(""))
}

// Test_RoundTrip_NFA_DFA_Minimal checks that building the NFA and the
// unminimized and minimized DFAs from the same postfix regex all agree on
// acceptance, for a handful of strings either side of the boundary.
func Test_RoundTrip_NFA_DFA_Minimal(t *testing.T) {
	assert := assert.New(t)

	tokens := InsertConcat(tokenize("(a|b)*c"))
	postfix, err := ToPostfix(tokens)
	assert.NoError(err)

	nfa, err := BuildNFA(postfix)
	assert.NoError(err)

	words := []string{"c", "ac", "bc", "abababc", "", "a", "cc"}
	for _, w := range words {
		want := nfa.Accepts(w)

		dfa := automaton.SubsetConstruct(nfa)
		assert.Equal(want, dfa.Accepts(w), "dfa mismatch on %q", w)

		min := automaton.Minimize(dfa)
		assert.Equal(want, min.Accepts(w), "minimal dfa mismatch on %q", w)
	}
}
