package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseSource_StartSymbolAndAugment(t *testing.T) {
	assert := assert.New(t)

	g, err := ParseSource([]string{
		"E -> E + T | T",
		"T -> T * F | F",
		"F -> ( E ) | id",
	})
	assert.NoError(err)
	assert.Equal("E", g.StartSymbol())

	g.Augment()
	assert.Equal("S'", g.StartSymbol())

	r, ok := g.Rule("S'")
	assert.True(ok)
	assert.Len(r.Productions, 1)
	assert.Equal(Production{"E"}, r.Productions[0])
}

func Test_ParseSource_RejectsMalformedLine(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseSource([]string{"this has no arrow"})
	assert.Error(err)
}

func Test_FirstSets_ClassicExpressionGrammar(t *testing.T) {
	assert := assert.New(t)

	g, err := ParseSource([]string{
		"E -> T E2",
		"E2 -> + T E2 | @",
		"T -> F T2",
		"T2 -> * F T2 | @",
		"F -> ( E ) | id",
	})
	assert.NoError(err)

	first := FirstSets(g)

	assert.True(first["E"].Has("("))
	assert.True(first["E"].Has("id"))
	assert.False(first["E"].Has("@"))

	assert.True(first["E2"].Has("+"))
	assert.True(first["E2"].Has("@"))
}

func Test_FollowSets_ClassicExpressionGrammar(t *testing.T) {
	assert := assert.New(t)

	g, err := ParseSource([]string{
		"E -> T E2",
		"E2 -> + T E2 | @",
		"T -> F T2",
		"T2 -> * F T2 | @",
		"F -> ( E ) | id",
	})
	assert.NoError(err)

	first := FirstSets(g)
	follow := FollowSets(g, first)

	assert.True(follow["E"].Has("$"))
	assert.True(follow["E"].Has(")"))
	assert.True(follow["T"].Has("+"))
	assert.True(follow["T"].Has("$"))
	assert.True(follow["F"].Has("*"))
}

func Test_LR0Item_AdvanceAndCore(t *testing.T) {
	assert := assert.New(t)

	item := LR0Item{NonTerminal: "E", Left: nil, Right: []string{"T", "+", "E"}}
	assert.False(item.AtEnd())

	next, ok := item.NextSymbol()
	assert.True(ok)
	assert.Equal("T", next)

	advanced := item.Advance()
	assert.Equal([]string{"T"}, advanced.Left)
	assert.Equal([]string{"+", "E"}, advanced.Right)
	assert.NotEqual(item.Core(), advanced.Core())
}
