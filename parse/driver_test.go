package parse

import (
	"testing"

	"github.com/marrowgate/langforge/grammar"
	"github.com/marrowgate/langforge/lr"
	"github.com/marrowgate/langforge/types"
	"github.com/stretchr/testify/assert"
)

func tok(sym string) types.Token {
	return types.NewToken(sym, sym, 1, 1, sym)
}

func streamOf(syms ...string) types.TokenStream {
	var toks []types.Token
	for _, s := range syms {
		toks = append(toks, tok(s))
	}
	return types.NewTokenStream(toks)
}

// Test_Driver_RoundTripYieldsInputSequence checks that the yield of the
// finished parse tree equals the input token sequence.
func Test_Driver_RoundTripYieldsInputSequence(t *testing.T) {
	assert := assert.New(t)

	g, err := grammar.ParseSource([]string{
		"S -> C C",
		"C -> c C | d",
	})
	assert.NoError(err)

	table, err := lr.Build(g)
	assert.NoError(err)

	d := NewDriver(table)
	in := []string{"c", "c", "d", "d"}
	tree, err := d.Parse(streamOf(in...))
	assert.NoError(err)
	assert.NotNil(tree)

	var out []string
	for _, tk := range tree.Yield() {
		out = append(out, tk.Text())
	}
	assert.Equal(in, out)
}

func Test_Driver_RejectsInvalidString(t *testing.T) {
	assert := assert.New(t)

	g, err := grammar.ParseSource([]string{
		"S -> C C",
		"C -> c C | d",
	})
	assert.NoError(err)

	table, err := lr.Build(g)
	assert.NoError(err)

	d := NewDriver(table)
	_, err = d.Parse(streamOf("c", "d"))
	assert.Error(err)
}

// Test_Driver_DanglingElseAttachesToNearestIf checks that the shift/reduce conflict
// on "else" resolves to the nearest enclosing "if", attaching the else
// clause to the innermost if rather than the outer one.
func Test_Driver_DanglingElseAttachesToNearestIf(t *testing.T) {
	assert := assert.New(t)

	g, err := grammar.ParseSource([]string{
		"S -> if E then S | if E then S else S | a",
		"E -> b",
	})
	assert.NoError(err)

	table, err := lr.Build(g)
	assert.NoError(err)

	d := NewDriver(table)
	in := []string{"if", "b", "then", "if", "b", "then", "a", "else", "a"}
	tree, err := d.Parse(streamOf(in...))
	assert.NoError(err)
	assert.NotNil(tree)

	var out []string
	for _, tk := range tree.Yield() {
		out = append(out, tk.Text())
	}
	assert.Equal(in, out)

	// the outer S has exactly one child beyond "if" "b" "then": the nested
	// if-then-else, with no dangling "else" attached to the outer S.
	assert.Len(tree.Children, 4)
}

// Test_Driver_EpsilonProduction exercises the synthetic (@, empty) lookup
// path against a grammar with a nullable production.
func Test_Driver_EpsilonProduction(t *testing.T) {
	assert := assert.New(t)

	g, err := grammar.ParseSource([]string{
		"S -> a B c",
		"B -> b | @",
	})
	assert.NoError(err)

	table, err := lr.Build(g)
	assert.NoError(err)

	d := NewDriver(table)

	tree, err := d.Parse(streamOf("a", "b", "c"))
	assert.NoError(err)
	assert.NotNil(tree)

	tree, err = d.Parse(streamOf("a", "c"))
	assert.NoError(err)
	assert.NotNil(tree)
	var out []string
	for _, tk := range tree.Yield() {
		out = append(out, tk.Text())
	}
	assert.Equal([]string{"a", "c"}, out)
}

// listenerLog records shift/reduce events in order, used to confirm the
// driver notifies listeners in lockstep with its own stack operations.
type listenerLog struct {
	events []string
}

func (l *listenerLog) Shift(tk types.Token) {
	l.events = append(l.events, "shift:"+tk.Text())
}

func (l *listenerLog) Reduce(prodIdx int, head string, body []string) {
	l.events = append(l.events, "reduce:"+head)
}

func Test_Driver_NotifiesListenersInOrder(t *testing.T) {
	assert := assert.New(t)

	g, err := grammar.ParseSource([]string{
		"S -> C C",
		"C -> c C | d",
	})
	assert.NoError(err)

	table, err := lr.Build(g)
	assert.NoError(err)

	d := NewDriver(table)
	log := &listenerLog{}
	_, err = d.Parse(streamOf("c", "d", "d"), log)
	assert.NoError(err)

	assert.Equal([]string{
		"shift:c",
		"shift:d",
		"reduce:C",
		"reduce:C",
		"shift:d",
		"reduce:C",
		"reduce:S",
	}, log.events)
}
