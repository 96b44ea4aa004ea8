package sdt

import (
	"testing"

	"github.com/marrowgate/langforge/types"
	"github.com/stretchr/testify/assert"
)

func leafTok(text string) types.Token {
	return types.NewToken(text, text, 1, 1, text)
}

// Test_ASTBuilder_PromoteChildSibling drives a builder through the
// right-recursive statement-list grammar "Stmts -> Stmt Stmts | Stmt",
// "Stmt -> id ;" over the token sequence "a ; b ; c ;", in the order an
// LR driver would actually shift and reduce it (each "id ;" reduced to Stmt
// right after it is shifted, then the Stmts reductions from the rightmost
// statement outward), checking PROMOTE/CHILD/
// SIBLING assembly and sibling-list flattening.
func Test_ASTBuilder_PromoteChildSibling(t *testing.T) {
	assert := assert.New(t)

	actions := map[string][]Role{
		ProductionKey("Stmts", []string{"Stmt", "Stmts"}): {Promote, Sibling},
		ProductionKey("Stmts", []string{"Stmt"}):           {Promote},
		ProductionKey("Stmt", []string{"id", ";"}):         {Promote, Discard},
	}

	b := NewASTBuilder(actions)

	for _, name := range []string{"a", "b", "c"} {
		b.Shift(leafTok(name))
		b.Shift(leafTok(";"))
		b.Reduce(0, "Stmt", []string{"id", ";"})
	}

	b.Reduce(0, "Stmts", []string{"Stmt"})           // Stmts -> Stmt   (just "c")
	b.Reduce(0, "Stmts", []string{"Stmt", "Stmts"})   // Stmts -> Stmt Stmts   ("b" then "c")
	b.Reduce(0, "Stmts", []string{"Stmt", "Stmts"})   // Stmts -> Stmt Stmts   ("a" then "b","c")

	result := b.Result()
	assert.NotNil(result)
	assert.True(result.Terminal)
	assert.Equal("a", result.Source.Text())
	assert.Len(result.Sibling, 2)

	var siblingTexts []string
	for _, s := range result.Sibling {
		siblingTexts = append(siblingTexts, s.Source.Text())
	}
	assert.ElementsMatch([]string{"b", "c"}, siblingTexts)
}

// Test_ASTBuilder_EmptyProductionDefaultsToBareNode exercises an unbound
// epsilon production, which has no RHS position to promote.
func Test_ASTBuilder_EmptyProductionDefaultsToBareNode(t *testing.T) {
	assert := assert.New(t)

	b := NewASTBuilder(map[string][]Role{})
	b.Reduce(0, "Opt", nil)

	result := b.Result()
	assert.NotNil(result)
	assert.Equal("Opt", result.Symbol)
	assert.Empty(result.Children)
}

// Test_ASTBuilder_DefaultPromotesFirstChild checks the fallback behavior
// for a production with no bound action vector.
func Test_ASTBuilder_DefaultPromotesFirstChild(t *testing.T) {
	assert := assert.New(t)

	b := NewASTBuilder(map[string][]Role{})
	b.Shift(leafTok("x"))
	b.Reduce(0, "Wrap", []string{"id"})

	result := b.Result()
	assert.NotNil(result)
	assert.True(result.Terminal)
	assert.Equal("x", result.Source.Text())
}

func Test_ParseSyntaxActions_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	lines := []string{
		"Stmts -> Stmt Stmts",
		"1 3",
		"",
		"Stmt -> id ;",
		"1 0",
	}

	actions, err := ParseSyntaxActions(lines)
	assert.NoError(err)
	assert.Equal([]Role{Promote, Sibling}, actions[ProductionKey("Stmts", []string{"Stmt", "Stmts"})])
	assert.Equal([]Role{Promote, Discard}, actions[ProductionKey("Stmt", []string{"id", ";"})])
}

func Test_ParseSyntaxActions_EpsilonProduction(t *testing.T) {
	assert := assert.New(t)

	lines := []string{
		"M -> @",
		"",
	}

	actions, err := ParseSyntaxActions(lines)
	assert.NoError(err)
	assert.Equal([]Role{}, actions[ProductionKey("M", nil)])
}
