package scan

import (
	"testing"

	"github.com/marrowgate/langforge/langerr"
	"github.com/marrowgate/langforge/regex"
	"github.com/marrowgate/langforge/types"
	"github.com/stretchr/testify/assert"
)

func compileNamed(t *testing.T, name, body string) NamedDFA {
	t.Helper()
	c, err := regex.Compile(body)
	if err != nil {
		t.Fatalf("compile %s: %v", name, err)
	}
	return NamedDFA{Name: name, DFA: c.DFA}
}

// Test_Scan_LongestMatchWinsOverKeyword checks that "ifx" against a
// keyword-then-identifier spec scans as a single identifier token, since the
// identifier DFA matches more input than the keyword DFA.
func Test_Scan_LongestMatchWinsOverKeyword(t *testing.T) {
	assert := assert.New(t)

	kw := compileNamed(t, "keyword", "if|else")
	id := compileNamed(t, "identifier", "(a|b|c|d|e|f|g|h|i|j|k|l|m|n|o|p|q|r|s|t|u|v|w|x|y|z)(a|b|c|d|e|f|g|h|i|j|k|l|m|n|o|p|q|r|s|t|u|v|w|x|y|z)*")

	spec := NewSpec(kw, id)
	toks := Run(spec, "ifx")

	if assert.Len(toks, 1) {
		assert.Equal("ifx", toks[0].Text())
		assert.Equal("identifier", toks[0].Class())
	}
}

// Test_Scan_TieGoesToFirstListedDFA checks that on an exact tie in match
// length, the DFA listed first (the keyword) wins.
func Test_Scan_TieGoesToFirstListedDFA(t *testing.T) {
	assert := assert.New(t)

	kw := compileNamed(t, "keyword", "if|else")
	id := compileNamed(t, "identifier", "(a|b|c|d|e|f|g|h|i|j|k|l|m|n|o|p|q|r|s|t|u|v|w|x|y|z)(a|b|c|d|e|f|g|h|i|j|k|l|m|n|o|p|q|r|s|t|u|v|w|x|y|z)*")

	spec := NewSpec(kw, id)
	toks := Run(spec, "if")

	if assert.Len(toks, 1) {
		assert.Equal("if", toks[0].Text())
		assert.Equal("keyword", toks[0].Class())
	}
}

func Test_Scan_UnknownHaltsOnFirstMismatch(t *testing.T) {
	assert := assert.New(t)

	id := compileNamed(t, "identifier", "a|b")
	spec := NewSpec(id)

	toks := Run(spec, "a9")
	if assert.Len(toks, 2) {
		assert.Equal("a", toks[0].Text())
		assert.Equal("identifier", toks[0].Class())
		assert.Equal("9", toks[1].Text())
		assert.Equal("UNKNOWN", toks[1].Class())
	}
}

func Test_Scan_SkipsWhitespace(t *testing.T) {
	assert := assert.New(t)

	id := compileNamed(t, "identifier", "a|b")
	spec := NewSpec(id)

	toks := Run(spec, "a b")
	if assert.Len(toks, 2) {
		assert.Equal("a", toks[0].Text())
		assert.Equal("b", toks[1].Text())
	}
}

func Test_ParseLexFile_ParsesPairsAndSkipsAnnotations(t *testing.T) {
	assert := assert.New(t)

	toks, err := ParseLexFile([]string{
		"1 digit",
		"// a comment annotation",
		"+ plus",
		"",
		"2 digit",
	})
	assert.NoError(err)

	if assert.Len(toks, 3) {
		assert.Equal("1", toks[0].Text())
		assert.Equal("digit", toks[0].Class())
		assert.Equal("+", toks[1].Text())
		assert.Equal("plus", toks[1].Class())
		assert.Equal("2", toks[2].Text())
		assert.Equal("digit", toks[2].Class())
	}
}

func Test_ParseLexFile_DropsAnnotationClassTokens(t *testing.T) {
	assert := assert.New(t)

	toks, err := ParseLexFile([]string{
		"// a comment " + types.AnnotationClass,
		"x identifier",
	})
	assert.NoError(err)

	if assert.Len(toks, 1) {
		assert.Equal("x", toks[0].Text())
	}
}

func Test_ParseLexFile_RejectsLineMissingTokenClass(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseLexFile([]string{"justoneword"})
	assert.Error(err)
	assert.ErrorIs(err, langerr.ErrMalformedLexFile)
}
