// Package scan materializes a set of named, minimized DFAs (as compiled by
// the regex package) into a maximal-munch tokenizer, running each DFA
// directly rather than through a general-purpose regexp engine.
package scan

import (
	"strings"
	"unicode"

	"github.com/marrowgate/langforge/automaton"
	"github.com/marrowgate/langforge/internal/util"
	"github.com/marrowgate/langforge/langerr"
	"github.com/marrowgate/langforge/types"
)

// NamedDFA pairs a token class name with the minimized DFA that recognizes
// it. Order matters: the Spec's DFAs are tried in slice order, so keyword
// DFAs must be listed before identifier DFAs.
type NamedDFA struct {
	Name string
	DFA  *automaton.DFA[util.StringSet]
}

// Spec is an ordered scanner specification: a sequence of named DFAs tried
// in order at every cursor position.
type Spec struct {
	DFAs []NamedDFA
}

// NewSpec builds a Spec from the given DFAs, preserving the order given by
// the caller. Callers that have both keyword and identifier definitions
// must list the keyword entries first so a keyword wins ties against an
// identifier DFA matching the same length of input.
func NewSpec(dfas ...NamedDFA) *Spec {
	return &Spec{DFAs: dfas}
}

// match is the result of running one named DFA from the cursor: the text it
// consumed, and whether it ended in an accepting state.
type match struct {
	name string
	text string
	ok   bool
}

// longestMatchAt runs every DFA in s against src starting at pos, tracking
// the longest prefix that leaves each DFA in an accepting state, and
// returns the winner using the first-listed-wins tie-break.
func (s *Spec) longestMatchAt(src []rune, pos int) match {
	var best match

	for _, nd := range s.DFAs {
		cur := nd.DFA.Start
		lastLen := -1
		if nd.DFA.IsAccepting(cur) {
			lastLen = 0
		}

		i := pos
		for i < len(src) {
			next, ok := nd.DFA.Next(cur, string(src[i]))
			if !ok {
				break
			}
			cur = next
			i++
			if nd.DFA.IsAccepting(cur) {
				lastLen = i - pos
			}
		}

		if lastLen < 0 {
			continue
		}

		if lastLen > len([]rune(best.text)) {
			best = match{name: nd.Name, text: string(src[pos : pos+lastLen]), ok: true}
		}
	}

	return best
}

// Run scans src in full, producing a token for every maximal munch and a
// final UnknownClass token (with halt) on the first unmatched position.
func Run(s *Spec, src string) []types.Token {
	runes := []rune(src)
	var toks []types.Token

	pos := 0
	line := 1
	lineStart := 0

	lineOf := func(p int) string {
		// best-effort: recover the full source line containing rune index p
		// for diagnostics.
		start := p
		for start > 0 && runes[start-1] != '\n' {
			start--
		}
		end := p
		for end < len(runes) && runes[end] != '\n' {
			end++
		}
		return string(runes[start:end])
	}

	advance := func(n int) {
		for i := 0; i < n; i++ {
			if runes[pos+i] == '\n' {
				line++
				lineStart = pos + i + 1
			}
		}
		pos += n
	}

	for pos < len(runes) {
		if unicode.IsSpace(runes[pos]) {
			advance(1)
			continue
		}

		m := s.longestMatchAt(runes, pos)
		if !m.ok {
			bad := string(runes[pos])
			toks = append(toks, types.NewToken(bad, types.UnknownClass, line, pos-lineStart+1, lineOf(pos)))
			return toks
		}

		toks = append(toks, types.NewToken(m.text, m.name, line, pos-lineStart+1, lineOf(pos)))
		advance(len([]rune(m.text)))
	}

	return toks
}

// Format renders tokens in the lex-file-output shape "<text> <token-name>",
// one per line.
func Format(toks []types.Token) string {
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.Text())
		sb.WriteRune(' ')
		sb.WriteString(t.Class())
		sb.WriteRune('\n')
	}
	return sb.String()
}

// ParseLexFile parses lex-file-input text, the inverse of Format: one
// "<text> <token-name>" pair per line. A token whose class is
// types.AnnotationClass is dropped rather than returned, since such
// tokens carry information for a human reader of the lex file and are not
// meant to reach the parser. The returned slice is not itself terminated
// by an end-of-input token; wrap it with types.NewTokenStream for that,
// which appends one implicitly.
func ParseLexFile(lines []string) ([]types.Token, error) {
	var toks []types.Token
	for lineNo, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		idx := strings.LastIndex(line, " ")
		if idx < 0 {
			return nil, langerr.NewAt(langerr.ErrMalformedLexFile, lineNo+1, 1, raw, "missing token class after text")
		}

		text := line[:idx]
		class := line[idx+1:]
		if class == types.AnnotationClass {
			continue
		}

		toks = append(toks, types.NewToken(text, class, lineNo+1, 1, raw))
	}
	return toks, nil
}
