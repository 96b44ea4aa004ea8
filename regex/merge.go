// Package regex implements the regex-preprocessing and NFA/DFA compilation
// pipeline: normalizing named regex definitions, merging helper
// definitions into the bodies that reference them, inserting explicit
// concatenation, running shunting-yard to postfix, and finally building the
// Thompson NFA and its subset-constructed, minimized DFA.
package regex

import (
	"strings"

	"github.com/marrowgate/langforge/langerr"
)

// Definition is one parsed "name = body" line.
type Definition struct {
	Name string
	Body string
}

// ParseLines splits the raw lines of a regex source file into
// Definitions, stripping whitespace around the name and body. Blank lines
// are skipped.
func ParseLines(lines []string) ([]Definition, error) {
	var defs []Definition
	for lineNo, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			return nil, langerr.NewAt(langerr.ErrMalformedRegex, lineNo+1, 1, raw, "missing '=' in regex definition")
		}
		name := strings.TrimSpace(line[:idx])
		body := strings.TrimSpace(line[idx+1:])
		if name == "" {
			return nil, langerr.NewAt(langerr.ErrMalformedRegex, lineNo+1, 1, raw, "empty name in regex definition")
		}
		defs = append(defs, Definition{Name: name, Body: body})
	}
	return defs, nil
}

// Merge expands bracket classes in every definition's body, then
// substitutes each name's (expanded) body, wrapped in parentheses, into
// every other body that mentions it, converging after one pass so long as
// the definitions are acyclic.
//
// A name is matched as a whole identifier: occurrences embedded in a larger
// identifier are not substituted.
func Merge(defs []Definition) map[string]string {
	expanded := make(map[string]string, len(defs))
	order := make([]string, 0, len(defs))
	for _, d := range defs {
		expanded[d.Name] = ExpandBrackets(d.Body)
		order = append(order, d.Name)
	}

	merged := make(map[string]string, len(expanded))
	for name, body := range expanded {
		merged[name] = body
	}

	for _, source := range order {
		for _, target := range order {
			if source == target {
				continue
			}
			merged[target] = substituteIdent(merged[target], source, "("+merged[source]+")")
		}
	}

	return merged
}

// substituteIdent replaces whole-word occurrences of ident in body with
// replacement, leaving occurrences that are part of a larger identifier
// untouched.
func substituteIdent(body, ident, replacement string) string {
	if ident == "" {
		return body
	}
	var out strings.Builder
	runes := []rune(body)
	identRunes := []rune(ident)

	isIdentRune := func(r rune) bool {
		return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
	}

	for i := 0; i < len(runes); {
		if matchesAt(runes, i, identRunes) {
			before := i == 0 || !isIdentRune(runes[i-1])
			after := i+len(identRunes) >= len(runes) || !isIdentRune(runes[i+len(identRunes)])
			if before && after {
				out.WriteString(replacement)
				i += len(identRunes)
				continue
			}
		}
		out.WriteRune(runes[i])
		i++
	}
	return out.String()
}

func matchesAt(runes []rune, i int, needle []rune) bool {
	if i+len(needle) > len(runes) {
		return false
	}
	for j, r := range needle {
		if runes[i+j] != r {
			return false
		}
	}
	return true
}

// Export filters merged down to the names that begin with "_" (exported
// definitions), stripping the leading underscore from the returned key.
func Export(merged map[string]string) map[string]string {
	out := map[string]string{}
	for name, body := range merged {
		if strings.HasPrefix(name, "_") {
			out[strings.TrimPrefix(name, "_")] = body
		}
	}
	return out
}
