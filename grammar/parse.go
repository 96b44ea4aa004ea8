package grammar

import (
	"strings"

	"github.com/marrowgate/langforge/langerr"
)

// ParseSource parses grammar source lines of the form
// "A -> a1 a2 | a3 | ...", whitespace-separated symbols,
// "@" denoting an empty production. Blank lines are skipped.
func ParseSource(lines []string) (*Grammar, error) {
	g := New()

	for lineNo, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		idx := strings.Index(line, "->")
		if idx < 0 {
			return nil, langerr.NewAt(langerr.ErrMalformedGrammar, lineNo+1, 1, raw, "missing '->' in grammar rule")
		}

		nt := strings.TrimSpace(line[:idx])
		if nt == "" {
			return nil, langerr.NewAt(langerr.ErrMalformedGrammar, lineNo+1, 1, raw, "empty non-terminal name")
		}

		rhs := line[idx+2:]
		alts := strings.Split(rhs, "|")
		for _, alt := range alts {
			fields := strings.Fields(alt)
			if len(fields) == 0 {
				return nil, langerr.NewAt(langerr.ErrMalformedGrammar, lineNo+1, 1, raw, "empty alternative in rule for %q", nt)
			}
			g.AddRule(nt, Production(fields))
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}
