// Package grammar parses context-free grammar source, augments the start
// symbol, and computes FIRST/FOLLOW sets. Items represent the dot position
// as a split between the symbols left of the dot and the symbols right of
// it rather than a bare integer index, which lets CLOSURE and GOTO advance
// the dot by simple slice reslicing.
package grammar

import (
	"github.com/marrowgate/langforge/internal/util"
	"github.com/marrowgate/langforge/langerr"
	"github.com/marrowgate/langforge/types"
)

// Production is one alternative right-hand side: an ordered sequence of
// symbols, or the single symbol "@" for an epsilon production.
type Production []string

// IsEpsilon reports whether p is the single-symbol epsilon production.
func (p Production) IsEpsilon() bool {
	return len(p) == 1 && p[0] == types.EpsilonSymbol
}

// Rule is every production for one non-terminal.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Grammar is a context-free grammar: non-terminals in declaration order,
// their productions, and a (possibly augmented) start symbol.
type Grammar struct {
	order     []string
	rules     map[string]*Rule
	start     string
	augmented bool
}

// New returns an empty grammar ready to have rules added to it.
func New() *Grammar {
	return &Grammar{rules: map[string]*Rule{}}
}

// AddRule appends prod as a new alternative for nt, registering nt as the
// start symbol if it is the first non-terminal seen.
func (g *Grammar) AddRule(nt string, prod Production) {
	r, ok := g.rules[nt]
	if !ok {
		r = &Rule{NonTerminal: nt}
		g.rules[nt] = r
		g.order = append(g.order, nt)
		if g.start == "" {
			g.start = nt
		}
	}
	r.Productions = append(r.Productions, prod)
}

// NonTerminals returns the non-terminals in declaration order.
func (g *Grammar) NonTerminals() []string {
	return append([]string{}, g.order...)
}

// IsNonTerminal reports whether sym names a non-terminal of g.
func (g *Grammar) IsNonTerminal(sym string) bool {
	_, ok := g.rules[sym]
	return ok
}

// Terminals returns every symbol referenced in a right-hand side that is
// not a non-terminal, epsilon, or the end marker.
func (g *Grammar) Terminals() util.StringSet {
	terms := util.NewStringSet()
	for _, nt := range g.order {
		for _, prod := range g.rules[nt].Productions {
			for _, sym := range prod {
				if sym == types.EpsilonSymbol || sym == types.EndOfInput {
					continue
				}
				if !g.IsNonTerminal(sym) {
					terms.Add(sym)
				}
			}
		}
	}
	return terms
}

// Rule returns the rule for nt, if any.
func (g *Grammar) Rule(nt string) (Rule, bool) {
	r, ok := g.rules[nt]
	if !ok {
		return Rule{}, false
	}
	return *r, true
}

// StartSymbol returns the grammar's (possibly augmented) start symbol.
func (g *Grammar) StartSymbol() string {
	return g.start
}

// Productions returns every (non-terminal, production) pair in declaration
// order.
func (g *Grammar) Productions() []struct {
	NonTerminal string
	Production  Production
} {
	var out []struct {
		NonTerminal string
		Production  Production
	}
	for _, nt := range g.order {
		for _, prod := range g.rules[nt].Productions {
			out = append(out, struct {
				NonTerminal string
				Production  Production
			}{nt, prod})
		}
	}
	return out
}

// Validate rejects an empty grammar or one whose start symbol has no
// productions, before FIRST/FOLLOW or table construction begins.
func (g *Grammar) Validate() error {
	if len(g.order) == 0 {
		return langerr.New(langerr.ErrMalformedGrammar, "grammar has no non-terminals")
	}
	if g.start == "" {
		return langerr.New(langerr.ErrMalformedGrammar, "grammar has no start symbol")
	}
	r := g.rules[g.start]
	if r == nil || len(r.Productions) == 0 {
		return langerr.New(langerr.ErrMalformedGrammar, "start symbol %q has no productions", g.start)
	}
	return nil
}

// augmentedStart is the synthetic start symbol name used by Augment.
const augmentedStart = "S'"

// Augment adds a fresh start symbol S' with the single production
// S' -> S when the current start symbol S has more than one production.
func (g *Grammar) Augment() {
	if g.augmented {
		return
	}
	cur := g.rules[g.start]
	if cur == nil || len(cur.Productions) <= 1 {
		return
	}
	g.forceAugment()
}

func (g *Grammar) forceAugment() {
	newStart := augmentedStart
	for g.IsNonTerminal(newStart) {
		newStart += "'"
	}

	g.rules[newStart] = &Rule{NonTerminal: newStart, Productions: []Production{{g.start}}}
	g.order = append([]string{newStart}, g.order...)
	g.start = newStart
	g.augmented = true
}

// Clone returns a deep copy of g.
func (g *Grammar) Clone() *Grammar {
	out := &Grammar{
		order:     append([]string{}, g.order...),
		rules:     make(map[string]*Rule, len(g.rules)),
		start:     g.start,
		augmented: g.augmented,
	}
	for nt, r := range g.rules {
		cp := &Rule{NonTerminal: r.NonTerminal}
		for _, prod := range r.Productions {
			cp.Productions = append(cp.Productions, append(Production{}, prod...))
		}
		out.rules[nt] = cp
	}
	return out
}

// AugmentForLR returns a clone of g that unconditionally carries a fresh S'
// -> S production, regardless of how many productions the original start
// symbol has. The LR(1) initial item is always stated in terms of S' so
// that the accept action can be recognized unambiguously; the conditional
// Augment governs the Grammar value callers see, but table construction
// itself always works from a forced-augmented copy.
func (g *Grammar) AugmentForLR() *Grammar {
	clone := g.Clone()
	if clone.augmented {
		return clone
	}
	clone.forceAugment()
	return clone
}
