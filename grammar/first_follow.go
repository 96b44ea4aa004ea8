package grammar

import (
	"github.com/marrowgate/langforge/internal/util"
	"github.com/marrowgate/langforge/types"
)

// FirstSets computes FIRST(X) for every terminal and non-terminal of g:
// FIRST(t) = {t} for every terminal t, and for every
// production A -> X1 X2 ... Xn, FIRST(X1) \ {@} is added to FIRST(A); if @
// is in FIRST(X1), FIRST(X2) \ {@} is added too, and so on; if @ is in the
// FIRST of every Xi, @ is added to FIRST(A). The computation iterates to a
// fixed point.
func FirstSets(g *Grammar) map[string]util.StringSet {
	first := map[string]util.StringSet{}

	for t := range g.Terminals() {
		first[t] = util.StringSetOf([]string{t})
	}
	for _, nt := range g.order {
		first[nt] = util.NewStringSet()
	}

	changed := true
	for changed {
		changed = false
		for _, nt := range g.order {
			for _, prod := range g.rules[nt].Productions {
				if prod.IsEpsilon() {
					if !first[nt].Has(types.EpsilonSymbol) {
						first[nt].Add(types.EpsilonSymbol)
						changed = true
					}
					continue
				}

				allEps := true
				for _, sym := range prod {
					symFirst := firstOf(first, sym)
					before := first[nt].Len()
					for k := range symFirst {
						if k == types.EpsilonSymbol {
							continue
						}
						first[nt].Add(k)
					}
					if first[nt].Len() != before {
						changed = true
					}
					if !symFirst.Has(types.EpsilonSymbol) {
						allEps = false
						break
					}
				}
				if allEps && !first[nt].Has(types.EpsilonSymbol) {
					first[nt].Add(types.EpsilonSymbol)
					changed = true
				}
			}
		}
	}

	return first
}

func firstOf(first map[string]util.StringSet, sym string) util.StringSet {
	if sym == types.EpsilonSymbol {
		return util.StringSetOf([]string{types.EpsilonSymbol})
	}
	if s, ok := first[sym]; ok {
		return s
	}
	// unregistered symbol (shouldn't happen for a validated grammar):
	// treat it as its own terminal first set.
	return util.StringSetOf([]string{sym})
}

// FirstOfSequence computes FIRST(X1 X2 ... Xn) for an arbitrary symbol
// sequence, used by CLOSURE to compute FIRST(betaL).
func FirstOfSequence(first map[string]util.StringSet, seq []string) util.StringSet {
	out := util.NewStringSet()
	if len(seq) == 0 {
		out.Add(types.EpsilonSymbol)
		return out
	}

	allEps := true
	for _, sym := range seq {
		symFirst := firstOf(first, sym)
		for k := range symFirst {
			if k != types.EpsilonSymbol {
				out.Add(k)
			}
		}
		if !symFirst.Has(types.EpsilonSymbol) {
			allEps = false
			break
		}
	}
	if allEps {
		out.Add(types.EpsilonSymbol)
	}
	return out
}

// FollowSets computes FOLLOW(A) for every non-terminal of g: FOLLOW(start) contains $; for every production A -> ... Xi
// beta, FIRST(beta) \ {@} is added to FOLLOW(Xi); if @ is in FIRST(beta) or
// beta is empty, FOLLOW(A) is added to FOLLOW(Xi). Iterates to a fixed
// point.
func FollowSets(g *Grammar, first map[string]util.StringSet) map[string]util.StringSet {
	follow := map[string]util.StringSet{}
	for _, nt := range g.order {
		follow[nt] = util.NewStringSet()
	}
	follow[g.start].Add(types.EndOfInput)

	changed := true
	for changed {
		changed = false
		for _, nt := range g.order {
			for _, prod := range g.rules[nt].Productions {
				if prod.IsEpsilon() {
					continue
				}
				for i, sym := range prod {
					if !g.IsNonTerminal(sym) {
						continue
					}
					beta := prod[i+1:]
					betaFirst := FirstOfSequence(first, beta)

					before := follow[sym].Len()
					for k := range betaFirst {
						if k != types.EpsilonSymbol {
							follow[sym].Add(k)
						}
					}
					if betaFirst.Has(types.EpsilonSymbol) || len(beta) == 0 {
						follow[sym].AddAll(follow[nt])
					}
					if follow[sym].Len() != before {
						changed = true
					}
				}
			}
		}
	}

	return follow
}
