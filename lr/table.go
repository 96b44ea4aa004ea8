package lr

import (
	"fmt"
	"sort"

	"github.com/marrowgate/langforge/automaton"
	"github.com/marrowgate/langforge/grammar"
	"github.com/marrowgate/langforge/langerr"
	"github.com/marrowgate/langforge/types"
)

// ActionKind is the kind of entry an ACTION table cell holds.
type ActionKind int

const (
	Error ActionKind = iota
	Shift
	Reduce
	Accept
)

// Action is one ACTION table cell.
type Action struct {
	Kind       ActionKind
	ShiftState string
	ReduceHead string
	ReduceBody grammar.Production
	ReduceIdx  int
}

func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("shift %s", a.ShiftState)
	case Reduce:
		return fmt.Sprintf("reduce %s -> %v", a.ReduceHead, []string(a.ReduceBody))
	case Accept:
		return "accept"
	default:
		return "error"
	}
}

// ProductionRef pairs a non-terminal with one of its right-hand sides, used to
// index reductions by production number.
type ProductionRef struct {
	NonTerminal string
	Body        grammar.Production
}

// Table is the ACTION/GOTO table for a grammar, built from its LALR(1)
// automaton.
type Table struct {
	Start       string
	Productions []ProductionRef
	action      map[string]map[string]Action
	goTo        map[string]map[string]string
	Warnings    []langerr.Warning
}

// Action returns the ACTION table entry for (state, terminal), or a zero
// Action with Kind Error if undefined.
func (t *Table) Action(state, terminal string) Action {
	if row, ok := t.action[state]; ok {
		if act, ok := row[terminal]; ok {
			return act
		}
	}
	return Action{Kind: Error}
}

// Goto returns the GOTO table entry for (state, nonTerminal).
func (t *Table) Goto(state, nonTerminal string) (string, bool) {
	row, ok := t.goTo[state]
	if !ok {
		return "", false
	}
	j, ok := row[nonTerminal]
	return j, ok
}

// States returns every state name the table holds an ACTION or GOTO row
// for, sorted for deterministic iteration.
func (t *Table) States() []string {
	seen := map[string]bool{}
	for s := range t.action {
		seen[s] = true
	}
	for s := range t.goTo {
		seen[s] = true
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// ActionRow returns the full ACTION row for state, keyed by terminal.
func (t *Table) ActionRow(state string) map[string]Action {
	return t.action[state]
}

// GotoRow returns the full GOTO row for state, keyed by non-terminal.
func (t *Table) GotoRow(state string) map[string]string {
	return t.goTo[state]
}

// FromParts reconstructs a Table from its already-computed ACTION/GOTO
// rows, bypassing BuildCanonical/CollapseLALR entirely. Used to rebuild a
// table from a deserialized cache entry.
func FromParts(start string, productions []ProductionRef, action map[string]map[string]Action, goTo map[string]map[string]string, warnings []langerr.Warning) *Table {
	return &Table{Start: start, Productions: productions, action: action, goTo: goTo, Warnings: warnings}
}

// Build constructs the ACTION/GOTO table from g: the canonical LR(1)
// automaton, the LALR(1) collapse, then one pass per LALR state assigning
// shift, reduce, and accept entries.
// Reduce/reduce conflicts are rejected; shift/reduce conflicts on the same
// terminal are resolved in favor of shift with a surfaced warning.
func Build(g *grammar.Grammar) (*Table, error) {
	canonical, aug, _ := BuildCanonical(g)
	lalr := CollapseLALR(canonical)

	prodIndex := map[string]int{}
	var prods []ProductionRef
	for _, nt := range aug.NonTerminals() {
		rule, _ := aug.Rule(nt)
		for _, body := range rule.Productions {
			var rhs []string
			if !body.IsEpsilon() {
				rhs = []string(body)
			}
			key := grammar.LR0Item{NonTerminal: nt, Right: nil, Left: rhs}.Core()
			prodIndex[key] = len(prods)
			prods = append(prods, ProductionRef{NonTerminal: nt, Body: rhs})
		}
	}

	t := &Table{
		Start:       lalr.Start,
		Productions: prods,
		action:      map[string]map[string]Action{},
		goTo:        map[string]map[string]string{},
	}

	for _, state := range lalr.States().Ordered() {
		items := lalr.State(state).Value
		t.action[state] = map[string]Action{}
		t.goTo[state] = map[string]string{}

		for _, k := range items.Elements() {
			item := items.Get(k)

			if sym, ok := item.NextSymbol(); ok && !aug.IsNonTerminal(sym) {
				j, hasGoto := lalr.Next(state, sym)
				if hasGoto {
					newAct := Action{Kind: Shift, ShiftState: j}
					if err := t.set(state, sym, newAct); err != nil {
						return nil, err
					}
				}
				continue
			}

			if item.AtEnd() {
				if item.NonTerminal == aug.StartSymbol() {
					if item.Lookahead == types.EndOfInput {
						if err := t.set(state, types.EndOfInput, Action{Kind: Accept}); err != nil {
							return nil, err
						}
					}
					continue
				}

				idx := prodIndex[item.Core()]
				newAct := Action{
					Kind:       Reduce,
					ReduceHead: item.NonTerminal,
					ReduceBody: grammar.Production(item.Left),
					ReduceIdx:  idx,
				}
				if err := t.set(state, item.Lookahead, newAct); err != nil {
					return nil, err
				}
			}
		}

		for _, nt := range aug.NonTerminals() {
			j, ok := lalr.Next(state, nt)
			if ok {
				t.goTo[state][nt] = j
			}
		}
	}

	return t, nil
}

// set installs newAct into (state, terminal), resolving conflicts:
// shift/reduce favors shift with a warning; reduce/reduce is rejected
// outright.
func (t *Table) set(state, terminal string, newAct Action) error {
	existing, ok := t.action[state][terminal]
	if !ok || existing.Kind == Error {
		t.action[state][terminal] = newAct
		return nil
	}
	if actionsEqual(existing, newAct) {
		return nil
	}

	switch {
	case existing.Kind == Shift && newAct.Kind == Reduce:
		t.Warnings = append(t.Warnings, langerr.Warning{
			State:   state,
			Message: fmt.Sprintf("shift/reduce conflict on %q resolved in favor of shift", terminal),
		})
		return nil
	case existing.Kind == Reduce && newAct.Kind == Shift:
		t.Warnings = append(t.Warnings, langerr.Warning{
			State:   state,
			Message: fmt.Sprintf("shift/reduce conflict on %q resolved in favor of shift", terminal),
		})
		t.action[state][terminal] = newAct
		return nil
	case existing.Kind == Reduce && newAct.Kind == Reduce:
		return langerr.New(langerr.ErrReduceReduceConflict, "state %s: reduce/reduce conflict on %q between %s and %s",
			state, terminal, existing, newAct)
	default:
		return langerr.New(langerr.ErrMalformedGrammar, "state %s: unresolvable conflict on %q between %s and %s",
			state, terminal, existing, newAct)
	}
}

func actionsEqual(a, b Action) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Shift:
		return a.ShiftState == b.ShiftState
	case Reduce:
		return a.ReduceHead == b.ReduceHead && a.ReduceIdx == b.ReduceIdx
	default:
		return true
	}
}
