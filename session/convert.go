package session

import (
	"sort"
	"strconv"

	"github.com/marrowgate/langforge/automaton"
	"github.com/marrowgate/langforge/grammar"
	"github.com/marrowgate/langforge/internal/util"
	"github.com/marrowgate/langforge/langerr"
	"github.com/marrowgate/langforge/langforgecache"
	"github.com/marrowgate/langforge/lr"
	"github.com/marrowgate/langforge/scan"
)

// sortedStates returns a DFA's state names ordered numerically rather than
// lexicographically, matching the order automaton.NewDFA's sequential
// AddState calls originally assigned them.
func sortedStates(names []string) []string {
	out := append([]string{}, names...)
	sort.Slice(out, func(i, j int) bool {
		a, aErr := strconv.Atoi(out[i])
		b, bErr := strconv.Atoi(out[j])
		if aErr == nil && bErr == nil {
			return a < b
		}
		return out[i] < out[j]
	})
	return out
}

func dfaToSnapshot(name string, dfa *automaton.DFA[util.StringSet]) langforgecache.ScannerDFASnapshot {
	states := sortedStates(dfa.States().Elements())

	accepting := make(map[string]bool, len(states))
	transition := make(map[string]map[string]string, len(states))
	for _, s := range states {
		st := dfa.State(s)
		if st.Accepting {
			accepting[s] = true
		}
		if len(st.Trans) > 0 {
			row := make(map[string]string, len(st.Trans))
			for label, to := range st.Trans {
				row[label] = to
			}
			transition[s] = row
		}
	}

	return langforgecache.ScannerDFASnapshot{
		Name:       name,
		Start:      dfa.Start,
		States:     states,
		Accepting:  accepting,
		Transition: transition,
	}
}

func dfaFromSnapshot(snap langforgecache.ScannerDFASnapshot) *automaton.DFA[util.StringSet] {
	dfa := automaton.NewDFA[util.StringSet]()
	for _, s := range snap.States {
		dfa.AddState(snap.Accepting[s], util.NewStringSet())
	}
	for from, row := range snap.Transition {
		for label, to := range row {
			dfa.AddTransition(from, label, to)
		}
	}
	dfa.Start = snap.Start
	return dfa
}

func scannerToSnapshot(spec *scan.Spec) langforgecache.ScannerSnapshot {
	out := langforgecache.ScannerSnapshot{DFAs: make([]langforgecache.ScannerDFASnapshot, len(spec.DFAs))}
	for i, named := range spec.DFAs {
		out.DFAs[i] = dfaToSnapshot(named.Name, named.DFA)
	}
	return out
}

func scannerFromSnapshot(snap langforgecache.ScannerSnapshot) *scan.Spec {
	dfas := make([]scan.NamedDFA, len(snap.DFAs))
	for i, d := range snap.DFAs {
		dfas[i] = scan.NamedDFA{Name: d.Name, DFA: dfaFromSnapshot(d)}
	}
	return scan.NewSpec(dfas...)
}

func tableToSnapshot(t *lr.Table) langforgecache.TableSnapshot {
	prods := make([]langforgecache.ProductionSnapshot, len(t.Productions))
	for i, p := range t.Productions {
		prods[i] = langforgecache.ProductionSnapshot{NonTerminal: p.NonTerminal, Body: []string(p.Body)}
	}

	action := map[string]map[string]langforgecache.ActionSnapshot{}
	goTo := map[string]map[string]string{}
	for _, state := range t.States() {
		row := t.ActionRow(state)
		if len(row) > 0 {
			actRow := make(map[string]langforgecache.ActionSnapshot, len(row))
			for terminal, act := range row {
				actRow[terminal] = langforgecache.ActionSnapshot{
					Kind:       int(act.Kind),
					ShiftState: act.ShiftState,
					ReduceHead: act.ReduceHead,
					ReduceBody: []string(act.ReduceBody),
					ReduceIdx:  act.ReduceIdx,
				}
			}
			action[state] = actRow
		}
		if gRow := t.GotoRow(state); len(gRow) > 0 {
			cp := make(map[string]string, len(gRow))
			for nt, to := range gRow {
				cp[nt] = to
			}
			goTo[state] = cp
		}
	}

	warnings := make([]langforgecache.WarningSnapshot, len(t.Warnings))
	for i, w := range t.Warnings {
		warnings[i] = langforgecache.WarningSnapshot{State: w.State, Message: w.Message}
	}

	return langforgecache.TableSnapshot{
		Start:       t.Start,
		Productions: prods,
		Action:      action,
		Goto:        goTo,
		Warnings:    warnings,
	}
}

func tableFromSnapshot(snap langforgecache.TableSnapshot) *lr.Table {
	prods := make([]lr.ProductionRef, len(snap.Productions))
	for i, p := range snap.Productions {
		prods[i] = lr.ProductionRef{NonTerminal: p.NonTerminal, Body: grammar.Production(p.Body)}
	}

	action := make(map[string]map[string]lr.Action, len(snap.Action))
	for state, row := range snap.Action {
		actRow := make(map[string]lr.Action, len(row))
		for terminal, act := range row {
			actRow[terminal] = lr.Action{
				Kind:       lr.ActionKind(act.Kind),
				ShiftState: act.ShiftState,
				ReduceHead: act.ReduceHead,
				ReduceBody: grammar.Production(act.ReduceBody),
				ReduceIdx:  act.ReduceIdx,
			}
		}
		action[state] = actRow
	}

	goTo := make(map[string]map[string]string, len(snap.Goto))
	for state, row := range snap.Goto {
		cp := make(map[string]string, len(row))
		for nt, to := range row {
			cp[nt] = to
		}
		goTo[state] = cp
	}

	warnings := make([]langerr.Warning, len(snap.Warnings))
	for i, w := range snap.Warnings {
		warnings[i] = langerr.Warning{State: w.State, Message: w.Message}
	}

	return lr.FromParts(snap.Start, prods, action, goTo, warnings)
}
