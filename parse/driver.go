// Package parse drives the shift-reduce loop over a token stream using a
// built lr.Table, building the concrete parse tree on every reduction and
// notifying any number of additional Listeners (the AST builder and
// quadruple emitter live in package sdt) of the same shift/reduce events.
// Lookahead resolves in three steps: exact token text, then token class,
// then a synthetic empty token for an epsilon reduction.
package parse

import (
	"github.com/marrowgate/langforge/internal/util"
	"github.com/marrowgate/langforge/langerr"
	"github.com/marrowgate/langforge/lr"
	"github.com/marrowgate/langforge/types"
)

// Listener is notified of every shift and reduce the driver performs, in
// the same order the driver pops/pushes its own state and tree stacks, so
// that a listener's attribute stack can be kept pushed/popped in lockstep.
type Listener interface {
	Shift(tok types.Token)
	Reduce(prodIdx int, head string, body []string)
}

// Driver runs the shift-reduce parsing algorithm against a built table.
type Driver struct {
	Table *lr.Table
}

// NewDriver wraps a built ACTION/GOTO table in a Driver.
func NewDriver(table *lr.Table) *Driver {
	return &Driver{Table: table}
}

// lookup tries ACTION[s, w] then ACTION[s, t].
func (d *Driver) lookup(state, w, t string) lr.Action {
	if act := d.Table.Action(state, w); act.Kind != lr.Error {
		return act
	}
	return d.Table.Action(state, t)
}

// Parse runs the driver to completion or first error, building the
// concrete parse tree and notifying listeners of every shift/reduce.
func (d *Driver) Parse(stream types.TokenStream, listeners ...Listener) (*types.ParseTree, error) {
	stateStack := util.Stack[string]{Of: []string{d.Table.Start}}
	treeStack := util.Stack[*types.ParseTree]{}

	for {
		s := stateStack.Peek()
		la := stream.Peek()

		act := d.lookup(s, la.Text(), la.Class())
		tok := la
		epsilon := false

		if act.Kind == lr.Error {
			empty := types.EmptyToken()
			act = d.lookup(s, empty.Text(), empty.Class())
			if act.Kind == lr.Error {
				return nil, langerr.NewAt(langerr.ErrParseFailure, la.Line(), la.LinePos(), la.SourceLine(),
					"unexpected %q in state %s", la.Text(), s)
			}
			tok = empty
			epsilon = true
		}

		switch act.Kind {
		case lr.Shift:
			leaf := types.NewLeaf(tok)
			treeStack.Push(leaf)
			for _, l := range listeners {
				l.Shift(tok)
			}

			stateStack.Push(act.ShiftState)

			if !epsilon {
				stream.Next()
			}

		case lr.Reduce:
			k := len(act.ReduceBody)
			children := treeStack.PopN(k)
			stateStack.PopN(k)

			node := types.NewInterior(act.ReduceHead, children)
			treeStack.Push(node)

			for _, l := range listeners {
				l.Reduce(act.ReduceIdx, act.ReduceHead, []string(act.ReduceBody))
			}

			t := stateStack.Peek()
			j, ok := d.Table.Goto(t, act.ReduceHead)
			if !ok {
				return nil, langerr.NewAt(langerr.ErrParseFailure, la.Line(), la.LinePos(), la.SourceLine(),
					"no GOTO[%s, %s]", t, act.ReduceHead)
			}
			stateStack.Push(j)

		case lr.Accept:
			if stream.HasNext() {
				return nil, langerr.New(langerr.ErrParseFailure, "accept reached with unconsumed input remaining")
			}
			return treeStack.Peek(), nil

		default:
			return nil, langerr.NewAt(langerr.ErrParseFailure, la.Line(), la.LinePos(), la.SourceLine(),
				"sentence does not match grammar: unexpected %q in state %s", la.Text(), s)
		}
	}
}
