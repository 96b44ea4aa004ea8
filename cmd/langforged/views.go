package main

import (
	"github.com/marrowgate/langforge/langerr"
	"github.com/marrowgate/langforge/sdt"
	"github.com/marrowgate/langforge/session"
	"github.com/marrowgate/langforge/types"
)

// sessionView is what GET /sessions/{id} and POST /sessions return: enough
// to let a client confirm what it built without re-serializing the whole
// scanner/table internals.
type sessionView struct {
	ID        string   `json:"id"`
	Terminals []string `json:"terminals,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

func toSessionView(sess *session.Session, warnings []langerr.Warning) sessionView {
	v := sessionView{ID: sess.ID.String()}
	if sess.Grammar != nil {
		v.Terminals = sess.Grammar.Terminals().Ordered()
	}
	for _, w := range warnings {
		v.Warnings = append(v.Warnings, w.String())
	}
	return v
}

type tokenView struct {
	Text  string `json:"text"`
	Class string `json:"class"`
	Line  int    `json:"line"`
}

func toTokenViews(toks []types.Token) []tokenView {
	out := make([]tokenView, 0, len(toks))
	for _, t := range toks {
		out = append(out, tokenView{Text: t.Text(), Class: t.Class(), Line: t.Line()})
	}
	return out
}

type treeView struct {
	Terminal bool        `json:"terminal"`
	Symbol   string      `json:"symbol"`
	Text     string      `json:"text,omitempty"`
	Children []*treeView `json:"children,omitempty"`
}

func toParseTreeView(pt *types.ParseTree) *treeView {
	if pt == nil {
		return nil
	}
	v := &treeView{Terminal: pt.Terminal, Symbol: pt.Symbol}
	if pt.Terminal {
		v.Text = pt.Source.Text()
	}
	for _, c := range pt.Children {
		v.Children = append(v.Children, toParseTreeView(c))
	}
	return v
}

func toASTView(n *types.ASTNode) *treeView {
	if n == nil {
		return nil
	}
	v := &treeView{Terminal: n.Terminal, Symbol: n.Symbol}
	if n.Terminal {
		v.Text = n.Source.Text()
	}
	for _, c := range n.Children {
		v.Children = append(v.Children, toASTView(c))
	}
	for _, s := range n.Sibling {
		v.Children = append(v.Children, toASTView(s))
	}
	return v
}

type quadView struct {
	Index  int    `json:"index"`
	Op     string `json:"op"`
	Arg1   string `json:"arg1"`
	Arg2   string `json:"arg2"`
	Result string `json:"result"`
}

func toQuadViews(quads []sdt.Quad) []quadView {
	var out []quadView
	for i, q := range quads {
		if i == 0 {
			continue // index 0 is the emitter's unused sentinel
		}
		out = append(out, quadView{Index: i, Op: q.Op, Arg1: q.Arg1, Arg2: q.Arg2, Result: q.Result})
	}
	return out
}

type runView struct {
	Tokens []tokenView `json:"tokens"`
	Tree   *treeView   `json:"tree"`
	AST    *treeView   `json:"ast"`
	Quads  []quadView  `json:"quads"`
}

func toRunView(r session.Result) runView {
	return runView{
		Tokens: toTokenViews(r.Tokens),
		Tree:   toParseTreeView(r.Tree),
		AST:    toASTView(r.AST),
		Quads:  toQuadViews(r.Quads),
	}
}
