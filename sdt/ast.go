// Package sdt implements the two concurrent semantic evaluators that run
// alongside the parse-tree stack during a parse: the AST builder, driven by
// a per-production syntax-action role vector, and the quadruple emitter,
// driven by a per-production list of intermediate-code actions. Both
// implement parse.Listener so the driver notifies them in lockstep with
// its own stack operations: an attribute stack pushed on shift and popped
// on reduce.
package sdt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marrowgate/langforge/internal/util"
	"github.com/marrowgate/langforge/langerr"
	"github.com/marrowgate/langforge/types"
)

// Role is one syntax-action entry: what a production's RHS position
// contributes to the AST node built for its head.
type Role int

const (
	// Discard means this RHS position contributes nothing to the AST.
	Discard Role = 0
	// Promote means this child becomes the new node for the production.
	Promote Role = 1
	// Child means this child is appended to the promoted node's children.
	Child Role = 2
	// Sibling means this child is appended to the promoted node's sibling
	// list, flattening any siblings already chained onto it.
	Sibling Role = 3
)

// ProductionKey builds the canonical "A -> X1 X2 ... Xk" string (or
// "A -> @" for an empty production) used to index syntax-action and
// intermediate-code-action tables, matching the external file format.
func ProductionKey(head string, body []string) string {
	if len(body) == 0 {
		return head + " -> " + types.EpsilonSymbol
	}
	return head + " -> " + strings.Join(body, " ")
}

// ParseSyntaxActions parses a syntax-action file: alternating
// lines, a production in canonical form followed by a line of len(body)
// integers from {0,1,2,3}, one per RHS position. Blank lines between pairs
// are skipped.
func ParseSyntaxActions(lines []string) (map[string][]Role, error) {
	out := map[string][]Role{}

	var pending string
	havePending := false

	for lineNo, raw := range lines {
		line := strings.TrimSpace(raw)

		if !havePending {
			if line == "" {
				continue
			}
			pending = line
			havePending = true
			continue
		}

		// the role line is consumed as-is even when blank, since an
		// epsilon production's role line legitimately holds zero integers.
		fields := strings.Fields(line)
		roles := make([]Role, len(fields))
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil || n < 0 || n > 3 {
				return nil, langerr.NewAt(langerr.ErrMalformedGrammar, lineNo+1, 1, raw,
					"invalid syntax-action role %q", f)
			}
			roles[i] = Role(n)
		}

		key, err := canonicalizeProductionLine(pending)
		if err != nil {
			return nil, langerr.NewAt(langerr.ErrMalformedGrammar, lineNo, 1, pending, "%s", err)
		}
		out[key] = roles
		havePending = false
	}

	if havePending {
		return nil, langerr.New(langerr.ErrMalformedGrammar, "syntax-action file ends with a dangling production line %q", pending)
	}

	return out, nil
}

func canonicalizeProductionLine(line string) (string, error) {
	idx := strings.Index(line, "->")
	if idx < 0 {
		return "", fmt.Errorf("missing '->' in production line %q", line)
	}
	head := strings.TrimSpace(line[:idx])
	rhs := strings.Fields(line[idx+2:])
	if len(rhs) == 1 && rhs[0] == types.EpsilonSymbol {
		rhs = nil
	}
	return ProductionKey(head, rhs), nil
}

// ASTBuilder assembles the abstract syntax tree for a parse by running a
// syntax-action role vector per reduction.
type ASTBuilder struct {
	actions map[string][]Role
	stack   util.Stack[*types.ASTNode]
}

// NewASTBuilder returns an ASTBuilder driven by actions, keyed by
// ProductionKey.
func NewASTBuilder(actions map[string][]Role) *ASTBuilder {
	return &ASTBuilder{actions: actions}
}

// Shift pushes a leaf node for every shifted token, including the synthetic
// empty token, so the stack depth stays in lockstep with the driver's own
// stack; a leaf for the empty token is never promoted or appended by any
// correctly-built action vector, so it never reaches the finished tree
// without any special-casing of the push/pop arithmetic.
func (b *ASTBuilder) Shift(tok types.Token) {
	b.stack.Push(&types.ASTNode{Symbol: tok.Class(), Source: tok, Terminal: true})
}

// Reduce runs the syntax-action vector bound to (head, body), or falls back
// to promoting the first child (or building a bare node, for an empty
// production) if no action vector was bound -- so a partially-specified
// action table still produces a complete, if under-annotated, tree.
func (b *ASTBuilder) Reduce(prodIdx int, head string, body []string) {
	k := len(body)
	children := b.stack.PopN(k)

	roles, ok := b.actions[ProductionKey(head, body)]
	if !ok {
		roles = defaultRoles(k)
	}

	var promoted *types.ASTNode
	for i, c := range children {
		if i >= len(roles) {
			continue
		}
		switch roles[i] {
		case Promote:
			promoted = c
		case Child:
			if promoted != nil {
				promoted.AppendChild(c)
			}
		case Sibling:
			if promoted != nil {
				promoted.AppendSibling(c)
			}
		case Discard:
		}
	}

	if promoted == nil {
		promoted = &types.ASTNode{Symbol: head}
	}

	b.stack.Push(promoted)
}

// defaultRoles promotes the first RHS position and discards the rest, the
// conventional default for an unbound production.
func defaultRoles(k int) []Role {
	if k == 0 {
		return nil
	}
	roles := make([]Role, k)
	roles[0] = Promote
	return roles
}

// Result returns the completed AST, the sole entry left on the stack after
// a successful parse.
func (b *ASTBuilder) Result() *types.ASTNode {
	if b.stack.Empty() {
		return nil
	}
	return b.stack.Peek()
}
