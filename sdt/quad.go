package sdt

import (
	"strconv"
	"strings"

	"github.com/marrowgate/langforge/internal/util"
	"github.com/marrowgate/langforge/langerr"
	"github.com/marrowgate/langforge/types"
)

// Quad is one three-address quadruple. The table is
// 1-indexed; index 0 is a reserved sentinel.
type Quad struct {
	Op     string
	Arg1   string
	Arg2   string
	Result string
}

// QuadTable is the growable quadruple table plus temporary-name counter for
// one translation.
type QuadTable struct {
	quads []Quad
	temps int
}

// NewQuadTable returns an empty table, with the reserved index-0 sentinel
// already in place.
func NewQuadTable() *QuadTable {
	return &QuadTable{quads: []Quad{{}}}
}

// Next returns NEXT: the index the next call to Gen will occupy.
func (t *QuadTable) Next() int {
	return len(t.quads)
}

// NewTemp allocates a fresh temporary name T<n>, bumping the counter.
// Bound to the P virtual field in an intermediate-code action.
func (t *QuadTable) NewTemp() string {
	t.temps++
	return "T" + strconv.Itoa(t.temps)
}

// Gen appends a quadruple at index Next and returns that index. Any of op,
// a, b, c given as the literal "J" is stored as the jump placeholder "_".
func (t *QuadTable) Gen(op, a, b, c string) int {
	idx := t.Next()
	t.quads = append(t.quads, Quad{
		Op:     placeholder(op),
		Arg1:   placeholder(a),
		Arg2:   placeholder(b),
		Result: placeholder(c),
	})
	return idx
}

func placeholder(s string) string {
	if s == "J" {
		return "_"
	}
	return s
}

// Quads returns the quadruple table, including the reserved index-0 entry.
func (t *QuadTable) Quads() []Quad {
	return t.quads
}

func chainNext(s string) int {
	if s == "_" || s == "" || s == "0" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// BackPatch walks the chain stored in each quadruple's result field
// starting at p, overwriting each link with the string form of t.
func (t *QuadTable) BackPatch(p, target int) {
	ts := strconv.Itoa(target)
	cur := p
	for cur != 0 && cur < len(t.quads) {
		next := chainNext(t.quads[cur].Result)
		t.quads[cur].Result = ts
		cur = next
	}
}

// Merge splices chain p1 onto the tail of chain p2 and returns the merged
// chain's head. If p2 is empty, p1 is returned
// unchanged.
func (t *QuadTable) Merge(p1, p2 int) int {
	if p2 == 0 {
		return p1
	}
	cur := p2
	for {
		next := chainNext(t.quads[cur].Result)
		if next == 0 {
			t.quads[cur].Result = strconv.Itoa(p1)
			break
		}
		cur = next
	}
	return p2
}

// AttrRecord is one entry of the intermediate-code attribute stack.
type AttrRecord struct {
	Val   string
	TC    int
	FC    int
	Chain int
	Head  int
}

// QuadAction is one opcode-plus-operands line of an intermediate-code
// action list.
type QuadAction struct {
	Op       int
	Operands []string
}

// ParseQuadActions parses an intermediate-code-action file:
// blocks separated by a line "---", each block's first line a production
// in canonical form, each subsequent line one action.
func ParseQuadActions(lines []string) (map[string][]QuadAction, error) {
	out := map[string][]QuadAction{}

	var curKey string
	var curActions []QuadAction
	haveKey := false

	flush := func() {
		if haveKey {
			out[curKey] = curActions
		}
		curKey = ""
		curActions = nil
		haveKey = false
	}

	for lineNo, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if line == "---" {
			flush()
			continue
		}

		if !haveKey {
			key, err := canonicalizeProductionLine(line)
			if err != nil {
				return nil, langerr.NewAt(langerr.ErrMalformedGrammar, lineNo+1, 1, raw, "%s", err)
			}
			curKey = key
			haveKey = true
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		op, err := strconv.Atoi(fields[0])
		if err != nil || op < 0 || op > 3 {
			return nil, langerr.NewAt(langerr.ErrMalformedGrammar, lineNo+1, 1, raw, "invalid action opcode %q", fields[0])
		}
		curActions = append(curActions, QuadAction{Op: op, Operands: fields[1:]})
	}
	flush()

	return out, nil
}

// isDescriptor reports whether tok is a two-character operand descriptor
// "<i><F>".
func isDescriptor(tok string) (idx int, field byte, ok bool) {
	if len(tok) != 2 {
		return 0, 0, false
	}
	if tok[0] < '0' || tok[0] > '9' {
		return 0, 0, false
	}
	switch tok[1] {
	case 'C', 'H', 'T', 'F', 'V', 'N', 'P':
		return int(tok[0] - '0'), tok[1], true
	}
	return 0, 0, false
}

type evalCtx struct {
	result   *AttrRecord
	children []*AttrRecord
	table    *QuadTable
}

func (e *evalCtx) record(i int) *AttrRecord {
	if i == 0 {
		return e.result
	}
	return e.children[i-1]
}

func getField(r *AttrRecord, f byte) string {
	switch f {
	case 'C':
		return strconv.Itoa(r.Chain)
	case 'H':
		return strconv.Itoa(r.Head)
	case 'T':
		return strconv.Itoa(r.TC)
	case 'F':
		return strconv.Itoa(r.FC)
	case 'V':
		return r.Val
	}
	return ""
}

func setField(r *AttrRecord, f byte, val string) {
	switch f {
	case 'C':
		r.Chain = chainNext(val)
	case 'H':
		r.Head = chainNext(val)
	case 'T':
		r.TC = chainNext(val)
	case 'F':
		r.FC = chainNext(val)
	case 'V':
		r.Val = val
	}
}

// resolve evaluates an operand: a literal token is returned unchanged, a
// descriptor resolves against ctx's records or the virtual N/P fields.
func (e *evalCtx) resolve(tok string) string {
	if tok == "J" {
		return "J"
	}
	idx, field, ok := isDescriptor(tok)
	if !ok {
		return tok
	}
	switch field {
	case 'N':
		return strconv.Itoa(e.table.Next())
	case 'P':
		return e.table.NewTemp()
	default:
		return getField(e.record(idx), field)
	}
}

// QuadEmitter builds a quadruple table by running a per-production
// intermediate-code action list on every reduction.
type QuadEmitter struct {
	actions map[string][]QuadAction
	table   *QuadTable
	stack   util.Stack[*AttrRecord]
}

// NewQuadEmitter returns a QuadEmitter driven by actions, keyed by
// ProductionKey, emitting into a fresh table.
func NewQuadEmitter(actions map[string][]QuadAction) *QuadEmitter {
	return &QuadEmitter{actions: actions, table: NewQuadTable()}
}

// Shift initializes an attribute record from the shifted token's text,
// with every other field zero.
func (e *QuadEmitter) Shift(tok types.Token) {
	e.stack.Push(&AttrRecord{Val: tok.Text()})
}

// Reduce runs the bound action list, in order, against a fresh result
// record and the popped child records, then pushes the result record.
func (e *QuadEmitter) Reduce(prodIdx int, head string, body []string) {
	k := len(body)
	children := e.stack.PopN(k)

	result := &AttrRecord{}
	ctx := &evalCtx{result: result, children: children, table: e.table}

	for _, act := range e.actions[ProductionKey(head, body)] {
		e.execute(ctx, act)
	}

	e.stack.Push(result)
}

func (e *QuadEmitter) execute(ctx *evalCtx, act QuadAction) {
	switch act.Op {
	case 0: // dst src
		if len(act.Operands) < 2 {
			return
		}
		idx, field, ok := isDescriptor(act.Operands[0])
		if !ok || field == 'N' || field == 'P' {
			return
		}
		val := ctx.resolve(act.Operands[1])
		setField(ctx.record(idx), field, val)

	case 1: // a b c d -> GEN(op=a, arg1=b, arg2=c, result=d)
		if len(act.Operands) < 4 {
			return
		}
		op := ctx.resolve(act.Operands[0])
		a1 := ctx.resolve(act.Operands[1])
		a2 := ctx.resolve(act.Operands[2])
		res := ctx.resolve(act.Operands[3])
		ctx.table.Gen(op, a1, a2, res)

	case 2: // dst b c -> dst <- Merge(b, c)
		if len(act.Operands) < 3 {
			return
		}
		idx, field, ok := isDescriptor(act.Operands[0])
		if !ok || field == 'N' || field == 'P' {
			return
		}
		b := chainNext(ctx.resolve(act.Operands[1]))
		c := chainNext(ctx.resolve(act.Operands[2]))
		merged := ctx.table.Merge(b, c)
		setField(ctx.record(idx), field, strconv.Itoa(merged))

	case 3: // p t -> BackPatch(p, t)
		if len(act.Operands) < 2 {
			return
		}
		p := chainNext(ctx.resolve(act.Operands[0]))
		tgt := chainNext(ctx.resolve(act.Operands[1]))
		ctx.table.BackPatch(p, tgt)
	}
}

// Table returns the quadruple table built so far.
func (e *QuadEmitter) Table() *QuadTable {
	return e.table
}

// Finish back-patches the final Chain of the top-of-stack record to NEXT,
// so the program's "next statement" points past the last emitted quadruple.
// Call this once after a successful parse.
func (e *QuadEmitter) Finish() {
	if e.stack.Empty() {
		return
	}
	top := e.stack.Peek()
	e.table.BackPatch(top.Chain, e.table.Next())
}
