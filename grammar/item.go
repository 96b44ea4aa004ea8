package grammar

import (
	"fmt"
	"strings"
)

// LR0Item is a production with a dot position, represented as the symbols
// to the left of the dot (Left, already matched) and the symbols to the
// right (Right, yet to match).
type LR0Item struct {
	NonTerminal string
	Left        []string
	Right       []string
}

// Core returns a string key identifying the item's core, ignoring any lookahead.
func (item LR0Item) Core() string {
	return fmt.Sprintf("%s -> %s . %s", item.NonTerminal, strings.Join(item.Left, " "), strings.Join(item.Right, " "))
}

func (item LR0Item) String() string {
	return item.Core()
}

// AtEnd reports whether the dot is at the end of the production, i.e. this
// item is a candidate for reduction.
func (item LR0Item) AtEnd() bool {
	return len(item.Right) == 0
}

// NextSymbol returns the symbol immediately after the dot and true, or
// ("", false) if the dot is at the end.
func (item LR0Item) NextSymbol() (string, bool) {
	if item.AtEnd() {
		return "", false
	}
	return item.Right[0], true
}

// Advance returns the item with the dot moved one position to the right,
// i.e. the item reached by GOTO on NextSymbol.
func (item LR0Item) Advance() LR0Item {
	if item.AtEnd() {
		return item
	}
	next := LR0Item{
		NonTerminal: item.NonTerminal,
		Left:        append(append([]string{}, item.Left...), item.Right[0]),
		Right:       append([]string{}, item.Right[1:]...),
	}
	return next
}

// LR1Item is an LR0Item plus a single lookahead terminal. A full item
// *set* groups several LR1Items sharing a core but differing lookaheads;
// here each LR1Item carries exactly one lookahead symbol and sets are
// represented as slices/maps of these at the call site, reducing
// set-union of lookaheads to plain set insertion.
type LR1Item struct {
	LR0Item
	Lookahead string
}

func (item LR1Item) String() string {
	return fmt.Sprintf("%s, %s", item.LR0Item.String(), item.Lookahead)
}

// Key is the full identity of the item including lookahead, used for
// LR(1)-state set equality.
func (item LR1Item) Key() string {
	return item.Core() + " | " + item.Lookahead
}
