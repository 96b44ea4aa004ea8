// Package langerr holds the structured diagnostics shared by every stage of
// the compiler-construction pipeline. Each error kind is a distinct
// sentinel so callers can dispatch on it with errors.Is, paired with a
// rich, positioned error type.
package langerr

import (
	"errors"
	"fmt"

	"github.com/dekarrin/rosed"
)

// Sentinel causes. Wrap one of these into a *SyntaxError (via New) so that
// errors.Is(err, ErrParseFailure) works regardless of the message text.
var (
	ErrMalformedRegex       = errors.New("regular expression is malformed")
	ErrMalformedGrammar     = errors.New("grammar source is malformed")
	ErrReduceReduceConflict = errors.New("grammar is not LALR(1): reduce/reduce conflict")
	ErrParseFailure         = errors.New("input does not match grammar")
	ErrScannerFailure       = errors.New("no token definition matches input")
	ErrMalformedLexFile     = errors.New("lex file input is malformed")
)

// diagnosticWrapWidth is the column at which FullMessage wraps the
// offending line.
const diagnosticWrapWidth = 76

// SyntaxError is a positioned diagnostic: a message plus the exact source
// line, 1-indexed line and column, that caused it. It is returned by every
// component in place of an unadorned error so that a caller can render a
// caret at the offending position.
type SyntaxError struct {
	cause   error
	message string

	line    int
	pos     int
	srcLine string
}

// New builds a SyntaxError with no source position; used for errors that
// aren't tied to a specific line, such as an unresolvable LALR conflict
// identified only by state.
func New(cause error, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{cause: cause, message: fmt.Sprintf(format, args...)}
}

// NewAt builds a SyntaxError positioned at the given 1-indexed line/column.
func NewAt(cause error, line, pos int, srcLine, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{cause: cause, message: fmt.Sprintf(format, args...), line: line, pos: pos, srcLine: srcLine}
}

func (e *SyntaxError) Error() string {
	if e.line == 0 {
		return e.message
	}
	return fmt.Sprintf("line %d, col %d: %s", e.line, e.pos, e.message)
}

func (e *SyntaxError) Unwrap() error {
	return e.cause
}

// FullMessage renders the error together with the offending source line and
// a caret pointing at the column, word-wrapped for console output.
func (e *SyntaxError) FullMessage() string {
	if e.line == 0 || e.srcLine == "" {
		return e.Error()
	}

	cursor := ""
	for i := 0; i < e.pos-1; i++ {
		cursor += " "
	}
	cursor += "^"

	wrapped := rosed.Edit(e.srcLine).Wrap(diagnosticWrapWidth).String()
	return fmt.Sprintf("%s\n%s\n%s", wrapped, cursor, e.Error())
}

// Warning is a non-fatal diagnostic surfaced alongside a successful table
// build, used for the tolerated shift/reduce conflict case.
type Warning struct {
	State   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("state %s: %s", w.State, w.Message)
}
