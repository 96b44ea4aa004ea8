// Package langforgecache caches compiled scanner specs and LALR(1) tables
// keyed by a structural hash of their source material, so a session built
// twice from identical regex and grammar sources skips recompiling them.
// Action sources are not part of the key; they are bound per run.
// A Store is selected by a config.CacheBackend value, the same way a
// database connection is selected by a config enum.
package langforgecache

import (
	"context"
	"fmt"

	"github.com/dekarrin/rezi"
)

// Store is a content-addressed cache of encoded cache entries.
type Store interface {
	// Get returns the cached bytes for key, or ok=false on a miss.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key, overwriting any existing entry.
	Set(ctx context.Context, key string, data []byte) error
	Close() error
}

// ScannerDFASnapshot is a flat, serializable copy of one named DFA in a
// scanner spec: states by name, which are accepting, and their
// transitions. States lists every state name in the numeric order the
// originating automaton package assigned them, so a decoder can
// reconstruct identical names by re-adding states in that same order.
type ScannerDFASnapshot struct {
	Name       string
	Start      string
	States     []string
	Accepting  map[string]bool
	Transition map[string]map[string]string
}

// ScannerSnapshot is every named DFA of a compiled scanner spec, in the
// order the scanner tries them: keyword DFAs first, then every other
// name in insertion order.
type ScannerSnapshot struct {
	DFAs []ScannerDFASnapshot
}

// ActionSnapshot is a flat copy of one lr.Action table cell.
type ActionSnapshot struct {
	Kind       int
	ShiftState string
	ReduceHead string
	ReduceBody []string
	ReduceIdx  int
}

// ProductionSnapshot is a flat copy of one lr.ProductionRef.
type ProductionSnapshot struct {
	NonTerminal string
	Body        []string
}

// WarningSnapshot is a flat copy of one langerr.Warning.
type WarningSnapshot struct {
	State   string
	Message string
}

// TableSnapshot is a flat, serializable copy of a built lr.Table.
type TableSnapshot struct {
	Start       string
	Productions []ProductionSnapshot
	Action      map[string]map[string]ActionSnapshot
	Goto        map[string]map[string]string
	Warnings    []WarningSnapshot
}

// Entry is the cached unit of work for one compiled session: the scanner
// spec and the LALR(1) table, encoded together so a cache hit restores
// both at once.
type Entry struct {
	Scanner ScannerSnapshot
	Table   TableSnapshot
}

// EncodeEntry serializes e with rezi.
func EncodeEntry(e Entry) ([]byte, error) {
	data, err := rezi.Enc(e)
	if err != nil {
		return nil, fmt.Errorf("encode cache entry: %w", err)
	}
	return data, nil
}

// DecodeEntry deserializes data produced by EncodeEntry. A decode failure
// is treated by callers as a cache miss, not a hard error.
func DecodeEntry(data []byte) (Entry, error) {
	var e Entry
	n, err := rezi.Dec(data, &e)
	if err != nil {
		return Entry{}, fmt.Errorf("decode cache entry: %w", err)
	}
	if n != len(data) {
		return Entry{}, fmt.Errorf("decode cache entry: consumed %d/%d bytes", n, len(data))
	}
	return e, nil
}
