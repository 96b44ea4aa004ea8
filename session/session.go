// Package session ties the compiler-construction pipeline together: given
// regex and grammar source text it builds a scanner spec and an LALR(1)
// table once, transparently caching the result in a langforgecache.Store,
// then lets a caller bind syntax-action and intermediate-code-action
// tables to run any number of parses against the built Session.
package session

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cnf/structhash"
	"github.com/google/uuid"
	"github.com/projectdiscovery/gologger"

	"github.com/marrowgate/langforge/config"
	"github.com/marrowgate/langforge/grammar"
	"github.com/marrowgate/langforge/internal/util"
	"github.com/marrowgate/langforge/langerr"
	"github.com/marrowgate/langforge/langforgecache"
	"github.com/marrowgate/langforge/lr"
	"github.com/marrowgate/langforge/parse"
	"github.com/marrowgate/langforge/regex"
	"github.com/marrowgate/langforge/scan"
	"github.com/marrowgate/langforge/sdt"
	"github.com/marrowgate/langforge/types"
)

// Builder holds the raw source material for one compilation and the config
// that selects its cache backend.
type Builder struct {
	cfg          config.Config
	regexLines   []string
	grammarLines []string
	store        langforgecache.Store
}

// New returns a Builder ready to compile regexLines and grammarLines under
// cfg's cache settings.
func New(cfg config.Config, regexLines, grammarLines []string) *Builder {
	return &Builder{
		cfg:          cfg.FillDefaults(),
		regexLines:   regexLines,
		grammarLines: grammarLines,
	}
}

// WithStore overrides the Store the Builder would otherwise construct from
// cfg.Cache, letting a caller (tests, an embedding process holding one
// store open across many builds) supply its own.
func (b *Builder) WithStore(store langforgecache.Store) *Builder {
	b.store = store
	return b
}

func (b *Builder) resolveStore() (langforgecache.Store, error) {
	if b.store != nil {
		return b.store, nil
	}

	backend, err := config.ParseCacheBackend(b.cfg.Cache.Backend)
	if err != nil {
		return nil, err
	}

	switch backend {
	case config.CacheNone:
		return nil, nil
	case config.CacheMem:
		return langforgecache.NewMemStore(), nil
	case config.CacheSQLite:
		return langforgecache.NewSQLiteStore(b.cfg.Cache.DataDir)
	default:
		return nil, fmt.Errorf("session: unhandled cache backend %q", backend)
	}
}

// sourceKey hashes the raw source lines with structhash, giving a stable
// cache key that changes whenever either source does.
func sourceKey(regexLines, grammarLines []string) (string, error) {
	h, err := structhash.Hash(struct {
		Regex   []string
		Grammar []string
	}{regexLines, grammarLines}, 1)
	if err != nil {
		return "", fmt.Errorf("session: hash source material: %w", err)
	}
	return h, nil
}

// Session is a compiled scanner spec and LALR(1) table, ready to have
// action tables bound to it for a Run.
type Session struct {
	ID      uuid.UUID
	Scanner *scan.Spec
	Grammar *grammar.Grammar
	First   map[string]util.StringSet
	Follow  map[string]util.StringSet
	Table   *lr.Table
}

// Compile builds a Session from the Builder's sources, checking the cache
// first and populating it on a miss. The returned warnings are the LALR
// table's shift/reduce resolutions, empty on a cache hit since they were
// already surfaced the first time the table was built.
func (b *Builder) Compile() (*Session, []langerr.Warning, error) {
	store, err := b.resolveStore()
	if err != nil {
		return nil, nil, err
	}
	if store != nil {
		defer store.Close()
	}

	key, err := sourceKey(b.regexLines, b.grammarLines)
	if err != nil {
		return nil, nil, err
	}

	ctx := context.Background()

	if store != nil {
		if raw, ok, err := store.Get(ctx, key); err != nil {
			gologger.Warning().Msgf("langforge: cache lookup for %s failed, recompiling: %v", key, err)
		} else if ok {
			entry, err := langforgecache.DecodeEntry(raw)
			if err != nil {
				gologger.Warning().Msgf("langforge: cache entry for %s failed to decode, recompiling: %v", key, err)
			} else {
				return &Session{
					ID:      uuid.New(),
					Scanner: scannerFromSnapshot(entry.Scanner),
					Table:   tableFromSnapshot(entry.Table),
				}, nil, nil
			}
		}
	}

	scanner, err := b.buildScanner()
	if err != nil {
		return nil, nil, err
	}

	g, err := grammar.ParseSource(b.grammarLines)
	if err != nil {
		return nil, nil, err
	}
	g.Augment()

	first := grammar.FirstSets(g)
	follow := grammar.FollowSets(g, first)

	table, err := lr.Build(g)
	if err != nil {
		return nil, nil, err
	}

	if store != nil {
		entry := langforgecache.Entry{
			Scanner: scannerToSnapshot(scanner),
			Table:   tableToSnapshot(table),
		}
		data, err := langforgecache.EncodeEntry(entry)
		if err != nil {
			gologger.Warning().Msgf("langforge: failed to encode cache entry for %s: %v", key, err)
		} else if err := store.Set(ctx, key, data); err != nil {
			gologger.Warning().Msgf("langforge: failed to write cache entry for %s: %v", key, err)
		}
	}

	return &Session{
		ID:      uuid.New(),
		Scanner: scanner,
		Grammar: g,
		First:   first,
		Follow:  follow,
		Table:   table,
	}, table.Warnings, nil
}

// buildScanner compiles the Builder's regex source into a scan.Spec,
// recovering the exported definitions' declaration order from ParseLines
// since CompileSource's returned map does not preserve it -- and order is
// what decides maximal-munch tie-breaking between two DFAs that both match
// the longest available prefix. A "keyword" definition is moved to the
// front; every other name keeps its declaration order.
func (b *Builder) buildScanner() (*scan.Spec, error) {
	defs, err := regex.ParseLines(b.regexLines)
	if err != nil {
		return nil, err
	}
	compiled, err := regex.CompileSource(b.regexLines)
	if err != nil {
		return nil, err
	}

	var order []string
	seen := map[string]bool{}
	for _, d := range defs {
		if !strings.HasPrefix(d.Name, "_") {
			continue
		}
		name := strings.TrimPrefix(d.Name, "_")
		if seen[name] {
			continue
		}
		seen[name] = true
		if name == "keyword" {
			order = append([]string{name}, order...)
			continue
		}
		order = append(order, name)
	}

	dfas := make([]scan.NamedDFA, 0, len(order))
	for _, name := range order {
		cr, ok := compiled[name]
		if !ok {
			continue
		}
		dfas = append(dfas, scan.NamedDFA{Name: name, DFA: cr.DFA})
	}

	return scan.NewSpec(dfas...), nil
}

// ActionTables binds the syntax-action and intermediate-code-action tables
// a Run drives its two semantic evaluators with.
type ActionTables struct {
	Syntax map[string][]sdt.Role
	Quad   map[string][]sdt.QuadAction
}

// Run is one parse bound to a Session's scanner and table plus one set of
// action tables, ready to Execute against any number of inputs.
type Run struct {
	session *Session
	actions ActionTables
}

// NewRun binds actions to s, ready to Execute against input text.
func (s *Session) NewRun(actions ActionTables) *Run {
	return &Run{session: s, actions: actions}
}

// Result is everything a single Execute call produces: the raw token
// stream, the concrete parse tree, the built AST, and the emitted
// three-address code.
type Result struct {
	Tokens []types.Token
	Tree   *types.ParseTree
	AST    *types.ASTNode
	Quads  []sdt.Quad
}

// Execute scans src, drives the shift-reduce parser over the result while
// notifying both the AST builder and the quadruple emitter of every
// shift/reduce in lockstep, and assembles the combined Result.
func (r *Run) Execute(src io.Reader) (Result, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return Result{}, fmt.Errorf("session: read input: %w", err)
	}

	tokens := scan.Run(r.session.Scanner, string(data))
	return r.drive(tokens)
}

// ExecuteTokens parses src as lex-file-input text -- pre-lexed
// "<text> <token-name>" pairs, with any annotation-typed lines dropped --
// and drives the parser directly over the result, bypassing the scanner
// entirely.
func (r *Run) ExecuteTokens(src io.Reader) (Result, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return Result{}, fmt.Errorf("session: read lex-file input: %w", err)
	}

	tokens, err := scan.ParseLexFile(strings.Split(string(data), "\n"))
	if err != nil {
		return Result{}, err
	}
	return r.drive(tokens)
}

// drive runs the shift-reduce parser over tokens, notifying both the AST
// builder and the quadruple emitter of every shift/reduce in lockstep, and
// assembles the combined Result.
func (r *Run) drive(tokens []types.Token) (Result, error) {
	stream := types.NewTokenStream(tokens)

	astBuilder := sdt.NewASTBuilder(r.actions.Syntax)
	quadEmitter := sdt.NewQuadEmitter(r.actions.Quad)

	driver := parse.NewDriver(r.session.Table)
	tree, err := driver.Parse(stream, astBuilder, quadEmitter)
	if err != nil {
		return Result{}, err
	}
	quadEmitter.Finish()

	return Result{
		Tokens: tokens,
		Tree:   tree,
		AST:    astBuilder.Result(),
		Quads:  quadEmitter.Table().Quads(),
	}, nil
}
