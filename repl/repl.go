// Package repl implements an interactive shell over one in-memory
// session.Session, built up incrementally as the user loads regex and
// grammar source files and runs input through the resulting scanner and
// parser.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/marrowgate/langforge/config"
	"github.com/marrowgate/langforge/langerr"
	"github.com/marrowgate/langforge/scan"
	"github.com/marrowgate/langforge/sdt"
	"github.com/marrowgate/langforge/session"
)

// Shell is a line-oriented read-eval-print loop. Commands start with ':';
// anything else is reported as unrecognized rather than fed to a session,
// since the workbench has no notion of "game commands" to fall back to.
type Shell struct {
	cfg config.Config
	rl  *readline.Instance
	out io.Writer

	regexLines   []string
	grammarLines []string
	syntaxLines  []string
	quadLines    []string

	sess     *session.Session
	warnings []langerr.Warning
	result   session.Result
	haveRun  bool
}

// New opens a readline-backed shell writing session output to out.
func New(cfg config.Config, out io.Writer) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: "langforge> "})
	if err != nil {
		return nil, fmt.Errorf("repl: create readline: %w", err)
	}
	return &Shell{cfg: cfg, rl: rl, out: out}, nil
}

// Close releases the shell's readline resources.
func (s *Shell) Close() error {
	return s.rl.Close()
}

// Run reads and dispatches commands until :quit or end of input.
func (s *Shell) Run() error {
	fmt.Fprintln(s.out, "langforge interactive session. Type :quit to exit.")

	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			return fmt.Errorf("repl: read line: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, ":") {
			fmt.Fprintf(s.out, "unrecognized input %q: commands start with ':'\n", line)
			continue
		}
		if line == ":quit" {
			fmt.Fprintln(s.out, "goodbye")
			return nil
		}

		if err := s.dispatch(line); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

func (s *Shell) dispatch(line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case ":load-regex":
		return s.loadRegex(args)
	case ":load-grammar":
		return s.loadGrammar(args)
	case ":load-syntax-actions":
		return s.loadSyntaxActions(args)
	case ":load-quad-actions":
		return s.loadQuadActions(args)
	case ":run":
		return s.runInput(args, false)
	case ":run-lex":
		return s.runInput(args, true)
	case ":tree":
		return s.showTree()
	case ":ast":
		return s.showAST()
	case ":quads":
		return s.showQuads()
	case ":warnings":
		return s.showWarnings()
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func (s *Shell) loadRegex(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf(":load-regex takes exactly one FILE argument")
	}
	lines, err := readLines(args[0])
	if err != nil {
		return err
	}
	s.regexLines = lines
	s.sess = nil
	fmt.Fprintf(s.out, "loaded %d regex definition line(s) from %s\n", len(lines), args[0])
	return s.recompile()
}

func (s *Shell) loadGrammar(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf(":load-grammar takes exactly one FILE argument")
	}
	lines, err := readLines(args[0])
	if err != nil {
		return err
	}
	s.grammarLines = lines
	s.sess = nil
	fmt.Fprintf(s.out, "loaded %d grammar rule line(s) from %s\n", len(lines), args[0])
	return s.recompile()
}

func (s *Shell) loadSyntaxActions(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf(":load-syntax-actions takes exactly one FILE argument")
	}
	lines, err := readLines(args[0])
	if err != nil {
		return err
	}
	if _, err := sdt.ParseSyntaxActions(lines); err != nil {
		return fmt.Errorf("parse syntax actions: %w", err)
	}
	s.syntaxLines = lines
	fmt.Fprintf(s.out, "loaded syntax actions from %s\n", args[0])
	return nil
}

func (s *Shell) loadQuadActions(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf(":load-quad-actions takes exactly one FILE argument")
	}
	lines, err := readLines(args[0])
	if err != nil {
		return err
	}
	if _, err := sdt.ParseQuadActions(lines); err != nil {
		return fmt.Errorf("parse intermediate-code actions: %w", err)
	}
	s.quadLines = lines
	fmt.Fprintf(s.out, "loaded intermediate-code actions from %s\n", args[0])
	return nil
}

// recompile rebuilds the session once both regex and grammar source are
// loaded, discarding any previous run's result.
func (s *Shell) recompile() error {
	s.haveRun = false
	if len(s.regexLines) == 0 || len(s.grammarLines) == 0 {
		return nil
	}

	sess, warnings, err := session.New(s.cfg, s.regexLines, s.grammarLines).Compile()
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	s.sess = sess
	s.warnings = warnings
	fmt.Fprintln(s.out, "session compiled")
	for _, w := range warnings {
		fmt.Fprintf(s.out, "warning: %s\n", w.String())
	}
	return nil
}

// runInput runs :run (lexInput false, raw source text through the
// scanner) or :run-lex (lexInput true, pre-lexed "<text> <token-name>"
// pairs straight into the parser).
func (s *Shell) runInput(args []string, lexInput bool) error {
	if s.sess == nil {
		return fmt.Errorf("no session compiled yet: load a regex and a grammar file first")
	}
	if len(args) != 1 {
		return fmt.Errorf("takes exactly one FILE|- argument")
	}

	var src io.Reader
	if args[0] == "-" {
		src = os.Stdin
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()
		src = f
	}

	actions := session.ActionTables{}
	if s.syntaxLines != nil {
		actions.Syntax, _ = sdt.ParseSyntaxActions(s.syntaxLines)
	}
	if s.quadLines != nil {
		actions.Quad, _ = sdt.ParseQuadActions(s.quadLines)
	}

	run := s.sess.NewRun(actions)
	var result session.Result
	var err error
	if lexInput {
		result, err = run.ExecuteTokens(src)
	} else {
		result, err = run.Execute(src)
	}
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	s.result = result
	s.haveRun = true

	fmt.Fprintf(s.out, "scanned %d token(s)\n", len(result.Tokens))
	fmt.Fprint(s.out, scan.Format(result.Tokens))
	return nil
}

func (s *Shell) showTree() error {
	if !s.haveRun {
		return fmt.Errorf("no run yet: use :run first")
	}
	fmt.Fprintln(s.out, s.result.Tree.String())
	return nil
}

func (s *Shell) showAST() error {
	if !s.haveRun {
		return fmt.Errorf("no run yet: use :run first")
	}
	fmt.Fprintln(s.out, s.result.AST.String())
	return nil
}

func (s *Shell) showQuads() error {
	if !s.haveRun {
		return fmt.Errorf("no run yet: use :run first")
	}
	for i, q := range s.result.Quads {
		if i == 0 {
			continue
		}
		fmt.Fprintf(s.out, "%d: (%s, %s, %s, %s)\n", i, q.Op, q.Arg1, q.Arg2, q.Result)
	}
	return nil
}

func (s *Shell) showWarnings() error {
	if len(s.warnings) == 0 {
		fmt.Fprintln(s.out, "no warnings")
		return nil
	}
	for _, w := range s.warnings {
		fmt.Fprintln(s.out, w.String())
	}
	return nil
}
