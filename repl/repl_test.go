package repl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marrowgate/langforge/config"
	"github.com/stretchr/testify/assert"
)

func writeTemp(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	s := &Shell{cfg: config.Config{Cache: config.Cache{Backend: "none"}}, out: &buf}
	return s, &buf
}

func Test_Shell_LoadAndCompileAndRun(t *testing.T) {
	dir := t.TempDir()
	regexFile := writeTemp(t, dir, "lex.txt", "_digit = [0-9]\n_plus = \\+\n")
	grammarFile := writeTemp(t, dir, "grammar.txt", "E -> E plus digit | digit\n")
	inputFile := writeTemp(t, dir, "input.txt", "1 + 2\n")

	s, out := newTestShell(t)

	assert.NoError(t, s.loadRegex([]string{regexFile}))
	assert.NoError(t, s.loadGrammar([]string{grammarFile}))
	assert.NotNil(t, s.sess)
	assert.Contains(t, out.String(), "session compiled")

	assert.NoError(t, s.runInput([]string{inputFile}, false))
	assert.True(t, s.haveRun)
	assert.Len(t, s.result.Tokens, 3) // "1", "+", "2"; the stream's end-of-input marker isn't part of this slice

	assert.NoError(t, s.showTree())
	assert.Contains(t, out.String(), "( E )")
}

func Test_Shell_RunLexSkipsAnnotationTokensAndParses(t *testing.T) {
	dir := t.TempDir()
	regexFile := writeTemp(t, dir, "lex.txt", "_digit = [0-9]\n_plus = \\+\n")
	grammarFile := writeTemp(t, dir, "grammar.txt", "E -> E plus digit | digit\n")
	lexFile := writeTemp(t, dir, "tokens.lex", "1 digit\n// a comment annotation\n+ plus\n2 digit\n")

	s, _ := newTestShell(t)
	assert.NoError(t, s.loadRegex([]string{regexFile}))
	assert.NoError(t, s.loadGrammar([]string{grammarFile}))

	assert.NoError(t, s.runInput([]string{lexFile}, true))
	assert.True(t, s.haveRun)
	assert.Len(t, s.result.Tokens, 3) // the annotation line is dropped
}

func Test_Shell_RunWithoutSessionFails(t *testing.T) {
	s, _ := newTestShell(t)
	err := s.runInput([]string{"whatever.txt"}, false)
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no session compiled"))
}

func Test_Shell_DispatchUnknownCommand(t *testing.T) {
	s, _ := newTestShell(t)
	err := s.dispatch(":bogus")
	assert.Error(t, err)
}

func Test_Shell_ShowWarningsWithNone(t *testing.T) {
	s, out := newTestShell(t)
	assert.NoError(t, s.showWarnings())
	assert.Contains(t, out.String(), "no warnings")
}
