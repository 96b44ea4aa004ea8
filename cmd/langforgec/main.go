/*
Langforgec compiles a regex/grammar source pair into a scanner and parser and
runs it once against a token source, emitting the lex stream, parse tree,
AST, and/or quadruple table.

Usage:

	langforgec -r FILE -g FILE [flags]

The flags are:

	-v, --version
		Print the current version and exit.

	-r, --regex FILE
		Regex definition source file.

	-g, --grammar FILE
		Grammar source file.

	-s, --syntax-actions FILE
		Syntax-action file binding AST roles to productions. Optional;
		unbound productions fall back to promoting their first child.

	-q, --quad-actions FILE
		Intermediate-code-action file binding quadruple emission to
		productions. Optional; productions with no bound actions emit
		nothing.

	-t, --tokens FILE
		Token source text to run through the built scanner and parser.
		Defaults to stdin.

	--lex-input
		Treat --tokens as lex-file input ("<text> <token-name>" pairs,
		one per line, as emitted by --emit lex) instead of raw source
		text, bypassing the scanner. Lines with an "annotation" token
		class are skipped.

	--emit lex|tree|ast|quads|all
		Which artifact(s) to print. Defaults to "all".
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"

	"github.com/marrowgate/langforge/config"
	"github.com/marrowgate/langforge/internal/version"
	"github.com/marrowgate/langforge/scan"
	"github.com/marrowgate/langforge/sdt"
	"github.com/marrowgate/langforge/session"
	"github.com/marrowgate/langforge/types"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInitError indicates a failure building the scanner and parser
	// from the given sources.
	ExitInitError

	// ExitRunError indicates a failure scanning or parsing the given
	// token source.
	ExitRunError
)

var (
	returnCode = ExitSuccess

	flagVersion  = pflag.BoolP("version", "v", false, "print the current version and exit")
	regexFile    = pflag.StringP("regex", "r", "", "regex definition source file")
	grammarFile  = pflag.StringP("grammar", "g", "", "grammar source file")
	syntaxFile   = pflag.StringP("syntax-actions", "s", "", "syntax-action source file")
	quadFile     = pflag.StringP("quad-actions", "q", "", "intermediate-code-action source file")
	tokensFile   = pflag.StringP("tokens", "t", "", "token source file (defaults to stdin)")
	lexInput     = pflag.Bool("lex-input", false, "treat --tokens as lex-file input (\"<text> <token-name>\" pairs) instead of raw source text, bypassing the scanner")
	emit         = pflag.String("emit", "all", "artifact(s) to print: lex, tree, ast, quads, or all")
)

func main() {
	defer func() { os.Exit(returnCode) }()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	gologger.DefaultLogger.SetMaxLevel(levels.LevelInfo)

	if *regexFile == "" || *grammarFile == "" {
		gologger.Error().Msg("both --regex and --grammar are required")
		returnCode = ExitInitError
		return
	}

	regexLines, err := readLines(*regexFile)
	if err != nil {
		gologger.Error().Msgf("read regex source: %v", err)
		returnCode = ExitInitError
		return
	}
	grammarLines, err := readLines(*grammarFile)
	if err != nil {
		gologger.Error().Msgf("read grammar source: %v", err)
		returnCode = ExitInitError
		return
	}

	cfg := config.Config{Cache: config.Cache{Backend: "inmem"}}.FillDefaults()

	sess, warnings, err := session.New(cfg, regexLines, grammarLines).Compile()
	if err != nil {
		gologger.Error().Msgf("compile: %v", err)
		returnCode = ExitInitError
		return
	}
	for _, w := range warnings {
		gologger.Warning().Msg(w.String())
	}

	actions := session.ActionTables{}
	if *syntaxFile != "" {
		lines, err := readLines(*syntaxFile)
		if err != nil {
			gologger.Error().Msgf("read syntax-action source: %v", err)
			returnCode = ExitInitError
			return
		}
		actions.Syntax, err = sdt.ParseSyntaxActions(lines)
		if err != nil {
			gologger.Error().Msgf("parse syntax-action source: %v", err)
			returnCode = ExitInitError
			return
		}
	}
	if *quadFile != "" {
		lines, err := readLines(*quadFile)
		if err != nil {
			gologger.Error().Msgf("read intermediate-code-action source: %v", err)
			returnCode = ExitInitError
			return
		}
		actions.Quad, err = sdt.ParseQuadActions(lines)
		if err != nil {
			gologger.Error().Msgf("parse intermediate-code-action source: %v", err)
			returnCode = ExitInitError
			return
		}
	}

	src := os.Stdin
	if *tokensFile != "" {
		f, err := os.Open(*tokensFile)
		if err != nil {
			gologger.Error().Msgf("open token source: %v", err)
			returnCode = ExitInitError
			return
		}
		defer f.Close()
		src = f
	}

	run := sess.NewRun(actions)
	var result session.Result
	if *lexInput {
		result, err = run.ExecuteTokens(src)
	} else {
		result, err = run.Execute(src)
	}
	if err != nil {
		gologger.Error().Msgf("run: %v", err)
		returnCode = ExitRunError
		return
	}

	printResult(result, *emit)
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(data), "\n"), nil
}

func wants(emit, artifact string) bool {
	return emit == "all" || emit == artifact
}

func printResult(result session.Result, emit string) {
	if wants(emit, "lex") {
		pterm.DefaultSection.Println("lex")
		fmt.Print(scan.Format(result.Tokens))
	}
	if wants(emit, "tree") {
		pterm.DefaultSection.Println("tree")
		renderParseTree(result.Tree)
	}
	if wants(emit, "ast") {
		pterm.DefaultSection.Println("ast")
		renderASTNode(result.AST)
	}
	if wants(emit, "quads") {
		pterm.DefaultSection.Println("quads")
		for i, q := range result.Quads {
			if i == 0 {
				continue
			}
			fmt.Printf("%d: (%s, %s, %s, %s)\n", i, q.Op, q.Arg1, q.Arg2, q.Result)
		}
	}
}

func renderParseTree(pt *types.ParseTree) {
	root := parseTreeNode(pt)
	pterm.DefaultTree.WithRoot(root).Render()
}

func parseTreeNode(pt *types.ParseTree) pterm.TreeNode {
	if pt == nil {
		return pterm.TreeNode{Text: "(nil)"}
	}
	if pt.Terminal {
		return pterm.TreeNode{Text: fmt.Sprintf("%q", pt.Source.Text())}
	}
	node := pterm.TreeNode{Text: pt.Symbol}
	for _, c := range pt.Children {
		node.Children = append(node.Children, parseTreeNode(c))
	}
	return node
}

func renderASTNode(n *types.ASTNode) {
	root := astNode(n)
	pterm.DefaultTree.WithRoot(root).Render()
}

func astNode(n *types.ASTNode) pterm.TreeNode {
	if n == nil {
		return pterm.TreeNode{Text: "(nil)"}
	}
	if n.Terminal {
		return pterm.TreeNode{Text: fmt.Sprintf("%q", n.Source.Text())}
	}
	node := pterm.TreeNode{Text: n.Symbol}
	for _, c := range n.Children {
		node.Children = append(node.Children, astNode(c))
	}
	for _, s := range n.Sibling {
		node.Children = append(node.Children, astNode(s))
	}
	return node
}
