/*
Langforged serves the compiler-construction workbench over HTTP: a session
is built once from posted regex/grammar source and kept in memory, then run
any number of times against posted token text.

Usage:

	langforged [-l ADDR]

Endpoints:

	POST /sessions
		Body: {"regex": "...", "grammar": "..."}. Compiles a new
		session and returns its ID and diagnostics.

	GET /sessions/{id}
		Returns the session's terminal set and compile-time
		warnings.

	POST /sessions/{id}/runs
		Body: {"tokens": "...", "lex_input": false,
		"syntax_actions": "...", "quad_actions": "..."}. Scans and
		parses tokens against the session, returning the token
		stream, parse tree, AST, and quadruple table. When
		"lex_input" is true, "tokens" is instead treated as
		lex-file-input text ("<text> <token-name>" pairs, one per
		line) and fed straight to the parser, bypassing the scanner;
		lines with an "annotation" token class are skipped.

There is no authentication layer: every session lives in one process's
memory and is addressable by anyone who holds its ID, same as a scratch
compiler invocation.
*/
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
	"github.com/spf13/pflag"

	"github.com/marrowgate/langforge/config"
	"github.com/marrowgate/langforge/internal/version"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "print the current version and exit")
	listenAddr  = pflag.StringP("listen", "l", "", "address to listen on (overrides config default of :8080)")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	gologger.DefaultLogger.SetMaxLevel(levels.LevelInfo)

	cfg := config.Config{}.FillDefaults()
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}

	a := api{cfg: cfg, reg: newRegistry()}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/sessions", endpoint(a.createSession))
	r.Get("/sessions/{id}", endpoint(a.getSession))
	r.Post("/sessions/{id}/runs", endpoint(a.runSession))

	gologger.Info().Msgf("langforged listening on %s", cfg.Server.ListenAddr)
	if err := http.ListenAndServe(cfg.Server.ListenAddr, r); err != nil {
		gologger.Fatal().Msgf("serve: %v", err)
	}
}

// parseJSON decodes req's body into v, which must be a pointer.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(strings.ToLower(contentType), "application/json") {
		return fmt.Errorf("request content-type is not application/json")
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("malformed JSON in request: %w", err)
	}
	return nil
}
