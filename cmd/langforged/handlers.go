package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/marrowgate/langforge/config"
	"github.com/marrowgate/langforge/sdt"
	"github.com/marrowgate/langforge/session"
)

// createSessionRequest is the body of POST /sessions: regex and grammar
// source, each given as a newline-delimited string since that's also how
// langforgec's -r/-g flags read their files.
type createSessionRequest struct {
	Regex   string `json:"regex"`
	Grammar string `json:"grammar"`
}

type runRequest struct {
	Tokens        string `json:"tokens"`
	LexInput      bool   `json:"lex_input,omitempty"`
	SyntaxActions string `json:"syntax_actions,omitempty"`
	QuadActions   string `json:"quad_actions,omitempty"`
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

type api struct {
	cfg config.Config
	reg *registry
}

func (a api) createSession(req *http.Request) endpointResult {
	var body createSessionRequest
	if err := parseJSON(req, &body); err != nil {
		return badRequest(err.Error())
	}
	if strings.TrimSpace(body.Regex) == "" {
		return badRequest("regex: property is empty or missing from request")
	}
	if strings.TrimSpace(body.Grammar) == "" {
		return badRequest("grammar: property is empty or missing from request")
	}

	sess, warnings, err := session.New(a.cfg, splitLines(body.Regex), splitLines(body.Grammar)).Compile()
	if err != nil {
		return badRequest("could not compile session: " + err.Error())
	}

	a.reg.put(sess, warnings)

	return ok(http.StatusCreated, toSessionView(sess, warnings), "session %s compiled", sess.ID)
}

func (a api) getSession(req *http.Request) endpointResult {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		return badRequest("id: not a valid session ID")
	}

	e, found := a.reg.get(id)
	if !found {
		return notFound(errNotFound.Error())
	}

	return ok(http.StatusOK, toSessionView(e.sess, e.warnings), "session %s fetched", id)
}

func (a api) runSession(req *http.Request) endpointResult {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		return badRequest("id: not a valid session ID")
	}

	e, found := a.reg.get(id)
	if !found {
		return notFound(errNotFound.Error())
	}

	var body runRequest
	if err := parseJSON(req, &body); err != nil {
		return badRequest(err.Error())
	}

	actions := session.ActionTables{}
	if body.SyntaxActions != "" {
		actions.Syntax, err = sdt.ParseSyntaxActions(splitLines(body.SyntaxActions))
		if err != nil {
			return badRequest("syntax_actions: " + err.Error())
		}
	}
	if body.QuadActions != "" {
		actions.Quad, err = sdt.ParseQuadActions(splitLines(body.QuadActions))
		if err != nil {
			return badRequest("quad_actions: " + err.Error())
		}
	}

	run := e.sess.NewRun(actions)
	var result session.Result
	if body.LexInput {
		result, err = run.ExecuteTokens(strings.NewReader(body.Tokens))
	} else {
		result, err = run.Execute(strings.NewReader(body.Tokens))
	}
	if err != nil {
		return badRequest("run failed: " + err.Error())
	}

	return ok(http.StatusOK, toRunView(result), "session %s run: %d token(s)", id, len(result.Tokens))
}
