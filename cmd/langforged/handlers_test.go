package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marrowgate/langforge/config"
)

func newTestRouter() *chi.Mux {
	a := api{cfg: config.Config{Cache: config.Cache{Backend: "none"}}.FillDefaults(), reg: newRegistry()}

	r := chi.NewRouter()
	r.Post("/sessions", endpoint(a.createSession))
	r.Get("/sessions/{id}", endpoint(a.getSession))
	r.Post("/sessions/{id}/runs", endpoint(a.runSession))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *strings.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(data))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func Test_CreateSession_CompilesAndReturnsID(t *testing.T) {
	r := newTestRouter()

	rec, env := doJSON(t, r, http.MethodPost, "/sessions", createSessionRequest{
		Regex:   "_digit = [0-9]\n_plus = \\+\n",
		Grammar: "E -> E plus digit | digit\n",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ok", env.Status)
	assert.NotEmpty(t, env.Data)
}

func Test_CreateSession_MissingGrammarIsBadRequest(t *testing.T) {
	r := newTestRouter()

	rec, env := doJSON(t, r, http.MethodPost, "/sessions", createSessionRequest{Regex: "_digit = [0-9]\n"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", env.Status)
}

func Test_GetSession_UnknownIDIsNotFound(t *testing.T) {
	r := newTestRouter()

	rec, env := doJSON(t, r, http.MethodGet, "/sessions/00000000-0000-0000-0000-000000000000", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", env.Status)
}

func Test_RunSession_EndToEnd(t *testing.T) {
	r := newTestRouter()

	_, createEnv := doJSON(t, r, http.MethodPost, "/sessions", createSessionRequest{
		Regex:   "_digit = [0-9]\n_plus = \\+\n",
		Grammar: "E -> E plus digit | digit\n",
	})
	data, ok := createEnv.Data.(map[string]interface{})
	require.True(t, ok)
	id, ok := data["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)

	rec, runEnv := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/runs", runRequest{Tokens: "1 + 2"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", runEnv.Status)

	runData, ok := runEnv.Data.(map[string]interface{})
	require.True(t, ok)
	toks, ok := runData["tokens"].([]interface{})
	require.True(t, ok)
	assert.Len(t, toks, 3)
}

func Test_RunSession_LexInputSkipsAnnotationTokens(t *testing.T) {
	r := newTestRouter()

	_, createEnv := doJSON(t, r, http.MethodPost, "/sessions", createSessionRequest{
		Regex:   "_digit = [0-9]\n_plus = \\+\n",
		Grammar: "E -> E plus digit | digit\n",
	})
	data, ok := createEnv.Data.(map[string]interface{})
	require.True(t, ok)
	id, ok := data["id"].(string)
	require.True(t, ok)

	lexTokens := "1 digit\n// a comment annotation\n+ plus\n2 digit\n"
	rec, runEnv := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/runs", runRequest{Tokens: lexTokens, LexInput: true})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", runEnv.Status)

	runData, ok := runEnv.Data.(map[string]interface{})
	require.True(t, ok)
	toks, ok := runData["tokens"].([]interface{})
	require.True(t, ok)
	assert.Len(t, toks, 3) // the annotation line is dropped
}
